package notify

import (
	htmltemplate "html/template"
	"io"
	"strings"
	texttemplate "text/template"

	"certify/internal/issuance/models"
)

// Journal is the publication name used in subjects and signatures.
const Journal = "História Revista"

const (
	subjectSuccess          = "Seu Certificado de Parecerista - " + Journal
	subjectValidationFailed = "Erro ao Gerar seu Certificado da " + Journal
	subjectTechnicalFailure = "Erro Técnico ao Gerar Certificado"
	subjectOperatorNotFound = "[Aviso] Falha de Validação de Certificado - " + Journal
	subjectOperatorFailure  = "[Alerta Urgente] Falha na Geração de Certificado - " + Journal
)

var successHTML = htmltemplate.Must(htmltemplate.New("success").Parse(`<p>Prezado(a) {{.FullName}},</p>
<p>É com grande satisfação que enviamos seu certificado de parecerista <i>ad hoc</i> para a {{.Journal}}.</p>
<p>O documento está em anexo neste e-mail.</p>
<p>Agradecemos imensamente sua valiosa contribuição.</p>
<br>
<p>Atenciosamente,<br>Equipe da {{.Journal}}.</p>
`))

var validationFailureHTML = htmltemplate.Must(htmltemplate.New("validation_failure").Parse(`<p>Prezado(a) parecerista,</p>
<p>Não foi possível gerar seu certificado. Os dados fornecidos (Usuário: {{.Username}}, Código do Artigo: {{.SubmissionCode}}) não foram encontrados em nossos registros de avaliações concluídas.</p>
<p>Por favor, verifique os dados e tente novamente. Se o erro persistir, entre em contato com a equipe editorial.</p>
<p><b>Lembrete:</b> a atualização da base de dados é mensal. Se sua colaboração foi muito recente, provavelmente será integrada no próximo ciclo.</p>
<br>
<p>Atenciosamente,<br>Equipe da {{.Journal}}.</p>
`))

var technicalFailureText = texttemplate.Must(texttemplate.New("technical_failure").Parse(`Prezado(a) parecerista,

Ocorreu um erro técnico inesperado ao tentar gerar o seu certificado. Nossa equipe já foi notificada.

Por favor, aguarde e tente novamente mais tarde, ou entre em contato com a equipe editorial.

Atenciosamente,
Equipe da {{.Journal}}.
`))

var operatorValidationText = texttemplate.Must(texttemplate.New("operator_validation").Parse(`Olá, Admin,

Uma solicitação de certificado não passou na validação: os dados não constam na base de avaliações concluídas.

Detalhes da Solicitação:
- E-mail do Parecerista: {{.RequesterEmail}}
- Username Inserido: {{.Username}}
- Código do Artigo Inserido: {{.SubmissionCode}}
- ID da Execução: {{.RunID}}

O parecerista foi informado e orientado a conferir os dados.
`))

var operatorFailureText = texttemplate.Must(texttemplate.New("operator_failure").Parse(`Olá, Admin,

O sistema de geração de certificados encontrou um erro técnico e não pôde concluir uma solicitação.

Detalhes da Solicitação:
- E-mail do Parecerista: {{.RequesterEmail}}
- Username Inserido: {{.Username}}
- Código do Artigo Inserido: {{.SubmissionCode}}
- ID da Execução: {{.RunID}}

Detalhes do Erro:
- Etapa: {{.Stage}}
- Mensagem: {{.Message}}
{{- if .Location}}
- Local do Erro: {{.Location}}
{{- end}}
{{- if .Trace}}

Stack Trace (para depuração avançada):
{{.Trace}}
{{- end}}

O parecerista foi notificado com uma mensagem de erro genérica.
`))

type executor interface {
	Execute(w io.Writer, data any) error
}

type messageTemplates struct {
	success            executor
	validationFailure  executor
	technicalFailure   executor
	operatorValidation executor
	operatorFailure    executor
}

func defaultTemplates() messageTemplates {
	return messageTemplates{
		success:            successHTML,
		validationFailure:  validationFailureHTML,
		technicalFailure:   technicalFailureText,
		operatorValidation: operatorValidationText,
		operatorFailure:    operatorFailureText,
	}
}

// bodyFunc renders data into one of the message bodies.
type bodyFunc func(msg *models.Message, data any) error

func htmlBody(t executor) bodyFunc {
	return func(msg *models.Message, data any) (err error) {
		msg.HTML, err = execute(t, data)
		return err
	}
}

func textBody(t executor) bodyFunc {
	return func(msg *models.Message, data any) (err error) {
		msg.Text, err = execute(t, data)
		return err
	}
}

func execute(t executor, data any) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
