package service_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certify/internal/issuance/models"
	"certify/internal/issuance/notify"
	"certify/internal/issuance/render"
	"certify/internal/issuance/service"
	"certify/internal/issuance/store"
	"certify/internal/platform/config"
	refstore "certify/internal/reference/store"
	"certify/pkg/requestcontext"
)

const certificateTemplate = `# Certificado de Revisão
Certificamos que {{nome_completo}} atuou como parecerista do artigo {{codigo_artigo}}.

São Paulo, {{data_emissao}}.
`

type outbox struct {
	mu   sync.Mutex
	sent []models.Message
}

// Send fails like a real transport once ctx is done.
func (o *outbox) Send(ctx context.Context, msg models.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, msg)
	return nil
}

type workflow struct {
	svc       *service.Service
	outbox    *outbox
	log       *store.InMemoryStore
	outputDir string
	workDir   string
}

func newWorkflow(t *testing.T, records ...models.ReferenceRecord) *workflow {
	t.Helper()
	return newWorkflowWithConverter(t, render.NewPDFConverter(), records...)
}

func newWorkflowWithConverter(t *testing.T, converter render.Converter, records ...models.ReferenceRecord) *workflow {
	t.Helper()
	root := t.TempDir()
	templatePath := filepath.Join(root, "certificado.txt")
	require.NoError(t, os.WriteFile(templatePath, []byte(certificateTemplate), 0o600))

	w := &workflow{
		outbox:    &outbox{},
		log:       store.NewInMemoryStore(),
		outputDir: filepath.Join(root, "out"),
		workDir:   filepath.Join(root, "work"),
	}
	require.NoError(t, os.MkdirAll(w.outputDir, 0o755))
	require.NoError(t, os.MkdirAll(w.workDir, 0o755))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	renderer := render.New(
		render.NewFSTemplateStore(templatePath, w.workDir),
		converter,
		render.NewFSArtifactStore(w.outputDir),
		render.WithLogger(logger),
	)
	dispatcher := notify.New(w.outbox, "admin@x.com", notify.WithLogger(logger))
	w.svc = service.New(refstore.NewInMemoryStore(records...), renderer, dispatcher,
		config.Certificate{OperatorEmail: "admin@x.com", IssueLocation: time.UTC},
		service.WithLogger(logger),
		service.WithIssuanceLog(w.log),
	)
	return w
}

func TestWorkflowDeliversCertificateForKnownReviewer(t *testing.T) {
	w := newWorkflow(t, models.ReferenceRecord{Username: "jsmith", SubmissionCode: "ART-42", FullName: "Jane Smith"})
	ctx := requestcontext.WithTime(context.Background(), time.Date(2025, time.June, 5, 12, 0, 0, 0, time.UTC))

	result, err := w.svc.Process(ctx, models.Claim{RequesterEmail: "jane@x.com", Username: "JSmith", SubmissionCode: "ART-42"})

	require.NoError(t, err)
	assert.Equal(t, models.OutcomeDelivered, result.Outcome)
	assert.NotEmpty(t, result.RunID)

	require.Len(t, w.outbox.sent, 1)
	msg := w.outbox.sent[0]
	assert.Equal(t, []string{"jane@x.com"}, msg.To)
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "Certificado - Jane Smith.pdf", msg.Attachments[0].FileName)
	assert.Equal(t, "%PDF", string(msg.Attachments[0].Content[:4]))

	assert.FileExists(t, filepath.Join(w.outputDir, "Certificado - Jane Smith.pdf"))
	entries, err := os.ReadDir(w.workDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "working copy must not outlive the run")

	recent, err := w.log.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, result.RunID, recent[0].RunID)
	assert.Equal(t, "Jane Smith", recent[0].FullName)
}

func TestWorkflowNotifiesBothPartiesWhenCodeCaseDiffers(t *testing.T) {
	w := newWorkflow(t, models.ReferenceRecord{Username: "jsmith", SubmissionCode: "ART-42", FullName: "Jane Smith"})

	result, err := w.svc.Process(context.Background(), models.Claim{RequesterEmail: "jane@x.com", Username: "jsmith", SubmissionCode: "art-42"})

	require.NoError(t, err)
	assert.Equal(t, models.OutcomeValidationNotified, result.Outcome)
	require.Len(t, w.outbox.sent, 2)
	assert.Equal(t, []string{"jane@x.com"}, w.outbox.sent[0].To)
	assert.Equal(t, []string{"admin@x.com"}, w.outbox.sent[1].To)

	entries, err := os.ReadDir(w.outputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// cancellingConverter cancels the run's context mid-conversion, as a client
// disconnect or consumer shutdown would.
type cancellingConverter struct {
	cancel context.CancelFunc
}

func (c *cancellingConverter) Convert(ctx context.Context, _ models.CertificateArtifact) ([]byte, error) {
	c.cancel()
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestWorkflowNotifiesBothPartiesWhenRunIsCancelledDuringConversion(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w := newWorkflowWithConverter(t, &cancellingConverter{cancel: cancel},
		models.ReferenceRecord{Username: "jsmith", SubmissionCode: "ART-42", FullName: "Jane Smith"})

	result, err := w.svc.Process(ctx, models.Claim{RequesterEmail: "jane@x.com", Username: "jsmith", SubmissionCode: "ART-42"})

	require.NoError(t, err)
	assert.Equal(t, models.OutcomeTechnicalNotified, result.Outcome)
	require.Len(t, w.outbox.sent, 2)
	assert.Equal(t, []string{"jane@x.com"}, w.outbox.sent[0].To)
	assert.Equal(t, []string{"admin@x.com"}, w.outbox.sent[1].To)
	assert.Contains(t, w.outbox.sent[1].Text, "context canceled")

	entries, err := os.ReadDir(w.workDir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	recent, err := w.log.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, models.OutcomeTechnicalNotified, recent[0].Outcome)
}
