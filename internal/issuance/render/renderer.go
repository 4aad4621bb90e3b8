// Package render synthesizes certificate PDFs from the certificate template.
package render

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"certify/internal/issuance/models"
)

var tracer = otel.Tracer("certify/issuance/render")

// Renderer fills the template for one reviewer and produces the PDF artifact.
type Renderer struct {
	templates TemplateStore
	converter Converter
	artifacts ArtifactStore
	logger    *slog.Logger
}

type Option func(*Renderer)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}

func New(templates TemplateStore, converter Converter, artifacts ArtifactStore, opts ...Option) *Renderer {
	r := &Renderer{
		templates: templates,
		converter: converter,
		artifacts: artifacts,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render acquires a working copy, fills the three placeholders, converts the
// result to PDF and saves it to the output folder. The working copy is deleted
// on every path out of this function. All failures are *models.TechnicalError.
func (r *Renderer) Render(ctx context.Context, req models.RenderRequest) (doc *models.PortableDocument, err error) {
	ctx, span := tracer.Start(ctx, "render.Certificate")
	span.SetAttributes(attribute.String("run_id", req.RunID))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "render failed")
		}
		span.End()
	}()

	wc, err := r.templates.Copy(ctx, req.RunID)
	if err != nil {
		return nil, models.NewTechnicalError(models.StageCopy, err)
	}
	defer func() {
		if delErr := wc.Delete(context.WithoutCancel(ctx)); delErr != nil {
			r.logger.WarnContext(ctx, "working copy not deleted",
				"run_id", req.RunID,
				"error", delErr,
			)
		}
	}()

	issueDate := FormatIssueDate(req.IssueDate)
	err = wc.Fill(ctx,
		TokenFullName, req.FullName,
		TokenSubmissionCode, req.SubmissionCode,
		TokenIssueDate, issueDate,
	)
	if err != nil {
		return nil, models.NewTechnicalError(models.StageSubstitute, err)
	}
	content, err := wc.Content(ctx)
	if err != nil {
		return nil, models.NewTechnicalError(models.StageSubstitute, err)
	}

	pdf, err := r.converter.Convert(ctx, models.CertificateArtifact{
		OwnerName:       req.FullName,
		SubmissionCode:  req.SubmissionCode,
		IssueDate:       issueDate,
		RenderedContent: content,
	})
	if err != nil {
		return nil, models.NewTechnicalError(models.StageConvert, err)
	}

	doc = &models.PortableDocument{
		FileName:    models.CertificateFileName(req.FullName),
		ContentType: models.ContentTypePDF,
		Content:     pdf,
	}
	if err := r.artifacts.Save(ctx, *doc); err != nil {
		return nil, models.NewTechnicalError(models.StageSave, err)
	}
	return doc, nil
}
