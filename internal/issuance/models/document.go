package models

import (
	"fmt"
	"time"
)

// ContentTypePDF is the media type of every issued artifact.
const ContentTypePDF = "application/pdf"

// RenderRequest carries the matched data into the renderer.
type RenderRequest struct {
	RunID          string
	FullName       string
	SubmissionCode string
	IssueDate      time.Time
}

// CertificateArtifact is the filled certificate before conversion.
type CertificateArtifact struct {
	OwnerName       string
	SubmissionCode  string
	IssueDate       string
	RenderedContent []byte
}

// PortableDocument is the final fixed-layout file attached to the success email.
type PortableDocument struct {
	FileName    string
	ContentType string
	Content     []byte
}

// CertificateFileName names the artifact after its owner.
func CertificateFileName(fullName string) string {
	return fmt.Sprintf("Certificado - %s.pdf", fullName)
}
