package render

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-pdf/fpdf"

	"certify/internal/issuance/models"
)

// Converter turns a filled certificate into a fixed-layout document.
type Converter interface {
	Convert(ctx context.Context, artifact models.CertificateArtifact) ([]byte, error)
}

const utf8Family = "certificate"

// PDFConverter lays the filled template out on a single landscape A4 page.
// Lines starting with "# " are set as the title, blank lines add vertical space,
// every other line is a centered paragraph.
//
// By default it uses the core Helvetica font, which only covers cp1252: names
// with characters outside it (Ł, Ő, CJK) print with substitutes. Configure a
// UTF-8 TrueType font with WithUTF8Font to print any name as given.
type PDFConverter struct {
	fontFamily string
	creator    string
	fontPath   string
}

type ConverterOption func(*PDFConverter)

// WithUTF8Font embeds the TrueType font at path for every style. An empty path
// keeps the core font.
func WithUTF8Font(path string) ConverterOption {
	return func(c *PDFConverter) {
		c.fontPath = path
	}
}

func NewPDFConverter(opts ...ConverterOption) *PDFConverter {
	c := &PDFConverter{fontFamily: "Helvetica", creator: "certify"}
	for _, opt := range opts {
		opt(c)
	}
	if c.fontPath != "" {
		c.fontFamily = utf8Family
	}
	return c
}

func (c *PDFConverter) Convert(ctx context.Context, artifact models.CertificateArtifact) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetCreator(c.creator, true)
	pdf.SetTitle("Certificado - "+artifact.OwnerName, true)
	pdf.SetSubject(artifact.SubmissionCode, true)
	pdf.SetMargins(25, 35, 25)
	pdf.SetAutoPageBreak(true, 20)
	if c.fontPath != "" {
		// Read here rather than via AddUTF8Font, which resolves paths against
		// the fpdf font directory.
		font, err := os.ReadFile(c.fontPath)
		if err != nil {
			return nil, fmt.Errorf("load font %s: %w", c.fontPath, err)
		}
		pdf.AddUTF8FontFromBytes(utf8Family, "", font)
		pdf.AddUTF8FontFromBytes(utf8Family, "B", font)
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("load font %s: %w", c.fontPath, err)
		}
	}
	pdf.AddPage()

	tr := c.translator(pdf)

	scanner := bufio.NewScanner(bytes.NewReader(artifact.RenderedContent))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		switch {
		case strings.HasPrefix(line, "# "):
			pdf.SetFont(c.fontFamily, "B", 30)
			pdf.MultiCell(0, 16, tr(strings.TrimPrefix(line, "# ")), "", "C", false)
		case strings.TrimSpace(line) == "":
			pdf.Ln(8)
		default:
			pdf.SetFont(c.fontFamily, "", 16)
			pdf.MultiCell(0, 9, tr(strings.TrimSpace(line)), "", "C", false)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan certificate content: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// translator prepares text for the configured font. UTF-8 fonts take text as is;
// core fonts are cp1252, so accented Latin names are mapped onto it and
// anything outside that code page is replaced.
func (c *PDFConverter) translator(pdf *fpdf.Fpdf) func(string) string {
	if c.fontPath != "" {
		return func(s string) string { return s }
	}
	return pdf.UnicodeTranslatorFromDescriptor("")
}
