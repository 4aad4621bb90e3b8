package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"certify/pkg/platform/sentinel"
)

// Placeholder tokens the certificate template must carry.
const (
	TokenFullName       = "{{nome_completo}}"
	TokenSubmissionCode = "{{codigo_artigo}}"
	TokenIssueDate      = "{{data_emissao}}"
)

// TemplateStore hands out editable copies of the certificate template.
// The template itself is never modified.
type TemplateStore interface {
	Copy(ctx context.Context, runID string) (WorkingCopy, error)
}

// WorkingCopy is a temporary, mutable duplicate of the template owned by one run.
type WorkingCopy interface {
	// Fill replaces every placeholder in one pass; oldnew is token, value pairs.
	// A value that contains a token is not substituted again.
	Fill(ctx context.Context, oldnew ...string) error
	Content(ctx context.Context) ([]byte, error)
	Delete(ctx context.Context) error
}

// FSTemplateStore copies a template file into a working directory.
type FSTemplateStore struct {
	templatePath string
	workDir      string
}

func NewFSTemplateStore(templatePath, workDir string) *FSTemplateStore {
	return &FSTemplateStore{templatePath: templatePath, workDir: workDir}
}

// Copy writes <workDir>/certificado_<runID>.tmp. Keying by run ID keeps
// concurrent runs for the same reviewer apart.
func (s *FSTemplateStore) Copy(ctx context.Context, runID string) (WorkingCopy, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if runID == "" {
		return nil, errors.New("working copy requires a run id")
	}
	src, err := os.ReadFile(s.templatePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("template %s: %w", s.templatePath, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("read template: %w", err)
	}
	if err := os.MkdirAll(s.workDir, 0o750); err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}

	path := filepath.Join(s.workDir, fmt.Sprintf("certificado_%s.tmp", runID))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create working copy: %w", err)
	}
	if _, err := f.Write(src); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, fmt.Errorf("write working copy: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("close working copy: %w", err)
	}
	return &fsWorkingCopy{path: path}, nil
}

type fsWorkingCopy struct {
	path string
}

func (c *fsWorkingCopy) Fill(_ context.Context, oldnew ...string) error {
	if len(oldnew)%2 != 0 {
		return errors.New("fill needs token, value pairs")
	}
	content, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("read working copy: %w", err)
	}
	filled := strings.NewReplacer(oldnew...).Replace(string(content))
	if err := os.WriteFile(c.path, []byte(filled), 0o600); err != nil {
		return fmt.Errorf("write working copy: %w", err)
	}
	return nil
}

func (c *fsWorkingCopy) Content(_ context.Context) ([]byte, error) {
	content, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("read working copy: %w", err)
	}
	return content, nil
}

func (c *fsWorkingCopy) Delete(_ context.Context) error {
	if err := os.Remove(c.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete working copy: %w", err)
	}
	return nil
}
