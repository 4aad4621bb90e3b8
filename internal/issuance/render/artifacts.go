package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"certify/internal/issuance/models"
)

// ArtifactStore keeps issued documents in the output folder.
type ArtifactStore interface {
	Save(ctx context.Context, doc models.PortableDocument) error
}

// FSArtifactStore writes documents into a directory. Files are written under a
// temporary name and renamed so readers never see a partial PDF.
type FSArtifactStore struct {
	dir string
}

func NewFSArtifactStore(dir string) *FSArtifactStore {
	return &FSArtifactStore{dir: dir}
}

func (s *FSArtifactStore) Save(ctx context.Context, doc models.PortableDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, ".artifact-*")
	if err != nil {
		return fmt.Errorf("create artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(doc.Content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, safeFileName(doc.FileName))); err != nil {
		return fmt.Errorf("publish artifact: %w", err)
	}
	return nil
}

// safeFileName keeps a reviewer name from escaping the output directory.
func safeFileName(name string) string {
	return strings.NewReplacer("/", "-", "\\", "-", "\x00", "").Replace(name)
}
