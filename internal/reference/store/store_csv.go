package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"certify/internal/issuance/models"
	"certify/pkg/platform/sentinel"
)

const (
	colUsername = iota
	colSubmissionCode
	colFullName
)

// CSVStore reads the reference table from a CSV export whose first row is a header.
// The file is re-read on every snapshot so an external refresh is picked up without restart.
type CSVStore struct {
	path string
}

func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

func (s *CSVStore) Snapshot(ctx context.Context) ([]models.ReferenceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reference csv %s: %w", s.path, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("open reference csv: %w", err)
	}
	defer f.Close()

	return ParseCSV(f)
}

// ParseCSV skips the header row and maps columns 0-2 to username, submission code
// and full name. Rows with fewer than three columns are ignored.
func ParseCSV(r io.Reader) ([]models.ReferenceRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records []models.ReferenceRecord
	header := true
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read reference csv: %w", err)
		}
		if header {
			header = false
			continue
		}
		if len(row) <= colFullName {
			continue
		}
		records = append(records, models.ReferenceRecord{
			Username:       row[colUsername],
			SubmissionCode: row[colSubmissionCode],
			FullName:       row[colFullName],
		})
	}
	return records, nil
}
