// Package output serializes statement records for the CLI.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rumor-ml/commons.systems/cardparse/internal/domain"
)

// WriteRecord serializes a record to JSON with 2-space indentation.
func WriteRecord(rec *domain.StatementRecord, w io.Writer) error {
	if rec == nil {
		return fmt.Errorf("record cannot be nil")
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(rec); err != nil {
		return fmt.Errorf("failed to encode record as JSON: %w", err)
	}

	return nil
}

// WriteRecords serializes a batch of records as a JSON array with
// 2-space indentation.
func WriteRecords(recs []*domain.StatementRecord, w io.Writer) error {
	if recs == nil {
		recs = []*domain.StatementRecord{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(recs); err != nil {
		return fmt.Errorf("failed to encode records as JSON: %w", err)
	}

	return nil
}

// WriteRecordToFile writes a record to filePath, or stdout when filePath
// is empty.
func WriteRecordToFile(rec *domain.StatementRecord, filePath string) (err error) {
	if rec == nil {
		return fmt.Errorf("record cannot be nil")
	}

	if filePath == "" {
		return WriteRecord(rec, os.Stdout)
	}

	f, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", filePath, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close output file %s: %w", filePath, closeErr)
		}
	}()

	if err = WriteRecord(rec, f); err != nil {
		return fmt.Errorf("failed to write record to %s: %w", filePath, err)
	}

	return nil
}
