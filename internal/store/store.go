// Package store persists parse results in a local sqlite database for
// the API server.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/rumor-ml/commons.systems/cardparse/internal/domain"
)

//go:embed schema.sql
var schema string

// Statement statuses.
const (
	StatusParsed = "parsed"
	StatusFailed = "failed"
)

// ErrNotFound is returned when no statement exists for an id.
var ErrNotFound = errors.New("statement not found")

// Statement is one persisted parse result. Record is nil for failed
// parses; ErrorMessage is empty for successful ones.
type Statement struct {
	ID           string                  `json:"id"`
	FileName     string                  `json:"file_name"`
	Bank         string                  `json:"bank"`
	Confidence   int                     `json:"confidence"`
	Record       *domain.StatementRecord `json:"record,omitempty"`
	Status       string                  `json:"status"`
	ErrorMessage string                  `json:"error_message,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
}

// Store wraps the sqlite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at dbPath and applies the schema.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("execute schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveResult persists a successful parse and returns the stored row.
func (s *Store) SaveResult(ctx context.Context, fileName string, rec *domain.StatementRecord) (*Statement, error) {
	if rec == nil {
		return nil, fmt.Errorf("record cannot be nil")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}

	stmt := &Statement{
		ID:         uuid.NewString(),
		FileName:   fileName,
		Bank:       rec.BankDetected,
		Confidence: rec.Confidence,
		Record:     rec,
		Status:     StatusParsed,
		CreatedAt:  time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO statements (id, file_name, bank, confidence, record, status, error_message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		stmt.ID, stmt.FileName, stmt.Bank, stmt.Confidence, string(data), stmt.Status, "", stmt.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert statement: %w", err)
	}
	return stmt, nil
}

// SaveFailure persists a failed parse with its error message.
func (s *Store) SaveFailure(ctx context.Context, fileName string, parseErr error) (*Statement, error) {
	stmt := &Statement{
		ID:           uuid.NewString(),
		FileName:     fileName,
		Bank:         domain.BankUnknown,
		Status:       StatusFailed,
		ErrorMessage: parseErr.Error(),
		CreatedAt:    time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO statements (id, file_name, bank, confidence, record, status, error_message, created_at)
		 VALUES (?, ?, ?, ?, NULL, ?, ?, ?)`,
		stmt.ID, stmt.FileName, stmt.Bank, 0, stmt.Status, stmt.ErrorMessage, stmt.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert failed statement: %w", err)
	}
	return stmt, nil
}

// Get fetches one statement by id.
func (s *Store) Get(ctx context.Context, id string) (*Statement, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, file_name, bank, confidence, record, status, error_message, created_at
		 FROM statements WHERE id = ?`, id)
	stmt, err := scanStatement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get statement %s: %w", id, err)
	}
	return stmt, nil
}

// List returns all statements, newest first.
func (s *Store) List(ctx context.Context) ([]*Statement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, file_name, bank, confidence, record, status, error_message, created_at
		 FROM statements ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list statements: %w", err)
	}
	defer rows.Close()

	statements := make([]*Statement, 0, 16)
	for rows.Next() {
		stmt, err := scanStatement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan statement: %w", err)
		}
		statements = append(statements, stmt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate statements: %w", err)
	}
	return statements, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStatement(row rowScanner) (*Statement, error) {
	var stmt Statement
	var record sql.NullString
	if err := row.Scan(&stmt.ID, &stmt.FileName, &stmt.Bank, &stmt.Confidence,
		&record, &stmt.Status, &stmt.ErrorMessage, &stmt.CreatedAt); err != nil {
		return nil, err
	}
	if record.Valid && record.String != "" {
		var rec domain.StatementRecord
		if err := json.Unmarshal([]byte(record.String), &rec); err != nil {
			return nil, fmt.Errorf("decode stored record: %w", err)
		}
		stmt.Record = &rec
	}
	return &stmt, nil
}
