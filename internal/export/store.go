package export

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"gradescribe/internal/answers"
	"gradescribe/internal/stream"

	_ "github.com/duckdb/duckdb-go/v2"
)

// Store persists finished sessions and their merged answers.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a DuckDB database at path and applies the schema.
// An empty path opens an in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open export db: %w", err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply export schema: %w", err)
	}
	return &Store{db: db}, nil
}

// DB exposes the underlying connection for queries.
func (store *Store) DB() *sql.DB {
	return store.db
}

// Close releases the database connection.
func (store *Store) Close() error {
	return store.db.Close()
}

// SaveSession records one finished session and its merged answers, returning
// the new session id. The writes share a transaction so a failure leaves no
// partial session behind.
func (store *Store) SaveSession(ctx context.Context, metadata stream.Metadata, merged []answers.Merged) (string, error) {
	if ctx == nil {
		return "", errors.New("export: context is nil")
	}
	tx, err := store.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin export tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	sessionID := uuid.NewString()
	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO sessions (session_id, rubric_id, student_name, filename, total_pages, created_at)
		 VALUES (?, ?, ?, ?, ?, now())`,
		sessionID,
		metadata.RubricID,
		metadata.StudentName,
		metadata.Filename,
		metadata.TotalPages,
	); err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}

	for _, answer := range merged {
		pages, err := json.Marshal(answer.PageIndexes)
		if err != nil {
			return "", fmt.Errorf("encode page indexes: %w", err)
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO answers (
			   answer_id, session_id, question_number, sub_question_id,
			   answer_text, confidence, page_indexes, created_at
			 ) VALUES (?, ?, ?, ?, ?, ?, ?, now())`,
			uuid.NewString(),
			sessionID,
			answer.Question,
			answer.SubQuestion,
			answer.Text,
			answer.Confidence,
			string(pages),
		); err != nil {
			return "", fmt.Errorf("insert answer: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit export tx: %w", err)
	}
	return sessionID, nil
}
