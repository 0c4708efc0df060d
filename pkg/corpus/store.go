package corpus

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// DocumentSeparator is placed between documents when a Store concatenates
// them into a single corpus.
const DocumentSeparator = "\n"

// SetupSchema initializes the corpus tables in the provided database. It is
// idempotent and safe to call on an already-initialized database.
func SetupSchema(db *sql.DB) error {
	const schemaDocuments = `
CREATE TABLE IF NOT EXISTS corpus_documents (
    doc_id INTEGER PRIMARY KEY,
    doc_name TEXT NOT NULL UNIQUE,
    doc_text TEXT NOT NULL
);
`
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.Exec(schemaDocuments); err != nil {
		return fmt.Errorf("could not create schema: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

// Document describes a stored corpus document.
type Document struct {
	Id     int
	Name   string
	Length int // Length of the text in characters
}

// Store keeps named corpus documents in a SQLite database and serves them
// back as training input.
type Store struct {
	db            *sql.DB
	stmtUpsertDoc *sql.Stmt
	stmtGetDoc    *sql.Stmt
	stmtListDocs  *sql.Stmt
	stmtAllText   *sql.Stmt
	stmtRemoveDoc *sql.Stmt
	logger        *slog.Logger
}

// NewStore creates a Store over db, whose schema must already be set up with
// SetupSchema. It pre-compiles all SQL statements, returning an error if any
// preparation fails.
func NewStore(db *sql.DB) (*Store, error) {
	var prepared []*sql.Stmt
	prepare := func(query string) (*sql.Stmt, error) {
		stmt, err := db.Prepare(query)
		if err != nil {
			for _, p := range prepared {
				_ = p.Close()
			}
			return nil, fmt.Errorf("could not prepare statement %q: %w", query, err)
		}
		prepared = append(prepared, stmt)
		return stmt, nil
	}

	stmtGetDoc, err := prepare(`SELECT doc_text FROM corpus_documents WHERE doc_name = ?;`)
	if err != nil {
		return nil, err
	}

	stmtListDocs, err := prepare(`SELECT doc_id, doc_name, length(doc_text) FROM corpus_documents ORDER BY doc_id;`)
	if err != nil {
		return nil, err
	}

	stmtAllText, err := prepare(`SELECT doc_text FROM corpus_documents ORDER BY doc_id;`)
	if err != nil {
		return nil, err
	}

	stmtRemoveDoc, err := prepare(`DELETE FROM corpus_documents WHERE doc_name = ?;`)
	if err != nil {
		return nil, err
	}

	stmtUpsertDoc, err := prepare(`INSERT INTO corpus_documents (doc_name, doc_text) VALUES (?, ?) ON CONFLICT(doc_name) DO UPDATE SET doc_text = excluded.doc_text RETURNING doc_id;`)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:            db,
		stmtUpsertDoc: stmtUpsertDoc,
		stmtGetDoc:    stmtGetDoc,
		stmtListDocs:  stmtListDocs,
		stmtAllText:   stmtAllText,
		stmtRemoveDoc: stmtRemoveDoc,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// Close releases all prepared SQL statements held by the Store.
func (s *Store) Close() {
	_ = s.stmtUpsertDoc.Close()
	_ = s.stmtGetDoc.Close()
	_ = s.stmtListDocs.Close()
	_ = s.stmtAllText.Close()
	_ = s.stmtRemoveDoc.Close()
}

// SetLogger sets the logger for the Store. By default, all logs are discarded.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Add stores text under name, replacing the text of an existing document with
// the same name. A replaced document keeps its position in the corpus.
func (s *Store) Add(ctx context.Context, name, text string) (int, error) {
	var docId int
	if err := s.stmtUpsertDoc.QueryRowContext(ctx, name, text).Scan(&docId); err != nil {
		return 0, fmt.Errorf("could not store document '%s': %w", name, err)
	}
	s.logger.InfoContext(ctx, "Corpus document stored",
		slog.String("doc_name", name),
		slog.Int("doc_id", docId),
		slog.Int("bytes", len(text)),
	)
	return docId, nil
}

// Get returns the text of the named document, or sql.ErrNoRows if it does
// not exist.
func (s *Store) Get(ctx context.Context, name string) (string, error) {
	var text string
	if err := s.stmtGetDoc.QueryRowContext(ctx, name).Scan(&text); err != nil {
		return "", err
	}
	return text, nil
}

// List returns every stored document in insertion order.
func (s *Store) List(ctx context.Context) ([]Document, error) {
	rows, err := s.stmtListDocs.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var docs []Document
	for rows.Next() {
		var doc Document
		if err = rows.Scan(&doc.Id, &doc.Name, &doc.Length); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Remove deletes the named document. Removing a missing document is not an error.
func (s *Store) Remove(ctx context.Context, name string) error {
	res, err := s.stmtRemoveDoc.ExecContext(ctx, name)
	if err != nil {
		return fmt.Errorf("could not remove document '%s': %w", name, err)
	}
	rowsAffected, _ := res.RowsAffected()
	s.logger.InfoContext(ctx, "Corpus document removed",
		slog.String("doc_name", name),
		slog.Int64("rows_removed", rowsAffected),
	)
	return nil
}

// Reader returns the named documents, in the order given, joined by
// DocumentSeparator. With no names every document is used, in insertion order.
// A missing name returns an error wrapping sql.ErrNoRows.
func (s *Store) Reader(ctx context.Context, names ...string) (*strings.Reader, error) {
	var texts []string

	if len(names) == 0 {
		rows, err := s.stmtAllText.QueryContext(ctx)
		if err != nil {
			return nil, err
		}
		defer func(rows *sql.Rows) {
			_ = rows.Close()
		}(rows)

		for rows.Next() {
			var text string
			if err = rows.Scan(&text); err != nil {
				return nil, err
			}
			texts = append(texts, text)
		}
		if err = rows.Err(); err != nil {
			return nil, err
		}
	} else {
		for _, name := range names {
			text, err := s.Get(ctx, name)
			if err != nil {
				return nil, fmt.Errorf("could not load document '%s': %w", name, err)
			}
			texts = append(texts, text)
		}
	}

	s.logger.DebugContext(ctx, "Corpus assembled",
		slog.Int("documents", len(texts)),
	)
	return strings.NewReader(strings.Join(texts, DocumentSeparator)), nil
}
