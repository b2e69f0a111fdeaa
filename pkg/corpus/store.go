package corpus

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// ErrNoCorpus is returned by Get when no corpus with the requested name has
// been stored.
var ErrNoCorpus = errors.New("corpus: no such corpus")

// Info holds the metadata for one stored corpus.
type Info struct {
	Name    string
	Size    int
	AddedAt time.Time
}

// Generation is one row of the generation log.
type Generation struct {
	Corpus    string
	Output    string
	Reason    string
	CreatedAt time.Time
}

// SetupSchema initializes the corpus tables in the provided database. It is
// idempotent and safe to call on an already-initialized database.
func SetupSchema(db *sql.DB) error {
	const (
		schemaCorpora = `
CREATE TABLE IF NOT EXISTS corpora (
    corpus_id INTEGER PRIMARY KEY,
    corpus_name TEXT NOT NULL UNIQUE,
    content TEXT NOT NULL,
    byte_size INTEGER NOT NULL,
    added_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
		schemaGenerations = `
CREATE TABLE IF NOT EXISTS generation_log (
    generation_id INTEGER PRIMARY KEY,
    corpus_name TEXT NOT NULL,
    output TEXT NOT NULL,
    stop_reason TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
	)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.Exec(schemaCorpora); err != nil {
		return fmt.Errorf("could not create corpora schema: %w", err)
	}
	if _, err = tx.Exec(schemaGenerations); err != nil {
		return fmt.Errorf("could not create generation log schema: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

// Store keeps named, pre-cleaned corpora and a log of generated sentences
// in a SQLite database. It holds prepared statements for all of its
// queries.
type Store struct {
	db              *sql.DB
	stmtPutCorpus   *sql.Stmt
	stmtGetCorpus   *sql.Stmt
	stmtListCorpora *sql.Stmt
	stmtLogGen      *sql.Stmt
	stmtGetGens     *sql.Stmt
	logger          *slog.Logger
}

// NewStore creates a Store over db, pre-compiling all necessary SQL
// statements. SetupSchema must have been called on db first.
func NewStore(db *sql.DB) (*Store, error) {
	stmtPutCorpus, err := db.Prepare(`INSERT INTO corpora (corpus_name, content, byte_size) VALUES (?, ?, ?) ON CONFLICT(corpus_name) DO UPDATE SET content = excluded.content, byte_size = excluded.byte_size;`)
	if err != nil {
		return nil, err
	}

	stmtGetCorpus, err := db.Prepare(`SELECT content FROM corpora WHERE corpus_name = ?;`)
	if err != nil {
		return nil, err
	}

	stmtListCorpora, err := db.Prepare(`SELECT corpus_name, byte_size, added_at FROM corpora ORDER BY corpus_name;`)
	if err != nil {
		return nil, err
	}

	stmtLogGen, err := db.Prepare(`INSERT INTO generation_log (corpus_name, output, stop_reason) VALUES (?, ?, ?);`)
	if err != nil {
		return nil, err
	}

	stmtGetGens, err := db.Prepare(`SELECT corpus_name, output, stop_reason, created_at FROM generation_log WHERE corpus_name = ? ORDER BY generation_id DESC LIMIT ?;`)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:              db,
		stmtPutCorpus:   stmtPutCorpus,
		stmtGetCorpus:   stmtGetCorpus,
		stmtListCorpora: stmtListCorpora,
		stmtLogGen:      stmtLogGen,
		stmtGetGens:     stmtGetGens,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// Close releases all prepared SQL statements held by the Store.
func (s *Store) Close() {
	_ = s.stmtPutCorpus.Close()
	_ = s.stmtGetCorpus.Close()
	_ = s.stmtListCorpora.Close()
	_ = s.stmtLogGen.Close()
	_ = s.stmtGetGens.Close()
}

// SetLogger sets the logger for the Store. By default, all logs are discarded.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Put cleans text and stores it under name, replacing any previous corpus
// with that name.
func (s *Store) Put(ctx context.Context, name, text string) error {
	cleaned := CleanString(text)
	if _, err := s.stmtPutCorpus.ExecContext(ctx, name, cleaned, len(cleaned)); err != nil {
		return fmt.Errorf("could not store corpus '%s': %w", name, err)
	}
	s.logger.InfoContext(ctx, "corpus stored",
		slog.String("corpus_name", name),
		slog.Int("byte_size", len(cleaned)),
	)
	return nil
}

// Get returns the cleaned text stored under name, or ErrNoCorpus.
func (s *Store) Get(ctx context.Context, name string) (string, error) {
	var content string
	err := s.stmtGetCorpus.QueryRowContext(ctx, name).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: '%s'", ErrNoCorpus, name)
	}
	if err != nil {
		return "", fmt.Errorf("could not load corpus '%s': %w", name, err)
	}
	return content, nil
}

// List returns the metadata of every stored corpus, ordered by name.
func (s *Store) List(ctx context.Context) ([]Info, error) {
	rows, err := s.stmtListCorpora.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var infos []Info
	for rows.Next() {
		var info Info
		if err = rows.Scan(&info.Name, &info.Size, &info.AddedAt); err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return infos, nil
}

// Remove deletes a corpus and all of its generation log entries. The
// operation is performed within a transaction.
func (s *Store) Remove(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.ExecContext(ctx, "DELETE FROM generation_log WHERE corpus_name = ?", name); err != nil {
		return fmt.Errorf("failed to remove generation log for '%s': %w", name, err)
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM corpora WHERE corpus_name = ?", name); err != nil {
		return fmt.Errorf("failed to remove corpus '%s': %w", name, err)
	}

	s.logger.InfoContext(ctx, "corpus removed",
		slog.String("corpus_name", name),
	)
	return tx.Commit()
}

// LogGeneration appends one generated output and its stop reason to the
// generation log.
func (s *Store) LogGeneration(ctx context.Context, corpus, output, reason string) error {
	if _, err := s.stmtLogGen.ExecContext(ctx, corpus, output, reason); err != nil {
		return fmt.Errorf("could not log generation for '%s': %w", corpus, err)
	}
	return nil
}

// Generations returns up to limit of the most recent log entries for a
// corpus, newest first.
func (s *Store) Generations(ctx context.Context, corpus string, limit int) ([]Generation, error) {
	rows, err := s.stmtGetGens.QueryContext(ctx, corpus, limit)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var gens []Generation
	for rows.Next() {
		var gen Generation
		if err = rows.Scan(&gen.Corpus, &gen.Output, &gen.Reason, &gen.CreatedAt); err != nil {
			return nil, err
		}
		gens = append(gens, gen)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return gens, nil
}
