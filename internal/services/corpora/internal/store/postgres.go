package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/model"
	"github.com/lib/pq"
)

const (
	errUniqueViolation     pq.ErrorCode = "23505"
	errForeignKeyViolation pq.ErrorCode = "23503"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx
type dbtx interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DB       string
}

// PostgresStore implements Store on top of PostgreSQL
type PostgresStore struct {
	db dbtx
}

func NewPostgresDB(cfg PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.DB))
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// WithTx runs fn inside a transaction, committing when fn returns nil.
// Nested calls reuse the running transaction.
func (s *PostgresStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	db, ok := s.db.(*sql.DB)
	if !ok {
		return fn(s)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	sx := &PostgresStore{db: tx}
	if err = fn(sx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback: %v after: %w", rbErr, err)
		}

		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

// Ping reports whether the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	db, ok := s.db.(*sql.DB)
	if !ok {
		return nil
	}
	return db.PingContext(ctx)
}

func isPqErr(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}

	return pqErr.Code == code
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", what, err)
}

// column maps an annotation field to its word_tokens column.
func column(f model.Field) string {
	switch f {
	case model.FieldPOS:
		return "pos"
	case model.FieldMorph:
		return "morph"
	default:
		return "lemma"
	}
}

func allowedTable(f model.Field) string {
	switch f {
	case model.FieldPOS:
		return "allowed_pos"
	case model.FieldMorph:
		return "allowed_morph"
	default:
		return "allowed_lemma"
	}
}

func affected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// limit renders a LIMIT/OFFSET clause, 0 meaning no limit.
func limit(limit, offset int) string {
	if limit <= 0 {
		return fmt.Sprintf(" OFFSET %d", offset)
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
}
