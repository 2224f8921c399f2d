package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/model"
)

const corpusColumns = "c.id, c.name, c.control_list_id, c.context_left, c.context_right, c.delimiter_token, c.created_at"

func scanCorpus(row scanner) (model.Corpus, error) {
	var c model.Corpus
	err := row.Scan(&c.ID, &c.Name, &c.ControlListID, &c.ContextLeft, &c.ContextRight, &c.DelimiterToken, &c.CreatedAt)
	return c, err
}

// CreateCorpus inserts a corpus with every annotation column displayed.
func (s *PostgresStore) CreateCorpus(ctx context.Context, r CreateCorpusRequest) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO corpora (name, control_list_id, context_left, context_right, delimiter_token)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		r.Name, r.ControlListID, r.ContextLeft, r.ContextRight, r.DelimiterToken).Scan(&id)
	if err != nil {
		if isPqErr(err, errUniqueViolation) {
			return 0, ErrExists
		}
		if isPqErr(err, errForeignKeyViolation) {
			return 0, ErrNotFound
		}

		return 0, fmt.Errorf("insert corpus: %w", err)
	}

	cols := make([]model.Column, 0, len(model.Fields))
	for _, f := range model.Fields {
		cols = append(cols, model.Column{Name: f})
	}
	if err := s.SetColumns(ctx, id, cols); err != nil {
		return 0, err
	}

	return id, nil
}

func (s *PostgresStore) GetCorpus(ctx context.Context, id int64) (model.Corpus, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+corpusColumns+" FROM corpora AS c WHERE c.id = $1", id)

	c, err := scanCorpus(row)
	if err != nil {
		return c, notFound(err, "scan corpus")
	}

	return c, nil
}

func (s *PostgresStore) ListCorpora(ctx context.Context, r ListCorporaRequest) ([]model.Corpus, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+corpusColumns+`
		 FROM corpora AS c
		 WHERE $2 OR EXISTS (SELECT 1 FROM corpus_users AS cu
		                     WHERE cu.corpus_id = c.id AND cu.user_id = $1)
		 ORDER BY c.name`, r.UserID, r.All)
	if err != nil {
		return nil, fmt.Errorf("query corpora: %w", err)
	}
	defer rows.Close()

	var corpora []model.Corpus
	for rows.Next() {
		c, err := scanCorpus(rows)
		if err != nil {
			return nil, fmt.Errorf("scan corpus: %w", err)
		}
		corpora = append(corpora, c)
	}

	return corpora, rows.Err()
}

func (s *PostgresStore) DeleteCorpus(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM corpora WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete corpus: %w", err)
	}

	return affected(res, "delete corpus")
}

func (s *PostgresStore) CorpusMembers(ctx context.Context, id int64) ([]model.Member, error) {
	return s.members(ctx, "corpus_users", "corpus_id", id)
}

func (s *PostgresStore) SetCorpusMembers(ctx context.Context, id int64, members []model.Member) error {
	return s.setMembers(ctx, "corpus_users", "corpus_id", id, members)
}

func (s *PostgresStore) CorpusMembership(ctx context.Context, id, userID int64) (model.Member, error) {
	return s.membership(ctx, "corpus_users", "corpus_id", id, userID)
}

func (s *PostgresStore) Columns(ctx context.Context, corpusID int64) ([]model.Column, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, hidden FROM corpus_columns WHERE corpus_id = $1", corpusID)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	byName := make(map[model.Field]bool)
	for rows.Next() {
		var (
			name   model.Field
			hidden bool
		)
		if err := rows.Scan(&name, &hidden); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		byName[name] = hidden
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	cols := make([]model.Column, 0, len(model.Fields))
	for _, f := range model.Fields {
		cols = append(cols, model.Column{Name: f, Hidden: byName[f]})
	}

	return cols, nil
}

func (s *PostgresStore) SetColumns(ctx context.Context, corpusID int64, cols []model.Column) error {
	for _, c := range cols {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO corpus_columns (corpus_id, name, hidden) VALUES ($1, $2, $3)
			 ON CONFLICT (corpus_id, name) DO UPDATE SET hidden = EXCLUDED.hidden`,
			corpusID, c.Name, c.Hidden)
		if err != nil {
			if isPqErr(err, errForeignKeyViolation) {
				return ErrNotFound
			}

			return fmt.Errorf("upsert column: %w", err)
		}
	}

	return nil
}

func (s *PostgresStore) GetBookmark(ctx context.Context, userID, corpusID int64) (model.Bookmark, error) {
	b := model.Bookmark{UserID: userID, CorpusID: corpusID}
	err := s.db.QueryRowContext(ctx,
		"SELECT token_id, page FROM bookmarks WHERE user_id = $1 AND corpus_id = $2", userID, corpusID).
		Scan(&b.TokenID, &b.Page)
	if err != nil {
		return b, notFound(err, "scan bookmark")
	}

	return b, nil
}

func (s *PostgresStore) SetBookmark(ctx context.Context, b model.Bookmark) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bookmarks (user_id, corpus_id, token_id, page) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, corpus_id) DO UPDATE SET token_id = EXCLUDED.token_id, page = EXCLUDED.page`,
		b.UserID, b.CorpusID, b.TokenID, b.Page)
	if err != nil {
		if isPqErr(err, errForeignKeyViolation) {
			return ErrNotFound
		}

		return fmt.Errorf("upsert bookmark: %w", err)
	}

	return nil
}

func (s *PostgresStore) DeleteBookmark(ctx context.Context, userID, corpusID int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM bookmarks WHERE user_id = $1 AND corpus_id = $2", userID, corpusID)
	if err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}

	if err := affected(res, "delete bookmark"); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}
