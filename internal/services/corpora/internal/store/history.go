package store

import (
	"context"
	"fmt"

	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/model"
)

const recordColumns = `c.id, c.corpus_id, c.word_token_id, c.user_id, t.form,
	c.lemma, c.pos, c.morph, c.lemma_new, c.pos_new, c.morph_new, c.created_at`

func scanRecord(row scanner) (model.ChangeRecord, error) {
	var r model.ChangeRecord
	err := row.Scan(
		&r.ID,
		&r.CorpusID,
		&r.TokenID,
		&r.UserID,
		&r.Form,
		&r.Old.Lemma,
		&r.Old.POS,
		&r.Old.Morph,
		&r.New.Lemma,
		&r.New.POS,
		&r.New.Morph,
		&r.CreatedAt)
	return r, err
}

func (s *PostgresStore) InsertChangeRecord(ctx context.Context, r model.ChangeRecord) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO change_records (corpus_id, word_token_id, user_id, lemma, pos, morph, lemma_new, pos_new, morph_new)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		r.CorpusID, r.TokenID, r.UserID,
		r.Old.Lemma, r.Old.POS, r.Old.Morph,
		r.New.Lemma, r.New.POS, r.New.Morph).Scan(&id)
	if err != nil {
		if isPqErr(err, errForeignKeyViolation) {
			return 0, ErrNotFound
		}

		return 0, fmt.Errorf("insert change record: %w", err)
	}

	return id, nil
}

func (s *PostgresStore) GetChangeRecord(ctx context.Context, corpusID, id int64) (model.ChangeRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+`
		 FROM change_records AS c
		 JOIN word_tokens AS t ON t.id = c.word_token_id
		 WHERE c.corpus_id = $1 AND c.id = $2`, corpusID, id)

	r, err := scanRecord(row)
	if err != nil {
		return r, notFound(err, "scan change record")
	}

	return r, nil
}

func (s *PostgresStore) ListChangeRecords(ctx context.Context, r ListChangeRecordsRequest) ([]model.ChangeRecord, int, error) {
	cond := "c.corpus_id = $1 AND ($2::bigint IS NULL OR c.user_id = $2)"

	total, err := s.count(ctx, "SELECT count(*) FROM change_records AS c WHERE "+cond, r.CorpusID, r.UserID)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+`
		 FROM change_records AS c
		 JOIN word_tokens AS t ON t.id = c.word_token_id
		 WHERE `+cond+`
		 ORDER BY c.created_at DESC, c.id DESC`+limit(r.Limit, r.Offset), r.CorpusID, r.UserID)
	if err != nil {
		return nil, 0, fmt.Errorf("query change records: %w", err)
	}
	defer rows.Close()

	var records []model.ChangeRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan change record: %w", err)
		}
		records = append(records, rec)
	}

	return records, total, rows.Err()
}

func (s *PostgresStore) InsertTokenHistory(ctx context.Context, h model.TokenHistory) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO token_history (corpus_id, word_token_id, user_id, action, order_id, form, form_new)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		h.CorpusID, h.TokenID, h.UserID, h.Action, h.OrderID, h.Form, h.FormNew).Scan(&id)
	if err != nil {
		if isPqErr(err, errForeignKeyViolation) {
			return 0, ErrNotFound
		}

		return 0, fmt.Errorf("insert token history: %w", err)
	}

	return id, nil
}

func (s *PostgresStore) ListTokenHistory(ctx context.Context, r ListTokenHistoryRequest) ([]model.TokenHistory, int, error) {
	total, err := s.count(ctx, "SELECT count(*) FROM token_history WHERE corpus_id = $1", r.CorpusID)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, corpus_id, word_token_id, user_id, action, order_id, form, form_new, created_at
		 FROM token_history
		 WHERE corpus_id = $1
		 ORDER BY created_at DESC, id DESC`+limit(r.Limit, r.Offset), r.CorpusID)
	if err != nil {
		return nil, 0, fmt.Errorf("query token history: %w", err)
	}
	defer rows.Close()

	var entries []model.TokenHistory
	for rows.Next() {
		var h model.TokenHistory
		err := rows.Scan(&h.ID, &h.CorpusID, &h.TokenID, &h.UserID, &h.Action, &h.OrderID, &h.Form, &h.FormNew, &h.CreatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("scan token history: %w", err)
		}
		entries = append(entries, h)
	}

	return entries, total, rows.Err()
}
