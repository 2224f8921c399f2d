package store

import (
	"context"
	"fmt"

	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/model"
)

func (s *PostgresStore) DictionaryEntries(ctx context.Context, corpusID int64, f model.Field) ([]model.DictionaryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, corpus_id, category, label, secondary_label
		 FROM custom_dictionary
		 WHERE corpus_id = $1 AND category = $2
		 ORDER BY label`, corpusID, f)
	if err != nil {
		return nil, fmt.Errorf("query dictionary: %w", err)
	}
	defer rows.Close()

	var entries []model.DictionaryEntry
	for rows.Next() {
		var e model.DictionaryEntry
		if err := rows.Scan(&e.ID, &e.CorpusID, &e.Category, &e.Label, &e.SecondaryLabel); err != nil {
			return nil, fmt.Errorf("scan dictionary entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (s *PostgresStore) InDictionary(ctx context.Context, corpusID int64, f model.Field, label string) (bool, error) {
	var ok bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM custom_dictionary
		                WHERE corpus_id = $1 AND category = $2 AND label = $3)`,
		corpusID, f, label).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("query dictionary entry: %w", err)
	}

	return ok, nil
}

func (s *PostgresStore) AddDictionaryEntry(ctx context.Context, e model.DictionaryEntry) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO custom_dictionary (corpus_id, category, label, secondary_label)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		e.CorpusID, e.Category, e.Label, e.SecondaryLabel).Scan(&id)
	if err != nil {
		if isPqErr(err, errUniqueViolation) {
			return 0, ErrExists
		}
		if isPqErr(err, errForeignKeyViolation) {
			return 0, ErrNotFound
		}

		return 0, fmt.Errorf("insert dictionary entry: %w", err)
	}

	return id, nil
}

func (s *PostgresStore) DeleteDictionaryEntry(ctx context.Context, corpusID int64, f model.Field, label string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM custom_dictionary WHERE corpus_id = $1 AND category = $2 AND label = $3",
		corpusID, f, label)
	if err != nil {
		return fmt.Errorf("delete dictionary entry: %w", err)
	}

	return affected(res, "delete dictionary entry")
}

func (s *PostgresStore) ReplaceDictionary(ctx context.Context, corpusID int64, f model.Field, entries []model.DictionaryEntry) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM custom_dictionary WHERE corpus_id = $1 AND category = $2", corpusID, f)
	if err != nil {
		return fmt.Errorf("clear dictionary: %w", err)
	}

	for _, e := range entries {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO custom_dictionary (corpus_id, category, label, secondary_label)
			 VALUES ($1, $2, $3, $4) ON CONFLICT DO NOTHING`,
			corpusID, f, e.Label, e.SecondaryLabel)
		if err != nil {
			if isPqErr(err, errForeignKeyViolation) {
				return ErrNotFound
			}

			return fmt.Errorf("insert dictionary entry: %w", err)
		}
	}

	return nil
}
