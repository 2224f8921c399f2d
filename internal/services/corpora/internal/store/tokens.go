package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/model"
	"github.com/lib/pq"
)

const tokenColumns = "t.id, t.corpus_id, t.order_id, t.form, t.lemma, t.pos, t.morph, t.left_context, t.right_context"

func scanToken(row scanner) (model.WordToken, error) {
	var t model.WordToken
	err := row.Scan(&t.ID, &t.CorpusID, &t.OrderID, &t.Form, &t.Lemma, &t.POS, &t.Morph, &t.LeftContext, &t.RightContext)
	return t, err
}

func (s *PostgresStore) queryTokens(ctx context.Context, query string, args ...any) ([]model.WordToken, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tokens: %w", err)
	}
	defer rows.Close()

	var tokens []model.WordToken
	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, fmt.Errorf("scan token: %w", err)
		}
		tokens = append(tokens, t)
	}

	return tokens, rows.Err()
}

func (s *PostgresStore) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// InsertTokens bulk loads tokens with COPY. OrderID and contexts are taken
// from the tokens as given.
func (s *PostgresStore) InsertTokens(ctx context.Context, corpusID int64, tokens []model.WordToken) error {
	if _, ok := s.db.(*sql.DB); ok {
		return s.WithTx(ctx, func(tx Store) error {
			return tx.InsertTokens(ctx, corpusID, tokens)
		})
	}

	stmt, err := s.db.PrepareContext(ctx, pq.CopyIn("word_tokens",
		"corpus_id", "order_id", "form", "lemma", "pos", "morph", "left_context", "right_context"))
	if err != nil {
		return fmt.Errorf("prepare copy: %w", err)
	}
	defer stmt.Close()

	for _, t := range tokens {
		_, err := stmt.ExecContext(ctx, corpusID, t.OrderID, t.Form, t.Lemma, t.POS, t.Morph, t.LeftContext, t.RightContext)
		if err != nil {
			return fmt.Errorf("copy token %d: %w", t.OrderID, err)
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		if isPqErr(err, errForeignKeyViolation) {
			return ErrNotFound
		}

		return fmt.Errorf("flush copy: %w", err)
	}

	return nil
}

func (s *PostgresStore) InsertToken(ctx context.Context, t model.WordToken) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO word_tokens (corpus_id, order_id, form, lemma, pos, morph, left_context, right_context)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		t.CorpusID, t.OrderID, t.Form, t.Lemma, t.POS, t.Morph, t.LeftContext, t.RightContext).Scan(&id)
	if err != nil {
		if isPqErr(err, errUniqueViolation) {
			return 0, ErrExists
		}
		if isPqErr(err, errForeignKeyViolation) {
			return 0, ErrNotFound
		}

		return 0, fmt.Errorf("insert token: %w", err)
	}

	return id, nil
}

func (s *PostgresStore) GetToken(ctx context.Context, corpusID, tokenID int64) (model.WordToken, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+tokenColumns+" FROM word_tokens AS t WHERE t.corpus_id = $1 AND t.id = $2", corpusID, tokenID)

	t, err := scanToken(row)
	if err != nil {
		return t, notFound(err, "scan token")
	}

	return t, nil
}

func (s *PostgresStore) TokensByID(ctx context.Context, corpusID int64, ids []int64) ([]model.WordToken, error) {
	return s.queryTokens(ctx,
		`SELECT `+tokenColumns+` FROM word_tokens AS t
		 WHERE t.corpus_id = $1 AND t.id = ANY($2)
		 ORDER BY t.order_id`, corpusID, pq.Array(ids))
}

func (s *PostgresStore) ListTokens(ctx context.Context, r ListTokensRequest) ([]model.WordToken, int, error) {
	total, err := s.CountTokens(ctx, r.CorpusID)
	if err != nil {
		return nil, 0, err
	}

	tokens, err := s.queryTokens(ctx,
		`SELECT `+tokenColumns+` FROM word_tokens AS t
		 WHERE t.corpus_id = $1
		 ORDER BY t.order_id`+limit(r.Limit, r.Offset), r.CorpusID)
	if err != nil {
		return nil, 0, err
	}

	return tokens, total, nil
}

func (s *PostgresStore) SearchTokens(ctx context.Context, r SearchTokensRequest) ([]model.WordToken, int, error) {
	where := []string{"t.corpus_id = $1"}
	args := []any{r.CorpusID}

	for _, c := range []struct {
		col     string
		pattern string
	}{
		{"t.form", r.Form},
		{"t.lemma", r.Lemma},
		{"t.pos", r.POS},
		{"t.morph", r.Morph},
	} {
		if c.pattern == "" {
			continue
		}
		args = append(args, wildcardPattern(c.pattern))
		where = append(where, fmt.Sprintf("%s LIKE $%d", c.col, len(args)))
	}

	cond := strings.Join(where, " AND ")
	total, err := s.count(ctx, "SELECT count(*) FROM word_tokens AS t WHERE "+cond, args...)
	if err != nil {
		return nil, 0, err
	}

	tokens, err := s.queryTokens(ctx,
		"SELECT "+tokenColumns+" FROM word_tokens AS t WHERE "+cond+" ORDER BY t.order_id"+limit(r.Limit, r.Offset),
		args...)
	if err != nil {
		return nil, 0, err
	}

	return tokens, total, nil
}

// UnallowedTokens lists tokens whose value for the field is neither in the
// control list nor in the corpus dictionary.
func (s *PostgresStore) UnallowedTokens(ctx context.Context, r UnallowedTokensRequest) ([]model.WordToken, int, error) {
	col := "t." + column(r.Field)
	cond := `t.corpus_id = $1 AND ` + col + ` IS NOT NULL
		 AND NOT EXISTS (SELECT 1 FROM ` + allowedTable(r.Field) + ` AS a
		                 WHERE a.control_list_id = $2 AND a.label = ` + col + `)
		 AND NOT EXISTS (SELECT 1 FROM custom_dictionary AS d
		                 WHERE d.corpus_id = t.corpus_id AND d.category = $3 AND d.label = ` + col + `)`
	args := []any{r.CorpusID, r.ControlListID, r.Field}

	total, err := s.count(ctx, "SELECT count(*) FROM word_tokens AS t WHERE "+cond, args...)
	if err != nil {
		return nil, 0, err
	}

	tokens, err := s.queryTokens(ctx,
		"SELECT "+tokenColumns+" FROM word_tokens AS t WHERE "+cond+" ORDER BY t.order_id"+limit(r.Limit, r.Offset),
		args...)
	if err != nil {
		return nil, 0, err
	}

	return tokens, total, nil
}

// similarity returns the predicate comparing t to the reference token r.
func similarity(mode model.SimilarityMode) (string, error) {
	const (
		lemma = "t.lemma = r.lemma"
		pos   = "t.pos IS NOT DISTINCT FROM r.pos"
		morph = "t.morph IS NOT DISTINCT FROM r.morph"
	)

	switch mode {
	case model.SimilarPartial:
		return "(" + lemma + " OR " + pos + " OR " + morph + ")", nil
	case model.SimilarComplete:
		return lemma + " AND " + pos + " AND " + morph, nil
	case model.SimilarLemma:
		return lemma, nil
	case model.SimilarPOS:
		return pos, nil
	case model.SimilarMorph:
		return morph, nil
	case model.SimilarNotLemma:
		return "t.lemma <> r.lemma", nil
	case model.SimilarNotPOS:
		return "t.pos IS DISTINCT FROM r.pos", nil
	case model.SimilarNotMorph:
		return "t.morph IS DISTINCT FROM r.morph", nil
	case model.SimilarForm:
		return "TRUE", nil
	}

	return "", fmt.Errorf("unknown similarity mode %q", mode)
}

// SimilarTokens returns the tokens of the reference token's corpus sharing
// its form and matching mode, the reference itself excluded.
func (s *PostgresStore) SimilarTokens(ctx context.Context, tokenID int64, mode model.SimilarityMode) ([]model.WordToken, error) {
	pred, err := similarity(mode)
	if err != nil {
		return nil, err
	}

	return s.queryTokens(ctx,
		`SELECT `+tokenColumns+`
		 FROM word_tokens AS t
		 JOIN word_tokens AS r ON r.id = $1
		 WHERE t.corpus_id = r.corpus_id AND t.id <> r.id AND t.form = r.form
		   AND `+pred+`
		 ORDER BY t.order_id`, tokenID)
}

// SimilarToRecord returns the tokens sharing the form of the record's token
// that still hold the old value of at least one field the record changed.
func (s *PostgresStore) SimilarToRecord(ctx context.Context, rec model.ChangeRecord) ([]model.WordToken, error) {
	changed := rec.Changed()
	if len(changed) == 0 {
		return nil, nil
	}

	args := []any{rec.CorpusID, rec.TokenID, rec.Form}
	var or []string
	for _, f := range changed {
		args = append(args, rec.Old.Get(f))
		or = append(or, fmt.Sprintf("t.%s IS NOT DISTINCT FROM $%d::varchar", column(f), len(args)))
	}

	return s.queryTokens(ctx,
		`SELECT `+tokenColumns+` FROM word_tokens AS t
		 WHERE t.corpus_id = $1 AND t.id <> $2 AND t.form = $3
		   AND (`+strings.Join(or, " OR ")+`)
		 ORDER BY t.order_id`, args...)
}

func (s *PostgresStore) CountTokens(ctx context.Context, corpusID int64) (int, error) {
	return s.count(ctx, "SELECT count(*) FROM word_tokens WHERE corpus_id = $1", corpusID)
}

func (s *PostgresStore) DistinctValues(ctx context.Context, r DistinctValuesRequest) ([]string, error) {
	col := column(r.Field)
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT `+col+` FROM word_tokens
		 WHERE corpus_id = $1 AND `+col+` IS NOT NULL AND lower(`+col+`) LIKE $2
		 ORDER BY `+col+limit(r.Limit, 0), r.CorpusID, prefixPattern(r.Prefix))
	if err != nil {
		return nil, fmt.Errorf("query distinct values: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan value: %w", err)
		}
		values = append(values, v)
	}

	return values, rows.Err()
}

func (s *PostgresStore) UpdateAnnotation(ctx context.Context, tokenID int64, a model.Annotation) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE word_tokens SET lemma = $2, pos = $3, morph = $4 WHERE id = $1",
		tokenID, a.Lemma, a.POS, a.Morph)
	if err != nil {
		return fmt.Errorf("update annotation: %w", err)
	}

	return affected(res, "update annotation")
}

func (s *PostgresStore) UpdateForm(ctx context.Context, tokenID int64, form string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE word_tokens SET form = $2 WHERE id = $1", tokenID, form)
	if err != nil {
		return fmt.Errorf("update form: %w", err)
	}

	return affected(res, "update form")
}

func (s *PostgresStore) DeleteToken(ctx context.Context, tokenID int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM word_tokens WHERE id = $1", tokenID)
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}

	return affected(res, "delete token")
}

// ShiftOrder moves every token at position from or later by delta.
func (s *PostgresStore) ShiftOrder(ctx context.Context, corpusID int64, from, delta int) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE word_tokens SET order_id = order_id + $3 WHERE corpus_id = $1 AND order_id >= $2",
		corpusID, from, delta)
	if err != nil {
		return fmt.Errorf("shift order: %w", err)
	}

	return nil
}

// Forms returns the forms at positions first..last, both included.
func (s *PostgresStore) Forms(ctx context.Context, corpusID int64, first, last int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT form FROM word_tokens
		 WHERE corpus_id = $1 AND order_id BETWEEN $2 AND $3
		 ORDER BY order_id`, corpusID, first, last)
	if err != nil {
		return nil, fmt.Errorf("query forms: %w", err)
	}
	defer rows.Close()

	var forms []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, fmt.Errorf("scan form: %w", err)
		}
		forms = append(forms, f)
	}

	return forms, rows.Err()
}

// SetContexts writes contexts[i] to the token at position first+i.
func (s *PostgresStore) SetContexts(ctx context.Context, corpusID int64, first int, contexts []model.Context) error {
	if len(contexts) == 0 {
		return nil
	}

	orders := make([]int64, len(contexts))
	lefts := make([]string, len(contexts))
	rights := make([]string, len(contexts))
	for i, c := range contexts {
		orders[i] = int64(first + i)
		lefts[i] = c.Left
		rights[i] = c.Right
	}

	_, err := s.db.ExecContext(ctx,
		`UPDATE word_tokens AS t
		 SET left_context = v.l, right_context = v.r
		 FROM unnest($2::int[], $3::text[], $4::text[]) AS v(o, l, r)
		 WHERE t.corpus_id = $1 AND t.order_id = v.o`,
		corpusID, pq.Array(orders), pq.Array(lefts), pq.Array(rights))
	if err != nil {
		return fmt.Errorf("update contexts: %w", err)
	}

	return nil
}

// wildcardPattern turns a search pattern using "*" into a LIKE pattern.
func wildcardPattern(p string) string {
	r := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`, "*", "%")
	return r.Replace(p)
}
