package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/model"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/store"
)

func (s *Corpora) token(ctx context.Context, st store.Store, corpusID, tokenID int64) (model.WordToken, error) {
	t, err := st.GetToken(ctx, corpusID, tokenID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return t, notFoundErr(err, "token", tokenID)
		}
		return t, fmt.Errorf("get token: %w", err)
	}

	return t, nil
}

type PageRequest struct {
	Page    int
	PerPage int
}

func (s *Corpora) page(r PageRequest) (offset, limit, page, perPage int) {
	return paging(r.Page, r.PerPage, s.pageSize, maxPageSize)
}

func (s *Corpora) Tokens(ctx context.Context, a model.Actor, corpusID int64, r PageRequest) (model.Page[model.WordToken], error) {
	if _, _, err := corpusAccess(ctx, s.store, a, corpusID); err != nil {
		return model.Page[model.WordToken]{}, err
	}

	offset, limit, page, perPage := s.page(r)
	tokens, total, err := s.store.ListTokens(ctx, store.ListTokensRequest{CorpusID: corpusID, Offset: offset, Limit: limit})
	if err != nil {
		return model.Page[model.WordToken]{}, fmt.Errorf("list tokens: %w", err)
	}

	return model.Page[model.WordToken]{Items: tokens, Total: total, Page: page, PerPage: perPage}, nil
}

func (s *Corpora) Token(ctx context.Context, a model.Actor, corpusID, tokenID int64) (model.WordToken, error) {
	if _, _, err := corpusAccess(ctx, s.store, a, corpusID); err != nil {
		return model.WordToken{}, err
	}

	return s.token(ctx, s.store, corpusID, tokenID)
}

// SearchRequest holds per field patterns where "*" matches anything.
type SearchRequest struct {
	Form  string
	Lemma string
	POS   string
	Morph string
	PageRequest
}

func (s *Corpora) Search(ctx context.Context, a model.Actor, corpusID int64, r SearchRequest) (model.Page[model.WordToken], error) {
	if _, _, err := corpusAccess(ctx, s.store, a, corpusID); err != nil {
		return model.Page[model.WordToken]{}, err
	}

	offset, limit, page, perPage := s.page(r.PageRequest)
	tokens, total, err := s.store.SearchTokens(ctx, store.SearchTokensRequest{
		CorpusID: corpusID,
		Form:     r.Form,
		Lemma:    r.Lemma,
		POS:      r.POS,
		Morph:    r.Morph,
		Offset:   offset,
		Limit:    limit,
	})
	if err != nil {
		return model.Page[model.WordToken]{}, fmt.Errorf("search tokens: %w", err)
	}

	return model.Page[model.WordToken]{Items: tokens, Total: total, Page: page, PerPage: perPage}, nil
}

// Unallowed lists the tokens whose value for f is rejected by the control
// list. Fields the control list does not restrict yield no token.
func (s *Corpora) Unallowed(ctx context.Context, a model.Actor, corpusID int64, f model.Field, r PageRequest) (model.Page[model.WordToken], error) {
	c, _, err := corpusAccess(ctx, s.store, a, corpusID)
	if err != nil {
		return model.Page[model.WordToken]{}, err
	}

	offset, limit, page, perPage := s.page(r)
	res := model.Page[model.WordToken]{Items: []model.WordToken{}, Page: page, PerPage: perPage}

	restricted, err := s.validator.Restricted(ctx, s.store, c.ControlListID, f)
	if err != nil {
		return res, err
	}
	if !restricted {
		return res, nil
	}

	tokens, total, err := s.store.UnallowedTokens(ctx, store.UnallowedTokensRequest{
		CorpusID:      c.ID,
		ControlListID: c.ControlListID,
		Field:         f,
		Offset:        offset,
		Limit:         limit,
	})
	if err != nil {
		return res, fmt.Errorf("unallowed tokens: %w", err)
	}

	res.Items, res.Total = tokens, total
	return res, nil
}

// TokenUpdate holds the new annotation values of a token. Nil fields are
// kept, an empty POS or morph clears the value.
type TokenUpdate struct {
	Lemma *string `json:"lemma"`
	POS   *string `json:"POS"`
	Morph *string `json:"morph"`
}

func (u TokenUpdate) get(f model.Field) *string {
	switch f {
	case model.FieldLemma:
		return u.Lemma
	case model.FieldPOS:
		return u.POS
	default:
		return u.Morph
	}
}

func (u *TokenUpdate) set(f model.Field, v *string) {
	if v == nil {
		v = model.Ptr("")
	}
	switch f {
	case model.FieldLemma:
		u.Lemma = v
	case model.FieldPOS:
		u.POS = v
	default:
		u.Morph = v
	}
}

// apply returns the annotation resulting from u.
func (u TokenUpdate) apply(a model.Annotation) model.Annotation {
	for _, f := range model.Fields {
		v := u.get(f)
		if v == nil {
			continue
		}
		if *v == "" && f != model.FieldLemma {
			v = nil
		}
		a.Set(f, v)
	}
	return a
}

// UpdateResult is the outcome of a token correction.
type UpdateResult struct {
	Token  model.WordToken    `json:"token"`
	Record model.ChangeRecord `json:"record"`
	// Similar counts the other tokens sharing the form that still hold an
	// old value of the record.
	Similar int `json:"similar"`
}

// UpdateToken corrects the annotation of a token. Only the values that
// change are validated; an update leaving the token as is fails with
// NothingChangedError and writes nothing.
func (s *Corpora) UpdateToken(ctx context.Context, a model.Actor, corpusID, tokenID int64, u TokenUpdate) (UpdateResult, error) {
	var res UpdateResult
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		c, _, err := corpusAccess(ctx, tx, a, corpusID)
		if err != nil {
			return err
		}

		t, err := s.token(ctx, tx, corpusID, tokenID)
		if err != nil {
			return err
		}

		res.Token, res.Record, err = s.updateToken(ctx, tx, a, c, t, u)
		if err != nil {
			return err
		}

		similar, err := tx.SimilarToRecord(ctx, res.Record)
		if err != nil {
			return fmt.Errorf("similar to record: %w", err)
		}
		res.Similar = len(similar)

		return nil
	})

	return res, err
}

func (s *Corpora) updateToken(ctx context.Context, tx store.Store, a model.Actor, c model.Corpus, t model.WordToken, u TokenUpdate) (model.WordToken, model.ChangeRecord, error) {
	next := u.apply(t.Annotation)
	if next.Equal(t.Annotation) {
		return t, model.ChangeRecord{}, nothingChangedErr(t.ID)
	}
	if err := checkAnnotation(next); err != nil {
		return t, model.ChangeRecord{}, err
	}

	values := make(map[model.Field]string)
	for _, f := range model.Fields {
		v := next.Get(f)
		if v != nil && !model.SameValue(v, t.Get(f)) {
			values[f] = *v
		}
	}

	st, err := s.validator.Check(ctx, tx, c, values)
	if err != nil {
		return t, model.ChangeRecord{}, fmt.Errorf("check validity: %w", err)
	}
	if !st.Valid() {
		return t, model.ChangeRecord{}, validityErr(st)
	}

	rec := model.ChangeRecord{
		CorpusID: c.ID,
		TokenID:  t.ID,
		UserID:   a.UserID,
		Form:     t.Form,
		Old:      t.Annotation,
		New:      next,
	}
	rec.ID, err = tx.InsertChangeRecord(ctx, rec)
	if err != nil {
		return t, rec, fmt.Errorf("insert change record: %w", err)
	}

	if err := tx.UpdateAnnotation(ctx, t.ID, next); err != nil {
		return t, rec, fmt.Errorf("update annotation: %w", err)
	}

	t.Annotation = next
	return t, rec, nil
}

// Similar returns the tokens sharing the form of tokenID and matching mode.
func (s *Corpora) Similar(ctx context.Context, a model.Actor, corpusID, tokenID int64, mode model.SimilarityMode) ([]model.WordToken, error) {
	if _, _, err := corpusAccess(ctx, s.store, a, corpusID); err != nil {
		return nil, err
	}
	if _, err := s.token(ctx, s.store, corpusID, tokenID); err != nil {
		return nil, err
	}

	tokens, err := s.store.SimilarTokens(ctx, tokenID, mode)
	if err != nil {
		return nil, fmt.Errorf("similar tokens: %w", err)
	}

	return tokens, nil
}

func (s *Corpora) record(ctx context.Context, st store.Store, corpusID, recordID int64) (model.ChangeRecord, error) {
	rec, err := st.GetChangeRecord(ctx, corpusID, recordID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return rec, notFoundErr(err, "change record", recordID)
		}
		return rec, fmt.Errorf("get change record: %w", err)
	}

	return rec, nil
}

// SimilarToRecord lists the tokens a past correction could also apply to.
func (s *Corpora) SimilarToRecord(ctx context.Context, a model.Actor, corpusID, recordID int64) (model.ChangeRecord, []model.WordToken, error) {
	if _, _, err := corpusAccess(ctx, s.store, a, corpusID); err != nil {
		return model.ChangeRecord{}, nil, err
	}

	rec, err := s.record(ctx, s.store, corpusID, recordID)
	if err != nil {
		return rec, nil, err
	}

	tokens, err := s.store.SimilarToRecord(ctx, rec)
	if err != nil {
		return rec, nil, fmt.Errorf("similar to record: %w", err)
	}

	return rec, tokens, nil
}

// ApplyChanges replays a change record on the given tokens. A field is only
// changed when the token still holds the record's old value for it; tokens
// left untouched are skipped. Every modified token gets its own record.
func (s *Corpora) ApplyChanges(ctx context.Context, a model.Actor, corpusID, recordID int64, tokenIDs []int64) ([]model.WordToken, error) {
	var changed []model.WordToken
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		c, _, err := corpusAccess(ctx, tx, a, corpusID)
		if err != nil {
			return err
		}

		rec, err := s.record(ctx, tx, corpusID, recordID)
		if err != nil {
			return err
		}

		tokens, err := tx.TokensByID(ctx, corpusID, tokenIDs)
		if err != nil {
			return fmt.Errorf("tokens by id: %w", err)
		}

		for _, t := range tokens {
			var u TokenUpdate
			applies := false
			for _, f := range rec.Changed() {
				if model.SameValue(t.Get(f), rec.Old.Get(f)) {
					u.set(f, rec.New.Get(f))
					applies = true
				}
			}
			if !applies {
				continue
			}

			t, _, err = s.updateToken(ctx, tx, a, c, t, u)
			if err != nil {
				var nc NothingChangedError
				if errors.As(err, &nc) {
					continue
				}
				return err
			}
			changed = append(changed, t)
		}

		return nil
	})

	return changed, err
}

type HistoryRequest struct {
	UserID *int64
	PageRequest
}

// History lists the change records of a corpus, newest first.
func (s *Corpora) History(ctx context.Context, a model.Actor, corpusID int64, r HistoryRequest) (model.Page[model.ChangeRecord], error) {
	if _, _, err := corpusAccess(ctx, s.store, a, corpusID); err != nil {
		return model.Page[model.ChangeRecord]{}, err
	}

	offset, limit, page, perPage := s.page(r.PageRequest)
	recs, total, err := s.store.ListChangeRecords(ctx, store.ListChangeRecordsRequest{
		CorpusID: corpusID,
		UserID:   r.UserID,
		Offset:   offset,
		Limit:    limit,
	})
	if err != nil {
		return model.Page[model.ChangeRecord]{}, fmt.Errorf("list change records: %w", err)
	}

	return model.Page[model.ChangeRecord]{Items: recs, Total: total, Page: page, PerPage: perPage}, nil
}
