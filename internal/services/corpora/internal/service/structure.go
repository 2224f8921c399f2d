package service

import (
	"context"
	"fmt"

	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/model"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/store"
)

// NewToken is a token inserted after the token After, or at the very
// beginning of the corpus when After is 0.
type NewToken struct {
	After int64
	Form  string
	model.Annotation
}

func (s *Corpora) AddToken(ctx context.Context, a model.Actor, corpusID int64, nt NewToken) (model.WordToken, error) {
	if err := checkForm(nt.Form); err != nil {
		return model.WordToken{}, err
	}
	if err := checkAnnotation(nt.Annotation); err != nil {
		return model.WordToken{}, err
	}

	var t model.WordToken
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		c, _, err := corpusAccess(ctx, tx, a, corpusID)
		if err != nil {
			return err
		}

		pos := 1
		if nt.After != 0 {
			prev, err := s.token(ctx, tx, corpusID, nt.After)
			if err != nil {
				return err
			}
			pos = prev.OrderID + 1
		}

		values := make(map[model.Field]string)
		for _, f := range model.Fields {
			if v := nt.Get(f); v != nil {
				values[f] = *v
			}
		}
		st, err := s.validator.Check(ctx, tx, c, values)
		if err != nil {
			return fmt.Errorf("check validity: %w", err)
		}
		if !st.Valid() {
			return validityErr(st)
		}

		if err := tx.ShiftOrder(ctx, corpusID, pos, 1); err != nil {
			return fmt.Errorf("shift order: %w", err)
		}

		id, err := tx.InsertToken(ctx, model.WordToken{
			CorpusID:   corpusID,
			OrderID:    pos,
			Form:       nt.Form,
			Annotation: nt.Annotation,
		})
		if err != nil {
			return fmt.Errorf("insert token: %w", err)
		}

		if err := updateContextAround(ctx, tx, c, pos); err != nil {
			return fmt.Errorf("update contexts: %w", err)
		}

		_, err = tx.InsertTokenHistory(ctx, model.TokenHistory{
			CorpusID: corpusID,
			TokenID:  &id,
			UserID:   a.UserID,
			Action:   model.ActionAddition,
			OrderID:  pos,
			Form:     nt.Form,
		})
		if err != nil {
			return fmt.Errorf("insert token history: %w", err)
		}

		t, err = s.token(ctx, tx, corpusID, id)
		return err
	})

	return t, err
}

// EditForm changes the form of a token and refreshes the surrounding
// contexts.
func (s *Corpora) EditForm(ctx context.Context, a model.Actor, corpusID, tokenID int64, form string) (model.WordToken, error) {
	if err := checkForm(form); err != nil {
		return model.WordToken{}, err
	}

	var t model.WordToken
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		c, _, err := corpusAccess(ctx, tx, a, corpusID)
		if err != nil {
			return err
		}

		old, err := s.token(ctx, tx, corpusID, tokenID)
		if err != nil {
			return err
		}
		if old.Form == form {
			return nothingChangedErr(tokenID)
		}

		if err := tx.UpdateForm(ctx, tokenID, form); err != nil {
			return fmt.Errorf("update form: %w", err)
		}

		if err := updateContextAround(ctx, tx, c, old.OrderID); err != nil {
			return fmt.Errorf("update contexts: %w", err)
		}

		_, err = tx.InsertTokenHistory(ctx, model.TokenHistory{
			CorpusID: corpusID,
			TokenID:  &tokenID,
			UserID:   a.UserID,
			Action:   model.ActionEdition,
			OrderID:  old.OrderID,
			Form:     old.Form,
			FormNew:  &form,
		})
		if err != nil {
			return fmt.Errorf("insert token history: %w", err)
		}

		t, err = s.token(ctx, tx, corpusID, tokenID)
		return err
	})

	return t, err
}

// DeleteToken removes a token, closes the gap in the positions and
// refreshes the surrounding contexts.
func (s *Corpora) DeleteToken(ctx context.Context, a model.Actor, corpusID, tokenID int64) error {
	return s.store.WithTx(ctx, func(tx store.Store) error {
		c, _, err := corpusAccess(ctx, tx, a, corpusID)
		if err != nil {
			return err
		}

		t, err := s.token(ctx, tx, corpusID, tokenID)
		if err != nil {
			return err
		}

		n, err := tx.CountTokens(ctx, corpusID)
		if err != nil {
			return fmt.Errorf("count tokens: %w", err)
		}
		if n <= 1 {
			return badRequestErr(ErrLastToken, "the last token of a corpus cannot be deleted")
		}

		if err := tx.DeleteToken(ctx, tokenID); err != nil {
			return fmt.Errorf("delete token: %w", err)
		}

		if err := tx.ShiftOrder(ctx, corpusID, t.OrderID+1, -1); err != nil {
			return fmt.Errorf("shift order: %w", err)
		}

		if err := updateContextAround(ctx, tx, c, t.OrderID); err != nil {
			return fmt.Errorf("update contexts: %w", err)
		}

		_, err = tx.InsertTokenHistory(ctx, model.TokenHistory{
			CorpusID: corpusID,
			UserID:   a.UserID,
			Action:   model.ActionDeletion,
			OrderID:  t.OrderID,
			Form:     t.Form,
		})
		if err != nil {
			return fmt.Errorf("insert token history: %w", err)
		}

		return nil
	})
}

func (s *Corpora) TokenHistory(ctx context.Context, a model.Actor, corpusID int64, r PageRequest) (model.Page[model.TokenHistory], error) {
	if _, _, err := corpusAccess(ctx, s.store, a, corpusID); err != nil {
		return model.Page[model.TokenHistory]{}, err
	}

	offset, limit, page, perPage := s.page(r)
	hs, total, err := s.store.ListTokenHistory(ctx, store.ListTokenHistoryRequest{
		CorpusID: corpusID,
		Offset:   offset,
		Limit:    limit,
	})
	if err != nil {
		return model.Page[model.TokenHistory]{}, fmt.Errorf("list token history: %w", err)
	}

	return model.Page[model.TokenHistory]{Items: hs, Total: total, Page: page, PerPage: perPage}, nil
}
