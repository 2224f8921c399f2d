package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/model"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/store"
)

// ComputeContexts builds the contexts of forms[from..to] (inclusive) using at
// most left preceding and right following forms of the same slice.
func ComputeContexts(forms []string, from, to, left, right int) []model.Context {
	if from < 0 {
		from = 0
	}
	if to >= len(forms) {
		to = len(forms) - 1
	}
	if from > to {
		return nil
	}

	res := make([]model.Context, 0, to-from+1)
	for i := from; i <= to; i++ {
		lo := max(0, i-left)
		hi := min(len(forms), i+1+right)
		res = append(res, model.Context{
			Left:  strings.Join(forms[lo:i], " "),
			Right: strings.Join(forms[i+1:hi], " "),
		})
	}

	return res
}

// updateContextAround recomputes the contexts of every token whose
// neighbourhood includes the position pos, after a token was inserted,
// deleted or had its form edited there.
func updateContextAround(ctx context.Context, tx store.Store, c model.Corpus, pos int) error {
	count, err := tx.CountTokens(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("count tokens: %w", err)
	}
	if count == 0 {
		return nil
	}

	w := max(c.ContextLeft, c.ContextRight)
	first, last := max(1, pos-w), min(count, pos+w)
	if first > last {
		return nil
	}

	winFirst, winLast := max(1, pos-2*w), min(count, pos+2*w)
	forms, err := tx.Forms(ctx, c.ID, winFirst, winLast)
	if err != nil {
		return fmt.Errorf("forms: %w", err)
	}

	contexts := ComputeContexts(forms, first-winFirst, last-winFirst, c.ContextLeft, c.ContextRight)
	if err := tx.SetContexts(ctx, c.ID, first, contexts); err != nil {
		return fmt.Errorf("set contexts: %w", err)
	}

	return nil
}
