package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/model"
)

// validityStore defines the lookups needed to check candidate values.
type validityStore interface {
	CountAllowed(ctx context.Context, controlListID int64, f model.Field) (int, error)
	IsAllowed(ctx context.Context, controlListID int64, f model.Field, label string) (bool, error)
	InDictionary(ctx context.Context, corpusID int64, f model.Field, label string) (bool, error)
	Columns(ctx context.Context, corpusID int64) ([]model.Column, error)
}

// Validator checks annotation values against the control list of a corpus
// and its custom dictionary. Whether a control list restricts a field at all
// is cached for at most ttl, and must be invalidated whenever the allowed
// values change.
type Validator struct {
	cache *ristretto.Cache[string, bool]
	ttl   time.Duration
}

const defaultRestrictionTTL = time.Minute

func NewValidator(maxKeys, maxCost int64, ttl time.Duration) *Validator {
	if ttl <= 0 {
		ttl = defaultRestrictionTTL
	}

	c, err := ristretto.NewCache(&ristretto.Config[string, bool]{
		NumCounters: maxKeys * 10,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to create validator cache: %v", err))
	}

	return &Validator{cache: c, ttl: ttl}
}

// Check validates the given values field by field. A value is accepted when
// its column is hidden, when the control list has no allowed values for its
// field, when it is one of them, or when the corpus dictionary holds it.
func (v *Validator) Check(ctx context.Context, vs validityStore, c model.Corpus, values map[model.Field]string) (Statuses, error) {
	st := make(Statuses, len(model.Fields))
	for _, f := range model.Fields {
		st[f] = true
	}
	if len(values) == 0 {
		return st, nil
	}

	cols, err := vs.Columns(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	hidden := make(map[model.Field]bool, len(cols))
	for _, col := range cols {
		hidden[col.Name] = col.Hidden
	}

	for f, val := range values {
		if hidden[f] {
			continue
		}
		ok, err := v.accepts(ctx, vs, c, f, val)
		if err != nil {
			return nil, fmt.Errorf("check %s: %w", f, err)
		}
		st[f] = ok
	}

	return st, nil
}

func (v *Validator) accepts(ctx context.Context, vs validityStore, c model.Corpus, f model.Field, val string) (bool, error) {
	restricted, err := v.Restricted(ctx, vs, c.ControlListID, f)
	if err != nil {
		return false, err
	}
	if !restricted {
		return true, nil
	}

	ok, err := vs.IsAllowed(ctx, c.ControlListID, f, val)
	if err != nil {
		return false, fmt.Errorf("is allowed: %w", err)
	}
	if ok {
		return true, nil
	}

	ok, err = vs.InDictionary(ctx, c.ID, f, val)
	if err != nil {
		return false, fmt.Errorf("in dictionary: %w", err)
	}

	return ok, nil
}

// Restricted reports whether the control list holds allowed values for f.
func (v *Validator) Restricted(ctx context.Context, vs validityStore, controlListID int64, f model.Field) (bool, error) {
	key := cacheKey(controlListID, f)
	if r, found := v.cache.Get(key); found {
		return r, nil
	}

	n, err := vs.CountAllowed(ctx, controlListID, f)
	if err != nil {
		return false, fmt.Errorf("count allowed: %w", err)
	}

	// A count read before a concurrent rewrite may land after its
	// invalidation; the ttl bounds how long it can be served.
	v.cache.SetWithTTL(key, n > 0, 1, v.ttl)
	return n > 0, nil
}

func (v *Validator) Invalidate(controlListID int64, fs ...model.Field) {
	if len(fs) == 0 {
		fs = model.Fields
	}
	for _, f := range fs {
		v.cache.Del(cacheKey(controlListID, f))
	}
}

func cacheKey(controlListID int64, f model.Field) string {
	return fmt.Sprintf("%d/%s", controlListID, f)
}
