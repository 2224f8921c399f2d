package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/model"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/store"
)

func (s *Corpora) Dictionary(ctx context.Context, a model.Actor, corpusID int64, f model.Field) ([]model.DictionaryEntry, error) {
	if _, _, err := corpusAccess(ctx, s.store, a, corpusID); err != nil {
		return nil, err
	}

	es, err := s.store.DictionaryEntries(ctx, corpusID, f)
	if err != nil {
		return nil, fmt.Errorf("dictionary entries: %w", err)
	}

	return es, nil
}

// AddToDictionary accepts label for f in this corpus, whatever the control
// list says.
func (s *Corpora) AddToDictionary(ctx context.Context, a model.Actor, corpusID int64, f model.Field, label string, secondary *string) (model.DictionaryEntry, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return model.DictionaryEntry{}, validationErr("label", "must not be empty")
	}
	if err := checkLength("label", label, MaxLabelLength); err != nil {
		return model.DictionaryEntry{}, err
	}
	if secondary != nil {
		if err := checkLength("secondary_label", *secondary, MaxReadableLength); err != nil {
			return model.DictionaryEntry{}, err
		}
	}

	if _, _, err := corpusAccess(ctx, s.store, a, corpusID); err != nil {
		return model.DictionaryEntry{}, err
	}

	e := model.DictionaryEntry{CorpusID: corpusID, Category: f, Label: label, SecondaryLabel: secondary}
	id, err := s.store.AddDictionaryEntry(ctx, e)
	if err != nil {
		if errors.Is(err, store.ErrExists) {
			return e, conflictErr(err, "%q is already in the %s dictionary", label, f)
		}
		return e, fmt.Errorf("add dictionary entry: %w", err)
	}

	e.ID = id
	return e, nil
}

func (s *Corpora) RemoveFromDictionary(ctx context.Context, a model.Actor, corpusID int64, f model.Field, label string) error {
	if _, _, err := corpusAccess(ctx, s.store, a, corpusID); err != nil {
		return err
	}

	if err := s.store.DeleteDictionaryEntry(ctx, corpusID, f, label); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFoundErr(err, "dictionary entry", corpusID).WithEnv("label", label)
		}
		return fmt.Errorf("delete dictionary entry: %w", err)
	}

	return nil
}

// ReplaceDictionary overwrites the dictionary of f with labels. Blank and
// repeated labels are dropped.
func (s *Corpora) ReplaceDictionary(ctx context.Context, a model.Actor, corpusID int64, f model.Field, labels []string) error {
	entries := make([]model.DictionaryEntry, 0, len(labels))
	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		if err := checkLength("label", l, MaxLabelLength); err != nil {
			return err
		}
		entries = append(entries, model.DictionaryEntry{CorpusID: corpusID, Category: f, Label: l})
	}

	return s.store.WithTx(ctx, func(tx store.Store) error {
		if _, _, err := corpusAccess(ctx, tx, a, corpusID); err != nil {
			return err
		}

		if err := tx.ReplaceDictionary(ctx, corpusID, f, entries); err != nil {
			return fmt.Errorf("replace dictionary: %w", err)
		}

		return nil
	})
}

// Suggestion is an autocompletion candidate. Label differs from Value for
// morphology codes with a readable form.
type Suggestion struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Autocomplete proposes values of f starting with prefix. Restricted fields
// draw from the control list, other fields from the values already used in
// the corpus and its dictionary.
func (s *Corpora) Autocomplete(ctx context.Context, a model.Actor, corpusID int64, f model.Field, prefix string) ([]Suggestion, error) {
	c, _, err := corpusAccess(ctx, s.store, a, corpusID)
	if err != nil {
		return nil, err
	}

	restricted, err := s.validator.Restricted(ctx, s.store, c.ControlListID, f)
	if err != nil {
		return nil, err
	}

	if restricted {
		vs, _, err := s.store.AllowedValues(ctx, store.AllowedValuesRequest{
			ControlListID: c.ControlListID,
			Field:         f,
			Prefix:        prefix,
			Limit:         s.suggestCap,
		})
		if err != nil {
			return nil, fmt.Errorf("allowed values: %w", err)
		}

		res := make([]Suggestion, 0, len(vs))
		for _, v := range vs {
			label := v.Readable
			if label == "" {
				label = v.Label
			}
			res = append(res, Suggestion{Value: v.Label, Label: label})
		}
		return res, nil
	}

	used, err := s.store.DistinctValues(ctx, store.DistinctValuesRequest{
		CorpusID: c.ID,
		Field:    f,
		Prefix:   prefix,
		Limit:    s.suggestCap,
	})
	if err != nil {
		return nil, fmt.Errorf("distinct values: %w", err)
	}

	dict, err := s.store.DictionaryEntries(ctx, c.ID, f)
	if err != nil {
		return nil, fmt.Errorf("dictionary entries: %w", err)
	}

	seen := make(map[string]bool, len(used)+len(dict))
	var values []string
	add := func(v string) {
		if !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	for _, v := range used {
		add(v)
	}
	lower := strings.ToLower(prefix)
	for _, e := range dict {
		if strings.HasPrefix(strings.ToLower(e.Label), lower) {
			add(e.Label)
		}
	}

	sort.Strings(values)
	if len(values) > s.suggestCap {
		values = values[:s.suggestCap]
	}

	res := make([]Suggestion, 0, len(values))
	for _, v := range values {
		res = append(res, Suggestion{Value: v, Label: v})
	}
	return res, nil
}
