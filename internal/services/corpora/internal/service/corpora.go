package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gamma-omg/lexi-annotate/internal/pkg/serr"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/model"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/store"
)

var ErrNoTokensInput = errors.New("no tokens in input")

const (
	defaultPageSize   = 100
	maxPageSize       = 1000
	defaultSuggestion = 20
)

// Corpora manages corpora, their tokens and everything attached to them.
type Corpora struct {
	store      store.Store
	validator  *Validator
	pageSize   int
	suggestCap int
}

type CorporaOption func(*Corpora) *Corpora

func WithCorporaStore(st store.Store) CorporaOption {
	return func(s *Corpora) *Corpora {
		s.store = st
		return s
	}
}

func WithValidator(v *Validator) CorporaOption {
	return func(s *Corpora) *Corpora {
		s.validator = v
		return s
	}
}

func WithPageSize(n int) CorporaOption {
	return func(s *Corpora) *Corpora {
		s.pageSize = n
		return s
	}
}

func WithSuggestionLimit(n int) CorporaOption {
	return func(s *Corpora) *Corpora {
		s.suggestCap = n
		return s
	}
}

func NewCorpora(opts ...CorporaOption) *Corpora {
	s := &Corpora{
		pageSize:   defaultPageSize,
		suggestCap: defaultSuggestion,
	}
	for _, opt := range opts {
		s = opt(s)
	}

	if s.store == nil {
		panic("store is required")
	}

	if s.validator == nil {
		panic("validator is required")
	}

	return s
}

type CreateCorpusRequest struct {
	Name string
	// ControlListID reuses an existing control list. When nil, ControlList
	// is created alongside the corpus.
	ControlListID  *int64
	ControlList    *NewControlList
	ContextLeft    int
	ContextRight   int
	DelimiterToken *string
	Tokens         []model.WordToken
}

// Create stores a new corpus owned by the actor. Delimiter tokens are not
// stored, positions and contexts are assigned in input order.
func (s *Corpora) Create(ctx context.Context, a model.Actor, r CreateCorpusRequest) (model.Corpus, error) {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return model.Corpus{}, validationErr("name", "must not be empty")
	}
	if err := checkLength("name", r.Name, MaxNameLength); err != nil {
		return model.Corpus{}, err
	}
	if err := checkContextSize("context_left", r.ContextLeft); err != nil {
		return model.Corpus{}, err
	}
	if err := checkContextSize("context_right", r.ContextRight); err != nil {
		return model.Corpus{}, err
	}
	if r.DelimiterToken != nil && *r.DelimiterToken == "" {
		r.DelimiterToken = nil
	}
	if r.DelimiterToken != nil {
		if err := checkLength("delimiter_token", *r.DelimiterToken, MaxDelimiterLength); err != nil {
			return model.Corpus{}, err
		}
	}

	tokens, err := prepareTokens(r.Tokens, r.DelimiterToken, r.ContextLeft, r.ContextRight)
	if err != nil {
		return model.Corpus{}, err
	}

	var c model.Corpus
	err = s.store.WithTx(ctx, func(tx store.Store) error {
		clID, err := s.resolveControlList(ctx, tx, a, r)
		if err != nil {
			return err
		}

		id, err := tx.CreateCorpus(ctx, store.CreateCorpusRequest{
			Name:           r.Name,
			ControlListID:  clID,
			ContextLeft:    r.ContextLeft,
			ContextRight:   r.ContextRight,
			DelimiterToken: r.DelimiterToken,
		})
		if err != nil {
			if errors.Is(err, store.ErrExists) {
				return conflictErr(err, "corpus %q already exists", r.Name).WithEnv("name", r.Name)
			}
			return fmt.Errorf("create corpus: %w", err)
		}

		if a.UserID != 0 {
			if err := tx.SetCorpusMembers(ctx, id, []model.Member{{UserID: a.UserID, IsOwner: true}}); err != nil {
				return fmt.Errorf("set corpus owner: %w", err)
			}
		}

		if err := tx.InsertTokens(ctx, id, tokens); err != nil {
			return fmt.Errorf("insert tokens: %w", err)
		}

		c, err = tx.GetCorpus(ctx, id)
		return err
	})

	return c, err
}

func (s *Corpora) resolveControlList(ctx context.Context, tx store.Store, a model.Actor, r CreateCorpusRequest) (int64, error) {
	if r.ControlListID != nil {
		cl, _, err := controlListAccess(ctx, tx, a, *r.ControlListID)
		return cl.ID, err
	}
	if r.ControlList == nil {
		return 0, validationErr("control_list", "either an existing or a new control list is required")
	}

	nl := *r.ControlList
	if nl.Name == "" {
		nl.Name = r.Name
	}
	return insertControlList(ctx, tx, a, nl)
}

// prepareTokens drops delimiter tokens, numbers the remaining ones from 1
// and computes their contexts.
func prepareTokens(in []model.WordToken, delimiter *string, left, right int) ([]model.WordToken, error) {
	tokens := make([]model.WordToken, 0, len(in))
	for i, t := range in {
		if delimiter != nil && t.Form == *delimiter {
			continue
		}
		if err := checkForm(t.Form); err != nil {
			return nil, withLine(err, i+1)
		}
		if err := checkAnnotation(t.Annotation); err != nil {
			return nil, withLine(err, i+1)
		}

		t.OrderID = len(tokens) + 1
		tokens = append(tokens, t)
	}

	if len(tokens) == 0 {
		return nil, badRequestErr(ErrNoTokensInput, "no tokens were given")
	}

	forms := make([]string, len(tokens))
	for i, t := range tokens {
		forms[i] = t.Form
	}
	for i, cx := range ComputeContexts(forms, 0, len(forms)-1, left, right) {
		tokens[i].LeftContext = cx.Left
		tokens[i].RightContext = cx.Right
	}

	return tokens, nil
}

func withLine(err error, line int) error {
	var se *serr.ServiceError
	if errors.As(err, &se) {
		se.WithEnv("token", line)
	}
	return err
}

// CorpusDetails is a corpus as displayed to one of its members.
type CorpusDetails struct {
	model.Corpus
	ControlList model.ControlList `json:"control_list"`
	Columns     []model.Column    `json:"columns"`
	TokenCount  int               `json:"token_count"`
	IsOwner     bool              `json:"is_owner"`
}

func (s *Corpora) Get(ctx context.Context, a model.Actor, corpusID int64) (CorpusDetails, error) {
	c, m, err := corpusAccess(ctx, s.store, a, corpusID)
	if err != nil {
		return CorpusDetails{}, err
	}

	cl, err := s.store.GetControlList(ctx, c.ControlListID)
	if err != nil {
		return CorpusDetails{}, fmt.Errorf("get control list: %w", err)
	}

	cols, err := s.store.Columns(ctx, c.ID)
	if err != nil {
		return CorpusDetails{}, fmt.Errorf("columns: %w", err)
	}

	n, err := s.store.CountTokens(ctx, c.ID)
	if err != nil {
		return CorpusDetails{}, fmt.Errorf("count tokens: %w", err)
	}

	return CorpusDetails{
		Corpus:      c,
		ControlList: cl,
		Columns:     cols,
		TokenCount:  n,
		IsOwner:     m.IsOwner,
	}, nil
}

// List returns the corpora the actor belongs to, every corpus for
// administrators.
func (s *Corpora) List(ctx context.Context, a model.Actor) ([]model.Corpus, error) {
	cs, err := s.store.ListCorpora(ctx, store.ListCorporaRequest{UserID: a.UserID, All: a.IsAdmin()})
	if err != nil {
		return nil, fmt.Errorf("list corpora: %w", err)
	}

	return cs, nil
}

func (s *Corpora) Delete(ctx context.Context, a model.Actor, corpusID int64) error {
	return s.store.WithTx(ctx, func(tx store.Store) error {
		if _, err := corpusOwner(ctx, tx, a, corpusID); err != nil {
			return err
		}

		if err := tx.DeleteCorpus(ctx, corpusID); err != nil {
			return fmt.Errorf("delete corpus: %w", err)
		}

		return nil
	})
}

func (s *Corpora) Members(ctx context.Context, a model.Actor, corpusID int64) ([]model.Member, error) {
	if _, _, err := corpusAccess(ctx, s.store, a, corpusID); err != nil {
		return nil, err
	}

	ms, err := s.store.CorpusMembers(ctx, corpusID)
	if err != nil {
		return nil, fmt.Errorf("corpus members: %w", err)
	}

	return ms, nil
}

// SetMembers replaces the member list of a corpus. At least one of the
// current owners has to stay an owner.
func (s *Corpora) SetMembers(ctx context.Context, a model.Actor, corpusID int64, members []model.Member) error {
	return s.store.WithTx(ctx, func(tx store.Store) error {
		if _, err := corpusOwner(ctx, tx, a, corpusID); err != nil {
			return err
		}

		current, err := tx.CorpusMembers(ctx, corpusID)
		if err != nil {
			return fmt.Errorf("corpus members: %w", err)
		}
		if err := checkOwners(current, members); err != nil {
			return err
		}

		if err := tx.SetCorpusMembers(ctx, corpusID, members); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return serr.NewServiceError(err, http.StatusNotFound, "unknown user in member list")
			}
			return fmt.Errorf("set corpus members: %w", err)
		}

		return nil
	})
}

func (s *Corpora) Columns(ctx context.Context, a model.Actor, corpusID int64) ([]model.Column, error) {
	if _, _, err := corpusAccess(ctx, s.store, a, corpusID); err != nil {
		return nil, err
	}

	cols, err := s.store.Columns(ctx, corpusID)
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	return cols, nil
}

// UpdateColumns changes which annotation columns are displayed. Columns
// left out of cols keep their current state; a change leaving every column
// hidden is refused.
func (s *Corpora) UpdateColumns(ctx context.Context, a model.Actor, corpusID int64, cols []model.Column) error {
	hidden := make(map[model.Field]bool, len(cols))
	for _, c := range cols {
		if _, ok := model.ParseField(string(c.Name)); !ok {
			return preferencesErr(fmt.Sprintf("unknown column %q", c.Name))
		}
		if _, dup := hidden[c.Name]; dup {
			return preferencesErr(fmt.Sprintf("column %q given twice", c.Name))
		}
		hidden[c.Name] = c.Hidden
	}

	return s.store.WithTx(ctx, func(tx store.Store) error {
		if _, _, err := corpusAccess(ctx, tx, a, corpusID); err != nil {
			return err
		}

		current, err := tx.Columns(ctx, corpusID)
		if err != nil {
			return fmt.Errorf("columns: %w", err)
		}

		next := make([]model.Column, 0, len(current))
		visible := 0
		for _, c := range current {
			if h, ok := hidden[c.Name]; ok {
				c.Hidden = h
			}
			if !c.Hidden {
				visible++
			}
			next = append(next, c)
		}
		if visible == 0 {
			return preferencesErr("at least one column must stay visible")
		}

		if err := tx.SetColumns(ctx, corpusID, next); err != nil {
			return fmt.Errorf("set columns: %w", err)
		}

		return nil
	})
}

func (s *Corpora) Bookmark(ctx context.Context, a model.Actor, corpusID int64) (model.Bookmark, error) {
	if _, _, err := corpusAccess(ctx, s.store, a, corpusID); err != nil {
		return model.Bookmark{}, err
	}

	b, err := s.store.GetBookmark(ctx, a.UserID, corpusID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return b, notFoundErr(err, "bookmark", corpusID)
		}
		return b, fmt.Errorf("get bookmark: %w", err)
	}

	return b, nil
}

func (s *Corpora) SetBookmark(ctx context.Context, a model.Actor, corpusID, tokenID int64, page int) error {
	if _, _, err := corpusAccess(ctx, s.store, a, corpusID); err != nil {
		return err
	}
	if _, err := s.token(ctx, s.store, corpusID, tokenID); err != nil {
		return err
	}

	err := s.store.SetBookmark(ctx, model.Bookmark{
		UserID:   a.UserID,
		CorpusID: corpusID,
		TokenID:  tokenID,
		Page:     max(page, 1),
	})
	if err != nil {
		return fmt.Errorf("set bookmark: %w", err)
	}

	return nil
}

func (s *Corpora) DeleteBookmark(ctx context.Context, a model.Actor, corpusID int64) error {
	if _, _, err := corpusAccess(ctx, s.store, a, corpusID); err != nil {
		return err
	}

	if err := s.store.DeleteBookmark(ctx, a.UserID, corpusID); err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}

	return nil
}

// Export gathers everything needed to write a corpus back to files.
type Export struct {
	Corpus  model.Corpus
	Tokens  []model.WordToken
	Allowed map[model.Field][]model.AllowedValue
}

func (s *Corpora) Export(ctx context.Context, a model.Actor, corpusID int64) (Export, error) {
	c, _, err := corpusAccess(ctx, s.store, a, corpusID)
	if err != nil {
		return Export{}, err
	}

	tokens, _, err := s.store.ListTokens(ctx, store.ListTokensRequest{CorpusID: c.ID})
	if err != nil {
		return Export{}, fmt.Errorf("list tokens: %w", err)
	}

	allowed := make(map[model.Field][]model.AllowedValue, len(model.Fields))
	for _, f := range model.Fields {
		vs, _, err := s.store.AllowedValues(ctx, store.AllowedValuesRequest{ControlListID: c.ControlListID, Field: f})
		if err != nil {
			return Export{}, fmt.Errorf("allowed %s: %w", f, err)
		}
		allowed[f] = vs
	}

	return Export{Corpus: c, Tokens: tokens, Allowed: allowed}, nil
}
