package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/model"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/store"
)

// ControlLists manages control lists and their allowed values. Every change
// of allowed values invalidates the validator cache of the list.
type ControlLists struct {
	store     store.Store
	validator *Validator
	pageSize  int
}

type ControlListsOption func(*ControlLists) *ControlLists

func WithControlListsStore(st store.Store) ControlListsOption {
	return func(s *ControlLists) *ControlLists {
		s.store = st
		return s
	}
}

func WithControlListsValidator(v *Validator) ControlListsOption {
	return func(s *ControlLists) *ControlLists {
		s.validator = v
		return s
	}
}

func NewControlLists(opts ...ControlListsOption) *ControlLists {
	s := &ControlLists{pageSize: defaultPageSize}
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

// NewControlList describes a control list to create with its values.
type NewControlList struct {
	Name        string
	Description string
	Notes       string
	Lemma       []model.AllowedValue
	POS         []model.AllowedValue
	Morph       []model.AllowedValue
}

func (n NewControlList) values(f model.Field) []model.AllowedValue {
	switch f {
	case model.FieldLemma:
		return n.Lemma
	case model.FieldPOS:
		return n.POS
	default:
		return n.Morph
	}
}

// insertControlList creates a private control list owned by the actor.
func insertControlList(ctx context.Context, tx store.Store, a model.Actor, n NewControlList) (int64, error) {
	n.Name = strings.TrimSpace(n.Name)
	if n.Name == "" {
		return 0, validationErr("name", "must not be empty")
	}
	if err := checkLength("name", n.Name, MaxNameLength); err != nil {
		return 0, err
	}
	for _, f := range model.Fields {
		if err := checkLabels(n.values(f)); err != nil {
			return 0, err
		}
	}

	id, err := tx.CreateControlList(ctx, store.CreateControlListRequest{
		Name:        n.Name,
		Description: n.Description,
		Notes:       n.Notes,
		Visibility:  model.VisibilityPrivate,
	})
	if err != nil {
		if errors.Is(err, store.ErrExists) {
			return 0, conflictErr(err, "control list %q already exists", n.Name).WithEnv("name", n.Name)
		}
		return 0, fmt.Errorf("create control list: %w", err)
	}

	if a.UserID != 0 {
		if err := tx.SetControlListMembers(ctx, id, []model.Member{{UserID: a.UserID, IsOwner: true}}); err != nil {
			return 0, fmt.Errorf("set control list owner: %w", err)
		}
	}

	for _, f := range model.Fields {
		if vs := n.values(f); len(vs) > 0 {
			if err := tx.ReplaceAllowed(ctx, id, f, vs); err != nil {
				return 0, fmt.Errorf("insert allowed %s: %w", f, err)
			}
		}
	}

	return id, nil
}

func (s *ControlLists) Create(ctx context.Context, a model.Actor, n NewControlList) (model.ControlList, error) {
	var cl model.ControlList
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		id, err := insertControlList(ctx, tx, a, n)
		if err != nil {
			return err
		}

		cl, err = tx.GetControlList(ctx, id)
		return err
	})

	return cl, err
}

// List returns the public control lists and those the actor belongs to.
func (s *ControlLists) List(ctx context.Context, a model.Actor) ([]model.ControlList, error) {
	cls, err := s.store.ListControlLists(ctx, store.ListControlListsRequest{UserID: a.UserID, All: a.IsAdmin()})
	if err != nil {
		return nil, fmt.Errorf("list control lists: %w", err)
	}

	return cls, nil
}

// ControlListDetails is a control list with the size of each value set.
type ControlListDetails struct {
	model.ControlList
	Counts  map[model.Field]int `json:"counts"`
	IsOwner bool                `json:"is_owner"`
}

func (s *ControlLists) Get(ctx context.Context, a model.Actor, id int64) (ControlListDetails, error) {
	cl, m, err := controlListAccess(ctx, s.store, a, id)
	if err != nil {
		return ControlListDetails{}, err
	}

	counts := make(map[model.Field]int, len(model.Fields))
	for _, f := range model.Fields {
		n, err := s.store.CountAllowed(ctx, id, f)
		if err != nil {
			return ControlListDetails{}, fmt.Errorf("count allowed %s: %w", f, err)
		}
		counts[f] = n
	}

	return ControlListDetails{ControlList: cl, Counts: counts, IsOwner: m.IsOwner}, nil
}

type AllowedRequest struct {
	Field  model.Field
	Prefix string
	PageRequest
}

func (s *ControlLists) Allowed(ctx context.Context, a model.Actor, id int64, r AllowedRequest) (model.Page[model.AllowedValue], error) {
	if _, _, err := controlListAccess(ctx, s.store, a, id); err != nil {
		return model.Page[model.AllowedValue]{}, err
	}

	offset, limit, page, perPage := paging(r.Page, r.PerPage, s.pageSize, maxPageSize)
	vs, total, err := s.store.AllowedValues(ctx, store.AllowedValuesRequest{
		ControlListID: id,
		Field:         r.Field,
		Prefix:        r.Prefix,
		Offset:        offset,
		Limit:         limit,
	})
	if err != nil {
		return model.Page[model.AllowedValue]{}, fmt.Errorf("allowed values: %w", err)
	}

	return model.Page[model.AllowedValue]{Items: vs, Total: total, Page: page, PerPage: perPage}, nil
}

// AllAllowed returns every allowed value of f, unpaginated.
func (s *ControlLists) AllAllowed(ctx context.Context, a model.Actor, id int64, f model.Field) ([]model.AllowedValue, error) {
	if _, _, err := controlListAccess(ctx, s.store, a, id); err != nil {
		return nil, err
	}

	vs, _, err := s.store.AllowedValues(ctx, store.AllowedValuesRequest{ControlListID: id, Field: f})
	if err != nil {
		return nil, fmt.Errorf("allowed values: %w", err)
	}

	return vs, nil
}

// ReplaceAllowed rewrites the allowed values of f. An empty list lifts the
// restriction on the field.
func (s *ControlLists) ReplaceAllowed(ctx context.Context, a model.Actor, id int64, f model.Field, values []model.AllowedValue) error {
	if err := checkLabels(values); err != nil {
		return err
	}

	err := s.store.WithTx(ctx, func(tx store.Store) error {
		if _, err := controlListOwner(ctx, tx, a, id); err != nil {
			return err
		}

		if err := tx.ReplaceAllowed(ctx, id, f, values); err != nil {
			return fmt.Errorf("replace allowed: %w", err)
		}

		return nil
	})
	s.validator.Invalidate(id, f)

	return err
}

func (s *ControlLists) AddAllowed(ctx context.Context, a model.Actor, id int64, f model.Field, v model.AllowedValue) (model.AllowedValue, error) {
	v.Label = strings.TrimSpace(v.Label)
	if err := checkLabels([]model.AllowedValue{v}); err != nil {
		return v, err
	}

	if _, err := controlListOwner(ctx, s.store, a, id); err != nil {
		return v, err
	}

	newID, err := s.store.AddAllowed(ctx, id, f, v)
	if err != nil {
		if errors.Is(err, store.ErrExists) {
			return v, conflictErr(err, "%q is already allowed", v.Label)
		}
		return v, fmt.Errorf("add allowed: %w", err)
	}
	s.validator.Invalidate(id, f)

	v.ID = newID
	return v, nil
}

func (s *ControlLists) DeleteAllowed(ctx context.Context, a model.Actor, id int64, f model.Field, valueID int64) error {
	if _, err := controlListOwner(ctx, s.store, a, id); err != nil {
		return err
	}

	if err := s.store.DeleteAllowed(ctx, id, f, valueID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFoundErr(err, "allowed value", valueID)
		}
		return fmt.Errorf("delete allowed: %w", err)
	}
	s.validator.Invalidate(id, f)

	return nil
}

type UpdateControlListRequest struct {
	Name        *string
	Description *string
	Notes       *string
}

func (s *ControlLists) Update(ctx context.Context, a model.Actor, id int64, r UpdateControlListRequest) (model.ControlList, error) {
	if r.Name != nil {
		*r.Name = strings.TrimSpace(*r.Name)
		if *r.Name == "" {
			return model.ControlList{}, validationErr("name", "must not be empty")
		}
		if err := checkLength("name", *r.Name, MaxNameLength); err != nil {
			return model.ControlList{}, err
		}
	}

	var cl model.ControlList
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		if _, err := controlListOwner(ctx, tx, a, id); err != nil {
			return err
		}

		err := tx.UpdateControlList(ctx, store.UpdateControlListRequest{
			ID:          id,
			Name:        r.Name,
			Description: r.Description,
			Notes:       r.Notes,
		})
		if err != nil {
			if errors.Is(err, store.ErrExists) {
				return conflictErr(err, "control list %q already exists", *r.Name)
			}
			return fmt.Errorf("update control list: %w", err)
		}

		cl, err = tx.GetControlList(ctx, id)
		return err
	})

	return cl, err
}

// Propose submits a private control list for publication.
func (s *ControlLists) Propose(ctx context.Context, a model.Actor, id int64) error {
	return s.store.WithTx(ctx, func(tx store.Store) error {
		cl, err := controlListOwner(ctx, tx, a, id)
		if err != nil {
			return err
		}
		if cl.Visibility != model.VisibilityPrivate {
			return badRequestErr(ErrForbidden, "only private control lists can be proposed")
		}

		return s.setVisibility(ctx, tx, id, model.VisibilitySubmitted)
	})
}

// Review settles a submitted control list. Only administrators review.
func (s *ControlLists) Review(ctx context.Context, a model.Actor, id int64, accept bool) error {
	if !a.IsAdmin() {
		return forbiddenErr("only administrators review control lists")
	}

	return s.store.WithTx(ctx, func(tx store.Store) error {
		cl, _, err := controlListAccess(ctx, tx, a, id)
		if err != nil {
			return err
		}
		if cl.Visibility != model.VisibilitySubmitted {
			return badRequestErr(ErrForbidden, "control list was not submitted")
		}

		v := model.VisibilityPrivate
		if accept {
			v = model.VisibilityPublic
		}
		return s.setVisibility(ctx, tx, id, v)
	})
}

func (s *ControlLists) setVisibility(ctx context.Context, tx store.Store, id int64, v model.Visibility) error {
	if err := tx.UpdateControlList(ctx, store.UpdateControlListRequest{ID: id, Visibility: &v}); err != nil {
		return fmt.Errorf("update visibility: %w", err)
	}
	return nil
}

func (s *ControlLists) Members(ctx context.Context, a model.Actor, id int64) ([]model.Member, error) {
	if _, _, err := controlListAccess(ctx, s.store, a, id); err != nil {
		return nil, err
	}

	ms, err := s.store.ControlListMembers(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("control list members: %w", err)
	}

	return ms, nil
}

// SetMembers replaces the users of a control list. At least one of the
// current owners has to stay an owner.
func (s *ControlLists) SetMembers(ctx context.Context, a model.Actor, id int64, members []model.Member) error {
	return s.store.WithTx(ctx, func(tx store.Store) error {
		if _, err := controlListOwner(ctx, tx, a, id); err != nil {
			return err
		}

		current, err := tx.ControlListMembers(ctx, id)
		if err != nil {
			return fmt.Errorf("control list members: %w", err)
		}
		if err := checkOwners(current, members); err != nil {
			return err
		}

		if err := tx.SetControlListMembers(ctx, id, members); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return notFoundErr(err, "user", id)
			}
			return fmt.Errorf("set control list members: %w", err)
		}

		return nil
	})
}

// Delete removes a control list no corpus uses anymore.
func (s *ControlLists) Delete(ctx context.Context, a model.Actor, id int64) error {
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		if _, err := controlListOwner(ctx, tx, a, id); err != nil {
			return err
		}

		if err := tx.DeleteControlList(ctx, id); err != nil {
			if errors.Is(err, store.ErrInUse) {
				return conflictErr(err, "control list is used by a corpus")
			}
			return fmt.Errorf("delete control list: %w", err)
		}

		return nil
	})
	if err == nil {
		s.validator.Invalidate(id)
	}

	return err
}
