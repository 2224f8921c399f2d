package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gamma-omg/lexi-annotate/internal/pkg/serr"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/model"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/store"
)

// corpusAccess loads a corpus the actor is a member of. Administrators are
// treated as owners of every corpus.
func corpusAccess(ctx context.Context, st store.Store, a model.Actor, corpusID int64) (model.Corpus, model.Member, error) {
	c, err := st.GetCorpus(ctx, corpusID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c, model.Member{}, notFoundErr(err, "corpus", corpusID)
		}
		return c, model.Member{}, fmt.Errorf("get corpus: %w", err)
	}

	if a.IsAdmin() {
		return c, model.Member{UserID: a.UserID, IsOwner: true}, nil
	}

	m, err := st.CorpusMembership(ctx, corpusID, a.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c, m, forbiddenErr("access to corpus denied")
		}
		return c, m, fmt.Errorf("corpus membership: %w", err)
	}

	return c, m, nil
}

func corpusOwner(ctx context.Context, st store.Store, a model.Actor, corpusID int64) (model.Corpus, error) {
	c, m, err := corpusAccess(ctx, st, a, corpusID)
	if err != nil {
		return c, err
	}
	if !m.IsOwner {
		return c, forbiddenErr("only corpus owners can do this")
	}

	return c, nil
}

// controlListAccess loads a control list readable by the actor: public lists
// are readable by everyone, other lists by their members only.
func controlListAccess(ctx context.Context, st store.Store, a model.Actor, id int64) (model.ControlList, model.Member, error) {
	cl, err := st.GetControlList(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return cl, model.Member{}, notFoundErr(err, "control list", id)
		}
		return cl, model.Member{}, fmt.Errorf("get control list: %w", err)
	}

	if a.IsAdmin() {
		return cl, model.Member{UserID: a.UserID, IsOwner: true}, nil
	}

	m, err := st.ControlListMembership(ctx, id, a.UserID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return cl, m, fmt.Errorf("control list membership: %w", err)
		}
		if cl.Visibility != model.VisibilityPublic {
			return cl, m, forbiddenErr("access to control list denied")
		}
	}

	return cl, m, nil
}

func controlListOwner(ctx context.Context, st store.Store, a model.Actor, id int64) (model.ControlList, error) {
	cl, m, err := controlListAccess(ctx, st, a, id)
	if err != nil {
		return cl, err
	}
	if !m.IsOwner {
		return cl, forbiddenErr("only control list owners can do this")
	}

	return cl, nil
}

// checkOwners rejects a member list that drops every current owner.
func checkOwners(current, next []model.Member) error {
	owners := make(map[int64]bool)
	for _, m := range current {
		if m.IsOwner {
			owners[m.UserID] = true
		}
	}
	if len(owners) == 0 {
		return nil
	}

	for _, m := range next {
		if m.IsOwner && owners[m.UserID] {
			return nil
		}
	}

	return serr.NewServiceError(ErrNoOwnerLeft, http.StatusForbidden, "%s", ErrNoOwnerLeft.Error())
}

// paging turns a 1-based page into an offset/limit pair.
func paging(page, perPage, def, maxPerPage int) (offset, limit, p, pp int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = def
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	return (page - 1) * perPage, perPage, page, perPage
}
