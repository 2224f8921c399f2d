package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gamma-omg/lexi-annotate/internal/pkg/serr"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/model"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/store"
	"github.com/stretchr/testify/require"
)

var (
	annotator = model.Actor{UserID: 1, Permissions: model.PermGeneral}
	stranger  = model.Actor{UserID: 2, Permissions: model.PermGeneral}
	admin     = model.Actor{UserID: 3, Permissions: model.PermAdminister}
)

const (
	wauchierID = int64(10)
	wauchierCL = int64(20)
)

func requireStatus(t *testing.T, err error, status int) *serr.ServiceError {
	t.Helper()

	var se *serr.ServiceError
	require.True(t, errors.As(err, &se), "expected a service error, got %v", err)
	require.Equal(t, status, se.StatusCode)
	return se
}

func newTestCorpora(m *mockStore) *Corpora {
	return NewCorpora(
		WithCorporaStore(m),
		WithValidator(NewValidator(100, 1<<20, time.Minute)),
	)
}

// wauchierStore returns a store holding one corpus the annotator owns, with
// lemma and POS restricted by its control list.
func wauchierStore() *mockStore {
	return &mockStore{
		getCorpusFunc: func(ctx context.Context, id int64) (model.Corpus, error) {
			if id != wauchierID {
				return model.Corpus{}, store.ErrNotFound
			}
			return model.Corpus{ID: wauchierID, Name: "Wauchier", ControlListID: wauchierCL, ContextLeft: 3, ContextRight: 3}, nil
		},
		corpusMembershipFunc: func(ctx context.Context, id, userID int64) (model.Member, error) {
			if userID != annotator.UserID {
				return model.Member{}, store.ErrNotFound
			}
			return model.Member{UserID: userID, IsOwner: true}, nil
		},
		columnsFunc: func(ctx context.Context, corpusID int64) ([]model.Column, error) {
			return []model.Column{{Name: model.FieldLemma}, {Name: model.FieldPOS}, {Name: model.FieldMorph}}, nil
		},
		countAllowedFunc: func(ctx context.Context, controlListID int64, f model.Field) (int, error) {
			if f == model.FieldMorph {
				return 0, nil
			}
			return 5, nil
		},
		isAllowedFunc: func(ctx context.Context, controlListID int64, f model.Field, label string) (bool, error) {
			switch f {
			case model.FieldLemma:
				return label == "de" || label == "un" || label == "le", nil
			case model.FieldPOS:
				return label == "PRE" || label == "DETndf", nil
			}
			return false, nil
		},
		inDictionaryFunc: func(ctx context.Context, corpusID int64, f model.Field, label string) (bool, error) {
			return f == model.FieldLemma && label == "wauchier", nil
		},
	}
}

// wauchierToken is the first token of the Wauchier sample corpus.
func wauchierToken() model.WordToken {
	return model.WordToken{
		ID:       1,
		CorpusID: wauchierID,
		OrderID:  1,
		Form:     "De",
		Annotation: model.Annotation{
			Lemma: "de",
			POS:   model.Ptr("PRE"),
			Morph: model.Ptr("MORPH=empty"),
		},
		RightContext: "seint Martin mout",
	}
}
