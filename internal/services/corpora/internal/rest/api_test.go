package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/gamma-omg/lexi-annotate/internal/pkg/httpx"
	"github.com/gamma-omg/lexi-annotate/internal/pkg/middleware"
	"github.com/gamma-omg/lexi-annotate/internal/pkg/router"
	"github.com/gamma-omg/lexi-annotate/internal/pkg/serr"
	"github.com/gamma-omg/lexi-annotate/internal/pkg/testutil"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/model"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var annotator = model.Actor{UserID: 1, Permissions: model.PermGeneral}

// fakeAuth accepts any bearer token as the annotator.
func fakeAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := middleware.WithIdentity(r.Context(), middleware.Identity{
			UserID:      annotator.UserID,
			Permissions: annotator.Permissions,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type testServices struct {
	corpora  *mockCorpora
	controls *mockControlLists
	accounts *mockAccounts
}

func newTestAPI(t *testing.T) (http.Handler, testServices) {
	t.Helper()
	slog.SetDefault(slog.New(slog.DiscardHandler))

	ts := testServices{
		corpora:  &mockCorpora{},
		controls: &mockControlLists{},
		accounts: &mockAccounts{},
	}
	api := NewAPI(
		WithCorpora(ts.corpora),
		WithControlLists(ts.controls),
		WithAccounts(ts.accounts),
		WithAuth(fakeAuth),
		WithDefaultContext(3),
	)

	root := router.New()
	api.Mount(root.SubRouter("/api/v1"))
	return root, ts
}

var auth = testutil.WithToken("token")

func TestNewAPI_MissingService(t *testing.T) {
	assert.Panics(t, func() {
		NewAPI(WithCorpora(&mockCorpora{}), WithAuth(fakeAuth))
	})
}

func TestProtectedRoute_Unauthorized(t *testing.T) {
	h, _ := newTestAPI(t)

	rec := testutil.SendRequest(t, h, "GET", "/api/v1/corpus", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegister_Public(t *testing.T) {
	h, ts := newTestAPI(t)
	ts.accounts.RegisterFunc = func(ctx context.Context, r service.RegisterRequest) (model.User, error) {
		if r.Email != "jean@example.org" || r.Password != "correct horse" {
			return model.User{}, errors.New("unexpected request")
		}
		return model.User{ID: 4, Email: r.Email}, nil
	}

	rec := testutil.SendRequest(t, h, "POST", "/api/v1/account/register", registerRequest{
		Email:    "jean@example.org",
		Password: "correct horse",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	u := testutil.ParseResponse[model.User](t, rec)
	assert.Equal(t, int64(4), u.ID)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	h, ts := newTestAPI(t)
	ts.accounts.LoginFunc = func(ctx context.Context, email, password string) (service.Session, error) {
		return service.Session{}, serr.NewServiceError(service.ErrInvalidCredentials, http.StatusUnauthorized, "invalid email or password")
	}

	rec := testutil.SendRequest(t, h, "POST", "/api/v1/account/login", loginRequest{Email: "a@b.c", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateCorpus(t *testing.T) {
	h, ts := newTestAPI(t)
	ts.corpora.CreateFunc = func(ctx context.Context, a model.Actor, r service.CreateCorpusRequest) (model.Corpus, error) {
		assert.Equal(t, annotator, a)
		assert.Equal(t, "Wauchier", r.Name)
		assert.Equal(t, 3, r.ContextLeft)
		assert.Equal(t, 5, r.ContextRight)
		require.Len(t, r.Tokens, 2)
		assert.Equal(t, "seint", r.Tokens[1].Form)
		assert.Nil(t, r.Tokens[1].POS)
		require.NotNil(t, r.ControlList)
		assert.Len(t, r.ControlList.POS, 2)
		assert.Equal(t, "non applicable", r.ControlList.Morph[0].Readable)
		return model.Corpus{ID: 10, Name: r.Name}, nil
	}

	right := 5
	rec := testutil.SendRequest(t, h, "POST", "/api/v1/corpus", createCorpusRequest{
		Name:         "Wauchier",
		ContextRight: &right,
		ControlList: &newControlListRequest{allowedFiles: allowedFiles{
			Lemma: "de\nsaint",
			POS:   "PRE,ADJqua",
			Morph: "label\treadable\nMORPH=empty\tnon applicable\n",
		}},
		Tokens: "form\tlemma\tPOS\nDe\tde\tPRE\nseint\tsaint\t_\n",
	}, auth)
	require.Equal(t, http.StatusCreated, rec.Code)

	c := testutil.ParseResponse[model.Corpus](t, rec)
	assert.Equal(t, int64(10), c.ID)
}

func TestCreateCorpus_Upload(t *testing.T) {
	h, ts := newTestAPI(t)
	ts.corpora.CreateFunc = func(ctx context.Context, a model.Actor, r service.CreateCorpusRequest) (model.Corpus, error) {
		assert.Equal(t, "Wauchier", r.Name)
		require.NotNil(t, r.ControlListID)
		assert.Equal(t, int64(4), *r.ControlListID)
		assert.Nil(t, r.ControlList)
		assert.Equal(t, 2, r.ContextLeft)
		assert.Equal(t, 3, r.ContextRight)
		require.Len(t, r.Tokens, 2)
		assert.Equal(t, "saint", *r.Tokens[1].Lemma)
		return model.Corpus{ID: 11, Name: r.Name}, nil
	}

	rec := testutil.SendFiles(t, h, "POST", "/api/v1/corpus",
		map[string]string{"name": "Wauchier", "control_list_id": "4", "context_left": "2"},
		[]testutil.TestFile{{
			Name:      "wauchier.tsv",
			FieldName: "tokens",
			Content:   strings.NewReader("form\tlemma\nDe\tde\nseint\tsaint\n"),
		}}, auth)
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateCorpus_UploadInvalid(t *testing.T) {
	h, _ := newTestAPI(t)

	rec := testutil.SendFiles(t, h, "POST", "/api/v1/corpus",
		map[string]string{"name": "Wauchier", "context_left": "many"}, nil, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = testutil.SendFiles(t, h, "POST", "/api/v1/corpus",
		map[string]string{"name": "Wauchier"}, nil, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateCorpus_MissingValue(t *testing.T) {
	h, _ := newTestAPI(t)

	rec := testutil.SendRequest(t, h, "POST", "/api/v1/corpus", createCorpusRequest{
		Name:   "Wauchier",
		Tokens: "form\tlemma\nDe\tde\nseint\t\n",
	}, auth)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := testutil.ParseResponse[httpx.ErrorBody](t, rec)
	assert.Equal(t, map[string]any{"line": float64(3), "column": "lemma"}, body.Details)
}

func TestUpdateToken(t *testing.T) {
	h, ts := newTestAPI(t)
	ts.corpora.UpdateTokenFunc = func(ctx context.Context, a model.Actor, corpusID, tokenID int64, u service.TokenUpdate) (service.UpdateResult, error) {
		assert.Equal(t, int64(10), corpusID)
		assert.Equal(t, int64(1), tokenID)
		require.NotNil(t, u.Lemma)
		assert.Equal(t, "un", *u.Lemma)
		assert.Nil(t, u.POS)

		return service.UpdateResult{
			Token:   model.WordToken{ID: 1, Form: "De", Annotation: model.Annotation{Lemma: "un"}},
			Record:  model.ChangeRecord{ID: 5},
			Similar: 2,
		}, nil
	}

	rec := testutil.SendRequest(t, h, "POST", "/api/v1/corpus/10/tokens/edit/1", map[string]string{"lemma": "un"}, auth)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := testutil.ParseResponse[updateTokenResponse](t, rec)
	assert.Equal(t, "un", resp.Token.Lemma)
	assert.Equal(t, int64(5), resp.Record)
	assert.Equal(t, 2, resp.Similar.Count)
	assert.Equal(t, "/api/v1/corpus/10/history/5/similar", resp.Similar.Link)
}

func TestUpdateToken_Invalid(t *testing.T) {
	h, ts := newTestAPI(t)
	ts.corpora.UpdateTokenFunc = func(ctx context.Context, a model.Actor, corpusID, tokenID int64, u service.TokenUpdate) (service.UpdateResult, error) {
		st := service.Statuses{model.FieldLemma: false, model.FieldPOS: true, model.FieldMorph: true}
		return service.UpdateResult{}, serr.NewServiceError(&service.ValidityError{Statuses: st}, http.StatusForbidden, "invalid value in lemma").
			WithDetails(st)
	}

	rec := testutil.SendRequest(t, h, "POST", "/api/v1/corpus/10/tokens/edit/1", map[string]string{"lemma": "wauchier"}, auth)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"invalid value in lemma","details":{"lemma":false,"POS":true,"morph":true}}`, rec.Body.String())
}

func TestSimilar(t *testing.T) {
	h, ts := newTestAPI(t)
	ts.corpora.SimilarFunc = func(ctx context.Context, a model.Actor, corpusID, tokenID int64, mode model.SimilarityMode) ([]model.WordToken, error) {
		assert.Equal(t, model.SimilarNotPOS, mode)
		return []model.WordToken{{ID: 7}}, nil
	}

	rec := testutil.SendRequest(t, h, "GET", "/api/v1/corpus/10/tokens/similar/1?mode=POS-", nil, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, testutil.ParseResponse[[]model.WordToken](t, rec), 1)

	rec = testutil.SendRequest(t, h, "GET", "/api/v1/corpus/10/tokens/similar/1?mode=everything", nil, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApplyChanges(t *testing.T) {
	h, ts := newTestAPI(t)
	ts.corpora.ApplyChangesFunc = func(ctx context.Context, a model.Actor, corpusID, recordID int64, tokenIDs []int64) ([]model.WordToken, error) {
		assert.Equal(t, int64(5), recordID)
		assert.Equal(t, []int64{2, 3}, tokenIDs)
		return []model.WordToken{{ID: 2}}, nil
	}

	rec := testutil.SendRequest(t, h, "POST", "/api/v1/corpus/10/history/5/apply", applyChangesRequest{WordTokens: []int64{2, 3}}, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, testutil.ParseResponse[[]model.WordToken](t, rec), 1)
}

func TestHistory_UserFilter(t *testing.T) {
	h, ts := newTestAPI(t)
	ts.corpora.HistoryFunc = func(ctx context.Context, a model.Actor, corpusID int64, r service.HistoryRequest) (model.Page[model.ChangeRecord], error) {
		require.NotNil(t, r.UserID)
		assert.Equal(t, int64(4), *r.UserID)
		assert.Equal(t, 2, r.Page)
		return model.Page[model.ChangeRecord]{Page: r.Page}, nil
	}

	rec := testutil.SendRequest(t, h, "GET", "/api/v1/corpus/10/history?user_id=4&page=2", nil, auth)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = testutil.SendRequest(t, h, "GET", "/api/v1/corpus/10/history?user_id=me", nil, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAutocomplete(t *testing.T) {
	h, ts := newTestAPI(t)
	ts.corpora.AutocompleteFunc = func(ctx context.Context, a model.Actor, corpusID int64, f model.Field, prefix string) ([]service.Suggestion, error) {
		assert.Equal(t, "d", prefix)
		if f == model.FieldMorph {
			return []service.Suggestion{{Value: "MORPH=empty", Label: "non applicable"}}, nil
		}
		return []service.Suggestion{{Value: "de", Label: "de"}}, nil
	}

	rec := testutil.SendRequest(t, h, "GET", "/api/v1/corpus/10/api/lemma?form=d", nil, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["de"]`, rec.Body.String())

	rec = testutil.SendRequest(t, h, "GET", "/api/v1/corpus/10/api/morph?form=d", nil, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"value":"MORPH=empty","label":"non applicable"}]`, rec.Body.String())
}

func TestUnknownAllowedType(t *testing.T) {
	h, _ := newTestAPI(t)

	rec := testutil.SendRequest(t, h, "GET", "/api/v1/corpus/10/api/gender", nil, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExport(t *testing.T) {
	h, ts := newTestAPI(t)
	ts.corpora.ExportFunc = func(ctx context.Context, a model.Actor, corpusID int64) (service.Export, error) {
		return service.Export{
			Corpus: model.Corpus{ID: corpusID, Name: "Wauchier"},
			Tokens: []model.WordToken{{ID: 1, Form: "De", Annotation: model.Annotation{Lemma: "de", POS: model.Ptr("PRE")}}},
			Allowed: map[model.Field][]model.AllowedValue{
				model.FieldPOS: {{Label: "PRE"}, {Label: "DETndf"}},
			},
		}, nil
	}

	rec := testutil.SendRequest(t, h, "GET", "/api/v1/corpus/10/export", nil, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="Wauchier.tsv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "token_id\tform\tlemma\tPOS\tmorph\n1\tDe\tde\tPRE\t_\n", rec.Body.String())

	rec = testutil.SendRequest(t, h, "GET", "/api/v1/corpus/10/export/POS", nil, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="allowed_pos.txt"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "PRE,DETndf", rec.Body.String())
}

func TestSetControlListMembers_NoOwnerLeft(t *testing.T) {
	h, ts := newTestAPI(t)
	ts.controls.SetMembersFunc = func(ctx context.Context, a model.Actor, id int64, members []model.Member) error {
		assert.Equal(t, []model.Member{{UserID: 2}}, members)
		return serr.NewServiceError(service.ErrNoOwnerLeft, http.StatusForbidden, "at least one current owner must remain")
	}

	rec := testutil.SendRequest(t, h, "PUT", "/api/v1/controls/20/users", []model.Member{{UserID: 2}}, auth)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestReplaceAllowed(t *testing.T) {
	h, ts := newTestAPI(t)
	ts.controls.ReplaceAllowedFunc = func(ctx context.Context, a model.Actor, id int64, f model.Field, values []model.AllowedValue) error {
		assert.Equal(t, model.FieldPOS, f)
		assert.Equal(t, []model.AllowedValue{{Label: "PRE"}, {Label: "ADJqua"}}, values)
		return nil
	}

	rec := testutil.SendRequest(t, h, "PUT", "/api/v1/controls/20/POS", replaceAllowedRequest{AllowedValues: "PRE, ADJqua"}, auth)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDownloadAllowed(t *testing.T) {
	h, ts := newTestAPI(t)
	ts.controls.AllAllowedFunc = func(ctx context.Context, a model.Actor, id int64, f model.Field) ([]model.AllowedValue, error) {
		assert.Equal(t, int64(2), id)
		assert.Equal(t, model.FieldPOS, f)
		return []model.AllowedValue{{Label: "PRE"}, {Label: "ADJqua"}}, nil
	}

	rec := testutil.SendRequest(t, h, "GET", "/api/v1/controls/2/POS/download", nil, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "PRE,ADJqua", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "allowed_pos.txt")
}

func TestDictionaryWrites(t *testing.T) {
	h, ts := newTestAPI(t)
	ts.corpora.AddToDictionaryFunc = func(ctx context.Context, a model.Actor, corpusID int64, f model.Field, label string, secondary *string) (model.DictionaryEntry, error) {
		if label == "martin" {
			return model.DictionaryEntry{}, serr.NewServiceError(errors.New("exists"), http.StatusConflict, "already there")
		}
		require.NotNil(t, secondary)
		return model.DictionaryEntry{ID: 3, CorpusID: corpusID, Category: f, Label: label, SecondaryLabel: secondary}, nil
	}
	ts.corpora.RemoveFromDictionaryFunc = func(ctx context.Context, a model.Actor, corpusID int64, f model.Field, label string) error {
		assert.Equal(t, "martin", label)
		return nil
	}
	ts.corpora.ReplaceDictionaryFunc = func(ctx context.Context, a model.Actor, corpusID int64, f model.Field, labels []string) error {
		assert.Equal(t, model.FieldPOS, f)
		assert.Equal(t, []string{"NOMpro", "VERcjg"}, labels)
		return nil
	}

	rec := testutil.SendRequest(t, h, "POST", "/api/v1/corpus/10/dictionary/lemma",
		dictionaryEntryRequest{Label: "tours", SecondaryLabel: model.Ptr("Tours")}, auth)
	require.Equal(t, http.StatusCreated, rec.Code)
	e := testutil.ParseResponse[model.DictionaryEntry](t, rec)
	assert.Equal(t, model.FieldLemma, e.Category)

	rec = testutil.SendRequest(t, h, "POST", "/api/v1/corpus/10/dictionary/lemma",
		dictionaryEntryRequest{Label: "martin"}, auth)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = testutil.SendRequest(t, h, "DELETE", "/api/v1/corpus/10/dictionary/lemma",
		dictionaryEntryRequest{Label: "martin"}, auth)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = testutil.SendRequest(t, h, "PUT", "/api/v1/corpus/10/dictionary/POS",
		replaceDictionaryRequest{Labels: []string{"NOMpro", "VERcjg"}}, auth)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAddToken(t *testing.T) {
	h, ts := newTestAPI(t)
	ts.corpora.AddTokenFunc = func(ctx context.Context, a model.Actor, corpusID int64, nt service.NewToken) (model.WordToken, error) {
		assert.Equal(t, int64(3), nt.After)
		assert.Equal(t, "seint", nt.Form)
		return model.WordToken{ID: 9, OrderID: 4, Form: nt.Form}, nil
	}

	rec := testutil.SendRequest(t, h, "POST", "/api/v1/corpus/10/tokens/add/3", addTokenRequest{Form: "seint", Lemma: "saint"}, auth)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 4, testutil.ParseResponse[model.WordToken](t, rec).OrderID)
}

func TestDeleteToken_Last(t *testing.T) {
	h, ts := newTestAPI(t)
	ts.corpora.DeleteTokenFunc = func(ctx context.Context, a model.Actor, corpusID, tokenID int64) error {
		return serr.NewServiceError(service.ErrLastToken, http.StatusBadRequest, "the last token of a corpus cannot be deleted")
	}

	rec := testutil.SendRequest(t, h, "DELETE", "/api/v1/corpus/10/tokens/1", nil, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearch(t *testing.T) {
	h, ts := newTestAPI(t)
	ts.corpora.SearchFunc = func(ctx context.Context, a model.Actor, corpusID int64, r service.SearchRequest) (model.Page[model.WordToken], error) {
		assert.Equal(t, "sein*", r.Form)
		assert.Equal(t, "ADJ*", r.POS)
		assert.Empty(t, r.Lemma)
		return model.Page[model.WordToken]{Total: 1, Items: []model.WordToken{{ID: 2}}}, nil
	}

	rec := testutil.SendRequest(t, h, "GET", "/api/v1/corpus/10/tokens/search?form=sein*&POS=ADJ*", nil, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, testutil.ParseResponse[model.Page[model.WordToken]](t, rec).Total)
}

func TestTokens_BadPage(t *testing.T) {
	h, _ := newTestAPI(t)

	rec := testutil.SendRequest(t, h, "GET", "/api/v1/corpus/10/tokens?page=x", nil, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestForgotPassword(t *testing.T) {
	h, ts := newTestAPI(t)
	var got string
	ts.accounts.ForgotPasswordFunc = func(ctx context.Context, email string) error {
		got = email
		return nil
	}

	rec := testutil.SendRequest(t, h, "POST", "/api/v1/account/forgot", "not an object")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = testutil.SendRequest(t, h, "POST", "/api/v1/account/forgot", forgotPasswordRequest{Email: "jean@example.org"})
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "jean@example.org", got)
}
