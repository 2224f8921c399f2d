package rest

import (
	"context"
	"net/http"

	"github.com/gamma-omg/lexi-annotate/internal/pkg/httpx"
	"github.com/gamma-omg/lexi-annotate/internal/pkg/middleware"
	"github.com/gamma-omg/lexi-annotate/internal/pkg/router"
	"github.com/gamma-omg/lexi-annotate/internal/pkg/serr"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/model"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/service"
)

type corporaService interface {
	Create(ctx context.Context, a model.Actor, r service.CreateCorpusRequest) (model.Corpus, error)
	Get(ctx context.Context, a model.Actor, corpusID int64) (service.CorpusDetails, error)
	List(ctx context.Context, a model.Actor) ([]model.Corpus, error)
	Delete(ctx context.Context, a model.Actor, corpusID int64) error
	Members(ctx context.Context, a model.Actor, corpusID int64) ([]model.Member, error)
	SetMembers(ctx context.Context, a model.Actor, corpusID int64, members []model.Member) error
	Columns(ctx context.Context, a model.Actor, corpusID int64) ([]model.Column, error)
	UpdateColumns(ctx context.Context, a model.Actor, corpusID int64, cols []model.Column) error
	Bookmark(ctx context.Context, a model.Actor, corpusID int64) (model.Bookmark, error)
	SetBookmark(ctx context.Context, a model.Actor, corpusID, tokenID int64, page int) error
	DeleteBookmark(ctx context.Context, a model.Actor, corpusID int64) error
	Export(ctx context.Context, a model.Actor, corpusID int64) (service.Export, error)

	Tokens(ctx context.Context, a model.Actor, corpusID int64, r service.PageRequest) (model.Page[model.WordToken], error)
	Token(ctx context.Context, a model.Actor, corpusID, tokenID int64) (model.WordToken, error)
	Search(ctx context.Context, a model.Actor, corpusID int64, r service.SearchRequest) (model.Page[model.WordToken], error)
	Unallowed(ctx context.Context, a model.Actor, corpusID int64, f model.Field, r service.PageRequest) (model.Page[model.WordToken], error)
	UpdateToken(ctx context.Context, a model.Actor, corpusID, tokenID int64, u service.TokenUpdate) (service.UpdateResult, error)
	Similar(ctx context.Context, a model.Actor, corpusID, tokenID int64, mode model.SimilarityMode) ([]model.WordToken, error)
	SimilarToRecord(ctx context.Context, a model.Actor, corpusID, recordID int64) (model.ChangeRecord, []model.WordToken, error)
	ApplyChanges(ctx context.Context, a model.Actor, corpusID, recordID int64, tokenIDs []int64) ([]model.WordToken, error)
	History(ctx context.Context, a model.Actor, corpusID int64, r service.HistoryRequest) (model.Page[model.ChangeRecord], error)

	AddToken(ctx context.Context, a model.Actor, corpusID int64, nt service.NewToken) (model.WordToken, error)
	EditForm(ctx context.Context, a model.Actor, corpusID, tokenID int64, form string) (model.WordToken, error)
	DeleteToken(ctx context.Context, a model.Actor, corpusID, tokenID int64) error
	TokenHistory(ctx context.Context, a model.Actor, corpusID int64, r service.PageRequest) (model.Page[model.TokenHistory], error)

	Dictionary(ctx context.Context, a model.Actor, corpusID int64, f model.Field) ([]model.DictionaryEntry, error)
	AddToDictionary(ctx context.Context, a model.Actor, corpusID int64, f model.Field, label string, secondary *string) (model.DictionaryEntry, error)
	RemoveFromDictionary(ctx context.Context, a model.Actor, corpusID int64, f model.Field, label string) error
	ReplaceDictionary(ctx context.Context, a model.Actor, corpusID int64, f model.Field, labels []string) error
	Autocomplete(ctx context.Context, a model.Actor, corpusID int64, f model.Field, prefix string) ([]service.Suggestion, error)
}

type controlListService interface {
	Create(ctx context.Context, a model.Actor, n service.NewControlList) (model.ControlList, error)
	List(ctx context.Context, a model.Actor) ([]model.ControlList, error)
	Get(ctx context.Context, a model.Actor, id int64) (service.ControlListDetails, error)
	Allowed(ctx context.Context, a model.Actor, id int64, r service.AllowedRequest) (model.Page[model.AllowedValue], error)
	AllAllowed(ctx context.Context, a model.Actor, id int64, f model.Field) ([]model.AllowedValue, error)
	ReplaceAllowed(ctx context.Context, a model.Actor, id int64, f model.Field, values []model.AllowedValue) error
	AddAllowed(ctx context.Context, a model.Actor, id int64, f model.Field, v model.AllowedValue) (model.AllowedValue, error)
	DeleteAllowed(ctx context.Context, a model.Actor, id int64, f model.Field, valueID int64) error
	Update(ctx context.Context, a model.Actor, id int64, r service.UpdateControlListRequest) (model.ControlList, error)
	Propose(ctx context.Context, a model.Actor, id int64) error
	Review(ctx context.Context, a model.Actor, id int64, accept bool) error
	Members(ctx context.Context, a model.Actor, id int64) ([]model.Member, error)
	SetMembers(ctx context.Context, a model.Actor, id int64, members []model.Member) error
	Delete(ctx context.Context, a model.Actor, id int64) error
}

type accountService interface {
	Register(ctx context.Context, r service.RegisterRequest) (model.User, error)
	Login(ctx context.Context, email, password string) (service.Session, error)
	Me(ctx context.Context, a model.Actor) (model.User, error)
	ChangePassword(ctx context.Context, a model.Actor, current, next string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, code, password string) error
	ListUsers(ctx context.Context, a model.Actor) ([]model.User, error)
	UpdateUser(ctx context.Context, a model.Actor, userID int64, e service.EditUser) (model.User, error)
}

// API is the JSON surface of the corpora service.
type API struct {
	corpora        corporaService
	controls       controlListService
	accounts       accountService
	auth           router.Middleware
	defaultContext int
	prefix         string
}

type APIOption func(*API) *API

func WithCorpora(s corporaService) APIOption {
	return func(api *API) *API {
		api.corpora = s
		return api
	}
}

func WithControlLists(s controlListService) APIOption {
	return func(api *API) *API {
		api.controls = s
		return api
	}
}

func WithAccounts(s accountService) APIOption {
	return func(api *API) *API {
		api.accounts = s
		return api
	}
}

// WithAuth sets the middleware guarding every route but registration,
// login and password recovery.
func WithAuth(mw router.Middleware) APIOption {
	return func(api *API) *API {
		api.auth = mw
		return api
	}
}

// WithDefaultContext sets the context size used when a new corpus does not
// give one.
func WithDefaultContext(n int) APIOption {
	return func(api *API) *API {
		api.defaultContext = n
		return api
	}
}

func NewAPI(opts ...APIOption) *API {
	api := &API{defaultContext: 3}
	for _, opt := range opts {
		api = opt(api)
	}

	if api.corpora == nil {
		panic("corpora service is required")
	}

	if api.controls == nil {
		panic("control list service is required")
	}

	if api.accounts == nil {
		panic("account service is required")
	}

	if api.auth == nil {
		panic("auth middleware is required")
	}

	return api
}

// Mount registers every route on r. Links returned to clients are built
// from the mount point of r.
func (api *API) Mount(r *router.Router) {
	api.prefix = r.Prefix()

	r.HandleFunc("POST /account/register", api.handleRegister)
	r.HandleFunc("POST /account/login", api.handleLogin)
	r.HandleFunc("POST /account/forgot", api.handleForgotPassword)
	r.HandleFunc("POST /account/reset", api.handleResetPassword)

	protected := func(pattern string, h http.HandlerFunc) {
		r.Handle(pattern, api.auth(h))
	}

	protected("GET /account/me", api.handleMe)
	protected("POST /account/password", api.handleChangePassword)
	protected("GET /admin/users", api.handleListUsers)
	protected("PUT /admin/users/{user_id}", api.handleUpdateUser)

	protected("GET /controls", api.handleListControlLists)
	protected("POST /controls", api.handleCreateControlList)
	protected("GET /controls/{control_list_id}", api.handleGetControlList)
	protected("PUT /controls/{control_list_id}", api.handleUpdateControlList)
	protected("DELETE /controls/{control_list_id}", api.handleDeleteControlList)
	protected("POST /controls/{control_list_id}/propose", api.handleProposeControlList)
	protected("POST /controls/{control_list_id}/review", api.handleReviewControlList)
	protected("GET /controls/{control_list_id}/users", api.handleControlListMembers)
	protected("PUT /controls/{control_list_id}/users", api.handleSetControlListMembers)
	protected("GET /controls/{control_list_id}/{allowed_type}", api.handleAllowed)
	protected("PUT /controls/{control_list_id}/{allowed_type}", api.handleReplaceAllowed)
	protected("POST /controls/{control_list_id}/{allowed_type}", api.handleAddAllowed)
	protected("GET /controls/{control_list_id}/{allowed_type}/download", api.handleDownloadAllowed)
	protected("DELETE /controls/{control_list_id}/{allowed_type}/{value_id}", api.handleDeleteAllowed)

	protected("GET /corpus", api.handleListCorpora)
	protected("POST /corpus", api.handleCreateCorpus)
	protected("GET /corpus/{corpus_id}", api.handleGetCorpus)
	protected("DELETE /corpus/{corpus_id}", api.handleDeleteCorpus)
	protected("GET /corpus/{corpus_id}/users", api.handleCorpusMembers)
	protected("PUT /corpus/{corpus_id}/users", api.handleSetCorpusMembers)
	protected("GET /corpus/{corpus_id}/columns", api.handleColumns)
	protected("PUT /corpus/{corpus_id}/columns", api.handleUpdateColumns)
	protected("GET /corpus/{corpus_id}/bookmark", api.handleBookmark)
	protected("PUT /corpus/{corpus_id}/bookmark", api.handleSetBookmark)
	protected("DELETE /corpus/{corpus_id}/bookmark", api.handleDeleteBookmark)
	protected("GET /corpus/{corpus_id}/export", api.handleExportTokens)
	protected("GET /corpus/{corpus_id}/export/{allowed_type}", api.handleExportAllowed)

	protected("GET /corpus/{corpus_id}/tokens", api.handleTokens)
	protected("GET /corpus/{corpus_id}/tokens/search", api.handleSearch)
	protected("GET /corpus/{corpus_id}/tokens/history", api.handleTokenHistory)
	protected("GET /corpus/{corpus_id}/tokens/unallowed/{allowed_type}", api.handleUnallowed)
	protected("GET /corpus/{corpus_id}/tokens/similar/{token_id}", api.handleSimilar)
	protected("POST /corpus/{corpus_id}/tokens/edit/{token_id}", api.handleUpdateToken)
	protected("GET /corpus/{corpus_id}/tokens/{token_id}", api.handleToken)
	protected("POST /corpus/{corpus_id}/tokens/form/{token_id}", api.handleEditForm)
	protected("POST /corpus/{corpus_id}/tokens/add/{token_id}", api.handleAddToken)
	protected("DELETE /corpus/{corpus_id}/tokens/{token_id}", api.handleDeleteToken)

	protected("GET /corpus/{corpus_id}/history", api.handleHistory)
	protected("GET /corpus/{corpus_id}/history/{record_id}/similar", api.handleSimilarToRecord)
	protected("POST /corpus/{corpus_id}/history/{record_id}/apply", api.handleApplyChanges)

	protected("GET /corpus/{corpus_id}/dictionary/{allowed_type}", api.handleDictionary)
	protected("PUT /corpus/{corpus_id}/dictionary/{allowed_type}", api.handleReplaceDictionary)
	protected("POST /corpus/{corpus_id}/dictionary/{allowed_type}", api.handleAddToDictionary)
	protected("DELETE /corpus/{corpus_id}/dictionary/{allowed_type}", api.handleRemoveFromDictionary)

	protected("GET /corpus/{corpus_id}/api/{allowed_type}", api.handleAutocomplete)
}

func actor(r *http.Request) model.Actor {
	id := middleware.IdentityFromContext(r.Context())
	return model.Actor{UserID: id.UserID, Permissions: id.Permissions}
}

func readBody(r *http.Request, out any) error {
	if err := httpx.ReadJSON(r, out); err != nil {
		return serr.NewServiceError(err, http.StatusBadRequest, "invalid request body")
	}
	return nil
}

func fieldFromRequest(r *http.Request) (model.Field, error) {
	raw := r.PathValue("allowed_type")
	f, ok := model.ParseField(raw)
	if !ok {
		return "", serr.NewServiceError(nil, http.StatusBadRequest, "unknown allowed type %q", raw).
			WithEnv("allowed_type", raw)
	}
	return f, nil
}

func pageFromRequest(r *http.Request) (service.PageRequest, error) {
	page, err := httpx.QueryInt(r, "page", 1)
	if err != nil {
		return service.PageRequest{}, err
	}

	perPage, err := httpx.QueryInt(r, "per_page", 0)
	if err != nil {
		return service.PageRequest{}, err
	}

	return service.PageRequest{Page: page, PerPage: perPage}, nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, resp any) {
	if err := httpx.WriteJSON(w, status, resp); err != nil {
		httpx.HandleErr(w, r, err)
	}
}
