package rest

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gamma-omg/lexi-annotate/internal/pkg/httpx"
	"github.com/gamma-omg/lexi-annotate/internal/pkg/serr"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/model"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/service"
)

func (api *API) handleTokens(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "corpus_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	pr, err := pageFromRequest(r)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	page, err := api.corpora.Tokens(r.Context(), actor(r), id, pr)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, page)
}

func (api *API) handleToken(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "corpus_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	tokenID, err := httpx.PathID(r, "token_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	t, err := api.corpora.Token(r.Context(), actor(r), id, tokenID)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, t)
}

func (api *API) handleSearch(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "corpus_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	pr, err := pageFromRequest(r)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	q := r.URL.Query()
	page, err := api.corpora.Search(r.Context(), actor(r), id, service.SearchRequest{
		Form:        q.Get("form"),
		Lemma:       q.Get("lemma"),
		POS:         q.Get("POS"),
		Morph:       q.Get("morph"),
		PageRequest: pr,
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, page)
}

func (api *API) handleUnallowed(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "corpus_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	f, err := fieldFromRequest(r)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	pr, err := pageFromRequest(r)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	page, err := api.corpora.Unallowed(r.Context(), actor(r), id, f, pr)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, page)
}

func (api *API) handleSimilar(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "corpus_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	tokenID, err := httpx.PathID(r, "token_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	raw := r.URL.Query().Get("mode")
	mode, ok := model.ParseSimilarityMode(raw)
	if !ok {
		httpx.HandleErr(w, r, serr.NewServiceError(nil, http.StatusBadRequest, "unknown similarity mode %q", raw))
		return
	}

	tokens, err := api.corpora.Similar(r.Context(), actor(r), id, tokenID, mode)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, tokens)
}

type similarSummary struct {
	Count int    `json:"count"`
	Link  string `json:"link"`
}

type updateTokenResponse struct {
	Token   model.WordToken `json:"token"`
	Record  int64           `json:"record_id"`
	Similar similarSummary  `json:"similar"`
}

func (api *API) handleUpdateToken(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "corpus_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	tokenID, err := httpx.PathID(r, "token_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	var u service.TokenUpdate
	if err := readBody(r, &u); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	res, err := api.corpora.UpdateToken(r.Context(), actor(r), id, tokenID, u)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, updateTokenResponse{
		Token:  res.Token,
		Record: res.Record.ID,
		Similar: similarSummary{
			Count: res.Similar,
			Link:  fmt.Sprintf("%s/corpus/%d/history/%d/similar", api.prefix, id, res.Record.ID),
		},
	})
}

type editFormRequest struct {
	Form string `json:"form"`
}

func (api *API) handleEditForm(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "corpus_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	tokenID, err := httpx.PathID(r, "token_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	var req editFormRequest
	if err := readBody(r, &req); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	t, err := api.corpora.EditForm(r.Context(), actor(r), id, tokenID, req.Form)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, t)
}

type addTokenRequest struct {
	Form  string  `json:"form"`
	Lemma string  `json:"lemma"`
	POS   *string `json:"POS"`
	Morph *string `json:"morph"`
}

// handleAddToken inserts a token after token_id; token_id 0 inserts at the
// start of the corpus.
func (api *API) handleAddToken(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "corpus_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	after, err := httpx.PathID(r, "token_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	var req addTokenRequest
	if err := readBody(r, &req); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	t, err := api.corpora.AddToken(r.Context(), actor(r), id, service.NewToken{
		After:      after,
		Form:       req.Form,
		Annotation: model.Annotation{Lemma: req.Lemma, POS: req.POS, Morph: req.Morph},
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, t)
}

func (api *API) handleDeleteToken(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "corpus_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	tokenID, err := httpx.PathID(r, "token_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	if err := api.corpora.DeleteToken(r.Context(), actor(r), id, tokenID); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (api *API) handleTokenHistory(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "corpus_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	pr, err := pageFromRequest(r)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	page, err := api.corpora.TokenHistory(r.Context(), actor(r), id, pr)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, page)
}

func (api *API) handleHistory(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "corpus_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	pr, err := pageFromRequest(r)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	hr := service.HistoryRequest{PageRequest: pr}
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		uid, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpx.HandleErr(w, r, serr.NewServiceError(err, http.StatusBadRequest, "invalid user_id parameter"))
			return
		}
		hr.UserID = &uid
	}

	page, err := api.corpora.History(r.Context(), actor(r), id, hr)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, page)
}

type similarToRecordResponse struct {
	Record model.ChangeRecord `json:"record"`
	Tokens []model.WordToken  `json:"tokens"`
}

func (api *API) handleSimilarToRecord(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "corpus_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	recordID, err := httpx.PathID(r, "record_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	rec, tokens, err := api.corpora.SimilarToRecord(r.Context(), actor(r), id, recordID)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, similarToRecordResponse{Record: rec, Tokens: tokens})
}

type applyChangesRequest struct {
	WordTokens []int64 `json:"word_tokens"`
}

func (api *API) handleApplyChanges(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "corpus_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	recordID, err := httpx.PathID(r, "record_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	var req applyChangesRequest
	if err := readBody(r, &req); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	tokens, err := api.corpora.ApplyChanges(r.Context(), actor(r), id, recordID, req.WordTokens)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, tokens)
}
