package rest

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gamma-omg/lexi-annotate/internal/pkg/httpx"
	"github.com/gamma-omg/lexi-annotate/internal/pkg/serr"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/exchange"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/model"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/service"
)

type createCorpusRequest struct {
	Name           string                 `json:"name"`
	ControlListID  *int64                 `json:"control_list_id"`
	ControlList    *newControlListRequest `json:"control_list"`
	ContextLeft    *int                   `json:"context_left"`
	ContextRight   *int                   `json:"context_right"`
	DelimiterToken *string                `json:"delimiter_token"`
	// Tokens is a token file in the exchange format.
	Tokens string `json:"tokens"`
}

func readTokens(text string) ([]model.WordToken, error) {
	tokens, err := exchange.ReadTokens(strings.NewReader(text))
	if err == nil {
		return tokens, nil
	}

	var mv *exchange.MissingTokenColumnValue
	if errors.As(err, &mv) {
		return nil, serr.NewServiceError(err, http.StatusBadRequest, "%s", mv.Error()).
			WithDetails(map[string]any{"line": mv.Line, "column": mv.Column})
	}
	return nil, serr.NewServiceError(err, http.StatusBadRequest, "invalid token file")
}

const maxUploadSize = 32 << 20

// readCorpusForm reads a corpus posted as a multipart form with the token
// file attached under "tokens".
func readCorpusForm(r *http.Request) (createCorpusRequest, error) {
	var req createCorpusRequest
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return req, serr.NewServiceError(err, http.StatusBadRequest, "invalid form")
	}

	req.Name = r.FormValue("name")
	if v := r.FormValue("delimiter_token"); v != "" {
		req.DelimiterToken = &v
	}

	ints := map[string]**int{"context_left": &req.ContextLeft, "context_right": &req.ContextRight}
	for k, dst := range ints {
		v := r.FormValue(k)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, serr.NewServiceError(err, http.StatusBadRequest, "invalid %s", k)
		}
		*dst = &n
	}

	if v := r.FormValue("control_list_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return req, serr.NewServiceError(err, http.StatusBadRequest, "invalid control_list_id")
		}
		req.ControlListID = &id
	} else {
		req.ControlList = &newControlListRequest{Name: req.Name}
	}

	file, _, err := r.FormFile("tokens")
	if err != nil {
		return req, serr.NewServiceError(err, http.StatusBadRequest, "token file is required")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return req, serr.NewServiceError(err, http.StatusBadRequest, "read token file")
	}
	req.Tokens = string(data)

	return req, nil
}

func (api *API) handleCreateCorpus(w http.ResponseWriter, r *http.Request) {
	var req createCorpusRequest
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		req, err = readCorpusForm(r)
	} else {
		err = readBody(r, &req)
	}
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	tokens, err := readTokens(req.Tokens)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	sr := service.CreateCorpusRequest{
		Name:           req.Name,
		ControlListID:  req.ControlListID,
		ContextLeft:    api.defaultContext,
		ContextRight:   api.defaultContext,
		DelimiterToken: req.DelimiterToken,
		Tokens:         tokens,
	}
	if req.ContextLeft != nil {
		sr.ContextLeft = *req.ContextLeft
	}
	if req.ContextRight != nil {
		sr.ContextRight = *req.ContextRight
	}
	if req.ControlList != nil {
		n, err := req.ControlList.toService()
		if err != nil {
			httpx.HandleErr(w, r, err)
			return
		}
		sr.ControlList = &n
	}

	c, err := api.corpora.Create(r.Context(), actor(r), sr)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, c)
}

func (api *API) handleListCorpora(w http.ResponseWriter, r *http.Request) {
	cs, err := api.corpora.List(r.Context(), actor(r))
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, cs)
}

func (api *API) handleGetCorpus(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "corpus_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	c, err := api.corpora.Get(r.Context(), actor(r), id)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, c)
}

func (api *API) handleDeleteCorpus(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "corpus_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	if err := api.corpora.Delete(r.Context(), actor(r), id); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (api *API) handleCorpusMembers(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "corpus_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	ms, err := api.corpora.Members(r.Context(), actor(r), id)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, ms)
}

func (api *API) handleSetCorpusMembers(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "corpus_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	var ms []model.Member
	if err := readBody(r, &ms); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	if err := api.corpora.SetMembers(r.Context(), actor(r), id, ms); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (api *API) handleColumns(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "corpus_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	cols, err := api.corpora.Columns(r.Context(), actor(r), id)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, cols)
}

func (api *API) handleUpdateColumns(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "corpus_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	var cols []model.Column
	if err := readBody(r, &cols); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	if err := api.corpora.UpdateColumns(r.Context(), actor(r), id, cols); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (api *API) handleBookmark(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "corpus_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	b, err := api.corpora.Bookmark(r.Context(), actor(r), id)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, b)
}

type bookmarkRequest struct {
	TokenID int64 `json:"token_id"`
	Page    int   `json:"page"`
}

func (api *API) handleSetBookmark(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "corpus_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	var req bookmarkRequest
	if err := readBody(r, &req); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	if err := api.corpora.SetBookmark(r.Context(), actor(r), id, req.TokenID, req.Page); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (api *API) handleDeleteBookmark(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "corpus_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	if err := api.corpora.DeleteBookmark(r.Context(), actor(r), id); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (api *API) handleExportTokens(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "corpus_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	exp, err := api.corpora.Export(r.Context(), actor(r), id)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	var buf strings.Builder
	if err := exchange.WriteTokens(&buf, exp.Tokens); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeAttachment(w, fmt.Sprintf("%s.tsv", exp.Corpus.Name), "text/tab-separated-values; charset=utf-8", buf.String())
}

func (api *API) handleExportAllowed(w http.ResponseWriter, r *http.Request) {
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

	exp, err := api.corpora.Export(r.Context(), actor(r), id)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	var buf strings.Builder
	if err := exchange.WriteAllowed(f, &buf, exp.Allowed[f]); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeAttachment(w, exchange.AllowedFile(f), "text/plain; charset=utf-8", buf.String())
}

func writeAttachment(w http.ResponseWriter, name, contentType, body string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}
