package rest

import (
	"net/http"

	"github.com/gamma-omg/lexi-annotate/internal/pkg/httpx"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/model"
)

func (api *API) handleDictionary(w http.ResponseWriter, r *http.Request) {
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

	es, err := api.corpora.Dictionary(r.Context(), actor(r), id, f)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, es)
}

type dictionaryEntryRequest struct {
	Label          string  `json:"label"`
	SecondaryLabel *string `json:"secondary_label"`
}

func (api *API) handleAddToDictionary(w http.ResponseWriter, r *http.Request) {
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

	var req dictionaryEntryRequest
	if err := readBody(r, &req); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	e, err := api.corpora.AddToDictionary(r.Context(), actor(r), id, f, req.Label, req.SecondaryLabel)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, e)
}

func (api *API) handleRemoveFromDictionary(w http.ResponseWriter, r *http.Request) {
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

	var req dictionaryEntryRequest
	if err := readBody(r, &req); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	if err := api.corpora.RemoveFromDictionary(r.Context(), actor(r), id, f, req.Label); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type replaceDictionaryRequest struct {
	Labels []string `json:"labels"`
}

func (api *API) handleReplaceDictionary(w http.ResponseWriter, r *http.Request) {
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

	var req replaceDictionaryRequest
	if err := readBody(r, &req); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	if err := api.corpora.ReplaceDictionary(r.Context(), actor(r), id, f, req.Labels); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleAutocomplete answers with bare values for lemma and POS, and with
// value/label pairs for morph codes.
func (api *API) handleAutocomplete(w http.ResponseWriter, r *http.Request) {
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

	sugg, err := api.corpora.Autocomplete(r.Context(), actor(r), id, f, r.URL.Query().Get("form"))
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	if f == model.FieldMorph {
		writeJSON(w, r, http.StatusOK, sugg)
		return
	}

	values := make([]string, len(sugg))
	for i, s := range sugg {
		values[i] = s.Value
	}
	writeJSON(w, r, http.StatusOK, values)
}
