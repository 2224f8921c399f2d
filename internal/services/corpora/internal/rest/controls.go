package rest

import (
	"net/http"
	"strings"

	"github.com/gamma-omg/lexi-annotate/internal/pkg/httpx"
	"github.com/gamma-omg/lexi-annotate/internal/pkg/serr"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/exchange"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/model"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/service"
)

// allowedFiles holds allowed values in their file format: lemmas one per
// line, POS comma separated, morph as label/readable rows.
type allowedFiles struct {
	Lemma string `json:"lemma"`
	POS   string `json:"POS"`
	Morph string `json:"morph"`
}

func (af allowedFiles) text(f model.Field) string {
	switch f {
	case model.FieldLemma:
		return af.Lemma
	case model.FieldPOS:
		return af.POS
	default:
		return af.Morph
	}
}

func parseAllowed(f model.Field, text string) ([]model.AllowedValue, error) {
	vs, err := exchange.ReadAllowed(f, strings.NewReader(text))
	if err != nil {
		return nil, serr.NewServiceError(err, http.StatusBadRequest, "invalid allowed %s values", f)
	}
	return vs, nil
}

type newControlListRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Notes       string `json:"notes"`
	allowedFiles
}

func (req newControlListRequest) toService() (service.NewControlList, error) {
	n := service.NewControlList{
		Name:        req.Name,
		Description: req.Description,
		Notes:       req.Notes,
	}

	for _, f := range model.Fields {
		vs, err := parseAllowed(f, req.text(f))
		if err != nil {
			return n, err
		}

		switch f {
		case model.FieldLemma:
			n.Lemma = vs
		case model.FieldPOS:
			n.POS = vs
		case model.FieldMorph:
			n.Morph = vs
		}
	}

	return n, nil
}

func (api *API) handleCreateControlList(w http.ResponseWriter, r *http.Request) {
	var req newControlListRequest
	if err := readBody(r, &req); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	n, err := req.toService()
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	cl, err := api.controls.Create(r.Context(), actor(r), n)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, cl)
}

func (api *API) handleListControlLists(w http.ResponseWriter, r *http.Request) {
	cls, err := api.controls.List(r.Context(), actor(r))
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, cls)
}

func (api *API) handleGetControlList(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "control_list_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	cl, err := api.controls.Get(r.Context(), actor(r), id)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, cl)
}

type updateControlListRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Notes       *string `json:"notes"`
}

func (api *API) handleUpdateControlList(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "control_list_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	var req updateControlListRequest
	if err := readBody(r, &req); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	cl, err := api.controls.Update(r.Context(), actor(r), id, service.UpdateControlListRequest{
		Name:        req.Name,
		Description: req.Description,
		Notes:       req.Notes,
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, cl)
}

func (api *API) handleDeleteControlList(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "control_list_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	if err := api.controls.Delete(r.Context(), actor(r), id); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (api *API) handleProposeControlList(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "control_list_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	if err := api.controls.Propose(r.Context(), actor(r), id); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type reviewRequest struct {
	Accept bool `json:"accept"`
}

func (api *API) handleReviewControlList(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "control_list_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	var req reviewRequest
	if err := readBody(r, &req); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	if err := api.controls.Review(r.Context(), actor(r), id, req.Accept); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (api *API) handleControlListMembers(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "control_list_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	ms, err := api.controls.Members(r.Context(), actor(r), id)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, ms)
}

func (api *API) handleSetControlListMembers(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "control_list_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	var ms []model.Member
	if err := readBody(r, &ms); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	if err := api.controls.SetMembers(r.Context(), actor(r), id, ms); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (api *API) handleAllowed(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "control_list_id")
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

	page, err := api.controls.Allowed(r.Context(), actor(r), id, service.AllowedRequest{
		Field:       f,
		Prefix:      r.URL.Query().Get("search"),
		PageRequest: pr,
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, page)
}

// handleDownloadAllowed returns every allowed value of a type in the file
// format accepted at creation.
func (api *API) handleDownloadAllowed(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "control_list_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	f, err := fieldFromRequest(r)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	vs, err := api.controls.AllAllowed(r.Context(), actor(r), id, f)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	var buf strings.Builder
	if err := exchange.WriteAllowed(f, &buf, vs); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeAttachment(w, exchange.AllowedFile(f), "text/plain; charset=utf-8", buf.String())
}

type replaceAllowedRequest struct {
	AllowedValues string `json:"allowed_values"`
}

func (api *API) handleReplaceAllowed(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "control_list_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	f, err := fieldFromRequest(r)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	var req replaceAllowedRequest
	if err := readBody(r, &req); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	vs, err := parseAllowed(f, req.AllowedValues)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	if err := api.controls.ReplaceAllowed(r.Context(), actor(r), id, f, vs); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type addAllowedRequest struct {
	Label    string `json:"label"`
	Readable string `json:"readable"`
}

func (api *API) handleAddAllowed(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "control_list_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	f, err := fieldFromRequest(r)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	var req addAllowedRequest
	if err := readBody(r, &req); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	v, err := api.controls.AddAllowed(r.Context(), actor(r), id, f, model.AllowedValue{Label: req.Label, Readable: req.Readable})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, v)
}

func (api *API) handleDeleteAllowed(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "control_list_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	f, err := fieldFromRequest(r)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	valueID, err := httpx.PathID(r, "value_id")
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	if err := api.controls.DeleteAllowed(r.Context(), actor(r), id, f, valueID); err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
