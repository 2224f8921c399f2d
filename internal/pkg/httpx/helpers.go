package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gamma-omg/lexi-annotate/internal/pkg/serr"
)

// ErrorBody is the JSON document written for every failed request.
type ErrorBody struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func ReadJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(out)
}

func WriteJSON(w http.ResponseWriter, status int, resp any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	return enc.Encode(resp)
}

func HandleErr(w http.ResponseWriter, r *http.Request, err error) {
	var se *serr.ServiceError
	if errors.As(err, &se) {
		attrs := []any{
			"error", err,
			"status", se.StatusCode,
			"method", r.Method,
			"url", r.URL.String(),
			"remote_addr", r.RemoteAddr,
		}
		for k, v := range se.Env {
			attrs = append(attrs, k, v)
		}
		slog.Warn("request rejected", attrs...)

		_ = WriteJSON(w, se.StatusCode, ErrorBody{Error: se.Msg, Details: se.Details})
		return
	}

	slog.Error("request error",
		"error", err,
		"method", r.Method,
		"url", r.URL.String(),
		"remote_addr", r.RemoteAddr,
	)
	_ = WriteJSON(w, http.StatusInternalServerError, ErrorBody{Error: "Internal Server Error"})
}

// PathID parses a numeric path parameter.
func PathID(r *http.Request, param string) (int64, error) {
	raw := r.PathValue(param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, serr.NewServiceError(err, http.StatusBadRequest, "invalid %s parameter", param).
			WithEnv(param, raw)
	}

	return id, nil
}

// QueryInt parses an optional numeric query parameter.
func QueryInt(r *http.Request, param string, def int) (int, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return def, nil
	}

	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		return 0, serr.NewServiceError(fmt.Errorf("parse %q: %w", raw, err), http.StatusBadRequest, "invalid %s parameter", param)
	}

	return val, nil
}
