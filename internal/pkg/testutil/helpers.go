package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type TestFile struct {
	Name      string
	FieldName string
	Content   io.Reader
}

type RequestOption func(*http.Request)

// WithToken authorizes the request with a bearer token.
func WithToken(token string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

// SendFiles posts a multipart form made of files and plain fields.
func SendFiles(t testing.TB, h http.Handler, method, path string, fields map[string]string, files []TestFile, opts ...RequestOption) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}

	for _, file := range files {
		part, err := writer.CreateFormFile(file.FieldName, file.Name)
		require.NoError(t, err)

		_, err = io.Copy(part, file.Content)
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())

	req, err := http.NewRequest(method, path, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return serve(h, req, opts)
}

func SendRequest(t testing.TB, h http.Handler, method, path string, body any, opts ...RequestOption) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return serve(h, req, opts)
}

func serve(h http.Handler, req *http.Request, opts []RequestOption) *httptest.ResponseRecorder {
	for _, o := range opts {
		o(req)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func ParseResponse[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	dec := json.NewDecoder(rec.Body)
	var resp T
	err := dec.Decode(&resp)
	require.NoError(t, err)

	return resp
}

func WaitFor(t testing.TB, ctx context.Context, interval time.Duration, condition func() bool) bool {
	t.Helper()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			if condition() {
				return true
			}
		}
	}
}
