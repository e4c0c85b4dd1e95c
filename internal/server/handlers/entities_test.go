package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradepost/marketsync/internal/server/storage/sqlite"
	"github.com/tradepost/marketsync/pkg/api"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mux := http.NewServeMux()
	NewEntityHandler(logger, store).Register(mux)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func TestEntityHandler_CreateAndGet(t *testing.T) {
	server := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/v1/entities/products",
		`{"id":"p-1","title":"Lamp"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created api.Entity
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "p-1", created.ID)
	assert.Equal(t, "products", created.Collection)

	resp, body = doJSON(t, http.MethodGet, server.URL+"/api/v1/entities/products/p-1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got api.Entity
	require.NoError(t, json.Unmarshal(body, &got))
	assert.JSONEq(t, `{"id":"p-1","title":"Lamp"}`, string(got.Data))
}

func TestEntityHandler_CreateConflict(t *testing.T) {
	server := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/v1/entities/products", `{"id":"p-1"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/v1/entities/products", `{"id":"p-1"}`)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var errResp api.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, api.CodeAlreadyExists, errResp.Error)
}

func TestEntityHandler_CreateValidation(t *testing.T) {
	server := newTestServer(t)

	// No id field
	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/v1/entities/products", `{"title":"Lamp"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp api.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, api.CodeValidationError, errResp.Error)

	// Not JSON at all
	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/v1/entities/products", `not json`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEntityHandler_Update(t *testing.T) {
	server := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/v1/entities/slots",
		`{"id":"slot-7","status":"available"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, http.MethodPut, server.URL+"/api/v1/entities/slots/slot-7",
		`{"id":"slot-7","status":"reserved"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated api.Entity
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.JSONEq(t, `{"id":"slot-7","status":"reserved"}`, string(updated.Data))
}

func TestEntityHandler_UpdateIDMismatch(t *testing.T) {
	server := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPut, server.URL+"/api/v1/entities/slots/slot-7",
		`{"id":"slot-8","status":"reserved"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEntityHandler_UpdateMissing(t *testing.T) {
	server := newTestServer(t)

	resp, body := doJSON(t, http.MethodPut, server.URL+"/api/v1/entities/slots/missing",
		`{"id":"missing"}`)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var errResp api.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, api.CodeNotFound, errResp.Error)
}

func TestEntityHandler_Delete(t *testing.T) {
	server := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/v1/entities/products", `{"id":"p-1"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, server.URL+"/api/v1/entities/products/p-1", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, server.URL+"/api/v1/entities/products/p-1", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEntityHandler_ListWithFilter(t *testing.T) {
	server := newTestServer(t)

	for _, payload := range []string{
		`{"id":"slot-1","listing_id":"l-1"}`,
		`{"id":"slot-2","listing_id":"l-2"}`,
		`{"id":"slot-3","listing_id":"l-1"}`,
	} {
		resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/v1/entities/slots", payload)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, body := doJSON(t, http.MethodGet, server.URL+"/api/v1/entities/slots?listing_id=l-1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list api.ListResponse
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Equal(t, 2, list.Total)
	require.Len(t, list.Entities, 2)
}
