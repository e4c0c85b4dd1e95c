package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tradepost/marketsync/internal/models"
	"github.com/tradepost/marketsync/pkg/api"
)

//go:generate moq -out client_mock.go . RemoteClient

// RemoteClient is the remote backend contract consumed by the sync layer:
// per-collection create/update/delete/read/list, each a single
// request/response, plus the lightweight health probe.
//
// Every method returns a *models.ServiceError: NETWORK_ERROR for transport
// failures, otherwise the kind mapped from the backend's HTTP status.
type RemoteClient interface {
	Create(ctx context.Context, collection string, payload json.RawMessage) (*api.Entity, error)
	Update(ctx context.Context, collection, id string, payload json.RawMessage) (*api.Entity, error)
	Delete(ctx context.Context, collection, id string) error
	Get(ctx context.Context, collection, id string) (*api.Entity, error)
	List(ctx context.Context, collection string, filter url.Values) ([]api.Entity, error)
	Probe(ctx context.Context) error
}

// Client is the HTTP implementation of RemoteClient.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new backend API client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Create stores a new entity in a collection.
func (c *Client) Create(ctx context.Context, collection string, payload json.RawMessage) (*api.Entity, error) {
	var resp api.Entity
	path := fmt.Sprintf("/api/v1/entities/%s", url.PathEscape(collection))
	if err := c.doRequest(ctx, http.MethodPost, path, payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Update replaces an entity wholesale.
func (c *Client) Update(ctx context.Context, collection, id string, payload json.RawMessage) (*api.Entity, error) {
	var resp api.Entity
	path := fmt.Sprintf("/api/v1/entities/%s/%s", url.PathEscape(collection), url.PathEscape(id))
	if err := c.doRequest(ctx, http.MethodPut, path, payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete removes an entity.
func (c *Client) Delete(ctx context.Context, collection, id string) error {
	path := fmt.Sprintf("/api/v1/entities/%s/%s", url.PathEscape(collection), url.PathEscape(id))
	return c.doRequest(ctx, http.MethodDelete, path, nil, nil)
}

// Get reads one entity.
func (c *Client) Get(ctx context.Context, collection, id string) (*api.Entity, error) {
	var resp api.Entity
	path := fmt.Sprintf("/api/v1/entities/%s/%s", url.PathEscape(collection), url.PathEscape(id))
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// List reads a collection, optionally filtered by query parameters.
func (c *Client) List(ctx context.Context, collection string, filter url.Values) ([]api.Entity, error) {
	path := fmt.Sprintf("/api/v1/entities/%s", url.PathEscape(collection))
	if len(filter) > 0 {
		path += "?" + filter.Encode()
	}

	var resp api.ListResponse
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Entities, nil
}

// Probe performs the active connectivity check against the health
// endpoint. It satisfies the connectivity monitor's Prober contract.
func (c *Client) Probe(ctx context.Context) error {
	var resp api.HealthResponse
	return c.doRequest(ctx, http.MethodGet, "/api/v1/health", nil, &resp)
}

// doRequest executes one HTTP round trip and decodes the response.
// body may be a json.RawMessage (sent verbatim) or any marshalable value.
func (c *Client) doRequest(ctx context.Context, method, path string, body json.RawMessage, result any) error {
	reqURL := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return &models.ServiceError{Kind: models.ErrKindUnknown, Message: fmt.Sprintf("failed to create request: %v", err)}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &models.ServiceError{Kind: models.ErrKindNetwork, Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &models.ServiceError{Kind: models.ErrKindNetwork, Message: fmt.Sprintf("failed to read response body: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp.StatusCode, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return &models.ServiceError{Kind: models.ErrKindUnknown, Message: fmt.Sprintf("failed to decode response: %v", err)}
		}
	}

	return nil
}

// statusError maps a backend error response to a typed service error.
func statusError(status int, body []byte) *models.ServiceError {
	message := fmt.Sprintf("server returned status %d", status)
	var errResp api.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		message = errResp.Error
		if errResp.Message != "" {
			message = errResp.Message
		}
	}

	kind := models.ErrKindUnknown
	switch {
	case status == http.StatusNotFound:
		kind = models.ErrKindNotFound
	case status == http.StatusConflict:
		kind = models.ErrKindAlreadyExists
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		kind = models.ErrKindValidation
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = models.ErrKindPermissionDenied
	case status >= 500:
		kind = models.ErrKindNetwork
	}

	return &models.ServiceError{
		Kind:    kind,
		Message: message,
		Details: map[string]any{"status": status},
	}
}

// IsNetworkError reports whether err represents a transport-level failure
// that should trigger the offline fallback rather than a final error.
func IsNetworkError(err error) bool {
	var svcErr *models.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Kind == models.ErrKindNetwork
	}
	return false
}
