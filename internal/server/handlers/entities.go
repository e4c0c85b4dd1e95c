package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tradepost/marketsync/internal/server/storage"
	"github.com/tradepost/marketsync/pkg/api"
)

// EntityHandler serves the generic per-collection entity CRUD API.
type EntityHandler struct {
	logger  *slog.Logger
	storage storage.EntityStorage
}

// NewEntityHandler creates a new entity handler
func NewEntityHandler(logger *slog.Logger, store storage.EntityStorage) *EntityHandler {
	return &EntityHandler{
		logger:  logger,
		storage: store,
	}
}

// Register attaches the entity routes to mux.
func (h *EntityHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/entities/{collection}", h.Create)
	mux.HandleFunc("GET /api/v1/entities/{collection}", h.List)
	mux.HandleFunc("GET /api/v1/entities/{collection}/{id}", h.Get)
	mux.HandleFunc("PUT /api/v1/entities/{collection}/{id}", h.Update)
	mux.HandleFunc("DELETE /api/v1/entities/{collection}/{id}", h.Delete)
}

// Create handles POST /api/v1/entities/{collection}
func (h *EntityHandler) Create(w http.ResponseWriter, r *http.Request) {
	collection := r.PathValue("collection")

	data, id, ok := h.decodePayload(w, r)
	if !ok {
		return
	}

	entity, err := h.storage.CreateEntity(r.Context(), collection, id, data)
	if err != nil {
		if errors.Is(err, storage.ErrEntityExists) {
			h.writeError(w, http.StatusConflict, api.CodeAlreadyExists, "entity already exists")
			return
		}
		h.logger.Error("failed to create entity", "error", err, "collection", collection, "id", id)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("entity created", "collection", collection, "id", id)
	h.writeEntity(w, http.StatusCreated, entity)
}

// Get handles GET /api/v1/entities/{collection}/{id}
func (h *EntityHandler) Get(w http.ResponseWriter, r *http.Request) {
	collection := r.PathValue("collection")
	id := r.PathValue("id")

	entity, err := h.storage.GetEntity(r.Context(), collection, id)
	if err != nil {
		if errors.Is(err, storage.ErrEntityNotFound) {
			h.writeError(w, http.StatusNotFound, api.CodeNotFound, "entity not found")
			return
		}
		h.logger.Error("failed to get entity", "error", err, "collection", collection, "id", id)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeEntity(w, http.StatusOK, entity)
}

// List handles GET /api/v1/entities/{collection}
// Query parameters other than the reserved ones are treated as equality
// filters on top-level fields of the entity payload.
func (h *EntityHandler) List(w http.ResponseWriter, r *http.Request) {
	collection := r.PathValue("collection")

	filter := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			filter[key] = values[0]
		}
	}

	entities, err := h.storage.ListEntities(r.Context(), collection, filter)
	if err != nil {
		h.logger.Error("failed to list entities", "error", err, "collection", collection)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.ListResponse{
		Entities: make([]api.Entity, 0, len(entities)),
		Total:    len(entities),
	}
	for _, entity := range entities {
		resp.Entities = append(resp.Entities, toAPIEntity(entity))
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// Update handles PUT /api/v1/entities/{collection}/{id}
func (h *EntityHandler) Update(w http.ResponseWriter, r *http.Request) {
	collection := r.PathValue("collection")
	id := r.PathValue("id")

	data, payloadID, ok := h.decodePayload(w, r)
	if !ok {
		return
	}
	if payloadID != "" && payloadID != id {
		h.writeError(w, http.StatusBadRequest, api.CodeValidationError, "payload id does not match URL")
		return
	}

	entity, err := h.storage.UpdateEntity(r.Context(), collection, id, data)
	if err != nil {
		if errors.Is(err, storage.ErrEntityNotFound) {
			h.writeError(w, http.StatusNotFound, api.CodeNotFound, "entity not found")
			return
		}
		h.logger.Error("failed to update entity", "error", err, "collection", collection, "id", id)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("entity updated", "collection", collection, "id", id)
	h.writeEntity(w, http.StatusOK, entity)
}

// Delete handles DELETE /api/v1/entities/{collection}/{id}
func (h *EntityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	collection := r.PathValue("collection")
	id := r.PathValue("id")

	if err := h.storage.DeleteEntity(r.Context(), collection, id); err != nil {
		if errors.Is(err, storage.ErrEntityNotFound) {
			h.writeError(w, http.StatusNotFound, api.CodeNotFound, "entity not found")
			return
		}
		h.logger.Error("failed to delete entity", "error", err, "collection", collection, "id", id)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("entity deleted", "collection", collection, "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// decodePayload reads the request body and extracts the payload's "id"
// field. A missing or non-object body is rejected with 400.
func (h *EntityHandler) decodePayload(w http.ResponseWriter, r *http.Request) (json.RawMessage, string, bool) {
	var payload json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.logger.Warn("failed to decode request body", "error", err)
		h.writeError(w, http.StatusBadRequest, api.CodeValidationError, "invalid request body")
		return nil, "", false
	}

	var fields struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(payload, &fields); err != nil {
		h.writeError(w, http.StatusBadRequest, api.CodeValidationError, "payload must be a JSON object")
		return nil, "", false
	}
	if r.Method == http.MethodPost && fields.ID == "" {
		h.writeError(w, http.StatusBadRequest, api.CodeValidationError, "payload must carry an id field")
		return nil, "", false
	}

	return payload, fields.ID, true
}

func (h *EntityHandler) writeEntity(w http.ResponseWriter, status int, entity *storage.StoredEntity) {
	h.writeJSON(w, status, toAPIEntity(entity))
}

func (h *EntityHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *EntityHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	h.writeJSON(w, status, api.ErrorResponse{
		Error:   code,
		Message: message,
	})
}

func toAPIEntity(entity *storage.StoredEntity) api.Entity {
	return api.Entity{
		UpdatedAt:  entity.UpdatedAt,
		Collection: entity.Collection,
		ID:         entity.ID,
		Data:       json.RawMessage(entity.Data),
	}
}
