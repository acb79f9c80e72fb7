package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/dukerupert/hamfast/internal/auth"
	"github.com/dukerupert/hamfast/internal/category"
	"github.com/dukerupert/hamfast/internal/model"
	"github.com/dukerupert/hamfast/internal/ordering"
	"github.com/dukerupert/hamfast/internal/status"
	"github.com/dukerupert/hamfast/internal/store"
)

const maxNameLength = 100

type ItemHandler struct {
	items  *store.ItemStore
	logger *slog.Logger
}

func NewItemHandler(items *store.ItemStore, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{items: items, logger: logger}
}

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	items, err := h.items.ListByOwner(userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

type createItemRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Status   string `json:"status"`
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if utf8.RuneCountInString(req.Name) > maxNameLength {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name must be 100 characters or fewer"})
		return
	}
	if !category.Valid(req.Category) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown category"})
		return
	}
	st, err := status.Parse(req.Status)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	item, err := h.items.Create(userID, req.Name, req.Category, st)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

type updateItemRequest struct {
	Name      *string `json:"name"`
	Category  *string `json:"category"`
	Status    *string `json:"status"`
	Completed *bool   `json:"completed"`
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	item, ok := h.ownedItem(w, r)
	if !ok {
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	// An empty update set is a client error; it never reaches the store.
	if req.Name == nil && req.Category == nil && req.Status == nil && req.Completed == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no fields to update"})
		return
	}

	ch := store.ItemChanges{Completed: req.Completed}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
			return
		}
		if utf8.RuneCountInString(name) > maxNameLength {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name must be 100 characters or fewer"})
			return
		}
		ch.Name = &name
	}
	if req.Category != nil {
		if !category.Valid(*req.Category) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown category"})
			return
		}
		ch.Category = req.Category
	}
	if req.Status != nil {
		st, err := status.Parse(*req.Status)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		ch.Status = &st
	}

	updated, err := h.items.Update(item.ID, ch)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if updated == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	item, ok := h.ownedItem(w, r)
	if !ok {
		return
	}

	if err := h.items.Delete(item.ID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reorderRequest struct {
	Status      string `json:"status"`
	SourceIndex int    `json:"source_index"`
	DestIndex   int    `json:"dest_index"`
}

func (h *ItemHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	st, err := status.Parse(req.Status)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.items.Reorder(userID, st, req.SourceIndex, req.DestIndex); err != nil {
		if errors.Is(err, ordering.ErrIndexOutOfRange) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "source or destination index out of range"})
			return
		}
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"reordered": true})
}

// ownedItem loads the item addressed by the path and checks it belongs to
// the caller. Items are exclusively owned, so another user's item reads as
// not found rather than forbidden.
func (h *ItemHandler) ownedItem(w http.ResponseWriter, r *http.Request) (*model.Item, bool) {
	id := r.PathValue("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return nil, false
	}

	item, err := h.items.GetByID(id)
	if err != nil {
		writeError(w, h.logger, err)
		return nil, false
	}
	if item == nil || item.OwnerID != auth.UserID(r.Context()) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		return nil, false
	}
	return item, true
}
