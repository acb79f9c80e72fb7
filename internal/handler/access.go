package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dukerupert/hamfast/internal/access"
	"github.com/dukerupert/hamfast/internal/auth"
	"github.com/dukerupert/hamfast/internal/model"
	"github.com/dukerupert/hamfast/internal/store"
)

type AccessHandler struct {
	svc    *access.Service
	users  *store.UserStore
	logger *slog.Logger
}

func NewAccessHandler(svc *access.Service, users *store.UserStore, logger *slog.Logger) *AccessHandler {
	return &AccessHandler{svc: svc, users: users, logger: logger}
}

type createAccessRequest struct {
	ListOwnerID int64  `json:"list_owner_id"`
	ListName    string `json:"list_name"`
	Message     string `json:"message"`
}

func (h *AccessHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req createAccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	requester, err := h.users.GetByID(userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if requester == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unknown user"})
		return
	}

	created, err := h.svc.CreateRequest(access.CreateRequestInput{
		ListOwnerID:    req.ListOwnerID,
		RequesterID:    requester.ID,
		RequesterEmail: requester.Email,
		RequesterName:  requester.Name,
		ListName:       req.ListName,
		Message:        req.Message,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *AccessHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	incoming, outgoing, err := h.svc.ListForUser(userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if incoming == nil {
		incoming = []model.AccessRequest{}
	}
	if outgoing == nil {
		outgoing = []model.AccessRequest{}
	}
	writeJSON(w, http.StatusOK, map[string][]model.AccessRequest{
		"incoming": incoming,
		"outgoing": outgoing,
	})
}

type resolveAccessRequest struct {
	Status string `json:"status"`
}

func (h *AccessHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req resolveAccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	resolved, err := h.svc.Transition(r.PathValue("id"), userID, model.RequestStatus(req.Status))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resolved)
}

func (h *AccessHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	if err := h.svc.DeleteRequest(r.PathValue("id"), userID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
