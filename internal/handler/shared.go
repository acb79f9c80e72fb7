package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/hamfast/internal/access"
	"github.com/dukerupert/hamfast/internal/auth"
	"github.com/dukerupert/hamfast/internal/model"
)

type SharedHandler struct {
	svc    *access.Service
	logger *slog.Logger
}

func NewSharedHandler(svc *access.Service, logger *slog.Logger) *SharedHandler {
	return &SharedHandler{svc: svc, logger: logger}
}

// MyAccess lists the grants the caller holds as a member.
func (h *SharedHandler) MyAccess(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	grants, err := h.svc.ListGrantsFor(userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if grants == nil {
		grants = []model.SharedListAccess{}
	}
	writeJSON(w, http.StatusOK, grants)
}

// Items returns the owner's current-period items to a granted member.
func (h *SharedHandler) Items(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	ownerID, err := strconv.ParseInt(r.PathValue("owner_id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid owner id"})
		return
	}

	items, err := h.svc.ListItemsFor(ownerID, userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Revoke withdraws a member's grant to the caller's list.
func (h *SharedHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	memberID, err := strconv.ParseInt(r.PathValue("member_id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid member id"})
		return
	}

	if err := h.svc.Revoke(userID, memberID, userID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
