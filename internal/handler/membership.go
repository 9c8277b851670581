package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/forgefit/forgefit/internal/membership"
	"github.com/forgefit/forgefit/internal/model"
	ws "github.com/forgefit/forgefit/internal/websocket"
)

type MembershipHandler struct {
	lifecycle *membership.Service
	hub       *ws.Hub
	logger    *slog.Logger
}

func NewMembershipHandler(lifecycle *membership.Service, hub *ws.Hub, logger *slog.Logger) *MembershipHandler {
	return &MembershipHandler{lifecycle: lifecycle, hub: hub, logger: logger}
}

// Register creates a membership for an existing member.
func (h *MembershipHandler) Register(w http.ResponseWriter, r *http.Request) {
	memberID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req struct {
		PlanID    int64  `json:"plan_id"`
		StartDate string `json:"start_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.PlanID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "plan_id is required"})
		return
	}

	startDate := h.lifecycle.Now()
	if req.StartDate != "" {
		if startDate, err = parseDate(req.StartDate); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "start_date must be YYYY-MM-DD"})
			return
		}
	}

	ms, err := h.lifecycle.Register(memberID, req.PlanID, startDate)
	if err != nil {
		h.logger.Warn("register membership", "member_id", memberID, "error", err)
		writeDomainError(w, err)
		return
	}

	h.hub.Broadcast(ws.NewMessage("membership", "created", ms.ID, map[string]any{"member_id": memberID}))
	writeJSON(w, http.StatusCreated, ms)
}

// Renew creates a fresh membership starting today, provided the current
// one is inside the renewal window.
func (h *MembershipHandler) Renew(w http.ResponseWriter, r *http.Request) {
	memberID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req struct {
		PlanID int64 `json:"plan_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.PlanID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "plan_id is required"})
		return
	}

	ms, err := h.lifecycle.Renew(memberID, req.PlanID)
	if err != nil {
		h.logger.Warn("renew membership", "member_id", memberID, "error", err)
		writeDomainError(w, err)
		return
	}

	h.hub.Broadcast(ws.NewMessage("membership", "renewed", ms.ID, map[string]any{"member_id": memberID}))
	writeJSON(w, http.StatusCreated, ms)
}

// History lists every membership of a member, newest first.
func (h *MembershipHandler) History(w http.ResponseWriter, r *http.Request) {
	memberID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	history, err := h.lifecycle.History(memberID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if history == nil {
		history = []model.Membership{}
	}
	writeJSON(w, http.StatusOK, history)
}

// Status reports the member's current status and remaining days.
func (h *MembershipHandler) Status(w http.ResponseWriter, r *http.Request) {
	memberID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	status, remaining, err := h.lifecycle.StatusFor(memberID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         status,
		"days_remaining": remaining,
		"renewable":      membership.Renewable(status),
	})
}
