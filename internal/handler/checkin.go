package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/forgefit/forgefit/internal/checkin"
	"github.com/forgefit/forgefit/internal/membership"
	"github.com/forgefit/forgefit/internal/model"
	"github.com/forgefit/forgefit/internal/qr"
	ws "github.com/forgefit/forgefit/internal/websocket"
)

const defaultRecentLimit = 20

type CheckinHandler struct {
	service *checkin.Service
	hub     *ws.Hub
	logger  *slog.Logger
}

func NewCheckinHandler(service *checkin.Service, hub *ws.Hub, logger *slog.Logger) *CheckinHandler {
	return &CheckinHandler{service: service, hub: hub, logger: logger}
}

// ByToken handles a scanned QR credential.
func (h *CheckinHandler) ByToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if strings.TrimSpace(req.Token) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "token is required"})
		return
	}

	result, err := h.service.ByToken(req.Token)
	if err != nil {
		h.writeCheckinError(w, err)
		return
	}
	h.broadcast(result)
	writeJSON(w, http.StatusOK, result)
}

// ByFingerprint handles a captured fingerprint template.
func (h *CheckinHandler) ByFingerprint(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Template []byte `json:"template"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if len(req.Template) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "template is required"})
		return
	}

	result, err := h.service.ByFingerprint(req.Template)
	if err != nil {
		h.writeCheckinError(w, err)
		return
	}
	h.broadcast(result)
	writeJSON(w, http.StatusOK, result)
}

// Recent lists the latest check-in events for the monitor backfill.
func (h *CheckinHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = n
	}

	events, err := h.service.Recent(limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if events == nil {
		events = []model.CheckinEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *CheckinHandler) broadcast(result *checkin.Result) {
	h.hub.Broadcast(ws.CheckinMessage(result.Member.ID, result.Member.FullName(), string(result.Status), result.Allowed))
}

func (h *CheckinHandler) writeCheckinError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, checkin.ErrNoMatch):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "fingerprint matched no enrolled member"})
	case errors.Is(err, membership.ErrMemberNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "member not found"})
	case errors.Is(err, qr.ErrInvalidToken):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unrecognized token"})
	default:
		h.logger.Error("checkin", "error", err)
		writeDomainError(w, err)
	}
}
