package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/forgefit/forgefit/internal/model"
	"github.com/forgefit/forgefit/internal/store"
	ws "github.com/forgefit/forgefit/internal/websocket"
)

type PlanHandler struct {
	store  *store.PlanStore
	hub    *ws.Hub
	logger *slog.Logger
}

func NewPlanHandler(s *store.PlanStore, hub *ws.Hub, logger *slog.Logger) *PlanHandler {
	return &PlanHandler{store: s, hub: hub, logger: logger}
}

type planRequest struct {
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	DurationDays int     `json:"duration_days"`
}

func (req *planRequest) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return "name is required"
	}
	if req.Price < 0 {
		return "price must not be negative"
	}
	if req.DurationDays < 1 {
		return "duration_days must be at least 1"
	}
	return ""
}

func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	plans, err := h.store.List()
	if err != nil {
		h.logger.Error("list plans", "error", err)
		writeDomainError(w, err)
		return
	}
	if plans == nil {
		plans = []model.Plan{}
	}
	writeJSON(w, http.StatusOK, plans)
}

func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	existing, err := h.store.GetByName(req.Name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if existing != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "a plan with that name already exists"})
		return
	}

	plan, err := h.store.Create(req.Name, req.Price, req.DurationDays)
	if err != nil {
		h.logger.Error("create plan", "error", err)
		writeDomainError(w, err)
		return
	}

	h.hub.Broadcast(ws.NewMessage("plan", "created", plan.ID, nil))
	writeJSON(w, http.StatusCreated, plan)
}

func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	plan, err := h.store.GetByID(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if plan == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "plan not found"})
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (h *PlanHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "plan not found"})
		return
	}

	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	byName, err := h.store.GetByName(req.Name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if byName != nil && byName.ID != id {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "a plan with that name already exists"})
		return
	}

	plan, err := h.store.Update(id, req.Name, req.Price, req.DurationDays)
	if err != nil {
		h.logger.Error("update plan", "plan_id", id, "error", err)
		writeDomainError(w, err)
		return
	}

	h.hub.Broadcast(ws.NewMessage("plan", "updated", plan.ID, nil))
	writeJSON(w, http.StatusOK, plan)
}

func (h *PlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "plan not found"})
		return
	}

	if err := h.store.Delete(id); err != nil {
		writeDomainError(w, err)
		return
	}

	h.hub.Broadcast(ws.NewMessage("plan", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}
