package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/forgefit/forgefit/internal/directory"
	"github.com/forgefit/forgefit/internal/membership"
	"github.com/forgefit/forgefit/internal/model"
	"github.com/forgefit/forgefit/internal/store"
	"github.com/forgefit/forgefit/internal/voucher"
	ws "github.com/forgefit/forgefit/internal/websocket"
)

type MemberHandler struct {
	directory *directory.Service
	lifecycle *membership.Service
	members   *store.MemberStore
	settings  *store.SettingsStore
	hub       *ws.Hub
	logger    *slog.Logger
}

func NewMemberHandler(dir *directory.Service, lifecycle *membership.Service, members *store.MemberStore, settings *store.SettingsStore, hub *ws.Hub, logger *slog.Logger) *MemberHandler {
	return &MemberHandler{
		directory: dir,
		lifecycle: lifecycle,
		members:   members,
		settings:  settings,
		hub:       hub,
		logger:    logger,
	}
}

// memberView decorates a member with its computed membership status for
// list and detail responses.
type memberView struct {
	model.Member
	Status        membership.Status `json:"status"`
	DaysRemaining int               `json:"days_remaining"`
	Current       *model.Membership `json:"current_membership,omitempty"`
}

func (h *MemberHandler) view(m model.Member) (memberView, error) {
	current, err := h.lifecycle.Current(m.ID)
	if err != nil {
		return memberView{}, err
	}
	status, remaining, err := h.lifecycle.StatusFor(m.ID)
	if err != nil {
		return memberView{}, err
	}
	return memberView{Member: m, Status: status, DaysRemaining: remaining, Current: current}, nil
}

// List returns all members, or the name-fragment matches when ?q= is
// present. Every entry carries its computed status.
func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		members []model.Member
		err     error
	)
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		members, err = h.directory.FindByName(q)
	} else {
		members, err = h.directory.List()
	}
	if err != nil {
		h.logger.Error("list members", "error", err)
		writeDomainError(w, err)
		return
	}

	views := []memberView{}
	for _, m := range members {
		v, err := h.view(m)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		views = append(views, v)
	}
	writeJSON(w, http.StatusOK, views)
}

type createMemberRequest struct {
	FirstName    string `json:"first_name"`
	PaternalName string `json:"paternal_name"`
	MaternalName string `json:"maternal_name"`
	Photo        []byte `json:"photo"`
	Fingerprint  []byte `json:"fingerprint"`
	PlanID       int64  `json:"plan_id"`
	StartDate    string `json:"start_date"`
}

// Create registers a member. When plan_id is set, the member and their
// first membership are created in one transaction and the response
// includes the membership.
func (h *MemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.FirstName = strings.TrimSpace(req.FirstName)
	req.PaternalName = strings.TrimSpace(req.PaternalName)
	req.MaternalName = strings.TrimSpace(req.MaternalName)
	if req.FirstName == "" || req.PaternalName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "first_name and paternal_name are required"})
		return
	}

	if req.PlanID == 0 {
		member, err := h.directory.Create(req.FirstName, req.PaternalName, req.MaternalName, req.Photo, req.Fingerprint)
		if err != nil {
			h.logger.Error("create member", "error", err)
			writeDomainError(w, err)
			return
		}
		h.hub.Broadcast(ws.NewMessage("member", "created", member.ID, nil))
		writeJSON(w, http.StatusCreated, member)
		return
	}

	startDate := h.lifecycle.Now()
	if req.StartDate != "" {
		var err error
		if startDate, err = parseDate(req.StartDate); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "start_date must be YYYY-MM-DD"})
			return
		}
	}

	member, ms, err := h.directory.RegisterWithMembership(
		req.FirstName, req.PaternalName, req.MaternalName,
		req.Photo, req.Fingerprint, req.PlanID, startDate,
	)
	if err != nil {
		h.logger.Error("register member", "error", err)
		writeDomainError(w, err)
		return
	}

	h.hub.Broadcast(ws.NewMessage("member", "created", member.ID, nil))
	writeJSON(w, http.StatusCreated, map[string]any{"member": member, "membership": ms})
}

func (h *MemberHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	member, err := h.directory.Get(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if member == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "member not found"})
		return
	}

	v, err := h.view(*member)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	history, err := h.directory.History(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if history == nil {
		history = []model.Membership{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"member":         v.Member,
		"status":         v.Status,
		"days_remaining": v.DaysRemaining,
		"current":        v.Current,
		"history":        history,
	})
}

type updateMemberRequest struct {
	FirstName    string `json:"first_name"`
	PaternalName string `json:"paternal_name"`
	MaternalName string `json:"maternal_name"`
	// Pointer fields distinguish omitted from explicitly empty: absent
	// keeps the stored blob, "" clears it, data replaces it.
	Photo       *[]byte `json:"photo"`
	Fingerprint *[]byte `json:"fingerprint"`
}

func (h *MemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req updateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.FirstName = strings.TrimSpace(req.FirstName)
	req.PaternalName = strings.TrimSpace(req.PaternalName)
	req.MaternalName = strings.TrimSpace(req.MaternalName)
	if req.FirstName == "" || req.PaternalName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "first_name and paternal_name are required"})
		return
	}

	if err := h.directory.Update(id, req.FirstName, req.PaternalName, req.MaternalName, req.Photo, req.Fingerprint); err != nil {
		h.logger.Error("update member", "member_id", id, "error", err)
		writeDomainError(w, err)
		return
	}

	member, err := h.directory.Get(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.hub.Broadcast(ws.NewMessage("member", "updated", id, nil))
	writeJSON(w, http.StatusOK, member)
}

func (h *MemberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.directory.Delete(id); err != nil {
		writeDomainError(w, err)
		return
	}

	h.hub.Broadcast(ws.NewMessage("member", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

// Photo serves the stored photo blob. The core treats it as opaque
// bytes; content sniffing is left to the client.
func (h *MemberHandler) Photo(w http.ResponseWriter, r *http.Request) {
	h.serveBlob(w, r, h.members.GetPhoto, "application/octet-stream")
}

// QRCode serves the member's QR credential PNG.
func (h *MemberHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	h.serveBlob(w, r, h.members.GetQRCode, "image/png")
}

func (h *MemberHandler) serveBlob(w http.ResponseWriter, r *http.Request, get func(int64) ([]byte, error), contentType string) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	blob, err := get(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if blob == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(blob)
}

// Voucher returns the field set of the printable enrollment receipt for
// the member's current membership.
func (h *MemberHandler) Voucher(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	member, err := h.directory.Get(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if member == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "member not found"})
		return
	}

	current, err := h.lifecycle.Current(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if current == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "member has no membership"})
		return
	}

	gymName, err := h.settings.Get(store.SettingGymName)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, voucher.Build(gymName, member, current, h.lifecycle.Now()))
}
