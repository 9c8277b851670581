package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/forgefit/forgefit/internal/store"
	"golang.org/x/crypto/bcrypt"
)

type SettingsHandler struct {
	settings *store.SettingsStore
	logger   *slog.Logger
}

func NewSettingsHandler(settings *store.SettingsStore, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{settings: settings, logger: logger}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	gymName, err := h.settings.Get(store.SettingGymName)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	pinHash, err := h.settings.Get(store.SettingOperatorPINHash)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"gym_name": gymName,
		"has_pin":  pinHash != "",
	})
}

func (h *SettingsHandler) UpdateGymName(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GymName string `json:"gym_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	req.GymName = strings.TrimSpace(req.GymName)
	if req.GymName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "gym_name is required"})
		return
	}

	if err := h.settings.Set(store.SettingGymName, req.GymName); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"gym_name": req.GymName})
}

// SetPIN stores the bcrypt hash of the operator PIN that the front-desk
// UI requires before destructive actions.
func (h *SettingsHandler) SetPIN(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PIN string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if len(req.PIN) != 4 || !isDigits(req.PIN) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "PIN must be exactly 4 digits"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.PIN), bcrypt.DefaultCost)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to hash PIN"})
		return
	}
	if err := h.settings.Set(store.SettingOperatorPINHash, string(hash)); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "pin set"})
}

func (h *SettingsHandler) ClearPIN(w http.ResponseWriter, r *http.Request) {
	if err := h.settings.Delete(store.SettingOperatorPINHash); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "pin cleared"})
}

func (h *SettingsHandler) VerifyPIN(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PIN string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	hash, err := h.settings.Get(store.SettingOperatorPINHash)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if hash == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no PIN set"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.PIN)); err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "incorrect PIN"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "verified"})
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
