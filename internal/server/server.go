package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/forgefit/forgefit/internal/checkin"
	"github.com/forgefit/forgefit/internal/directory"
	"github.com/forgefit/forgefit/internal/fingerprint"
	"github.com/forgefit/forgefit/internal/handler"
	"github.com/forgefit/forgefit/internal/logging"
	"github.com/forgefit/forgefit/internal/membership"
	"github.com/forgefit/forgefit/internal/middleware"
	"github.com/forgefit/forgefit/internal/store"
	ws "github.com/forgefit/forgefit/internal/websocket"
)

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	memberH     *handler.MemberHandler
	planH       *handler.PlanHandler
	membershipH *handler.MembershipHandler
	checkinH    *handler.CheckinHandler
	settingsH   *handler.SettingsHandler
	logger      *slog.Logger
}

// New wires stores, services, and handlers. The matcher is injected so
// deployments with a vendor fingerprint SDK can swap in its adapter;
// everything else defaults to the local SQLite-backed stack.
func New(db *sql.DB, matcher fingerprint.Matcher, logger *slog.Logger) *Server {
	hub := ws.NewHub(logging.ForComponent(logger, "websocket"))

	memberStore := store.NewMemberStore(db)
	planStore := store.NewPlanStore(db)
	membershipStore := store.NewMembershipStore(db)
	checkinStore := store.NewCheckinStore(db)
	settingsStore := store.NewSettingsStore(db)

	lifecycle := membership.NewService(memberStore, planStore, membershipStore, logging.ForComponent(logger, "membership"))
	dir := directory.NewService(memberStore, lifecycle, matcher, logging.ForComponent(logger, "directory"))
	checkinSvc := checkin.NewService(dir, lifecycle, checkinStore, logging.ForComponent(logger, "checkin"))

	return &Server{
		db:          db,
		hub:         hub,
		memberH:     handler.NewMemberHandler(dir, lifecycle, memberStore, settingsStore, hub, logging.ForComponent(logger, "member")),
		planH:       handler.NewPlanHandler(planStore, hub, logging.ForComponent(logger, "plan")),
		membershipH: handler.NewMembershipHandler(lifecycle, hub, logging.ForComponent(logger, "membership_handler")),
		checkinH:    handler.NewCheckinHandler(checkinSvc, hub, logging.ForComponent(logger, "checkin_handler")),
		settingsH:   handler.NewSettingsHandler(settingsStore, logging.ForComponent(logger, "settings")),
		logger:      logger,
	}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	// Plans
	mux.HandleFunc("GET /api/plans", s.planH.List)
	mux.HandleFunc("POST /api/plans", s.planH.Create)
	mux.HandleFunc("GET /api/plans/{id}", s.planH.Get)
	mux.HandleFunc("PUT /api/plans/{id}", s.planH.Update)
	mux.HandleFunc("DELETE /api/plans/{id}", s.planH.Delete)

	// Members
	mux.HandleFunc("GET /api/members", s.memberH.List)
	mux.HandleFunc("POST /api/members", s.memberH.Create)
	mux.HandleFunc("GET /api/members/{id}", s.memberH.Get)
	mux.HandleFunc("PUT /api/members/{id}", s.memberH.Update)
	mux.HandleFunc("DELETE /api/members/{id}", s.memberH.Delete)
	mux.HandleFunc("GET /api/members/{id}/photo", s.memberH.Photo)
	mux.HandleFunc("GET /api/members/{id}/qr", s.memberH.QRCode)
	mux.HandleFunc("GET /api/members/{id}/voucher", s.memberH.Voucher)

	// Memberships
	mux.HandleFunc("POST /api/members/{id}/memberships", s.membershipH.Register)
	mux.HandleFunc("POST /api/members/{id}/renew", s.membershipH.Renew)
	mux.HandleFunc("GET /api/members/{id}/memberships", s.membershipH.History)
	mux.HandleFunc("GET /api/members/{id}/status", s.membershipH.Status)

	// Check-in
	mux.HandleFunc("POST /api/checkin/qr", s.checkinH.ByToken)
	mux.HandleFunc("POST /api/checkin/fingerprint", s.checkinH.ByFingerprint)
	mux.HandleFunc("GET /api/checkins/recent", s.checkinH.Recent)

	// Settings
	mux.HandleFunc("GET /api/settings", s.settingsH.Get)
	mux.HandleFunc("PUT /api/settings/gym-name", s.settingsH.UpdateGymName)
	mux.HandleFunc("POST /api/settings/pin", s.settingsH.SetPIN)
	mux.HandleFunc("DELETE /api/settings/pin", s.settingsH.ClearPIN)
	mux.HandleFunc("POST /api/settings/pin/verify", s.settingsH.VerifyPIN)

	// WebSocket feed for the access monitor and live lists
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))

	return middleware.RequestLogger(logging.ForComponent(s.logger, "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
