package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/forgefit/forgefit/internal/directory"
	"github.com/forgefit/forgefit/internal/membership"
	"github.com/forgefit/forgefit/internal/store"
)

const dateLayout = "2006-01-02"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseIDParam(r *http.Request) (int64, error) {
	idStr := r.PathValue("id")
	return strconv.ParseInt(idStr, 10, 64)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// writeDomainError translates the typed domain errors into JSON error
// responses. Unrecognized errors surface as a generic 500 so storage
// internals never leak to the front desk.
func writeDomainError(w http.ResponseWriter, err error) {
	var renewalErr *membership.RenewalNotAllowedError
	var activeErr *directory.ActiveMembershipError

	switch {
	case errors.Is(err, membership.ErrMemberNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "member not found"})
	case errors.Is(err, membership.ErrPlanNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "plan not found"})
	case errors.Is(err, membership.ErrInvalidPlanDuration):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "plan duration must be at least one day"})
	case errors.Is(err, membership.ErrStartDateInPast):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "start date cannot be before today"})
	case errors.Is(err, store.ErrDuplicateFingerprint):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "fingerprint already enrolled for another member"})
	case errors.Is(err, store.ErrPlanInUse):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "plan is referenced by existing memberships"})
	case errors.As(err, &renewalErr):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":          "membership still active, renewal not allowed yet",
			"days_remaining": renewalErr.DaysRemaining,
		})
	case errors.As(err, &activeErr):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":    "member has an active membership",
			"end_date": activeErr.EndDate.Format(dateLayout),
		})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
