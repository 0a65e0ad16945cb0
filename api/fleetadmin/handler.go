package fleetadmin

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/helmside/boatclub/core/booking"
	"github.com/helmside/boatclub/core/fleet"
	"github.com/helmside/boatclub/core/fleetstatus"
	"github.com/helmside/boatclub/core/model"
)

// NewStatusHandler exposes per-boat battery usage snapshots via
// GET /api/fleet/status. Pass available=true to hide withdrawn boats.
func NewStatusHandler(store fleetstatus.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		f := fleetstatus.Filter{OnlyAvailable: r.URL.Query().Get("available") == "true"}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(store.List(f)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

type batteryRequest struct {
	BoatID   int64  `json:"boat_id"`
	Type     string `json:"type"`
	MentorID int64  `json:"mentor_id"`
}

type availabilityRequest struct {
	Available bool `json:"available"`
}

// NewAdminHandler exposes the fleet admin mutations.
//
//	POST  /api/batteries
//	PATCH /api/boats/{id}/availability
func NewAdminHandler(svc *booking.Service) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/batteries", func(w http.ResponseWriter, r *http.Request) {
		var req batteryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}
		b, err := svc.AddBattery(r.Context(), model.Battery{
			BoatID:   req.BoatID,
			Type:     req.Type,
			MentorID: req.MentorID,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(b)
	})
	mux.HandleFunc("PATCH /api/boats/{id}/availability", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid boat id", http.StatusBadRequest)
			return
		}
		var req availabilityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}
		if err := svc.SetBoatAvailability(r.Context(), id, req.Available); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func writeError(w http.ResponseWriter, err error) {
	var nf fleet.NotFoundError
	if errors.As(err, &nf) {
		http.Error(w, nf.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusBadRequest)
}
