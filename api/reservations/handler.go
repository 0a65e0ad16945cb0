package reservations

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/helmside/boatclub/core/booking"
	"github.com/helmside/boatclub/core/fleet"
	"github.com/helmside/boatclub/core/model"
)

// createRequest is the booking payload.
type createRequest struct {
	BoatID     int64 `json:"boat_id"`
	TimeSlotID int64 `json:"time_slot_id"`
	UserID     int64 `json:"user_id"`
}

// reservationResponse is the wire shape of a reservation.
type reservationResponse struct {
	ID               int64  `json:"id"`
	BoatID           int64  `json:"boat_id"`
	UserID           int64  `json:"user_id"`
	TimeSlotID       int64  `json:"time_slot_id"`
	BatteryID        int64  `json:"battery_id,omitempty"`
	PreviousHolderID int64  `json:"previous_holder_id,omitempty"`
	Date             string `json:"date"`
	Start            string `json:"start"`
}

// NewHandler exposes reservation booking and cancellation.
//
//	POST /api/reservations
//	POST /api/reservations/{id}/cancel?admin=true
func NewHandler(svc *booking.Service) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/reservations", func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}
		res, err := svc.CreateReservation(r.Context(), req.BoatID, req.TimeSlotID, req.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(toResponse(res))
	})
	mux.HandleFunc("POST /api/reservations/{id}/cancel", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid reservation id", http.StatusBadRequest)
			return
		}
		isAdmin := r.URL.Query().Get("admin") == "true"
		if err := svc.CancelReservation(r.Context(), id, isAdmin); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func toResponse(r model.Reservation) reservationResponse {
	return reservationResponse{
		ID:               r.ID,
		BoatID:           r.BoatID,
		UserID:           r.UserID,
		TimeSlotID:       r.Slot.ID,
		BatteryID:        r.BatteryID,
		PreviousHolderID: r.PreviousHolderID,
		Date:             r.Slot.Date.Format("2006-01-02"),
		Start:            r.Slot.Start.Format("15:04"),
	}
}

func writeError(w http.ResponseWriter, err error) {
	var nf fleet.NotFoundError
	switch {
	case errors.As(err, &nf):
		http.Error(w, nf.Error(), http.StatusNotFound)
	case errors.Is(err, booking.ErrSlotTaken):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, model.ErrReservationCancelled),
		errors.Is(err, model.ErrSlotInPast),
		errors.Is(err, model.ErrCancelTooLate):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
