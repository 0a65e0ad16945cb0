package fleet

import (
	"time"

	"github.com/helmside/boatclub/core/model"
)

// CancelReservation soft-deletes a reservation. The transition is one-way.
// Any cancellation fails once the slot date has passed; non-admin members
// additionally need MinDaysBetweenReservation days of notice. On success the
// previous holder is snapshotted from the linked battery's mentor, the party
// accountable for the unit, and the battery link itself is left untouched.
func (f *Fleet) CancelReservation(resID int64, now time.Time, isAdmin bool) error {
	r, ok := f.reservations[resID]
	if !ok {
		return NotFoundError{Kind: "reservation", ID: resID}
	}
	if r.Deleted {
		return model.ErrReservationCancelled
	}
	if r.Slot.Date.Before(now) {
		return model.ErrSlotInPast
	}
	if !isAdmin {
		notice := model.Midnight(now).AddDate(0, 0, model.MinDaysBetweenReservation)
		if model.Midnight(r.Slot.Date).Before(notice) {
			return model.ErrCancelTooLate
		}
	}

	r.Deleted = true
	if r.BatteryID != 0 {
		if b, ok := f.batteries[r.BatteryID]; ok {
			r.PreviousHolderID = b.MentorID
		}
	}
	return nil
}
