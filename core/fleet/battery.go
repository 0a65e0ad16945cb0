package fleet

import (
	"sort"
	"time"

	"github.com/helmside/boatclub/core/model"
)

// BatteryAvailable reports whether assigning the battery to slot would
// violate the recharge constraint. Only reservations on the same calendar
// date as slot are considered; cross-date adjacency is out of scope of the
// current rule.
func (f *Fleet) BatteryAvailable(batteryID int64, slot model.TimeSlot) bool {
	for _, resID := range f.resByBattery[batteryID] {
		r := f.reservations[resID]
		if !model.SameDate(r.Slot.Date, slot.Date) {
			continue
		}
		hours := int(r.Slot.End.Sub(slot.Start).Hours())
		if hours < model.MinRechargeHours || hours > model.MaxRechargeGapHours {
			return false
		}
	}
	return true
}

// ClosestPastReservation returns the battery's reservation dated on or before
// the slot whose start is numerically closest to the slot's start. Ties keep
// the stable sort order of the battery's reservation list.
func (f *Fleet) ClosestPastReservation(batteryID int64, slot model.TimeSlot) (model.Reservation, bool) {
	return f.closestReservation(batteryID, slot, false)
}

// ClosestFutureReservation is the forward-looking counterpart of
// ClosestPastReservation, over reservations dated on or after the slot.
func (f *Fleet) ClosestFutureReservation(batteryID int64, slot model.TimeSlot) (model.Reservation, bool) {
	return f.closestReservation(batteryID, slot, true)
}

func (f *Fleet) closestReservation(batteryID int64, slot model.TimeSlot, future bool) (model.Reservation, bool) {
	slotDay := model.Midnight(slot.Date)
	var candidates []*model.Reservation
	for _, resID := range f.resByBattery[batteryID] {
		r := f.reservations[resID]
		day := model.Midnight(r.Slot.Date)
		if future && day.Before(slotDay) {
			continue
		}
		if !future && day.After(slotDay) {
			continue
		}
		candidates = append(candidates, r)
	}
	if len(candidates) == 0 {
		return model.Reservation{}, false
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		di := absDuration(candidates[i].Slot.Start.Sub(slot.Start))
		dj := absDuration(candidates[j].Slot.Start.Sub(slot.Start))
		return di < dj
	})
	return *candidates[0], true
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
