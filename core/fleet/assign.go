package fleet

import (
	"sort"
	"time"

	"github.com/helmside/boatclub/core/model"
)

// FindAvailableBattery selects a battery for the boat to serve slot.
// Candidates are tried in ascending usage order, ties broken by type label,
// and the first one passing the recharge check wins. now is accepted for
// interface compatibility and not used by the availability predicate.
func (f *Fleet) FindAvailableBattery(boatID int64, slot model.TimeSlot, now time.Time) (int64, bool) {
	_ = now
	ids := make([]int64, len(f.batteriesByBoat[boatID]))
	copy(ids, f.batteriesByBoat[boatID])
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := f.batteries[ids[i]], f.batteries[ids[j]]
		if a.UsageCount != b.UsageCount {
			return a.UsageCount < b.UsageCount
		}
		return a.Type < b.Type
	})
	for _, id := range ids {
		if f.BatteryAvailable(id, slot) {
			return id, true
		}
	}
	return 0, false
}

// AssignPending runs one greedy assignment pass over a boat's reservations.
// Eligible are active reservations without a battery whose date falls within
// [today, today+MinDaysBetweenReservation]; they are processed in ascending
// (date, start) order so earlier bookings get first pick of scarce batteries.
// Reservations for which no battery qualifies stay unassigned. The ids of the
// reservations that changed are returned in processing order, making a second
// pass with unchanged state a no-op.
func (f *Fleet) AssignPending(boatID int64, now time.Time) []int64 {
	today := model.Midnight(now)
	horizon := today.AddDate(0, 0, model.MinDaysBetweenReservation)

	var pending []*model.Reservation
	for _, resID := range f.resByBoat[boatID] {
		r := f.reservations[resID]
		if r.Deleted || r.Assigned() {
			continue
		}
		day := model.Midnight(r.Slot.Date)
		if day.Before(today) || day.After(horizon) {
			continue
		}
		pending = append(pending, r)
	}
	sort.SliceStable(pending, func(i, j int) bool {
		if !pending[i].Slot.Date.Equal(pending[j].Slot.Date) {
			return pending[i].Slot.Date.Before(pending[j].Slot.Date)
		}
		return pending[i].Slot.Start.Before(pending[j].Slot.Start)
	})

	var changed []int64
	for _, r := range pending {
		batID, ok := f.FindAvailableBattery(boatID, r.Slot, now)
		if !ok {
			continue
		}
		if err := f.AssignBattery(r.ID, batID); err != nil {
			continue
		}
		changed = append(changed, r.ID)
	}
	return changed
}

// UnassignedPending counts the boat's active reservations inside the
// assignment window that still have no battery. After an AssignPending pass
// this is the number of bookings no battery could serve.
func (f *Fleet) UnassignedPending(boatID int64, now time.Time) int {
	today := model.Midnight(now)
	horizon := today.AddDate(0, 0, model.MinDaysBetweenReservation)

	count := 0
	for _, resID := range f.resByBoat[boatID] {
		r := f.reservations[resID]
		if r.Deleted || r.Assigned() {
			continue
		}
		day := model.Midnight(r.Slot.Date)
		if day.Before(today) || day.After(horizon) {
			continue
		}
		count++
	}
	return count
}

// AssignBattery swaps the reservation's battery link. Passing batteryID zero
// clears the link. The previous holder is derived from the new battery's
// reservation history, excluding the reservation being assigned, so it names
// the member who most recently held the physical unit.
func (f *Fleet) AssignBattery(resID, batteryID int64) error {
	r, ok := f.reservations[resID]
	if !ok {
		return NotFoundError{Kind: "reservation", ID: resID}
	}
	if r.Deleted {
		return model.ErrReservationCancelled
	}
	if batteryID != 0 {
		if _, ok := f.batteries[batteryID]; !ok {
			return NotFoundError{Kind: "battery", ID: batteryID}
		}
	}

	if r.BatteryID != 0 {
		f.unlink(resID, r.BatteryID)
	}
	r.BatteryID = batteryID
	r.PreviousHolderID = 0
	if batteryID != 0 {
		if prev, ok := f.ClosestPastReservation(batteryID, r.Slot); ok {
			r.PreviousHolderID = prev.UserID
		}
		f.link(resID, batteryID)
	}
	return nil
}
