package fleet

import (
	"errors"
	"testing"

	"github.com/helmside/boatclub/core/model"
)

// newLimba seeds the boat Limba with three batteries of uneven wear.
func newLimba(t *testing.T) *Fleet {
	t.Helper()
	f := New()
	f.AddUser(model.User{ID: 1, Name: "Alice"})
	f.AddUser(model.User{ID: 2, Name: "Bob"})
	f.AddUser(model.User{ID: 3, Name: "Carol"})
	if err := f.AddBoat(model.Boat{ID: 1, PersonalName: "Limba", Available: true}); err != nil {
		t.Fatalf("add boat: %v", err)
	}
	for _, b := range []model.Battery{
		{ID: 1, BoatID: 1, Type: "A", MentorID: 1, UsageCount: 0},
		{ID: 2, BoatID: 1, Type: "B", MentorID: 1, UsageCount: 1},
		{ID: 3, BoatID: 1, Type: "C", MentorID: 1, UsageCount: 2},
	} {
		if err := f.AddBattery(b); err != nil {
			t.Fatalf("add battery: %v", err)
		}
	}
	return f
}

func TestFindAvailableBatteryLeastUsedFirst(t *testing.T) {
	f := newLimba(t)
	id, ok := f.FindAvailableBattery(1, slotOn(10, 9, 9, 11), at(8, 8))
	if !ok || id != 1 {
		t.Fatalf("picked battery %d ok=%v, want least-used battery 1", id, ok)
	}
}

func TestFindAvailableBatteryTypeTiebreak(t *testing.T) {
	f := New()
	f.AddUser(model.User{ID: 1, Name: "Alice"})
	if err := f.AddBoat(model.Boat{ID: 1, PersonalName: "Limba", Available: true}); err != nil {
		t.Fatalf("add boat: %v", err)
	}
	// Registered out of label order, identical wear.
	for _, b := range []model.Battery{
		{ID: 1, BoatID: 1, Type: "Z", MentorID: 1},
		{ID: 2, BoatID: 1, Type: "A", MentorID: 1},
	} {
		if err := f.AddBattery(b); err != nil {
			t.Fatalf("add battery: %v", err)
		}
	}
	id, ok := f.FindAvailableBattery(1, slotOn(10, 9, 9, 11), at(8, 8))
	if !ok || id != 2 {
		t.Fatalf("picked battery %d ok=%v, want type A battery 2", id, ok)
	}
}

func TestFindAvailableBatterySkipsBlocked(t *testing.T) {
	f := newLimba(t)
	// Battery 1 already serves a later slot the same day; a morning slot
	// leaves an 11 hour gap, so it stays eligible. A midday slot three
	// hours before that booking's end does not.
	if err := f.AddReservation(model.Reservation{ID: 1, BoatID: 1, UserID: 1, Slot: slotOn(1, 9, 18, 20), BatteryID: 1}); err != nil {
		t.Fatalf("add reservation: %v", err)
	}
	if id, ok := f.FindAvailableBattery(1, slotOn(10, 9, 9, 11), at(8, 8)); !ok || id != 1 {
		t.Fatalf("morning slot picked battery %d ok=%v, want 1", id, ok)
	}
	if id, ok := f.FindAvailableBattery(1, slotOn(10, 9, 17, 19), at(8, 8)); !ok || id != 2 {
		t.Fatalf("late slot picked battery %d ok=%v, want next-least-used 2", id, ok)
	}
}

func TestAssignPendingOrderAndHorizon(t *testing.T) {
	f := newLimba(t)
	reservations := []model.Reservation{
		{ID: 1, BoatID: 1, UserID: 1, Slot: slotOn(1, 7, 9, 11)},  // past
		{ID: 2, BoatID: 1, UserID: 2, Slot: slotOn(2, 9, 14, 16)}, // in horizon, later start
		{ID: 3, BoatID: 1, UserID: 3, Slot: slotOn(3, 8, 9, 11)},  // in horizon, earliest date
		{ID: 4, BoatID: 1, UserID: 1, Slot: slotOn(4, 11, 9, 11)}, // beyond horizon
	}
	for _, r := range reservations {
		if err := f.AddReservation(r); err != nil {
			t.Fatalf("add reservation: %v", err)
		}
	}

	changed := f.AssignPending(1, at(8, 8))
	if len(changed) != 2 || changed[0] != 3 || changed[1] != 2 {
		t.Fatalf("changed = %v, want [3 2]", changed)
	}
	for _, id := range []int64{1, 4} {
		r, _ := f.Reservation(id)
		if r.Assigned() {
			t.Errorf("reservation %d outside the horizon was assigned battery %d", id, r.BatteryID)
		}
	}

	// A second pass over unchanged state is a no-op.
	if again := f.AssignPending(1, at(8, 8)); len(again) != 0 {
		t.Fatalf("second pass changed %v, want nothing", again)
	}
}

func TestUnassignedPendingCountsWindowOnly(t *testing.T) {
	f := New()
	f.AddUser(model.User{ID: 1, Name: "Alice"})
	if err := f.AddBoat(model.Boat{ID: 1, PersonalName: "Limba", Available: true}); err != nil {
		t.Fatalf("add boat: %v", err)
	}
	if err := f.AddBattery(model.Battery{ID: 1, BoatID: 1, Type: "A", MentorID: 1}); err != nil {
		t.Fatalf("add battery: %v", err)
	}
	reservations := []model.Reservation{
		{ID: 1, BoatID: 1, UserID: 1, Slot: slotOn(1, 9, 9, 11)},
		{ID: 2, BoatID: 1, UserID: 1, Slot: slotOn(2, 9, 13, 15)}, // too close after slot 1
		{ID: 3, BoatID: 1, UserID: 1, Slot: slotOn(3, 7, 9, 11)},  // past
		{ID: 4, BoatID: 1, UserID: 1, Slot: slotOn(4, 11, 9, 11)}, // beyond horizon
	}
	for _, r := range reservations {
		if err := f.AddReservation(r); err != nil {
			t.Fatalf("add reservation: %v", err)
		}
	}

	if got := f.UnassignedPending(1, at(8, 8)); got != 2 {
		t.Fatalf("before pass = %d, want the two in-window bookings", got)
	}
	if changed := f.AssignPending(1, at(8, 8)); len(changed) != 1 || changed[0] != 1 {
		t.Fatalf("changed = %v, want [1]", changed)
	}
	if got := f.UnassignedPending(1, at(8, 8)); got != 1 {
		t.Fatalf("after pass = %d, want the one booking no battery could serve", got)
	}
}

func TestAssignPendingLeastUsedDistribution(t *testing.T) {
	f := newLimba(t)
	// Three bookings on the same day; each successive slot starts too soon
	// after its predecessor ends, so every booking needs a fresh battery.
	for _, r := range []model.Reservation{
		{ID: 1, BoatID: 1, UserID: 1, Slot: slotOn(1, 9, 8, 10)},
		{ID: 2, BoatID: 1, UserID: 2, Slot: slotOn(2, 9, 14, 16)},
		{ID: 3, BoatID: 1, UserID: 3, Slot: slotOn(3, 9, 18, 20)},
	} {
		if err := f.AddReservation(r); err != nil {
			t.Fatalf("add reservation: %v", err)
		}
	}

	changed := f.AssignPending(1, at(8, 8))
	if len(changed) != 3 {
		t.Fatalf("changed = %v, want all three reservations", changed)
	}
	wantBattery := map[int64]int64{1: 1, 2: 2, 3: 3}
	for resID, batID := range wantBattery {
		r, _ := f.Reservation(resID)
		if r.BatteryID != batID {
			t.Errorf("reservation %d got battery %d, want %d", resID, r.BatteryID, batID)
		}
	}
	wantUsage := map[int64]int{1: 1, 2: 2, 3: 3}
	for batID, usage := range wantUsage {
		b, _ := f.Battery(batID)
		if b.UsageCount != usage {
			t.Errorf("battery %d usage = %d, want %d", batID, b.UsageCount, usage)
		}
	}
}

func TestAssignBatteryPreviousHolder(t *testing.T) {
	f := newLimba(t)
	// Bob held battery 2 two days earlier.
	if err := f.AddReservation(model.Reservation{ID: 1, BoatID: 1, UserID: 2, Slot: slotOn(1, 8, 9, 11), BatteryID: 2}); err != nil {
		t.Fatalf("add reservation: %v", err)
	}
	if err := f.AddReservation(model.Reservation{ID: 2, BoatID: 1, UserID: 3, Slot: slotOn(2, 10, 9, 11)}); err != nil {
		t.Fatalf("add reservation: %v", err)
	}

	if err := f.AssignBattery(2, 2); err != nil {
		t.Fatalf("assign: %v", err)
	}
	r, _ := f.Reservation(2)
	if r.PreviousHolderID != 2 {
		t.Errorf("previous holder = %d, want Bob (2)", r.PreviousHolderID)
	}

	// With no history the previous holder stays unset.
	if err := f.AddReservation(model.Reservation{ID: 3, BoatID: 1, UserID: 1, Slot: slotOn(3, 10, 14, 16)}); err != nil {
		t.Fatalf("add reservation: %v", err)
	}
	if err := f.AssignBattery(3, 3); err != nil {
		t.Fatalf("assign: %v", err)
	}
	r, _ = f.Reservation(3)
	if r.PreviousHolderID != 0 {
		t.Errorf("previous holder = %d, want none", r.PreviousHolderID)
	}
}

func TestAssignBatteryReassignment(t *testing.T) {
	f := newLimba(t)
	if err := f.AddReservation(model.Reservation{ID: 1, BoatID: 1, UserID: 1, Slot: slotOn(1, 9, 9, 11)}); err != nil {
		t.Fatalf("add reservation: %v", err)
	}
	if err := f.AssignBattery(1, 1); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := f.AssignBattery(1, 2); err != nil {
		t.Fatalf("reassign: %v", err)
	}

	b1, _ := f.Battery(1)
	b2, _ := f.Battery(2)
	if b1.UsageCount != 0 {
		t.Errorf("battery 1 usage = %d after hand-back, want 0", b1.UsageCount)
	}
	if b2.UsageCount != 2 {
		t.Errorf("battery 2 usage = %d, want 2", b2.UsageCount)
	}
	// Battery 1 no longer blocks its old slot.
	if !f.BatteryAvailable(1, slotOn(2, 9, 7, 9)) {
		t.Error("released battery still blocked by the old reservation")
	}

	// Clearing the link with a zero battery id.
	if err := f.AssignBattery(1, 0); err != nil {
		t.Fatalf("clear: %v", err)
	}
	r, _ := f.Reservation(1)
	if r.Assigned() {
		t.Errorf("reservation still assigned battery %d after clearing", r.BatteryID)
	}
}

func TestAssignBatteryRejectsCancelled(t *testing.T) {
	f := newLimba(t)
	if err := f.AddReservation(model.Reservation{ID: 1, BoatID: 1, UserID: 1, Slot: slotOn(1, 10, 9, 11)}); err != nil {
		t.Fatalf("add reservation: %v", err)
	}
	if err := f.CancelReservation(1, at(8, 8), false); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := f.AssignBattery(1, 1); !errors.Is(err, model.ErrReservationCancelled) {
		t.Fatalf("assign on cancelled reservation: %v, want ErrReservationCancelled", err)
	}
}

func TestAssignBatteryUnknownIDs(t *testing.T) {
	f := newLimba(t)
	var nf NotFoundError
	if err := f.AssignBattery(99, 1); !errors.As(err, &nf) || nf.Kind != "reservation" {
		t.Fatalf("unknown reservation: %v", err)
	}
	if err := f.AddReservation(model.Reservation{ID: 1, BoatID: 1, UserID: 1, Slot: slotOn(1, 9, 9, 11)}); err != nil {
		t.Fatalf("add reservation: %v", err)
	}
	if err := f.AssignBattery(1, 99); !errors.As(err, &nf) || nf.Kind != "battery" {
		t.Fatalf("unknown battery: %v", err)
	}
}
