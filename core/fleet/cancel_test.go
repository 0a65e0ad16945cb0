package fleet

import (
	"errors"
	"testing"

	"github.com/helmside/boatclub/core/model"
)

func TestCancelReservationNotice(t *testing.T) {
	now := at(8, 10) // June 8th, 10:00
	cases := []struct {
		name    string
		slotDay int
		admin   bool
		wantErr error
	}{
		{"yesterday", 7, false, model.ErrSlotInPast},
		{"yesterday as admin", 7, true, model.ErrSlotInPast},
		// The slot date is midnight, so by mid-morning today it already
		// counts as past.
		{"today", 8, false, model.ErrSlotInPast},
		{"today as admin", 8, true, model.ErrSlotInPast},
		{"tomorrow", 9, false, model.ErrCancelTooLate},
		{"tomorrow as admin", 9, true, nil},
		{"in two days", 10, false, nil},
		{"in three days", 11, false, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newTestFleet(t)
			if err := f.AddReservation(model.Reservation{ID: 10, BoatID: 1, UserID: 2, Slot: slotOn(10, tc.slotDay, 9, 11)}); err != nil {
				t.Fatalf("add reservation: %v", err)
			}
			err := f.CancelReservation(10, now, tc.admin)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("cancel = %v, want %v", err, tc.wantErr)
			}
			r, _ := f.Reservation(10)
			if got, want := r.Deleted, tc.wantErr == nil; got != want {
				t.Errorf("deleted = %v, want %v", got, want)
			}
		})
	}
}

func TestCancelReservationTwice(t *testing.T) {
	f := newTestFleet(t)
	if err := f.AddReservation(model.Reservation{ID: 10, BoatID: 1, UserID: 2, Slot: slotOn(10, 12, 9, 11)}); err != nil {
		t.Fatalf("add reservation: %v", err)
	}
	if err := f.CancelReservation(10, at(8, 10), false); err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	if err := f.CancelReservation(10, at(8, 10), true); !errors.Is(err, model.ErrReservationCancelled) {
		t.Fatalf("second cancel = %v, want ErrReservationCancelled", err)
	}
}

func TestCancelReservationUnknown(t *testing.T) {
	f := newTestFleet(t)
	var nf NotFoundError
	if err := f.CancelReservation(99, at(8, 10), true); !errors.As(err, &nf) {
		t.Fatalf("cancel unknown = %v, want NotFoundError", err)
	}
}

// Cancelling an assigned reservation snapshots the battery's mentor as the
// previous holder and leaves the battery link, and therefore the usage
// counter and the recharge block, untouched.
func TestCancelReservationKeepsBatteryLink(t *testing.T) {
	f := New()
	f.AddUser(model.User{ID: 1, Name: "Alice"})
	f.AddUser(model.User{ID: 2, Name: "Bob"})
	if err := f.AddBoat(model.Boat{ID: 1, PersonalName: "Limba", Available: true}); err != nil {
		t.Fatalf("add boat: %v", err)
	}
	if err := f.AddBattery(model.Battery{ID: 1, BoatID: 1, Type: "24V", MentorID: 1, UsageCount: 3}); err != nil {
		t.Fatalf("add battery: %v", err)
	}
	if err := f.AddReservation(model.Reservation{ID: 1, BoatID: 1, UserID: 2, Slot: slotOn(1, 12, 14, 18), BatteryID: 1}); err != nil {
		t.Fatalf("add reservation: %v", err)
	}

	if err := f.CancelReservation(1, at(8, 10), true); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	r, _ := f.Reservation(1)
	if r.PreviousHolderID != 1 {
		t.Errorf("previous holder = %d, want mentor 1", r.PreviousHolderID)
	}
	b, _ := f.Battery(1)
	if b.UsageCount != 3 {
		t.Errorf("usage count = %d after cancellation, want unchanged 3", b.UsageCount)
	}
	// The cancelled booking still occupies the battery's recharge window.
	if f.BatteryAvailable(1, slotOn(2, 12, 17, 19)) {
		t.Error("battery free around a cancelled reservation's slot")
	}
}
