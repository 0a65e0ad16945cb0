package fleet

import (
	"errors"
	"testing"

	"github.com/helmside/boatclub/core/model"
)

func TestAddBatteryRequiresBoatAndMentor(t *testing.T) {
	f := New()
	f.AddUser(model.User{ID: 1, Name: "Alice"})
	if err := f.AddBoat(model.Boat{ID: 1, PersonalName: "Limba"}); err != nil {
		t.Fatalf("add boat: %v", err)
	}
	var nf NotFoundError
	if err := f.AddBattery(model.Battery{ID: 1, BoatID: 9, Type: "24V", MentorID: 1}); !errors.As(err, &nf) || nf.Kind != "boat" {
		t.Fatalf("unknown boat: %v", err)
	}
	if err := f.AddBattery(model.Battery{ID: 1, BoatID: 1, Type: "24V", MentorID: 9}); !errors.As(err, &nf) || nf.Kind != "user" {
		t.Fatalf("unknown mentor: %v", err)
	}
}

func TestAddReservationRequiresReferences(t *testing.T) {
	f := newTestFleet(t)
	var nf NotFoundError
	if err := f.AddReservation(model.Reservation{ID: 9, BoatID: 9, UserID: 1, Slot: slotOn(9, 9, 9, 11)}); !errors.As(err, &nf) {
		t.Fatalf("unknown boat: %v", err)
	}
	if err := f.AddReservation(model.Reservation{ID: 9, BoatID: 1, UserID: 9, Slot: slotOn(9, 9, 9, 11)}); !errors.As(err, &nf) {
		t.Fatalf("unknown user: %v", err)
	}
	if err := f.AddReservation(model.Reservation{ID: 9, BoatID: 1, UserID: 1, Slot: slotOn(9, 9, 9, 11), BatteryID: 9}); !errors.As(err, &nf) {
		t.Fatalf("unknown battery: %v", err)
	}
}

func TestBoatIDsSorted(t *testing.T) {
	f := New()
	for _, id := range []int64{3, 1, 2} {
		if err := f.AddBoat(model.Boat{ID: id, PersonalName: "boat"}); err != nil {
			t.Fatalf("add boat: %v", err)
		}
	}
	ids := f.BoatIDs()
	if len(ids) != 3 || ids[0] != 1 || ids[1] != 2 || ids[2] != 3 {
		t.Fatalf("BoatIDs = %v, want [1 2 3]", ids)
	}
}

func TestSetBoatAvailability(t *testing.T) {
	f := newTestFleet(t)
	if err := f.SetBoatAvailability(1, false); err != nil {
		t.Fatalf("set availability: %v", err)
	}
	b, _ := f.Boat(1)
	if b.Available {
		t.Error("boat still available")
	}
	if err := f.SetBoatAvailability(9, true); err == nil {
		t.Error("unknown boat accepted")
	}
}

// Reservation returns a copy; mutating it must not leak into the arena.
func TestReservationIsolation(t *testing.T) {
	f := newTestFleet(t)
	r, _ := f.Reservation(1)
	r.BatteryID = 99
	again, _ := f.Reservation(1)
	if again.BatteryID == 99 {
		t.Error("arena state mutated through a returned copy")
	}
}
