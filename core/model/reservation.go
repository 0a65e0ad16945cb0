package model

// Reservation books a boat for a time slot. BatteryID is zero while no
// battery is assigned; PreviousHolderID records who last held the physical
// battery for hand-off logistics. Deleted marks a cancelled reservation and
// is one-way.
type Reservation struct {
	ID               int64
	BoatID           int64
	UserID           int64
	Slot             TimeSlot
	BatteryID        int64
	PreviousHolderID int64
	Deleted          bool
}

// Assigned reports whether the reservation currently holds a battery.
func (r Reservation) Assigned() bool { return r.BatteryID != 0 }
