package events

import "time"

// SweepEvent is published once per assignment sweep.
type SweepEvent struct {
	Boats    int
	Assigned int
	Err      error
	Time     time.Time
}

// AssignmentEvent is published for each reservation that received a battery.
type AssignmentEvent struct {
	ReservationID int64
	BoatID        int64
	BatteryID     int64
	UserID        int64
}

// HandoffEvent is published when a previous holder is surfaced to a member,
// either through assignment or through cancellation.
type HandoffEvent struct {
	ReservationID    int64
	UserID           int64
	PreviousHolderID int64
	Cancelled        bool
}
