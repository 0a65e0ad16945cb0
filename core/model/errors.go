package model

import "errors"

// Domain validation errors surfaced to booking and cancellation callers.
var (
	// ErrReservationCancelled rejects any battery mutation on a cancelled
	// reservation, and a second cancellation attempt.
	ErrReservationCancelled = errors.New("reservation is cancelled")

	// ErrSlotInPast rejects cancelling a reservation whose slot date has
	// already passed.
	ErrSlotInPast = errors.New("time slot date is in the past")

	// ErrCancelTooLate rejects a non-admin cancellation inside the notice
	// window.
	ErrCancelTooLate = errors.New("too close to the slot date to cancel")
)
