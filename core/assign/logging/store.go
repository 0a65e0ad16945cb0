package logging

import (
	"context"
	"time"
)

// Record captures one battery assignment made by a sweep.
type Record struct {
	Timestamp     time.Time `json:"timestamp"`
	ReservationID int64     `json:"reservation_id"`
	BoatID        int64     `json:"boat_id"`
	BatteryID     int64     `json:"battery_id"`
	UserID        int64     `json:"user_id"`
	SlotDate      time.Time `json:"slot_date"`
	SlotStart     time.Time `json:"slot_start"`
}

// Query defines filters for retrieving records.
type Query struct {
	Start     time.Time
	End       time.Time
	BoatID    int64
	BatteryID int64
}

// Matches reports whether the record passes all query filters.
func (q Query) Matches(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.BoatID != 0 && r.BoatID != q.BoatID {
		return false
	}
	if q.BatteryID != 0 && r.BatteryID != q.BatteryID {
		return false
	}
	return true
}

// Store persists assignment records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}
