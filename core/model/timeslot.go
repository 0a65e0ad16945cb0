package model

import (
	"fmt"
	"time"
)

// CruisePeriod bounds the part of the season during which slots may be booked.
type CruisePeriod struct {
	ID    int64
	Start time.Time
	End   time.Time
}

// Validate checks that the period covers a positive range.
func (p CruisePeriod) Validate() error {
	if !p.End.After(p.Start) {
		return fmt.Errorf("cruise period end must be after start")
	}
	return nil
}

// Contains reports whether t falls within the period bounds, inclusive.
func (p CruisePeriod) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// TimeSlot is an immutable calendar fact a reservation is tied to.
// Date is the slot's calendar day at midnight; Start and End are full
// timestamps on that day.
type TimeSlot struct {
	ID       int64
	PeriodID int64
	Date     time.Time
	Start    time.Time
	End      time.Time
}

// Validate checks the slot range and, when a period is supplied, its bounds.
func (s TimeSlot) Validate(period CruisePeriod) error {
	if !s.End.After(s.Start) {
		return fmt.Errorf("time slot end must be after start")
	}
	if !SameDate(s.Date, s.Start) {
		return fmt.Errorf("time slot start must fall on the slot date")
	}
	if period.ID != 0 {
		if !period.Contains(s.Date) {
			return fmt.Errorf("time slot date outside cruise period")
		}
	}
	return nil
}

// SameDate reports whether a and b fall on the same calendar day.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Midnight truncates t to the start of its calendar day.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
