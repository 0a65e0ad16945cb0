package model

import (
	"fmt"
	"strings"
)

// MinDaysBetweenReservation is both the automatic assignment horizon and the
// minimum cancellation notice for non-admin members, in days.
const MinDaysBetweenReservation = 2

// Boat is the aggregate root for fleet concerns. Available is a manual
// fleet-management toggle independent of battery logic.
type Boat struct {
	ID           int64
	PersonalName string
	Available    bool
}

// Validate checks the boat name constraints.
func (b Boat) Validate() error {
	name := strings.TrimSpace(b.PersonalName)
	if name == "" || len(name) > 64 {
		return fmt.Errorf("boat name must be 1-64 characters")
	}
	return nil
}
