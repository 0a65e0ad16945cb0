package model

import (
	"fmt"
	"strings"
)

const (
	// MinRechargeHours is the idle gap a battery needs between the end of
	// one reservation and the start of another on the same day.
	MinRechargeHours = 4

	// MaxRechargeGapHours guards the wrap-around case where a new slot
	// would start too long before an existing booking on the same day.
	MaxRechargeGapHours = 24 - MinRechargeHours
)

// Battery is one swappable power unit owned by a boat. UsageCount tracks the
// number of active reservations currently linked to it and is maintained by
// the fleet arena, never written directly.
type Battery struct {
	ID         int64
	BoatID     int64
	Type       string
	MentorID   int64
	UsageCount int
}

// Validate checks the battery label and accountable mentor.
func (b Battery) Validate() error {
	if strings.TrimSpace(b.Type) == "" {
		return fmt.Errorf("battery type must not be empty")
	}
	if b.MentorID == 0 {
		return fmt.Errorf("battery mentor is required")
	}
	return nil
}
