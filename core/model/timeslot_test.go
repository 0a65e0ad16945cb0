package model

import (
	"testing"
	"time"
)

func day(yearDay int, hour int) time.Time {
	return time.Date(2026, 6, yearDay, hour, 0, 0, 0, time.UTC)
}

func TestTimeSlotValidate(t *testing.T) {
	period := CruisePeriod{ID: 1, Start: day(1, 0), End: day(30, 0)}
	slot := TimeSlot{ID: 1, PeriodID: 1, Date: day(10, 0), Start: day(10, 9), End: day(10, 12)}
	if err := slot.Validate(period); err != nil {
		t.Fatalf("valid slot rejected: %v", err)
	}

	bad := slot
	bad.End = bad.Start
	if err := bad.Validate(period); err == nil {
		t.Error("zero-length slot accepted")
	}

	bad = slot
	bad.Start = day(11, 9)
	if err := bad.Validate(period); err == nil {
		t.Error("start on a different day than the slot date accepted")
	}

	bad = slot
	bad.Date = day(1, 0).AddDate(0, 1, 0) // outside the period
	bad.Start = bad.Date.Add(9 * time.Hour)
	bad.End = bad.Date.Add(12 * time.Hour)
	if err := bad.Validate(period); err == nil {
		t.Error("slot outside the cruise period accepted")
	}
}

func TestCruisePeriodValidate(t *testing.T) {
	if err := (CruisePeriod{ID: 1, Start: day(2, 0), End: day(1, 0)}).Validate(); err == nil {
		t.Error("inverted period accepted")
	}
	if err := (CruisePeriod{ID: 1, Start: day(1, 0), End: day(2, 0)}).Validate(); err != nil {
		t.Errorf("valid period rejected: %v", err)
	}
}

func TestSameDateAndMidnight(t *testing.T) {
	a := day(10, 23)
	b := day(10, 0)
	if !SameDate(a, b) {
		t.Error("same calendar day not recognised")
	}
	if SameDate(a, day(11, 0)) {
		t.Error("different days reported equal")
	}
	if got := Midnight(a); !got.Equal(b) {
		t.Errorf("Midnight(%v) = %v, want %v", a, got, b)
	}
}

func TestBatteryValidate(t *testing.T) {
	if err := (Battery{Type: "24V", MentorID: 1}).Validate(); err != nil {
		t.Errorf("valid battery rejected: %v", err)
	}
	if err := (Battery{Type: "  ", MentorID: 1}).Validate(); err == nil {
		t.Error("blank battery type accepted")
	}
	if err := (Battery{Type: "24V"}).Validate(); err == nil {
		t.Error("battery without mentor accepted")
	}
}

func TestBoatValidate(t *testing.T) {
	if err := (Boat{PersonalName: "Limba"}).Validate(); err != nil {
		t.Errorf("valid boat rejected: %v", err)
	}
	if err := (Boat{PersonalName: ""}).Validate(); err == nil {
		t.Error("empty boat name accepted")
	}
	long := make([]byte, 65)
	for i := range long {
		long[i] = 'a'
	}
	if err := (Boat{PersonalName: string(long)}).Validate(); err == nil {
		t.Error("65 character boat name accepted")
	}
}
