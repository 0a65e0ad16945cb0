package metrics

import "time"

// SweepResult summarises one assignment sweep across the fleet.
type SweepResult struct {
	Start      time.Time
	End        time.Time
	Boats      int
	Assigned   int
	Unassigned int
	Err        string
}

// MetricsSink records sweep results for observability purposes.
type MetricsSink interface {
	RecordSweep(res SweepResult) error
}

// AssignmentEvent captures one battery landing on a reservation.
type AssignmentEvent struct {
	ReservationID int64
	BoatID        int64
	BatteryID     int64
	UserID        int64
	SlotDate      time.Time
	SlotStart     time.Time
	Time          time.Time
}

// AssignmentRecorder records individual assignments.
type AssignmentRecorder interface {
	RecordAssignment(ev AssignmentEvent) error
}

// FairnessSample is the spread of battery usage counts on one boat after a
// sweep. A low standard deviation means the least-used-first ordering is
// keeping wear even.
type FairnessSample struct {
	BoatID int64
	Mean   float64
	StdDev float64
	Time   time.Time
}

// FairnessRecorder records usage fairness samples.
type FairnessRecorder interface {
	RecordFairness(samples []FairnessSample) error
}

// SchedulerEvent reports the outcome of one scheduler iteration.
type SchedulerEvent struct {
	Success bool
	Backoff time.Duration
	Time    time.Time
}

// SchedulerRecorder records scheduler iterations.
type SchedulerRecorder interface {
	RecordSchedulerEvent(ev SchedulerEvent) error
}

// NotificationEvent counts hand-off messages dispatched after a sweep.
type NotificationEvent struct {
	Messages int
	Failed   bool
	Time     time.Time
}

// NotificationRecorder records notification dispatch batches.
type NotificationRecorder interface {
	RecordNotification(ev NotificationEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordSweep(SweepResult) error              { return nil }
func (NopSink) RecordAssignment(AssignmentEvent) error     { return nil }
func (NopSink) RecordFairness([]FairnessSample) error      { return nil }
func (NopSink) RecordSchedulerEvent(SchedulerEvent) error  { return nil }
func (NopSink) RecordNotification(NotificationEvent) error { return nil }
