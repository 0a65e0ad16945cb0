package assign

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/helmside/boatclub/core/events"
	"github.com/helmside/boatclub/core/fleet"
	"github.com/helmside/boatclub/core/fleetstatus"
	"github.com/helmside/boatclub/core/logger"
	"github.com/helmside/boatclub/core/metrics"
	"github.com/helmside/boatclub/core/model"
	"github.com/helmside/boatclub/core/notify"
	"github.com/helmside/boatclub/internal/eventbus"

	"github.com/helmside/boatclub/core/assign/logging"
)

// Orchestrator runs one assignment sweep across the entire fleet.
type Orchestrator struct {
	store    FleetStore
	notifier notify.Notifier
	sink     metrics.MetricsSink
	bus      eventbus.EventBus
	log      logger.Logger

	audit  logging.Store
	status fleetstatus.Store
	clock  func() time.Time
}

// SweepReport lists what one sweep changed, in assignment order.
type SweepReport struct {
	Boats   int
	Changed []model.Reservation
}

// NewOrchestrator wires the sweep dependencies. sink and bus may be nil.
func NewOrchestrator(store FleetStore, notifier notify.Notifier, sink metrics.MetricsSink, bus eventbus.EventBus, log logger.Logger) (*Orchestrator, error) {
	if store == nil {
		return nil, fmt.Errorf("fleet store is required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Orchestrator{store: store, notifier: notifier, sink: sink, bus: bus, log: log, clock: time.Now}, nil
}

// SetClock replaces the source of sweep-duration end timestamps.
func (o *Orchestrator) SetClock(clock func() time.Time) {
	if clock != nil {
		o.clock = clock
	}
}

// SetAuditStore configures the store used to persist assignment records.
func (o *Orchestrator) SetAuditStore(store logging.Store) { o.audit = store }

// SetStatusStore configures the store used to expose fleet status snapshots.
func (o *Orchestrator) SetStatusStore(store fleetstatus.Store) { o.status = store }

// RunSweep processes every boat sequentially, persists the changed
// reservations transactionally and only then dispatches the notification
// batch. A notification failure surfaces as an error after persistence, so a
// retry re-runs an idempotent sweep instead of losing assignments.
func (o *Orchestrator) RunSweep(ctx context.Context, now time.Time) (SweepReport, error) {
	start := now
	f, err := o.store.LoadFleet(ctx)
	if err != nil {
		o.recordSweep(start, 0, 0, 0, err)
		return SweepReport{}, fmt.Errorf("load fleet: %w", err)
	}

	boats := f.BoatIDs()
	var changedIDs []int64
	for _, boatID := range boats {
		changedIDs = append(changedIDs, f.AssignPending(boatID, now)...)
	}

	changed := make([]model.Reservation, 0, len(changedIDs))
	for _, id := range changedIDs {
		if r, ok := f.Reservation(id); ok {
			changed = append(changed, r)
		}
	}
	sort.SliceStable(changed, func(i, j int) bool {
		if !changed[i].Slot.Date.Equal(changed[j].Slot.Date) {
			return changed[i].Slot.Date.Before(changed[j].Slot.Date)
		}
		return changed[i].Slot.Start.Before(changed[j].Slot.Start)
	})

	if err := o.store.SaveSweep(ctx, f, changedIDs); err != nil {
		o.recordSweep(start, len(boats), 0, 0, err)
		return SweepReport{}, fmt.Errorf("save sweep: %w", err)
	}

	unassigned := 0
	for _, boatID := range boats {
		unassigned += f.UnassignedPending(boatID, now)
	}

	o.auditAssignments(ctx, changed, now)
	o.publishEvents(f, boats, changed, now)
	o.recordSweep(start, len(boats), len(changed), unassigned, nil)
	o.recordAssignments(changed, now)
	o.recordFairness(f, boats, now)
	o.recordStatus(f, boats, changed, now)

	if len(changed) > 0 {
		msgs := make([]notify.Message, 0, len(changed))
		for _, r := range changed {
			m := notify.AssignedMessage(r, now)
			m.ID = uuid.NewString()
			msgs = append(msgs, m)
		}
		err := o.notifier.Notify(ctx, msgs)
		o.recordNotification(len(msgs), err, now)
		if err != nil {
			return SweepReport{Boats: len(boats), Changed: changed}, fmt.Errorf("notify: %w", err)
		}
	}

	return SweepReport{Boats: len(boats), Changed: changed}, nil
}

func (o *Orchestrator) auditAssignments(ctx context.Context, changed []model.Reservation, now time.Time) {
	if o.audit == nil {
		return
	}
	for _, r := range changed {
		rec := logging.Record{
			Timestamp:     now,
			ReservationID: r.ID,
			BoatID:        r.BoatID,
			BatteryID:     r.BatteryID,
			UserID:        r.UserID,
			SlotDate:      r.Slot.Date,
			SlotStart:     r.Slot.Start,
		}
		if err := o.audit.Append(ctx, rec); err != nil && o.log != nil {
			o.log.Errorf("audit append: %v", err)
		}
	}
}

func (o *Orchestrator) publishEvents(f *fleet.Fleet, boats []int64, changed []model.Reservation, now time.Time) {
	if o.bus == nil {
		return
	}
	for _, r := range changed {
		o.bus.Publish(events.AssignmentEvent{
			ReservationID: r.ID,
			BoatID:        r.BoatID,
			BatteryID:     r.BatteryID,
			UserID:        r.UserID,
		})
		if r.PreviousHolderID != 0 {
			o.bus.Publish(events.HandoffEvent{
				ReservationID:    r.ID,
				UserID:           r.UserID,
				PreviousHolderID: r.PreviousHolderID,
			})
		}
	}
	o.bus.Publish(events.SweepEvent{Boats: len(boats), Assigned: len(changed), Time: now})
}

func (o *Orchestrator) recordSweep(start time.Time, boats, assigned, unassigned int, err error) {
	res := metrics.SweepResult{Start: start, End: o.clock(), Boats: boats, Assigned: assigned, Unassigned: unassigned}
	if err != nil {
		res.Err = err.Error()
	}
	if serr := o.sink.RecordSweep(res); serr != nil && o.log != nil {
		o.log.Errorf("record sweep: %v", serr)
	}
}

func (o *Orchestrator) recordAssignments(changed []model.Reservation, now time.Time) {
	rec, ok := o.sink.(metrics.AssignmentRecorder)
	if !ok {
		return
	}
	for _, r := range changed {
		ev := metrics.AssignmentEvent{
			ReservationID: r.ID,
			BoatID:        r.BoatID,
			BatteryID:     r.BatteryID,
			UserID:        r.UserID,
			SlotDate:      r.Slot.Date,
			SlotStart:     r.Slot.Start,
			Time:          now,
		}
		if err := rec.RecordAssignment(ev); err != nil && o.log != nil {
			o.log.Errorf("record assignment: %v", err)
		}
	}
}

// recordFairness samples the spread of usage counts per boat. An even spread
// confirms the least-used-first ordering is distributing wear.
func (o *Orchestrator) recordFairness(f *fleet.Fleet, boats []int64, now time.Time) {
	rec, ok := o.sink.(metrics.FairnessRecorder)
	if !ok {
		return
	}
	var samples []metrics.FairnessSample
	for _, boatID := range boats {
		batteries := f.Batteries(boatID)
		if len(batteries) == 0 {
			continue
		}
		counts := make([]float64, len(batteries))
		for i, b := range batteries {
			counts[i] = float64(b.UsageCount)
		}
		mean, std := stat.MeanStdDev(counts, nil)
		samples = append(samples, metrics.FairnessSample{BoatID: boatID, Mean: mean, StdDev: std, Time: now})
	}
	if len(samples) == 0 {
		return
	}
	if err := rec.RecordFairness(samples); err != nil && o.log != nil {
		o.log.Errorf("record fairness: %v", err)
	}
}

func (o *Orchestrator) recordStatus(f *fleet.Fleet, boats []int64, changed []model.Reservation, now time.Time) {
	if o.status == nil {
		return
	}
	perBoat := map[int64]int{}
	for _, r := range changed {
		perBoat[r.BoatID]++
	}
	for _, boatID := range boats {
		b, ok := f.Boat(boatID)
		if !ok {
			continue
		}
		st := fleetstatus.Status{BoatID: boatID, Name: b.PersonalName, Available: b.Available}
		for _, bat := range f.Batteries(boatID) {
			st.Batteries = append(st.Batteries, fleetstatus.BatteryUsage{
				BatteryID:  bat.ID,
				Type:       bat.Type,
				UsageCount: bat.UsageCount,
			})
		}
		st.LastSweep = fleetstatus.SweepSummary{Time: now, Assigned: perBoat[boatID]}
		o.status.Set(st)
	}
}

func (o *Orchestrator) recordNotification(count int, err error, now time.Time) {
	rec, ok := o.sink.(metrics.NotificationRecorder)
	if !ok {
		return
	}
	ev := metrics.NotificationEvent{Messages: count, Failed: err != nil, Time: now}
	if rerr := rec.RecordNotification(ev); rerr != nil && o.log != nil {
		o.log.Errorf("record notification: %v", rerr)
	}
}

// Close releases resources held by the orchestrator.
func (o *Orchestrator) Close() error {
	if o.bus != nil {
		o.bus.Close()
	}
	if o.audit != nil {
		if err := o.audit.Close(); err != nil {
			return err
		}
	}
	return o.notifier.Close()
}
