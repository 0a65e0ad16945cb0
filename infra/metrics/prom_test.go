package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/helmside/boatclub/core/metrics"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	out := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, l := range m.GetLabel() {
				key += "{" + l.GetName() + "=" + l.GetValue() + "}"
			}
			switch {
			case m.GetCounter() != nil:
				out[key] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				out[key] = m.GetGauge().GetValue()
			}
		}
	}
	return out
}

func TestPromSinkRecordsSweeps(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("sink: %v", err)
	}

	now := time.Now()
	if err := sink.RecordSweep(coremetrics.SweepResult{Start: now, End: now.Add(time.Second), Boats: 2, Assigned: 1}); err != nil {
		t.Fatalf("record sweep: %v", err)
	}
	if err := sink.RecordSweep(coremetrics.SweepResult{Start: now, End: now, Err: "boom"}); err != nil {
		t.Fatalf("record failed sweep: %v", err)
	}
	if err := sink.RecordAssignment(coremetrics.AssignmentEvent{BoatID: 1}); err != nil {
		t.Fatalf("record assignment: %v", err)
	}
	if err := sink.RecordFairness([]coremetrics.FairnessSample{{BoatID: 1, StdDev: 0.5}}); err != nil {
		t.Fatalf("record fairness: %v", err)
	}
	if err := sink.RecordSchedulerEvent(coremetrics.SchedulerEvent{Success: true}); err != nil {
		t.Fatalf("record scheduler: %v", err)
	}

	got := gather(t, reg)
	checks := map[string]float64{
		"assignment_sweeps_total{success=true}":    1,
		"assignment_sweeps_total{success=false}":   1,
		"battery_assignments_total{boat_id=1}":     1,
		"battery_usage_stddev{boat_id=1}":          0.5,
		"scheduler_iterations_total{success=true}": 1,
	}
	for key, want := range checks {
		if got[key] != want {
			t.Errorf("%s = %v, want %v", key, got[key], want)
		}
	}
}

func TestPromSinkReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg); err != nil {
		t.Fatalf("first sink: %v", err)
	}
	if _, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg); err != nil {
		t.Fatalf("second sink on the same registry: %v", err)
	}
}

func TestMultiSinkForwards(t *testing.T) {
	reg := prometheus.NewRegistry()
	prom, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("sink: %v", err)
	}
	multi := NewMultiSink(prom, coremetrics.NopSink{})

	if err := multi.RecordSweep(coremetrics.SweepResult{Start: time.Now(), End: time.Now()}); err != nil {
		t.Fatalf("record sweep: %v", err)
	}
	if err := multi.RecordSchedulerEvent(coremetrics.SchedulerEvent{Success: false}); err != nil {
		t.Fatalf("record scheduler: %v", err)
	}

	got := gather(t, reg)
	if got["assignment_sweeps_total{success=true}"] != 1 {
		t.Errorf("sweeps = %v", got)
	}
	if got["scheduler_iterations_total{success=false}"] != 1 {
		t.Errorf("scheduler = %v", got)
	}
}
