package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/helmside/boatclub/core/metrics"
)

// PromSink records sweep events in Prometheus metrics.
type PromSink struct {
	sweeps      *prometheus.CounterVec
	assignments *prometheus.CounterVec
	duration    prometheus.Histogram
	fairness    *prometheus.GaugeVec
	scheduler   *prometheus.CounterVec
}

// NewPromSink registers sweep metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	_ = cfg
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	sweeps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assignment_sweeps_total",
		Help: "Total number of assignment sweeps",
	}, []string{"success"})
	assignments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "battery_assignments_total",
		Help: "Total number of batteries assigned to reservations",
	}, []string{"boat_id"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "assignment_sweep_duration_seconds",
		Help:    "Duration of one fleet-wide assignment sweep",
		Buckets: prometheus.DefBuckets,
	})
	fairness := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "battery_usage_stddev",
		Help: "Standard deviation of battery usage counts per boat",
	}, []string{"boat_id"})
	scheduler := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_iterations_total",
		Help: "Scheduler iterations by outcome",
	}, []string{"success"})

	collectors := []prometheus.Collector{sweeps, assignments, duration, fairness, scheduler}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			collectors[i] = are.ExistingCollector
		}
	}
	return &PromSink{
		sweeps:      collectors[0].(*prometheus.CounterVec),
		assignments: collectors[1].(*prometheus.CounterVec),
		duration:    collectors[2].(prometheus.Histogram),
		fairness:    collectors[3].(*prometheus.GaugeVec),
		scheduler:   collectors[4].(*prometheus.CounterVec),
	}, nil
}

// RecordSweep counts the sweep and observes its duration.
func (s *PromSink) RecordSweep(res coremetrics.SweepResult) error {
	s.sweeps.WithLabelValues(strconv.FormatBool(res.Err == "")).Inc()
	if !res.End.Before(res.Start) {
		s.duration.Observe(res.End.Sub(res.Start).Seconds())
	}
	return nil
}

// RecordAssignment counts one battery landing on a reservation.
func (s *PromSink) RecordAssignment(ev coremetrics.AssignmentEvent) error {
	s.assignments.WithLabelValues(strconv.FormatInt(ev.BoatID, 10)).Inc()
	return nil
}

// RecordFairness sets the per-boat usage spread gauges.
func (s *PromSink) RecordFairness(samples []coremetrics.FairnessSample) error {
	for _, sample := range samples {
		s.fairness.WithLabelValues(strconv.FormatInt(sample.BoatID, 10)).Set(sample.StdDev)
	}
	return nil
}

// RecordSchedulerEvent counts scheduler iterations by outcome.
func (s *PromSink) RecordSchedulerEvent(ev coremetrics.SchedulerEvent) error {
	s.scheduler.WithLabelValues(strconv.FormatBool(ev.Success)).Inc()
	return nil
}
