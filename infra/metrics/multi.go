package metrics

import coremetrics "github.com/helmside/boatclub/core/metrics"

// MultiSink fans sweep events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordSweep forwards the result to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordSweep(res coremetrics.SweepResult) error {
	for _, s := range m.Sinks {
		if err := s.RecordSweep(res); err != nil {
			return err
		}
	}
	return nil
}

// RecordAssignment forwards assignment events when supported by the sink.
func (m *MultiSink) RecordAssignment(ev coremetrics.AssignmentEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.AssignmentRecorder); ok {
			if err := rec.RecordAssignment(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordFairness forwards fairness samples when supported by the sink.
func (m *MultiSink) RecordFairness(samples []coremetrics.FairnessSample) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.FairnessRecorder); ok {
			if err := rec.RecordFairness(samples); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordSchedulerEvent forwards scheduler events when supported by the sink.
func (m *MultiSink) RecordSchedulerEvent(ev coremetrics.SchedulerEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.SchedulerRecorder); ok {
			if err := rec.RecordSchedulerEvent(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordNotification forwards notification events when supported by the sink.
func (m *MultiSink) RecordNotification(ev coremetrics.NotificationEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.NotificationRecorder); ok {
			if err := rec.RecordNotification(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
