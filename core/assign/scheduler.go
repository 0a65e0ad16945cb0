package assign

import (
	"context"
	"time"

	"github.com/helmside/boatclub/core/logger"
	"github.com/helmside/boatclub/core/metrics"
)

// Scheduler drives the orchestrator on a fixed interval. A failed sweep is
// logged and retried after a shorter backoff; the loop only stops on context
// cancellation and never because of a transient failure.
type Scheduler struct {
	orch     *Orchestrator
	interval time.Duration
	backoff  time.Duration
	clock    func() time.Time
	log      logger.Logger
	sink     metrics.MetricsSink
}

// NewScheduler builds a scheduler from the sweep configuration.
func NewScheduler(orch *Orchestrator, cfg Config, sink metrics.MetricsSink, log logger.Logger) *Scheduler {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Scheduler{
		orch:     orch,
		interval: cfg.Interval(),
		backoff:  cfg.Backoff(),
		clock:    time.Now,
		log:      log,
		sink:     sink,
	}
}

// SetClock overrides the time source, for deterministic tests.
func (s *Scheduler) SetClock(clock func() time.Time) {
	if clock != nil {
		s.clock = clock
	}
}

// Run loops sweeps until ctx is cancelled and returns ctx.Err(). Both the
// inter-sweep delay and the post-failure backoff observe cancellation.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		now := s.clock()
		report, err := s.orch.RunSweep(ctx, now)
		delay := s.interval
		if err != nil {
			delay = s.backoff
			if s.log != nil {
				s.log.Errorf("assignment sweep failed, retrying in %s: %v", delay, err)
			}
		} else if s.log != nil && len(report.Changed) > 0 {
			s.log.Infof("assignment sweep: %d reservations assigned across %d boats", len(report.Changed), report.Boats)
		}
		s.recordIteration(err == nil, delay)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (s *Scheduler) recordIteration(success bool, delay time.Duration) {
	rec, ok := s.sink.(metrics.SchedulerRecorder)
	if !ok {
		return
	}
	ev := metrics.SchedulerEvent{Success: success, Backoff: delay, Time: s.clock()}
	if err := rec.RecordSchedulerEvent(ev); err != nil && s.log != nil {
		s.log.Errorf("record scheduler event: %v", err)
	}
}
