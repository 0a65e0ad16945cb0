package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/helmside/boatclub/api/assignments"
	"github.com/helmside/boatclub/api/fleetadmin"
	"github.com/helmside/boatclub/api/reservations"
	"github.com/helmside/boatclub/config"
	"github.com/helmside/boatclub/core/assign"
	"github.com/helmside/boatclub/core/assign/logging"
	"github.com/helmside/boatclub/core/booking"
	"github.com/helmside/boatclub/core/fleetstatus"
	coremetrics "github.com/helmside/boatclub/core/metrics"
	"github.com/helmside/boatclub/infra/logger"
	"github.com/helmside/boatclub/infra/metrics"
	"github.com/helmside/boatclub/infra/mqtt"
	"github.com/helmside/boatclub/infra/store"
	"github.com/helmside/boatclub/internal/eventbus"
)

// Service wires the reservation store, the assignment scheduler and the
// HTTP surface together.
type Service struct {
	Orchestrator *assign.Orchestrator
	Scheduler    *assign.Scheduler
	Booking      *booking.Service

	store       *store.Store
	bus         eventbus.EventBus
	log         logger.Logger
	apiAddr     string
	promEnabled bool
	promPort    string
	handler     http.Handler
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	st, err := store.New(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	notifier, err := mqtt.NewPahoNotifier(cfg.MQTT)
	if err != nil {
		return nil, fmt.Errorf("mqtt notifier: %w", err)
	}

	var sinks []coremetrics.MetricsSink
	promEnabled := cfg.Metrics.PrometheusEnabled
	promPort := cfg.Metrics.PrometheusPort
	if promEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sink := metrics.NewInfluxSinkWithFallback(cfg.Metrics)
		sinks = append(sinks, sink)
	}
	var sink coremetrics.MetricsSink
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	bus := eventbus.New()
	orch, err := assign.NewOrchestrator(st, notifier, sink, bus, logg)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	audit, err := newAuditStore(cfg.Audit)
	if err != nil {
		return nil, fmt.Errorf("audit store: %w", err)
	}
	if audit != nil {
		orch.SetAuditStore(audit)
	}
	status := fleetstatus.NewMemoryStore()
	orch.SetStatusStore(status)
	sched := assign.NewScheduler(orch, cfg.Assignment, sink, logg)

	book, err := booking.NewService(st, notifier, bus, logg)
	if err != nil {
		return nil, fmt.Errorf("booking service: %w", err)
	}

	mux := http.NewServeMux()
	resHandler := reservations.NewHandler(book)
	mux.Handle("/api/reservations", resHandler)
	mux.Handle("/api/reservations/", resHandler)
	adminHandler := fleetadmin.NewAdminHandler(book)
	mux.Handle("/api/batteries", adminHandler)
	mux.Handle("/api/boats/", adminHandler)
	mux.Handle("/api/fleet/status", fleetadmin.NewStatusHandler(status))
	if audit != nil {
		mux.Handle("/api/assignments/logs", assignments.NewLogHandler(audit, cfg.API.Token))
	}

	return &Service{
		Orchestrator: orch,
		Scheduler:    sched,
		Booking:      book,
		store:        st,
		bus:          bus,
		log:          logg,
		apiAddr:      cfg.API.Addr,
		promEnabled:  promEnabled,
		promPort:     promPort,
		handler:      mux,
	}, nil
}

func newAuditStore(cfg config.AuditConfig) (logging.Store, error) {
	switch cfg.Backend {
	case "":
		return nil, nil
	case "jsonl":
		return logging.NewJSONLStore(cfg.Path)
	case "rotating":
		return logging.NewRotatingJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
	case "sqlite":
		return logging.NewSQLiteStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown audit backend %s", cfg.Backend)
	}
}

// Handler exposes the HTTP API mux, mainly for tests.
func (s *Service) Handler() http.Handler { return s.handler }

// Run starts the scheduler and the HTTP listeners, blocking until the
// context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	go func() {
		if err := s.Scheduler.Run(ctx); err != nil && ctx.Err() == nil {
			s.log.Errorf("scheduler: %v", err)
		}
	}()
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srv := &http.Server{Addr: s.apiAddr, Handler: s.handler}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	s.log.Infof("api listening on %s", s.apiAddr)

	select {
	case err := <-errCh:
		return fmt.Errorf("api server: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Close releases the resources held by the service.
func (s *Service) Close() error {
	err := s.Orchestrator.Close()
	if cerr := s.store.Close(); err == nil {
		err = cerr
	}
	return err
}
