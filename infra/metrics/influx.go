package metrics

import (
	"context"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/helmside/boatclub/core/metrics"
	"github.com/helmside/boatclub/infra/logger"
)

// InfluxSink writes sweep events to an InfluxDB instance using the official
// client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg coremetrics.Config) *InfluxSink {
	client := influxdb2.NewClient(cfg.InfluxURL, cfg.InfluxToken)
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a NopSink
// when the health check fails, so a missing Influx never blocks sweeps.
func NewInfluxSinkWithFallback(cfg coremetrics.Config) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordSweep writes the sweep summary as one point.
func (s *InfluxSink) RecordSweep(res coremetrics.SweepResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("assignment_sweep").
		AddTag("success", strconv.FormatBool(res.Err == "")).
		AddField("boats", res.Boats).
		AddField("assigned", res.Assigned).
		AddField("duration_ms", res.End.Sub(res.Start).Milliseconds()).
		SetTime(res.Start)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordAssignment writes one assignment event.
func (s *InfluxSink) RecordAssignment(ev coremetrics.AssignmentEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("battery_assignment").
		AddTag("boat_id", strconv.FormatInt(ev.BoatID, 10)).
		AddTag("battery_id", strconv.FormatInt(ev.BatteryID, 10)).
		AddField("reservation_id", ev.ReservationID).
		AddField("user_id", ev.UserID).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordFairness writes the per-boat usage spread samples.
func (s *InfluxSink) RecordFairness(samples []coremetrics.FairnessSample) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, sample := range samples {
		p := write.NewPointWithMeasurement("battery_usage_fairness").
			AddTag("boat_id", strconv.FormatInt(sample.BoatID, 10)).
			AddField("mean", sample.Mean).
			AddField("stddev", sample.StdDev).
			SetTime(sample.Time)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }
