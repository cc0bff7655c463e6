package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/agvfleet/core/metrics"
	"github.com/kilianp07/agvfleet/infra/logger"
)

// InfluxSink writes sizing runs to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a NopSink
// if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
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

// RecordSizing writes one sizing_run point followed by one route_sizing point
// per sized route.
func (s *InfluxSink) RecordSizing(ev coremetrics.SizingEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	run := write.NewPointWithMeasurement("sizing_run").
		AddTag("run_id", ev.RunID).
		AddTag("source", ev.Source).
		AddTag("traffic_density", string(ev.Params.TrafficDensity)).
		AddField("total_fleet", ev.TotalFleet).
		AddField("charging_stations", ev.ChargingStations).
		AddField("utilization", round3(ev.Utilization)).
		AddField("availability_target", round3(ev.Params.AvailabilityTarget)).
		AddField("operating_hours", ev.Params.OperatingHours).
		AddField("route_errors", ev.RouteErrors).
		AddField("duration_ms", round3(float64(ev.Duration.Microseconds())/1000)).
		SetTime(ev.Time)
	if err := s.writeAPI.WritePoint(ctx, run); err != nil {
		return err
	}
	for _, r := range ev.Routes {
		p := write.NewPointWithMeasurement("route_sizing").
			AddTag("run_id", ev.RunID).
			AddTag("route", r.Route).
			AddTag("vehicle_type", r.VehicleType).
			AddField("vehicles_required", r.VehiclesRequired).
			AddField("utilization", round3(r.Utilization)).
			AddField("cycle_time_min", round3(r.CycleTime)).
			SetTime(ev.Time)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordRouteError writes an excluded route.
func (s *InfluxSink) RecordRouteError(ev coremetrics.RouteErrorEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("route_error").
		AddTag("run_id", ev.RunID).
		AddTag("vehicle_type", ev.VehicleType).
		AddField("route", ev.Route).
		AddField("reason", ev.Reason).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordWhatIf writes one scenario of a comparison.
func (s *InfluxSink) RecordWhatIf(ev coremetrics.WhatIfEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("whatif_scenario").
		AddTag("run_id", ev.RunID).
		AddTag("scenario", ev.Scenario).
		AddField("total_fleet", ev.TotalFleet).
		AddField("fleet_delta", ev.FleetDelta).
		AddField("station_delta", ev.StationDelta).
		AddField("utilization_delta", round3(ev.UtilizationDelta)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the client.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
