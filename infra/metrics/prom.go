package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/agvfleet/core/metrics"
)

// PromSink exposes sizing runs as Prometheus metrics. Gauges hold the latest
// run; counters and the histogram accumulate.
type PromSink struct {
	runs          *prometheus.CounterVec
	duration      prometheus.Histogram
	totalFleet    prometheus.Gauge
	fleetByType   *prometheus.GaugeVec
	stations      prometheus.Gauge
	utilization   prometheus.Gauge
	routeErrors   *prometheus.CounterVec
	scenarioDelta *prometheus.GaugeVec
}

// NewPromSink registers the sizing metrics on the default registerer. The
// /metrics endpoint is served separately by StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on reg. A nil registerer defaults
// to the global one. Metrics already registered by an earlier sink are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agvfleet_sizing_runs_total",
			Help: "Total number of sizing runs",
		}, []string{"source", "traffic_density"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "agvfleet_sizing_duration_seconds",
			Help:    "Wall time of a sizing run",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}),
		totalFleet: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "agvfleet_fleet_size",
			Help: "Vehicles required by the latest sizing run",
		}),
		fleetByType: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "agvfleet_fleet_size_by_vehicle_type",
			Help: "Vehicles required per vehicle type by the latest sizing run",
		}, []string{"vehicle_type"}),
		stations: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "agvfleet_charging_stations",
			Help: "Charging stations required by the latest sizing run",
		}),
		utilization: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "agvfleet_fleet_utilization_percent",
			Help: "Average fleet utilization of the latest sizing run",
		}),
		routeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agvfleet_route_errors_total",
			Help: "Routes excluded from sizing",
		}, []string{"vehicle_type"}),
		scenarioDelta: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "agvfleet_whatif_fleet_delta",
			Help: "Fleet size difference of a what-if scenario against its baseline",
		}, []string{"scenario"}),
	}

	var err error
	if s.runs, err = register(reg, s.runs); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, s.duration); err != nil {
		return nil, err
	}
	if s.totalFleet, err = register(reg, s.totalFleet); err != nil {
		return nil, err
	}
	if s.fleetByType, err = register(reg, s.fleetByType); err != nil {
		return nil, err
	}
	if s.stations, err = register(reg, s.stations); err != nil {
		return nil, err
	}
	if s.utilization, err = register(reg, s.utilization); err != nil {
		return nil, err
	}
	if s.routeErrors, err = register(reg, s.routeErrors); err != nil {
		return nil, err
	}
	if s.scenarioDelta, err = register(reg, s.scenarioDelta); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordSizing updates the latest-run gauges and the run counters.
func (s *PromSink) RecordSizing(ev coremetrics.SizingEvent) error {
	s.runs.WithLabelValues(ev.Source, string(ev.Params.TrafficDensity)).Inc()
	s.duration.Observe(ev.Duration.Seconds())
	s.totalFleet.Set(float64(ev.TotalFleet))
	s.stations.Set(float64(ev.ChargingStations))
	s.utilization.Set(ev.Utilization)
	s.fleetByType.Reset()
	for vt, n := range ev.FleetByVehicleType {
		s.fleetByType.WithLabelValues(vt).Set(float64(n))
	}
	return nil
}

// RecordRouteError counts an excluded route.
func (s *PromSink) RecordRouteError(ev coremetrics.RouteErrorEvent) error {
	s.routeErrors.WithLabelValues(ev.VehicleType).Inc()
	return nil
}

// RecordWhatIf sets the fleet delta of the scenario.
func (s *PromSink) RecordWhatIf(ev coremetrics.WhatIfEvent) error {
	s.scenarioDelta.WithLabelValues(ev.Scenario).Set(float64(ev.FleetDelta))
	return nil
}
