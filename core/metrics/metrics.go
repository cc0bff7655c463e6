package metrics

import (
	"time"

	"github.com/kilianp07/agvfleet/core/sizing"
)

// Event is one of SizingEvent, RouteErrorEvent or WhatIfEvent.
type Event interface {
	event()
}

// RouteSample is the per-route part of a SizingEvent.
type RouteSample struct {
	Route            string
	VehicleType      string
	VehiclesRequired int
	Utilization      float64
	CycleTime        float64
}

// SizingEvent summarises a completed sizing run.
type SizingEvent struct {
	RunID              string
	Source             string
	Params             sizing.Params
	TotalFleet         int
	FleetByVehicleType map[string]int
	ChargingStations   int
	Utilization        float64
	Routes             []RouteSample
	RouteErrors        int
	Duration           time.Duration
	Time               time.Time
}

// NewSizingEvent builds the event for res.
func NewSizingEvent(runID, source string, res sizing.Result, d time.Duration, at time.Time) SizingEvent {
	routes := make([]RouteSample, len(res.RouteAnalysis))
	for i, r := range res.RouteAnalysis {
		routes[i] = RouteSample{
			Route:            r.Route,
			VehicleType:      r.VehicleType,
			VehiclesRequired: r.VehiclesRequired,
			Utilization:      r.Utilization,
			CycleTime:        r.CycleTime,
		}
	}
	fleet := make(map[string]int, len(res.FleetByVehicleType))
	for k, v := range res.FleetByVehicleType {
		fleet[k] = v
	}
	return SizingEvent{
		RunID:              runID,
		Source:             source,
		Params:             res.Params(),
		TotalFleet:         res.TotalFleet,
		FleetByVehicleType: fleet,
		ChargingStations:   res.ChargingStations,
		Utilization:        res.Utilization,
		Routes:             routes,
		RouteErrors:        len(res.RouteErrors),
		Duration:           d,
		Time:               at,
	}
}

// RouteErrorEvent records a route excluded from a run.
type RouteErrorEvent struct {
	RunID       string
	Route       string
	VehicleType string
	Reason      string
	Time        time.Time
}

// WhatIfEvent records one scenario of a what-if comparison.
type WhatIfEvent struct {
	RunID            string
	Scenario         string
	TotalFleet       int
	FleetDelta       int
	StationDelta     int
	UtilizationDelta float64
	Time             time.Time
}

func (SizingEvent) event()     {}
func (RouteErrorEvent) event() {}
func (WhatIfEvent) event()     {}

// MetricsSink records sizing runs.
type MetricsSink interface {
	RecordSizing(ev SizingEvent) error
}

// RouteErrorRecorder records excluded routes.
type RouteErrorRecorder interface {
	RecordRouteError(ev RouteErrorEvent) error
}

// WhatIfRecorder records what-if scenarios.
type WhatIfRecorder interface {
	RecordWhatIf(ev WhatIfEvent) error
}

// Record dispatches ev to the matching method of sink. Sinks that do not
// implement the optional recorder for ev ignore it.
func Record(sink MetricsSink, ev Event) error {
	switch e := ev.(type) {
	case SizingEvent:
		return sink.RecordSizing(e)
	case RouteErrorEvent:
		if r, ok := sink.(RouteErrorRecorder); ok {
			return r.RecordRouteError(e)
		}
	case WhatIfEvent:
		if r, ok := sink.(WhatIfRecorder); ok {
			return r.RecordWhatIf(e)
		}
	}
	return nil
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordSizing(SizingEvent) error         { return nil }
func (NopSink) RecordRouteError(RouteErrorEvent) error { return nil }
func (NopSink) RecordWhatIf(WhatIfEvent) error         { return nil }
