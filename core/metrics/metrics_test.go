package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/agvfleet/core/factory"
	"github.com/kilianp07/agvfleet/core/sizing"
)

type recordSink struct {
	sizing []SizingEvent
	routes []RouteErrorEvent
	err    error
}

func (r *recordSink) RecordSizing(ev SizingEvent) error {
	r.sizing = append(r.sizing, ev)
	return r.err
}

func (r *recordSink) RecordRouteError(ev RouteErrorEvent) error {
	r.routes = append(r.routes, ev)
	return r.err
}

// sizingOnly implements no optional recorder.
type sizingOnly struct{ n int }

func (s *sizingOnly) RecordSizing(SizingEvent) error { s.n++; return nil }

func TestNewSizingEvent(t *testing.T) {
	res := sizing.Result{
		TotalFleet:         5,
		FleetByVehicleType: map[string]int{"M10": 3, "ML2": 2},
		ChargingStations:   2,
		Utilization:        71,
		RouteAnalysis: []sizing.RouteAnalysis{
			{Route: "A → B", VehicleType: "M10", VehiclesRequired: 3, Utilization: 80, CycleTime: 4.2},
			{Route: "B → C", VehicleType: "ML2", VehiclesRequired: 2, Utilization: 62, CycleTime: 1.9},
		},
		RouteErrors:        []sizing.RouteError{{Index: 2}},
		OperatingHours:     16,
		AvailabilityTarget: 95,
		TrafficDensity:     sizing.TrafficHigh,
	}
	at := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	ev := NewSizingEvent("run-1", "cli", res, 3*time.Millisecond, at)

	assert.Equal(t, "run-1", ev.RunID)
	assert.Equal(t, sizing.Params{OperatingHours: 16, AvailabilityTarget: 95, TrafficDensity: sizing.TrafficHigh}, ev.Params)
	assert.Equal(t, 1, ev.RouteErrors)
	require.Len(t, ev.Routes, 2)
	assert.Equal(t, RouteSample{Route: "B → C", VehicleType: "ML2", VehiclesRequired: 2, Utilization: 62, CycleTime: 1.9}, ev.Routes[1])

	res.FleetByVehicleType["M10"] = 99
	assert.Equal(t, 3, ev.FleetByVehicleType["M10"])
}

func TestRecordDispatchesByType(t *testing.T) {
	rs := &recordSink{}
	require.NoError(t, Record(rs, SizingEvent{RunID: "a"}))
	require.NoError(t, Record(rs, RouteErrorEvent{Route: "x"}))
	require.NoError(t, Record(rs, WhatIfEvent{Scenario: "s"}))
	assert.Len(t, rs.sizing, 1)
	assert.Len(t, rs.routes, 1)

	so := &sizingOnly{}
	require.NoError(t, Record(so, RouteErrorEvent{}))
	assert.Equal(t, 0, so.n)
}

func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &recordSink{err: errors.New("down")}
	s3 := &sizingOnly{}
	m := NewMultiSink(s1, s2, s3)

	err := m.RecordSizing(SizingEvent{})
	assert.EqualError(t, err, "down")
	assert.Len(t, s1.sizing, 1)
	assert.Len(t, s2.sizing, 1)
	assert.Equal(t, 1, s3.n)

	require.Error(t, m.RecordRouteError(RouteErrorEvent{}))
	assert.Len(t, s1.routes, 1)
	require.NoError(t, m.RecordWhatIf(WhatIfEvent{}))
}

func TestNewMetricsSink(t *testing.T) {
	s, err := NewMetricsSink(nil)
	require.NoError(t, err)
	assert.IsType(t, NopSink{}, s)

	s, err = NewMetricsSink([]factory.ModuleConfig{{Type: "nop"}, {Type: "nop"}})
	require.NoError(t, err)
	assert.IsType(t, &MultiSink{}, s)

	_, err = NewMetricsSink([]factory.ModuleConfig{{Type: "statsd"}})
	assert.Error(t, err)
}

type closingSink struct {
	NopSink
	closed bool
	err    error
}

func (c *closingSink) Close() error {
	c.closed = true
	return c.err
}

func TestMultiSinkClose(t *testing.T) {
	a := &closingSink{}
	b := &closingSink{err: errors.New("flush failed")}
	m := NewMultiSink(a, &recordSink{}, b)

	assert.EqualError(t, m.Close(), "flush failed")
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}
