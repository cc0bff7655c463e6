package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/agvfleet/config"
	corecatalog "github.com/kilianp07/agvfleet/core/catalog"
	coremetrics "github.com/kilianp07/agvfleet/core/metrics"
	"github.com/kilianp07/agvfleet/core/model"
	"github.com/kilianp07/agvfleet/core/monitoring"
	"github.com/kilianp07/agvfleet/core/sizing"
	"github.com/kilianp07/agvfleet/infra/logger"
	"github.com/kilianp07/agvfleet/infra/mqtt"
)

type recordSink struct {
	mu          sync.Mutex
	sizing      []coremetrics.SizingEvent
	routeErrors []coremetrics.RouteErrorEvent
	whatIf      []coremetrics.WhatIfEvent
}

func (r *recordSink) RecordSizing(ev coremetrics.SizingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sizing = append(r.sizing, ev)
	return nil
}

func (r *recordSink) RecordRouteError(ev coremetrics.RouteErrorEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routeErrors = append(r.routeErrors, ev)
	return nil
}

func (r *recordSink) RecordWhatIf(ev coremetrics.WhatIfEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.whatIf = append(r.whatIf, ev)
	return nil
}

type recordMonitor struct {
	mu   sync.Mutex
	tags []map[string]string
}

func (m *recordMonitor) CaptureException(_ error, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tags = append(m.tags, tags)
}
func (m *recordMonitor) CapturePanic(any)    {}
func (m *recordMonitor) Flush(time.Duration) {}

func newTestService(t *testing.T, opts ...Option) (*Service, *recordSink, *mqtt.MockPublisher) {
	t.Helper()
	sink := &recordSink{}
	pub := mqtt.NewMockPublisher()
	base := []Option{
		WithCatalog(corecatalog.Default()),
		WithSink(sink),
		WithPublisher(pub),
		WithLogger(logger.NopLogger{}),
	}
	svc, err := New(context.Background(), config.Default(), append(base, opts...)...)
	require.NoError(t, err)
	return svc, sink, pub
}

func connections() []model.Connection {
	return []model.Connection{
		{From: "Dock", To: "Line 1", Distance: 100, Throughput: 20, VehicleType: "M10"},
		{From: "Dock", To: "Line 2", Distance: 50, Throughput: 10, VehicleType: "FORKLIFT9000"},
		{From: "Dock", To: "", Distance: 0, Throughput: 0},
	}
}

func TestSizeReportsEverywhere(t *testing.T) {
	mon := &recordMonitor{}
	prev := monitoring.Init(mon)
	defer monitoring.Init(prev)

	svc, sink, pub := newTestService(t)
	run, err := svc.Size(context.Background(), Request{Connections: connections(), Source: "test"})
	require.NoError(t, err)
	require.NoError(t, svc.Close())

	assert.NotEmpty(t, run.RunID)
	assert.Len(t, run.Result.RouteAnalysis, 1)
	require.Len(t, run.Result.RouteErrors, 1)

	msgs := pub.Published()
	require.Len(t, msgs, 1)
	assert.Equal(t, run.RunID, msgs[0].RunID)
	assert.Equal(t, run.Result.TotalFleet, msgs[0].Result.TotalFleet)
	assert.True(t, pub.Closed())

	require.Len(t, sink.sizing, 1)
	assert.Equal(t, "test", sink.sizing[0].Source)
	assert.Equal(t, run.RunID, sink.sizing[0].RunID)
	assert.Equal(t, 1, sink.sizing[0].RouteErrors)
	require.Len(t, sink.routeErrors, 1)
	assert.Equal(t, "vehicle_not_found", sink.routeErrors[0].Reason)
	assert.Equal(t, "FORKLIFT9000", sink.routeErrors[0].VehicleType)

	require.Len(t, mon.tags, 1)
	assert.Equal(t, "Dock → Line 2", mon.tags[0]["route"])
	assert.Equal(t, "FORKLIFT9000", mon.tags[0]["vehicle_type"])
	assert.Equal(t, run.RunID, mon.tags[0]["run_id"])
}

func TestSizeReportsOversizedRoute(t *testing.T) {
	svc, sink, _ := newTestService(t)
	conns := []model.Connection{{From: "Dock", To: "Line 9", Distance: 100, Throughput: 1e30, VehicleType: "8TB50A"}}
	run, err := svc.Size(context.Background(), Request{Connections: conns})
	require.NoError(t, err)
	require.NoError(t, svc.Close())

	assert.Equal(t, 0, run.Result.TotalFleet)
	assert.Equal(t, 0, run.Result.ChargingStations)
	require.Len(t, run.Result.RouteErrors, 1)
	assert.ErrorIs(t, run.Result.RouteErrors[0], sizing.ErrRequirementTooLarge)
	require.Len(t, sink.routeErrors, 1)
	assert.Equal(t, "requirement_too_large", sink.routeErrors[0].Reason)
}

func TestSizeAppliesDefaults(t *testing.T) {
	svc, _, _ := newTestService(t)
	defer func() { _ = svc.Close() }()

	run, err := svc.Size(context.Background(), Request{Connections: connections()[:1]})
	require.NoError(t, err)
	assert.Equal(t, sizing.Params{OperatingHours: 16, AvailabilityTarget: 95, TrafficDensity: sizing.TrafficModerate}, run.Result.Params())

	run, err = svc.Size(context.Background(), Request{Connections: connections()[:1], OperatingHours: 8, TrafficDensity: "HIGH"})
	require.NoError(t, err)
	assert.Equal(t, 8, run.Result.OperatingHours)
	assert.Equal(t, sizing.TrafficHigh, run.Result.TrafficDensity)
}

func TestSizePublishFailureDoesNotFailRun(t *testing.T) {
	svc, _, pub := newTestService(t)
	defer func() { _ = svc.Close() }()
	pub.Fail = true

	_, err := svc.Size(context.Background(), Request{Connections: connections()[:1]})
	assert.NoError(t, err)
}

func TestNewRejectsEmptyCatalog(t *testing.T) {
	_, err := New(context.Background(), config.Default(), WithCatalog(model.Catalog{}), WithLogger(logger.NopLogger{}))
	assert.ErrorIs(t, err, corecatalog.ErrEmpty)
}

func TestNewLoadsConfiguredCatalog(t *testing.T) {
	cfg := config.Default()
	cfg.Catalog.Type = "file"
	cfg.Catalog.Conf = map[string]any{"path": "../core/catalog/testdata/fleet.yaml"}
	svc, err := New(context.Background(), cfg, WithSink(coremetrics.NopSink{}), WithLogger(logger.NopLogger{}))
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()
	assert.ElementsMatch(t, []string{"CART", "TUG1"}, svc.Catalog().Codes())

	cfg.Catalog.Conf = map[string]any{"path": "missing.yaml"}
	_, err = New(context.Background(), cfg, WithLogger(logger.NopLogger{}))
	assert.Error(t, err)
}

func TestWhatIfPublishesScenarios(t *testing.T) {
	svc, sink, _ := newTestService(t)
	run, err := svc.WhatIf(context.Background(), Request{Connections: connections()[:1]}, nil)
	require.NoError(t, err)
	require.NoError(t, svc.Close())

	assert.NotEmpty(t, run.RunID)
	require.Len(t, run.Report.Outcomes, 3)
	require.Len(t, sink.whatIf, 3)
	for i, ev := range sink.whatIf {
		assert.Equal(t, run.RunID, ev.RunID)
		assert.Equal(t, run.Report.Outcomes[i].Scenario.Name, ev.Scenario)
		assert.Equal(t, run.Report.Outcomes[i].FleetDelta, ev.FleetDelta)
	}
}

func TestWhatIfUsesRequestScenarios(t *testing.T) {
	svc, _, _ := newTestService(t)
	defer func() { _ = svc.Close() }()
	req, err := LoadRequest("testdata/request.yaml")
	require.NoError(t, err)

	run, err := svc.WhatIf(context.Background(), req, nil)
	require.NoError(t, err)
	require.Len(t, run.Report.Outcomes, 1)
	assert.Equal(t, "low traffic", run.Report.Outcomes[0].Scenario.Name)
	assert.LessOrEqual(t, run.Report.Outcomes[0].Result.TotalFleet, run.Report.Baseline.TotalFleet)
}

func TestLoadRequest(t *testing.T) {
	req, err := LoadRequest("testdata/request.yaml")
	require.NoError(t, err)
	assert.Equal(t, 20, req.OperatingHours)
	assert.Equal(t, "high", req.TrafficDensity)
	require.Len(t, req.Connections, 2)
	assert.Equal(t, model.Connection{From: "Receiving", To: "Line 1", Distance: 120, Throughput: 12, VehicleType: "8TB50A", TurnCount: 2}, req.Connections[0])

	p := req.Params(sizing.Params{OperatingHours: 16, AvailabilityTarget: 95, TrafficDensity: sizing.TrafficModerate})
	assert.Equal(t, sizing.Params{OperatingHours: 20, AvailabilityTarget: 97, TrafficDensity: sizing.TrafficHigh}, p)
}

func TestDecodeRequestJSON(t *testing.T) {
	body := `{"connections":[{"from":"A","to":"B","distance":10,"throughput":5,"vehicleType":"M10"}],"availabilityTarget":90}`
	req, err := DecodeRequest(strings.NewReader(body), corecatalog.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, 90.0, req.AvailabilityTarget)
	assert.Equal(t, "M10", req.Connections[0].VehicleType)

	_, err = DecodeRequest(strings.NewReader("{"), corecatalog.FormatJSON)
	assert.Error(t, err)
	_, err = LoadRequest("request.toml")
	assert.Error(t, err)
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Addr = "127.0.0.1:0"
	svc, err := New(context.Background(), cfg, WithCatalog(corecatalog.Default()), WithSink(coremetrics.NopSink{}), WithLogger(logger.NopLogger{}))
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx, nil) }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop")
	}
}
