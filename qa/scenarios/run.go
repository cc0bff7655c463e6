package scenarios

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/agvfleet/core/catalog"
	coremetrics "github.com/kilianp07/agvfleet/core/metrics"
	"github.com/kilianp07/agvfleet/core/sizing"
	"github.com/kilianp07/agvfleet/infra/logger"
	"github.com/kilianp07/agvfleet/infra/metrics"
)

// RunScenario sizes sc against the built-in catalog, records the run in a
// Prometheus sink and checks the expected totals.
func RunScenario(t *testing.T, sc *Scenario) {
	t.Helper()
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}

	engine := sizing.NewDefault(sizing.WithLogger(logger.NopLogger{}))
	res, err := engine.SizeFleet(sc.Connections, catalog.Default(), sc.Params())
	if err != nil {
		t.Fatalf("size fleet: %v", err)
	}
	if err := sink.RecordSizing(coremetrics.NewSizingEvent("qa", "qa", res, 0, time.Time{})); err != nil {
		t.Fatalf("record: %v", err)
	}

	exp := sc.Expected
	if res.TotalFleet != exp.TotalFleet {
		t.Errorf("total fleet = %d, want %d", res.TotalFleet, exp.TotalFleet)
	}
	if res.ChargingStations != exp.ChargingStations {
		t.Errorf("charging stations = %d, want %d", res.ChargingStations, exp.ChargingStations)
	}
	if res.Utilization != exp.Utilization {
		t.Errorf("utilization = %v, want %v", res.Utilization, exp.Utilization)
	}
	if len(res.RouteErrors) != exp.RouteErrors {
		t.Errorf("route errors = %d, want %d", len(res.RouteErrors), exp.RouteErrors)
	}
	if len(res.FleetByVehicleType) != len(exp.FleetByVehicleType) {
		t.Errorf("fleet by type = %v, want %v", res.FleetByVehicleType, exp.FleetByVehicleType)
	}
	for code, n := range exp.FleetByVehicleType {
		if res.FleetByVehicleType[code] != n {
			t.Errorf("fleet %s = %d, want %d", code, res.FleetByVehicleType[code], n)
		}
	}
	if got := gaugeValue(t, reg, "agvfleet_fleet_size"); got != float64(exp.TotalFleet) {
		t.Errorf("fleet gauge = %v, want %d", got, exp.TotalFleet)
	}
}

func gaugeValue(t *testing.T, g prometheus.Gatherer, name string) float64 {
	t.Helper()
	mfs, err := g.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() == name && len(mf.GetMetric()) > 0 {
			return mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}
