package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/agvfleet/core/sizing"
	"github.com/kilianp07/agvfleet/core/whatif"
)

func sampleResult() sizing.Result {
	return sizing.Result{
		TotalFleet:         3,
		FleetByVehicleType: map[string]int{"M10": 3},
		Utilization:        78,
		ChargingStations:   1,
		RouteAnalysis: []sizing.RouteAnalysis{
			{Route: "Dock → Line 1", VehicleType: "M10", Distance: 120, Throughput: 30, CycleTime: 6.25, VehiclesRequired: 3, Utilization: 78.125},
		},
		BatteryAnalysis: []sizing.BatteryAnalysis{
			{Route: "Dock → Line 1", VehicleType: "M10", BatteryUsed: 0.5, BatteryRemaining: 99.5, ChargeTimeNeeded: 0.02},
		},
		BatteryDepletionData: sizing.DepletionCurve(2, 8),
		OperatingHours:       2,
		AvailabilityTarget:   95,
		TrafficDensity:       sizing.TrafficModerate,
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleResult()))
	assert.Contains(t, buf.String(), "\n  \"totalFleet\": 3")

	var back sizing.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, sampleResult(), back)
}

func TestWriteRoutesCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRoutesCSV(&buf, sampleResult()))
	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, []string{"route", "vehicle_type", "distance_m", "throughput_per_hour", "cycle_time_min", "vehicles_required", "utilization_pct"}, recs[0])
	assert.Equal(t, []string{"Dock → Line 1", "M10", "120", "30", "6.25", "3", "78.125"}, recs[1])
}

func TestWriteBatteryCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBatteryCSV(&buf, sampleResult()))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "route,vehicle_type,battery_used_ah,battery_remaining_pct,charge_time_h", lines[0])
	assert.Equal(t, "Dock → Line 1,M10,0.5,99.5,0.02", lines[1])
}

func TestWriteWhatIfCSV(t *testing.T) {
	base := sampleResult()
	worse := sampleResult()
	worse.TotalFleet = 5
	worse.ChargingStations = 2
	worse.TrafficDensity = sizing.TrafficHigh
	rep := whatif.Report{
		Baseline: base,
		Outcomes: []whatif.Outcome{{Scenario: whatif.Scenario{Name: "high traffic"}, Result: worse, FleetDelta: 2, StationDelta: 1, UtilizationDelta: -4.5}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteWhatIfCSV(&buf, rep))
	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"baseline", "95", "moderate", "3", "0", "1", "0", "78", "0"}, recs[1])
	assert.Equal(t, []string{"high traffic", "95", "high", "5", "2", "2", "1", "78", "-4.5"}, recs[2])
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, sampleResult()))
	out := buf.String()
	assert.Contains(t, out, "<html")
	assert.Contains(t, out, "Fleet per route")
	assert.Contains(t, out, "Battery depletion over the shift")
	assert.Contains(t, out, "Dock → Line 1")
}
