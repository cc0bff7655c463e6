// Package export renders sizing results as JSON, CSV or an HTML report.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/kilianp07/agvfleet/core/sizing"
	"github.com/kilianp07/agvfleet/core/whatif"
)

// WriteJSON writes v to w as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteRoutesCSV writes one row per sized route.
func WriteRoutesCSV(w io.Writer, res sizing.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"route", "vehicle_type", "distance_m", "throughput_per_hour", "cycle_time_min", "vehicles_required", "utilization_pct"}); err != nil {
		return err
	}
	for _, r := range res.RouteAnalysis {
		rec := []string{
			r.Route,
			r.VehicleType,
			formatFloat(r.Distance),
			formatFloat(r.Throughput),
			formatFloat(r.CycleTime),
			strconv.Itoa(r.VehiclesRequired),
			formatFloat(r.Utilization),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteBatteryCSV writes one row per route battery analysis.
func WriteBatteryCSV(w io.Writer, res sizing.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"route", "vehicle_type", "battery_used_ah", "battery_remaining_pct", "charge_time_h"}); err != nil {
		return err
	}
	for _, b := range res.BatteryAnalysis {
		rec := []string{
			b.Route,
			b.VehicleType,
			formatFloat(b.BatteryUsed),
			formatFloat(b.BatteryRemaining),
			formatFloat(b.ChargeTimeNeeded),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteWhatIfCSV writes the baseline followed by one row per scenario.
func WriteWhatIfCSV(w io.Writer, rep whatif.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"scenario", "availability_target", "traffic_density", "total_fleet", "fleet_delta", "charging_stations", "station_delta", "utilization_pct", "utilization_delta"}); err != nil {
		return err
	}
	row := func(name string, res sizing.Result, fleetDelta, stationDelta int, utilDelta float64) []string {
		return []string{
			name,
			formatFloat(res.AvailabilityTarget),
			string(res.TrafficDensity),
			strconv.Itoa(res.TotalFleet),
			strconv.Itoa(fleetDelta),
			strconv.Itoa(res.ChargingStations),
			strconv.Itoa(stationDelta),
			formatFloat(res.Utilization),
			formatFloat(utilDelta),
		}
	}
	if err := cw.Write(row("baseline", rep.Baseline, 0, 0, 0)); err != nil {
		return err
	}
	for _, o := range rep.Outcomes {
		if err := cw.Write(row(o.Scenario.Name, o.Result, o.FleetDelta, o.StationDelta, o.UtilizationDelta)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
