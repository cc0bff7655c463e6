package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/agvfleet/core/sizing"
)

// WriteHTML renders a standalone report page: vehicles and utilization per
// route, and the shift battery depletion curve.
func WriteHTML(w io.Writer, res sizing.Result) error {
	page := components.NewPage()
	page.AddCharts(fleetChart(res), depletionChart(res))
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

func fleetChart(res sizing.Result) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Fleet per route",
			Subtitle: fmt.Sprintf("%d AGVs, %d charging stations, %s%% utilization",
				res.TotalFleet, res.ChargingStations, strconv.FormatFloat(res.Utilization, 'f', -1, 64)),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Route"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Vehicles"}),
	)

	routes := make([]string, 0, len(res.RouteAnalysis))
	vehicles := make([]opts.BarData, 0, len(res.RouteAnalysis))
	util := make([]opts.BarData, 0, len(res.RouteAnalysis))
	for _, r := range res.RouteAnalysis {
		routes = append(routes, r.Route)
		vehicles = append(vehicles, opts.BarData{Value: r.VehiclesRequired})
		util = append(util, opts.BarData{Value: round1(r.Utilization)})
	}
	bar.SetXAxis(routes).
		AddSeries("Vehicles required", vehicles).
		AddSeries("Utilization %", util)
	return bar
}

func depletionChart(res sizing.Result) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Battery depletion over the shift"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Hour"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Battery %"}),
	)

	hours := make([]string, 0, len(res.BatteryDepletionData))
	levels := make([]opts.LineData, 0, len(res.BatteryDepletionData))
	for _, p := range res.BatteryDepletionData {
		hours = append(hours, strconv.Itoa(p.Hour))
		levels = append(levels, opts.LineData{Value: p.BatteryLevel})
	}
	line.SetXAxis(hours).AddSeries("Battery level", levels)
	return line
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
