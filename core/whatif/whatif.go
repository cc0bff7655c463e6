// Package whatif compares a baseline sizing against alternative operating
// assumptions. Every scenario is an independent sizing run; the deltas are
// computed here, never by the engine.
package whatif

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/agvfleet/core/model"
	"github.com/kilianp07/agvfleet/core/sizing"
)

// Sizer is satisfied by *sizing.Engine.
type Sizer interface {
	SizeFleet(connections []model.Connection, catalog model.Catalog, p sizing.Params) (sizing.Result, error)
}

// Scenario overrides some baseline parameters. Zero fields keep the baseline
// value.
type Scenario struct {
	Name               string                `json:"name" yaml:"name"`
	OperatingHours     int                   `json:"operatingHours,omitempty" yaml:"operating_hours,omitempty"`
	AvailabilityTarget float64               `json:"availabilityTarget,omitempty" yaml:"availability_target,omitempty"`
	TrafficDensity     sizing.TrafficDensity `json:"trafficDensity,omitempty" yaml:"traffic_density,omitempty"`
}

// Apply returns base with the scenario overrides.
func (s Scenario) Apply(base sizing.Params) sizing.Params {
	if s.OperatingHours != 0 {
		base.OperatingHours = s.OperatingHours
	}
	if s.AvailabilityTarget != 0 {
		base.AvailabilityTarget = s.AvailabilityTarget
	}
	if s.TrafficDensity != "" {
		base.TrafficDensity = s.TrafficDensity
	}
	return base
}

// DefaultScenarios are the comparisons offered for every plan: a stricter
// availability target, heavy traffic, and both at once.
func DefaultScenarios() []Scenario {
	return []Scenario{
		{Name: "high availability", AvailabilityTarget: 98},
		{Name: "high traffic", TrafficDensity: sizing.TrafficHigh},
		{Name: "worst case", AvailabilityTarget: 98, TrafficDensity: sizing.TrafficHigh},
	}
}

// Outcome is the result of one scenario and its difference to the baseline.
type Outcome struct {
	Scenario         Scenario      `json:"scenario"`
	Result           sizing.Result `json:"result"`
	FleetDelta       int           `json:"fleetDelta"`
	StationDelta     int           `json:"stationDelta"`
	UtilizationDelta float64       `json:"utilizationDelta"`
}

// Report gathers the baseline and every scenario, in input order.
type Report struct {
	Baseline sizing.Result `json:"baseline"`
	Outcomes []Outcome     `json:"outcomes"`
	// MinFleet and MaxFleet span the baseline and all scenarios.
	MinFleet int `json:"minFleet"`
	MaxFleet int `json:"maxFleet"`
}

// Run sizes the baseline and each scenario concurrently. An empty scenario
// list selects DefaultScenarios. The first failing run cancels the others.
func Run(ctx context.Context, s Sizer, connections []model.Connection, catalog model.Catalog, baseline sizing.Params, scenarios []Scenario) (Report, error) {
	if len(scenarios) == 0 {
		scenarios = DefaultScenarios()
	}
	results := make([]sizing.Result, len(scenarios)+1)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	params := append([]sizing.Params{baseline}, make([]sizing.Params, len(scenarios))...)
	for i, sc := range scenarios {
		params[i+1] = sc.Apply(baseline)
	}
	for i, p := range params {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := s.SizeFleet(connections, catalog, p)
			if err != nil {
				if i == 0 {
					return fmt.Errorf("baseline: %w", err)
				}
				return fmt.Errorf("scenario %q: %w", scenarios[i-1].Name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	base := results[0]
	rep := Report{Baseline: base, Outcomes: make([]Outcome, len(scenarios))}
	totals := []float64{float64(base.TotalFleet)}
	for i, sc := range scenarios {
		res := results[i+1]
		rep.Outcomes[i] = Outcome{
			Scenario:         sc,
			Result:           res,
			FleetDelta:       res.TotalFleet - base.TotalFleet,
			StationDelta:     res.ChargingStations - base.ChargingStations,
			UtilizationDelta: res.Utilization - base.Utilization,
		}
		totals = append(totals, float64(res.TotalFleet))
	}
	rep.MinFleet = int(floats.Min(totals))
	rep.MaxFleet = int(floats.Max(totals))
	return rep, nil
}
