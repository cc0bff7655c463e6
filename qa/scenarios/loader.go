// Package scenarios replays recorded sizing cases against the engine and
// checks the fleet they should produce.
package scenarios

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/agvfleet/core/model"
	"github.com/kilianp07/agvfleet/core/sizing"
)

type Expected struct {
	TotalFleet         int            `yaml:"total_fleet"`
	ChargingStations   int            `yaml:"charging_stations"`
	Utilization        float64        `yaml:"utilization"`
	FleetByVehicleType map[string]int `yaml:"fleet_by_vehicle_type"`
	RouteErrors        int            `yaml:"route_errors"`
}

type Scenario struct {
	Name               string             `yaml:"name"`
	Description        string             `yaml:"description,omitempty"`
	OperatingHours     int                `yaml:"operating_hours"`
	AvailabilityTarget float64            `yaml:"availability_target"`
	TrafficDensity     string             `yaml:"traffic_density"`
	Connections        []model.Connection `yaml:"connections"`
	Expected           Expected           `yaml:"expected"`
}

// Params returns the sizing parameters of the scenario.
func (s Scenario) Params() sizing.Params {
	return sizing.Params{
		OperatingHours:     s.OperatingHours,
		AvailabilityTarget: s.AvailabilityTarget,
		TrafficDensity:     sizing.TrafficDensity(s.TrafficDensity),
	}
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("%s: scenario has no name", path)
	}
	return &sc, nil
}
