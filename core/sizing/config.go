package sizing

import (
	"errors"
	"fmt"
)

// Config holds the tunable constants of the sizing formula. DefaultConfig
// returns the reference values.
type Config struct {
	// TrafficMultipliers stretch the cycle time per traffic density.
	TrafficMultipliers map[TrafficDensity]float64 `json:"traffic_multipliers" yaml:"traffic_multipliers"`
	// FallbackTraffic is used for unset or unknown densities.
	FallbackTraffic TrafficDensity `json:"fallback_traffic" yaml:"fallback_traffic"`

	DefaultAvailability float64 `json:"default_availability" yaml:"default_availability"`
	MinAvailability     float64 `json:"min_availability" yaml:"min_availability"`
	MaxAvailability     float64 `json:"max_availability" yaml:"max_availability"`

	MinOperatingHours int `json:"min_operating_hours" yaml:"min_operating_hours"`
	MaxOperatingHours int `json:"max_operating_hours" yaml:"max_operating_hours"`

	// LegsPerCycle is 2: vehicles return empty or for reload.
	LegsPerCycle float64 `json:"legs_per_cycle" yaml:"legs_per_cycle"`
	// UtilizationCap keeps slack for maintenance and charging.
	UtilizationCap float64 `json:"utilization_cap" yaml:"utilization_cap"`
	// IdleUtilization is reported when no route could be sized.
	IdleUtilization float64 `json:"idle_utilization" yaml:"idle_utilization"`

	VehiclesPerStation int `json:"vehicles_per_station" yaml:"vehicles_per_station"`
	// DepletionPerHour drives the illustrative battery curve, in percent.
	DepletionPerHour float64 `json:"depletion_per_hour" yaml:"depletion_per_hour"`
}

// DefaultConfig returns the reference sizing constants.
func DefaultConfig() Config {
	return Config{
		TrafficMultipliers: map[TrafficDensity]float64{
			TrafficLow:      1.0,
			TrafficModerate: 1.15,
			TrafficHigh:     1.3,
		},
		FallbackTraffic:     TrafficModerate,
		DefaultAvailability: 95,
		MinAvailability:     80,
		MaxAvailability:     99,
		MinOperatingHours:   1,
		MaxOperatingHours:   24,
		LegsPerCycle:        2,
		UtilizationCap:      95,
		IdleUtilization:     85,
		VehiclesPerStation:  4,
		DepletionPerHour:    8,
	}
}

// SetDefaults fills zero fields with the reference values.
func (c *Config) SetDefaults() {
	d := DefaultConfig()
	if len(c.TrafficMultipliers) == 0 {
		c.TrafficMultipliers = d.TrafficMultipliers
	} else {
		for k, v := range d.TrafficMultipliers {
			if _, ok := c.TrafficMultipliers[k]; !ok {
				c.TrafficMultipliers[k] = v
			}
		}
	}
	if c.FallbackTraffic == "" {
		c.FallbackTraffic = d.FallbackTraffic
	}
	if c.DefaultAvailability == 0 {
		c.DefaultAvailability = d.DefaultAvailability
	}
	if c.MinAvailability == 0 {
		c.MinAvailability = d.MinAvailability
	}
	if c.MaxAvailability == 0 {
		c.MaxAvailability = d.MaxAvailability
	}
	if c.MinOperatingHours == 0 {
		c.MinOperatingHours = d.MinOperatingHours
	}
	if c.MaxOperatingHours == 0 {
		c.MaxOperatingHours = d.MaxOperatingHours
	}
	if c.LegsPerCycle == 0 {
		c.LegsPerCycle = d.LegsPerCycle
	}
	if c.UtilizationCap == 0 {
		c.UtilizationCap = d.UtilizationCap
	}
	if c.IdleUtilization == 0 {
		c.IdleUtilization = d.IdleUtilization
	}
	if c.VehiclesPerStation == 0 {
		c.VehiclesPerStation = d.VehiclesPerStation
	}
	if c.DepletionPerHour == 0 {
		c.DepletionPerHour = d.DepletionPerHour
	}
}

// Validate checks that the constants keep the formula well defined.
func (c Config) Validate() error {
	for k, v := range c.TrafficMultipliers {
		if !(v > 0) {
			return fmt.Errorf("traffic multiplier for %s must be positive", k)
		}
	}
	if _, ok := c.TrafficMultipliers[c.FallbackTraffic]; !ok {
		return fmt.Errorf("fallback traffic %q has no multiplier", c.FallbackTraffic)
	}
	if !(c.MinAvailability > 0) || c.MaxAvailability > 100 || c.MinAvailability > c.MaxAvailability {
		return errors.New("availability bounds must satisfy 0 < min <= max <= 100")
	}
	if c.DefaultAvailability < c.MinAvailability || c.DefaultAvailability > c.MaxAvailability {
		return errors.New("default availability outside bounds")
	}
	if c.MinOperatingHours < 0 || c.MinOperatingHours > c.MaxOperatingHours {
		return errors.New("operating hour bounds must satisfy 0 <= min <= max")
	}
	if !(c.LegsPerCycle > 0) {
		return errors.New("legs_per_cycle must be positive")
	}
	if c.VehiclesPerStation <= 0 {
		return errors.New("vehicles_per_station must be positive")
	}
	if c.DepletionPerHour < 0 {
		return errors.New("depletion_per_hour must not be negative")
	}
	return nil
}

// Multiplier returns the traffic multiplier for density, falling back to the
// multiplier of FallbackTraffic.
func (c Config) Multiplier(density TrafficDensity) float64 {
	if m, ok := c.TrafficMultipliers[density]; ok {
		return m
	}
	return c.TrafficMultipliers[c.FallbackTraffic]
}
