package config

import (
	"errors"
	"strings"

	"github.com/kilianp07/agvfleet/core/sizing"
)

// DefaultsConfig holds the parameters applied when a request omits them.
type DefaultsConfig struct {
	OperatingHours     int     `json:"operating_hours"`
	AvailabilityTarget float64 `json:"availability_target"`
	TrafficDensity     string  `json:"traffic_density"`
}

// SetDefaults uses a 16 hour, 95% available, moderate traffic operation.
func (c *DefaultsConfig) SetDefaults() {
	if c.OperatingHours == 0 {
		c.OperatingHours = 16
	}
	if c.AvailabilityTarget == 0 {
		c.AvailabilityTarget = 95
	}
	if c.TrafficDensity == "" {
		c.TrafficDensity = string(sizing.TrafficModerate)
	}
}

// Validate rejects negative values. Ranges are clamped by the engine.
func (c DefaultsConfig) Validate() error {
	if c.OperatingHours < 0 || c.AvailabilityTarget < 0 {
		return errors.New("operating_hours and availability_target must not be negative")
	}
	return nil
}

// Params returns the defaults as engine parameters.
func (c DefaultsConfig) Params() sizing.Params {
	return sizing.Params{
		OperatingHours:     c.OperatingHours,
		AvailabilityTarget: c.AvailabilityTarget,
		TrafficDensity:     sizing.TrafficDensity(strings.ToLower(strings.TrimSpace(c.TrafficDensity))),
	}
}
