package model

import (
	"fmt"
)

// VehicleType is a catalog entry describing one AGV model.
type VehicleType struct {
	Code            string  `json:"code,omitempty" yaml:"code,omitempty"`
	Name            string  `json:"name" yaml:"name"`
	Description     string  `json:"description,omitempty" yaml:"description,omitempty"`
	MaxPayload      float64 `json:"maxPayload" yaml:"max_payload"`           // kg
	MaxSpeed        float64 `json:"maxSpeed" yaml:"max_speed"`               // m/s
	Acceleration    float64 `json:"acceleration" yaml:"acceleration"`        // m/s²
	Deceleration    float64 `json:"deceleration" yaml:"deceleration"`        // m/s², positive
	TurnTime        float64 `json:"turnTime" yaml:"turn_time"`               // seconds per turn
	BatteryCapacity float64 `json:"batteryCapacity" yaml:"battery_capacity"` // Ah
	NominalAmpDraw  float64 `json:"nominalAmpDraw" yaml:"nominal_amp_draw"`  // A while travelling
	ChargeRate      float64 `json:"chargeRate" yaml:"charge_rate"`           // A while charging

	// Mast data is only published for forklift models. It is informational.
	MastLiftTimePerMeter float64 `json:"mastLiftTimePerMeter,omitempty" yaml:"mast_lift_time_per_meter,omitempty"`
	MastAmpDrawPerMeter  float64 `json:"mastAmpDrawPerMeter,omitempty" yaml:"mast_amp_draw_per_meter,omitempty"`

	Accessories []Accessory `json:"accessories,omitempty" yaml:"accessories,omitempty"`
}

// Accessory is an attachment mounted on a vehicle type.
// A zero BaseTime marks a continuous device drawing power for the whole trip.
type Accessory struct {
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	BaseTime    float64 `json:"baseTime" yaml:"base_time"` // seconds per activation
	AmpDraw     float64 `json:"ampDraw" yaml:"amp_draw"`   // A while active
}

// Continuous reports whether the accessory runs for the whole travel duration.
func (a Accessory) Continuous() bool { return a.BaseTime == 0 }

// Validate checks the values the sizing models divide by.
// The models clamp bad values anyway, so callers usually only log the error.
func (v VehicleType) Validate() error {
	checks := []struct {
		name string
		val  float64
	}{
		{"max speed", v.MaxSpeed},
		{"acceleration", v.Acceleration},
		{"deceleration", v.Deceleration},
		{"battery capacity", v.BatteryCapacity},
		{"charge rate", v.ChargeRate},
	}
	for _, c := range checks {
		if !(c.val > 0) {
			return fmt.Errorf("%s must be positive, got %v", c.name, c.val)
		}
	}
	return nil
}

// Clone returns a deep copy so catalog entries can be handed out safely.
func (v VehicleType) Clone() VehicleType {
	if v.Accessories != nil {
		acc := make([]Accessory, len(v.Accessories))
		copy(acc, v.Accessories)
		v.Accessories = acc
	}
	return v
}
