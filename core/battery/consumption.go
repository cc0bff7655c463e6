// Package battery estimates the energy a vehicle spends on one route traversal.
package battery

import (
	"math"

	"github.com/kilianp07/agvfleet/core/kinematics"
	"github.com/kilianp07/agvfleet/core/model"
)

// MinRating is the floor applied to capacity and charge rate before dividing.
const MinRating = 0.1

// Consumption is the energy account of a single traversal. Energies are in
// amp-hours, BatteryPercentage lies within [0,100] and ChargeTime is the number
// of hours needed to put back what was used.
type Consumption struct {
	TravelConsumption    float64 `json:"travelConsumption"`
	AccessoryConsumption float64 `json:"accessoryConsumption"`
	TotalConsumption     float64 `json:"totalConsumption"`
	BatteryRemaining     float64 `json:"batteryRemaining"`
	BatteryPercentage    float64 `json:"batteryPercentage"`
	ChargeTime           float64 `json:"chargeTime"`
}

// Compute returns the consumption of the traversal described by tt for vehicle
// v with the given accessories active.
//
// Continuous accessories draw for the whole travel time, cyclic ones for their
// own activation time once per traversal.
func Compute(v model.VehicleType, tt kinematics.TravelTime, accessories []model.Accessory) Consumption {
	hours := nonNegative(tt.TotalSeconds) / 3600

	travel := nonNegative(v.NominalAmpDraw) * hours

	var extra float64
	for _, acc := range accessories {
		draw := nonNegative(acc.AmpDraw)
		if acc.Continuous() {
			extra += draw * hours
			continue
		}
		extra += draw * nonNegative(acc.BaseTime) / 3600
	}

	total := travel + extra
	capacity := rating(v.BatteryCapacity)
	remaining := capacity - total

	pct := remaining / capacity * 100
	switch {
	case pct < 0:
		pct = 0
	case pct > 100:
		pct = 100
	}

	return Consumption{
		TravelConsumption:    travel,
		AccessoryConsumption: extra,
		TotalConsumption:     total,
		BatteryRemaining:     math.Max(0, remaining),
		BatteryPercentage:    pct,
		ChargeTime:           total / rating(v.ChargeRate),
	}
}

func rating(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < MinRating {
		return MinRating
	}
	return v
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
