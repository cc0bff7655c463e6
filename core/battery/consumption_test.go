package battery

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kilianp07/agvfleet/core/kinematics"
	"github.com/kilianp07/agvfleet/core/model"
)

var ml2 = model.VehicleType{
	Name:            "ML2 Mini Load AV",
	MaxSpeed:        1.8,
	Acceleration:    0.5,
	Deceleration:    0.6,
	TurnTime:        2.8,
	BatteryCapacity: 80,
	NominalAmpDraw:  12,
	ChargeRate:      20,
	Accessories: []model.Accessory{
		{Name: "Lift Table", BaseTime: 8, AmpDraw: 25},
		{Name: "Conveyor Topper", BaseTime: 0, AmpDraw: 8},
	},
}

func TestComputeTravelOnly(t *testing.T) {
	tt := kinematics.TravelTime{TotalSeconds: 3600}
	c := Compute(ml2, tt, nil)
	assert.InDelta(t, 12, c.TravelConsumption, 1e-12)
	assert.Equal(t, 0.0, c.AccessoryConsumption)
	assert.InDelta(t, 68, c.BatteryRemaining, 1e-12)
	assert.InDelta(t, 85, c.BatteryPercentage, 1e-12)
	assert.InDelta(t, 0.6, c.ChargeTime, 1e-12)
}

func TestComputeContinuousAndCyclicAccessories(t *testing.T) {
	tt := kinematics.TravelTime{TotalSeconds: 360}
	c := Compute(ml2, tt, ml2.Accessories)
	travel := 12 * 0.1
	conveyor := 8 * 0.1
	lift := 25 * 8.0 / 3600
	assert.InDelta(t, travel, c.TravelConsumption, 1e-12)
	assert.InDelta(t, conveyor+lift, c.AccessoryConsumption, 1e-12)
	assert.InDelta(t, travel+conveyor+lift, c.TotalConsumption, 1e-12)
	assert.InDelta(t, c.TotalConsumption/20, c.ChargeTime, 1e-12)
}

func TestComputeCyclicAccessoryIndependentOfTravelTime(t *testing.T) {
	acc := []model.Accessory{{Name: "Pin Assembly", BaseTime: 3, AmpDraw: 5}}
	short := Compute(ml2, kinematics.TravelTime{TotalSeconds: 10}, acc)
	long := Compute(ml2, kinematics.TravelTime{TotalSeconds: 1000}, acc)
	assert.InDelta(t, short.AccessoryConsumption, long.AccessoryConsumption, 1e-12)
}

func TestComputeDepletedBatteryClamps(t *testing.T) {
	c := Compute(ml2, kinematics.TravelTime{TotalSeconds: 10 * 3600}, nil)
	assert.Equal(t, 0.0, c.BatteryRemaining)
	assert.Equal(t, 0.0, c.BatteryPercentage)
	assert.InDelta(t, 120, c.TotalConsumption, 1e-9)
}

func TestComputePercentageWithinBounds(t *testing.T) {
	for _, secs := range []float64{0, 1, 60, 3600, 24 * 3600, 1e7} {
		c := Compute(ml2, kinematics.TravelTime{TotalSeconds: secs}, ml2.Accessories)
		assert.GreaterOrEqual(t, c.BatteryPercentage, 0.0)
		assert.LessOrEqual(t, c.BatteryPercentage, 100.0)
	}
}

func TestComputeMalformedVehicle(t *testing.T) {
	v := model.VehicleType{NominalAmpDraw: 10}
	c := Compute(v, kinematics.TravelTime{TotalSeconds: 36}, nil)
	assert.InDelta(t, 0.1, c.TotalConsumption, 1e-12)
	assert.InDelta(t, 1, c.ChargeTime, 1e-12)
	assert.InDelta(t, 0, c.BatteryPercentage, 1e-9)
}
