package catalog

import "github.com/kilianp07/agvfleet/core/model"

var builtin = model.Catalog{
	"8TB50A": {
		Name:            "Toyota 8TB50A - Core Tow Tractor",
		Description:     "Heavy-duty tow tractor for material transport",
		MaxPayload:      4540,
		MaxSpeed:        1.79,
		Acceleration:    0.3,
		Deceleration:    0.4,
		TurnTime:        5.0,
		BatteryCapacity: 280,
		NominalAmpDraw:  35,
		ChargeRate:      40,
	},
	"8HBC40A": {
		Name:            "Toyota 8HBC40A - Center-Controlled Rider",
		Description:     "Center-controlled rider for efficient pallet handling",
		MaxPayload:      2725,
		MaxSpeed:        2.24,
		Acceleration:    0.4,
		Deceleration:    0.5,
		TurnTime:        3.8,
		BatteryCapacity: 210,
		NominalAmpDraw:  28,
		ChargeRate:      35,
	},
	"M10": {
		Name:            "M10 Tug AV",
		Description:     "Designed for pallet transportation",
		MaxPayload:      1000,
		MaxSpeed:        0.83,
		Acceleration:    0.3,
		Deceleration:    0.4,
		TurnTime:        3.5,
		BatteryCapacity: 100,
		NominalAmpDraw:  15,
		ChargeRate:      25,
	},
	"ML2": {
		Name:            "ML2 Mini Load AV",
		Description:     "Flexible platform with multiple material handling options",
		MaxPayload:      200,
		MaxSpeed:        1.8,
		Acceleration:    0.5,
		Deceleration:    0.6,
		TurnTime:        2.8,
		BatteryCapacity: 80,
		NominalAmpDraw:  12,
		ChargeRate:      20,
		Accessories: []model.Accessory{
			{Name: "Lift Table", Description: "Scissor lift mechanism for height adjustment", BaseTime: 8, AmpDraw: 25},
			{Name: "Pin Assembly", Description: "Automatic pin engagement system", BaseTime: 3, AmpDraw: 5},
			{Name: "Conveyor Topper", Description: "Variable speed conveyor system", BaseTime: 0, AmpDraw: 8},
			{Name: "Roller Top", Description: "Gravity roller conveyor system", BaseTime: 5, AmpDraw: 3},
		},
	},
	"CB18": {
		Name:                 "CB18 AGF",
		Description:          "Forklift AGV for heavy loads",
		MaxPayload:           1800,
		MaxSpeed:             3.0,
		Acceleration:         0.2,
		Deceleration:         0.3,
		TurnTime:             4.2,
		BatteryCapacity:      350,
		NominalAmpDraw:       45,
		ChargeRate:           50,
		MastLiftTimePerMeter: 4,
		MastAmpDrawPerMeter:  30,
	},
	"OPPENT": {
		Name:            "Oppent E-Base 7",
		Description:     "Versatile platform with multiple accessory options",
		MaxPayload:      1200,
		MaxSpeed:        1.4,
		Acceleration:    0.4,
		Deceleration:    0.5,
		TurnTime:        3.0,
		BatteryCapacity: 150,
		NominalAmpDraw:  20,
		ChargeRate:      30,
		Accessories: []model.Accessory{
			{Name: "Lift Table", Description: "Hydraulic lift platform", BaseTime: 12, AmpDraw: 30},
			{Name: "Pin Assembly", Description: "Pneumatic pin system", BaseTime: 4, AmpDraw: 8},
			{Name: "Conveyor Topper", Description: "Integrated conveyor system", BaseTime: 0, AmpDraw: 10},
		},
	},
}

// Default returns a fresh copy of the built-in catalog. Entries carry their
// code.
func Default() model.Catalog {
	out := builtin.Clone()
	for code, v := range out {
		v.Code = code
		out[code] = v
	}
	return out
}
