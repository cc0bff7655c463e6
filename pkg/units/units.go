// Package units formats catalog and route values for metric or imperial
// display. Values are always stored in SI units.
package units

import (
	"math"
	"strconv"
)

// Conversion factors from SI.
const (
	FeetPerMeter      = 3.28084
	MetersPerFoot     = 0.3048
	PoundsPerKilo     = 2.20462
	MPHPerMeterPerSec = 2.23694
)

// System selects the display unit system.
type System int

const (
	Metric System = iota
	Imperial
)

// DistanceUnit returns "m" or "ft".
func (s System) DistanceUnit() string {
	if s == Imperial {
		return "ft"
	}
	return "m"
}

// WeightUnit returns "kg" or "lbs".
func (s System) WeightUnit() string {
	if s == Imperial {
		return "lbs"
	}
	return "kg"
}

// SpeedUnit returns "m/s" or "mph".
func (s System) SpeedUnit() string {
	if s == Imperial {
		return "mph"
	}
	return "m/s"
}

// Distance formats meters with one decimal.
func (s System) Distance(meters float64) string {
	if s == Imperial {
		meters *= FeetPerMeter
	}
	return format(meters, 1)
}

// Weight formats kilograms without decimals.
func (s System) Weight(kg float64) string {
	if s == Imperial {
		kg *= PoundsPerKilo
	}
	return format(kg, 0)
}

// Speed formats m/s with one decimal.
func (s System) Speed(ms float64) string {
	if s == Imperial {
		ms *= MPHPerMeterPerSec
	}
	return format(ms, 1)
}

// ToMeters converts a distance entered in s to meters. NaN becomes 0.
func (s System) ToMeters(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if s == Imperial {
		return v * MetersPerFoot
	}
	return v
}

// FromMeters converts meters to the distance unit of s.
func (s System) FromMeters(m float64) float64 {
	if math.IsNaN(m) {
		return 0
	}
	if s == Imperial {
		return m * FeetPerMeter
	}
	return m
}

func format(v float64, prec int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}
