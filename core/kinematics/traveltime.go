package kinematics

import (
	"math"

	"github.com/kilianp07/agvfleet/core/model"
)

// Fallbacks used when an input is missing (NaN or infinite).
const (
	DefaultMaxSpeed     = 0.5
	DefaultAcceleration = 0.2
	DefaultDeceleration = 0.3
	DefaultTurnTime     = 3.0
)

// MinRate is the floor applied to speed, acceleration and deceleration.
const MinRate = 0.1

// MaxSpeedTolerance is the fraction of the rated speed a profile must reach to
// count as reaching it.
const MaxSpeedTolerance = 0.99

// TravelTime is the motion profile of a single one-way traversal. The input
// fields hold the normalised values actually used.
type TravelTime struct {
	Distance     float64 `json:"distance"`
	MaxSpeed     float64 `json:"maxSpeed"`
	Acceleration float64 `json:"acceleration"`
	Deceleration float64 `json:"deceleration"`
	TurnCount    int     `json:"turnCount"`
	TurnTime     float64 `json:"turnTime"`

	AccelerationTime     float64 `json:"accelerationTime"`
	AccelerationDistance float64 `json:"accelerationDistance"`
	CruiseTime           float64 `json:"cruiseTime"`
	CruiseDistance       float64 `json:"cruiseDistance"`
	DecelerationTime     float64 `json:"decelerationTime"`
	DecelerationDistance float64 `json:"decelerationDistance"`

	StraightLineTime float64 `json:"straightLineTime"`
	TotalTurnTime    float64 `json:"totalTurnTime"`
	TotalSeconds     float64 `json:"totalTimeSeconds"`
	TotalMinutes     float64 `json:"totalMinutes"`
	AverageSpeed     float64 `json:"averageSpeed"`
	PeakSpeed        float64 `json:"actualMaxSpeedReached"`
	ReachesMaxSpeed  bool    `json:"reachesMaxSpeed"`
}

// Model holds the kinematic parameters of a vehicle.
type Model struct {
	MaxSpeed     float64
	Acceleration float64
	Deceleration float64
	TurnTime     float64
}

// ForVehicle extracts the kinematic parameters of a catalog entry.
func ForVehicle(v model.VehicleType) Model {
	return Model{
		MaxSpeed:     v.MaxSpeed,
		Acceleration: v.Acceleration,
		Deceleration: v.Deceleration,
		TurnTime:     v.TurnTime,
	}
}

// TravelTime returns the profile for a route of the given length and turns.
func (m Model) TravelTime(distance float64, turnCount int) TravelTime {
	return Compute(distance, m.MaxSpeed, m.Acceleration, m.Deceleration, turnCount, m.TurnTime)
}

// AccelerationDistance is the distance needed to reach v from rest.
func (m Model) AccelerationDistance(v float64) float64 {
	return v * v / (2 * floor(finite(m.Acceleration, DefaultAcceleration), MinRate))
}

// BrakingDistance is the distance needed to stop from v.
func (m Model) BrakingDistance(v float64) float64 {
	return v * v / (2 * floor(finite(m.Deceleration, DefaultDeceleration), MinRate))
}

// MaxSpeedDistance is the shortest route on which TravelTime reports
// ReachesMaxSpeed. Both phases must reach the tolerated speed within half of
// the route, so this can exceed AccelerationDistance+BrakingDistance at the
// rated speed.
func (m Model) MaxSpeedDistance() float64 {
	v := floor(finite(m.MaxSpeed, DefaultMaxSpeed), MinRate) * MaxSpeedTolerance
	return 2 * math.Max(m.AccelerationDistance(v), m.BrakingDistance(v))
}

// Compute builds the trapezoidal (or triangular) motion profile of a route.
//
// Each phase covers at most half of the route. With unequal rates one phase
// can reach the rated speed while the other is cut short, leaving a cruise at
// the lower of the two phase speeds.
func Compute(distance, maxSpeed, acceleration, deceleration float64, turnCount int, turnTime float64) TravelTime {
	d := floor(finite(distance, 0), 0)
	vMax := floor(finite(maxSpeed, DefaultMaxSpeed), MinRate)
	a := floor(finite(acceleration, DefaultAcceleration), MinRate)
	dec := floor(finite(deceleration, DefaultDeceleration), MinRate)
	turns := turnCount
	if turns < 0 {
		turns = 0
	}
	tTurn := floor(finite(turnTime, DefaultTurnTime), 0)

	// v² = 2as from rest.
	dAccel := math.Min(d/2, vMax*vMax/(2*a))
	dDecel := math.Min(d/2, vMax*vMax/(2*dec))

	// s = ½at² so t = √(2s/a).
	tAccel := math.Sqrt(2 * dAccel / a)
	tDecel := math.Sqrt(2 * dDecel / dec)

	vAccelEnd := math.Sqrt(2 * a * dAccel)
	vDecelStart := math.Sqrt(2 * dec * dDecel)
	peak := math.Min(math.Min(vAccelEnd, vDecelStart), vMax)

	dCruise := math.Max(0, d-dAccel-dDecel)
	tCruise := 0.0
	if dCruise > 0 && peak > 0 {
		tCruise = dCruise / peak
	}

	tStraight := tAccel + tCruise + tDecel
	tTurns := float64(turns) * tTurn
	total := tStraight + tTurns

	avg := 0.0
	if d > 0 && total > 0 {
		avg = d / total
	}

	return TravelTime{
		Distance:             d,
		MaxSpeed:             vMax,
		Acceleration:         a,
		Deceleration:         dec,
		TurnCount:            turns,
		TurnTime:             tTurn,
		AccelerationTime:     tAccel,
		AccelerationDistance: dAccel,
		CruiseTime:           tCruise,
		CruiseDistance:       dCruise,
		DecelerationTime:     tDecel,
		DecelerationDistance: dDecel,
		StraightLineTime:     tStraight,
		TotalTurnTime:        tTurns,
		TotalSeconds:         total,
		TotalMinutes:         total / 60,
		AverageSpeed:         avg,
		PeakSpeed:            peak,
		ReachesMaxSpeed:      peak >= vMax*MaxSpeedTolerance,
	}
}

func finite(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

func floor(v, lo float64) float64 {
	if v < lo {
		return lo
	}
	return v
}
