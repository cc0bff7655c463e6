package model

import "math"

// Connection is a route request between two stations.
type Connection struct {
	From        string  `json:"from" yaml:"from"`
	To          string  `json:"to" yaml:"to"`
	Distance    float64 `json:"distance" yaml:"distance"`     // metres
	Throughput  float64 `json:"throughput" yaml:"throughput"` // trips per hour
	VehicleType string  `json:"vehicleType" yaml:"vehicle_type"`
	TurnCount   int     `json:"turnCount,omitempty" yaml:"turn_count,omitempty"`
}

// Complete reports whether the row carries everything needed for sizing.
// Incomplete rows are drafts still being edited and are skipped without error.
func (c Connection) Complete() bool {
	return positive(c.Distance) && positive(c.Throughput) && c.VehicleType != ""
}

// Label returns the display name of the route, e.g. "Dock → Line 3".
func (c Connection) Label() string {
	return c.From + " → " + c.To
}

func positive(f float64) bool {
	return f > 0 && !math.IsInf(f, 1)
}
