package sizing

import "strings"

// TrafficDensity describes ambient congestion on the shop floor.
type TrafficDensity string

const (
	TrafficLow      TrafficDensity = "low"
	TrafficModerate TrafficDensity = "moderate"
	TrafficHigh     TrafficDensity = "high"
)

// ParseTrafficDensity normalises s. Unknown values map to TrafficModerate and
// the boolean reports whether s was recognised.
func ParseTrafficDensity(s string) (TrafficDensity, bool) {
	switch TrafficDensity(strings.ToLower(strings.TrimSpace(s))) {
	case TrafficLow:
		return TrafficLow, true
	case TrafficModerate:
		return TrafficModerate, true
	case TrafficHigh:
		return TrafficHigh, true
	default:
		return TrafficModerate, false
	}
}
