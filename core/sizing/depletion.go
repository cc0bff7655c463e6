package sizing

import "math"

// DepletionCurve returns one sample per hour from 0 to hours inclusive, the
// level dropping linearly by ratePerHour percent and floored at 0.
//
// The curve is a display aid for a whole shift. It is not derived from the
// per-route battery analysis.
func DepletionCurve(hours int, ratePerHour float64) []DepletionPoint {
	if hours < 0 {
		hours = 0
	}
	out := make([]DepletionPoint, 0, hours+1)
	for h := 0; h <= hours; h++ {
		out = append(out, DepletionPoint{
			Hour:         h,
			BatteryLevel: math.Max(0, 100-float64(h)*ratePerHour),
		})
	}
	return out
}
