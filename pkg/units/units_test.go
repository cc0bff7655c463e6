package units

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplay(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"metric distance", Metric.Distance(100), "100.0"},
		{"imperial distance", Imperial.Distance(100), "328.1"},
		{"metric weight", Metric.Weight(2270), "2270"},
		{"imperial weight", Imperial.Weight(2270), "5004"},
		{"metric speed", Metric.Speed(1.79), "1.8"},
		{"imperial speed", Imperial.Speed(1.79), "4.0"},
		{"nan", Imperial.Distance(math.NaN()), "0.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestUnitNames(t *testing.T) {
	assert.Equal(t, "m", Metric.DistanceUnit())
	assert.Equal(t, "ft", Imperial.DistanceUnit())
	assert.Equal(t, "kg", Metric.WeightUnit())
	assert.Equal(t, "lbs", Imperial.WeightUnit())
	assert.Equal(t, "m/s", Metric.SpeedUnit())
	assert.Equal(t, "mph", Imperial.SpeedUnit())
}

func TestToMeters(t *testing.T) {
	assert.Equal(t, 42.0, Metric.ToMeters(42))
	assert.InDelta(t, 30.48, Imperial.ToMeters(100), 1e-9)
	assert.Equal(t, 0.0, Imperial.ToMeters(math.NaN()))
	assert.InDelta(t, 100, Imperial.FromMeters(Imperial.ToMeters(100)), 1e-4)
}
