package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/agvfleet/core/catalog"
	"github.com/kilianp07/agvfleet/core/model"
	"github.com/kilianp07/agvfleet/core/sizing"
	"github.com/kilianp07/agvfleet/core/whatif"
)

// Request is a sizing job: the routes to serve and the operating
// assumptions. Zero parameters take the configured defaults.
type Request struct {
	Connections        []model.Connection `json:"connections" yaml:"connections"`
	OperatingHours     int                `json:"operatingHours,omitempty" yaml:"operating_hours,omitempty"`
	AvailabilityTarget float64            `json:"availabilityTarget,omitempty" yaml:"availability_target,omitempty"`
	TrafficDensity     string             `json:"trafficDensity,omitempty" yaml:"traffic_density,omitempty"`
	// Scenarios are only used by what-if runs.
	Scenarios []whatif.Scenario `json:"scenarios,omitempty" yaml:"scenarios,omitempty"`
	// Source labels the caller in metrics, e.g. "cli" or "api".
	Source string `json:"-" yaml:"-"`
}

// Params merges the request parameters over defaults.
func (r Request) Params(defaults sizing.Params) sizing.Params {
	p := defaults
	if r.OperatingHours != 0 {
		p.OperatingHours = r.OperatingHours
	}
	if r.AvailabilityTarget != 0 {
		p.AvailabilityTarget = r.AvailabilityTarget
	}
	if r.TrafficDensity != "" {
		p.TrafficDensity = sizing.TrafficDensity(r.TrafficDensity)
	}
	return p
}

// LoadRequest reads a YAML or JSON request file.
func LoadRequest(path string) (Request, error) {
	format, err := catalog.FormatFromPath(path)
	if err != nil {
		return Request{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Request{}, err
	}
	defer func() { _ = f.Close() }()
	req, err := DecodeRequest(f, format)
	if err != nil {
		return Request{}, fmt.Errorf("%s: %w", path, err)
	}
	return req, nil
}

// DecodeRequest reads a request document from r.
func DecodeRequest(r io.Reader, format catalog.Format) (Request, error) {
	var req Request
	switch format {
	case catalog.FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&req); err != nil && err != io.EOF {
			return Request{}, fmt.Errorf("decode request: %w", err)
		}
	case catalog.FormatJSON:
		if err := json.NewDecoder(r).Decode(&req); err != nil {
			return Request{}, fmt.Errorf("decode request: %w", err)
		}
	default:
		return Request{}, fmt.Errorf("unsupported request format: %s", format)
	}
	return req, nil
}
