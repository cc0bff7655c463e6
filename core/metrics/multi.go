package metrics

import "errors"

// MultiSink fans events out to several sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordSizing forwards to every sink. A failing sink does not stop the
// others; the errors are joined.
func (m *MultiSink) RecordSizing(ev SizingEvent) error {
	return m.each(ev)
}

// RecordRouteError forwards to sinks implementing RouteErrorRecorder.
func (m *MultiSink) RecordRouteError(ev RouteErrorEvent) error {
	return m.each(ev)
}

// RecordWhatIf forwards to sinks implementing WhatIfRecorder.
func (m *MultiSink) RecordWhatIf(ev WhatIfEvent) error {
	return m.each(ev)
}

func (m *MultiSink) each(ev Event) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := Record(s, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink that holds resources.
func (m *MultiSink) Close() error {
	var errs []error
	for _, s := range m.Sinks {
		switch c := s.(type) {
		case interface{ Close() error }:
			errs = append(errs, c.Close())
		case interface{ Close() }:
			c.Close()
		}
	}
	return errors.Join(errs...)
}
