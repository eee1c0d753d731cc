package metrics

import (
	"errors"
	"io"
)

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRunStatistics forwards the record to all sinks, returning the first error encountered.
func (m *MultiSink) RecordRunStatistics(st RunStatistics) error {
	for _, s := range m.Sinks {
		if err := s.RecordRunStatistics(st); err != nil {
			return err
		}
	}
	return nil
}

// RecordTick forwards tick points.
func (m *MultiSink) RecordTick(p TickPoint) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(TickRecorder); ok {
			if err := rec.RecordTick(p); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordDispatch forwards matcher decisions.
func (m *MultiSink) RecordDispatch(ev DispatchEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(DispatchRecorder); ok {
			if err := rec.RecordDispatch(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordIncident forwards incident transitions.
func (m *MultiSink) RecordIncident(ev IncidentEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(IncidentRecorder); ok {
			if err := rec.RecordIncident(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close closes every sink that holds resources.
func (m *MultiSink) Close() error {
	var errs []error
	for _, s := range m.Sinks {
		if c, ok := s.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}
