// Package metrics defines the recorder interfaces fed by a simulation run.
// Every sink records the end of run statistics. Sinks may also implement
// TickRecorder, DispatchRecorder or IncidentRecorder; MultiSink forwards
// each record to the sinks that support it. Sinks are built from
// configuration through the factory registry.
package metrics
