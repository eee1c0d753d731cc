// Package trace renders kernel notifications as the line oriented run log.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	"github.com/kilianp07/emsim/core/events"
	"github.com/kilianp07/emsim/core/incident"
)

// Writer implements events.Sink. Each notification becomes one or more
// "Type: message" lines, flushed as they are written.
type Writer struct {
	mu  sync.Mutex
	w   *bufio.Writer
	err error
}

// NewWriter returns a Writer printing to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Err returns the first write error, if any.
func (t *Writer) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

func (t *Writer) Notify(n events.Notification) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, line := range Lines(n) {
		t.write(line)
	}
	if err := t.w.Flush(); err != nil && t.err == nil {
		t.err = err
	}
}

func (t *Writer) write(line string) {
	if t.err != nil {
		return
	}
	if _, err := t.w.WriteString(line + "\n"); err != nil {
		t.err = err
	}
}

// Lines formats n. Notifications without a trace form yield nothing.
func Lines(n events.Notification) []string {
	switch n := n.(type) {
	case events.InitInfo:
		if n.Valid {
			return entry("Initialization Info", "%s successfully parsed and validated", n.File)
		}
		return entry("Initialization Info", "%s invalid", n.File)
	case events.SimulationStarted:
		return []string{"Simulation starts"}
	case events.SimulationEnded:
		return []string{"Simulation End"}
	case events.TickStarted:
		return entry("Simulation Tick", "%d", n.Tick)
	case events.EmergencyAssigned:
		return entry("Emergency Assignment", "%d assigned to %d", n.Emergency, n.Station)
	case events.AssetAllocated:
		return entry("Asset Allocation", "%d allocated to %d; %d ticks to arrive.", n.Vehicle, n.Emergency, n.ETA)
	case events.RequestSent:
		return entry("Asset Request", "%d sent to %d for %d.", n.Request, n.Station, n.Emergency)
	case events.AssetReallocated:
		return entry("Asset Reallocation", "%d reallocated to %d.", n.Vehicle, n.Emergency)
	case events.RequestFailed:
		return entry("Request Failed", "%d failed.", n.Emergency)
	case events.AssetArrived:
		return entry("Asset Arrival", "%d arrived at %d.", n.Vehicle, n.Vertex)
	case events.EmergencyStatus:
		return status(n)
	case events.EventTriggered:
		return entry("Event Triggered", "%d triggered.", n.Event)
	case events.EventEnded:
		return entry("Event Ended", "%d ended.", n.Event)
	case events.AssetsRerouted:
		return entry("Assets Rerouted", "%d", n.Count)
	case events.Statistics:
		const kind = "Simulation Statistics"
		return []string{
			line(kind, "%d assets rerouted.", n.Rerouted),
			line(kind, "%d received emergencies.", n.Received),
			line(kind, "%d ongoing emergencies.", n.Ongoing),
			line(kind, "%d failed emergencies.", n.Failed),
			line(kind, "%d resolved emergencies.", n.Resolved),
		}
	}
	return nil
}

func status(n events.EmergencyStatus) []string {
	switch n.State {
	case incident.Success:
		return entry("Emergency Resolved", "%d resolved.", n.Emergency)
	case incident.Failed:
		return entry("Emergency Failed", "%d failed.", n.Emergency)
	case incident.BeingResolved:
		return entry("Emergency Handling Start", "%d handling started.", n.Emergency)
	}
	return nil
}

func entry(kind, format string, args ...any) []string {
	return []string{line(kind, format, args...)}
}

func line(kind, format string, args ...any) string {
	return kind + ": " + fmt.Sprintf(format, args...)
}
