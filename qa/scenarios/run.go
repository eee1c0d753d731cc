package scenarios

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/emsim/core/engine"
	"github.com/kilianp07/emsim/core/events"
	"github.com/kilianp07/emsim/infra/loader"
	"github.com/kilianp07/emsim/infra/logger"
	"github.com/kilianp07/emsim/infra/metrics"
	"github.com/kilianp07/emsim/infra/trace"
)

// Result is what a replayed fixture produced.
type Result struct {
	Trace    string
	Recorder *events.Recorder
	Registry *prometheus.Registry
}

// RunScenario replays sc and reports every mismatch with its expectations.
func RunScenario(t *testing.T, sc *Scenario) *Result {
	t.Helper()
	paths, err := sc.WriteInputs(t.TempDir())
	if err != nil {
		t.Fatalf("write inputs: %v", err)
	}

	reg := prometheus.NewRegistry()
	prom, err := metrics.NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}
	collector := metrics.NewCollector(prom, sc.Name, logger.NopLogger{})

	var out bytes.Buffer
	res := &Result{Recorder: &events.Recorder{}, Registry: reg}
	sink := events.Multi{trace.NewWriter(&out), res.Recorder, events.SinkFunc(collector.Handle)}

	world, err := loader.Load(paths, sink)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	r, err := world.Registry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	sim, err := engine.New(r, sink, logger.NopLogger{})
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	stats, err := sim.Run(context.Background(), sc.MaxTicks)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	res.Trace = out.String()

	want := sc.Expected
	checks := []struct {
		name      string
		got, want int
	}{
		{"ticks", len(events.Of[events.TickStarted](res.Recorder)), want.Ticks},
		{"received", stats.Received, want.Received},
		{"resolved", stats.Resolved, want.Resolved},
		{"failed", stats.Failed, want.Failed},
		{"ongoing", stats.Ongoing, want.Ongoing},
		{"rerouted", stats.Rerouted, want.Rerouted},
	}
	for _, c := range checks {
		if c.name == "ticks" && c.want == 0 {
			continue
		}
		if c.got != c.want {
			t.Errorf("scenario %s expected %d %s, got %d", sc.Name, c.want, c.name, c.got)
		}
	}
	for _, line := range want.TraceContains {
		if !strings.Contains(res.Trace, line+"\n") {
			t.Errorf("scenario %s: trace lacks %q", sc.Name, line)
		}
	}
	for _, line := range want.TraceExcludes {
		if strings.Contains(res.Trace, line+"\n") {
			t.Errorf("scenario %s: trace has %q", sc.Name, line)
		}
	}
	return res
}
