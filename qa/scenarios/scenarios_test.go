package scenarios

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestScenario(t *testing.T) {
	files, err := filepath.Glob("*.yaml")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no fixtures found")
	}
	for _, f := range files {
		sc, err := Load(f)
		if err != nil {
			t.Fatalf("load %s: %v", f, err)
		}
		t.Run(sc.Name, func(t *testing.T) {
			res := RunScenario(t, sc)
			want := map[string]int{
				"received": sc.Expected.Received,
				"resolved": sc.Expected.Resolved,
				"failed":   sc.Expected.Failed,
			}
			for outcome, n := range want {
				if got := gauge(t, res.Registry, "emsim_run_emergencies", outcome); got != float64(n) {
					t.Errorf("gauge %s = %v, want %d", outcome, got, n)
				}
			}
		})
	}
}

// gauge reads one labelled sample from reg.
func gauge(t *testing.T, reg *prometheus.Registry, name, outcome string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "outcome" && l.GetValue() == outcome {
					return m.GetGauge().GetValue()
				}
			}
		}
	}
	t.Fatalf("metric %s{outcome=%q} not found", name, outcome)
	return 0
}

func TestLoadInvalid(t *testing.T) {
	if _, err := Load("no-file.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
	tmp, err := os.CreateTemp(t.TempDir(), "bad*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmp.WriteString(":"); err != nil {
		t.Fatal(err)
	}
	if err := tmp.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(tmp.Name()); err == nil {
		t.Fatal("expected unmarshal error")
	}
}

func TestWriteInputs(t *testing.T) {
	sc := &Scenario{Map: "digraph G {}", Assets: "{}", Scenario: "{}"}
	p, err := sc.WriteInputs(t.TempDir())
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(p.Map)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "digraph G {}" {
		t.Fatalf("unexpected map %q", data)
	}
}
