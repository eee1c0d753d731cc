// Package scenarios replays YAML regression fixtures through the full
// load-simulate-trace pipeline.
package scenarios

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/emsim/infra/loader"
)

// Expected holds the outcome a fixture must reproduce.
// A zero Ticks leaves the run length unchecked.
type Expected struct {
	Ticks         int      `yaml:"ticks"`
	Received      int      `yaml:"received"`
	Resolved      int      `yaml:"resolved"`
	Failed        int      `yaml:"failed"`
	Ongoing       int      `yaml:"ongoing"`
	Rerouted      int      `yaml:"rerouted"`
	TraceContains []string `yaml:"trace_contains,omitempty"`
	TraceExcludes []string `yaml:"trace_excludes,omitempty"`
}

// Scenario embeds the three input files of a run.
type Scenario struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	MaxTicks    int      `yaml:"max_ticks"`
	Map         string   `yaml:"map"`
	Assets      string   `yaml:"assets"`
	Scenario    string   `yaml:"scenario"`
	Expected    Expected `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// WriteInputs stores the embedded inputs in dir and returns their paths.
func (s *Scenario) WriteInputs(dir string) (loader.Paths, error) {
	p := loader.Paths{
		Map:      filepath.Join(dir, "county.dot"),
		Assets:   filepath.Join(dir, "assets.json"),
		Scenario: filepath.Join(dir, "scenario.json"),
	}
	files := map[string]string{p.Map: s.Map, p.Assets: s.Assets, p.Scenario: s.Scenario}
	for path, body := range files {
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			return loader.Paths{}, err
		}
	}
	return p, nil
}
