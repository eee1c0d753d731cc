package config

import "fmt"

// SimulationConfig holds the run settings that the CLI flags may override.
type SimulationConfig struct {
	// MaxTicks bounds the run. Zero runs a single tick.
	MaxTicks int `json:"max_ticks"`
	// Output is the trace file. Empty or "-" writes to stdout.
	Output string `json:"output"`
}

func (c *SimulationConfig) SetDefaults() {
	if c.Output == "" {
		c.Output = "-"
	}
}

func (c SimulationConfig) Validate() error {
	if c.MaxTicks < 0 {
		return fmt.Errorf("simulation: max_ticks must not be negative")
	}
	return nil
}
