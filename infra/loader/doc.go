// Package loader reads the three simulation inputs, a DOT county map plus
// the JSON asset and scenario files, validates them and assembles the world
// the engine runs on. Every failure wraps ErrInvalid.
package loader
