// Package cache provides a trace-driven timing model of a set-associative
// cache hierarchy.
package cache

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every error returned from Config.Validate.
var ErrInvalidConfig = errors.New("invalid cache config")

// DefaultMemoryLatency is the latency in cycles of the default backing store.
const DefaultMemoryLatency uint64 = 100

// Config holds the parameters of a single cache level. A Config is fixed once
// the level is built.
type Config struct {
	// Name labels the level in reports.
	Name string `json:"name" yaml:"name"`
	// WriteThrough propagates write hits to the lower level immediately.
	// When false, write hits mark the line dirty and are written back on
	// eviction.
	WriteThrough bool `json:"write_through" yaml:"write_through"`
	// WriteAllocate installs a line on a write miss. When false, write
	// misses bypass the level.
	WriteAllocate bool `json:"write_allocate" yaml:"write_allocate"`
	// Capacity in bytes
	Capacity uint64 `json:"capacity" yaml:"capacity"`
	// Associativity (number of ways)
	Associativity uint64 `json:"associativity" yaml:"associativity"`
	// LineSize in bytes
	LineSize uint64 `json:"line_size" yaml:"line_size"`
	// Latency in cycles, charged on every access to this level
	Latency uint64 `json:"latency" yaml:"latency"`
}

// DefaultL1Config returns the default first-level cache: 32KB, 8-way, 64B
// lines, 1 cycle.
func DefaultL1Config() Config {
	return Config{
		Name:          "L1",
		WriteThrough:  false,
		WriteAllocate: true,
		Capacity:      32 * 1024, // 32KB
		Associativity: 8,         // 8-way
		LineSize:      64,        // 64B cache line
		Latency:       1,         // 1 cycle
	}
}

// DefaultL2Config returns the default second-level cache: 256KB, 8-way, 64B
// lines, 8 cycles.
func DefaultL2Config() Config {
	return Config{
		Name:          "L2",
		WriteThrough:  false,
		WriteAllocate: true,
		Capacity:      256 * 1024, // 256KB
		Associativity: 8,          // 8-way
		LineSize:      64,         // 64B cache line
		Latency:       8,          // 8 cycles
	}
}

// DefaultLLCConfig returns the default last-level cache: 8MB, 8-way, 64B
// lines, 20 cycles.
func DefaultLLCConfig() Config {
	return Config{
		Name:          "LLC",
		WriteThrough:  false,
		WriteAllocate: true,
		Capacity:      8 * 1024 * 1024, // 8MB
		Associativity: 8,               // 8-way
		LineSize:      64,              // 64B cache line
		Latency:       20,              // 20 cycles
	}
}

// NumLines returns the number of lines the level holds.
func (c Config) NumLines() uint64 {
	return c.Capacity / c.LineSize
}

// NumSets returns the number of sets the level holds.
func (c Config) NumSets() uint64 {
	return c.NumLines() / c.Associativity
}

// Validate checks that the geometry of the level is consistent.
func (c Config) Validate() error {
	if c.Capacity == 0 {
		return fmt.Errorf("%w: %s: capacity must be > 0", ErrInvalidConfig, c.Name)
	}
	if c.LineSize == 0 {
		return fmt.Errorf("%w: %s: line_size must be > 0", ErrInvalidConfig, c.Name)
	}
	if c.Associativity == 0 {
		return fmt.Errorf("%w: %s: associativity must be > 0", ErrInvalidConfig, c.Name)
	}
	if c.Capacity%c.LineSize != 0 {
		return fmt.Errorf("%w: %s: capacity %d is not a multiple of line_size %d",
			ErrInvalidConfig, c.Name, c.Capacity, c.LineSize)
	}
	if c.NumLines()%c.Associativity != 0 {
		return fmt.Errorf("%w: %s: %d lines cannot be split into %d-way sets",
			ErrInvalidConfig, c.Name, c.NumLines(), c.Associativity)
	}
	return nil
}
