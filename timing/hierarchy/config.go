// Package hierarchy describes whole cache hierarchies: which levels sit on
// top of the backing store, how they are loaded from and saved to files, and
// how they are built.
package hierarchy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sarchlab/akita/v4/sim"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/cachesim/timing/cache"
)

// Config describes a hierarchy. Levels are ordered from the one closest to
// the processor to the farthest.
type Config struct {
	// Levels are the cache levels, top first.
	Levels []cache.Config `json:"levels" yaml:"levels"`

	// MemoryLatency is the latency of the backing store in cycles.
	// Default: 100 cycles.
	MemoryLatency uint64 `json:"memory_latency" yaml:"memory_latency"`

	// FrequencyGHz is the clock used to convert cycles into nanoseconds
	// in reports. Default: 1 GHz.
	FrequencyGHz float64 `json:"frequency_ghz" yaml:"frequency_ghz"`
}

// DefaultConfig returns the three-level L1/L2/LLC hierarchy.
func DefaultConfig() *Config {
	return &Config{
		Levels: []cache.Config{
			cache.DefaultL1Config(),
			cache.DefaultL2Config(),
			cache.DefaultLLCConfig(),
		},
		MemoryLatency: cache.DefaultMemoryLatency,
		FrequencyGHz:  1,
	}
}

// SingleLevelConfig returns a hierarchy with one cache level over the backing
// store, as used by parameter sweeps.
func SingleLevelConfig(level cache.Config, memoryLatency uint64) *Config {
	return &Config{
		Levels:        []cache.Config{level},
		MemoryLatency: memoryLatency,
		FrequencyGHz:  1,
	}
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// LoadConfig loads a Config from a JSON or YAML file, picked by extension.
// Fields missing from the file keep their default values; a file that lists
// levels replaces the default levels entirely. Unknown fields are errors in
// both formats.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read hierarchy config file: %w", err)
	}

	config := DefaultConfig()
	config.Levels = nil

	if isYAML(path) {
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		err = decoder.Decode(config)
	} else {
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		err = decoder.Decode(config)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse hierarchy config: %w", err)
	}

	if config.Levels == nil {
		config.Levels = DefaultConfig().Levels
	}

	return config, nil
}

// SaveConfig writes a Config to a JSON or YAML file, picked by extension.
func (c *Config) SaveConfig(path string) error {
	var data []byte
	var err error

	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to serialize hierarchy config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write hierarchy config file: %w", err)
	}

	return nil
}

// Validate checks the backing store parameters and every level.
func (c *Config) Validate() error {
	if c.MemoryLatency == 0 {
		return fmt.Errorf("memory_latency must be > 0")
	}
	if c.FrequencyGHz <= 0 {
		return fmt.Errorf("frequency_ghz must be > 0")
	}
	for i, level := range c.Levels {
		if err := level.Validate(); err != nil {
			return fmt.Errorf("level %d: %w", i+1, err)
		}
	}
	return nil
}

// Clone returns a deep copy of the Config.
func (c *Config) Clone() *Config {
	levels := make([]cache.Config, len(c.Levels))
	copy(levels, c.Levels)

	return &Config{
		Levels:        levels,
		MemoryLatency: c.MemoryLatency,
		FrequencyGHz:  c.FrequencyGHz,
	}
}

// Freq returns the configured clock.
func (c *Config) Freq() sim.Freq {
	return sim.Freq(c.FrequencyGHz) * sim.GHz
}

// Nanoseconds converts a number of cycles, possibly fractional, into
// nanoseconds at the configured clock.
func (c *Config) Nanoseconds(cycles float64) float64 {
	return cycles / float64(c.Freq()) * 1e9
}

// Build validates the Config and creates the hierarchy. The hooks are
// attached to every cache level.
func (c *Config) Build(hooks ...sim.Hook) (cache.Storage, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	builder := cache.MakeBuilder().
		WithMemoryLatency(c.MemoryLatency).
		WithLevels(c.Levels...)
	for _, hook := range hooks {
		builder = builder.WithHook(hook)
	}

	return builder.Build()
}
