package cache

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
)

// A Builder composes cache levels on top of a backing store.
type Builder struct {
	levels        []Config
	memoryLatency uint64
	hooks         []sim.Hook
}

// MakeBuilder creates a builder with no cache levels and the default memory
// latency.
func MakeBuilder() Builder {
	return Builder{
		memoryLatency: DefaultMemoryLatency,
	}
}

// WithMemoryLatency sets the latency of the backing store.
func (b Builder) WithMemoryLatency(latency uint64) Builder {
	b.memoryLatency = latency
	return b
}

// WithLevel appends a level below the levels added so far.
func (b Builder) WithLevel(config Config) Builder {
	return b.WithLevels(config)
}

// WithLevels appends levels ordered from the closest to the processor to the
// farthest.
func (b Builder) WithLevels(configs ...Config) Builder {
	levels := make([]Config, 0, len(b.levels)+len(configs))
	levels = append(levels, b.levels...)
	levels = append(levels, configs...)
	b.levels = levels
	return b
}

// WithHook registers a hook on every level the builder creates.
func (b Builder) WithHook(hook sim.Hook) Builder {
	hooks := make([]sim.Hook, 0, len(b.hooks)+1)
	hooks = append(hooks, b.hooks...)
	hooks = append(hooks, hook)
	b.hooks = hooks
	return b
}

// Build creates the hierarchy and returns its top level. Without any cache
// level the backing store itself is returned. Levels without a name are named
// L1, L2, ... by position.
func (b Builder) Build() (Storage, error) {
	configs := make([]Config, len(b.levels))
	for i, config := range b.levels {
		if config.Name == "" {
			config.Name = fmt.Sprintf("L%d", i+1)
		}
		if err := config.Validate(); err != nil {
			return nil, fmt.Errorf("level %d: %w", i+1, err)
		}
		configs[i] = config
	}

	var lower Storage = NewMemory(b.memoryLatency)
	for i := len(configs) - 1; i >= 0; i-- {
		c, err := New(configs[i], lower)
		if err != nil {
			return nil, fmt.Errorf("level %d: %w", i+1, err)
		}

		for _, hook := range b.hooks {
			c.AcceptHook(hook)
		}

		lower = c
	}

	return lower, nil
}
