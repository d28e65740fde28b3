package cache

import (
	"errors"
	"fmt"
	"io"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sirupsen/logrus"
)

// Cache is one set-associative level with LRU replacement. It exclusively
// owns the Storage below it.
type Cache struct {
	*sim.HookableBase

	// Configuration
	config Config

	// Address decomposition. The set index is (addr & lineMask) / LineSize
	// and the tag is addr & tagMask.
	lineMask uint64
	tagMask  uint64

	sets  []set
	lower Storage

	// Statistics of this level alone
	stats      Statistics
	evictions  uint64
	writebacks uint64
}

// New creates a cache level on top of lower. It fails if the configuration is
// inconsistent; no partially built cache is returned.
func New(config Config, lower Storage) (*Cache, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if lower == nil {
		return nil, errors.New("cache " + config.Name + ": lower storage is nil")
	}

	numSets := config.NumSets()
	sets := make([]set, numSets)
	for i := range sets {
		sets[i] = newSet(config.Associativity)
	}

	return &Cache{
		HookableBase: sim.NewHookableBase(),
		config:       config,
		lineMask:     (numSets - 1) * config.LineSize,
		tagMask:      ^(config.Capacity/config.Associativity - 1),
		sets:         sets,
		lower:        lower,
	}, nil
}

// Config returns the cache configuration.
func (c *Cache) Config() Config {
	return c.config
}

// Name returns the report label of the level.
func (c *Cache) Name() string {
	return c.config.Name
}

// Lower returns the storage this level owns.
func (c *Cache) Lower() Storage {
	return c.lower
}

// LineMask returns the mask that selects the set-index bits of an address.
func (c *Cache) LineMask() uint64 {
	return c.lineMask
}

// TagMask returns the mask that selects the tag bits of an address.
func (c *Cache) TagMask() uint64 {
	return c.tagMask
}

// LocalStats returns the counters of this level only.
func (c *Cache) LocalStats() Statistics {
	return c.stats
}

// Stats returns the counters of this level plus those of every lower level.
func (c *Cache) Stats() Statistics {
	return c.stats.Add(c.lower.Stats())
}

// Evictions returns how many valid lines this level has replaced.
func (c *Cache) Evictions() uint64 {
	return c.evictions
}

// WriteBacks returns how many dirty lines this level has flushed downward.
func (c *Cache) WriteBacks() uint64 {
	return c.writebacks
}

// Access services a read or write and records it in the level's counters.
func (c *Cache) Access(addr uint64, op Op) uint64 {
	var latency uint64
	var hit bool

	switch op {
	case OpRead:
		latency, hit = c.read(addr)
	case OpWrite:
		latency, hit = c.write(addr)
	default:
		logrus.Panicf("cache %s: unknown op %d", c.config.Name, int(op))
	}

	c.stats.NumAccess++
	c.stats.Time += latency

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosAccess,
		Item: AccessInfo{
			Level:   c.config.Name,
			Address: addr,
			Op:      op,
			Hit:     hit,
			Latency: latency,
		},
	})

	return latency
}

func (c *Cache) setOf(addr uint64) *set {
	return &c.sets[(addr&c.lineMask)/c.config.LineSize]
}

func (c *Cache) read(addr uint64) (uint64, bool) {
	s := c.setOf(addr)
	tag := addr & c.tagMask

	if s.find(tag) != nil {
		return c.config.Latency, true
	}

	c.stats.NumMiss++
	return c.config.Latency + c.fill(s, tag, addr), false
}

func (c *Cache) write(addr uint64) (uint64, bool) {
	s := c.setOf(addr)
	tag := addr & c.tagMask

	if l := s.find(tag); l != nil {
		if c.config.WriteThrough {
			return c.config.Latency + c.lower.Access(addr, OpWrite), true
		}
		l.isDirty = true
		return c.config.Latency, true
	}

	c.stats.NumMiss++

	if !c.config.WriteAllocate {
		return c.config.Latency + c.lower.Access(addr, OpWrite), false
	}

	// The allocated line is installed clean, exactly like a read miss.
	return c.config.Latency + c.fill(s, tag, addr), false
}

// fill fetches the line holding addr from the lower level and installs it in
// s, flushing a dirty victim first. It returns the time spent below.
func (c *Cache) fill(s *set, tag, addr uint64) uint64 {
	latency := c.lower.Access(addr, OpRead)

	victim := s.victim()
	if victim.isValid {
		c.evictions++
		c.InvokeHook(sim.HookCtx{
			Domain: c,
			Pos:    HookPosEviction,
			Item: EvictionInfo{
				Level:   c.config.Name,
				Address: victim.address,
				Dirty:   victim.isDirty,
			},
		})

		if victim.isDirty {
			c.writebacks++
			latency += c.lower.Access(victim.address, OpWrite)
		}
	}

	s.install(victim, tag, addr)

	return latency
}

// Report writes the level's own counters and miss rate, then the report of
// the lower level.
func (c *Cache) Report(w io.Writer) {
	_, _ = fmt.Fprintf(w, "%s:\n", c.config.Name)
	_, _ = fmt.Fprintf(w, "  Accesses:    %d\n", c.stats.NumAccess)
	_, _ = fmt.Fprintf(w, "  Misses:      %d\n", c.stats.NumMiss)
	_, _ = fmt.Fprintf(w, "  Time:        %d cycles\n", c.stats.Time)
	_, _ = fmt.Fprintf(w, "  Miss Rate:   %.4f\n", c.stats.MissRate())
	_, _ = fmt.Fprintf(w, "  Evictions:   %d\n", c.evictions)
	_, _ = fmt.Fprintf(w, "  Write-backs: %d\n", c.writebacks)

	c.lower.Report(w)
}

// Levels returns the caches of a hierarchy from the top down. The backing
// store is not included.
func Levels(top Storage) []*Cache {
	var levels []*Cache
	for s := top; s != nil; {
		c, ok := s.(*Cache)
		if !ok {
			break
		}
		levels = append(levels, c)
		s = c.lower
	}
	return levels
}
