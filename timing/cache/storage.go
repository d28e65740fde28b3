package cache

import (
	"fmt"
	"io"
	"strings"
)

// Op is the kind of memory access issued to a Storage.
type Op int

// Supported access kinds.
const (
	OpRead Op = iota
	OpWrite
)

// String returns the trace mnemonic of the op ("r" or "w").
func (op Op) String() string {
	switch op {
	case OpRead:
		return "r"
	case OpWrite:
		return "w"
	default:
		return fmt.Sprintf("Op(%d)", int(op))
	}
}

// ParseOp converts a trace mnemonic into an Op. It accepts "r"/"w" in either
// case as well as the long forms "read"/"write".
func ParseOp(s string) (Op, error) {
	switch strings.ToLower(s) {
	case "r", "read":
		return OpRead, nil
	case "w", "write":
		return OpWrite, nil
	default:
		return 0, fmt.Errorf("unknown op %q", s)
	}
}

// Storage is one level of the memory hierarchy. Caches own the Storage below
// them, so a whole hierarchy is reachable through its top level.
type Storage interface {
	// Access services a single read or write and returns the number of
	// cycles it took, including any time spent in lower levels.
	Access(addr uint64, op Op) uint64

	// Stats returns the counters of this level summed with the counters of
	// every level below it.
	Stats() Statistics

	// Report writes human-readable per-level diagnostics, starting with
	// this level and continuing downward. Levels with nothing to say write
	// nothing.
	Report(w io.Writer)
}

// Statistics holds the access counters of a storage level.
type Statistics struct {
	NumAccess uint64 `json:"num_access" yaml:"num_access"`
	NumMiss   uint64 `json:"num_miss" yaml:"num_miss"`
	Time      uint64 `json:"time" yaml:"time"`
}

// Add returns the field-wise sum of two statistics records.
func (s Statistics) Add(other Statistics) Statistics {
	return Statistics{
		NumAccess: s.NumAccess + other.NumAccess,
		NumMiss:   s.NumMiss + other.NumMiss,
		Time:      s.Time + other.Time,
	}
}

// MissRate returns NumMiss / NumAccess, or 0 if nothing was accessed.
func (s Statistics) MissRate() float64 {
	if s.NumAccess == 0 {
		return 0
	}
	return float64(s.NumMiss) / float64(s.NumAccess)
}

// AMAT returns the average memory access time in cycles, or 0 if nothing was
// accessed. It is only meaningful on the aggregated stats of a top level.
func (s Statistics) AMAT() float64 {
	if s.NumAccess == 0 {
		return 0
	}
	return float64(s.Time) / float64(s.NumAccess)
}
