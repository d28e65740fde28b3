package sweep

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/cachesim/timing/cache"
	"github.com/sarchlab/cachesim/timing/hierarchy"
	"github.com/sarchlab/cachesim/trace"
)

// Result holds the outcome of one sweep point.
type Result struct {
	// Axis and Value identify the point.
	Axis  Axis   `json:"axis"`
	Value string `json:"value"`

	// Config is the cache level that was simulated.
	Config cache.Config `json:"config"`

	// Stats are aggregated over the level and the backing store.
	Stats cache.Statistics `json:"stats"`

	// MissRate is Stats.NumMiss / Stats.NumAccess.
	MissRate float64 `json:"miss_rate"`

	// AMAT is the average memory access time in cycles.
	AMAT float64 `json:"amat"`

	// Err is set when the point could not be built.
	Err error `json:"-"`

	// WallTime is the actual time taken to replay the trace
	WallTime time.Duration `json:"wall_time_ns"`
}

// HarnessConfig holds harness configuration.
type HarnessConfig struct {
	// MemoryLatency is the latency of the backing store under every point.
	MemoryLatency uint64

	// Recorder, if set, receives every result.
	Recorder Recorder

	// Output is where PrintResults and PrintCSV write.
	Output io.Writer
}

// DefaultConfig returns the default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		MemoryLatency: cache.DefaultMemoryLatency,
		Output:        os.Stdout,
	}
}

// Harness runs a trace through a list of sweep points.
type Harness struct {
	config HarnessConfig
	points []Point
}

// NewHarness creates a new harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.MemoryLatency == 0 {
		config.MemoryLatency = cache.DefaultMemoryLatency
	}
	return &Harness{
		config: config,
	}
}

// AddPoint adds a single point.
func (h *Harness) AddPoint(p Point) {
	h.points = append(h.points, p)
}

// AddPoints adds several points.
func (h *Harness) AddPoints(points []Point) {
	h.points = append(h.points, points...)
}

// RunAll replays records through a fresh single-level hierarchy per point.
// A point that cannot be built yields a result with Err set; the other points
// still run.
func (h *Harness) RunAll(records []trace.Record) ([]Result, error) {
	results := make([]Result, 0, len(h.points))

	for _, p := range h.points {
		result := h.runPoint(p, records)

		if h.config.Recorder != nil && result.Err == nil {
			if err := h.config.Recorder.Record(result); err != nil {
				return results, fmt.Errorf("failed to record %s: %w", p.Config.Name, err)
			}
		}

		results = append(results, result)
	}

	return results, nil
}

func (h *Harness) runPoint(p Point, records []trace.Record) Result {
	result := Result{
		Axis:   p.Axis,
		Value:  p.Value,
		Config: p.Config,
	}

	top, err := hierarchy.SingleLevelConfig(p.Config, h.config.MemoryLatency).Build()
	if err != nil {
		logrus.WithError(err).WithField("point", p.Config.Name).Warn("skipping sweep point")
		result.Err = err
		return result
	}

	start := time.Now()
	replay := trace.Replay(top, records)
	result.WallTime = time.Since(start)

	result.Stats = replay.Stats
	result.MissRate = replay.Stats.MissRate()
	result.AMAT = replay.AMAT

	logrus.WithFields(logrus.Fields{
		"point":     p.Config.Name,
		"miss_rate": result.MissRate,
		"amat":      result.AMAT,
	}).Info("sweep point done")

	return result
}

// PrintResults prints results in human-readable format.
func (h *Harness) PrintResults(results []Result) {
	out := h.config.Output

	_, _ = fmt.Fprintln(out, "=== Cache Sweep Results ===")
	_, _ = fmt.Fprintln(out, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(out, "Point: %s = %s\n", r.Axis, r.Value)
		_, _ = fmt.Fprintf(out, "  Capacity:      %d\n", r.Config.Capacity)
		_, _ = fmt.Fprintf(out, "  Associativity: %d\n", r.Config.Associativity)
		_, _ = fmt.Fprintf(out, "  Line Size:     %d\n", r.Config.LineSize)
		_, _ = fmt.Fprintf(out, "  Write Policy:  %s\n",
			PolicyName(r.Config.WriteThrough, r.Config.WriteAllocate))

		if r.Err != nil {
			_, _ = fmt.Fprintf(out, "  Error: %v\n", r.Err)
			_, _ = fmt.Fprintln(out, "")
			continue
		}

		_, _ = fmt.Fprintf(out, "  Accesses:      %d\n", r.Stats.NumAccess)
		_, _ = fmt.Fprintf(out, "  Misses:        %d\n", r.Stats.NumMiss)
		_, _ = fmt.Fprintf(out, "  Miss Rate:     %.4f\n", r.MissRate)
		_, _ = fmt.Fprintf(out, "  AMAT:          %.3f cycles\n", r.AMAT)
		_, _ = fmt.Fprintf(out, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(out, "")
	}
}

// PrintCSV prints results in CSV format. Points that failed are left out.
func (h *Harness) PrintCSV(results []Result) {
	out := h.config.Output

	_, _ = fmt.Fprintln(out,
		"axis,value,capacity,associativity,line_size,write_through,write_allocate,accesses,misses,time,miss_rate,amat")

	for _, r := range results {
		if r.Err != nil {
			continue
		}

		_, _ = fmt.Fprintf(out, "%s,%s,%d,%d,%d,%t,%t,%d,%d,%d,%.6f,%.3f\n",
			r.Axis,
			r.Value,
			r.Config.Capacity,
			r.Config.Associativity,
			r.Config.LineSize,
			r.Config.WriteThrough,
			r.Config.WriteAllocate,
			r.Stats.NumAccess,
			r.Stats.NumMiss,
			r.Stats.Time,
			r.MissRate,
			r.AMAT,
		)
	}
}
