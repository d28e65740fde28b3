package trace

import (
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/cachesim/timing/cache"
)

// Result summarizes one replay.
type Result struct {
	// Operations is the number of records issued to the top level.
	Operations uint64 `json:"operations" yaml:"operations"`
	Reads      uint64 `json:"reads" yaml:"reads"`
	Writes     uint64 `json:"writes" yaml:"writes"`

	// Top holds the counters of the top level alone. Top.Time is the total
	// latency seen by the issuer of the trace.
	Top cache.Statistics `json:"top" yaml:"top"`

	// Stats holds the counters aggregated over the whole hierarchy.
	Stats cache.Statistics `json:"stats" yaml:"stats"`

	// AMAT is Stats.Time / Stats.NumAccess.
	AMAT float64 `json:"amat" yaml:"amat"`
}

// replayer issues records to a storage and keeps the per-trace counters.
type replayer struct {
	storage cache.Storage
	result  Result
}

func (r *replayer) issue(record Record) {
	latency := r.storage.Access(record.Address, record.Op)

	r.result.Operations++
	r.result.Top.NumAccess++
	r.result.Top.Time += latency
	if record.Op == cache.OpWrite {
		r.result.Writes++
	} else {
		r.result.Reads++
	}
}

func (r *replayer) finish() Result {
	r.result.Stats = r.storage.Stats()
	r.result.AMAT = r.result.Stats.AMAT()

	if levels := cache.Levels(r.storage); len(levels) > 0 {
		r.result.Top = levels[0].LocalStats()
	}

	logrus.WithFields(logrus.Fields{
		"operations": r.result.Operations,
		"misses":     r.result.Stats.NumMiss,
		"amat":       r.result.AMAT,
	}).Debug("trace replayed")

	return r.result
}

// Replay issues every record to s in order.
func Replay(s cache.Storage, records []Record) Result {
	r := &replayer{storage: s}
	for _, record := range records {
		r.issue(record)
	}
	return r.finish()
}

// Run streams records from reader into s until the trace ends. On a parse
// error the accesses issued so far stay applied to s.
func Run(s cache.Storage, reader *Reader) (Result, error) {
	r := &replayer{storage: s}
	for {
		record, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return r.finish(), nil
		}
		if err != nil {
			return Result{}, err
		}
		r.issue(record)
	}
}
