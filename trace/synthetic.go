package trace

import "github.com/sarchlab/cachesim/timing/cache"

// Strided returns n accesses of the given op starting at base and advancing
// by stride bytes.
func Strided(op cache.Op, base, stride uint64, n int) []Record {
	records := make([]Record, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, Record{Op: op, Address: base + uint64(i)*stride})
	}
	return records
}

// Repeat concatenates records with itself times times.
func Repeat(records []Record, times int) []Record {
	out := make([]Record, 0, len(records)*times)
	for i := 0; i < times; i++ {
		out = append(out, records...)
	}
	return out
}

// ReadModifyWrite turns every address of records into a read followed by a
// write to the same address.
func ReadModifyWrite(records []Record) []Record {
	out := make([]Record, 0, 2*len(records))
	for _, r := range records {
		out = append(out,
			Record{Op: cache.OpRead, Address: r.Address},
			Record{Op: cache.OpWrite, Address: r.Address},
		)
	}
	return out
}
