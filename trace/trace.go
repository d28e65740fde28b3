// Package trace reads memory access traces and replays them through a cache
// hierarchy.
//
// A trace has one access per line: an op ("r" or "w") followed by an address
// in decimal or 0x-prefixed hexadecimal. Blank lines and lines starting with
// '#' are ignored.
package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/cachesim/timing/cache"
)

// ErrMalformedLine is wrapped by every parse error.
var ErrMalformedLine = errors.New("malformed trace line")

// Record is one memory access of a trace.
type Record struct {
	Op      cache.Op
	Address uint64
}

// String formats the record as a trace line.
func (r Record) String() string {
	return fmt.Sprintf("%s 0x%x", r.Op, r.Address)
}

// Parse converts one non-empty trace line into a Record.
func Parse(line string) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return Record{}, fmt.Errorf("%w: expected 2 fields, got %d", ErrMalformedLine, len(fields))
	}

	op, err := cache.ParseOp(fields[0])
	if err != nil || len(fields[0]) != 1 {
		return Record{}, fmt.Errorf("%w: unknown op %q", ErrMalformedLine, fields[0])
	}

	addr, err := parseAddress(fields[1])
	if err != nil {
		return Record{}, fmt.Errorf("%w: bad address %q", ErrMalformedLine, fields[1])
	}

	return Record{Op: op, Address: addr}, nil
}

func parseAddress(s string) (uint64, error) {
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "0x") {
		return strconv.ParseUint(lower[2:], 16, 64)
	}
	return strconv.ParseUint(s, 10, 64)
}

// Reader streams records out of a trace.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(r)}
}

// Line returns the number of the last line read.
func (r *Reader) Line() int {
	return r.line
}

// Next returns the next record, or io.EOF once the trace is exhausted.
func (r *Reader) Next() (Record, error) {
	for r.scanner.Scan() {
		r.line++

		text := strings.TrimSpace(r.scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		record, err := Parse(text)
		if err != nil {
			return Record{}, fmt.Errorf("line %d: %w", r.line, err)
		}
		return record, nil
	}

	if err := r.scanner.Err(); err != nil {
		return Record{}, fmt.Errorf("failed to read trace: %w", err)
	}

	return Record{}, io.EOF
}

// ReadAll reads every remaining record.
func (r *Reader) ReadAll() ([]Record, error) {
	var records []Record
	for {
		record, err := r.Next()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
}

// Load reads a whole trace file.
func Load(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return NewReader(f).ReadAll()
}

// Write formats records as trace lines.
func Write(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		if _, err := fmt.Fprintln(bw, r.String()); err != nil {
			return err
		}
	}
	return bw.Flush()
}
