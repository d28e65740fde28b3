// Package sweep runs one trace through many single-level caches, varying one
// parameter at a time.
package sweep

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sarchlab/cachesim/timing/cache"
)

// Axis is the parameter a sweep varies.
type Axis string

// Supported axes.
const (
	AxisCapacity      Axis = "capacity"
	AxisLineSize      Axis = "line-size"
	AxisAssociativity Axis = "associativity"
	AxisWritePolicy   Axis = "write-policy"
)

// Axes lists every supported axis.
var Axes = []Axis{AxisCapacity, AxisLineSize, AxisAssociativity, AxisWritePolicy}

// ParseAxis converts an axis name into an Axis.
func ParseAxis(s string) (Axis, error) {
	for _, a := range Axes {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown sweep axis %q", s)
}

// Point is one cache configuration of a sweep.
type Point struct {
	Axis   Axis
	Value  string
	Config cache.Config
}

// DefaultBase returns the configuration held fixed while one axis varies:
// 32KB, 8-way, 64B lines, 1 cycle, write-back with write-allocate.
func DefaultBase() cache.Config {
	base := cache.DefaultL1Config()
	base.Name = "cache"
	return base
}

// DefaultValues returns the values swept along an axis when none are given.
func DefaultValues(axis Axis) []uint64 {
	switch axis {
	case AxisCapacity:
		// 4KB .. 32MB
		values := []uint64{}
		for c := uint64(4 * 1024); c <= 32*1024*1024; c *= 2 {
			values = append(values, c)
		}
		return values
	case AxisLineSize:
		return []uint64{8, 16, 32, 64, 128, 256}
	case AxisAssociativity:
		return []uint64{1, 2, 4, 8, 16, 32}
	default:
		return nil
	}
}

// ParseValues parses a comma-separated list of sizes. Sizes may carry a K, M
// or G suffix (powers of 1024).
func ParseValues(s string) ([]uint64, error) {
	var values []uint64
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		multiplier := uint64(1)
		switch strings.ToUpper(field[len(field)-1:]) {
		case "K":
			multiplier = 1024
		case "M":
			multiplier = 1024 * 1024
		case "G":
			multiplier = 1024 * 1024 * 1024
		}
		if multiplier != 1 {
			field = field[:len(field)-1]
		}

		v, err := strconv.ParseUint(field, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("bad sweep value %q: %w", field, err)
		}
		if v > math.MaxUint64/multiplier {
			return nil, fmt.Errorf("sweep value %q overflows 64 bits", field)
		}
		values = append(values, v*multiplier)
	}
	return values, nil
}

// Points returns one configuration per value, each equal to base except along
// axis. The write-policy axis ignores values and yields the four combinations
// of write-through/write-back and write-allocate/no-write-allocate.
func Points(axis Axis, base cache.Config, values []uint64) []Point {
	if axis == AxisWritePolicy {
		return writePolicyPoints(base)
	}

	points := make([]Point, 0, len(values))
	for _, v := range values {
		config := base
		switch axis {
		case AxisCapacity:
			config.Capacity = v
		case AxisLineSize:
			config.LineSize = v
		case AxisAssociativity:
			config.Associativity = v
		}

		value := strconv.FormatUint(v, 10)
		config.Name = fmt.Sprintf("%s-%s", axis, value)
		points = append(points, Point{Axis: axis, Value: value, Config: config})
	}
	return points
}

func writePolicyPoints(base cache.Config) []Point {
	var points []Point
	for _, through := range []bool{false, true} {
		for _, allocate := range []bool{true, false} {
			config := base
			config.WriteThrough = through
			config.WriteAllocate = allocate

			value := PolicyName(through, allocate)
			config.Name = fmt.Sprintf("%s-%s", AxisWritePolicy, value)
			points = append(points, Point{Axis: AxisWritePolicy, Value: value, Config: config})
		}
	}
	return points
}

// PolicyName returns a short label for a write-policy combination, such as
// "back+allocate" or "through+no-allocate".
func PolicyName(writeThrough, writeAllocate bool) string {
	name := "back"
	if writeThrough {
		name = "through"
	}
	if writeAllocate {
		return name + "+allocate"
	}
	return name + "+no-allocate"
}
