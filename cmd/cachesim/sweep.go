package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/sweep"
	"github.com/sarchlab/cachesim/timing/cache"
	"github.com/sarchlab/cachesim/trace"
)

type sweepOptions struct {
	axis          string
	values        string
	csv           bool
	db            string
	recordToDB    bool
	memoryLatency uint64
}

func newSweepCmd() *cobra.Command {
	opts := sweepOptions{}

	cmd := &cobra.Command{
		Use:   "sweep <trace>",
		Short: "Replay a trace through single-level caches varying one parameter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.recordToDB = cmd.Flags().Changed("db")
			return runSweep(cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.axis, "axis", string(sweep.AxisCapacity),
		"Parameter to vary: capacity, line-size, associativity or write-policy")
	cmd.Flags().StringVar(&opts.values, "values", "",
		"Comma-separated values, e.g. 4K,32K,1M (default depends on the axis)")
	cmd.Flags().BoolVar(&opts.csv, "csv", false, "Print results as CSV")
	cmd.Flags().StringVar(&opts.db, "db", "",
		"Record results into the named SQLite database (an empty name generates one)")
	cmd.Flags().Uint64Var(&opts.memoryLatency, "memory-latency", cache.DefaultMemoryLatency,
		"Latency of the backing store in cycles")

	return cmd
}

func runSweep(out io.Writer, tracePath string, opts sweepOptions) error {
	axis, err := sweep.ParseAxis(opts.axis)
	if err != nil {
		return err
	}

	values := sweep.DefaultValues(axis)
	if opts.values != "" {
		values, err = sweep.ParseValues(opts.values)
		if err != nil {
			return err
		}
	}

	records, err := trace.Load(tracePath)
	if err != nil {
		return err
	}

	config := sweep.DefaultConfig()
	config.Output = out
	config.MemoryLatency = opts.memoryLatency

	if opts.recordToDB {
		recorder, err := sweep.NewSQLiteRecorder(opts.db)
		if err != nil {
			return err
		}
		defer func() { _ = recorder.Close() }()
		config.Recorder = recorder
	}

	harness := sweep.NewHarness(config)
	harness.AddPoints(sweep.Points(axis, sweep.DefaultBase(), values))

	results, err := harness.RunAll(records)
	if err != nil {
		return err
	}

	if opts.csv {
		harness.PrintCSV(results)
	} else {
		harness.PrintResults(results)
	}

	if len(results) == 0 {
		return fmt.Errorf("no sweep points along %s", axis)
	}
	return nil
}
