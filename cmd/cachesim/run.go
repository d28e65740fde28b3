package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/cachesim/timing/cache"
	"github.com/sarchlab/cachesim/timing/hierarchy"
	"github.com/sarchlab/cachesim/trace"
)

type runOptions struct {
	configPath string
	format     string
	events     bool
}

// levelReport holds the counters of a single cache level.
type levelReport struct {
	Name       string           `json:"name" yaml:"name"`
	Stats      cache.Statistics `json:"stats" yaml:"stats"`
	MissRate   float64          `json:"miss_rate" yaml:"miss_rate"`
	Evictions  uint64           `json:"evictions" yaml:"evictions"`
	WriteBacks uint64           `json:"write_backs" yaml:"write_backs"`
}

// runReport is the machine-readable output of the run command.
type runReport struct {
	Trace  string            `json:"trace" yaml:"trace"`
	Config *hierarchy.Config `json:"config" yaml:"config"`
	Result trace.Result      `json:"result" yaml:"result"`
	Levels []levelReport     `json:"levels" yaml:"levels"`
	AMATNs float64           `json:"amat_ns" yaml:"amat_ns"`
}

func newRunCmd() *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "run <trace>",
		Short: "Replay a trace through a cache hierarchy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "",
		"Hierarchy configuration file (YAML or JSON); defaults to L1/L2/LLC")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: text, yaml or json")
	cmd.Flags().BoolVar(&opts.events, "events", false, "Log every cache access and eviction")

	return cmd
}

func loadHierarchyConfig(path string) (*hierarchy.Config, error) {
	if path == "" {
		return hierarchy.DefaultConfig(), nil
	}
	return hierarchy.LoadConfig(path)
}

func runTrace(out io.Writer, tracePath string, opts runOptions) error {
	switch opts.format {
	case "text", "yaml", "json":
	default:
		return fmt.Errorf("unknown output format %q", opts.format)
	}

	config, err := loadHierarchyConfig(opts.configPath)
	if err != nil {
		return err
	}

	var hooks []sim.Hook
	if opts.events {
		if !logrus.IsLevelEnabled(logrus.TraceLevel) {
			logrus.SetLevel(logrus.TraceLevel)
		}
		hooks = append(hooks, cache.NewLogHook(nil))
	}

	top, err := config.Build(hooks...)
	if err != nil {
		return err
	}

	f, err := os.Open(tracePath)
	if err != nil {
		return fmt.Errorf("failed to open trace: %w", err)
	}
	defer func() { _ = f.Close() }()

	result, err := trace.Run(top, trace.NewReader(f))
	if err != nil {
		return fmt.Errorf("%s: %w", tracePath, err)
	}

	report := runReport{
		Trace:  tracePath,
		Config: config,
		Result: result,
		AMATNs: config.Nanoseconds(result.AMAT),
	}
	for _, level := range cache.Levels(top) {
		local := level.LocalStats()
		report.Levels = append(report.Levels, levelReport{
			Name:       level.Name(),
			Stats:      local,
			MissRate:   local.MissRate(),
			Evictions:  level.Evictions(),
			WriteBacks: level.WriteBacks(),
		})
	}

	switch opts.format {
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	printText(out, top, report)
	return nil
}

func printText(out io.Writer, top cache.Storage, report runReport) {
	_, _ = fmt.Fprintf(out, "Trace: %s\n", report.Trace)
	_, _ = fmt.Fprintf(out, "Operations: %d (%d reads, %d writes)\n",
		report.Result.Operations, report.Result.Reads, report.Result.Writes)
	_, _ = fmt.Fprintln(out, "")

	top.Report(out)

	stats := report.Result.Stats
	_, _ = fmt.Fprintln(out, "")
	_, _ = fmt.Fprintln(out, "Aggregate:")
	_, _ = fmt.Fprintf(out, "  Accesses:    %d\n", stats.NumAccess)
	_, _ = fmt.Fprintf(out, "  Misses:      %d\n", stats.NumMiss)
	_, _ = fmt.Fprintf(out, "  Time:        %d cycles\n", stats.Time)
	_, _ = fmt.Fprintf(out, "  AMAT:        %.3f cycles (%.3f ns @ %.2f GHz)\n",
		report.Result.AMAT, report.AMATNs, report.Config.FrequencyGHz)
}
