package main

import (
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/cachesim/timing/hierarchy"
)

func newConfigCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print or save the default hierarchy configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := hierarchy.DefaultConfig()
			if out != "" {
				return config.SaveConfig(out)
			}
			return writeConfig(cmd.OutOrStdout(), config)
		},
	}

	cmd.Flags().StringVar(&out, "out", "",
		"Write the configuration to a file (.yaml/.yml or .json)")

	return cmd
}

func writeConfig(w io.Writer, config *hierarchy.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(config); err != nil {
		return err
	}
	return enc.Close()
}
