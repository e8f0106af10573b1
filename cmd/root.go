// Package cmd wires the herdplan CLI: schedule optimization, conflict
// inspection and anchor staggering over lot files.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/herdplan/herdplan/config"
	coremetrics "github.com/herdplan/herdplan/core/metrics"

	// Registers the built-in metrics sinks.
	_ "github.com/herdplan/herdplan/infra/metrics"
)

var (
	cfgPath string
	outPath string
	format  string
)

var rootCmd = &cobra.Command{
	Use:   "herdplan",
	Short: "Breeding calendar schedule optimizer",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (json or yaml)")
	rootCmd.PersistentFlags().StringVarP(&outPath, "out", "o", "", "output file, stdout when empty")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "json", "output format: json or csv")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func loadConfig() (*config.Config, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func buildSink(cfg *config.Config) (coremetrics.Sink, error) {
	return coremetrics.NewSink(cfg.Metrics.Sinks)
}

func output() (*os.File, func(), error) {
	if outPath == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}
