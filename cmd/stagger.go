package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/herdplan/herdplan/core/resolver"
	"github.com/herdplan/herdplan/pkg/export"
)

var staggerSpacing int

var staggerCmd = &cobra.Command{
	Use:   "stagger <lots-file>",
	Short: "Space lot anchors evenly, keeping locked lots in place",
	Args:  cobra.ExactArgs(1),
	RunE:  runStagger,
}

func init() {
	staggerCmd.Flags().IntVar(&staggerSpacing, "spacing", 2, "days between consecutive anchors")
	rootCmd.AddCommand(staggerCmd)
}

func runStagger(cmd *cobra.Command, args []string) error {
	lots, err := export.LoadLots(args[0])
	if err != nil {
		return fmt.Errorf("load lots: %w", err)
	}
	staggered, err := resolver.AutoStagger(lots, staggerSpacing)
	if err != nil {
		return err
	}
	w, closeFn, err := output()
	if err != nil {
		return err
	}
	defer closeFn()
	return export.WriteLots(w, format, staggered)
}
