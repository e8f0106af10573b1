package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/herdplan/herdplan/core/calendar"
	"github.com/herdplan/herdplan/core/conflict"
	"github.com/herdplan/herdplan/pkg/export"
)

var conflictsCmd = &cobra.Command{
	Use:   "conflicts <lots-file>",
	Short: "List weekend, overlap and holiday conflicts of a schedule",
	Args:  cobra.ExactArgs(1),
	RunE:  runConflicts,
}

func init() {
	rootCmd.AddCommand(conflictsCmd)
}

func runConflicts(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	lots, err := export.LoadLots(args[0])
	if err != nil {
		return fmt.Errorf("load lots: %w", err)
	}
	dates := calendar.ExpandAll(lots)
	holidays, err := cfg.Holidays.Set(dates)
	if err != nil {
		return err
	}
	conflicts := conflict.Detect(dates, holidays)
	w, closeFn, err := output()
	if err != nil {
		return err
	}
	defer closeFn()
	switch format {
	case "csv":
		return export.WriteConflictsCSV(w, conflicts)
	case "json":
		return export.WriteConflictsJSON(w, conflicts)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
