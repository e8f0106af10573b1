package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/herdplan/herdplan/core/optimizer"
	"github.com/herdplan/herdplan/infra/logger"
	"github.com/herdplan/herdplan/internal/eventbus"
	"github.com/herdplan/herdplan/pkg/export"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize <lots-file>",
	Short: "Search for conflict-free schedule variants",
	Args:  cobra.ExactArgs(1),
	RunE:  runOptimize,
}

func init() {
	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Logging.Apply()
	lots, err := export.LoadLots(args[0])
	if err != nil {
		return fmt.Errorf("load lots: %w", err)
	}
	sink, err := buildSink(cfg)
	if err != nil {
		return fmt.Errorf("metrics sink: %w", err)
	}
	mgr, err := optimizer.NewManager(cfg.Search, logger.New("optimizer"), eventbus.New(), sink)
	if err != nil {
		return err
	}
	report, err := mgr.Run(ctx, optimizer.Request{Lots: lots})
	if err != nil {
		return err
	}
	w, closeFn, err := output()
	if err != nil {
		return err
	}
	defer closeFn()
	switch format {
	case "csv":
		return export.WriteCSV(w, report)
	case "json":
		return export.WriteJSON(w, report)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
