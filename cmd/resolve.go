package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/herdplan/herdplan/core/calendar"
	"github.com/herdplan/herdplan/core/resolver"
	"github.com/herdplan/herdplan/infra/logger"
	"github.com/herdplan/herdplan/pkg/export"
)

var (
	resolveMaxShift  int
	resolveBudgetMS  int
	resolveIterLimit int
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <lots-file>",
	Short: "Greedily shift anchors until conflicts disappear",
	Args:  cobra.ExactArgs(1),
	RunE:  runResolve,
}

func init() {
	resolveCmd.Flags().IntVar(&resolveMaxShift, "max-shift", 6, "largest anchor shift tried in days")
	resolveCmd.Flags().IntVar(&resolveBudgetMS, "budget-ms", 2000, "time budget in milliseconds")
	resolveCmd.Flags().IntVar(&resolveIterLimit, "max-iterations", 50, "maximum number of lot adjustments")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Logging.Apply()
	lots, err := export.LoadLots(args[0])
	if err != nil {
		return fmt.Errorf("load lots: %w", err)
	}
	holidays, err := cfg.Holidays.Set(calendar.ExpandAll(lots))
	if err != nil {
		return err
	}
	res := resolver.Resolve(lots, resolver.Options{
		MaxShiftDays:  resolveMaxShift,
		MaxIterations: resolveIterLimit,
		Budget:        time.Duration(resolveBudgetMS) * time.Millisecond,
		Holidays:      holidays,
	})
	log := logger.New("resolver")
	if res.Resolved {
		log.Infof("%s", res.Message)
	} else {
		log.Warnf("%s", res.Message)
	}
	w, closeFn, err := output()
	if err != nil {
		return err
	}
	defer closeFn()
	return export.WriteLots(w, format, res.Lots)
}
