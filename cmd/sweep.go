package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/helmside/boatclub/app"
	"github.com/helmside/boatclub/config"
	"github.com/helmside/boatclub/infra/logger"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run a single assignment sweep and exit",
	RunE:  runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("sweep-command").Errorf("service close: %v", err)
		}
	}()

	report, err := svc.Orchestrator.RunSweep(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}
	fmt.Printf("swept %d boats, %d reservations changed\n", report.Boats, len(report.Changed))
	for _, r := range report.Changed {
		fmt.Printf("reservation %d: battery %d on boat %d\n", r.ID, r.BatteryID, r.BoatID)
	}
	return nil
}
