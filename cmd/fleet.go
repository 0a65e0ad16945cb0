package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/helmside/boatclub/config"
	"github.com/helmside/boatclub/infra/store"
)

var fleetCmd = &cobra.Command{
	Use:   "fleet",
	Short: "Fleet related commands",
}

var fleetLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List boats and their batteries",
	RunE:  runFleetLs,
}

func init() {
	fleetCmd.AddCommand(fleetLsCmd)
	rootCmd.AddCommand(fleetCmd)
}

func runFleetLs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	st, err := store.New(cfg.Store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			if _, ferr := fmt.Fprintf(cmd.ErrOrStderr(), "error while closing store: %v\n", err); ferr != nil {
				fmt.Println("failed to write to stderr:", ferr)
			}
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	fl, err := st.LoadFleet(ctx)
	if err != nil {
		return err
	}
	for _, boatID := range fl.BoatIDs() {
		boat, _ := fl.Boat(boatID)
		state := "available"
		if !boat.Available {
			state = "unavailable"
		}
		fmt.Printf("%d\t%s\t%s\n", boat.ID, boat.PersonalName, state)
		for _, b := range fl.Batteries(boatID) {
			fmt.Printf("\tbattery %d\ttype %s\tused %d\n", b.ID, b.Type, b.UsageCount)
		}
	}
	return nil
}
