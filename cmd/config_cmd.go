// Package cmd implements the foreplan CLI commands.
package cmd

import (
	"fmt"

	"foreplan/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Horizon days: %d\n", cfg.General.HorizonDays)
	fmt.Printf("    Week start:   %s\n", cfg.General.WeekStart)
	fmt.Printf("    Database:     %s\n", config.DBPath(cfg))
	fmt.Println()

	fmt.Println("  [Planning]")
	fmt.Printf("    Min phase gap: %d day(s)\n", cfg.Planning.MinPhaseGapDays)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `foreplan setup` to reconfigure.")
	return nil
}
