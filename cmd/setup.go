package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"foreplan/internal/config"
	"foreplan/internal/model"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	reader := bufio.NewReader(os.Stdin)

	// Load existing config or defaults
	cfg, _ := config.Load()

	fmt.Println()
	fmt.Println("  Welcome to foreplan!")
	fmt.Println()

	// 1. Working hours
	fmt.Println("  1. Working hours")
	fmt.Println("     Weekday slots drive which days get work allocated.")
	fmt.Println("     (1) Mon-Fri 9:00-17:00 [default]")
	fmt.Println("     (2) Mon-Fri 9:00-13:00 and 14:00-18:00")
	fmt.Println("     (3) Skip, configure later with `foreplan slots add`")
	fmt.Print("     > ")
	choice, _ := reader.ReadString('\n')
	choice = strings.TrimSpace(choice)

	var slots []model.WorkSlot
	switch choice {
	case "2":
		for wd := time.Monday; wd <= time.Friday; wd++ {
			slots = append(slots,
				model.WorkSlot{Weekday: wd, StartMin: 9 * 60, EndMin: 13 * 60},
				model.WorkSlot{Weekday: wd, StartMin: 14 * 60, EndMin: 18 * 60},
			)
		}
	case "3":
		// nothing seeded
	default:
		for wd := time.Monday; wd <= time.Friday; wd++ {
			slots = append(slots, model.WorkSlot{Weekday: wd, StartMin: 9 * 60, EndMin: 17 * 60})
		}
	}
	fmt.Println()

	// 2. Forecast horizon
	fmt.Println("  2. Forecast horizon for continuous projects")
	fmt.Println("     (1) 30 days")
	fmt.Println("     (2) 90 days [default]")
	fmt.Println("     (3) 180 days")
	fmt.Print("     > ")
	choice, _ = reader.ReadString('\n')
	switch strings.TrimSpace(choice) {
	case "1":
		cfg.General.HorizonDays = 30
	case "3":
		cfg.General.HorizonDays = 180
	default:
		cfg.General.HorizonDays = 90
	}
	fmt.Println()

	// 3. Theme
	fmt.Println("  3. Color theme")
	fmt.Println("     (1) Flexoki Dark [default]")
	fmt.Println("     (2) Catppuccin Mocha")
	fmt.Println("     (3) Tokyo Night")
	fmt.Println("     (4) Terminal (ANSI 16)")
	fmt.Print("     > ")
	choice, _ = reader.ReadString('\n')
	switch strings.TrimSpace(choice) {
	case "2":
		cfg.Appearance.Theme = "catppuccin-mocha"
	case "3":
		cfg.Appearance.Theme = "tokyo-night"
	case "4":
		cfg.Appearance.Theme = "terminal"
	default:
		cfg.Appearance.Theme = "flexoki-dark"
	}

	// Save
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	if len(slots) > 0 {
		st, _, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		existing, err := st.Slots()
		if err != nil {
			return err
		}
		if len(existing) == 0 {
			for _, s := range slots {
				if _, err := st.SaveSlot(s); err != nil {
					return err
				}
			}
			fmt.Printf("\n  Seeded %d work slots\n", len(slots))
		} else {
			fmt.Println("\n  Work slots already configured, leaving them alone.")
		}
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `foreplan setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}
