package main

import (
	"alcyxob/fitplan/internal/app"
	"alcyxob/fitplan/internal/config"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Upgrade stored workouts to the current schema",
	Long:  "Opening the store runs the migration; this command opens it, reports what changed and closes it again.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := config.LoadConfig(configDir)
		if err != nil {
			return err
		}
		store, report, err := app.OpenStoreWithReport(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close(ctx)

		green := color.New(color.FgGreen).SprintFunc()
		if report.WorkoutsChanged == 0 && report.FromVersion == report.ToVersion {
			fmt.Printf("%s store already at schema v%d\n", green("✓"), report.ToVersion)
			return nil
		}
		fmt.Printf("%s migrated schema v%d -> v%d, %d workout(s) changed\n",
			green("✓"), report.FromVersion, report.ToVersion, report.WorkoutsChanged)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
