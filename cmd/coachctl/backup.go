package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export or import the whole store as a JSON backup",
}

var backupExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write a backup; the default name is backup-YYYY-MM-DD.json",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		file, err := a.Services.Backup.Export(ctx)
		if err != nil {
			return fmt.Errorf("export backup: %w", err)
		}
		path := file.Filename
		if len(args) == 1 {
			path = args[0]
		}
		if err := os.WriteFile(path, file.Data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s backup written to %s (%d bytes)\n", green("✓"), path, len(file.Data))
		if file.ArchiveURL != "" {
			fmt.Printf("  archived: %s\n", file.ArchiveURL)
		}
		return nil
	},
}

var assumeYes bool

var backupImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace ALL stored data with the content of a backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		if !assumeYes {
			return fmt.Errorf("import replaces every workout, client and the coach profile; rerun with --yes to confirm")
		}

		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		summary, err := a.Services.Backup.Import(ctx, data)
		if err != nil {
			return fmt.Errorf("import backup: %w", err)
		}
		green := color.New(color.FgGreen).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		fmt.Printf("%s backup imported\n", green("✓"))
		fmt.Printf("  %s: %d\n  %s: %d\n  %s: %t\n",
			cyan("Workouts"), summary.Workouts,
			cyan("Clients"), summary.Clients,
			cyan("Coach profile"), summary.CoachProfile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupExportCmd, backupImportCmd)
	backupImportCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Confirm replacing all data")
}
