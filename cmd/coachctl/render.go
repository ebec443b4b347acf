package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var outputPath string

var renderCmd = &cobra.Command{
	Use:   "render <workout-id>",
	Short: "Render a workout plan to PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		plan, err := a.Services.Documents.RenderWorkout(ctx, args[0])
		if err != nil {
			return err
		}
		path := outputPath
		if path == "" {
			path = plan.Filename
		}
		if err := os.WriteFile(path, plan.Data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}

		green := color.New(color.FgGreen).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Printf("%s %s (%d pages)\n", green("✓"), path, plan.Pages)
		if plan.SkippedImages > 0 {
			fmt.Printf("  %s %d image(s) could not be decoded and were left out\n", yellow("!"), plan.SkippedImages)
		}
		if plan.SuggestedPath != plan.Filename {
			fmt.Printf("  suggested location: %s\n", plan.SuggestedPath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default plan-{client}.pdf)")
}
