package main

import (
	"alcyxob/fitplan/internal/service"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	listQuery string
	listType  string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List workout plans with their ids",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		workouts, err := a.Services.Workouts.ListWorkouts(ctx, service.WorkoutFilter{Query: listQuery, Type: listType})
		if err != nil {
			return err
		}
		if len(workouts) == 0 {
			fmt.Println("No workouts found.")
			return nil
		}

		cyan := color.New(color.FgCyan).SprintFunc()
		faint := color.New(color.Faint).SprintFunc()
		for _, w := range workouts {
			fmt.Printf("%s  %s\n", faint(w.ID), cyan(w.DisplayName()))
			fmt.Printf("    %s · %s · %d weeks · %d exercises · updated %s\n",
				w.ClientName, w.WorkoutType, w.Duration, w.ExerciseCount(), w.UpdatedAt.Format("2006-01-02"))
		}
		fmt.Println(strings.Repeat("-", 60))
		fmt.Printf("%d workout(s)\n", len(workouts))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "Search over name, client, coach and type")
	listCmd.Flags().StringVarP(&listType, "type", "t", "", "Only this workout type")
}
