package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/HJewkes/voltra-playground-sub000/internal/models"
)

var (
	historyLimit int
	filterDay    string
)

// historyCmd lists the logged sessions of an exercise.
var historyCmd = &cobra.Command{
	Use:   "history [exercise-name]",
	Short: "Display the logged sessions of an exercise, optionally filtered by day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStorage()
		if err != nil {
			return err
		}
		defer st.Close()

		ex, err := lookupExercise(st, args[0])
		if err != nil {
			return err
		}
		var sessions []models.SessionSummary
		if filterDay != "" {
			parsedDay, err := time.ParseInLocation("2006-01-02", filterDay, time.Local)
			if err != nil {
				parsedDay, err = time.ParseInLocation("02/01/06", filterDay, time.Local)
			}
			if err != nil {
				return fmt.Errorf("failed to parse day: %w", err)
			}
			sessions, err = st.GetSessionsOn(ex.ID, parsedDay)
			if err != nil {
				return fmt.Errorf("failed to retrieve sessions: %w", err)
			}
		} else {
			sessions, err = st.GetRecentSessions(ex.ID, historyLimit)
			if err != nil {
				return fmt.Errorf("failed to retrieve sessions: %w", err)
			}
		}

		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintf(out, "No sessions logged for %s.\n", ex.Name)
			return nil
		}

		fmt.Fprintf(out, "%s %s\n", boldGreen("Exercise:"), ex.Name)
		for _, s := range sessions {
			line := fmt.Sprintf("  %s | %.0f × %d sets, %d reps | RIR %.1f | VL %.0f%% | e1RM %.1f",
				s.Date.Local().Format("2006-01-02 15:04"),
				s.Weight, s.SetsCompleted, s.TotalReps,
				s.AvgRIR, s.AvgVelocityLoss, s.Estimated1RM,
			)
			if s.IsDeload {
				line += " " + magenta("deload")
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "Number of sessions to show (ignored with --day)")
	historyCmd.Flags().StringVarP(&filterDay, "day", "d", "", "Filter by day (e.g. 2025-02-07 or 07/02/25)")
}
