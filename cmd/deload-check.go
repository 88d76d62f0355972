package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/HJewkes/voltra-playground-sub000/internal/planning"
)

var deloadLevel string

var deloadCheckCmd = &cobra.Command{
	Use:   "deload-check [exercise-name]",
	Short: "Check whether an exercise is due for a deload week",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := levelFlag(deloadLevel)
		if err != nil {
			return err
		}

		st, err := openStorage()
		if err != nil {
			return err
		}
		defer st.Close()

		ex, err := lookupExercise(st, args[0])
		if err != nil {
			return err
		}

		now := time.Now()
		weeks, err := st.WeeksSinceDeload(ex.ID, now)
		if err != nil {
			return err
		}
		recent, err := st.GetRecentSessions(ex.ID, 3)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		trigger := planning.CheckDeloadNeeded(level, weeks, recent, now)
		if trigger == nil {
			fmt.Fprintf(out, "✅ No deload needed for %s (%d weeks since the last one)\n", ex.Name, weeks)
			return nil
		}

		week := planning.CreateDeloadWeek(trigger)
		var weight float64
		var sets int
		if len(recent) > 0 {
			last := recent[len(recent)-1]
			weight, sets = planning.ApplyDeload(last.Weight, last.SetsCompleted, week)
		}
		renderDeload(out, week, weight, sets)
		return nil
	},
}

func init() {
	deloadCheckCmd.Flags().StringVarP(&deloadLevel, "level", "l", "", "Training level (default from config)")
	rootCmd.AddCommand(deloadCheckCmd)
}
