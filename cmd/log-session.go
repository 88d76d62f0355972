package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/HJewkes/voltra-playground-sub000/internal/models"
)

var (
	sessionWeight     float64
	sessionSets       int
	sessionReps       int
	sessionTargetReps int
	sessionRIR        float64
	sessionVL         float64
	sessionDeload     bool
	sessionDate       string
)

// logSessionCmd stores the summary of a finished session. The history
// snapshot, progression and deload checks all read these summaries.
var logSessionCmd = &cobra.Command{
	Use:   "log-session [exercise-name]",
	Short: "Log the summary of a finished session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if sessionWeight <= 0 {
			return errors.New("--weight must be positive")
		}
		if sessionSets <= 0 {
			return errors.New("--sets must be positive")
		}
		if sessionReps < 0 || sessionRIR < 0 {
			return errors.New("--reps and --rir must not be negative")
		}

		var date time.Time
		if sessionDate != "" {
			d, err := time.ParseInLocation("2006-01-02", sessionDate, time.Local)
			if err != nil {
				d, err = time.ParseInLocation("02/01/06", sessionDate, time.Local)
			}
			if err != nil {
				return fmt.Errorf("failed to parse date: %w", err)
			}
			date = d
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

		summary := models.SessionSummary{
			ExerciseID:      ex.ID,
			Date:            date,
			Weight:          sessionWeight,
			SetsCompleted:   sessionSets,
			TotalReps:       sessionReps,
			TargetReps:      sessionTargetReps,
			AvgRIR:          sessionRIR,
			AvgVelocityLoss: sessionVL,
			IsDeload:        sessionDeload,
		}
		id, err := st.RecordSession(summary)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ Logged %s: %.0f × %d sets, %d reps (session %s)\n",
			ex.Name, sessionWeight, sessionSets, sessionReps, id)
		return nil
	},
}

func init() {
	logSessionCmd.Flags().Float64VarP(&sessionWeight, "weight", "w", 0, "Working weight")
	logSessionCmd.Flags().IntVarP(&sessionSets, "sets", "s", 0, "Working sets completed")
	logSessionCmd.Flags().IntVarP(&sessionReps, "reps", "r", 0, "Total reps over all working sets")
	logSessionCmd.Flags().IntVar(&sessionTargetReps, "target-reps", 0, "Target reps per set")
	logSessionCmd.Flags().Float64Var(&sessionRIR, "rir", 2, "Average reps in reserve")
	logSessionCmd.Flags().Float64Var(&sessionVL, "vl", 0, "Average velocity loss in percent")
	logSessionCmd.Flags().BoolVar(&sessionDeload, "deload", false, "This was a deload session")
	logSessionCmd.Flags().StringVarP(&sessionDate, "date", "d", "", "Session date (e.g. 2025-02-07 or 07/02/25, default now)")

	logSessionCmd.MarkFlagRequired("weight")
	logSessionCmd.MarkFlagRequired("sets")
	logSessionCmd.MarkFlagRequired("reps")

	rootCmd.AddCommand(logSessionCmd)
}
