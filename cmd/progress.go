package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HJewkes/voltra-playground-sub000/internal/models"
	"github.com/HJewkes/voltra-playground-sub000/internal/planning"
)

var (
	progressScheme string
	progressLevel  string
	progressGoal   string
	progressJSON   bool
)

// progressCmd recommends the weight of the next session from the last one.
var progressCmd = &cobra.Command{
	Use:   "progress [exercise-name]",
	Short: "Recommend the next session's weight from the logged sessions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		goal, err := goalFlag(progressGoal)
		if err != nil {
			return err
		}
		level, err := levelFlag(progressLevel)
		if err != nil {
			return err
		}
		scheme := planning.SelectProgressionScheme(level, goal)
		if progressScheme != "" {
			scheme = models.ProgressionScheme(progressScheme)
			switch scheme {
			case models.SchemeLinear, models.SchemeDouble, models.SchemeAutoregulated:
			default:
				return fmt.Errorf("unknown scheme %q (linear, double or autoregulated)", progressScheme)
			}
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
		sessions, err := st.GetRecentSessions(ex.ID, 0)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			return fmt.Errorf("no sessions logged for %s yet", ex.Name)
		}

		last := sessions[len(sessions)-1]
		trend := planning.AnalyzeTrend(sessions, 0)
		in := planning.ProgressionInput{
			CurrentWeight:   last.Weight,
			TotalReps:       last.TotalReps,
			SetsCompleted:   last.SetsCompleted,
			RepRange:        planning.RepRangeFor(goal),
			AvgRIR:          last.AvgRIR,
			AvgVelocityLoss: last.AvgVelocityLoss,
			Goal:            goal,
			ExerciseType:    ex.Type,
			Trend:           planning.TrendDirectionOf(trend),
		}
		res := planning.CalculateProgression(scheme, in)
		volume := planning.VolumeLandmarksFor(level)

		if progressJSON {
			return writeJSON(cmd.OutOrStdout(), struct {
				Progression planning.ProgressionResult `json:"progression"`
				Trend       *models.TrendAnalysis      `json:"trend,omitempty"`
				Volume      planning.VolumeLandmarks   `json:"volume_landmarks"`
			}{res, trend, volume})
		}
		renderProgression(cmd.OutOrStdout(), res, trend)
		renderVolumeLandmarks(cmd.OutOrStdout(), level, volume)
		return nil
	},
}

func init() {
	progressCmd.Flags().StringVar(&progressScheme, "scheme", "", "linear, double or autoregulated (default picked from level and goal)")
	progressCmd.Flags().StringVarP(&progressLevel, "level", "l", "", "Training level (default from config)")
	progressCmd.Flags().StringVarP(&progressGoal, "goal", "g", "", "Training goal (default from config)")
	progressCmd.Flags().BoolVar(&progressJSON, "json", false, "Print the result as JSON")

	rootCmd.AddCommand(progressCmd)
}
