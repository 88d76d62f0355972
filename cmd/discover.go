package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HJewkes/voltra-playground-sub000/internal/models"
	"github.com/HJewkes/voltra-playground-sub000/internal/planning"
	"github.com/HJewkes/voltra-playground-sub000/internal/storage"
	"github.com/HJewkes/voltra-playground-sub000/internal/utils"
)

var (
	discoverGoal  string
	discoverGuess float64
	discoverLight float64

	resultWeight   float64
	resultReps     int
	resultVelocity float64
	resultPeak     float64
	resultRPE      float64
	resultFailed   bool
	resultNotes    string
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find a starting working weight with a guided discovery run",
}

var discoverStartCmd = &cobra.Command{
	Use:   "start [exercise-name]",
	Short: "Start (or restart) the discovery run of an exercise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		goal, err := goalFlag(discoverGoal)
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
		if err := st.DeleteDiscoveryState(ex.ID); err != nil {
			return err
		}

		opts := planning.FirstStepOptions{}
		if discoverGuess > 0 {
			opts.GuessedMax = &discoverGuess
		}
		if discoverLight > 0 {
			opts.LightWeight = &discoverLight
		}
		state, step := planning.GetFirstDiscoveryStep(ex.ID, ex.Type, goal, opts)
		if err := st.SaveDiscoveryState(state); err != nil {
			return err
		}

		renderDiscoveryStep(cmd.OutOrStdout(), step)
		return nil
	},
}

var discoverRecordCmd = &cobra.Command{
	Use:   "record [exercise-name]",
	Short: "Record the result of the last discovery set and get the next one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if resultWeight <= 0 {
			return errors.New("--weight must be positive")
		}
		if resultVelocity < 0 {
			return errors.New("--velocity must not be negative")
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
		state, err := loadDiscovery(st, ex)
		if err != nil {
			return err
		}
		if state.Phase == models.PhaseComplete {
			return fmt.Errorf("discovery for %s is complete, run `voltra discover start %s` to redo it", ex.Name, ex.Name)
		}

		result := models.DiscoverySetResult{
			Weight:       resultWeight,
			Reps:         resultReps,
			MeanVelocity: resultVelocity,
			PeakVelocity: resultPeak,
			Failed:       resultFailed,
			Notes:        resultNotes,
		}
		if resultPeak == 0 {
			result.PeakVelocity = resultVelocity
		}
		if cmd.Flags().Changed("rpe") {
			result.RPE = &resultRPE
		}

		next := planning.RecordDiscoveryResult(*state, result)
		out := cmd.OutOrStdout()
		switch o := planning.GetNextDiscoveryStep(next).(type) {
		case planning.StepOutcome:
			if err := st.SaveDiscoveryState(o.State); err != nil {
				return err
			}
			renderDiscoveryStep(out, o.Step)
		case planning.RecommendationOutcome:
			if err := st.SaveDiscoveryState(o.State); err != nil {
				return err
			}
			if err := st.SaveRecommendation(ex.ID, o.Recommendation); err != nil {
				return err
			}
			renderRecommendation(out, o.Recommendation)
		}
		return nil
	},
}

var discoverShowCmd = &cobra.Command{
	Use:   "show [exercise-name]",
	Short: "Show the discovery run of an exercise",
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
		state, err := loadDiscovery(st, ex)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s (%s, goal %s)\n", boldGreen("Discovery:"), ex.Name, magenta(string(state.Phase)), state.Goal)
		for i, r := range state.Results {
			line := fmt.Sprintf("  %s %.0f × %d @ %.2f m/s (%s)",
				blue(fmt.Sprintf("#%d", i+1)), r.Weight, r.Reps, r.MeanVelocity, planning.ClassifyVelocity(r.MeanVelocity))
			if r.Failed {
				line += " " + boldRed("failed")
			}
			fmt.Fprintln(out, line)
		}

		if state.Phase != models.PhaseComplete {
			return nil
		}
		rec, err := st.LoadRecommendation(ex.ID)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		renderRecommendation(out, *rec)
		return nil
	},
}

var discoverExportCmd = &cobra.Command{
	Use:   "export [exercise-name] [output-file]",
	Short: "Write the discovery run of an exercise to a TOML file",
	Args:  cobra.RangeArgs(1, 2),
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
		state, err := loadDiscovery(st, ex)
		if err != nil {
			return err
		}

		doc := discoveryExport{State: *state}
		if rec, err := st.LoadRecommendation(ex.ID); err == nil {
			doc.Recommendation = rec
		} else if !errors.Is(err, storage.ErrNotFound) {
			return err
		}

		path := "discovery.toml"
		if len(args) == 2 {
			path = args[1]
		}
		if err := utils.WriteTOMLFile(path, doc); err != nil {
			return fmt.Errorf("Failed to export discovery: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Discovery of %s exported to %s\n", ex.Name, path)
		return nil
	},
}

type discoveryExport struct {
	State          models.DiscoveryState           `json:"state"`
	Recommendation *models.DiscoveryRecommendation `json:"recommendation,omitempty"`
}

func loadDiscovery(st *storage.Storage, ex *models.Exercise) (*models.DiscoveryState, error) {
	state, err := st.LoadDiscoveryState(ex.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("no discovery run for %s, start one with `voltra discover start %s`", ex.Name, ex.Name)
	}
	return state, err
}

func init() {
	discoverStartCmd.Flags().StringVarP(&discoverGoal, "goal", "g", "", "Training goal (default from config)")
	discoverStartCmd.Flags().Float64Var(&discoverGuess, "guess", 0, "Guessed one-rep max; the run starts at 30% of it")
	discoverStartCmd.Flags().Float64Var(&discoverLight, "light", 0, "A weight you know is light")

	discoverRecordCmd.Flags().Float64VarP(&resultWeight, "weight", "w", 0, "Weight lifted")
	discoverRecordCmd.Flags().IntVarP(&resultReps, "reps", "r", 0, "Reps completed")
	discoverRecordCmd.Flags().Float64Var(&resultVelocity, "velocity", 0, "Mean concentric velocity in m/s")
	discoverRecordCmd.Flags().Float64Var(&resultPeak, "peak", 0, "Peak concentric velocity in m/s (default: mean)")
	discoverRecordCmd.Flags().Float64Var(&resultRPE, "rpe", 0, "Rating of perceived exertion")
	discoverRecordCmd.Flags().BoolVar(&resultFailed, "failed", false, "The set ended in failure")
	discoverRecordCmd.Flags().StringVar(&resultNotes, "notes", "", "Notes for the set")

	discoverRecordCmd.MarkFlagRequired("weight")
	discoverRecordCmd.MarkFlagRequired("reps")
	discoverRecordCmd.MarkFlagRequired("velocity")

	discoverCmd.AddCommand(discoverStartCmd, discoverRecordCmd, discoverShowCmd, discoverExportCmd)
	rootCmd.AddCommand(discoverCmd)
}
