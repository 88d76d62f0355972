package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/HJewkes/voltra-playground-sub000/internal/models"
	"github.com/HJewkes/voltra-playground-sub000/internal/planning"
	"github.com/HJewkes/voltra-playground-sub000/internal/utils"
)

var (
	planJSON     bool
	planHistory  string
	planGoal     string
	planSkipWarm bool
)

var planCmd = &cobra.Command{
	Use:   "plan [context-file]",
	Short: "Run the planner on a planning context (TOML, YAML or JSON)",
	Long: `Run the planner on a planning context.

The context file holds the fields of a planning context (goal, level,
exercise_type, session_metrics, completed_sets, overrides, discovery
fields...). Anything the file leaves out falls back to the config
defaults. With --history the stored history of an exercise is attached;
with only --history a fresh session is planned.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && planHistory == "" {
			return errors.New("give a context file, --history <exercise>, or both")
		}

		pc := models.PlanningContext{
			Goal:             cfg.Planner.DefaultGoal,
			Level:            cfg.Planner.DefaultLevel,
			SessionMetrics:   models.NewSessionMetrics(),
			ApplyProgression: cfg.Planner.ApplyProgression,
		}
		if len(args) == 1 {
			if err := utils.DecodeFile(args[0], &pc); err != nil {
				return fmt.Errorf("Failed to read context %s: %w", args[0], err)
			}
		}
		if planGoal != "" {
			g, err := goalFlag(planGoal)
			if err != nil {
				return err
			}
			pc.Goal = g
		}
		if planSkipWarm {
			if pc.Overrides == nil {
				pc.Overrides = &models.Overrides{}
			}
			pc.Overrides.SkipWarmups = true
		}

		if planHistory != "" {
			if err := attachHistory(&pc, planHistory); err != nil {
				return err
			}
		}

		if err := pc.Validate(); err != nil {
			return fmt.Errorf("invalid planning context:\n%w", err)
		}

		planner := planning.NewPlanner(
			planning.WithLogger(slog.Default()),
			planning.WithWorkingSets(cfg.Planner.WorkingSets),
		)
		res := planner.Plan(pc)

		if planJSON {
			return writeJSON(cmd.OutOrStdout(), res)
		}
		renderPlan(cmd.OutOrStdout(), res)
		return nil
	},
}

func attachHistory(pc *models.PlanningContext, name string) error {
	st, err := openStorage()
	if err != nil {
		return err
	}
	defer st.Close()

	ex, err := lookupExercise(st, name)
	if err != nil {
		return err
	}
	h, err := st.GetHistoricalMetrics(ex.ID, time.Now())
	if err != nil {
		return fmt.Errorf("Failed to load history of %s: %w", name, err)
	}

	pc.HistoricalMetrics = h
	if pc.ExerciseID == "" {
		pc.ExerciseID = ex.ID
	}
	if pc.ExerciseType == "" {
		pc.ExerciseType = ex.Type
	}
	return nil
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().BoolVar(&planJSON, "json", false, "Print the plan result as JSON")
	planCmd.Flags().StringVar(&planHistory, "history", "", "Attach the stored history of this exercise")
	planCmd.Flags().StringVarP(&planGoal, "goal", "g", "", "Override the training goal")
	planCmd.Flags().BoolVar(&planSkipWarm, "skip-warmups", false, "Plan working sets only")
}
