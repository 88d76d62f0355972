package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/HJewkes/voltra-playground-sub000/internal/config"
	"github.com/HJewkes/voltra-playground-sub000/internal/models"
	"github.com/HJewkes/voltra-playground-sub000/internal/storage"
)

var (
	cfgPath string
	verbose bool
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "voltra",
	Short:         "Velocity-based load planning for resistance training",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		cfg = c

		level := cfg.SlogLevel()
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file (default ~/.config/voltra/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log planner decisions to stderr")
}

func openStorage() (*storage.Storage, error) {
	st, err := storage.Open(cfg.DB.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("Failed to open storage: %w", err)
	}
	return st, nil
}

func lookupExercise(st *storage.Storage, name string) (*models.Exercise, error) {
	ex, err := st.GetExerciseByName(name)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("unknown exercise %q, create it with `voltra add-exercise`", name)
	}
	return ex, err
}

// goalFlag returns the goal given on the command line or the configured default.
func goalFlag(v string) (models.TrainingGoal, error) {
	if v == "" {
		return cfg.Planner.DefaultGoal, nil
	}
	g := models.TrainingGoal(v)
	if !g.Valid() {
		return "", fmt.Errorf("unknown goal %q (strength, hypertrophy or endurance)", v)
	}
	return g, nil
}

func levelFlag(v string) (models.TrainingLevel, error) {
	if v == "" {
		return cfg.Planner.DefaultLevel, nil
	}
	l := models.TrainingLevel(v)
	if !l.Valid() {
		return "", fmt.Errorf("unknown level %q (novice, intermediate or advanced)", v)
	}
	return l, nil
}
