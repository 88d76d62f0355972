package cmd

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/HJewkes/voltra-playground-sub000/internal/models"
)

var (
	exerciseName string
	exerciseType string
)

var addExerciseCmd = &cobra.Command{
	Use:   "add-exercise",
	Short: "Create a new exercise",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStorage()
		if err != nil {
			return err
		}
		defer st.Close()

		ex, err := st.CreateExercise(exerciseName, models.ExerciseType(exerciseType))
		if err != nil {
			return fmt.Errorf("Failed to create exercise: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ Created exercise: %s (%s)\n", ex.Name, ex.Type)
		return nil
	},
}

type exerciseImport struct {
	Exercises []struct {
		Name string `toml:"name"`
		Type string `toml:"type"`
	} `toml:"exercises"`
}

var importExercisesCmd = &cobra.Command{
	Use:   "import-exercises [file]",
	Short: "Import exercises from TOML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		var importData exerciseImport
		if err := toml.Unmarshal(data, &importData); err != nil {
			return fmt.Errorf("invalid TOML format: %w", err)
		}

		st, err := openStorage()
		if err != nil {
			return err
		}
		defer st.Close()

		imported := 0
		for _, ex := range importData.Exercises {
			exists, err := st.ExerciseExists(ex.Name)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			typ := models.ExerciseType(ex.Type)
			if typ == "" {
				typ = models.ExerciseCompound
			}
			if _, err := st.CreateExercise(ex.Name, typ); err != nil {
				return fmt.Errorf("failed to create exercise %s: %w", ex.Name, err)
			}
			imported++
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ Imported %d exercises\n", imported)
		return nil
	},
}

var listExercisesCmd = &cobra.Command{
	Use:   "list-exercises",
	Short: "List all exercises",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStorage()
		if err != nil {
			return err
		}
		defer st.Close()

		exercises, err := st.ListExercises()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(exercises) == 0 {
			fmt.Fprintln(out, "No exercises yet.")
			return nil
		}
		for _, ex := range exercises {
			fmt.Fprintf(out, "%s %s\n", boldCyan(ex.Name), magenta(string(ex.Type)))
		}
		return nil
	},
}

func init() {
	addExerciseCmd.Flags().StringVarP(&exerciseName, "name", "n", "", "Exercise name")
	addExerciseCmd.Flags().StringVarP(&exerciseType, "type", "t", string(models.ExerciseCompound), "compound or isolation")

	addExerciseCmd.MarkFlagRequired("name")

	rootCmd.AddCommand(addExerciseCmd)
	rootCmd.AddCommand(importExercisesCmd)
	rootCmd.AddCommand(listExercisesCmd)
}
