package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/HJewkes/voltra-playground-sub000/internal/utils"
)

var showExJSON bool

var showExCmd = &cobra.Command{
	Use:   "show-ex [exercise-name]",
	Short: "Display an exercise and the history snapshot the planner sees",
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
		h, err := st.GetHistoricalMetrics(ex.ID, time.Now())
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}

		out := cmd.OutOrStdout()
		if showExJSON {
			return writeJSON(out, h)
		}

		fmt.Fprintln(out, boldGreen("Exercise Information:"))
		fmt.Fprintf(out, "  %s: %s\n", boldCyan("Name"), ex.Name)
		fmt.Fprintf(out, "  %s: %s\n", boldCyan("Type"), ex.Type)
		fmt.Fprintf(out, "  %s: %s\n", boldCyan("Created At"), utils.FormatLocal(ex.CreatedAt, time.Local))
		fmt.Fprintln(out)

		fmt.Fprintln(out, boldGreen("History:"))
		fmt.Fprintf(out, "  %s: %d\n", boldCyan("Sessions"), h.SessionCount)
		if h.LastWorkingWeight == nil {
			fmt.Fprintf(out, "  %s\n", yellow("No working weight yet, run `voltra discover start`."))
			return nil
		}
		fmt.Fprintf(out, "  %s: %.0f\n", boldCyan("Working weight"), *h.LastWorkingWeight)
		fmt.Fprintf(out, "  %s: %.1f\n", boldCyan("Estimated 1RM"), h.RecentEstimated1RM)
		if h.AvgRepsAtWeight > 0 {
			fmt.Fprintf(out, "  %s: %.1f\n", boldCyan("Avg reps per set"), h.AvgRepsAtWeight)
		}
		if h.Trend != "" {
			fmt.Fprintf(out, "  %s: %s\n", boldCyan("Trend"), h.Trend)
		}
		if h.DaysSinceLastSession != nil {
			fmt.Fprintf(out, "  %s: %d days ago\n", boldCyan("Last session"), *h.DaysSinceLastSession)
		}

		if len(h.VelocityBaseline) > 0 {
			loads := make([]float64, 0, len(h.VelocityBaseline))
			for k := range h.VelocityBaseline {
				if w, err := strconv.ParseFloat(k, 64); err == nil {
					loads = append(loads, w)
				}
			}
			sort.Float64s(loads)
			fmt.Fprintln(out, boldGreen("Velocity baseline:"))
			for _, w := range loads {
				v := h.VelocityBaseline[strconv.FormatFloat(w, 'f', -1, 64)]
				fmt.Fprintf(out, "  %6.0f  %s\n", w, magenta(fmt.Sprintf("%.2f m/s", v)))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showExCmd)
	showExCmd.Flags().BoolVar(&showExJSON, "json", false, "Print the snapshot as JSON")
}
