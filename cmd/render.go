package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/HJewkes/voltra-playground-sub000/internal/models"
	"github.com/HJewkes/voltra-playground-sub000/internal/planning"
	"github.com/HJewkes/voltra-playground-sub000/internal/utils"
)

var (
	boldGreen = color.New(color.FgGreen, color.Bold).SprintFunc()
	boldCyan  = color.New(color.FgCyan, color.Bold).SprintFunc()
	boldRed   = color.New(color.FgRed, color.Bold).SprintFunc()
	magenta   = color.New(color.FgMagenta).SprintFunc()
	yellow    = color.New(color.FgYellow).SprintFunc()
	blue      = color.New(color.FgBlue).SprintFunc()
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatSet(s models.PlannedSet) string {
	reps := fmt.Sprintf("%d", s.TargetReps)
	if s.RepRange != nil {
		reps = s.RepRange.String()
	}
	if s.IsWarmup {
		return fmt.Sprintf("%s %s %.0f × %s", blue(fmt.Sprintf("#%d", s.SetNumber)), magenta("warmup"), s.Weight, reps)
	}
	return fmt.Sprintf("%s %.0f × %s @ %d RIR", blue(fmt.Sprintf("#%d", s.SetNumber)), s.Weight, reps, s.RIRTarget)
}

func renderPlan(w io.Writer, res models.PlanResult) {
	if res.ShouldStop {
		fmt.Fprintf(w, "%s %s\n", boldRed("Stop:"), res.StopReason)
		fmt.Fprintf(w, "  %s\n", res.Message)
		return
	}

	if res.Recommendation != nil {
		renderRecommendation(w, *res.Recommendation)
		fmt.Fprintln(w)
	} else if res.DiscoveryStep != nil {
		renderDiscoveryStep(w, *res.DiscoveryStep)
		return
	}

	fmt.Fprintln(w, boldGreen("Next set:"))
	if res.NextSet != nil {
		fmt.Fprintf(w, "  %s\n", formatSet(*res.NextSet))
	}
	if res.RestSeconds > 0 {
		fmt.Fprintf(w, "  %s: %ds\n", boldCyan("Rest before"), res.RestSeconds)
	}
	if len(res.RemainingSets) > 0 {
		fmt.Fprintln(w, boldGreen("Then:"))
		for _, s := range res.RemainingSets {
			fmt.Fprintf(w, "  %s\n", formatSet(s))
		}
	}
	if len(res.Adjustments) > 0 {
		fmt.Fprintln(w, boldGreen("Adjustments:"))
		for _, a := range res.Adjustments {
			fmt.Fprintf(w, "  %s %g → %g (%s, %s confidence)\n", yellow(string(a.Type)), a.From, a.To, a.Reason, a.Confidence)
		}
	}
	if res.Strength.Estimated1RM > 0 {
		fmt.Fprintf(w, "%s: %.1f (%s)\n", boldCyan("Estimated 1RM"), res.Strength.Estimated1RM, res.Strength.Source)
	}
	if res.Message != "" {
		fmt.Fprintln(w, res.Message)
	}
}

func renderDiscoveryStep(w io.Writer, step models.DiscoveryStep) {
	fmt.Fprintf(w, "%s %s\n", boldGreen(fmt.Sprintf("Discovery set %d", step.SetNumber)), magenta(string(step.Phase)))
	fmt.Fprintf(w, "  %s: %.0f × %d\n", boldCyan("Load"), step.Weight, step.TargetReps)
	if step.RestSeconds > 0 {
		fmt.Fprintf(w, "  %s: %ds\n", boldCyan("Rest before"), step.RestSeconds)
	}
	fmt.Fprintf(w, "  %s\n", step.Instruction)
}

func renderRecommendation(w io.Writer, rec models.DiscoveryRecommendation) {
	fmt.Fprintln(w, boldGreen("Discovery complete"))
	fmt.Fprintf(w, "  %s: %.1f (%s confidence)\n", boldCyan("Estimated 1RM"), rec.Estimated1RM, rec.Confidence)
	fmt.Fprintf(w, "  %s: %.0f × %s\n", boldCyan("Working weight"), rec.WorkingWeight, rec.RepRange)
	if len(rec.WarmupSets) > 0 {
		parts := make([]string, 0, len(rec.WarmupSets))
		for _, ws := range rec.WarmupSets {
			parts = append(parts, fmt.Sprintf("%.0f×%d", ws.Weight, ws.Reps))
		}
		fmt.Fprintf(w, "  %s: %s\n", boldCyan("Warmups"), strings.Join(parts, ", "))
	}
	if rec.Profile.Valid {
		fmt.Fprintf(w, "  %s: v = %.4f·load + %.3f (R² %.2f)\n", boldCyan("Profile"), rec.Profile.Slope, rec.Profile.Intercept, rec.Profile.RSquared)
		fmt.Fprintf(w, "  %s: %.2f m/s at %.0f\n", boldCyan("Expected first rep"), utils.PredictVelocity(rec.Profile, rec.WorkingWeight), rec.WorkingWeight)
	}
	fmt.Fprintf(w, "  %s\n", rec.Explanation)
}

func renderProgression(w io.Writer, r planning.ProgressionResult, trend *models.TrendAnalysis) {
	action := string(r.Action)
	switch r.Action {
	case models.ActionIncrease:
		action = boldGreen(action)
	case models.ActionDecrease:
		action = boldRed(action)
	default:
		action = yellow(action)
	}
	fmt.Fprintf(w, "%s %s (%s scheme, %s confidence)\n", boldCyan("Next session:"), action, r.Scheme, r.Confidence)
	fmt.Fprintf(w, "  %s: %.0f (%+.0f)\n", boldCyan("Weight"), r.NewWeight, r.WeightChange)
	fmt.Fprintf(w, "  %s\n", r.Reason)

	if trend == nil {
		fmt.Fprintf(w, "%s: not enough sessions\n", boldCyan("Trend"))
		return
	}
	fmt.Fprintf(w, "%s: %s over %d sessions (weight %+.1f, reps %+.0f%%, velocity loss %+.1f)\n",
		boldCyan("Trend"), planning.TrendDirectionOf(trend), trend.SessionsAnalyzed,
		trend.WeightDelta, trend.RepChangePercent, trend.VelocityLossDelta)
}

func renderVolumeLandmarks(w io.Writer, level models.TrainingLevel, v planning.VolumeLandmarks) {
	fmt.Fprintf(w, "%s (%s, sets per muscle): MEV %d, MAV %d, MRV %d\n",
		boldCyan("Weekly volume"), level, v.MEV, v.MAV, v.MRV)
}

func renderDeload(w io.Writer, week models.DeloadWeek, weight float64, sets int) {
	t := week.Trigger
	fmt.Fprintf(w, "%s %s trigger, %s\n", boldRed("Deload recommended:"), t.TriggerType, yellow(string(t.Severity)))
	fmt.Fprintf(w, "  %s\n", t.Description)
	fmt.Fprintf(w, "  %s: %d days, %s\n", boldCyan("Duration"), week.DurationDays, week.Mode)
	fmt.Fprintf(w, "  %s: -%.0f%% volume, -%.0f%% intensity, at least %d RIR\n",
		boldCyan("Prescription"), week.VolumeReduction, week.IntensityReduction, week.MinRIR)
	if weight > 0 {
		fmt.Fprintf(w, "  %s: %d sets at %.0f\n", boldCyan("Deload sessions"), sets, weight)
	}
}
