package planning

import (
	"fmt"
	"math"
	"time"

	"github.com/HJewkes/voltra-playground-sub000/internal/models"
)

type ProgressionInput struct {
	CurrentWeight   float64
	TotalReps       int
	SetsCompleted   int
	RepRange        models.RepRange
	AvgRIR          float64
	AvgVelocityLoss float64
	Goal            models.TrainingGoal
	ExerciseType    models.ExerciseType
	Trend           models.TrendDirection
}

func (in ProgressionInput) repsPerSet() float64 {
	if in.SetsCompleted <= 0 {
		return 0
	}
	return float64(in.TotalReps) / float64(in.SetsCompleted)
}

type ProgressionResult struct {
	Scheme       models.ProgressionScheme
	Action       models.ProgressionAction
	WeightChange float64
	NewWeight    float64
	Reason       string
	Confidence   models.Confidence
}

func progress(in ProgressionInput, scheme models.ProgressionScheme, action models.ProgressionAction, conf models.Confidence, reason string) ProgressionResult {
	newWeight := in.CurrentWeight
	step := ProgressionIncrement(in.ExerciseType)
	switch action {
	case models.ActionIncrease:
		newWeight = QuantizeWeight(in.CurrentWeight + step)
	case models.ActionDecrease:
		newWeight = QuantizeWeight(in.CurrentWeight - step)
	}
	return ProgressionResult{
		Scheme:       scheme,
		Action:       action,
		WeightChange: newWeight - in.CurrentWeight,
		NewWeight:    newWeight,
		Reason:       reason,
		Confidence:   conf,
	}
}

// LinearProgression adds weight every session the bottom of the rep range
// was reached.
func LinearProgression(in ProgressionInput) ProgressionResult {
	rps := in.repsPerSet()
	if rps >= float64(in.RepRange.Low()) {
		return progress(in, models.SchemeLinear, models.ActionIncrease, models.ConfidenceHigh,
			fmt.Sprintf("averaged %.1f reps per set, at least %d: add weight", rps, in.RepRange.Low()))
	}
	return progress(in, models.SchemeLinear, models.ActionMaintain, models.ConfidenceMedium,
		fmt.Sprintf("averaged %.1f reps per set, under %d: repeat the weight", rps, in.RepRange.Low()))
}

// DoubleProgression builds reps up to the top of the range before adding
// weight.
func DoubleProgression(in ProgressionInput) ProgressionResult {
	rps := in.repsPerSet()
	low, high := float64(in.RepRange.Low()), float64(in.RepRange.High())

	switch {
	case rps >= high && in.AvgRIR >= 2:
		return progress(in, models.SchemeDouble, models.ActionIncrease, models.ConfidenceHigh,
			fmt.Sprintf("top of the %s range with %.0f RIR: add weight", in.RepRange, in.AvgRIR))
	case rps >= high:
		return progress(in, models.SchemeDouble, models.ActionMaintain, models.ConfidenceMedium,
			fmt.Sprintf("top of the %s range but only %.0f RIR: consolidate before adding weight", in.RepRange, in.AvgRIR))
	case rps >= low:
		return progress(in, models.SchemeDouble, models.ActionMaintain, models.ConfidenceHigh,
			fmt.Sprintf("%.1f reps per set inside the %s range: keep building reps", rps, in.RepRange))
	}
	return progress(in, models.SchemeDouble, models.ActionMaintain, models.ConfidenceLow,
		fmt.Sprintf("%.1f reps per set is below the %s range", rps, in.RepRange))
}

// AutoregulatedProgression steers by velocity loss. Rules in order:
// 1. velocity loss under target.Min-5: increase
// 2. improving trend with at least 2 RIR: increase
// 3. velocity loss over target.Max+10: decrease
// 4. otherwise maintain
func AutoregulatedProgression(in ProgressionInput) ProgressionResult {
	target := VelocityLossTarget(in.Goal)
	vl := in.AvgVelocityLoss

	switch {
	case vl < target.Min-AutoregUnderTolerance:
		return progress(in, models.SchemeAutoregulated, models.ActionIncrease, models.ConfidenceHigh,
			fmt.Sprintf("velocity loss %.0f%% is way under the %.0f-%.0f%% target", vl, target.Min, target.Max))
	case in.Trend == models.TrendImproving && in.AvgRIR >= 2:
		return progress(in, models.SchemeAutoregulated, models.ActionIncrease, models.ConfidenceMedium,
			fmt.Sprintf("improving trend with %.0f RIR", in.AvgRIR))
	case vl > target.Max+AutoregOverTolerance:
		return progress(in, models.SchemeAutoregulated, models.ActionDecrease, models.ConfidenceHigh,
			fmt.Sprintf("velocity loss %.0f%% is way over the %.0f-%.0f%% target", vl, target.Min, target.Max))
	}
	return progress(in, models.SchemeAutoregulated, models.ActionMaintain, models.ConfidenceHigh,
		fmt.Sprintf("velocity loss %.0f%% is in range", vl))
}

// SelectProgressionScheme picks the default scheme for a lifter.
func SelectProgressionScheme(level models.TrainingLevel, goal models.TrainingGoal) models.ProgressionScheme {
	switch level {
	case models.LevelNovice:
		return models.SchemeLinear
	case models.LevelIntermediate:
		if goal == models.GoalStrength {
			return models.SchemeAutoregulated
		}
		return models.SchemeDouble
	case models.LevelAdvanced:
		return models.SchemeAutoregulated
	}
	return models.SchemeDouble
}

// CalculateProgression runs a scheme. Unknown schemes use double progression.
func CalculateProgression(scheme models.ProgressionScheme, in ProgressionInput) ProgressionResult {
	switch scheme {
	case models.SchemeLinear:
		return LinearProgression(in)
	case models.SchemeAutoregulated:
		return AutoregulatedProgression(in)
	default:
		return DoubleProgression(in)
	}
}

const (
	DeloadVolumeReduction    = 50.0
	DeloadIntensityReduction = 15.0
	DeloadMinRIR             = 4
	DeloadDurationDays       = 7

	deloadPerformanceWindow = 3
)

// CheckDeloadNeeded looks for a reason to deload. The time trigger is
// checked first; otherwise the last three sessions (oldest first) are
// checked for rising velocity loss, then for missed rep targets.
func CheckDeloadNeeded(level models.TrainingLevel, weeksSinceDeload int, recent []models.SessionSummary, now time.Time) *models.DeloadTrigger {
	if threshold := DeloadWeeksThreshold(level); weeksSinceDeload >= threshold {
		return &models.DeloadTrigger{
			TriggerType: models.DeloadTriggerTime,
			Description: fmt.Sprintf("%d weeks since the last deload (every %d weeks at %s level)", weeksSinceDeload, threshold, level),
			Severity:    models.SeverityMild,
			Timestamp:   now,
		}
	}

	if len(recent) < deloadPerformanceWindow {
		return nil
	}
	last := recent[len(recent)-deloadPerformanceWindow:]

	rising := true
	for i := 1; i < len(last); i++ {
		if last[i].AvgVelocityLoss <= last[i-1].AvgVelocityLoss {
			rising = false
			break
		}
	}
	if rising {
		return &models.DeloadTrigger{
			TriggerType: models.DeloadTriggerPerformance,
			Description: fmt.Sprintf("velocity loss rose for %d sessions in a row (%.0f%% to %.0f%%)",
				deloadPerformanceWindow, last[0].AvgVelocityLoss, last[len(last)-1].AvgVelocityLoss),
			Severity:  models.SeverityModerate,
			Timestamp: now,
		}
	}

	missed := true
	for _, s := range last {
		if s.TargetReps <= 0 || s.RepsPerSet() >= float64(s.TargetReps) {
			missed = false
			break
		}
	}
	if missed {
		return &models.DeloadTrigger{
			TriggerType: models.DeloadTriggerPerformance,
			Description: fmt.Sprintf("rep targets missed in each of the last %d sessions", deloadPerformanceWindow),
			Severity:    models.SeveritySevere,
			Timestamp:   now,
		}
	}
	return nil
}

// CreateDeloadWeek prescribes the standard deload for a trigger.
func CreateDeloadWeek(trigger *models.DeloadTrigger) models.DeloadWeek {
	return models.DeloadWeek{
		VolumeReduction:    DeloadVolumeReduction,
		IntensityReduction: DeloadIntensityReduction,
		MinRIR:             DeloadMinRIR,
		DurationDays:       DeloadDurationDays,
		Mode:               models.DeloadActive,
		Trigger:            trigger,
	}
}

// ApplyDeload scales a working weight and set count by a deload week.
func ApplyDeload(weight float64, sets int, week models.DeloadWeek) (float64, int) {
	w := QuantizeWeight(weight * (1 - week.IntensityReduction/100))
	s := int(math.Round(float64(sets) * (1 - week.VolumeReduction/100)))
	if s < 1 {
		s = 1
	}
	return w, s
}

const defaultTrendLookback = 5

// AnalyzeTrend compares the first and last session of the lookback window
// (sessions oldest first). It needs at least two sessions.
func AnalyzeTrend(sessions []models.SessionSummary, lookback int) *models.TrendAnalysis {
	if lookback <= 0 {
		lookback = defaultTrendLookback
	}
	window := sessions
	if len(window) > lookback {
		window = window[len(window)-lookback:]
	}
	if len(window) < 2 {
		return nil
	}

	first, last := window[0], window[len(window)-1]
	t := &models.TrendAnalysis{
		SessionsAnalyzed:  len(window),
		WeightDelta:       last.Weight - first.Weight,
		RepChangePercent:  percentDelta(float64(last.TotalReps), float64(first.TotalReps)),
		VelocityLossDelta: last.AvgVelocityLoss - first.AvgVelocityLoss,
	}
	t.Improving = t.WeightDelta > 0 || (t.RepChangePercent > 5 && t.VelocityLossDelta < 0)
	return t
}

// TrendDirectionOf condenses a trend analysis. A nil analysis has no trend.
func TrendDirectionOf(t *models.TrendAnalysis) models.TrendDirection {
	switch {
	case t == nil:
		return models.TrendNone
	case t.Improving:
		return models.TrendImproving
	case t.WeightDelta < 0 || (t.RepChangePercent < -5 && t.VelocityLossDelta > 0):
		return models.TrendDeclining
	}
	return models.TrendStable
}
