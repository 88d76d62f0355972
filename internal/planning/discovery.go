package planning

import (
	"fmt"
	"math"

	"github.com/HJewkes/voltra-playground-sub000/internal/models"
	"github.com/HJewkes/voltra-playground-sub000/internal/utils"
)

// VelocityTrend classifies how fast the last discovery set moved.
type VelocityTrend string

const (
	TrendFast     VelocityTrend = "fast"
	TrendModerate VelocityTrend = "moderate"
	TrendSlow     VelocityTrend = "slow"
	TrendGrinding VelocityTrend = "grinding"
)

// Discovery velocity thresholds in m/s. Bands are read top down, so speeds
// between ModerateMax and FastMin still count as moderate.
const (
	FastVelocityMin     = 0.9
	ModerateVelocityMax = 0.75
	ModerateVelocityMin = 0.5
	SlowVelocityMin     = 0.3

	// Spread needed before a load-velocity fit is trusted.
	MinWeightSpreadRatio = 0.2
	MinVelocitySpread    = 0.15

	// Tested loads within this fraction of the target count as the target.
	TargetProximity = 0.1

	GrindingStepDown = 10.0

	ExploringTargetReps = 5
	ExploringRest       = 90
	DialingInRest       = 120
)

// DiscoveryOutcome is either a StepOutcome or a RecommendationOutcome.
type DiscoveryOutcome interface {
	discoveryOutcome()
}

// StepOutcome asks the lifter for one more discovery set.
type StepOutcome struct {
	Step  models.DiscoveryStep
	State models.DiscoveryState
}

// RecommendationOutcome ends the run with a working weight.
type RecommendationOutcome struct {
	Recommendation models.DiscoveryRecommendation
	State          models.DiscoveryState
}

func (StepOutcome) discoveryOutcome()           {}
func (RecommendationOutcome) discoveryOutcome() {}

type FirstStepOptions struct {
	GuessedMax  *float64
	LightWeight *float64
}

func ClassifyVelocity(v float64) VelocityTrend {
	switch {
	case v >= FastVelocityMin:
		return TrendFast
	case v >= ModerateVelocityMin:
		return TrendModerate
	case v >= SlowVelocityMin:
		return TrendSlow
	default:
		return TrendGrinding
	}
}

// DefaultStartingWeight is used when the lifter gives no hint at all.
func DefaultStartingWeight(t models.ExerciseType) float64 {
	if t == models.ExerciseIsolation {
		return 10
	}
	return 20
}

func largeJump(t models.ExerciseType) float64 {
	if t == models.ExerciseIsolation {
		return 10
	}
	return 20
}

func mediumJump(t models.ExerciseType) float64 {
	if t == models.ExerciseIsolation {
		return 5
	}
	return 10
}

// GetFirstDiscoveryStep starts a discovery run. The starting weight is 30%
// of a guessed max when one is given, else the lifter's own light weight,
// else a per exercise type default.
func GetFirstDiscoveryStep(exerciseID string, exerciseType models.ExerciseType, goal models.TrainingGoal, opts FirstStepOptions) (models.DiscoveryState, models.DiscoveryStep) {
	start := DefaultStartingWeight(exerciseType)
	switch {
	case opts.GuessedMax != nil && *opts.GuessedMax > 0:
		start = *opts.GuessedMax * 0.3
	case opts.LightWeight != nil && *opts.LightWeight > 0:
		start = *opts.LightWeight
	}
	start = QuantizeWeight(start)

	state := models.DiscoveryState{
		ExerciseID:    exerciseID,
		ExerciseType:  exerciseType,
		Goal:          goal,
		Phase:         models.PhaseExploring,
		CurrentWeight: start,
	}
	step := models.DiscoveryStep{
		Phase:       models.PhaseExploring,
		SetNumber:   1,
		Weight:      start,
		TargetReps:  ExploringTargetReps,
		Instruction: fmt.Sprintf("Do %d reps at %.0f, every rep as fast as you can with clean form.", ExploringTargetReps, start),
	}
	return state, step
}

// RecordDiscoveryResult returns a copy of state with the result appended.
func RecordDiscoveryResult(state models.DiscoveryState, result models.DiscoverySetResult) models.DiscoveryState {
	next := state
	next.Results = make([]models.DiscoverySetResult, 0, len(state.Results)+1)
	next.Results = append(next.Results, state.Results...)
	next.Results = append(next.Results, result)
	next.CurrentWeight = result.Weight
	next.LastVelocity = result.MeanVelocity
	if next.Phase.Rank() < models.PhaseExploring.Rank() {
		next.Phase = models.PhaseExploring
	}
	return next
}

// GetNextDiscoveryStep evaluates the last recorded set and either asks for
// another set or finalizes the run.
func GetNextDiscoveryStep(state models.DiscoveryState) DiscoveryOutcome {
	if state.Phase == models.PhaseComplete {
		return finalizeOutcome(state)
	}
	if len(state.Results) == 0 {
		opts := FirstStepOptions{}
		if state.CurrentWeight > 0 {
			opts.LightWeight = &state.CurrentWeight
		}
		s, step := GetFirstDiscoveryStep(state.ExerciseID, state.ExerciseType, state.Goal, opts)
		return StepOutcome{Step: step, State: s}
	}

	last := state.Results[len(state.Results)-1]
	if last.Failed {
		return finalizeOutcome(state)
	}

	if state.Phase == models.PhaseDialingIn {
		return dialIn(state)
	}
	state.Phase = models.PhaseExploring

	var next float64
	trend := ClassifyVelocity(last.MeanVelocity)
	switch trend {
	case TrendFast:
		next = last.Weight + largeJump(state.ExerciseType)
	case TrendModerate:
		next = last.Weight + mediumJump(state.ExerciseType)
	case TrendSlow:
		if HasAdequateSpread(state.Results) {
			state.Phase = models.PhaseDialingIn
			return dialIn(state)
		}
		next = last.Weight + WeightIncrement
	case TrendGrinding:
		if len(state.Results) >= 2 {
			return finalizeOutcome(state)
		}
		next = last.Weight - GrindingStepDown
	}

	next = QuantizeWeight(next)
	state.CurrentWeight = next
	return StepOutcome{
		State: state,
		Step: models.DiscoveryStep{
			Phase:       models.PhaseExploring,
			SetNumber:   len(state.Results) + 1,
			Weight:      next,
			TargetReps:  ExploringTargetReps,
			RestSeconds: ExploringRest,
			Instruction: exploringInstruction(trend, last, next),
		},
	}
}

func exploringInstruction(trend VelocityTrend, last models.DiscoverySetResult, next float64) string {
	switch trend {
	case TrendFast:
		return fmt.Sprintf("%.0f moved fast (%.2f m/s). Jump to %.0f for %d reps.", last.Weight, last.MeanVelocity, next, ExploringTargetReps)
	case TrendModerate:
		return fmt.Sprintf("%.0f moved well (%.2f m/s). Go to %.0f for %d reps.", last.Weight, last.MeanVelocity, next, ExploringTargetReps)
	case TrendGrinding:
		return fmt.Sprintf("%.0f was a grind (%.2f m/s). Back off to %.0f for %d reps.", last.Weight, last.MeanVelocity, next, ExploringTargetReps)
	default:
		return fmt.Sprintf("%.0f is getting heavy (%.2f m/s). Small step to %.0f for %d reps.", last.Weight, last.MeanVelocity, next, ExploringTargetReps)
	}
}

// HasAdequateSpread reports whether the successful sets cover enough load
// (20% of the lightest load) and velocity (0.15 m/s) for a stable fit.
func HasAdequateSpread(results []models.DiscoverySetResult) bool {
	minW, maxW := math.Inf(1), math.Inf(-1)
	minV, maxV := math.Inf(1), math.Inf(-1)
	n := 0
	for _, r := range results {
		if r.Failed {
			continue
		}
		n++
		minW, maxW = math.Min(minW, r.Weight), math.Max(maxW, r.Weight)
		minV, maxV = math.Min(minV, r.MeanVelocity), math.Max(maxV, r.MeanVelocity)
	}
	if n < 2 || minW <= 0 {
		return false
	}
	return maxW-minW >= MinWeightSpreadRatio*minW && maxV-minV >= MinVelocitySpread
}

// BuildDiscoveryProfile fits the load-velocity profile of the successful sets.
func BuildDiscoveryProfile(state models.DiscoveryState) models.LoadVelocityProfile {
	var pts []models.LoadVelocityPoint
	for _, r := range state.Results {
		if r.Failed {
			continue
		}
		pts = append(pts, models.LoadVelocityPoint{Weight: r.Weight, Velocity: r.MeanVelocity})
	}
	return utils.FitLoadVelocity(pts, MinimumVelocityThreshold(state.ExerciseType))
}

func dialIn(state models.DiscoveryState) DiscoveryOutcome {
	profile := BuildDiscoveryProfile(state)
	if !profile.Valid || profile.Confidence != models.ConfidenceLow {
		return finalizeOutcome(state)
	}

	zone := TrainingZoneFor(state.Goal)
	target := QuantizeWeight(profile.Estimated1RM * zone.OptimalPercent / 100)
	for _, r := range state.Results {
		if !r.Failed && math.Abs(r.Weight-target) <= TargetProximity*target {
			return finalizeOutcome(state)
		}
	}

	reps := zone.Reps.Low()
	state.CurrentWeight = target
	return StepOutcome{
		State: state,
		Step: models.DiscoveryStep{
			Phase:       models.PhaseDialingIn,
			SetNumber:   len(state.Results) + 1,
			Weight:      target,
			TargetReps:  reps,
			RestSeconds: DialingInRest,
			Instruction: fmt.Sprintf("One more set to confirm: %d reps at %.0f.", reps, target),
		},
	}
}

func finalizeOutcome(state models.DiscoveryState) DiscoveryOutcome {
	rec := FinalizeDiscovery(state)
	state.Phase = models.PhaseComplete
	state.CurrentWeight = rec.WorkingWeight
	return RecommendationOutcome{Recommendation: rec, State: state}
}

// FinalizeDiscovery turns the recorded sets into a working recommendation.
func FinalizeDiscovery(state models.DiscoveryState) models.DiscoveryRecommendation {
	zone := TrainingZoneFor(state.Goal)
	profile := BuildDiscoveryProfile(state)

	oneRM, source := profile.Estimated1RM, "load-velocity profile"
	if !profile.Valid {
		oneRM, source = fallbackOneRM(state.Results)
	}

	working := state.CurrentWeight
	if oneRM > 0 {
		working = oneRM * zone.OptimalPercent / 100
	}
	working = QuantizeWeight(working)
	if failed, ok := lightestFailure(state.Results); ok && working >= failed {
		working = QuantizeWeight(failed - WeightIncrement)
	}

	confidence := models.ConfidenceLow
	if profile.Valid {
		confidence = profile.Confidence
	}

	return models.DiscoveryRecommendation{
		Estimated1RM:  oneRM,
		WarmupSets:    BuildWarmupSets(working, DefaultWarmupScheme()),
		WorkingWeight: working,
		RepRange:      zone.Reps,
		Confidence:    confidence,
		Explanation: fmt.Sprintf(
			"Estimated 1RM %.0f from %d sets via %s (%s confidence). Work at %.0f (%.0f%% of 1RM) for %s reps.",
			oneRM, len(state.Results), source, confidence, working, zone.OptimalPercent, zone.Reps,
		),
		Profile: profile,
	}
}

// Without a usable fit the best Epley estimate of the successful sets is
// used, then 90% of the lightest failed load.
func fallbackOneRM(results []models.DiscoverySetResult) (float64, string) {
	var best float64
	for _, r := range results {
		if !r.Failed {
			best = math.Max(best, utils.CalculateEpley1RM(r.Weight, r.Reps))
		}
	}
	if best > 0 {
		return best, "rep-based estimate"
	}
	if failed, ok := lightestFailure(results); ok {
		return failed * 0.9, "failed attempt"
	}
	return 0, "no data"
}

func lightestFailure(results []models.DiscoverySetResult) (float64, bool) {
	w, found := math.Inf(1), false
	for _, r := range results {
		if r.Failed && r.Weight < w {
			w, found = r.Weight, true
		}
	}
	return w, found
}

// BuildWarmupSets ramps up to the working weight.
func BuildWarmupSets(working float64, scheme WarmupScheme) []models.WarmupSet {
	sets := make([]models.WarmupSet, 0, len(scheme.Percentages))
	for i, pct := range scheme.Percentages {
		reps := 0
		if i < len(scheme.Reps) {
			reps = scheme.Reps[i]
		}
		sets = append(sets, models.WarmupSet{
			Weight:      QuantizeWeight(working * pct),
			Reps:        reps,
			RestSeconds: scheme.RestSeconds,
		})
	}
	return sets
}
