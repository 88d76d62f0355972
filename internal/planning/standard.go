package planning

import (
	"fmt"
	"math"

	"github.com/HJewkes/voltra-playground-sub000/internal/models"
)

type WeightAdjustment struct {
	ShouldAdjust bool
	NewWeight    float64
	Change       float64
	Reason       string
	Confidence   models.Confidence
}

// CalculateWeightAdjustment compares the velocity loss of the last set with
// the goal's band. Loading is frozen while the lifter is fatigued.
func CalculateWeightAdjustment(currentWeight, velocityLoss float64, goal models.TrainingGoal, exerciseType models.ExerciseType, fatigue models.FatigueEstimate) WeightAdjustment {
	adj := WeightAdjustment{NewWeight: currentWeight, Confidence: models.ConfidenceHigh}

	if fatigue.Level > FatigueThreshold || fatigue.IsJunkVolume {
		adj.Reason = "fatigue is high, holding the load"
		return adj
	}

	target := VelocityLossTarget(goal)
	step := ProgressionIncrement(exerciseType)
	var excess float64
	switch {
	case velocityLoss < target.Min-VelocityLossTolerance:
		excess = target.Min - VelocityLossTolerance - velocityLoss
		adj.NewWeight = QuantizeWeight(currentWeight + step)
		adj.Reason = fmt.Sprintf("velocity loss %.0f%% is under the %.0f-%.0f%% target, the load is too light", velocityLoss, target.Min, target.Max)
	case velocityLoss > target.Max+VelocityLossTolerance:
		excess = velocityLoss - target.Max - VelocityLossTolerance
		adj.NewWeight = QuantizeWeight(currentWeight - step)
		adj.Reason = fmt.Sprintf("velocity loss %.0f%% is over the %.0f-%.0f%% target, the load is too heavy", velocityLoss, target.Min, target.Max)
	default:
		adj.Reason = fmt.Sprintf("velocity loss %.0f%% is on target", velocityLoss)
		return adj
	}

	adj.Change = adj.NewWeight - currentWeight
	adj.ShouldAdjust = adj.Change != 0
	// Just past the tolerance edge the signal could still be noise.
	if excess < VelocityLossTolerance {
		adj.Confidence = models.ConfidenceMedium
	}
	return adj
}

type RestAdjustment struct {
	RestSeconds int
	Extension   int
	Reasons     []string
}

// CalculateRestAdjustment extends rest after hard sets. High fatigue or a
// large rep drop raises rest to at least HighFatigueRestFloor.
func CalculateRestAdjustment(baseRest int, velocityLoss float64, fatigue models.FatigueEstimate) RestAdjustment {
	adj := RestAdjustment{RestSeconds: baseRest}

	switch {
	case velocityLoss > 40:
		adj.RestSeconds += 60
		adj.Reasons = append(adj.Reasons, fmt.Sprintf("velocity loss %.0f%% above 40%%", velocityLoss))
	case velocityLoss > 30:
		adj.RestSeconds += 30
		adj.Reasons = append(adj.Reasons, fmt.Sprintf("velocity loss %.0f%% above 30%%", velocityLoss))
	}

	if fatigue.Level > FatigueThreshold || fatigue.RepDropPercent > 30 {
		if adj.RestSeconds < HighFatigueRestFloor {
			adj.RestSeconds = HighFatigueRestFloor
		}
		adj.Reasons = append(adj.Reasons, "accumulated fatigue")
	}

	adj.Extension = adj.RestSeconds - baseRest
	return adj
}

type StopInput struct {
	CompletedSets int
	PlannedSets   int
	MinSets       int // defaults to MinWorkingSets
	Fatigue       models.FatigueEstimate
}

type StopDecision struct {
	ShouldStop bool
	Reason     models.StopReason
	Message    string
}

// ShouldStop applies the stop rules in priority order:
// 1. junk volume flagged
// 2. velocity recovery under 60%
// 3. planned sets done
// 4. minimum sets done and fatigue over the threshold
func ShouldStop(in StopInput) StopDecision {
	minSets := in.MinSets
	if minSets <= 0 {
		minSets = MinWorkingSets
	}

	switch {
	case in.Fatigue.IsJunkVolume:
		return StopDecision{true, models.StopJunkVolume, "Further sets would be junk volume. Move on."}
	case in.Fatigue.VelocityRecoveryPercent < 60:
		return StopDecision{true, models.StopVelocityGrinding, fmt.Sprintf("Bar speed only recovered to %.0f%%. Stop here.", in.Fatigue.VelocityRecoveryPercent)}
	case in.CompletedSets >= in.PlannedSets:
		return StopDecision{true, models.StopTargetReached, fmt.Sprintf("All %d planned sets done.", in.PlannedSets)}
	case in.CompletedSets >= minSets && in.Fatigue.Level > FatigueThreshold:
		return StopDecision{true, models.StopFatigueLimit, "Fatigue limit reached after the minimum sets."}
	}
	return StopDecision{Message: "Continue."}
}

// IsJunkVolume flags sets that no longer add productive stimulus.
func IsJunkVolume(f models.FatigueEstimate) bool {
	return f.IsJunkVolume || f.RepDropPercent >= 50 || f.VelocityRecoveryPercent <= 60
}

type ExtraSetInput struct {
	CompletedSets    int
	MaxSets          int
	LastSetRIR       float64
	LastVelocityLoss float64
	Goal             models.TrainingGoal
	ExerciseType     models.ExerciseType
	Fatigue          models.FatigueEstimate
}

type ExtraSetDecision struct {
	Allowed bool
	Reason  string
}

func CanAddExtraSet(in ExtraSetInput) ExtraSetDecision {
	target := VelocityLossTarget(in.Goal)
	floor := RIRDefault(in.ExerciseType)

	switch {
	case in.CompletedSets >= in.MaxSets:
		return ExtraSetDecision{Reason: fmt.Sprintf("already at the %d set maximum", in.MaxSets)}
	case in.LastSetRIR < float64(floor):
		return ExtraSetDecision{Reason: fmt.Sprintf("last set left %.0f reps in reserve, below %d", in.LastSetRIR, floor)}
	case in.LastVelocityLoss > target.Max:
		return ExtraSetDecision{Reason: fmt.Sprintf("velocity loss %.0f%% above the %.0f%% target", in.LastVelocityLoss, target.Max)}
	case IsJunkVolume(in.Fatigue):
		return ExtraSetDecision{Reason: "an extra set would be junk volume"}
	case in.Fatigue.Level > FatigueThreshold:
		return ExtraSetDecision{Reason: "fatigue is too high"}
	}
	return ExtraSetDecision{Allowed: true, Reason: "performance is holding up, one more set is available"}
}

// Share of the rep drop that shows up as lost bar speed.
const velocityDropShare = 0.5

type ExpectedPerformance struct {
	SetNumber        int
	ExpectedReps     float64
	ExpectedVelocity float64
	CumulativeDrop   float64
}

// CalculateExpectedPerformance projects set n from the first set. With a
// per-set drop rate d the cumulative drop is 1-(1-d)^(n-1).
func CalculateExpectedPerformance(firstSetReps int, firstSetVelocity float64, setNumber, restSeconds int) ExpectedPerformance {
	exp := ExpectedPerformance{
		SetNumber:        setNumber,
		ExpectedReps:     float64(firstSetReps),
		ExpectedVelocity: firstSetVelocity,
	}
	if setNumber <= 1 {
		return exp
	}

	rate := RepDropRate(restSeconds)
	exp.CumulativeDrop = 1 - math.Pow(1-rate, float64(setNumber-1))
	exp.ExpectedReps = float64(firstSetReps) * (1 - exp.CumulativeDrop)
	exp.ExpectedVelocity = firstSetVelocity * (1 - exp.CumulativeDrop*velocityDropShare)
	return exp
}

const (
	AssessmentBetter           = "better_than_expected"
	AssessmentBelow            = "below_expected"
	AssessmentVelocityDropping = "velocity_dropping"
	AssessmentOnTrack          = "on_track"
)

type DeviationAssessment struct {
	RepDeviation      float64 // percent
	VelocityDeviation float64 // percent
	Assessment        string
}

// AssessDeviation compares a set to its expectation. A tolerance of zero
// or less uses DeviationTolerance.
func AssessDeviation(actualReps int, actualVelocity float64, expected ExpectedPerformance, tolerance float64) DeviationAssessment {
	if tolerance <= 0 {
		tolerance = DeviationTolerance
	}

	d := DeviationAssessment{
		RepDeviation:      percentDelta(float64(actualReps), expected.ExpectedReps),
		VelocityDeviation: percentDelta(actualVelocity, expected.ExpectedVelocity),
	}
	switch {
	case d.RepDeviation > tolerance:
		d.Assessment = AssessmentBetter
	case d.RepDeviation < -tolerance:
		d.Assessment = AssessmentBelow
	case d.VelocityDeviation < -tolerance:
		d.Assessment = AssessmentVelocityDropping
	default:
		d.Assessment = AssessmentOnTrack
	}
	return d
}

func percentDelta(actual, expected float64) float64 {
	if expected == 0 {
		return 0
	}
	return (actual - expected) / expected * 100
}

// SetPerformance is what the planner reads from the last completed set.
type SetPerformance struct {
	Weight           float64
	Reps             int
	FatigueIndex     float64
	RIR              float64
	FirstRepVelocity float64
	AvgVelocity      float64
}

// ExtractSetPerformance prefers the aggregated set metrics and derives
// missing velocities from the per-rep data.
func ExtractSetPerformance(s models.CompletedSet) SetPerformance {
	p := SetPerformance{
		Weight:           s.Weight,
		Reps:             s.RepCount(),
		FatigueIndex:     s.Metrics.FatigueIndex,
		RIR:              s.Metrics.EstimatedRIR,
		FirstRepVelocity: s.Metrics.FirstRepVelocity,
		AvgVelocity:      s.Metrics.AvgVelocity,
	}
	if len(s.Reps) == 0 {
		return p
	}

	first := s.Reps[0].ConcentricMeanVelocity
	last := s.Reps[len(s.Reps)-1].ConcentricMeanVelocity
	if p.FirstRepVelocity == 0 {
		p.FirstRepVelocity = first
	}
	if p.AvgVelocity == 0 {
		var sum float64
		for _, r := range s.Reps {
			sum += r.ConcentricMeanVelocity
		}
		p.AvgVelocity = sum / float64(len(s.Reps))
	}
	if p.FatigueIndex == 0 && len(s.Reps) > 1 && first > 0 {
		p.FatigueIndex = math.Max(0, (first-last)/first*100)
	}
	return p
}
