package planning

import (
	"math"

	"github.com/HJewkes/voltra-playground-sub000/internal/models"
)

// Range is an inclusive [Min, Max] band in percent.
type Range struct {
	Min float64
	Max float64
}

func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// VolumeLandmarks are weekly sets per muscle: minimum effective, maximum
// adaptive and maximum recoverable volume.
type VolumeLandmarks struct {
	MEV int
	MAV int
	MRV int
}

// TrainingZone is the load band of a goal as a percentage of 1RM.
type TrainingZone struct {
	MinPercent     float64
	MaxPercent     float64
	OptimalPercent float64
	Reps           models.RepRange
}

type WarmupScheme struct {
	Percentages []float64
	Reps        []int
	RestSeconds int
}

const (
	WeightIncrement = 5.0
	MinimumWeight   = 5.0

	DefaultWorkingSets = 3
	MinWorkingSets     = 2
	MaxWorkingSets     = 6

	// Fatigue level above which intra-session loading is frozen.
	FatigueThreshold = 0.7

	// Tolerance around the velocity-loss band before the load is changed.
	VelocityLossTolerance = 5.0

	// Autoregulated progression reacts earlier below the band than above it.
	AutoregUnderTolerance = 5.0
	AutoregOverTolerance  = 10.0

	HighFatigueRestFloor = 180
	DeviationTolerance   = 15.0
)

// DefaultWarmupScheme ramps to the working weight in three sets.
func DefaultWarmupScheme() WarmupScheme {
	return WarmupScheme{
		Percentages: []float64{0.5, 0.75, 0.9},
		Reps:        []int{10, 5, 3},
		RestSeconds: 60,
	}
}

// VelocityLossTarget returns the acceptable per-set velocity loss band.
func VelocityLossTarget(goal models.TrainingGoal) Range {
	switch goal {
	case models.GoalStrength:
		return Range{Min: 10, Max: 20}
	case models.GoalEndurance:
		return Range{Min: 30, Max: 40}
	default:
		return Range{Min: 20, Max: 30}
	}
}

func RestDefault(goal models.TrainingGoal) int {
	switch goal {
	case models.GoalStrength:
		return 180
	case models.GoalEndurance:
		return 75
	default:
		return 120
	}
}

func RIRDefault(t models.ExerciseType) int {
	if t == models.ExerciseIsolation {
		return 1
	}
	return 2
}

func RepRangeFor(goal models.TrainingGoal) models.RepRange {
	switch goal {
	case models.GoalStrength:
		return models.RepRange{3, 6}
	case models.GoalEndurance:
		return models.RepRange{15, 20}
	default:
		return models.RepRange{8, 12}
	}
}

// LowEnergyWeightMultiplier scales the initial load when the lifter reports
// low energy and no measured readiness is available.
const LowEnergyWeightMultiplier = 0.9

func VolumeLandmarksFor(level models.TrainingLevel) VolumeLandmarks {
	switch level {
	case models.LevelAdvanced:
		return VolumeLandmarks{MEV: 10, MAV: 18, MRV: 24}
	case models.LevelIntermediate:
		return VolumeLandmarks{MEV: 8, MAV: 14, MRV: 20}
	default:
		return VolumeLandmarks{MEV: 6, MAV: 10, MRV: 14}
	}
}

// ProgressionIncrement is the same for both exercise types.
func ProgressionIncrement(models.ExerciseType) float64 {
	return WeightIncrement
}

func TrainingZoneFor(goal models.TrainingGoal) TrainingZone {
	switch goal {
	case models.GoalStrength:
		return TrainingZone{MinPercent: 80, MaxPercent: 90, OptimalPercent: 85, Reps: models.RepRange{3, 5}}
	case models.GoalEndurance:
		return TrainingZone{MinPercent: 50, MaxPercent: 65, OptimalPercent: 60, Reps: models.RepRange{15, 20}}
	default:
		return TrainingZone{MinPercent: 67, MaxPercent: 80, OptimalPercent: 75, Reps: models.RepRange{8, 12}}
	}
}

// DeloadWeeksThreshold is the number of weeks of training after which a
// deload is due. Novices share the intermediate threshold.
func DeloadWeeksThreshold(level models.TrainingLevel) int {
	if level == models.LevelAdvanced {
		return 6
	}
	return 5
}

// MinimumVelocityThreshold is the mean concentric velocity of a 1RM attempt.
func MinimumVelocityThreshold(t models.ExerciseType) float64 {
	if t == models.ExerciseIsolation {
		return 0.40
	}
	return 0.30
}

// perSetDropRate is the expected rep drop between consecutive sets, keyed
// by rest duration in seconds.
var perSetDropRate = map[int]float64{
	60:  0.35,
	120: 0.20,
	180: 0.15,
}

// RepDropRate returns the per-set rep drop for a rest period. Rest periods
// without an entry use the 120 s rate.
func RepDropRate(restSeconds int) float64 {
	if rate, ok := perSetDropRate[restSeconds]; ok {
		return rate
	}
	return perSetDropRate[120]
}

// QuantizeWeight rounds to the nearest weight increment and never returns
// less than the minimum weight.
func QuantizeWeight(w float64) float64 {
	q := math.Round(w/WeightIncrement) * WeightIncrement
	if q < MinimumWeight || math.IsNaN(q) {
		return MinimumWeight
	}
	return q
}
