package models

type TrainingGoal string

const (
	GoalStrength    TrainingGoal = "strength"
	GoalHypertrophy TrainingGoal = "hypertrophy"
	GoalEndurance   TrainingGoal = "endurance"
)

func (g TrainingGoal) Valid() bool {
	switch g {
	case GoalStrength, GoalHypertrophy, GoalEndurance:
		return true
	}
	return false
}

type TrainingLevel string

const (
	LevelNovice       TrainingLevel = "novice"
	LevelIntermediate TrainingLevel = "intermediate"
	LevelAdvanced     TrainingLevel = "advanced"
)

func (l TrainingLevel) Valid() bool {
	switch l {
	case LevelNovice, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

type ExerciseType string

const (
	ExerciseCompound  ExerciseType = "compound"
	ExerciseIsolation ExerciseType = "isolation"
)

func (t ExerciseType) Valid() bool {
	return t == ExerciseCompound || t == ExerciseIsolation
}

type ProgressionScheme string

const (
	SchemeLinear        ProgressionScheme = "linear"
	SchemeDouble        ProgressionScheme = "double"
	SchemeAutoregulated ProgressionScheme = "autoregulated"
)

// TrendDirection is empty when there is not enough history to tell.
type TrendDirection string

const (
	TrendNone      TrendDirection = ""
	TrendImproving TrendDirection = "improving"
	TrendStable    TrendDirection = "stable"
	TrendDeclining TrendDirection = "declining"
)

// DiscoveryPhase values are ordered; see Rank.
type DiscoveryPhase string

const (
	PhaseNotStarted DiscoveryPhase = "not_started"
	PhaseExploring  DiscoveryPhase = "exploring"
	PhaseDialingIn  DiscoveryPhase = "dialing_in"
	PhaseComplete   DiscoveryPhase = "complete"
)

// Rank returns the position of the phase in the discovery sequence, or -1
// for an unknown phase.
func (p DiscoveryPhase) Rank() int {
	switch p {
	case PhaseNotStarted, "":
		return 0
	case PhaseExploring:
		return 1
	case PhaseDialingIn:
		return 2
	case PhaseComplete:
		return 3
	}
	return -1
}

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Score maps a qualitative confidence to the numeric value reported in
// strength estimates.
func (c Confidence) Score() float64 {
	switch c {
	case ConfidenceHigh:
		return 0.9
	case ConfidenceMedium:
		return 0.7
	default:
		return 0.5
	}
}

type StopReason string

const (
	StopNone             StopReason = ""
	StopJunkVolume       StopReason = "junk_volume"
	StopVelocityGrinding StopReason = "velocity_grinding"
	StopTargetReached    StopReason = "target_reached"
	StopFatigueLimit     StopReason = "fatigue_limit"
	StopUserRequested    StopReason = "user_requested"
)

type AdjustmentType string

const (
	AdjustWeight      AdjustmentType = "weight"
	AdjustRest        AdjustmentType = "rest"
	AdjustSets        AdjustmentType = "sets"
	AdjustReadiness   AdjustmentType = "readiness"
	AdjustProgression AdjustmentType = "progression"
)

type ProgressionAction string

const (
	ActionIncrease ProgressionAction = "increase"
	ActionMaintain ProgressionAction = "maintain"
	ActionDecrease ProgressionAction = "decrease"
)

type DeloadTriggerType string

const (
	DeloadTriggerTime         DeloadTriggerType = "time"
	DeloadTriggerPerformance  DeloadTriggerType = "performance"
	DeloadTriggerReadiness    DeloadTriggerType = "readiness"
	DeloadTriggerUserReported DeloadTriggerType = "user_reported"
)

type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

type DeloadMode string

const (
	DeloadActive  DeloadMode = "active"
	DeloadPassive DeloadMode = "passive"
)

type ReadinessZone string

const (
	ReadinessGreen  ReadinessZone = "green"
	ReadinessYellow ReadinessZone = "yellow"
	ReadinessRed    ReadinessZone = "red"
)

// Energy is the lifter's self-reported energy for the day.
type Energy string

const (
	EnergyUnset  Energy = ""
	EnergyLow    Energy = "low"
	EnergyNormal Energy = "normal"
	EnergyHigh   Energy = "high"
)

func (e Energy) Valid() bool {
	switch e {
	case EnergyUnset, EnergyLow, EnergyNormal, EnergyHigh:
		return true
	}
	return false
}
