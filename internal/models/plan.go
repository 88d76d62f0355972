package models

type PlannedSet struct {
	SetNumber  int       `json:"set_number"`
	Weight     float64   `json:"weight"`
	TargetReps int       `json:"target_reps"`
	RepRange   *RepRange `json:"rep_range,omitempty"`
	RIRTarget  int       `json:"rir_target"`
	IsWarmup   bool      `json:"is_warmup,omitempty"`
}

type PlanAdjustment struct {
	Type       AdjustmentType `json:"type"`
	Reason     string         `json:"reason"`
	Confidence Confidence     `json:"confidence"`
	From       float64        `json:"from"`
	To         float64        `json:"to"`
}

// DiscoveryStep is the next instruction of a weight discovery run.
type DiscoveryStep struct {
	Phase       DiscoveryPhase `json:"phase"`
	SetNumber   int            `json:"set_number"`
	Weight      float64        `json:"weight"`
	TargetReps  int            `json:"target_reps"`
	RestSeconds int            `json:"rest_seconds"`
	Instruction string         `json:"instruction"`
}

// PlanResult is the complete answer of one planner call.
type PlanResult struct {
	NextSet       *PlannedSet      `json:"next_set,omitempty"`
	RemainingSets []PlannedSet     `json:"remaining_sets"`
	RestSeconds   int              `json:"rest_seconds"`
	Adjustments   []PlanAdjustment `json:"adjustments"`
	Message       string           `json:"message"`

	Strength  StrengthEstimate  `json:"strength"`
	Readiness ReadinessEstimate `json:"readiness"`
	Fatigue   FatigueEstimate   `json:"fatigue"`
	Volume    VolumeSummary     `json:"volume"`

	ShouldStop bool       `json:"should_stop"`
	StopReason StopReason `json:"stop_reason,omitempty"`

	DiscoveryPhase DiscoveryPhase           `json:"discovery_phase,omitempty"`
	DiscoveryStep  *DiscoveryStep           `json:"discovery_step,omitempty"`
	Recommendation *DiscoveryRecommendation `json:"recommendation,omitempty"`
}
