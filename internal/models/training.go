package models

import "time"

// SessionSummary condenses one past session of a single exercise.
type SessionSummary struct {
	ID              string    `json:"id"`
	ExerciseID      string    `json:"exercise_id"`
	Date            time.Time `json:"date"`
	Weight          float64   `json:"weight"`
	SetsCompleted   int       `json:"sets_completed"`
	TotalReps       int       `json:"total_reps"`
	TargetReps      int       `json:"target_reps"` // per set
	AvgRIR          float64   `json:"avg_rir"`
	AvgVelocityLoss float64   `json:"avg_velocity_loss"`
	Estimated1RM    float64   `json:"estimated_1rm"`
	IsDeload        bool      `json:"is_deload"`
}

// RepsPerSet returns the mean reps per set, or 0 when no set was logged.
func (s SessionSummary) RepsPerSet() float64 {
	if s.SetsCompleted == 0 {
		return 0
	}
	return float64(s.TotalReps) / float64(s.SetsCompleted)
}

type DeloadTrigger struct {
	TriggerType DeloadTriggerType `json:"trigger_type"`
	Description string            `json:"description"`
	Severity    Severity          `json:"severity"`
	Timestamp   time.Time         `json:"timestamp"`
}

type DeloadWeek struct {
	VolumeReduction    float64        `json:"volume_reduction"`    // percent
	IntensityReduction float64        `json:"intensity_reduction"` // percent
	MinRIR             int            `json:"min_rir"`
	DurationDays       int            `json:"duration_days"`
	Mode               DeloadMode     `json:"mode"`
	Trigger            *DeloadTrigger `json:"trigger,omitempty"`
}

type TrendAnalysis struct {
	SessionsAnalyzed  int     `json:"sessions_analyzed"`
	WeightDelta       float64 `json:"weight_delta"`
	RepChangePercent  float64 `json:"rep_change_percent"`
	VelocityLossDelta float64 `json:"velocity_loss_delta"`
	Improving         bool    `json:"improving"`
}
