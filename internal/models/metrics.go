package models

// HistoricalMetrics is a read-only snapshot of an exercise's history,
// produced by the history service (see storage.GetHistoricalMetrics).
type HistoricalMetrics struct {
	RecentEstimated1RM   float64            `json:"recent_estimated_1rm"`
	Trend                TrendDirection     `json:"trend,omitempty"`
	LastWorkingWeight    *float64           `json:"last_working_weight,omitempty"`
	AvgRepsAtWeight      float64            `json:"avg_reps_at_weight"`
	SessionCount         int                `json:"session_count"`
	DaysSinceLastSession *int               `json:"days_since_last_session,omitempty"`
	VelocityBaseline     map[string]float64 `json:"velocity_baseline,omitempty"` // weight (as text) -> mean velocity
}

type StrengthEstimate struct {
	Estimated1RM float64 `json:"estimated_1rm"`
	Confidence   float64 `json:"confidence"`
	Source       string  `json:"source"`
}

type ReadinessAdjustments struct {
	WeightMultiplier float64 `json:"weight_multiplier,omitempty"`
	VolumeMultiplier float64 `json:"volume_multiplier,omitempty"`
}

type ReadinessEstimate struct {
	Zone            ReadinessZone        `json:"zone,omitempty"`
	VelocityPercent float64              `json:"velocity_percent"`
	Confidence      float64              `json:"confidence"`
	Adjustments     ReadinessAdjustments `json:"adjustments"`
	Message         string               `json:"message,omitempty"`
}

// FatigueEstimate describes within-session fatigue. Level is in [0, 1];
// the percentages are 0–100.
type FatigueEstimate struct {
	Level                   float64 `json:"level"`
	IsJunkVolume            bool    `json:"is_junk_volume"`
	VelocityRecoveryPercent float64 `json:"velocity_recovery_percent"`
	RepDropPercent          float64 `json:"rep_drop_percent"`
}

// FreshFatigue is the estimate for a lifter that has not done any work yet.
func FreshFatigue() FatigueEstimate {
	return FatigueEstimate{VelocityRecoveryPercent: 100}
}

type VolumeSummary struct {
	AccumulatedVolume float64 `json:"accumulated_volume"`
	EffectiveVolume   float64 `json:"effective_volume"`
}

type SessionMetrics struct {
	Strength  StrengthEstimate  `json:"strength"`
	Readiness ReadinessEstimate `json:"readiness"`
	Fatigue   FatigueEstimate   `json:"fatigue"`
	Volume    VolumeSummary     `json:"volume"`
}

// NewSessionMetrics returns metrics for a session that has not started.
func NewSessionMetrics() SessionMetrics {
	return SessionMetrics{
		Readiness: ReadinessEstimate{Zone: ReadinessGreen, VelocityPercent: 100},
		Fatigue:   FreshFatigue(),
	}
}
