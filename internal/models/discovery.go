package models

type DiscoverySetResult struct {
	Weight       float64  `json:"weight"`
	Reps         int      `json:"reps"`
	MeanVelocity float64  `json:"mean_velocity"`
	PeakVelocity float64  `json:"peak_velocity"`
	RPE          *float64 `json:"rpe,omitempty"`
	Failed       bool     `json:"failed,omitempty"`
	Notes        string   `json:"notes,omitempty"`
}

// DiscoveryState is the whole progress of a discovery run. It is owned by
// the caller and passed back verbatim on the next call.
type DiscoveryState struct {
	ExerciseID    string               `json:"exercise_id"`
	ExerciseType  ExerciseType         `json:"exercise_type"`
	Goal          TrainingGoal         `json:"goal"`
	Phase         DiscoveryPhase       `json:"phase"`
	Results       []DiscoverySetResult `json:"results"`
	CurrentWeight float64              `json:"current_weight"`
	LastVelocity  float64              `json:"last_velocity"`
}

type LoadVelocityPoint struct {
	Weight   float64 `json:"weight"`
	Velocity float64 `json:"velocity"`
}

// LoadVelocityProfile is a linear fit velocity = Slope*weight + Intercept.
// Valid is false when the points cannot support a fit (fewer than two
// distinct loads, or velocity not falling with load).
type LoadVelocityProfile struct {
	Points       []LoadVelocityPoint `json:"points"`
	Slope        float64             `json:"slope"`
	Intercept    float64             `json:"intercept"`
	RSquared     float64             `json:"r_squared"`
	MVT          float64             `json:"mvt"`
	Estimated1RM float64             `json:"estimated_1rm"`
	Confidence   Confidence          `json:"confidence"`
	Valid        bool                `json:"valid"`
}

type WarmupSet struct {
	Weight      float64 `json:"weight"`
	Reps        int     `json:"reps"`
	RestSeconds int     `json:"rest_seconds"`
}

type DiscoveryRecommendation struct {
	Estimated1RM  float64             `json:"estimated_1rm"`
	WarmupSets    []WarmupSet         `json:"warmup_sets"`
	WorkingWeight float64             `json:"working_weight"`
	RepRange      RepRange            `json:"rep_range"`
	Confidence    Confidence          `json:"confidence"`
	Explanation   string              `json:"explanation"`
	Profile       LoadVelocityProfile `json:"profile"`
}
