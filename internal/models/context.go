package models

import (
	"errors"
	"fmt"
)

// RepRange is an inclusive [low, high] rep target.
type RepRange [2]int

func (r RepRange) Low() int  { return r[0] }
func (r RepRange) High() int { return r[1] }

func (r RepRange) Valid() bool {
	return r[0] > 0 && r[0] <= r[1]
}

func (r RepRange) String() string {
	if r[0] == r[1] {
		return fmt.Sprintf("%d", r[0])
	}
	return fmt.Sprintf("%d-%d", r[0], r[1])
}

type Overrides struct {
	Weight         *float64  `json:"weight,omitempty"`
	RepRange       *RepRange `json:"rep_range,omitempty"`
	SetCount       *int      `json:"set_count,omitempty"`
	SkipWarmups    bool      `json:"skip_warmups,omitempty"`
	ReportedEnergy Energy    `json:"reported_energy,omitempty"`
}

// Rep holds the per-rep metrics delivered by the rep detection pipeline.
type Rep struct {
	ConcentricMeanVelocity float64 `json:"concentric_mean_velocity"`
	ConcentricPeakVelocity float64 `json:"concentric_peak_velocity"`
	EccentricMeanVelocity  float64 `json:"eccentric_mean_velocity"`
	EccentricPeakVelocity  float64 `json:"eccentric_peak_velocity"`
	PeakForce              float64 `json:"peak_force"`
}

// SetMetrics are the aggregated per-set signals. FatigueIndex is the
// velocity loss across the set, in percent.
type SetMetrics struct {
	FatigueIndex     float64 `json:"fatigue_index"`
	EstimatedRIR     float64 `json:"estimated_rir"`
	FirstRepVelocity float64 `json:"first_rep_velocity"`
	AvgVelocity      float64 `json:"avg_velocity"`
}

type CompletedSet struct {
	SetNumber     int        `json:"set_number"`
	Weight        float64    `json:"weight"`
	IsWarmup      bool       `json:"is_warmup,omitempty"`
	Reps          []Rep      `json:"reps,omitempty"`
	RepsCompleted int        `json:"reps_completed,omitempty"` // used when Reps is empty
	Metrics       SetMetrics `json:"metrics"`
}

// RepCount returns the number of reps performed in the set.
func (s CompletedSet) RepCount() int {
	if len(s.Reps) > 0 {
		return len(s.Reps)
	}
	return s.RepsCompleted
}

// PlanningContext is the single input of the planner. It is supplied whole
// on every call; the planner keeps nothing between calls.
type PlanningContext struct {
	ExerciseID           string             `json:"exercise_id"`
	Goal                 TrainingGoal       `json:"goal"`
	Level                TrainingLevel      `json:"level"`
	ExerciseType         ExerciseType       `json:"exercise_type"`
	// SessionMetrics must describe a fresh lifter before the first set:
	// start from NewSessionMetrics (or FreshFatigue), since a zero
	// FatigueEstimate reads as no velocity recovery and stops the session.
	SessionMetrics       SessionMetrics     `json:"session_metrics"`
	HistoricalMetrics    *HistoricalMetrics `json:"historical_metrics,omitempty"`
	CompletedSets        []CompletedSet     `json:"completed_sets,omitempty"`
	OriginalPlanSetCount *int               `json:"original_plan_set_count,omitempty"`
	Overrides            *Overrides         `json:"overrides,omitempty"`

	IsDiscovery          bool                 `json:"is_discovery,omitempty"`
	DiscoveryPhase       DiscoveryPhase       `json:"discovery_phase,omitempty"`
	DiscoveryHistory     []DiscoverySetResult `json:"discovery_history,omitempty"`
	DiscoveryGuessedMax  *float64             `json:"discovery_guessed_max,omitempty"`
	DiscoveryLightWeight *float64             `json:"discovery_light_weight,omitempty"`

	// Opt-in session-to-session progression applied to the initial plan.
	ApplyProgression  bool              `json:"apply_progression,omitempty"`
	ProgressionScheme ProgressionScheme `json:"progression_scheme,omitempty"`
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Validate reports every problem found in the context. The planner itself
// is permissive; callers that accept untrusted input should validate first.
func (c *PlanningContext) Validate() error {
	var errs []error
	add := func(field, format string, args ...any) {
		errs = append(errs, &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if !c.Goal.Valid() {
		add("goal", "unknown goal %q", c.Goal)
	}
	if !c.Level.Valid() {
		add("level", "unknown level %q", c.Level)
	}
	if !c.ExerciseType.Valid() {
		add("exercise_type", "unknown exercise type %q", c.ExerciseType)
	}
	if c.ProgressionScheme != "" {
		switch c.ProgressionScheme {
		case SchemeLinear, SchemeDouble, SchemeAutoregulated:
		default:
			add("progression_scheme", "unknown scheme %q", c.ProgressionScheme)
		}
	}
	if f := c.SessionMetrics.Fatigue.Level; f < 0 || f > 1 {
		add("session_metrics.fatigue.level", "%.2f is outside [0, 1]", f)
	}

	if o := c.Overrides; o != nil {
		if o.Weight != nil && *o.Weight <= 0 {
			add("overrides.weight", "must be positive, got %.1f", *o.Weight)
		}
		if o.RepRange != nil && !o.RepRange.Valid() {
			add("overrides.rep_range", "%v is not a valid [low, high] range", *o.RepRange)
		}
		if !o.ReportedEnergy.Valid() {
			add("overrides.reported_energy", "unknown energy %q", o.ReportedEnergy)
		}
		if o.SetCount != nil && *o.SetCount < 1 {
			add("overrides.set_count", "must be at least 1, got %d", *o.SetCount)
		}
	}
	if c.OriginalPlanSetCount != nil && *c.OriginalPlanSetCount < 1 {
		add("original_plan_set_count", "must be at least 1, got %d", *c.OriginalPlanSetCount)
	}

	for i, s := range c.CompletedSets {
		if s.Weight < 0 {
			add(fmt.Sprintf("completed_sets[%d].weight", i), "must not be negative")
		}
		if s.Metrics.EstimatedRIR < 0 {
			add(fmt.Sprintf("completed_sets[%d].metrics.estimated_rir", i), "must not be negative")
		}
	}

	if c.IsDiscovery {
		if c.DiscoveryPhase.Rank() < 0 {
			add("discovery_phase", "unknown phase %q", c.DiscoveryPhase)
		}
		for i, r := range c.DiscoveryHistory {
			if r.Weight <= 0 {
				add(fmt.Sprintf("discovery_history[%d].weight", i), "must be positive")
			}
			if r.MeanVelocity < 0 {
				add(fmt.Sprintf("discovery_history[%d].mean_velocity", i), "must not be negative")
			}
		}
		if c.DiscoveryGuessedMax != nil && *c.DiscoveryGuessedMax <= 0 {
			add("discovery_guessed_max", "must be positive")
		}
	}

	return errors.Join(errs...)
}
