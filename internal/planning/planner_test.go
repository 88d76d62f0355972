package planning

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HJewkes/voltra-playground-sub000/internal/models"
)

func newTestPlanner() *Planner {
	return NewPlanner(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func baseContext() models.PlanningContext {
	return models.PlanningContext{
		ExerciseID:     "squat",
		Goal:           models.GoalHypertrophy,
		Level:          models.LevelIntermediate,
		ExerciseType:   models.ExerciseCompound,
		SessionMetrics: models.NewSessionMetrics(),
	}
}

func withHistory(pc models.PlanningContext, weight, avgReps float64) models.PlanningContext {
	pc.HistoricalMetrics = &models.HistoricalMetrics{
		LastWorkingWeight: &weight,
		AvgRepsAtWeight:   avgReps,
		SessionCount:      4,
	}
	return pc
}

func workingSet(n int, weight float64, reps int, vl, rir float64) models.CompletedSet {
	return models.CompletedSet{
		SetNumber:     n,
		Weight:        weight,
		RepsCompleted: reps,
		Metrics:       models.SetMetrics{FatigueIndex: vl, EstimatedRIR: rir},
	}
}

func warmupSet(n int, weight float64, reps int) models.CompletedSet {
	return models.CompletedSet{SetNumber: n, Weight: weight, RepsCompleted: reps, IsWarmup: true}
}

func allSets(res models.PlanResult) []models.PlannedSet {
	if res.NextSet == nil {
		return nil
	}
	return append([]models.PlannedSet{*res.NextSet}, res.RemainingSets...)
}

func workingOnly(sets []models.PlannedSet) []models.PlannedSet {
	var out []models.PlannedSet
	for _, s := range sets {
		if !s.IsWarmup {
			out = append(out, s)
		}
	}
	return out
}

func TestPlanInitialFromHistory(t *testing.T) {
	res := newTestPlanner().Plan(withHistory(baseContext(), 100, 9))

	require.NotNil(t, res.NextSet)
	assert.False(t, res.ShouldStop)
	assert.True(t, res.NextSet.IsWarmup)
	assert.Equal(t, 50.0, res.NextSet.Weight)
	assert.Equal(t, 60, res.RestSeconds)
	assert.Empty(t, res.Adjustments)

	sets := allSets(res)
	require.Len(t, sets, 6)
	for i, s := range sets {
		assert.Equal(t, i+1, s.SetNumber)
	}
	assert.Equal(t, []float64{50, 75, 90}, []float64{sets[0].Weight, sets[1].Weight, sets[2].Weight})

	working := workingOnly(sets)
	require.Len(t, working, 3)
	for _, s := range working {
		assert.Equal(t, 100.0, s.Weight)
		assert.Equal(t, 8, s.TargetReps)
		assert.Equal(t, 2, s.RIRTarget)
		require.NotNil(t, s.RepRange)
		assert.Equal(t, models.RepRange{8, 12}, *s.RepRange)
	}
}

func TestPlanInitialOverrides(t *testing.T) {
	pc := withHistory(baseContext(), 100, 9)
	pc.Overrides = &models.Overrides{
		Weight:      ptr(62.0),
		SetCount:    ptr(4),
		RepRange:    &models.RepRange{6, 8},
		SkipWarmups: true,
	}
	res := newTestPlanner().Plan(pc)

	require.NotNil(t, res.NextSet)
	assert.False(t, res.NextSet.IsWarmup)
	assert.Equal(t, 60.0, res.NextSet.Weight)
	assert.Equal(t, 6, res.NextSet.TargetReps)
	assert.Equal(t, 120, res.RestSeconds)
	assert.Len(t, res.RemainingSets, 3)
}

func TestPlanInitialWithoutWeightNeedsDiscovery(t *testing.T) {
	res := newTestPlanner().Plan(baseContext())

	assert.True(t, res.ShouldStop)
	assert.Equal(t, models.StopUserRequested, res.StopReason)
	assert.Nil(t, res.NextSet)
	assert.Empty(t, res.RemainingSets)
	assert.Contains(t, res.Message, "discovery")
}

func TestPlanInitialReadiness(t *testing.T) {
	pc := withHistory(baseContext(), 100, 9)
	pc.SessionMetrics.Readiness = models.ReadinessEstimate{
		Zone:        models.ReadinessYellow,
		Confidence:  0.7,
		Adjustments: models.ReadinessAdjustments{WeightMultiplier: 0.9},
	}
	res := newTestPlanner().Plan(pc)

	require.Len(t, res.Adjustments, 1)
	adj := res.Adjustments[0]
	assert.Equal(t, models.AdjustReadiness, adj.Type)
	assert.Equal(t, models.ConfidenceMedium, adj.Confidence)
	assert.Equal(t, 100.0, adj.From)
	assert.Equal(t, 90.0, adj.To)
	for _, s := range workingOnly(allSets(res)) {
		assert.Equal(t, 90.0, s.Weight)
	}
}

func TestPlanInitialLowReportedEnergy(t *testing.T) {
	pc := withHistory(baseContext(), 100, 9)
	pc.Overrides = &models.Overrides{ReportedEnergy: models.EnergyLow}
	res := newTestPlanner().Plan(pc)

	require.Len(t, res.Adjustments, 1)
	adj := res.Adjustments[0]
	assert.Equal(t, models.AdjustReadiness, adj.Type)
	assert.Equal(t, models.ConfidenceLow, adj.Confidence)
	assert.Equal(t, 90.0, adj.To)
	for _, s := range workingOnly(allSets(res)) {
		assert.Equal(t, 90.0, s.Weight)
	}

	// A measured readiness multiplier takes precedence.
	pc.SessionMetrics.Readiness.Adjustments.WeightMultiplier = 0.95
	res = newTestPlanner().Plan(pc)
	require.Len(t, res.Adjustments, 1)
	assert.Equal(t, 95.0, res.Adjustments[0].To)

	pc.SessionMetrics.Readiness.Adjustments.WeightMultiplier = 0
	pc.Overrides.ReportedEnergy = models.EnergyHigh
	assert.Empty(t, newTestPlanner().Plan(pc).Adjustments)
}

func TestPlanInitialProgression(t *testing.T) {
	pc := withHistory(baseContext(), 100, 10)
	pc.Level = models.LevelNovice

	res := newTestPlanner().Plan(pc)
	assert.Empty(t, res.Adjustments)

	pc.ApplyProgression = true
	res = newTestPlanner().Plan(pc)
	require.Len(t, res.Adjustments, 1)
	assert.Equal(t, models.AdjustProgression, res.Adjustments[0].Type)
	assert.Equal(t, 105.0, res.Adjustments[0].To)
	for _, s := range workingOnly(allSets(res)) {
		assert.Equal(t, 105.0, s.Weight)
	}

	// An override is taken as is.
	pc.Overrides = &models.Overrides{Weight: ptr(80.0)}
	res = newTestPlanner().Plan(pc)
	assert.Empty(t, res.Adjustments)
}

func TestPlanAdaptationAddsWeight(t *testing.T) {
	pc := withHistory(baseContext(), 100, 9)
	pc.OriginalPlanSetCount = ptr(3)
	pc.CompletedSets = []models.CompletedSet{
		warmupSet(1, 50, 10),
		warmupSet(2, 75, 5),
		warmupSet(3, 90, 3),
		workingSet(4, 100, 10, 10, 3),
	}
	res := newTestPlanner().Plan(pc)

	require.NotNil(t, res.NextSet)
	assert.False(t, res.ShouldStop)
	assert.Equal(t, 105.0, res.NextSet.Weight)
	assert.Equal(t, 5, res.NextSet.SetNumber)
	require.Len(t, res.RemainingSets, 1)
	assert.Equal(t, 6, res.RemainingSets[0].SetNumber)
	assert.Equal(t, 120, res.RestSeconds)

	require.Len(t, res.Adjustments, 1)
	assert.Equal(t, models.AdjustWeight, res.Adjustments[0].Type)
	assert.Equal(t, 1000.0, res.Volume.AccumulatedVolume)
}

func TestPlanAdaptationExtendsRest(t *testing.T) {
	pc := withHistory(baseContext(), 100, 9)
	pc.CompletedSets = []models.CompletedSet{workingSet(1, 100, 8, 42, 1)}
	res := newTestPlanner().Plan(pc)

	require.NotNil(t, res.NextSet)
	assert.Equal(t, 95.0, res.NextSet.Weight)
	assert.Equal(t, 180, res.RestSeconds)

	var types []models.AdjustmentType
	for _, a := range res.Adjustments {
		types = append(types, a.Type)
	}
	assert.Equal(t, []models.AdjustmentType{models.AdjustWeight, models.AdjustRest}, types)
}

func TestPlanAdaptationStops(t *testing.T) {
	tests := []struct {
		name    string
		fatigue models.FatigueEstimate
		reason  models.StopReason
	}{
		{"junk volume", models.FatigueEstimate{IsJunkVolume: true, VelocityRecoveryPercent: 100}, models.StopJunkVolume},
		{"grinding", models.FatigueEstimate{VelocityRecoveryPercent: 50}, models.StopVelocityGrinding},
		{"fatigue", models.FatigueEstimate{Level: 0.9, VelocityRecoveryPercent: 80}, models.StopFatigueLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc := withHistory(baseContext(), 100, 9)
			pc.SessionMetrics.Fatigue = tt.fatigue
			pc.CompletedSets = []models.CompletedSet{
				workingSet(1, 100, 10, 25, 2),
				workingSet(2, 100, 9, 28, 2),
			}
			res := newTestPlanner().Plan(pc)

			assert.True(t, res.ShouldStop)
			assert.Equal(t, tt.reason, res.StopReason)
			assert.Nil(t, res.NextSet)
			assert.Zero(t, res.RestSeconds)
		})
	}
}

func TestPlanAdaptationExtraSet(t *testing.T) {
	pc := withHistory(baseContext(), 100, 9)
	pc.OriginalPlanSetCount = ptr(3)
	pc.CompletedSets = []models.CompletedSet{
		workingSet(1, 100, 10, 20, 3),
		workingSet(2, 100, 10, 20, 3),
		workingSet(3, 100, 10, 20, 3),
	}
	res := newTestPlanner().Plan(pc)

	require.NotNil(t, res.NextSet)
	assert.False(t, res.ShouldStop)
	assert.Equal(t, 4, res.NextSet.SetNumber)
	assert.Equal(t, 100.0, res.NextSet.Weight)
	assert.Empty(t, res.RemainingSets)
	require.NotEmpty(t, res.Adjustments)
	assert.Equal(t, models.AdjustSets, res.Adjustments[0].Type)
	assert.Equal(t, 4.0, res.Adjustments[0].To)

	// The extra set is offered once.
	pc.CompletedSets = append(pc.CompletedSets, workingSet(4, 100, 10, 20, 3))
	res = newTestPlanner().Plan(pc)
	assert.True(t, res.ShouldStop)
	assert.Equal(t, models.StopTargetReached, res.StopReason)
}

func TestPlanAdaptationNoExtraSetNearFailure(t *testing.T) {
	pc := withHistory(baseContext(), 100, 9)
	pc.CompletedSets = []models.CompletedSet{
		workingSet(1, 100, 10, 20, 2),
		workingSet(2, 100, 9, 22, 2),
		workingSet(3, 100, 8, 25, 1),
	}
	res := newTestPlanner().Plan(pc)

	assert.True(t, res.ShouldStop)
	assert.Equal(t, models.StopTargetReached, res.StopReason)
	assert.Nil(t, res.NextSet)
}

func TestPlanContinuesWarmups(t *testing.T) {
	pc := withHistory(baseContext(), 100, 9)
	pc.CompletedSets = []models.CompletedSet{warmupSet(1, 50, 10)}
	res := newTestPlanner().Plan(pc)

	require.NotNil(t, res.NextSet)
	assert.True(t, res.NextSet.IsWarmup)
	assert.Equal(t, 75.0, res.NextSet.Weight)
	assert.Equal(t, 2, res.NextSet.SetNumber)
	assert.Equal(t, 60, res.RestSeconds)
	assert.Len(t, res.RemainingSets, 4)
}

func discoveryContext() models.PlanningContext {
	pc := baseContext()
	pc.IsDiscovery = true
	pc.DiscoveryGuessedMax = ptr(200.0)
	return pc
}

func TestPlanDiscoveryFirstStep(t *testing.T) {
	res := newTestPlanner().Plan(discoveryContext())

	require.NotNil(t, res.DiscoveryStep)
	require.NotNil(t, res.NextSet)
	assert.Equal(t, 60.0, res.DiscoveryStep.Weight)
	assert.Equal(t, 60.0, res.NextSet.Weight)
	assert.Equal(t, models.PhaseExploring, res.DiscoveryPhase)
	assert.Nil(t, res.Recommendation)
	assert.False(t, res.ShouldStop)
}

func TestPlanDiscoveryNextStep(t *testing.T) {
	pc := discoveryContext()
	pc.DiscoveryPhase = models.PhaseExploring
	pc.DiscoveryHistory = []models.DiscoverySetResult{{Weight: 60, Reps: 5, MeanVelocity: 1.0}}
	res := newTestPlanner().Plan(pc)

	require.NotNil(t, res.DiscoveryStep)
	assert.Equal(t, 80.0, res.DiscoveryStep.Weight)
	assert.Equal(t, 2, res.DiscoveryStep.SetNumber)
	assert.Equal(t, ExploringRest, res.RestSeconds)

	pc.DiscoveryHistory = append(pc.DiscoveryHistory, models.DiscoverySetResult{Weight: 80, Reps: 5, MeanVelocity: 0.8})
	res = newTestPlanner().Plan(pc)
	require.NotNil(t, res.DiscoveryStep)
	assert.Equal(t, 90.0, res.DiscoveryStep.Weight)
	assert.Equal(t, "load_velocity", res.Strength.Source)
	assert.InDelta(t, 130, res.Strength.Estimated1RM, 0.01)
}

func TestPlanDiscoveryComplete(t *testing.T) {
	pc := discoveryContext()
	pc.DiscoveryPhase = models.PhaseExploring
	pc.DiscoveryHistory = []models.DiscoverySetResult{
		{Weight: 60, Reps: 5, MeanVelocity: 1.0},
		{Weight: 80, Reps: 5, MeanVelocity: 0.8},
		{Weight: 90, Reps: 5, MeanVelocity: 0.45},
	}
	res := newTestPlanner().Plan(pc)

	require.NotNil(t, res.Recommendation)
	assert.Nil(t, res.DiscoveryStep)
	assert.Equal(t, models.PhaseComplete, res.DiscoveryPhase)
	assert.Equal(t, "discovery", res.Strength.Source)
	assert.Equal(t, models.ConfidenceMedium.Score(), res.Strength.Confidence)

	require.NotNil(t, res.NextSet)
	assert.True(t, res.NextSet.IsWarmup)
	working := workingOnly(allSets(res))
	require.Len(t, working, 3)
	for _, s := range working {
		assert.Equal(t, res.Recommendation.WorkingWeight, s.Weight)
	}
}

func TestPlanIsDeterministic(t *testing.T) {
	pc := withHistory(baseContext(), 100, 9)
	pc.CompletedSets = []models.CompletedSet{workingSet(1, 100, 10, 33, 2)}

	p := newTestPlanner()
	assert.Equal(t, p.Plan(pc), p.Plan(pc))
}

func TestPlannedWeightsAreQuantized(t *testing.T) {
	contexts := []models.PlanningContext{
		withHistory(baseContext(), 101, 9),
		withHistory(baseContext(), 3, 9),
		discoveryContext(),
	}
	odd := withHistory(baseContext(), 97.5, 9)
	odd.CompletedSets = []models.CompletedSet{workingSet(1, 97.5, 12, 5, 4)}
	contexts = append(contexts, odd)

	ready := withHistory(baseContext(), 100, 9)
	ready.SessionMetrics.Readiness.Adjustments.WeightMultiplier = 0.93
	contexts = append(contexts, ready)

	p := newTestPlanner()
	for _, pc := range contexts {
		for _, s := range allSets(p.Plan(pc)) {
			assert.GreaterOrEqual(t, s.Weight, MinimumWeight)
			assert.Zero(t, math.Mod(s.Weight, WeightIncrement), "weight %.2f", s.Weight)
		}
	}
}
