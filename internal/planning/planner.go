package planning

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/HJewkes/voltra-playground-sub000/internal/models"
)

// Planner routes a PlanningContext to the discovery, initial-plan or
// adaptation path. It holds configuration only; every call is independent.
type Planner struct {
	logger      *slog.Logger
	workingSets int
}

type Option func(*Planner)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Planner) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithWorkingSets sets the number of working sets used when the context
// does not say.
func WithWorkingSets(n int) Option {
	return func(p *Planner) {
		if n > 0 {
			p.workingSets = n
		}
	}
}

func NewPlanner(opts ...Option) *Planner {
	p := &Planner{
		logger:      slog.Default(),
		workingSets: DefaultWorkingSets,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan returns the next prescription for the context. It never fails: every
// input maps to a complete result.
func (p *Planner) Plan(pc models.PlanningContext) models.PlanResult {
	log := p.logger.With("exercise", pc.ExerciseID, "goal", pc.Goal)

	switch {
	case pc.IsDiscovery:
		log.Debug("planning discovery step", "phase", pc.DiscoveryPhase, "history", len(pc.DiscoveryHistory))
		return p.planDiscovery(pc)
	case len(pc.CompletedSets) == 0:
		log.Debug("planning initial sets")
		return p.planInitial(pc)
	default:
		log.Debug("adapting plan", "completed", len(pc.CompletedSets))
		return p.planAdaptation(pc, log)
	}
}

func baseResult(pc models.PlanningContext) models.PlanResult {
	return models.PlanResult{
		RemainingSets: []models.PlannedSet{},
		Adjustments:   []models.PlanAdjustment{},
		Strength:      pc.SessionMetrics.Strength,
		Readiness:     pc.SessionMetrics.Readiness,
		Fatigue:       pc.SessionMetrics.Fatigue,
		Volume:        pc.SessionMetrics.Volume,
	}
}

func (p *Planner) plannedSetCount(pc models.PlanningContext) int {
	if pc.Overrides != nil && pc.Overrides.SetCount != nil && *pc.Overrides.SetCount > 0 {
		return *pc.Overrides.SetCount
	}
	if pc.OriginalPlanSetCount != nil && *pc.OriginalPlanSetCount > 0 {
		return *pc.OriginalPlanSetCount
	}
	return p.workingSets
}

func repRangeOf(pc models.PlanningContext) models.RepRange {
	if pc.Overrides != nil && pc.Overrides.RepRange != nil && pc.Overrides.RepRange.Valid() {
		return *pc.Overrides.RepRange
	}
	return RepRangeFor(pc.Goal)
}

func skipWarmups(pc models.PlanningContext) bool {
	return pc.Overrides != nil && pc.Overrides.SkipWarmups
}

//
// Discovery
//

func (p *Planner) planDiscovery(pc models.PlanningContext) models.PlanResult {
	history := pc.DiscoveryHistory
	if len(history) == 0 {
		opts := FirstStepOptions{GuessedMax: pc.DiscoveryGuessedMax, LightWeight: pc.DiscoveryLightWeight}
		if opts.LightWeight == nil && pc.Overrides != nil {
			opts.LightWeight = pc.Overrides.Weight
		}
		state, step := GetFirstDiscoveryStep(pc.ExerciseID, pc.ExerciseType, pc.Goal, opts)
		return discoveryStepResult(pc, state, step)
	}

	state := models.DiscoveryState{
		ExerciseID:   pc.ExerciseID,
		ExerciseType: pc.ExerciseType,
		Goal:         pc.Goal,
		Phase:        pc.DiscoveryPhase,
		Results:      history[:len(history)-1],
	}
	state = RecordDiscoveryResult(state, history[len(history)-1])

	switch out := GetNextDiscoveryStep(state).(type) {
	case StepOutcome:
		return discoveryStepResult(pc, out.State, out.Step)
	case RecommendationOutcome:
		return p.discoveryCompleteResult(pc, out.Recommendation)
	}
	panic("planning: unknown discovery outcome")
}

func discoveryStepResult(pc models.PlanningContext, state models.DiscoveryState, step models.DiscoveryStep) models.PlanResult {
	res := baseResult(pc)
	res.NextSet = &models.PlannedSet{
		SetNumber:  step.SetNumber,
		Weight:     step.Weight,
		TargetReps: step.TargetReps,
		RIRTarget:  RIRDefault(pc.ExerciseType),
	}
	res.RestSeconds = step.RestSeconds
	res.Message = step.Instruction
	res.DiscoveryPhase = state.Phase
	res.DiscoveryStep = &step

	if len(state.Results) >= 2 {
		if profile := BuildDiscoveryProfile(state); profile.Valid {
			res.Strength = models.StrengthEstimate{
				Estimated1RM: profile.Estimated1RM,
				Confidence:   profile.Confidence.Score(),
				Source:       "load_velocity",
			}
		}
	}
	return res
}

func (p *Planner) discoveryCompleteResult(pc models.PlanningContext, rec models.DiscoveryRecommendation) models.PlanResult {
	res := baseResult(pc)
	rr := rec.RepRange

	var sets []models.PlannedSet
	if !skipWarmups(pc) {
		for _, w := range rec.WarmupSets {
			sets = append(sets, models.PlannedSet{
				SetNumber:  len(sets) + 1,
				Weight:     w.Weight,
				TargetReps: w.Reps,
				IsWarmup:   true,
			})
		}
	}
	sets = appendWorkingSets(sets, rec.WorkingWeight, DefaultWorkingSets, rr, RIRDefault(pc.ExerciseType))

	res.NextSet = &sets[0]
	res.RemainingSets = sets[1:]
	res.RestSeconds = firstRest(sets[0], pc.Goal)
	res.Strength = models.StrengthEstimate{
		Estimated1RM: rec.Estimated1RM,
		Confidence:   rec.Confidence.Score(),
		Source:       "discovery",
	}
	res.DiscoveryPhase = models.PhaseComplete
	res.Recommendation = &rec
	res.Message = "Discovery complete. " + rec.Explanation
	return res
}

//
// Initial plan
//

func resolveWorkingWeight(pc models.PlanningContext) (float64, string, bool) {
	if pc.Overrides != nil && pc.Overrides.Weight != nil && *pc.Overrides.Weight > 0 {
		return *pc.Overrides.Weight, "override", true
	}
	if h := pc.HistoricalMetrics; h != nil && h.LastWorkingWeight != nil && *h.LastWorkingWeight > 0 {
		return *h.LastWorkingWeight, "history", true
	}
	return 0, "", false
}

func (p *Planner) planInitial(pc models.PlanningContext) models.PlanResult {
	res := baseResult(pc)

	weight, source, ok := resolveWorkingWeight(pc)
	if !ok {
		res.ShouldStop = true
		res.StopReason = models.StopUserRequested
		res.Message = fmt.Sprintf("No working weight on record for %s. Run weight discovery first.", pc.ExerciseID)
		return res
	}

	rr := repRangeOf(pc)
	n := p.plannedSetCount(pc)

	if source == "history" && pc.ApplyProgression {
		weight = p.applyProgression(pc, weight, n, rr, &res)
	}
	if m, reason, conf := readinessScaling(pc); m > 0 && m != 1 {
		adjusted := QuantizeWeight(weight * m)
		res.Adjustments = append(res.Adjustments, models.PlanAdjustment{
			Type:       models.AdjustReadiness,
			Reason:     reason,
			Confidence: conf,
			From:       weight,
			To:         adjusted,
		})
		weight = adjusted
	}
	weight = QuantizeWeight(weight)

	sets := buildInitialSets(pc, weight, n, rr)
	res.NextSet = &sets[0]
	res.RemainingSets = sets[1:]
	res.RestSeconds = firstRest(sets[0], pc.Goal)

	warmups := len(sets) - n
	if warmups > 0 {
		res.Message = fmt.Sprintf("%d warmup sets, then %d x %s at %.0f.", warmups, n, rr, weight)
	} else {
		res.Message = fmt.Sprintf("%d x %s at %.0f.", n, rr, weight)
	}
	return res
}

func (p *Planner) applyProgression(pc models.PlanningContext, weight float64, sets int, rr models.RepRange, res *models.PlanResult) float64 {
	h := pc.HistoricalMetrics
	if h.AvgRepsAtWeight <= 0 {
		return weight
	}

	scheme := pc.ProgressionScheme
	if scheme == "" {
		scheme = SelectProgressionScheme(pc.Level, pc.Goal)
	}
	target := VelocityLossTarget(pc.Goal)
	prog := CalculateProgression(scheme, ProgressionInput{
		CurrentWeight:   weight,
		TotalReps:       int(math.Round(h.AvgRepsAtWeight * float64(sets))),
		SetsCompleted:   sets,
		RepRange:        rr,
		AvgRIR:          float64(RIRDefault(pc.ExerciseType)),
		AvgVelocityLoss: (target.Min + target.Max) / 2,
		Goal:            pc.Goal,
		ExerciseType:    pc.ExerciseType,
		Trend:           h.Trend,
	})
	p.logger.Debug("progression applied", "scheme", prog.Scheme, "action", prog.Action, "change", prog.WeightChange)

	if prog.Action == models.ActionMaintain {
		return weight
	}
	res.Adjustments = append(res.Adjustments, models.PlanAdjustment{
		Type:       models.AdjustProgression,
		Reason:     fmt.Sprintf("%s progression: %s", prog.Scheme, prog.Reason),
		Confidence: prog.Confidence,
		From:       weight,
		To:         prog.NewWeight,
	})
	return prog.NewWeight
}

// readinessScaling returns the load multiplier for the day. A measured
// readiness multiplier wins; otherwise a self-reported low energy trims the
// load.
func readinessScaling(pc models.PlanningContext) (float64, string, models.Confidence) {
	r := pc.SessionMetrics.Readiness
	if m := r.Adjustments.WeightMultiplier; m > 0 && m != 1 {
		reason := r.Message
		if reason == "" {
			reason = fmt.Sprintf("readiness %s, load scaled by %.0f%%", r.Zone, m*100)
		}
		return m, reason, confidenceOf(r.Confidence)
	}
	if pc.Overrides != nil && pc.Overrides.ReportedEnergy == models.EnergyLow {
		return LowEnergyWeightMultiplier,
			fmt.Sprintf("low energy reported, load scaled by %.0f%%", LowEnergyWeightMultiplier*100),
			models.ConfidenceLow
	}
	return 1, "", ""
}

func buildInitialSets(pc models.PlanningContext, weight float64, n int, rr models.RepRange) []models.PlannedSet {
	var sets []models.PlannedSet
	if !skipWarmups(pc) {
		for _, w := range BuildWarmupSets(weight, DefaultWarmupScheme()) {
			sets = append(sets, models.PlannedSet{
				SetNumber:  len(sets) + 1,
				Weight:     w.Weight,
				TargetReps: w.Reps,
				IsWarmup:   true,
			})
		}
	}
	return appendWorkingSets(sets, weight, n, rr, RIRDefault(pc.ExerciseType))
}

func appendWorkingSets(sets []models.PlannedSet, weight float64, n int, rr models.RepRange, rir int) []models.PlannedSet {
	for i := 0; i < n; i++ {
		r := rr
		sets = append(sets, models.PlannedSet{
			SetNumber:  len(sets) + 1,
			Weight:     weight,
			TargetReps: rr.Low(),
			RepRange:   &r,
			RIRTarget:  rir,
		})
	}
	return sets
}

func firstRest(first models.PlannedSet, goal models.TrainingGoal) int {
	if first.IsWarmup {
		return DefaultWarmupScheme().RestSeconds
	}
	return RestDefault(goal)
}

//
// Adaptation
//

func (p *Planner) planAdaptation(pc models.PlanningContext, log *slog.Logger) models.PlanResult {
	last := pc.CompletedSets[len(pc.CompletedSets)-1]
	if last.IsWarmup {
		return p.continueWarmup(pc, last)
	}

	res := baseResult(pc)
	fatigue := pc.SessionMetrics.Fatigue
	perf := ExtractSetPerformance(last)
	planned := p.plannedSetCount(pc)

	var working []models.CompletedSet
	for _, s := range pc.CompletedSets {
		if !s.IsWarmup {
			working = append(working, s)
		}
	}
	completed := len(working)
	if res.Volume.AccumulatedVolume == 0 {
		for _, s := range working {
			res.Volume.AccumulatedVolume += s.Weight * float64(s.RepCount())
		}
	}

	remaining := planned - completed
	stop := ShouldStop(StopInput{
		CompletedSets: completed,
		PlannedSets:   planned,
		MinSets:       MinWorkingSets,
		Fatigue:       fatigue,
	})
	if stop.ShouldStop {
		extra := ExtraSetDecision{}
		if stop.Reason == models.StopTargetReached && completed == planned {
			extra = CanAddExtraSet(ExtraSetInput{
				CompletedSets:    completed,
				MaxSets:          min(MaxWorkingSets, planned+1),
				LastSetRIR:       perf.RIR,
				LastVelocityLoss: perf.FatigueIndex,
				Goal:             pc.Goal,
				ExerciseType:     pc.ExerciseType,
				Fatigue:          fatigue,
			})
		}
		if !extra.Allowed {
			log.Debug("stopping exercise", "reason", stop.Reason)
			res.ShouldStop = true
			res.StopReason = stop.Reason
			res.RestSeconds = 0
			res.Message = stop.Message
			return res
		}
		res.Adjustments = append(res.Adjustments, models.PlanAdjustment{
			Type:       models.AdjustSets,
			Reason:     extra.Reason,
			Confidence: models.ConfidenceMedium,
			From:       float64(planned),
			To:         float64(planned + 1),
		})
		remaining = 1
	}

	wa := CalculateWeightAdjustment(last.Weight, perf.FatigueIndex, pc.Goal, pc.ExerciseType, fatigue)
	weight := QuantizeWeight(last.Weight)
	if wa.ShouldAdjust {
		weight = QuantizeWeight(wa.NewWeight)
		res.Adjustments = append(res.Adjustments, models.PlanAdjustment{
			Type:       models.AdjustWeight,
			Reason:     wa.Reason,
			Confidence: wa.Confidence,
			From:       last.Weight,
			To:         weight,
		})
	}

	baseRest := RestDefault(pc.Goal)
	ra := CalculateRestAdjustment(baseRest, perf.FatigueIndex, fatigue)
	if ra.Extension != 0 {
		res.Adjustments = append(res.Adjustments, models.PlanAdjustment{
			Type:       models.AdjustRest,
			Reason:     strings.Join(ra.Reasons, "; "),
			Confidence: models.ConfidenceHigh,
			From:       float64(baseRest),
			To:         float64(ra.RestSeconds),
		})
	}
	res.RestSeconds = ra.RestSeconds

	rr := repRangeOf(pc)
	var sets []models.PlannedSet
	for i := 0; i < remaining; i++ {
		r := rr
		sets = append(sets, models.PlannedSet{
			SetNumber:  len(pc.CompletedSets) + 1 + i,
			Weight:     weight,
			TargetReps: rr.Low(),
			RepRange:   &r,
			RIRTarget:  RIRDefault(pc.ExerciseType),
		})
	}
	res.NextSet = &sets[0]
	res.RemainingSets = sets[1:]

	var msg strings.Builder
	fmt.Fprintf(&msg, "Next: %d x %s at %.0f after %ds rest.", rr.Low(), rr, weight, res.RestSeconds)
	if wa.ShouldAdjust {
		fmt.Fprintf(&msg, " Load changed: %s.", wa.Reason)
	}
	if note := deviationNote(working, baseRest); note != "" {
		msg.WriteString(" " + note)
	}
	res.Message = msg.String()
	return res
}

// continueWarmup hands out the rest of the warmup ramp.
func (p *Planner) continueWarmup(pc models.PlanningContext, last models.CompletedSet) models.PlanResult {
	res := baseResult(pc)
	weight, _, ok := resolveWorkingWeight(pc)
	if !ok {
		weight = last.Weight
	}
	weight = QuantizeWeight(weight)

	sets := buildInitialSets(pc, weight, p.plannedSetCount(pc), repRangeOf(pc))
	idx := len(pc.CompletedSets)
	if idx >= len(sets) {
		idx = len(sets) - 1
	}
	res.NextSet = &sets[idx]
	res.RemainingSets = sets[idx+1:]
	res.RestSeconds = DefaultWarmupScheme().RestSeconds
	if sets[idx].IsWarmup {
		res.Message = fmt.Sprintf("Warmup: %d at %.0f.", sets[idx].TargetReps, sets[idx].Weight)
	} else {
		res.Message = fmt.Sprintf("Warmups done. Working sets at %.0f.", weight)
	}
	return res
}

// deviationNote compares the last working set with the drop expected from
// the first one.
func deviationNote(working []models.CompletedSet, rest int) string {
	if len(working) < 2 {
		return ""
	}
	first := ExtractSetPerformance(working[0])
	last := ExtractSetPerformance(working[len(working)-1])
	exp := CalculateExpectedPerformance(first.Reps, first.AvgVelocity, len(working), rest)
	dev := AssessDeviation(last.Reps, last.AvgVelocity, exp, DeviationTolerance)

	switch dev.Assessment {
	case AssessmentBetter:
		return fmt.Sprintf("Set %d beat the expected %.1f reps.", len(working), exp.ExpectedReps)
	case AssessmentBelow:
		return fmt.Sprintf("Set %d fell short of the expected %.1f reps.", len(working), exp.ExpectedReps)
	case AssessmentVelocityDropping:
		return "Bar speed is dropping faster than expected."
	}
	return ""
}

func confidenceOf(score float64) models.Confidence {
	switch {
	case score >= 0.8:
		return models.ConfidenceHigh
	case score >= 0.6:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}
