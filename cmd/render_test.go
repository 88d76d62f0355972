package cmd

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/HJewkes/voltra-playground-sub000/internal/models"
)

func TestRenderPlan_Stop(t *testing.T) {
	color.NoColor = true
	var b bytes.Buffer
	renderPlan(&b, models.PlanResult{
		ShouldStop: true,
		StopReason: models.StopVelocityGrinding,
		Message:    "Bar speed is too slow.",
	})
	assert.Equal(t, "Stop: velocity_grinding\n  Bar speed is too slow.\n", b.String())
}

func TestRenderPlan_Sets(t *testing.T) {
	color.NoColor = true
	rr := models.RepRange{8, 12}
	var b bytes.Buffer
	renderPlan(&b, models.PlanResult{
		NextSet:     &models.PlannedSet{SetNumber: 1, Weight: 50, TargetReps: 10, IsWarmup: true},
		RestSeconds: 60,
		RemainingSets: []models.PlannedSet{
			{SetNumber: 2, Weight: 100, TargetReps: 8, RepRange: &rr, RIRTarget: 2},
		},
		Adjustments: []models.PlanAdjustment{
			{Type: models.AdjustWeight, From: 100, To: 95, Reason: "velocity loss high", Confidence: models.ConfidenceMedium},
		},
	})
	out := b.String()
	assert.Contains(t, out, "#1 warmup 50 × 10")
	assert.Contains(t, out, "Rest before: 60s")
	assert.Contains(t, out, "#2 100 × 8-12 @ 2 RIR")
	assert.Contains(t, out, "weight 100 → 95 (velocity loss high, medium confidence)")
}

func TestRenderRecommendation(t *testing.T) {
	color.NoColor = true
	var b bytes.Buffer
	renderRecommendation(&b, models.DiscoveryRecommendation{
		Estimated1RM:  100,
		WorkingWeight: 75,
		RepRange:      models.RepRange{8, 12},
		Confidence:    models.ConfidenceHigh,
		WarmupSets:    []models.WarmupSet{{Weight: 40, Reps: 10}, {Weight: 55, Reps: 5}},
		Profile:       models.LoadVelocityProfile{Slope: -0.01, Intercept: 1.3, RSquared: 0.98, Valid: true},
		Explanation:   "Fitted from 4 sets.",
	})
	out := b.String()
	assert.Contains(t, out, "Working weight: 75 × 8-12")
	assert.Contains(t, out, "Warmups: 40×10, 55×5")
	assert.Contains(t, out, "Expected first rep: 0.55 m/s at 75")
}
