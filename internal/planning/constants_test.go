package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/HJewkes/voltra-playground-sub000/internal/models"
)

func TestQuantizeWeight(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"already a multiple", 100, 100},
		{"rounds down", 102.4, 100},
		{"rounds half up", 52.5, 55},
		{"54.9 rounds up", 54.9, 55},
		{"floors at minimum", 1, 5},
		{"zero", 0, 5},
		{"negative", -20, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QuantizeWeight(tt.in))
		})
	}
}

func TestGoalTables(t *testing.T) {
	assert.Equal(t, Range{Min: 10, Max: 20}, VelocityLossTarget(models.GoalStrength))
	assert.Equal(t, Range{Min: 20, Max: 30}, VelocityLossTarget(models.GoalHypertrophy))
	assert.Equal(t, Range{Min: 30, Max: 40}, VelocityLossTarget(models.GoalEndurance))

	assert.Equal(t, 180, RestDefault(models.GoalStrength))
	assert.Equal(t, 120, RestDefault(models.GoalHypertrophy))
	assert.Equal(t, 75, RestDefault(models.GoalEndurance))

	assert.Equal(t, models.RepRange{3, 6}, RepRangeFor(models.GoalStrength))
	assert.Equal(t, models.RepRange{8, 12}, RepRangeFor(models.GoalHypertrophy))
	assert.Equal(t, models.RepRange{15, 20}, RepRangeFor(models.GoalEndurance))

	assert.Equal(t, 85.0, TrainingZoneFor(models.GoalStrength).OptimalPercent)
	assert.Equal(t, 75.0, TrainingZoneFor(models.GoalHypertrophy).OptimalPercent)
	assert.Equal(t, 60.0, TrainingZoneFor(models.GoalEndurance).OptimalPercent)
}

func TestLevelAndTypeTables(t *testing.T) {
	assert.Equal(t, VolumeLandmarks{MEV: 6, MAV: 10, MRV: 14}, VolumeLandmarksFor(models.LevelNovice))
	assert.Equal(t, VolumeLandmarks{MEV: 8, MAV: 14, MRV: 20}, VolumeLandmarksFor(models.LevelIntermediate))
	assert.Equal(t, VolumeLandmarks{MEV: 10, MAV: 18, MRV: 24}, VolumeLandmarksFor(models.LevelAdvanced))

	assert.Equal(t, 5, DeloadWeeksThreshold(models.LevelNovice))
	assert.Equal(t, 5, DeloadWeeksThreshold(models.LevelIntermediate))
	assert.Equal(t, 6, DeloadWeeksThreshold(models.LevelAdvanced))

	assert.Equal(t, 2, RIRDefault(models.ExerciseCompound))
	assert.Equal(t, 1, RIRDefault(models.ExerciseIsolation))
	assert.Equal(t, 0.30, MinimumVelocityThreshold(models.ExerciseCompound))
	assert.Equal(t, 0.40, MinimumVelocityThreshold(models.ExerciseIsolation))
	assert.Equal(t, 5.0, ProgressionIncrement(models.ExerciseIsolation))
}

func TestRepDropRate(t *testing.T) {
	assert.Equal(t, 0.35, RepDropRate(60))
	assert.Equal(t, 0.20, RepDropRate(120))
	assert.Equal(t, 0.15, RepDropRate(180))
	assert.Equal(t, 0.20, RepDropRate(90))
}

func TestRangeContains(t *testing.T) {
	r := Range{Min: 20, Max: 30}
	assert.True(t, r.Contains(20))
	assert.True(t, r.Contains(30))
	assert.False(t, r.Contains(30.1))
}
