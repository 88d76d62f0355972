package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ExerciseID string    `json:"exercise_id"`
	Goal       string    `json:"goal"`
	Weight     *float64  `json:"weight,omitempty"`
	Range      [2]int    `json:"rep_range"`
	Tags       []string  `json:"tags,omitempty"`
	Nested     *sample   `json:"nested,omitempty"`
	When       time.Time `json:"when"`
}

func TestDecode_Formats(t *testing.T) {
	tests := []struct {
		name   string
		format string
		data   string
	}{
		{"toml", "toml", "exercise_id = \"squat\"\ngoal = \"strength\"\nweight = 100.0\nrep_range = [3, 6]\n"},
		{"yaml", "yaml", "exercise_id: squat\ngoal: strength\nweight: 100\nrep_range: [3, 6]\n"},
		{"json", "json", `{"exercise_id":"squat","goal":"strength","weight":100,"rep_range":[3,6]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s sample
			require.NoError(t, Decode([]byte(tt.data), tt.format, &s))
			assert.Equal(t, "squat", s.ExerciseID)
			assert.Equal(t, "strength", s.Goal)
			require.NotNil(t, s.Weight)
			assert.Equal(t, 100.0, *s.Weight)
			assert.Equal(t, [2]int{3, 6}, s.Range)
		})
	}
}

func TestDecode_UnknownFormat(t *testing.T) {
	var s sample
	assert.Error(t, Decode([]byte("x"), "ini", &s))
}

func TestWriteTOMLFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.toml")
	in := sample{
		ExerciseID: "bench",
		Goal:       "hypertrophy",
		Range:      [2]int{8, 12},
		Nested:     &sample{ExerciseID: "inner", When: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
		When:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, WriteTOMLFile(path, in))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `exercise_id = "bench"`)
	assert.NotContains(t, string(raw), "weight")

	var out sample
	require.NoError(t, DecodeFile(path, &out))
	assert.Equal(t, in.ExerciseID, out.ExerciseID)
	assert.Equal(t, in.Range, out.Range)
	require.NotNil(t, out.Nested)
	assert.Equal(t, "inner", out.Nested.ExerciseID)
}

func TestWeeksBetween(t *testing.T) {
	start := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, WeeksBetween(start, start.AddDate(0, 0, 6)))
	assert.Equal(t, 5, WeeksBetween(start, start.AddDate(0, 0, 35)))
	assert.Equal(t, 0, WeeksBetween(start, start.AddDate(0, 0, -10)))
	assert.Equal(t, 3, DaysBetween(start, start.Add(80*time.Hour)))
}

func TestBoolToInt(t *testing.T) {
	assert.Equal(t, 1, BoolToInt(true))
	assert.Equal(t, 0, BoolToInt(false))
}
