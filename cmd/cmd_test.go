package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags puts every flag of the command tree back to its default, since
// the flag variables outlive a single Execute.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func setup(t *testing.T) string {
	t.Helper()
	color.NoColor = true
	t.Setenv("TURSO_DATABASE_URL", "")
	t.Setenv("TURSO_AUTH_TOKEN", "")
	t.Setenv("DEV_MODE", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	conf := fmt.Sprintf("[database]\nconnection_string = %q\n", filepath.Join(dir, "voltra.db"))
	require.NoError(t, os.WriteFile(path, []byte(conf), 0644))
	return path
}

func run(t *testing.T, cfgFile string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", cfgFile}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, cfgFile string, args ...string) string {
	t.Helper()
	out, err := run(t, cfgFile, args...)
	require.NoError(t, err, out)
	return out
}

func TestExerciseCommands(t *testing.T) {
	cfgFile := setup(t)

	out := mustRun(t, cfgFile, "add-exercise", "-n", "squat")
	assert.Contains(t, out, "Created exercise: squat (compound)")

	_, err := run(t, cfgFile, "add-exercise", "-n", "squat")
	assert.Error(t, err)

	list := filepath.Join(t.TempDir(), "exercises.toml")
	require.NoError(t, os.WriteFile(list, []byte(`
[[exercises]]
name = "squat"

[[exercises]]
name = "curl"
type = "isolation"
`), 0644))
	out = mustRun(t, cfgFile, "import-exercises", list)
	assert.Contains(t, out, "Imported 1 exercises")

	out = mustRun(t, cfgFile, "list-exercises")
	assert.Contains(t, out, "curl isolation")
	assert.Contains(t, out, "squat compound")

	_, err = run(t, cfgFile, "history", "bench")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown exercise")
}

func TestSessionCommands(t *testing.T) {
	cfgFile := setup(t)
	mustRun(t, cfgFile, "add-exercise", "-n", "squat")

	out := mustRun(t, cfgFile, "log-session", "squat", "-w", "100", "-s", "3", "-r", "30", "--target-reps", "10", "--vl", "25")
	assert.Contains(t, out, "Logged squat: 100 × 3 sets, 30 reps")
	mustRun(t, cfgFile, "log-session", "squat", "-w", "100", "-s", "3", "-r", "33", "--target-reps", "10", "--vl", "22")

	_, err := run(t, cfgFile, "log-session", "squat", "-w", "0", "-s", "3", "-r", "30")
	assert.Error(t, err)

	out = mustRun(t, cfgFile, "history", "squat")
	assert.Contains(t, out, "100 × 3 sets, 30 reps")
	assert.Contains(t, out, "100 × 3 sets, 33 reps")

	out = mustRun(t, cfgFile, "progress", "squat")
	assert.Contains(t, out, "Next session:")
	assert.Contains(t, out, "Weekly volume (intermediate, sets per muscle): MEV 8, MAV 14, MRV 20")
	assert.Contains(t, out, "Trend: improving over 2 sessions")

	_, err = run(t, cfgFile, "progress", "squat", "--scheme", "wave")
	assert.Error(t, err)

	out = mustRun(t, cfgFile, "deload-check", "squat")
	assert.Contains(t, out, "No deload needed for squat")

	out = mustRun(t, cfgFile, "show-ex", "squat")
	assert.Contains(t, out, "squat")

	out = mustRun(t, cfgFile, "plan", "--history", "squat")
	assert.Contains(t, out, "Next set:")
	assert.Contains(t, out, "warmup")

	// An older day is found even when it is outside --limit.
	mustRun(t, cfgFile, "log-session", "squat", "-w", "90", "-s", "3", "-r", "36", "--date", "2024-03-05")
	out = mustRun(t, cfgFile, "history", "squat", "--limit", "1", "--day", "2024-03-05")
	assert.Contains(t, out, "90 × 3 sets, 36 reps")
	assert.NotContains(t, out, "100 × 3 sets")
}

func TestPlanCommand_ContextFile(t *testing.T) {
	cfgFile := setup(t)

	ctx := filepath.Join(t.TempDir(), "context.yaml")
	require.NoError(t, os.WriteFile(ctx, []byte(`
exercise_id: bench
exercise_type: compound
overrides:
  weight: 62
  set_count: 4
  skip_warmups: true
`), 0644))

	out := mustRun(t, cfgFile, "plan", ctx, "--json")
	assert.Contains(t, out, `"weight": 60`)

	_, err := run(t, cfgFile, "plan")
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"goal": "power", "exercise_type": "compound"}`), 0644))
	_, err = run(t, cfgFile, "plan", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "goal")
}

func TestDiscoverCommands(t *testing.T) {
	cfgFile := setup(t)
	mustRun(t, cfgFile, "add-exercise", "-n", "squat")

	_, err := run(t, cfgFile, "discover", "record", "squat", "-w", "60", "-r", "5", "--velocity", "0.95")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no discovery run")

	out := mustRun(t, cfgFile, "discover", "start", "squat", "--light", "60")
	assert.Contains(t, out, "Discovery set 1")
	assert.Contains(t, out, "Load: 60 × 5")

	out = mustRun(t, cfgFile, "discover", "record", "squat", "-w", "60", "-r", "5", "--velocity", "0.95")
	assert.Contains(t, out, "Discovery set 2")
	assert.Contains(t, out, "Load: 80 × 5")

	out = mustRun(t, cfgFile, "discover", "show", "squat")
	assert.Contains(t, out, "60 × 5 @ 0.95 m/s (fast)")

	file := filepath.Join(t.TempDir(), "discovery.toml")
	out = mustRun(t, cfgFile, "discover", "export", "squat", file)
	assert.Contains(t, out, "exported to")
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "mean_velocity = 0.95")
}

func TestExportAndBuildDB(t *testing.T) {
	cfgFile := setup(t)
	mustRun(t, cfgFile, "add-exercise", "-n", "squat")
	mustRun(t, cfgFile, "log-session", "squat", "-w", "100", "-s", "3", "-r", "30")

	dump := filepath.Join(t.TempDir(), "dump.toml")
	out := mustRun(t, cfgFile, "export", dump)
	assert.Contains(t, out, "exported successfully")

	other := setup(t)
	mustRun(t, other, "build-db", dump)
	out = mustRun(t, other, "history", "squat")
	assert.Contains(t, out, "100 × 3 sets, 30 reps")
}
