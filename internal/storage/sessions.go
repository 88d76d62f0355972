package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/HJewkes/voltra-playground-sub000/internal/models"
	"github.com/HJewkes/voltra-playground-sub000/internal/utils"
)

type sessionRow struct {
	ID              string  `db:"id"`
	ExerciseID      string  `db:"exercise_id"`
	StartTime       string  `db:"start_time"`
	Weight          float64 `db:"weight"`
	SetsCompleted   int     `db:"sets_completed"`
	TotalReps       int     `db:"total_reps"`
	TargetReps      int     `db:"target_reps"`
	AvgRIR          float64 `db:"avg_rir"`
	AvgVelocityLoss float64 `db:"avg_velocity_loss"`
	EstimatedOneRM  float64 `db:"estimated_one_rm"`
	IsDeload        bool    `db:"is_deload"`
}

func (r sessionRow) toModel() models.SessionSummary {
	s := models.SessionSummary{
		ID:              r.ID,
		ExerciseID:      r.ExerciseID,
		Weight:          r.Weight,
		SetsCompleted:   r.SetsCompleted,
		TotalReps:       r.TotalReps,
		TargetReps:      r.TargetReps,
		AvgRIR:          r.AvgRIR,
		AvgVelocityLoss: r.AvgVelocityLoss,
		Estimated1RM:    r.EstimatedOneRM,
		IsDeload:        r.IsDeload,
	}
	s.Date, _ = time.Parse(time.RFC3339, r.StartTime)
	return s
}

// RecordSession stores a session summary and returns its id. A zero date
// means now; a missing 1RM estimate is filled in with Epley.
func (s *Storage) RecordSession(summary models.SessionSummary) (string, error) {
	if summary.ExerciseID == "" {
		return "", errors.New("session has no exercise")
	}
	if summary.SetsCompleted <= 0 {
		return "", fmt.Errorf("sets completed must be positive, got %d", summary.SetsCompleted)
	}
	if summary.ID == "" {
		summary.ID = uuid.New().String()
	}
	if summary.Date.IsZero() {
		summary.Date = time.Now()
	}
	if summary.Estimated1RM == 0 {
		reps := int(summary.RepsPerSet() + 0.5)
		summary.Estimated1RM = utils.CalculateEpley1RM(summary.Weight, reps)
	}

	_, err := s.db.Exec(
		`INSERT INTO training_sessions
		(id, exercise_id, start_time, weight, sets_completed, total_reps, target_reps,
		 avg_rir, avg_velocity_loss, estimated_one_rm, is_deload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.ID,
		summary.ExerciseID,
		summary.Date.UTC().Format(time.RFC3339),
		summary.Weight,
		summary.SetsCompleted,
		summary.TotalReps,
		summary.TargetReps,
		summary.AvgRIR,
		summary.AvgVelocityLoss,
		summary.Estimated1RM,
		utils.BoolToInt(summary.IsDeload),
	)
	if err != nil {
		return "", fmt.Errorf("Failed to record session: %w", err)
	}
	return summary.ID, nil
}

// GetRecentSessions returns up to limit of the latest sessions of an
// exercise, oldest first.
func (s *Storage) GetRecentSessions(exerciseID string, limit int) ([]models.SessionSummary, error) {
	if limit <= 0 {
		limit = 10
	}

	var rows []sessionRow
	err := s.db.Select(&rows, `
        SELECT * FROM (
            SELECT * FROM training_sessions
            WHERE exercise_id = ?
            ORDER BY start_time DESC
            LIMIT ?
        ) ORDER BY start_time ASC`,
		exerciseID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("Failed to load sessions: %w", err)
	}

	sessions := make([]models.SessionSummary, 0, len(rows))
	for _, r := range rows {
		sessions = append(sessions, r.toModel())
	}
	return sessions, nil
}

// GetSessionsOn returns the sessions of an exercise that started on the
// calendar day of day, in day's location, oldest first.
func (s *Storage) GetSessionsOn(exerciseID string, day time.Time) ([]models.SessionSummary, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var rows []sessionRow
	err := s.db.Select(&rows, `
        SELECT * FROM training_sessions
        WHERE exercise_id = ? AND start_time >= ? AND start_time < ?
        ORDER BY start_time ASC`,
		exerciseID, start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("Failed to load sessions: %w", err)
	}

	sessions := make([]models.SessionSummary, 0, len(rows))
	for _, r := range rows {
		sessions = append(sessions, r.toModel())
	}
	return sessions, nil
}

func (s *Storage) CountSessions(exerciseID string) (int, error) {
	var n int
	if err := s.db.Get(&n, `SELECT COUNT(*) FROM training_sessions WHERE exercise_id = ?`, exerciseID); err != nil {
		return 0, fmt.Errorf("Failed to count sessions: %w", err)
	}
	return n, nil
}

// WeeksSinceDeload counts whole weeks since the last deload session. Without
// one it counts from the first session; with no sessions at all it is 0.
func (s *Storage) WeeksSinceDeload(exerciseID string, now time.Time) (int, error) {
	var since sql.NullString
	err := s.db.Get(&since,
		`SELECT MAX(start_time) FROM training_sessions WHERE exercise_id = ? AND is_deload = 1`,
		exerciseID,
	)
	if err != nil {
		return 0, fmt.Errorf("Failed to find last deload: %w", err)
	}

	if !since.Valid {
		err = s.db.Get(&since, `SELECT MIN(start_time) FROM training_sessions WHERE exercise_id = ?`, exerciseID)
		if err != nil {
			return 0, fmt.Errorf("Failed to find first session: %w", err)
		}
	}
	if !since.Valid {
		return 0, nil
	}

	t, err := time.Parse(time.RFC3339, since.String)
	if err != nil {
		return 0, fmt.Errorf("Failed to parse session time %q: %w", since.String, err)
	}
	return utils.WeeksBetween(t, now), nil
}
