package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/HJewkes/voltra-playground-sub000/internal/models"
	"github.com/HJewkes/voltra-playground-sub000/internal/utils"
)

type discoveryRow struct {
	ID             string         `db:"id"`
	ExerciseID     string         `db:"exercise_id"`
	ExerciseType   string         `db:"exercise_type"`
	Goal           string         `db:"goal"`
	Phase          string         `db:"phase"`
	CurrentWeight  float64        `db:"current_weight"`
	LastVelocity   float64        `db:"last_velocity"`
	StartedAt      string         `db:"started_at"`
	CompletedAt    sql.NullString `db:"completed_at"`
	Recommendation sql.NullString `db:"recommendation"`
}

type discoverySetRow struct {
	Weight       float64         `db:"weight"`
	Reps         int             `db:"reps"`
	MeanVelocity float64         `db:"mean_velocity"`
	PeakVelocity float64         `db:"peak_velocity"`
	RPE          sql.NullFloat64 `db:"rpe"`
	Failed       bool            `db:"failed"`
	Notes        string          `db:"notes"`
}

// SaveDiscoveryState stores the discovery run of an exercise, replacing the
// recorded sets. An exercise has at most one run.
func (s *Storage) SaveDiscoveryState(state models.DiscoveryState) error {
	ctx := context.Background()
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	var completedAt any
	if state.Phase == models.PhaseComplete {
		completedAt = now
	}

	var id string
	err = tx.GetContext(ctx, &id, `SELECT id FROM discoveries WHERE exercise_id = ?`, state.ExerciseID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		id = uuid.New().String()
		_, err = tx.ExecContext(ctx,
			`INSERT INTO discoveries
			(id, exercise_id, exercise_type, goal, phase, current_weight, last_velocity, started_at, completed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, state.ExerciseID, string(state.ExerciseType), string(state.Goal), string(state.Phase),
			state.CurrentWeight, state.LastVelocity, now, completedAt,
		)
	case err == nil:
		_, err = tx.ExecContext(ctx,
			`UPDATE discoveries
			SET exercise_type = ?, goal = ?, phase = ?, current_weight = ?, last_velocity = ?,
				completed_at = COALESCE(completed_at, ?)
			WHERE id = ?`,
			string(state.ExerciseType), string(state.Goal), string(state.Phase),
			state.CurrentWeight, state.LastVelocity, completedAt, id,
		)
	}
	if err != nil {
		return fmt.Errorf("Failed to save discovery: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM discovery_sets WHERE discovery_id = ?`, id); err != nil {
		return fmt.Errorf("Failed to clear discovery sets: %w", err)
	}
	for i, r := range state.Results {
		var rpe any
		if r.RPE != nil {
			rpe = *r.RPE
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO discovery_sets
			(id, discovery_id, set_index, weight, reps, mean_velocity, peak_velocity, rpe, failed, notes, timestamp)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), id, i, r.Weight, r.Reps, r.MeanVelocity, r.PeakVelocity,
			rpe, utils.BoolToInt(r.Failed), r.Notes, now,
		)
		if err != nil {
			return fmt.Errorf("Failed to save discovery set %d: %w", i+1, err)
		}
	}

	return tx.Commit()
}

func (s *Storage) getDiscovery(exerciseID string) (*discoveryRow, error) {
	var row discoveryRow
	err := s.db.Get(&row, `SELECT * FROM discoveries WHERE exercise_id = ?`, exerciseID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("discovery for %s: %w", exerciseID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("Failed to load discovery: %w", err)
	}
	return &row, nil
}

// LoadDiscoveryState returns the stored discovery run of an exercise.
func (s *Storage) LoadDiscoveryState(exerciseID string) (*models.DiscoveryState, error) {
	row, err := s.getDiscovery(exerciseID)
	if err != nil {
		return nil, err
	}

	var sets []discoverySetRow
	err = s.db.Select(&sets,
		`SELECT weight, reps, mean_velocity, peak_velocity, rpe, failed, notes
		FROM discovery_sets WHERE discovery_id = ? ORDER BY set_index`,
		row.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("Failed to load discovery sets: %w", err)
	}

	state := &models.DiscoveryState{
		ExerciseID:    row.ExerciseID,
		ExerciseType:  models.ExerciseType(row.ExerciseType),
		Goal:          models.TrainingGoal(row.Goal),
		Phase:         models.DiscoveryPhase(row.Phase),
		Results:       make([]models.DiscoverySetResult, 0, len(sets)),
		CurrentWeight: row.CurrentWeight,
		LastVelocity:  row.LastVelocity,
	}
	for _, set := range sets {
		r := models.DiscoverySetResult{
			Weight:       set.Weight,
			Reps:         set.Reps,
			MeanVelocity: set.MeanVelocity,
			PeakVelocity: set.PeakVelocity,
			Failed:       set.Failed,
			Notes:        set.Notes,
		}
		if set.RPE.Valid {
			rpe := set.RPE.Float64
			r.RPE = &rpe
		}
		state.Results = append(state.Results, r)
	}
	return state, nil
}

// DeleteDiscoveryState removes the discovery run of an exercise, if any.
func (s *Storage) DeleteDiscoveryState(exerciseID string) error {
	ctx := context.Background()
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM discovery_sets WHERE discovery_id IN (SELECT id FROM discoveries WHERE exercise_id = ?)`,
		exerciseID,
	)
	if err != nil {
		return fmt.Errorf("Failed to delete discovery sets: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM discoveries WHERE exercise_id = ?`, exerciseID); err != nil {
		return fmt.Errorf("Failed to delete discovery: %w", err)
	}
	return tx.Commit()
}

// SaveRecommendation attaches the final recommendation to a discovery run.
func (s *Storage) SaveRecommendation(exerciseID string, rec models.DiscoveryRecommendation) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("Failed to encode recommendation: %w", err)
	}
	res, err := s.db.Exec(
		`UPDATE discoveries SET recommendation = ?, phase = ?, completed_at = COALESCE(completed_at, ?) WHERE exercise_id = ?`,
		string(raw), string(models.PhaseComplete), time.Now().UTC().Format(time.RFC3339), exerciseID,
	)
	if err != nil {
		return fmt.Errorf("Failed to save recommendation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("discovery for %s: %w", exerciseID, ErrNotFound)
	}
	return nil
}

// LoadRecommendation returns the recommendation of a completed discovery run.
func (s *Storage) LoadRecommendation(exerciseID string) (*models.DiscoveryRecommendation, error) {
	row, err := s.getDiscovery(exerciseID)
	if err != nil {
		return nil, err
	}
	if !row.Recommendation.Valid || row.Recommendation.String == "" {
		return nil, fmt.Errorf("recommendation for %s: %w", exerciseID, ErrNotFound)
	}

	var rec models.DiscoveryRecommendation
	if err := json.Unmarshal([]byte(row.Recommendation.String), &rec); err != nil {
		return nil, fmt.Errorf("Failed to decode recommendation: %w", err)
	}
	return &rec, nil
}
