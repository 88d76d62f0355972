package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/HJewkes/voltra-playground-sub000/internal/models"
)

type exerciseRow struct {
	ID           string `db:"id"`
	Name         string `db:"name"`
	ExerciseType string `db:"exercise_type"`
	CreatedAt    string `db:"created_at"`
}

func (r exerciseRow) toModel() models.Exercise {
	ex := models.Exercise{
		ID:   r.ID,
		Name: r.Name,
		Type: models.ExerciseType(r.ExerciseType),
	}
	ex.CreatedAt, _ = time.Parse(time.RFC3339, r.CreatedAt)
	return ex
}

// CreateExercise stores a new exercise. Names are unique.
func (s *Storage) CreateExercise(name string, typ models.ExerciseType) (*models.Exercise, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("exercise name is empty")
	}
	if !typ.Valid() {
		return nil, fmt.Errorf("unknown exercise type %q", typ)
	}

	exists, err := s.ExerciseExists(name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("exercise %q already exists", name)
	}

	ex := models.Exercise{
		ID:        uuid.New().String(),
		Name:      name,
		Type:      typ,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	_, err = s.db.Exec(
		`INSERT INTO exercises (id, name, exercise_type, created_at) VALUES (?, ?, ?, ?)`,
		ex.ID, ex.Name, string(ex.Type), ex.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("Failed to create exercise: %w", err)
	}
	return &ex, nil
}

func (s *Storage) ExerciseExists(name string) (bool, error) {
	var exists bool
	err := s.db.Get(&exists, "SELECT EXISTS(SELECT 1 FROM exercises WHERE name = ?)", name)
	if err != nil {
		return false, fmt.Errorf("Failed to check exercise existence: %w", err)
	}
	return exists, nil
}

func (s *Storage) GetExerciseByName(name string) (*models.Exercise, error) {
	return s.getExercise("name", name)
}

func (s *Storage) GetExerciseByID(id string) (*models.Exercise, error) {
	return s.getExercise("id", id)
}

func (s *Storage) getExercise(column, value string) (*models.Exercise, error) {
	var row exerciseRow
	err := s.db.Get(&row,
		`SELECT id, name, exercise_type, created_at FROM exercises WHERE `+column+` = ?`,
		value,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("exercise %q: %w", value, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("Failed to load exercise %q: %w", value, err)
	}
	ex := row.toModel()
	return &ex, nil
}

// ListExercises returns all exercises sorted by name.
func (s *Storage) ListExercises() ([]models.Exercise, error) {
	var rows []exerciseRow
	if err := s.db.Select(&rows, `SELECT id, name, exercise_type, created_at FROM exercises ORDER BY name`); err != nil {
		return nil, fmt.Errorf("Failed to list exercises: %w", err)
	}

	exercises := make([]models.Exercise, 0, len(rows))
	for _, r := range rows {
		exercises = append(exercises, r.toModel())
	}
	return exercises, nil
}
