package models

import "time"

type Exercise struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Type      ExerciseType `json:"exercise_type"`
	CreatedAt time.Time    `json:"created_at"`
}
