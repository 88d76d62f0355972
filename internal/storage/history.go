package storage

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/HJewkes/voltra-playground-sub000/internal/models"
	"github.com/HJewkes/voltra-playground-sub000/internal/planning"
	"github.com/HJewkes/voltra-playground-sub000/internal/utils"
)

const historyWindow = 10

type velocityRow struct {
	Weight   float64 `db:"weight"`
	Velocity float64 `db:"velocity"`
}

// GetHistoricalMetrics summarizes the stored history of an exercise for the
// planner. Logged sessions take precedence; with none, a completed
// discovery run provides the working weight and 1RM.
func (s *Storage) GetHistoricalMetrics(exerciseID string, now time.Time) (*models.HistoricalMetrics, error) {
	sessions, err := s.GetRecentSessions(exerciseID, historyWindow)
	if err != nil {
		return nil, err
	}
	count, err := s.CountSessions(exerciseID)
	if err != nil {
		return nil, err
	}

	h := &models.HistoricalMetrics{SessionCount: count}

	if len(sessions) > 0 {
		last := sessions[len(sessions)-1]
		weight := last.Weight
		h.LastWorkingWeight = &weight

		h.RecentEstimated1RM = last.Estimated1RM
		if h.RecentEstimated1RM == 0 {
			h.RecentEstimated1RM = utils.CalculateEpley1RM(last.Weight, int(math.Round(last.RepsPerSet())))
		}

		var reps float64
		var n int
		for _, session := range sessions {
			if session.Weight == last.Weight && session.SetsCompleted > 0 {
				reps += session.RepsPerSet()
				n++
			}
		}
		if n > 0 {
			h.AvgRepsAtWeight = reps / float64(n)
		}

		days := utils.DaysBetween(last.Date, now)
		h.DaysSinceLastSession = &days
		h.Trend = planning.TrendDirectionOf(planning.AnalyzeTrend(sessions, 0))
	} else {
		rec, err := s.LoadRecommendation(exerciseID)
		switch {
		case err == nil:
			weight := rec.WorkingWeight
			h.LastWorkingWeight = &weight
			h.RecentEstimated1RM = rec.Estimated1RM
		case !errors.Is(err, ErrNotFound):
			return nil, err
		}
	}

	var baseline []velocityRow
	err = s.db.Select(&baseline, `
        SELECT ds.weight AS weight, AVG(ds.mean_velocity) AS velocity
        FROM discovery_sets ds
        JOIN discoveries d ON d.id = ds.discovery_id
        WHERE d.exercise_id = ? AND ds.failed = 0
        GROUP BY ds.weight
        ORDER BY ds.weight`,
		exerciseID,
	)
	if err != nil {
		return nil, fmt.Errorf("Failed to load velocity baseline: %w", err)
	}
	if len(baseline) > 0 {
		h.VelocityBaseline = make(map[string]float64, len(baseline))
		for _, b := range baseline {
			h.VelocityBaseline[strconv.FormatFloat(b.Weight, 'f', -1, 64)] = b.Velocity
		}
	}

	return h, nil
}
