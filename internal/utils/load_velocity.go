package utils

import (
	"math"

	"github.com/HJewkes/voltra-playground-sub000/internal/models"
)

// FitLoadVelocity fits velocity against load with ordinary least squares and
// extrapolates the load at which velocity reaches mvt (the minimum velocity
// threshold of a true max effort).
func FitLoadVelocity(points []models.LoadVelocityPoint, mvt float64) models.LoadVelocityProfile {
	profile := models.LoadVelocityProfile{
		Points:     points,
		MVT:        mvt,
		Confidence: models.ConfidenceLow,
	}
	n := float64(len(points))
	if len(points) < 2 {
		return profile
	}

	var meanX, meanY float64
	for _, p := range points {
		meanX += p.Weight
		meanY += p.Velocity
	}
	meanX /= n
	meanY /= n

	var sxx, sxy, syy float64
	for _, p := range points {
		dx, dy := p.Weight-meanX, p.Velocity-meanY
		sxx += dx * dx
		sxy += dx * dy
		syy += dy * dy
	}
	if sxx == 0 {
		return profile
	}

	profile.Slope = sxy / sxx
	profile.Intercept = meanY - profile.Slope*meanX
	if syy > 0 {
		var ssRes float64
		for _, p := range points {
			r := p.Velocity - (profile.Slope*p.Weight + profile.Intercept)
			ssRes += r * r
		}
		profile.RSquared = math.Max(0, 1-ssRes/syy)
	}

	// Velocity has to fall as load rises for the extrapolation to mean anything.
	if profile.Slope >= 0 {
		return profile
	}

	oneRM := (mvt - profile.Intercept) / profile.Slope
	if oneRM <= 0 || math.IsInf(oneRM, 0) || math.IsNaN(oneRM) {
		return profile
	}
	profile.Estimated1RM = math.Max(oneRM, heaviest(points))
	profile.Valid = true
	profile.Confidence = fitConfidence(len(points), profile.RSquared)

	return profile
}

// PredictVelocity returns the fitted velocity at a load, or 0 without a fit.
func PredictVelocity(profile models.LoadVelocityProfile, weight float64) float64 {
	if !profile.Valid {
		return 0
	}
	return math.Max(0, profile.Slope*weight+profile.Intercept)
}

func fitConfidence(n int, r2 float64) models.Confidence {
	switch {
	case n >= 4 && r2 >= 0.9:
		return models.ConfidenceHigh
	case n >= 3 && r2 >= 0.8:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

func heaviest(points []models.LoadVelocityPoint) float64 {
	var max float64
	for _, p := range points {
		if p.Weight > max {
			max = p.Weight
		}
	}
	return max
}
