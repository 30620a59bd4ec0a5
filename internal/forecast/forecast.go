// Package forecast produces the cosmetic next-day spending prediction shown
// on the dashboard: an ordinary least-squares line fitted over a synthetic
// 30-day series, predicting the value at day 31.
package forecast

import "math/rand"

const (
	seriesDays = 30
	baseAmount = 20.0
	dailySlope = 1.5
	noiseSigma = 5.0
)

// Point is one day of the synthetic spending series.
type Point struct {
	Day    int
	Amount float64
}

// Result is one generated series together with its fitted prediction.
type Result struct {
	Series    []Point
	Slope     float64
	Intercept float64
	Next      float64 // predicted amount at day 31
}

// Generate builds a fresh synthetic series (base + slope*day + gaussian
// noise), fits a least-squares line and predicts the next day. One series is
// generated per dashboard refresh; the randomness is purely decorative.
func Generate(rng *rand.Rand) Result {
	series := make([]Point, seriesDays)
	for i := range series {
		day := i + 1
		series[i] = Point{
			Day:    day,
			Amount: baseAmount + dailySlope*float64(day) + rng.NormFloat64()*noiseSigma,
		}
	}
	slope, intercept := fit(series)
	return Result{
		Series:    series,
		Slope:     slope,
		Intercept: intercept,
		Next:      intercept + slope*float64(seriesDays+1),
	}
}

// fit computes the ordinary least-squares slope and intercept.
func fit(series []Point) (slope, intercept float64) {
	n := float64(len(series))
	if n == 0 {
		return 0, 0
	}
	var sumX, sumY, sumXY, sumXX float64
	for _, p := range series {
		x := float64(p.Day)
		sumX += x
		sumY += p.Amount
		sumXY += x * p.Amount
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}
