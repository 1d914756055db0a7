// Package analytics derives mileage and fuel economy figures from normalized
// report data.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/de-tools/vehicle-atlas/pkg/models/domain"
)

const (
	yearDuration  = time.Duration(365.25 * 24 * float64(time.Hour))
	milesPerKm    = 0.621371
	minTrendPoint = 2
)

type MileagePoint struct {
	Date  time.Time
	Miles int
}

// MileageSummary describes the odometer trend across the MOT history.
type MileageSummary struct {
	First          MileagePoint
	Last           MileagePoint
	Total          int
	Years          float64
	AveragePerYear float64
	// Decreases counts readings lower than the one before them.
	Decreases int
}

// MileageSeries keeps tests with a date and a reading, oldest first.
// Kilometre readings are converted to miles.
func MileageSeries(tests []domain.MotTest) []MileagePoint {
	points := make([]MileagePoint, 0, len(tests))
	for _, t := range tests {
		if !t.HasDate || !t.HasMileage {
			continue
		}
		miles := t.Mileage
		if t.MileageUnit == "km" {
			miles = int(math.Round(float64(miles) * milesPerKm))
		}
		points = append(points, MileagePoint{Date: t.Date, Miles: miles})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points
}

// Mileage summarizes the series. It reports false with fewer than two points.
func Mileage(tests []domain.MotTest) (MileageSummary, bool) {
	points := MileageSeries(tests)
	if len(points) < minTrendPoint {
		return MileageSummary{}, false
	}

	first, last := points[0], points[len(points)-1]
	s := MileageSummary{
		First: first,
		Last:  last,
		Total: last.Miles - first.Miles,
		Years: float64(last.Date.Sub(first.Date)) / float64(yearDuration),
	}
	if s.Years > 0 {
		s.AveragePerYear = float64(s.Total) / s.Years
	}
	for i := 1; i < len(points); i++ {
		if points[i].Miles < points[i-1].Miles {
			s.Decreases++
		}
	}
	return s, true
}
