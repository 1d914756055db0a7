package mot

import (
	"math"

	"github.com/de-tools/vehicle-atlas/pkg/models/domain"
)

// PassRate is the rounded percentage of passed tests among tests that are not
// retests. It is 0 when there is nothing to count.
func PassRate(tests []domain.MotTest) int {
	eligible, passed := 0, 0
	for _, t := range tests {
		if t.IsRetest {
			continue
		}
		eligible++
		if t.Passed {
			passed++
		}
	}
	if eligible == 0 {
		return 0
	}
	return int(math.Round(100 * float64(passed) / float64(eligible)))
}

// Summary aggregates a normalized test list.
type Summary struct {
	Total      int
	Passed     int
	Failed     int
	Retests    int
	PassRate   int
	Advisories int
	Failures   int
	Latest     *domain.MotTest
}

// Summarize expects tests in the order Normalize returns them.
func Summarize(tests []domain.MotTest) Summary {
	s := Summary{Total: len(tests), PassRate: PassRate(tests)}
	for _, t := range tests {
		if t.IsRetest {
			s.Retests++
		}
		if t.Passed {
			s.Passed++
		} else {
			s.Failed++
		}
		s.Advisories += len(t.Advisories)
		s.Failures += len(t.Failures)
	}
	if len(tests) > 0 {
		latest := tests[0]
		s.Latest = &latest
	}
	return s
}
