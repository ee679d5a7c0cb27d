// Package testutil provides common utility functions for testing.
package testutil

import (
	"time"

	"github.com/iwvelando/wealth-math/internal/projection"
	"github.com/iwvelando/wealth-math/pkg/datetime"
)

// julianYearHours is the length of a 365.25-day year in hours.
const julianYearHours = 365.25 * 24

// FindContribution finds a contribution by instrument id in a projection result.
// Returns a pointer to the contribution if found, nil otherwise.
func FindContribution(result projection.Result, id string) *projection.Contribution {
	for i := range result.Contributions {
		if result.Contributions[i].ID == id {
			return &result.Contributions[i]
		}
	}
	return nil
}

// MustDate parses a YYYY-MM-DD date and panics on error.
func MustDate(value string) time.Time {
	return datetime.MustParseTime(datetime.DateLayout, value)
}

// YearsBefore returns the instant exactly the given number of Julian years
// before now.
func YearsBefore(now time.Time, years float64) time.Time {
	return now.Add(-time.Duration(years * julianYearHours * float64(time.Hour)))
}
