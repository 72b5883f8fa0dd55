package cardio

import (
	"time"

	"github.com/2beens/fitlog/pkg"
)

const (
	maxDistance        = 99.99
	maxDuration        = 24 * time.Hour
	maxBackdateDays    = 5 * 365
	graphSeriesLabel   = "Distance"
	summaryBucketCount = 3
)

// Entry is a single logged cardio session. Immutable after save,
// removed only through an explicit delete.
type Entry struct {
	ID              int       `json:"id"`
	UserID          int       `json:"userId"`
	StartedAt       time.Time `json:"startedAt"`
	DurationSeconds int       `json:"durationSeconds"`
	Distance        float64   `json:"distance"`
}

// Validate checks the declared value ranges against the given current
// instant. The five year backdate limit is a flat day count on purpose,
// true calendar years are not used anywhere in the window math.
func (e *Entry) Validate(now time.Time) error {
	if e.StartedAt.After(now) {
		return pkg.NewValidationError("startedAt", "must not be in the future")
	}
	if e.StartedAt.Before(now.AddDate(0, 0, -maxBackdateDays)) {
		return pkg.NewValidationError("startedAt", "must not be more than 5 years ago")
	}
	if e.DurationSeconds < 0 {
		return pkg.NewValidationError("durationSeconds", "must not be negative")
	}
	if time.Duration(e.DurationSeconds)*time.Second > maxDuration {
		return pkg.NewValidationError("durationSeconds", "must not exceed 24 hours")
	}
	if e.Distance < 0 || e.Distance > maxDistance {
		return pkg.NewValidationError("distance", "must be between 0 and 99.99")
	}
	return nil
}
