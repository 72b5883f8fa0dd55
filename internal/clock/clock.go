package clock

import "time"

// Clock abstracts time lookups so that analyzers and validators
// can be tested with a pinned date.
type Clock interface {
	Now() time.Time
	Today(loc *time.Location) time.Time
}

type Real struct{}

func NewReal() Real {
	return Real{}
}

func (Real) Now() time.Time {
	return time.Now()
}

// Today returns the current date in the given location, truncated to midnight.
func (Real) Today(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	now := time.Now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
}

// Fixed is a Clock pinned to a single instant, for tests.
type Fixed struct {
	Instant time.Time
}

func NewFixed(instant time.Time) Fixed {
	return Fixed{Instant: instant}
}

func (f Fixed) Now() time.Time {
	return f.Instant
}

func (f Fixed) Today(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t := f.Instant.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
