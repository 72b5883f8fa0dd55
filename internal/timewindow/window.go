package timewindow

import (
	"fmt"
	"time"
)

// Tag selects the day-count policy for a summary window.
type Tag string

const (
	TagWeek  Tag = "week"
	TagMonth Tag = "month"
	TagYear  Tag = "year"
)

func ParseTag(s string) (Tag, error) {
	switch Tag(s) {
	case TagWeek, TagMonth, TagYear:
		return Tag(s), nil
	default:
		return "", fmt.Errorf("unknown range tag: %q", s)
	}
}

// Window holds the three bucket boundaries for a summary, all at or
// before the reference date. The contract is "approximately N days",
// deliberately without calendar-month or leap-year adjustments.
type Window struct {
	Start         time.Time
	PreviousStart time.Time
	ExtendedStart time.Time
}

// Resolve maps a range tag and a reference date to the window boundaries.
// The year tag's extended start goes back a hundred years, which in
// practice means "everything ever logged".
func Resolve(tag Tag, today time.Time) (Window, error) {
	switch tag {
	case TagWeek:
		return Window{
			Start:         today,
			PreviousStart: today.AddDate(0, 0, -1),
			ExtendedStart: today.AddDate(0, 0, -6),
		}, nil
	case TagMonth:
		return Window{
			Start:         today.AddDate(0, 0, -30),
			PreviousStart: today.AddDate(0, 0, -60),
			ExtendedStart: today.AddDate(0, 0, -180),
		}, nil
	case TagYear:
		return Window{
			Start:         today.AddDate(0, 0, -365),
			PreviousStart: today.AddDate(0, 0, -730),
			ExtendedStart: today.AddDate(-100, 0, 0),
		}, nil
	default:
		return Window{}, fmt.Errorf("unknown range tag: %q", tag)
	}
}
