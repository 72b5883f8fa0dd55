package calendar

import (
	"context"
	"time"

	"github.com/2beens/fitlog/internal/bodyweight"
	"github.com/2beens/fitlog/internal/cardio"
	"github.com/2beens/fitlog/internal/profile"
	"github.com/2beens/fitlog/internal/telemetry/tracing"
	"github.com/2beens/fitlog/pkg"

	"go.opentelemetry.io/otel/attribute"
)

const daysPerWeek = 7

type sessionsRepo interface {
	ListDays(ctx context.Context, userID int, from, to time.Time) ([]time.Time, error)
}

type cardioRepo interface {
	ListRange(ctx context.Context, userID int, from, to time.Time) ([]cardio.Entry, error)
}

type weightRepo interface {
	ListRange(ctx context.Context, userID int, from, to time.Time) ([]bodyweight.Entry, error)
}

type profileRepo interface {
	Get(ctx context.Context, userID int) (*profile.Profile, error)
}

// Cell is one day slot of the month grid. Day 0 marks padding slots
// belonging to the neighbouring months, rendered blank.
type Cell struct {
	Day        int  `json:"day"`
	HasWorkout bool `json:"hasWorkout"`
	HasCardio  bool `json:"hasCardio"`
	HasWeight  bool `json:"hasWeight"`
}

// Week is one row of the month grid, starting at the user's first weekday.
type Week struct {
	Cells [daysPerWeek]Cell `json:"cells"`
}

// Annotator lays a user's month out as calendar weeks and marks each day
// with the activity logged on it. The weekday-first layout is preserved
// as is, rows always start at the profile's first weekday.
type Annotator struct {
	sessions sessionsRepo
	cardio   cardioRepo
	weights  weightRepo
	profiles profileRepo
	location *time.Location
}

func NewAnnotator(
	sessions sessionsRepo,
	cardioRepo cardioRepo,
	weights weightRepo,
	profiles profileRepo,
	location *time.Location,
) *Annotator {
	if location == nil {
		location = time.UTC
	}
	return &Annotator{
		sessions: sessions,
		cardio:   cardioRepo,
		weights:  weights,
		profiles: profiles,
		location: location,
	}
}

func (a *Annotator) Annotate(ctx context.Context, userID, year int, month time.Month) (_ []Week, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "calendar.annotate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("user.id", userID),
		attribute.Int("year", year),
		attribute.Int("month", int(month)),
	)

	if month < time.January || month > time.December {
		return nil, pkg.NewValidationError("month", "must be between 1 and 12")
	}

	userProfile, err := a.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	firstWeekday := time.Weekday(userProfile.Settings.FirstWeekday)

	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, a.location)
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Second)
	daysInMonth := monthEnd.Day()

	workoutDays, err := a.workoutDaySet(ctx, userID, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	cardioDays, err := a.cardioDaySet(ctx, userID, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	weightDays, err := a.weightDaySet(ctx, userID, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	// leading padding: distance from the configured first weekday
	offset := (int(monthStart.Weekday()) - int(firstWeekday) + daysPerWeek) % daysPerWeek

	totalCells := offset + daysInMonth
	if rem := totalCells % daysPerWeek; rem != 0 {
		totalCells += daysPerWeek - rem
	}

	weeks := make([]Week, totalCells/daysPerWeek)
	for i := 0; i < totalCells; i++ {
		day := i - offset + 1
		if day < 1 || day > daysInMonth {
			continue
		}
		weeks[i/daysPerWeek].Cells[i%daysPerWeek] = Cell{
			Day:        day,
			HasWorkout: workoutDays[day],
			HasCardio:  cardioDays[day],
			HasWeight:  weightDays[day],
		}
	}

	return weeks, nil
}

func (a *Annotator) workoutDaySet(ctx context.Context, userID int, from, to time.Time) (map[int]bool, error) {
	days, err := a.sessions.ListDays(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	set := make(map[int]bool, len(days))
	for _, d := range days {
		set[d.In(a.location).Day()] = true
	}
	return set, nil
}

func (a *Annotator) cardioDaySet(ctx context.Context, userID int, from, to time.Time) (map[int]bool, error) {
	entries, err := a.cardio.ListRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	set := make(map[int]bool, len(entries))
	for _, e := range entries {
		set[e.StartedAt.In(a.location).Day()] = true
	}
	return set, nil
}

func (a *Annotator) weightDaySet(ctx context.Context, userID int, from, to time.Time) (map[int]bool, error) {
	entries, err := a.weights.ListRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	set := make(map[int]bool, len(entries))
	for _, e := range entries {
		set[e.Date.In(a.location).Day()] = true
	}
	return set, nil
}
