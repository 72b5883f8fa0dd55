package progression

import (
	"context"
	"sort"
	"time"

	"github.com/2beens/fitlog/internal/bodyweight"
	"github.com/2beens/fitlog/internal/clock"
	"github.com/2beens/fitlog/internal/graphs"
	"github.com/2beens/fitlog/internal/strength"
	"github.com/2beens/fitlog/internal/telemetry/tracing"
	"github.com/2beens/fitlog/pkg"

	"go.opentelemetry.io/otel/attribute"
)

// StatBodyWeight selects the body weight series, any other stat value is
// treated as an exercise name.
const StatBodyWeight = "body-weight"

const (
	minMonths     = 1
	maxMonths     = 36
	defaultMonths = 6
)

type sessionsRepo interface {
	ExerciseDailyAverages(ctx context.Context, userID int, exercise string, from, to time.Time) (map[time.Time]float64, error)
}

type weightsRepo interface {
	ListRange(ctx context.Context, userID int, from, to time.Time) ([]bodyweight.Entry, error)
}

type grapher interface {
	Render(ctx context.Context, req graphs.Request) (string, error)
}

// Grapher renders a line graph of one tracked stat over the last N
// months: the user's body weight, or the average set weight of one
// exercise per training day.
type Grapher struct {
	sessions sessionsRepo
	weights  weightsRepo
	renderer grapher
	clock    clock.Clock
	location *time.Location
}

func NewGrapher(
	sessions sessionsRepo,
	weights weightsRepo,
	renderer grapher,
	clk clock.Clock,
	location *time.Location,
) *Grapher {
	if location == nil {
		location = time.UTC
	}
	return &Grapher{
		sessions: sessions,
		weights:  weights,
		renderer: renderer,
		clock:    clk,
		location: location,
	}
}

// Graph renders the progression line for the given stat, months back
// from today. Months outside [1, 36] fall back to the default of 6.
func (g *Grapher) Graph(ctx context.Context, userID int, stat string, months int) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progression.graph")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("user.id", userID),
		attribute.String("stat", stat),
	)

	if stat == "" {
		return "", pkg.NewValidationError("stat", "must not be empty")
	}
	if months < minMonths || months > maxMonths {
		months = defaultMonths
	}

	today := g.clock.Today(g.location)
	from := today.AddDate(0, -months, 0)

	var points []graphs.Point
	if stat == StatBodyWeight {
		points, err = g.bodyWeightSeries(ctx, userID, from, today)
	} else {
		points, err = g.exerciseSeries(ctx, userID, strength.NormalizeName(stat), from, today)
	}
	if err != nil {
		return "", err
	}

	return g.renderer.Render(ctx, graphs.Request{
		Label:  stat,
		Kind:   graphs.KindLine,
		Points: points,
	})
}

func (g *Grapher) bodyWeightSeries(ctx context.Context, userID int, from, to time.Time) ([]graphs.Point, error) {
	entries, err := g.weights.ListRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	points := make([]graphs.Point, 0, len(entries))
	for _, entry := range entries {
		points = append(points, graphs.Point{Date: entry.Date, Value: entry.BodyWeight})
	}
	return points, nil
}

func (g *Grapher) exerciseSeries(ctx context.Context, userID int, exercise string, from, to time.Time) ([]graphs.Point, error) {
	averages, err := g.sessions.ExerciseDailyAverages(ctx, userID, exercise, from, to)
	if err != nil {
		return nil, err
	}
	points := make([]graphs.Point, 0, len(averages))
	for day, avg := range averages {
		points = append(points, graphs.Point{Date: day, Value: avg})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points, nil
}
