package cardio

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/2beens/fitlog/internal/clock"
	"github.com/2beens/fitlog/internal/graphs"
	"github.com/2beens/fitlog/internal/profile"
	"github.com/2beens/fitlog/internal/telemetry/tracing"
	"github.com/2beens/fitlog/internal/timewindow"
	"github.com/2beens/fitlog/internal/units"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=analyzer_mocks_test.go -package=cardio_test

type cardioRepo interface {
	ListRange(ctx context.Context, userID int, from, to time.Time) ([]Entry, error)
}

type profileRepo interface {
	Get(ctx context.Context, userID int) (*profile.Profile, error)
}

type grapher interface {
	Render(ctx context.Context, req graphs.Request) (string, error)
}

// Summary aggregates one time bucket of cardio activity.
type Summary struct {
	TotalDistance        float64 `json:"totalDistance"`
	TotalDurationSeconds int     `json:"totalDurationSeconds"`
	Count                int     `json:"count"`
	AverageDistance      float64 `json:"averageDistance"`
	AverageDuration      string  `json:"averageDuration"`
	CaloriesBurned       int     `json:"caloriesBurned"`
	Pace                 string  `json:"pace"`
}

type SummarizeResponse struct {
	// Current, Previous, Extended - in that order
	Summaries [3]Summary `json:"summaries"`
	Graph     string     `json:"graph"` // base64 PNG
}

// Analyzer folds a user's cardio entries into the current/previous/extended
// buckets of a time window and renders the distance graph. Timezone handling
// lives here and only here: entries come in timezone aware, get grouped by
// their calendar day in the analyzer's location, and leave as plain dates.
type Analyzer struct {
	repo     cardioRepo
	profiles profileRepo
	grapher  grapher
	clock    clock.Clock
	location *time.Location
}

func NewAnalyzer(repo cardioRepo, profiles profileRepo, grapher grapher, clk clock.Clock, location *time.Location) *Analyzer {
	if location == nil {
		location = time.UTC
	}
	return &Analyzer{
		repo:     repo,
		profiles: profiles,
		grapher:  grapher,
		clock:    clk,
		location: location,
	}
}

type daySummary struct {
	day             time.Time
	distance        float64
	durationSeconds int
}

func (a *Analyzer) Summarize(ctx context.Context, userID int, tag timewindow.Tag) (_ *SummarizeResponse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.cardio.summarize")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))
	span.SetAttributes(attribute.String("tag", string(tag)))

	today := a.clock.Today(a.location)
	window, err := timewindow.Resolve(tag, today)
	if err != nil {
		return nil, err
	}

	userProfile, err := a.profiles.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	endOfToday := today.AddDate(0, 0, 1).Add(-time.Second)
	entries, err := a.repo.ListRange(ctx, userID, window.ExtendedStart, endOfToday)
	if err != nil {
		return nil, fmt.Errorf("list cardio entries: %w", err)
	}

	days := a.groupByDay(entries)

	var current, previous, extended Summary
	var graphPoints []graphs.Point
	for _, d := range days {
		switch {
		case !d.day.Before(window.Start):
			current.TotalDistance += d.distance
			current.TotalDurationSeconds += d.durationSeconds
			current.Count++
		case !d.day.Before(window.PreviousStart):
			previous.TotalDistance += d.distance
			previous.TotalDurationSeconds += d.durationSeconds
			previous.Count++
		default:
			extended.TotalDistance += d.distance
			extended.TotalDurationSeconds += d.durationSeconds
			extended.Count++
		}

		// the weekly view plots the full span, coarser views only the
		// days of the active period
		if tag == timewindow.TagWeek || !d.day.Before(window.Start) {
			graphPoints = append(graphPoints, graphs.Point{Date: d.day, Value: d.distance})
		}
	}

	// the extended bucket reports totals since its cutoff, which
	// includes the two newer buckets
	extended.TotalDistance += current.TotalDistance + previous.TotalDistance
	extended.TotalDurationSeconds += current.TotalDurationSeconds + previous.TotalDurationSeconds
	extended.Count += current.Count + previous.Count

	for _, s := range []*Summary{&current, &previous, &extended} {
		if err := a.finalizeSummary(s, userProfile); err != nil {
			return nil, err
		}
	}

	graphStart := window.Start
	if tag == timewindow.TagWeek {
		graphStart = window.ExtendedStart
	}
	graphB64, err := a.grapher.Render(ctx, graphs.Request{
		Label:  graphSeriesLabel,
		Kind:   graphs.KindBar,
		Points: graphPoints,
		Boundaries: &graphs.Boundaries{
			Start: graphStart,
			End:   today,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("render cardio graph: %w", err)
	}

	return &SummarizeResponse{
		Summaries: [summaryBucketCount]Summary{current, previous, extended},
		Graph:     graphB64,
	}, nil
}

// groupByDay buckets entries by their calendar day in the analyzer's
// location, summing distance and duration, and returns the days ordered.
func (a *Analyzer) groupByDay(entries []Entry) []daySummary {
	perDay := make(map[time.Time]*daySummary)
	for _, e := range entries {
		local := e.StartedAt.In(a.location)
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, a.location)
		if existing, ok := perDay[day]; ok {
			existing.distance += e.Distance
			existing.durationSeconds += e.DurationSeconds
		} else {
			perDay[day] = &daySummary{
				day:             day,
				distance:        e.Distance,
				durationSeconds: e.DurationSeconds,
			}
		}
	}

	days := make([]daySummary, 0, len(perDay))
	for _, d := range perDay {
		days = append(days, *d)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].day.Before(days[j].day)
	})
	return days
}

func (a *Analyzer) finalizeSummary(s *Summary, userProfile *profile.Profile) error {
	if s.Count > 0 {
		s.AverageDistance = math.Round(s.TotalDistance/float64(s.Count)*100) / 100

		avgDuration, err := units.FormatPace(s.TotalDurationSeconds / s.Count)
		if err != nil {
			return fmt.Errorf("format average duration: %w", err)
		}
		s.AverageDuration = avgDuration

		calories, err := units.CaloriesBurned(userProfile.DistanceUnit, s.TotalDistance, userProfile.BodyWeight)
		if err != nil {
			return fmt.Errorf("calories burned: %w", err)
		}
		s.CaloriesBurned = calories / s.Count
	} else {
		s.AverageDistance = 0
		s.AverageDuration, _ = units.FormatPace(0)
		s.CaloriesBurned = 0
	}

	if s.TotalDistance > 0 {
		pace, err := units.FormatPace(int(float64(s.TotalDurationSeconds) / s.TotalDistance))
		if err != nil {
			return fmt.Errorf("format pace: %w", err)
		}
		s.Pace = pace
	} else {
		s.Pace = "N/A"
	}

	if s.TotalDurationSeconds < 0 {
		// cannot happen with validated entries, bail out loudly if it does
		log.Errorf("cardio summary with negative total duration: %d", s.TotalDurationSeconds)
		return fmt.Errorf("internal invariant broken: negative total duration")
	}

	return nil
}
