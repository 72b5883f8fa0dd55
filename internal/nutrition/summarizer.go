package nutrition

import (
	"context"
	"math"
	"time"

	"github.com/2beens/fitlog/internal/clock"
	"github.com/2beens/fitlog/internal/graphs"
	"github.com/2beens/fitlog/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const summaryWindowDays = 7

type entriesRepo interface {
	ListRange(ctx context.Context, userID int, from, to time.Time) ([]FoodEntry, error)
}

type grapher interface {
	Render(ctx context.Context, req graphs.Request) (string, error)
	RenderPie(ctx context.Context, label string, shares map[string]float64) (string, error)
}

// BarPoint is one day of the calories bar series.
type BarPoint struct {
	Date     time.Time `json:"date"`
	Calories float64   `json:"calories"`
}

// Summary covers the last seven days of food logs. Averages are taken
// over the days that actually have an entry, not the whole window.
type Summary struct {
	AvgCalories int                `json:"avgCalories"`
	AvgProtein  float64            `json:"avgProtein"`
	AvgCarbs    float64            `json:"avgCarbs"`
	AvgFat      float64            `json:"avgFat"`
	BarSeries   []BarPoint         `json:"barSeries"`
	PieShares   map[string]float64 `json:"pieShares"`
	BarGraph    string             `json:"barGraph"` // base64 PNG
	PieGraph    string             `json:"pieGraph"` // base64 PNG
}

type Summarizer struct {
	repo     entriesRepo
	grapher  grapher
	clock    clock.Clock
	location *time.Location
}

func NewSummarizer(repo entriesRepo, grapher grapher, clk clock.Clock, location *time.Location) *Summarizer {
	if location == nil {
		location = time.UTC
	}
	return &Summarizer{
		repo:     repo,
		grapher:  grapher,
		clock:    clk,
		location: location,
	}
}

// Summarize folds the user's food entries of [today-6d, today] into macro
// averages, the calories bar series and both graphs. A window with no
// entries yields the zero-valued shape, never an error.
func (s *Summarizer) Summarize(ctx context.Context, userID int) (_ *Summary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "summarizer.nutrition.summarize")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	today := s.clock.Today(s.location)
	from := today.AddDate(0, 0, -(summaryWindowDays - 1))

	entries, err := s.repo.ListRange(ctx, userID, from, today)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		BarSeries: make([]BarPoint, 0, len(entries)),
		PieShares: make(map[string]float64),
	}
	if len(entries) == 0 {
		return summary, nil
	}

	var totalCalories, totalProtein, totalCarbs, totalFat float64
	for _, entry := range entries {
		calories, protein, carbs, fat := entry.Totals()
		totalCalories += calories
		totalProtein += protein
		totalCarbs += carbs
		totalFat += fat
		summary.BarSeries = append(summary.BarSeries, BarPoint{
			Date:     entry.Date,
			Calories: calories,
		})
	}

	days := float64(len(entries))
	summary.AvgCalories = int(totalCalories / days)
	summary.AvgProtein = round1(totalProtein / days)
	summary.AvgCarbs = round1(totalCarbs / days)
	summary.AvgFat = round1(totalFat / days)
	summary.PieShares = map[string]float64{
		"protein": totalProtein,
		"carbs":   totalCarbs,
		"fat":     totalFat,
	}

	// graph failures degrade the response, they never fail it
	barPoints := make([]graphs.Point, 0, len(summary.BarSeries))
	for _, p := range summary.BarSeries {
		barPoints = append(barPoints, graphs.Point{Date: p.Date, Value: p.Calories})
	}
	barGraph, err := s.grapher.Render(ctx, graphs.Request{
		Label:  "Calories",
		Kind:   graphs.KindBar,
		Points: barPoints,
		Boundaries: &graphs.Boundaries{
			Start: from,
			End:   today,
		},
	})
	if err != nil {
		log.Errorf("failed to render nutrition bar graph for user %d: %s", userID, err)
	} else {
		summary.BarGraph = barGraph
	}

	pieGraph, err := s.grapher.RenderPie(ctx, "Macros", summary.PieShares)
	if err != nil {
		log.Errorf("failed to render nutrition pie graph for user %d: %s", userID, err)
	} else {
		summary.PieGraph = pieGraph
	}

	return summary, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
