package progression

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/fitlog/internal/bodyweight"
	"github.com/2beens/fitlog/internal/clock"
	"github.com/2beens/fitlog/internal/graphs"
)

type fakeSessions struct {
	gotExercise string
	gotFrom     time.Time
	averages    map[time.Time]float64
}

func (f *fakeSessions) ExerciseDailyAverages(_ context.Context, _ int, exercise string, from, _ time.Time) (map[time.Time]float64, error) {
	f.gotExercise = exercise
	f.gotFrom = from
	return f.averages, nil
}

type fakeWeights struct {
	entries []bodyweight.Entry
}

func (f *fakeWeights) ListRange(_ context.Context, _ int, _, _ time.Time) ([]bodyweight.Entry, error) {
	return f.entries, nil
}

type fakeRenderer struct {
	gotReq graphs.Request
}

func (f *fakeRenderer) Render(_ context.Context, req graphs.Request) (string, error) {
	f.gotReq = req
	return "line-png", nil
}

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestGraph_bodyWeight(t *testing.T) {
	weights := &fakeWeights{entries: []bodyweight.Entry{
		{Date: day(1), BodyWeight: 184.2},
		{Date: day(8), BodyWeight: 183.0},
	}}
	renderer := &fakeRenderer{}
	grapher := NewGrapher(&fakeSessions{}, weights, renderer, clock.NewFixed(day(10)), time.UTC)

	graph, err := grapher.Graph(context.Background(), 1, StatBodyWeight, 3)
	require.NoError(t, err)
	assert.Equal(t, "line-png", graph)

	assert.Equal(t, graphs.KindLine, renderer.gotReq.Kind)
	require.Len(t, renderer.gotReq.Points, 2)
	assert.Equal(t, 184.2, renderer.gotReq.Points[0].Value)
}

func TestGraph_exercise(t *testing.T) {
	sessions := &fakeSessions{averages: map[time.Time]float64{
		day(3): 185,
		day(1): 180,
		day(6): 190,
	}}
	renderer := &fakeRenderer{}
	grapher := NewGrapher(sessions, &fakeWeights{}, renderer, clock.NewFixed(day(10)), time.UTC)

	_, err := grapher.Graph(context.Background(), 1, "bench press", 6)
	require.NoError(t, err)

	// exercise names are matched in their stored, title cased form
	assert.Equal(t, "Bench Press", sessions.gotExercise)

	// series is sorted by day
	require.Len(t, renderer.gotReq.Points, 3)
	assert.Equal(t, 180.0, renderer.gotReq.Points[0].Value)
	assert.Equal(t, 185.0, renderer.gotReq.Points[1].Value)
	assert.Equal(t, 190.0, renderer.gotReq.Points[2].Value)
}

func TestGraph_monthsOutOfRangeFallsBack(t *testing.T) {
	sessions := &fakeSessions{}
	grapher := NewGrapher(sessions, &fakeWeights{}, &fakeRenderer{}, clock.NewFixed(day(10)), time.UTC)

	_, err := grapher.Graph(context.Background(), 1, "squat", 480)
	require.NoError(t, err)
	assert.Equal(t, day(10).AddDate(0, -defaultMonths, 0), sessions.gotFrom)
}

func TestGraph_emptyStat(t *testing.T) {
	grapher := NewGrapher(&fakeSessions{}, &fakeWeights{}, &fakeRenderer{}, clock.NewFixed(day(10)), time.UTC)

	_, err := grapher.Graph(context.Background(), 1, "", 3)
	assert.Error(t, err)
}
