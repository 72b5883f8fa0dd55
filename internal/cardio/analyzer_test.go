package cardio_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/2beens/fitlog/internal/cardio"
	"github.com/2beens/fitlog/internal/clock"
	"github.com/2beens/fitlog/internal/graphs"
	"github.com/2beens/fitlog/internal/profile"
	"github.com/2beens/fitlog/internal/timewindow"
	"github.com/2beens/fitlog/internal/units"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSummarize_weekWithThreeEntries(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockcardioRepo(ctrl)
	profilesMock := NewMockprofileRepo(ctrl)
	grapherMock := NewMockgrapher(ctrl)

	today := time.Date(2024, time.April, 18, 0, 0, 0, 0, time.UTC)
	analyzer := cardio.NewAnalyzer(repoMock, profilesMock, grapherMock, clock.NewFixed(today), time.UTC)

	profilesMock.EXPECT().
		Get(gomock.Any(), 1).
		Return(&profile.Profile{
			ID:           1,
			DistanceUnit: units.DistanceUnitMiles,
			WeightUnit:   units.WeightUnitLbs,
			BodyWeight:   160,
		}, nil)

	entryAt := func(daysAgo int) cardio.Entry {
		return cardio.Entry{
			ID:              daysAgo + 1,
			UserID:          1,
			StartedAt:       today.AddDate(0, 0, -daysAgo).Add(8 * time.Hour),
			DurationSeconds: 1800,
			Distance:        3,
		}
	}
	repoMock.EXPECT().
		ListRange(gomock.Any(), 1, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int, from, to time.Time) ([]cardio.Entry, error) {
			assert.Equal(t, today.AddDate(0, 0, -6), from)
			assert.True(t, to.After(today))
			return []cardio.Entry{entryAt(0), entryAt(1), entryAt(6)}, nil
		})

	grapherMock.EXPECT().
		Render(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req graphs.Request) (string, error) {
			assert.Equal(t, graphs.KindBar, req.Kind)
			assert.Len(t, req.Points, 3)
			require.NotNil(t, req.Boundaries)
			assert.Equal(t, today.AddDate(0, 0, -6), req.Boundaries.Start)
			assert.Equal(t, today, req.Boundaries.End)
			return "graph-png", nil
		})

	resp, err := analyzer.Summarize(context.Background(), 1, timewindow.TagWeek)
	require.NoError(t, err)
	assert.Equal(t, "graph-png", resp.Graph)

	current := resp.Summaries[0]
	assert.Equal(t, 3.0, current.TotalDistance)
	assert.Equal(t, 1800, current.TotalDurationSeconds)
	assert.Equal(t, 1, current.Count)
	assert.Equal(t, 3.0, current.AverageDistance)
	assert.Equal(t, `30' 00"`, current.AverageDuration)
	assert.Equal(t, 601, current.CaloriesBurned)
	assert.Equal(t, `10' 00"`, current.Pace)

	previous := resp.Summaries[1]
	assert.Equal(t, 3.0, previous.TotalDistance)
	assert.Equal(t, 1, previous.Count)
	assert.Equal(t, 601, previous.CaloriesBurned)

	extended := resp.Summaries[2]
	assert.Equal(t, 9.0, extended.TotalDistance)
	assert.Equal(t, 5400, extended.TotalDurationSeconds)
	assert.Equal(t, 3, extended.Count)
	assert.Equal(t, 3.0, extended.AverageDistance)
	assert.Equal(t, `30' 00"`, extended.AverageDuration)
	assert.Equal(t, 601, extended.CaloriesBurned)
	assert.Equal(t, `10' 00"`, extended.Pace)

	// bucket conservation: the extended totals cover the whole span
	assert.Equal(t,
		extended.TotalDistance,
		current.TotalDistance+previous.TotalDistance+3.0,
	)
}

func TestSummarize_monthGraphPlotsActivePeriodOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockcardioRepo(ctrl)
	profilesMock := NewMockprofileRepo(ctrl)
	grapherMock := NewMockgrapher(ctrl)

	today := time.Date(2024, time.April, 18, 0, 0, 0, 0, time.UTC)
	analyzer := cardio.NewAnalyzer(repoMock, profilesMock, grapherMock, clock.NewFixed(today), time.UTC)

	profilesMock.EXPECT().
		Get(gomock.Any(), 1).
		Return(&profile.Profile{
			ID:           1,
			DistanceUnit: units.DistanceUnitKilometers,
			BodyWeight:   72,
		}, nil)

	// one run inside the current month, one in the previous period
	repoMock.EXPECT().
		ListRange(gomock.Any(), 1, gomock.Any(), gomock.Any()).
		Return([]cardio.Entry{
			{ID: 1, UserID: 1, StartedAt: today.AddDate(0, 0, -2), DurationSeconds: 2400, Distance: 8},
			{ID: 2, UserID: 1, StartedAt: today.AddDate(0, 0, -45), DurationSeconds: 2400, Distance: 8},
		}, nil)

	grapherMock.EXPECT().
		Render(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req graphs.Request) (string, error) {
			// only the current period day is plotted
			assert.Len(t, req.Points, 1)
			require.NotNil(t, req.Boundaries)
			assert.Equal(t, today.AddDate(0, 0, -30), req.Boundaries.Start)
			return "graph-png", nil
		})

	resp, err := analyzer.Summarize(context.Background(), 1, timewindow.TagMonth)
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Summaries[0].Count)
	assert.Equal(t, 1, resp.Summaries[1].Count)
	assert.Equal(t, 2, resp.Summaries[2].Count)
}

func TestSummarize_noEntries(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockcardioRepo(ctrl)
	profilesMock := NewMockprofileRepo(ctrl)
	grapherMock := NewMockgrapher(ctrl)

	today := time.Date(2024, time.April, 18, 0, 0, 0, 0, time.UTC)
	analyzer := cardio.NewAnalyzer(repoMock, profilesMock, grapherMock, clock.NewFixed(today), time.UTC)

	profilesMock.EXPECT().
		Get(gomock.Any(), 1).
		Return(&profile.Profile{ID: 1, DistanceUnit: units.DistanceUnitMiles, BodyWeight: 160}, nil)
	repoMock.EXPECT().
		ListRange(gomock.Any(), 1, gomock.Any(), gomock.Any()).
		Return(nil, nil)
	grapherMock.EXPECT().
		Render(gomock.Any(), gomock.Any()).
		Return("empty-graph", nil)

	resp, err := analyzer.Summarize(context.Background(), 1, timewindow.TagYear)
	require.NoError(t, err)

	for _, s := range resp.Summaries {
		assert.Zero(t, s.TotalDistance)
		assert.Zero(t, s.Count)
		assert.Equal(t, `0' 00"`, s.AverageDuration)
		assert.Equal(t, "N/A", s.Pace)
	}
}
