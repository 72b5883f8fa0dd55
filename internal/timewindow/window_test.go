package timewindow_test

import (
	"testing"
	"time"

	"github.com/2beens/fitlog/internal/timewindow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTag(t *testing.T) {
	for _, valid := range []string{"week", "month", "year"} {
		tag, err := timewindow.ParseTag(valid)
		require.NoError(t, err)
		assert.Equal(t, valid, string(tag))
	}

	_, err := timewindow.ParseTag("decade")
	require.Error(t, err)
	_, err = timewindow.ParseTag("")
	require.Error(t, err)
}

func TestResolve(t *testing.T) {
	today := time.Date(2024, 4, 18, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		tag           timewindow.Tag
		start         time.Time
		previousStart time.Time
		extendedStart time.Time
	}{
		{
			tag:           timewindow.TagWeek,
			start:         today,
			previousStart: today.AddDate(0, 0, -1),
			extendedStart: today.AddDate(0, 0, -6),
		},
		{
			tag:           timewindow.TagMonth,
			start:         today.AddDate(0, 0, -30),
			previousStart: today.AddDate(0, 0, -60),
			extendedStart: today.AddDate(0, 0, -180),
		},
		{
			tag:           timewindow.TagYear,
			start:         today.AddDate(0, 0, -365),
			previousStart: today.AddDate(0, 0, -730),
			extendedStart: time.Date(1924, 4, 18, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range testCases {
		t.Run(string(tc.tag), func(t *testing.T) {
			w, err := timewindow.Resolve(tc.tag, today)
			require.NoError(t, err)
			assert.Equal(t, tc.start, w.Start)
			assert.Equal(t, tc.previousStart, w.PreviousStart)
			assert.Equal(t, tc.extendedStart, w.ExtendedStart)
		})
	}
}

func TestResolve_Monotonic(t *testing.T) {
	// extended <= previous <= start <= today, for every tag and
	// a spread of reference dates
	dates := []time.Time{
		time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC), // leap day
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		time.Date(1999, 7, 15, 0, 0, 0, 0, time.UTC),
	}
	for _, today := range dates {
		for _, tag := range []timewindow.Tag{timewindow.TagWeek, timewindow.TagMonth, timewindow.TagYear} {
			w, err := timewindow.Resolve(tag, today)
			require.NoError(t, err)
			assert.False(t, w.ExtendedStart.After(w.PreviousStart))
			assert.False(t, w.PreviousStart.After(w.Start))
			assert.False(t, w.Start.After(today))
		}
	}
}

func TestResolve_UnknownTag(t *testing.T) {
	_, err := timewindow.Resolve(timewindow.Tag("quarter"), time.Now())
	require.Error(t, err)
}
