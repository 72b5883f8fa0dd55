package strength_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/2beens/fitlog/internal/strength"
	"github.com/2beens/fitlog/internal/telemetry/metrics"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestFiveRepMax(t *testing.T) {
	for _, tc := range []struct {
		weight   float64
		reps     int
		expected float64
	}{
		{weight: 200, reps: 10, expected: 228.5},
		{weight: 100, reps: 5, expected: 100},
		{weight: 0, reps: 10, expected: 0},
		{weight: 225, reps: 5, expected: 225},
		{weight: 135, reps: 12, expected: 162},
	} {
		assert.Equal(t, tc.expected, strength.FiveRepMax(tc.weight, tc.reps),
			"weight %.1f reps %d", tc.weight, tc.reps)
	}
}

func TestApplySet_updates(t *testing.T) {
	ctrl := gomock.NewController(t)
	exercisesMock := NewMockexerciseStore(ctrl)
	snapshotsMock := NewMocksnapshotStore(ctrl)
	engine := strength.NewEngine(exercisesMock, snapshotsMock, metrics.NewTestManager())

	benchPress := &strength.Exercise{
		ID:         10,
		UserID:     1,
		Name:       "Bench Press",
		FiveRepMax: 180,
	}

	exercisesMock.EXPECT().
		GetByNameTx(gomock.Any(), gomock.Any(), 1, "Bench Press").
		Return(benchPress, nil)
	exercisesMock.EXPECT().DefaultUserID().Return(99)
	exercisesMock.EXPECT().
		UpdateFiveRepMaxTx(gomock.Any(), gomock.Any(), 10, 228.5).
		Return(nil)
	snapshotsMock.EXPECT().
		UpdateFiveRepMaxSnapshotTx(gomock.Any(), gomock.Any(), 4, "Bench Press", 228.5).
		Return(nil)

	updated, fiveRepMax, err := engine.ApplySet(context.Background(), nil, 1, "Bench Press", 200, 10, 4)
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, 228.5, fiveRepMax)
}

func TestApplySet_weakerSetKeepsValue(t *testing.T) {
	ctrl := gomock.NewController(t)
	exercisesMock := NewMockexerciseStore(ctrl)
	engine := strength.NewEngine(exercisesMock, NewMocksnapshotStore(ctrl), metrics.NewTestManager())

	exercisesMock.EXPECT().
		GetByNameTx(gomock.Any(), gomock.Any(), 1, "Bench Press").
		Return(&strength.Exercise{ID: 10, UserID: 1, Name: "Bench Press", FiveRepMax: 228.5}, nil)

	updated, fiveRepMax, err := engine.ApplySet(context.Background(), nil, 1, "Bench Press", 100, 5, 4)
	require.NoError(t, err)
	assert.False(t, updated)
	assert.Equal(t, 228.5, fiveRepMax)
}

func TestApplySet_clonesSharedDefault(t *testing.T) {
	ctrl := gomock.NewController(t)
	exercisesMock := NewMockexerciseStore(ctrl)
	snapshotsMock := NewMocksnapshotStore(ctrl)
	engine := strength.NewEngine(exercisesMock, snapshotsMock, metrics.NewTestManager())

	shared := &strength.Exercise{ID: 3, UserID: 99, Name: "Squat", FiveRepMax: 0}
	clone := &strength.Exercise{ID: 55, UserID: 1, Name: "Squat", FiveRepMax: 0}

	exercisesMock.EXPECT().
		GetByNameTx(gomock.Any(), gomock.Any(), 1, "Squat").
		Return(shared, nil)
	exercisesMock.EXPECT().DefaultUserID().Return(99).Times(2)
	exercisesMock.EXPECT().
		CloneForUserTx(gomock.Any(), gomock.Any(), 1, *shared).
		Return(clone, nil)
	// the write goes to the clone, the shared row stays untouched
	exercisesMock.EXPECT().
		UpdateFiveRepMaxTx(gomock.Any(), gomock.Any(), 55, gomock.Any()).
		Return(nil)

	updated, _, err := engine.ApplySet(context.Background(), nil, 1, "Squat", 185, 5, 0)
	require.NoError(t, err)
	assert.True(t, updated)
}

func TestApplySet_capsAtMax(t *testing.T) {
	ctrl := gomock.NewController(t)
	exercisesMock := NewMockexerciseStore(ctrl)
	engine := strength.NewEngine(exercisesMock, NewMocksnapshotStore(ctrl), metrics.NewTestManager())

	exercisesMock.EXPECT().
		GetByNameTx(gomock.Any(), gomock.Any(), 1, "Leg Press").
		Return(&strength.Exercise{ID: 7, UserID: 1, Name: "Leg Press", FiveRepMax: 900}, nil)
	exercisesMock.EXPECT().DefaultUserID().Return(99)
	exercisesMock.EXPECT().
		UpdateFiveRepMaxTx(gomock.Any(), gomock.Any(), 7, float64(strength.MaxFiveRepMax)).
		Return(nil)

	updated, fiveRepMax, err := engine.ApplySet(context.Background(), nil, 1, "Leg Press", 1500, 20, 0)
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, float64(strength.MaxFiveRepMax), fiveRepMax)
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "Bench Press", strength.NormalizeName("bench press"))
	assert.Equal(t, "Bench Press", strength.NormalizeName("  BENCH PRESS "))
	assert.Equal(t, "Romanian Deadlift", strength.NormalizeName("romanian deadlift"))
}

func TestParseModifier(t *testing.T) {
	for input, expected := range map[string]strength.Modifier{
		"exact":      strength.ModifierExact,
		"percentage": strength.ModifierPercentage,
		"increment":  strength.ModifierIncrement,
		"decrement":  strength.ModifierDecrement,
		"add":        strength.ModifierIncrement,
		"subtract":   strength.ModifierDecrement,
	} {
		m, err := strength.ParseModifier(input)
		require.NoError(t, err)
		assert.Equal(t, expected, m, input)
	}

	_, err := strength.ParseModifier("double")
	assert.Error(t, err)
}
