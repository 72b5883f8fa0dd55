package bodyweight

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/fitlog/pkg"
)

type fakeEntriesRepo struct {
	latest *Entry
	err    error
}

func (f *fakeEntriesRepo) Latest(_ context.Context, _ int) (*Entry, error) {
	return f.latest, f.err
}

type bodyCompWrite struct {
	userID     int
	bodyWeight float64
	bodyFat    float64
}

type fakeProfileUpdater struct {
	writes []bodyCompWrite
}

func (f *fakeProfileUpdater) UpdateBodyComposition(_ context.Context, userID int, bodyWeight, bodyFat float64) error {
	f.writes = append(f.writes, bodyCompWrite{userID, bodyWeight, bodyFat})
	return nil
}

func TestReconcile(t *testing.T) {
	entries := &fakeEntriesRepo{
		latest: &Entry{
			ID: 7, UserID: 1,
			Date:       time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
			BodyWeight: 182.4,
			BodyFat:    17.2,
		},
	}
	profiles := &fakeProfileUpdater{}
	feedback := NewFeedback(entries, profiles)

	require.NoError(t, feedback.Reconcile(context.Background(), 1))
	require.Len(t, profiles.writes, 1)
	assert.Equal(t, bodyCompWrite{1, 182.4, 17.2}, profiles.writes[0])

	// repeating with the same latest entry writes the same values
	require.NoError(t, feedback.Reconcile(context.Background(), 1))
	require.Len(t, profiles.writes, 2)
	assert.Equal(t, profiles.writes[0], profiles.writes[1])
}

func TestReconcile_noEntries(t *testing.T) {
	entries := &fakeEntriesRepo{err: ErrEntryNotFound}
	profiles := &fakeProfileUpdater{}
	feedback := NewFeedback(entries, profiles)

	require.NoError(t, feedback.Reconcile(context.Background(), 1))
	assert.Empty(t, profiles.writes)
}

func TestReconcile_repoError(t *testing.T) {
	repoErr := errors.New("connection refused")
	feedback := NewFeedback(&fakeEntriesRepo{err: repoErr}, &fakeProfileUpdater{})

	err := feedback.Reconcile(context.Background(), 1)
	assert.ErrorIs(t, err, repoErr)
}

func TestEntryValidate(t *testing.T) {
	valid := Entry{
		Date:       time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
		BodyWeight: 180,
		BodyFat:    15,
	}
	require.NoError(t, valid.Validate())

	// body fat is optional
	noFat := valid
	noFat.BodyFat = 0
	require.NoError(t, noFat.Validate())

	for name, mutate := range map[string]func(e *Entry){
		"no date":           func(e *Entry) { e.Date = time.Time{} },
		"weight too low":    func(e *Entry) { e.BodyWeight = 10 },
		"weight too high":   func(e *Entry) { e.BodyWeight = 1200 },
		"body fat too low":  func(e *Entry) { e.BodyFat = 2 },
		"body fat too high": func(e *Entry) { e.BodyFat = 80 },
	} {
		t.Run(name, func(t *testing.T) {
			entry := valid
			mutate(&entry)
			_, ok := pkg.AsValidationError(entry.Validate())
			assert.True(t, ok)
		})
	}
}
