package routines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/fitlog/pkg"
)

func day(templates ...string) Day {
	var d Day
	for _, t := range templates {
		d.Workouts = append(d.Workouts, Workout{TemplateName: t})
	}
	return d
}

// one week: two workouts on monday, one on tuesday, rest otherwise
func twoDayRoutine() *Routine {
	var week Week
	week.Days[0] = day("push", "pull")
	week.Days[1] = day("legs")
	return &Routine{
		ID:     1,
		UserID: 1,
		Name:   "ppl",
		Weeks:  []Week{week},
	}
}

func TestCurrent(t *testing.T) {
	routine := twoDayRoutine()

	workout, err := Current(routine, Cursor{WeekNumber: 1, DayNumber: 1, WorkoutIndex: 1})
	require.NoError(t, err)
	assert.Equal(t, "pull", workout.TemplateName)

	_, err = Current(routine, Cursor{WeekNumber: 1, DayNumber: 3})
	assert.ErrorIs(t, err, ErrEmptyDay)

	_, err = Current(routine, Cursor{WeekNumber: 1, DayNumber: 2, WorkoutIndex: 5})
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestAdvance_wrapsAroundAndSkipsRestDays(t *testing.T) {
	routine := twoDayRoutine()
	cursor := Cursor{RoutineID: 1, WeekNumber: 1, DayNumber: 1, WorkoutIndex: 0}

	cursor, err := Advance(routine, cursor)
	require.NoError(t, err)
	assert.Equal(t, Cursor{RoutineID: 1, WeekNumber: 1, DayNumber: 1, WorkoutIndex: 1}, cursor)

	cursor, err = Advance(routine, cursor)
	require.NoError(t, err)
	assert.Equal(t, Cursor{RoutineID: 1, WeekNumber: 1, DayNumber: 2, WorkoutIndex: 0}, cursor)

	// tuesday exhausted, rest of the week is rest days, wrap to monday
	cursor, err = Advance(routine, cursor)
	require.NoError(t, err)
	assert.Equal(t, Cursor{RoutineID: 1, WeekNumber: 1, DayNumber: 1, WorkoutIndex: 0}, cursor)
}

func TestAdvance_multiWeek(t *testing.T) {
	var week1, week2 Week
	week1.Days[6] = day("full body")
	week2.Days[0] = day("deload")
	routine := &Routine{ID: 2, Weeks: []Week{week1, week2}}

	cursor := Cursor{WeekNumber: 1, DayNumber: 7, WorkoutIndex: 0}

	cursor, err := Advance(routine, cursor)
	require.NoError(t, err)
	assert.Equal(t, 2, cursor.WeekNumber)
	assert.Equal(t, 1, cursor.DayNumber)
	assert.Equal(t, 0, cursor.WorkoutIndex)

	// end of the routine wraps back to week one
	cursor, err = Advance(routine, cursor)
	require.NoError(t, err)
	assert.Equal(t, 1, cursor.WeekNumber)
	assert.Equal(t, 7, cursor.DayNumber)
}

func TestAdvance_fullCycleVisitsEveryWorkout(t *testing.T) {
	var week1, week2 Week
	week1.Days[0] = day("a1", "a2")
	week1.Days[3] = day("b")
	week2.Days[1] = day("c")
	week2.Days[5] = day("d1", "d2", "d3")
	routine := &Routine{ID: 3, Weeks: []Week{week1, week2}}

	cursor, err := Start(routine)
	require.NoError(t, err)

	var visited []string
	for i := 0; i < 7; i++ {
		workout, err := Current(routine, cursor)
		require.NoError(t, err)
		visited = append(visited, workout.TemplateName)

		cursor, err = Advance(routine, cursor)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"a1", "a2", "b", "c", "d1", "d2", "d3"}, visited)

	// back at the start after exactly one full cycle
	assert.Equal(t, 1, cursor.WeekNumber)
	assert.Equal(t, 1, cursor.DayNumber)
	assert.Equal(t, 0, cursor.WorkoutIndex)
}

func TestRewind_isInverseOfAdvance(t *testing.T) {
	routine := twoDayRoutine()

	positions := []Cursor{
		{RoutineID: 1, WeekNumber: 1, DayNumber: 1, WorkoutIndex: 0},
		{RoutineID: 1, WeekNumber: 1, DayNumber: 1, WorkoutIndex: 1},
		{RoutineID: 1, WeekNumber: 1, DayNumber: 2, WorkoutIndex: 0},
	}
	for _, pos := range positions {
		advanced, err := Advance(routine, pos)
		require.NoError(t, err)
		back, err := Rewind(routine, advanced)
		require.NoError(t, err)
		assert.Equal(t, pos, back)
	}
}

func TestRewind_wrapsToLastWorkout(t *testing.T) {
	routine := twoDayRoutine()

	cursor, err := Rewind(routine, Cursor{RoutineID: 1, WeekNumber: 1, DayNumber: 1, WorkoutIndex: 0})
	require.NoError(t, err)
	assert.Equal(t, Cursor{RoutineID: 1, WeekNumber: 1, DayNumber: 2, WorkoutIndex: 0}, cursor)
}

func TestAdvance_emptyRoutineDay(t *testing.T) {
	routine := &Routine{ID: 4, Weeks: []Week{{}}}

	_, err := Advance(routine, Cursor{WeekNumber: 1, DayNumber: 1})
	assert.ErrorIs(t, err, ErrEmptyDay)
	_, err = Rewind(routine, Cursor{WeekNumber: 1, DayNumber: 1})
	assert.ErrorIs(t, err, ErrEmptyDay)
	_, err = Start(routine)
	assert.ErrorIs(t, err, ErrEmptyDay)
}

func TestStart_skipsLeadingRestDays(t *testing.T) {
	var week Week
	week.Days[2] = day("first")
	routine := &Routine{ID: 5, Weeks: []Week{week}}

	cursor, err := Start(routine)
	require.NoError(t, err)
	assert.Equal(t, 1, cursor.WeekNumber)
	assert.Equal(t, 3, cursor.DayNumber)
	assert.Equal(t, 0, cursor.WorkoutIndex)
}

func TestClamp(t *testing.T) {
	routine := twoDayRoutine()

	clamped := Clamp(routine, Cursor{WeekNumber: 9, DayNumber: 12, WorkoutIndex: 44})
	assert.Equal(t, 1, clamped.WeekNumber)
	assert.Equal(t, 7, clamped.DayNumber)
	assert.Equal(t, 0, clamped.WorkoutIndex)

	// in range cursors come back untouched
	valid := Cursor{WeekNumber: 1, DayNumber: 1, WorkoutIndex: 1}
	assert.Equal(t, valid, Clamp(routine, valid))
}

func TestRoutineValidate(t *testing.T) {
	routine := twoDayRoutine()
	require.NoError(t, routine.Validate())

	noName := &Routine{Weeks: []Week{{}}}
	ve, ok := pkg.AsValidationError(noName.Validate())
	require.True(t, ok)
	assert.Equal(t, "name", ve.Field)

	noWeeks := &Routine{Name: "ppl"}
	ve, ok = pkg.AsValidationError(noWeeks.Validate())
	require.True(t, ok)
	assert.Equal(t, "weeks", ve.Field)
}
