package routines

import "errors"

var (
	// ErrEmptyDay means the cursor points at a day with no workouts,
	// which can only happen after the routine was edited under it.
	ErrEmptyDay = errors.New("routine day has no workouts")
	// ErrOutOfRange means the cursor's workout index exceeds the day's
	// workout list, same cause. Callers should reclamp the cursor.
	ErrOutOfRange = errors.New("cursor workout index out of range")
)

// Start returns a cursor at the first planned workout of the routine.
func Start(routine *Routine) (Cursor, error) {
	cursor := Cursor{
		RoutineID:  routine.ID,
		WeekNumber: 1,
		DayNumber:  1,
	}
	if len(routine.workouts(1, 1)) > 0 {
		return cursor, nil
	}

	totalWeeks := len(routine.Weeks)
	for i := 0; i < totalWeeks*daysPerWeek; i++ {
		cursor.DayNumber = (cursor.DayNumber % daysPerWeek) + 1
		if cursor.DayNumber == 1 {
			cursor.WeekNumber = (cursor.WeekNumber % totalWeeks) + 1
		}
		if len(routine.workouts(cursor.WeekNumber, cursor.DayNumber)) > 0 {
			return cursor, nil
		}
	}
	return cursor, ErrEmptyDay
}

// Current returns the workout the cursor points at.
func Current(routine *Routine, cursor Cursor) (*Workout, error) {
	workouts := routine.workouts(cursor.WeekNumber, cursor.DayNumber)
	if len(workouts) == 0 {
		return nil, ErrEmptyDay
	}
	if cursor.WorkoutIndex >= len(workouts) || cursor.WorkoutIndex < 0 {
		return nil, ErrOutOfRange
	}
	w := workouts[cursor.WorkoutIndex]
	return &w, nil
}

// Advance moves the cursor to the next workout. When the current day is
// exhausted it rolls over to the next day holding any workouts, wrapping
// the week (and the whole routine) as needed. Rest days are stepped over,
// so a full cycle of advances visits exactly every planned workout once.
func Advance(routine *Routine, cursor Cursor) (Cursor, error) {
	workouts := routine.workouts(cursor.WeekNumber, cursor.DayNumber)
	n := len(workouts)
	if n == 0 {
		return cursor, ErrEmptyDay
	}

	cursor.WorkoutIndex = (cursor.WorkoutIndex + 1) % n
	if cursor.WorkoutIndex != 0 {
		return cursor, nil
	}

	// day exhausted, move forward to the next day with workouts
	totalWeeks := len(routine.Weeks)
	for i := 0; i < totalWeeks*daysPerWeek; i++ {
		cursor.DayNumber = (cursor.DayNumber % daysPerWeek) + 1
		if cursor.DayNumber == 1 {
			cursor.WeekNumber = (cursor.WeekNumber % totalWeeks) + 1
		}
		if len(routine.workouts(cursor.WeekNumber, cursor.DayNumber)) > 0 {
			return cursor, nil
		}
	}

	return cursor, ErrEmptyDay
}

// Rewind moves the cursor to the previous workout, rolling back over
// rest days and wrapping week and routine boundaries in reverse.
func Rewind(routine *Routine, cursor Cursor) (Cursor, error) {
	workouts := routine.workouts(cursor.WeekNumber, cursor.DayNumber)
	n := len(workouts)
	if n == 0 {
		return cursor, ErrEmptyDay
	}

	if cursor.WorkoutIndex > 0 {
		cursor.WorkoutIndex--
		return cursor, nil
	}

	// move back to the closest earlier day with workouts
	totalWeeks := len(routine.Weeks)
	for i := 0; i < totalWeeks*daysPerWeek; i++ {
		cursor.DayNumber--
		if cursor.DayNumber < 1 {
			cursor.DayNumber = daysPerWeek
			cursor.WeekNumber--
			if cursor.WeekNumber < 1 {
				cursor.WeekNumber = totalWeeks
			}
		}
		if dayWorkouts := routine.workouts(cursor.WeekNumber, cursor.DayNumber); len(dayWorkouts) > 0 {
			cursor.WorkoutIndex = len(dayWorkouts) - 1
			return cursor, nil
		}
	}

	return cursor, ErrEmptyDay
}

// Clamp pulls a cursor invalidated by routine edits back into range.
func Clamp(routine *Routine, cursor Cursor) Cursor {
	totalWeeks := len(routine.Weeks)
	if cursor.WeekNumber < 1 {
		cursor.WeekNumber = 1
	}
	if cursor.WeekNumber > totalWeeks {
		cursor.WeekNumber = totalWeeks
	}
	if cursor.DayNumber < 1 {
		cursor.DayNumber = 1
	}
	if cursor.DayNumber > daysPerWeek {
		cursor.DayNumber = daysPerWeek
	}

	workouts := routine.workouts(cursor.WeekNumber, cursor.DayNumber)
	if cursor.WorkoutIndex < 0 || cursor.WorkoutIndex >= len(workouts) {
		cursor.WorkoutIndex = 0
	}
	return cursor
}
