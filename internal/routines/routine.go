package routines

import (
	"time"

	"github.com/2beens/fitlog/pkg"
)

const daysPerWeek = 7

// Workout is one planned workout within a routine day, referencing a
// workout template by name.
type Workout struct {
	TemplateName string `json:"templateName"`
}

// Day holds the ordered workouts planned for one weekday. Days with no
// workouts are rest days.
type Day struct {
	Workouts []Workout `json:"workouts"`
}

// Week is a full seven day block of a routine.
type Week struct {
	Days [daysPerWeek]Day `json:"days"`
}

// Routine is a multi-week training program: Weeks[w].Days[d].Workouts
// in order. The tree is stored as one document per routine.
type Routine struct {
	ID     int    `json:"id"`
	UserID int    `json:"userId"`
	Name   string `json:"name"`
	Weeks  []Week `json:"weeks"`
}

func (r *Routine) Validate() error {
	if r.Name == "" {
		return pkg.NewValidationError("name", "must not be empty")
	}
	if len(r.Weeks) == 0 {
		return pkg.NewValidationError("weeks", "must not be empty")
	}
	return nil
}

// workouts returns the workout list for a 1-based week and day number.
func (r *Routine) workouts(week, day int) []Workout {
	if week < 1 || week > len(r.Weeks) || day < 1 || day > daysPerWeek {
		return nil
	}
	return r.Weeks[week-1].Days[day-1].Workouts
}

// Cursor is the user's position within a routine: the next workout to
// serve. Week and day are 1-based, the workout index is 0-based.
type Cursor struct {
	RoutineID     int        `json:"routineId"`
	WeekNumber    int        `json:"weekNumber"`
	DayNumber     int        `json:"dayNumber"`
	WorkoutIndex  int        `json:"workoutIndex"`
	LastCompleted *time.Time `json:"lastCompleted,omitempty"`
}
