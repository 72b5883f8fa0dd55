package workouts

import (
	"time"

	"github.com/2beens/fitlog/internal/strength"
	"github.com/2beens/fitlog/pkg"
)

// Set is one completed set inside a workout session.
type Set struct {
	ID       int     `json:"id"`
	Exercise string  `json:"exercise"`
	Weight   float64 `json:"weight"`
	Reps     int     `json:"reps"`
}

// Session is one performed workout: the template it came from (if any),
// when it happened and the ordered sets that were done.
type Session struct {
	ID               int       `json:"id"`
	UserID           int       `json:"userId"`
	TemplateID       int       `json:"templateId"` // 0 for freeform sessions
	Date             time.Time `json:"date"`
	TotalTimeSeconds int       `json:"totalTimeSeconds"`
	Sets             []Set     `json:"sets"`
}

func (s *Session) Validate() error {
	if s.TotalTimeSeconds < 0 {
		return pkg.NewValidationError("totalTimeSeconds", "must not be negative")
	}
	for _, set := range s.Sets {
		if set.Exercise == "" {
			return pkg.NewValidationError("sets.exercise", "must not be empty")
		}
		if set.Weight < 0 || set.Weight > strength.MaxSetWeight {
			return pkg.NewValidationError("sets.weight", "must be between 0 and 1500")
		}
		if set.Reps < 0 || set.Reps > strength.MaxSetReps {
			return pkg.NewValidationError("sets.reps", "must be between 0 and 100")
		}
	}
	return nil
}
