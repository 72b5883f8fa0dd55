package workouts

import (
	"github.com/2beens/fitlog/internal/strength"
	"github.com/2beens/fitlog/pkg"
)

// PlanSet is one prescribed set inside an exercise plan. Amount is
// interpreted through the modifier: an absolute weight for exact, a
// percentage of the snapshot, or an offset from it.
type PlanSet struct {
	Amount   float64           `json:"amount"`
	Modifier strength.Modifier `json:"modifier"`
	Reps     int               `json:"reps"`
}

// ExercisePlan prescribes the sets for one exercise within a template.
// The five rep max snapshot makes the template materializable without
// touching the exercise row.
type ExercisePlan struct {
	Name               string    `json:"name"`
	FiveRepMaxSnapshot float64   `json:"fiveRepMaxSnapshot"`
	Sets               []PlanSet `json:"sets"`
}

// Template is a reusable workout blueprint: an ordered list of exercise
// plans, stored as a single config document. Default-owned templates are
// shared and cloned on edit, like exercises.
type Template struct {
	ID     int            `json:"id"`
	UserID int            `json:"userId"`
	Name   string         `json:"name"`
	Plans  []ExercisePlan `json:"plans"`
}

func (t *Template) Validate() error {
	if t.Name == "" {
		return pkg.NewValidationError("name", "must not be empty")
	}
	for i := range t.Plans {
		plan := &t.Plans[i]
		if plan.Name == "" {
			return pkg.NewValidationError("plans.name", "must not be empty")
		}
		if plan.FiveRepMaxSnapshot < 0 || plan.FiveRepMaxSnapshot > strength.MaxFiveRepMax {
			return pkg.NewValidationError("plans.fiveRepMaxSnapshot", "must be between 0 and 1500")
		}
		for j := range plan.Sets {
			set := &plan.Sets[j]
			modifier, err := strength.ParseModifier(string(set.Modifier))
			if err != nil {
				return pkg.NewValidationError("plans.sets.modifier", "must be one of: exact, percentage, increment, decrement")
			}
			set.Modifier = modifier
			if set.Reps < 0 || set.Reps > strength.MaxSetReps {
				return pkg.NewValidationError("plans.sets.reps", "must be between 0 and 100")
			}
		}
	}
	return nil
}
