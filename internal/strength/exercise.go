package strength

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/2beens/fitlog/pkg"
)

const (
	MaxFiveRepMax = 1500
	MaxSetWeight  = 1500
	MaxSetReps    = 100
)

var titleCaser = cases.Title(language.English)

// Exercise is a named lift with its current estimated five rep max and
// the defaults used when adding it to a workout template. Rows owned by
// the default user are shared, visible to everyone and cloned on edit.
type Exercise struct {
	ID              int      `json:"id"`
	UserID          int      `json:"userId"`
	Name            string   `json:"name"`
	FiveRepMax      float64  `json:"fiveRepMax"`
	DefaultWeight   float64  `json:"defaultWeight"`
	DefaultReps     int      `json:"defaultReps"`
	DefaultModifier Modifier `json:"defaultModifier"`
}

// NormalizeName title-cases an exercise name the way it is stored,
// so "bench press" and "Bench Press" resolve to the same row.
func NormalizeName(name string) string {
	return titleCaser.String(strings.TrimSpace(name))
}

func (e *Exercise) Validate() error {
	if e.Name == "" {
		return pkg.NewValidationError("name", "must not be empty")
	}
	if e.FiveRepMax < 0 || e.FiveRepMax > MaxFiveRepMax {
		return pkg.NewValidationError("fiveRepMax", "must be between 0 and 1500")
	}
	if e.DefaultWeight < 0 || e.DefaultWeight > MaxSetWeight {
		return pkg.NewValidationError("defaultWeight", "must be between 0 and 1500")
	}
	if e.DefaultReps < 0 || e.DefaultReps > MaxSetReps {
		return pkg.NewValidationError("defaultReps", "must be between 0 and 100")
	}
	if _, err := ParseModifier(string(e.DefaultModifier)); err != nil {
		return pkg.NewValidationError("defaultModifier", "must be one of: exact, percentage, increment, decrement")
	}
	return nil
}
