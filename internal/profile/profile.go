package profile

import (
	"time"

	"github.com/2beens/fitlog/internal/units"
	"github.com/2beens/fitlog/pkg"
)

// DefaultUsername owns the shared default exercises and workout templates.
// Rows owned by it are visible to everyone but never edited in place,
// edits go through a user-owned clone.
const DefaultUsername = "default"

const (
	MinBodyWeight = 30
	MaxBodyWeight = 1000
	MinBodyFat    = 5
	MaxBodyFat    = 60
)

// Settings are the per-user knobs consulted by the analytics engine
// and passed through to the UI.
type Settings struct {
	AutoUpdateFiveRepMax bool `json:"autoUpdateFiveRepMax"`
	ShowRestTimer        bool `json:"showRestTimer"`
	ShowWorkoutTimer     bool `json:"showWorkoutTimer"`
	FirstWeekday         int  `json:"firstWeekday"` // 0 = Sunday .. 6 = Saturday
}

type Profile struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	DistanceUnit string    `json:"distanceUnit"` // mi | km
	WeightUnit   string    `json:"weightUnit"`   // Lbs | Kg
	BodyWeight   float64   `json:"bodyWeight"`
	BodyFat      float64   `json:"bodyFat"`
	Settings     Settings  `json:"settings"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (p *Profile) Validate() error {
	if p.DistanceUnit != units.DistanceUnitMiles && p.DistanceUnit != units.DistanceUnitKilometers {
		return pkg.NewValidationError("distanceUnit", "must be one of: mi, km")
	}
	if p.WeightUnit != units.WeightUnitLbs && p.WeightUnit != units.WeightUnitKg {
		return pkg.NewValidationError("weightUnit", "must be one of: Lbs, Kg")
	}
	if p.BodyWeight < MinBodyWeight || p.BodyWeight > MaxBodyWeight {
		return pkg.NewValidationError("bodyWeight", "must be between 30 and 1000")
	}
	if p.BodyFat < MinBodyFat || p.BodyFat > MaxBodyFat {
		return pkg.NewValidationError("bodyFat", "must be between 5 and 60")
	}
	if p.Settings.FirstWeekday < 0 || p.Settings.FirstWeekday > 6 {
		return pkg.NewValidationError("firstWeekday", "must be between 0 and 6")
	}
	return nil
}
