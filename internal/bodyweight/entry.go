package bodyweight

import (
	"time"

	"github.com/2beens/fitlog/internal/profile"
	"github.com/2beens/fitlog/pkg"
)

// Entry is one body composition measurement. A user has at most one
// entry per day, saving over an existing day replaces it.
type Entry struct {
	ID         int       `json:"id"`
	UserID     int       `json:"userId"`
	Date       time.Time `json:"date"`
	BodyWeight float64   `json:"bodyWeight"`
	BodyFat    float64   `json:"bodyFat"`
}

func (e *Entry) Validate() error {
	if e.Date.IsZero() {
		return pkg.NewValidationError("date", "must be set")
	}
	if e.BodyWeight < profile.MinBodyWeight || e.BodyWeight > profile.MaxBodyWeight {
		return pkg.NewValidationError("bodyWeight", "must be between 30 and 1000")
	}
	if e.BodyFat != 0 && (e.BodyFat < profile.MinBodyFat || e.BodyFat > profile.MaxBodyFat) {
		return pkg.NewValidationError("bodyFat", "must be between 5 and 60")
	}
	return nil
}
