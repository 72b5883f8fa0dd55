package nutrition

import (
	"time"

	"github.com/2beens/fitlog/pkg"
)

// FoodItem is one logged food with its macros, as entered by the user or
// copied from a catalog lookup.
type FoodItem struct {
	Name     string  `json:"name"`
	Amount   string  `json:"amount,omitempty"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// FoodEntry is the complete food log of one user for one day. A day has
// at most one entry, edits rewrite the whole item list.
type FoodEntry struct {
	ID     int        `json:"id"`
	UserID int        `json:"userId"`
	Date   time.Time  `json:"date"`
	Items  []FoodItem `json:"items"`
}

func (e *FoodEntry) Validate() error {
	if e.Date.IsZero() {
		return pkg.NewValidationError("date", "must be set")
	}
	for _, item := range e.Items {
		if item.Name == "" {
			return pkg.NewValidationError("items", "item name must not be empty")
		}
		if item.Calories < 0 || item.Protein < 0 || item.Carbs < 0 || item.Fat < 0 {
			return pkg.NewValidationError("items", "macro values must not be negative")
		}
	}
	return nil
}

// Totals sums calories and macros over the entry's items.
func (e *FoodEntry) Totals() (calories, protein, carbs, fat float64) {
	for _, item := range e.Items {
		calories += item.Calories
		protein += item.Protein
		carbs += item.Carbs
		fat += item.Fat
	}
	return calories, protein, carbs, fat
}
