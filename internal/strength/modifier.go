package strength

import "fmt"

// Modifier is the rule that turns a five rep max baseline into a
// concrete set weight.
type Modifier string

const (
	ModifierExact      Modifier = "exact"
	ModifierPercentage Modifier = "percentage"
	ModifierIncrement  Modifier = "increment"
	ModifierDecrement  Modifier = "decrement"
)

// ParseModifier normalizes a modifier name to the canonical set.
// Older clients send add/subtract, those map to increment/decrement.
func ParseModifier(s string) (Modifier, error) {
	switch s {
	case "exact":
		return ModifierExact, nil
	case "percentage":
		return ModifierPercentage, nil
	case "increment", "add":
		return ModifierIncrement, nil
	case "decrement", "subtract":
		return ModifierDecrement, nil
	default:
		return "", fmt.Errorf("unknown modifier: %q", s)
	}
}
