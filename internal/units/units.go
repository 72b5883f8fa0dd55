package units

import (
	"errors"
	"fmt"
	"math"
)

const (
	DistanceUnitMiles      = "mi"
	DistanceUnitKilometers = "km"

	WeightUnitLbs = "Lbs"
	WeightUnitKg  = "Kg"
)

var (
	ErrNegativeDuration = errors.New("duration components negative")
	ErrInvalidArgument  = errors.New("invalid argument")
)

// Components breaks a duration in seconds into hours, minutes and seconds.
// Non-positive input yields all zeros.
func Components(seconds int) (h, m, s int) {
	if seconds <= 0 {
		return 0, 0, 0
	}
	h = seconds / 3600
	m = (seconds % 3600) / 60
	s = seconds % 60
	return h, m, s
}

// FormatPace renders a seconds count as a runner's pace string,
// e.g. 610 -> `10' 10"`, 3661 -> `1h 01' 01"`.
func FormatPace(seconds int) (string, error) {
	h, m, s := Components(seconds)
	if h < 0 || m < 0 || s < 0 {
		return "", ErrNegativeDuration
	}
	if h > 0 {
		return fmt.Sprintf("%dh %02d' %02d\"", h, m, s), nil
	}
	return fmt.Sprintf("%d' %02d\"", m, s), nil
}

// CaloriesBurned estimates calories for a cardio session from the covered
// distance and the athlete's body weight. The mile coefficients expect body
// weight in kilos scaled to pounds, the kilometer ones take kilos directly.
func CaloriesBurned(distanceUnit string, distance, bodyWeight float64) (int, error) {
	if distance < 0 {
		return 0, fmt.Errorf("%w: distance is negative", ErrInvalidArgument)
	}
	if bodyWeight < 0 {
		return 0, fmt.Errorf("%w: body weight is negative", ErrInvalidArgument)
	}

	var calories float64
	if distanceUnit == DistanceUnitMiles {
		calories = (distance * 0.57) * (bodyWeight * 2.2)
	} else {
		calories = (distance * 1.036) * bodyWeight
	}

	return int(math.Trunc(calories)), nil
}
