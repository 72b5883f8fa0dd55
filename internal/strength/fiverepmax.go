package strength

import "math"

// FiveRepMax estimates the five rep max from a completed set, using the
// Epley one rep max formula inverted back to five reps:
//
//	1RM = weight * (1 + reps/30)
//	5RM = 1RM / (1 + 5/30)
//
// The result is quantized to quarter units, plates don't come finer
// than that.
func FiveRepMax(weight float64, reps int) float64 {
	oneRepMax := weight * (1 + float64(reps)/30)
	fiveRepMax := oneRepMax / (1 + 5.0/30)
	return math.Round(fiveRepMax*4) / 4
}
