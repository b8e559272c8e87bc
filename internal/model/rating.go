package model

import "gonum.org/v1/gonum/interp"

// Rating is a single rater's score for a file. A file may carry several;
// the "primary" rating is the first entry in its sequence.
type Rating struct {
	Rating  float32 // in [0.0, 1.0]
	Email   string  // empty means absent
	Counter uint32
	HasCounter bool
}

// popmBreakpoints are the standard ID3v2 POPM byte->rating breakpoints,
// per spec: {0->0, 1->0.004, 64->0.25, 128->0.5, 196->0.75, 255->1.0},
// linearly interpolated between.
var popmBreakpointsX = []float64{0, 1, 64, 128, 196, 255}
var popmBreakpointsY = []float64{0, 0.004, 0.25, 0.5, 0.75, 1.0}

func popmForward() *interp.PiecewiseLinear {
	var pl interp.PiecewiseLinear
	if err := pl.Fit(popmBreakpointsX, popmBreakpointsY); err != nil {
		panic("model: invalid POPM breakpoint table: " + err.Error())
	}
	return &pl
}

func popmInverse() *interp.PiecewiseLinear {
	var pl interp.PiecewiseLinear
	if err := pl.Fit(popmBreakpointsY, popmBreakpointsX); err != nil {
		panic("model: invalid inverse POPM breakpoint table: " + err.Error())
	}
	return &pl
}

// PopmToRating converts a raw POPM byte (0-255) to a normalized rating
// in [0.0, 1.0] using the standard breakpoint table, linearly
// interpolating between the nearest two breakpoints.
func PopmToRating(popm uint8) float32 {
	return float32(popmForward().Predict(float64(popm)))
}

// RatingToPopm converts a normalized rating in [0.0, 1.0] back to a raw
// POPM byte, rounding to the nearest integer and clamping to [0, 255].
func RatingToPopm(rating float32) uint8 {
	x := popmInverse().Predict(float64(rating))
	if x < 0 {
		x = 0
	}
	if x > 255 {
		x = 255
	}
	return uint8(x + 0.5)
}

// FiveStarToRating converts a 0-5 (half-star granularity allowed) scale
// to a normalized rating in [0.0, 1.0].
func FiveStarToRating(stars float32) float32 {
	if stars < 0 {
		stars = 0
	}
	if stars > 5 {
		stars = 5
	}
	return stars / 5
}

// RatingToFiveStar converts a normalized rating back to a 0-5 scale.
func RatingToFiveStar(rating float32) float32 { return rating * 5 }

// TenStarToRating converts a 0-10 scale to a normalized rating.
func TenStarToRating(stars float32) float32 {
	if stars < 0 {
		stars = 0
	}
	if stars > 10 {
		stars = 10
	}
	return stars / 10
}

// RatingToTenStar converts a normalized rating back to a 0-10 scale.
func RatingToTenStar(rating float32) float32 { return rating * 10 }

// PercentToRating converts a 0-100 percentage to a normalized rating.
func PercentToRating(percent float32) float32 {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return percent / 100
}

// RatingToPercent converts a normalized rating back to a 0-100 percentage.
func RatingToPercent(rating float32) float32 { return rating * 100 }
