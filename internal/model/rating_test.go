package model_test

import (
	"fmt"
	"testing"

	"go.audiometa.dev/audiometa/internal/model"
)

// TestPopmRoundTrip checks the standard ID3v2 POPM breakpoints survive
// a rating_to_popm(popm_to_rating(p)) round trip within 1.
func TestPopmRoundTrip(t *testing.T) {
	t.Parallel()

	breakpoints := []uint8{0, 1, 64, 128, 196, 255}
	for _, p := range breakpoints {
		p := p
		t.Run(fmt.Sprintf("popm=%d", p), func(t *testing.T) {
			t.Parallel()
			rating := model.PopmToRating(p)
			got := model.RatingToPopm(rating)
			diff := int(got) - int(p)
			if diff < -1 || diff > 1 {
				t.Fatalf("RatingToPopm(PopmToRating(%d)) = %d, want within 1", p, got)
			}
		})
	}
}

// TestPopmRoundTripExhaustive walks every byte value, not just the
// named breakpoints, since the round-trip tolerance must hold over all
// of [0, 255].
func TestPopmRoundTripExhaustive(t *testing.T) {
	t.Parallel()

	for p := 0; p <= 255; p++ {
		rating := model.PopmToRating(uint8(p))
		got := model.RatingToPopm(rating)
		diff := int(got) - p
		if diff < -1 || diff > 1 {
			t.Fatalf("RatingToPopm(PopmToRating(%d)) = %d, want within 1", p, got)
		}
	}
}

func TestPopmToRatingMonotonic(t *testing.T) {
	t.Parallel()

	prev := float32(-1)
	for p := 0; p <= 255; p++ {
		r := model.PopmToRating(uint8(p))
		if r < prev {
			t.Fatalf("PopmToRating(%d) = %v, not monotonic after %v", p, r, prev)
		}
		prev = r
	}
}

func TestFiveStarRoundTrip(t *testing.T) {
	t.Parallel()

	for _, stars := range []float32{0, 1, 2.5, 4, 5} {
		r := model.FiveStarToRating(stars)
		if got := model.RatingToFiveStar(r); got != stars {
			t.Fatalf("RatingToFiveStar(FiveStarToRating(%v)) = %v, want %v", stars, got, stars)
		}
	}
}
