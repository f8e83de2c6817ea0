// Package weight implements the study weight model: how a card's priority
// moves after each review outcome.
package weight

import (
	"fmt"
	"math"

	"github.com/lingocards/lingo-api/internal/domain"
)

var defaultParams = NewDefaultParams()

// CalculateNewWeight returns the weight a card should carry after a review,
// using the default parameters.
//
// Parameters:
//   - previous: The card's weight before the review
//   - outcome: The recall outcome (correct, incorrect, skipped)
//
// Returns:
//   - correct:   max(0.5, previous*0.8)
//   - incorrect: min(5.0, previous*1.5)
//   - skipped:   min(5.0, previous*1.1)
//
// The function is pure. Passing an outcome outside the three known values is
// a programming error and panics; request paths should go through Service,
// which validates first.
func CalculateNewWeight(previous float64, outcome domain.ReviewOutcome) float64 {
	return calculateNewWeight(previous, outcome, defaultParams)
}

// calculateNewWeight applies the outcome multiplier and clamps the result.
//
// Correct answers only ever decay the weight, so only the floor applies.
// Incorrect and skipped answers only ever grow it, so only the ceiling applies.
// Both bounds are enforced regardless so that a weight that drifted out of
// range (for example after a parameter change) is pulled back in.
func calculateNewWeight(previous float64, outcome domain.ReviewOutcome, params *Params) float64 {
	multiplier, ok := params.Multipliers[outcome]
	if !ok || !outcome.IsValid() {
		// ALLOW-PANIC: unknown outcomes are a caller contract violation
		panic(fmt.Sprintf("weight: unknown review outcome %q", outcome))
	}

	next := previous * multiplier
	return math.Min(params.Ceiling, math.Max(params.Floor, next))
}
