package weight

import (
	"github.com/lingocards/lingo-api/internal/domain"
)

// Params defines all configurable parameters of the weight model.
type Params struct {
	// Bounds every weight is clamped to.
	Floor   float64
	Ceiling float64

	// Multiplier applied to the previous weight for each outcome.
	Multipliers map[domain.ReviewOutcome]float64
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance.
// Zero values keep the default.
type ParamsConfig struct {
	Floor   float64
	Ceiling float64

	CorrectMultiplier   float64
	IncorrectMultiplier float64
	SkippedMultiplier   float64
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		Floor:   domain.MinStudyWeight,
		Ceiling: domain.MaxStudyWeight,

		Multipliers: map[domain.ReviewOutcome]float64{
			domain.ReviewOutcomeCorrect:   0.8, // decay toward the floor
			domain.ReviewOutcomeIncorrect: 1.5, // grow toward the ceiling
			domain.ReviewOutcomeSkipped:   1.1, // mild growth
		},
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.Floor > 0 {
		params.Floor = config.Floor
	}
	if config.Ceiling > 0 {
		params.Ceiling = config.Ceiling
	}

	if config.CorrectMultiplier > 0 {
		params.Multipliers[domain.ReviewOutcomeCorrect] = config.CorrectMultiplier
	}
	if config.IncorrectMultiplier > 0 {
		params.Multipliers[domain.ReviewOutcomeIncorrect] = config.IncorrectMultiplier
	}
	if config.SkippedMultiplier > 0 {
		params.Multipliers[domain.ReviewOutcomeSkipped] = config.SkippedMultiplier
	}

	return params
}
