package weight

import (
	"github.com/lingocards/lingo-api/internal/domain"
)

// ErrInvalidOutcome is returned when the outcome is not one of the known values.
var ErrInvalidOutcome = domain.ErrInvalidOutcome

// Service defines the interface for weight model operations
type Service interface {
	// NextWeight computes the weight after a review with the given outcome.
	// Returns ErrInvalidOutcome for unknown outcomes instead of panicking.
	NextWeight(previous float64, outcome domain.ReviewOutcome) (float64, error)

	// Params returns the parameters the service was built with.
	Params() Params
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new weight service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new weight service with custom parameters
func NewServiceWithParams(params *Params) Service {
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultService{
		params: params,
	}
}

// NextWeight implements Service.
func (s *defaultService) NextWeight(previous float64, outcome domain.ReviewOutcome) (float64, error) {
	if !outcome.IsValid() {
		return 0, ErrInvalidOutcome
	}
	return calculateNewWeight(previous, outcome, s.params), nil
}

// Params implements Service.
func (s *defaultService) Params() Params {
	return *s.params
}
