package logsvc

import (
	"fmt"

	"github.com/tripspark/logsvc/internal/domain"
)

// Validator validates entries before they enter the ingest pipeline
type Validator struct{}

// NewValidator creates a new entry validator
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates an entry submitted for persistence
func (v *Validator) Validate(e *domain.Entry) error {
	if e == nil {
		return fmt.Errorf("%w: entry is nil", domain.ErrInvalidEntry)
	}

	// The server owns id and timestamp assignment
	if e.ID != 0 {
		return fmt.Errorf("%w: id must not be set by the client", domain.ErrInvalidEntry)
	}

	return e.Validate()
}
