package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Rating bounds accepted on an entry
const (
	RatingMin = 1.0
	RatingMax = 5.0
)

// ErrInvalidEntry is the base error for entry validation failures
var ErrInvalidEntry = errors.New("invalid entry")

// Entry represents a single recorded user action
type Entry struct {
	// ID is assigned by the store, starting at 1
	ID int64 `json:"id"`

	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
	PlaceName string    `json:"place_name"`

	// Rating is optional; when present it must be within [RatingMin, RatingMax]
	Rating *float64 `json:"rating,omitempty"`

	// Feedback is optional free-form text
	Feedback string `json:"feedback,omitempty"`

	Action string `json:"action"`

	// CreatedAt is assigned when the entry is persisted, in UTC
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks that the entry satisfies the domain constraints.
// ID and CreatedAt are excluded: both are assigned during persistence.
func (e *Entry) Validate() error {
	if e.UserID == uuid.Nil {
		return fmt.Errorf("%w: user_id is required", ErrInvalidEntry)
	}
	if e.UserName == "" {
		return fmt.Errorf("%w: user_name is required", ErrInvalidEntry)
	}
	if e.PlaceName == "" {
		return fmt.Errorf("%w: place_name is required", ErrInvalidEntry)
	}
	if e.Action == "" {
		return fmt.Errorf("%w: action is required", ErrInvalidEntry)
	}
	if e.Rating != nil && (*e.Rating < RatingMin || *e.Rating > RatingMax) {
		return fmt.Errorf("%w: rating %.1f out of range [%.0f, %.0f]",
			ErrInvalidEntry, *e.Rating, RatingMin, RatingMax)
	}
	return nil
}

// Clone returns a deep copy of the entry
func (e *Entry) Clone() *Entry {
	cp := *e
	if e.Rating != nil {
		r := *e.Rating
		cp.Rating = &r
	}
	return &cp
}
