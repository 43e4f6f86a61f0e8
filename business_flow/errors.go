// Package businessflow contains the core business logic and use cases for audience resolution workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Advertisement-related errors
	ErrAdvertisementNotFound = errors.New("advertisement not found")
	ErrAdvertisementEmpty    = errors.New("advertisement payload is empty")

	// Targeting criteria errors
	ErrInvalidSpec             = errors.New("invalid targeting criteria")
	ErrTargetAudienceRequired  = errors.New("target_audience is required")
	ErrCategoriesRequired      = errors.New("categories are required and must be non-empty")
	ErrTargetUserCountRequired = errors.New("target_user_count is required")
	ErrTargetUserCountNegative = errors.New("target_user_count must not be negative")
	ErrOutreachRequired        = errors.New("outreach channel is required")
	ErrDimensionEmpty          = errors.New("audience dimension must be \"Any\" or a non-empty collection")
	ErrDimensionMalformed      = errors.New("audience dimension must be a string or a collection of strings")
	ErrAgeBoundMalformed       = errors.New("age bound must be an integer")

	// Resolution errors
	ErrResolutionFailed = errors.New("audience resolution failed")

	// Result write errors
	ErrWriteFailed = errors.New("engagement count write failed")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func IsAdvertisementNotFound(err error) bool {
	return errors.Is(err, ErrAdvertisementNotFound)
}

func IsAdvertisementEmpty(err error) bool {
	return errors.Is(err, ErrAdvertisementEmpty)
}

func IsInvalidSpec(err error) bool {
	return errors.Is(err, ErrInvalidSpec)
}

func IsResolutionFailed(err error) bool {
	return errors.Is(err, ErrResolutionFailed)
}

func IsWriteFailed(err error) bool {
	return errors.Is(err, ErrWriteFailed)
}

// invalidSpec wraps a detail error so that callers can match on ErrInvalidSpec
// while logs keep the specific reason.
func invalidSpec(detail error) error {
	return fmt.Errorf("%w: %w", ErrInvalidSpec, detail)
}
