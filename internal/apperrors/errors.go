// internal/apperrors/errors.go
package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports malformed input detected before any write: filter
// bounds outside the plausible range, bad dates, unknown enum values.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// ConflictError reports a validity-window overlap on a manual item link, or
// a duplicate unique name.
type ConflictError struct {
	MetadataID         string
	RightID            string
	ConflictingRightID string
	Reason             string
}

func (e *ConflictError) Error() string {
	if e.ConflictingRightID != "" {
		return fmt.Sprintf("%s: right %s conflicts with right %s on item %s",
			e.Reason, e.RightID, e.ConflictingRightID, e.MetadataID)
	}
	return e.Reason
}

// ReferentialGuardError refuses deletion of an entity still referenced by
// others. No partial deletion happens.
type ReferentialGuardError struct {
	Resource string
	ID       string
	UsedBy   []string
}

func (e *ReferentialGuardError) Error() string {
	return fmt.Sprintf("%s %s is still in use by: %s",
		e.Resource, e.ID, strings.Join(e.UsedBy, ","))
}

// NotFoundError reports an operation on an unknown id.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func IsReferentialGuard(err error) bool {
	var ge *ReferentialGuardError
	return errors.As(err, &ge)
}

func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}
