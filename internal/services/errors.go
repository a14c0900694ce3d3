package services

import (
	"errors"
	"fmt"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/session"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/validator"
)

var (
	ErrValidationFailed = errors.New("validation failed")
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrConflict         = errors.New("resource conflict")
	ErrBadRequest       = errors.New("bad request")

	// ErrAccessDenied is returned for a login by a non-admin account
	ErrAccessDenied = session.ErrAccessDenied
)

// validationFailed wraps field errors so callers can match both ErrValidationFailed
// and validator.ValidationErrors
func validationFailed(errs validator.ValidationErrors) error {
	return fmt.Errorf("%w: %w", ErrValidationFailed, errs)
}
