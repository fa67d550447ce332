package database

import (
	"strings"

	"github.com/lib/pq"
	"github.com/medflow/theatreops-backend/pkg/errors"
)

// MapPQError converts a PostgreSQL error to an AppError with meaningful messages.
// Returns nil if the error is not a pq.Error.
func MapPQError(err error) *errors.AppError {
	pqErr, ok := err.(*pq.Error)
	if !ok {
		return nil
	}

	switch pqErr.Code {
	// Check constraint violation (23514)
	case "23514":
		return mapCheckConstraint(pqErr)

	// Unique constraint violation (23505)
	case "23505":
		return errors.Conflict(formatConstraintMessage(pqErr))

	// Foreign key violation (23503)
	case "23503":
		return errors.BadRequest("referenced record does not exist")

	// Not null violation (23502)
	case "23502":
		col := pqErr.Column
		if col == "" {
			col = "required field"
		}
		return errors.Validation(map[string]string{
			col: "must not be empty",
		})

	default:
		return nil
	}
}

// mapCheckConstraint maps specific CHECK constraint names to user-friendly messages.
func mapCheckConstraint(pqErr *pq.Error) *errors.AppError {
	constraint := pqErr.Constraint

	switch {
	case strings.Contains(constraint, "session_type_valid"):
		return errors.Validation(map[string]string{
			"session_type": "must be one of: day, long-day, night, emergency, closed",
		})

	case strings.Contains(constraint, "date_format"):
		return errors.Validation(map[string]string{
			"date": "must be a YYYY-MM-DD date",
		})

	case strings.Contains(constraint, "count_non_negative"):
		return errors.Validation(map[string]string{
			"quantity": "must not be negative",
		})

	default:
		return errors.BadRequest("data validation failed: " + constraint)
	}
}

// formatConstraintMessage creates a user-friendly message for unique constraint violations.
func formatConstraintMessage(pqErr *pq.Error) string {
	constraint := pqErr.Constraint

	switch {
	case strings.Contains(constraint, "allocation_slot"):
		return "an allocation already exists for this session"
	case strings.Contains(constraint, "session_key"):
		return "a session already exists for this theatre and date"
	default:
		return "a record with these values already exists"
	}
}
