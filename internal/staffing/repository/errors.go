package repository

import (
	"github.com/lib/pq"
	"github.com/medflow/theatreops-backend/pkg/database"
	"github.com/medflow/theatreops-backend/pkg/errors"
)

// mapError converts PostgreSQL constraint errors to AppErrors
func mapError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	if appErr := database.MapPQError(pqErr); appErr != nil {
		return appErr
	}
	return err
}
