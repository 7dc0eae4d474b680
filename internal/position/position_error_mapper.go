package position

import (
	"errors"
	"net/http"

	"employee-records/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrPositionNotFound = apperror.New(
		apperror.CodeNotFound,
		"Position not found",
		http.StatusNotFound,
	)
	ErrUnknownDepartment = apperror.New(
		apperror.CodeInvalidInput,
		"The referenced department does not exist",
		http.StatusBadRequest,
	)
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPositionNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23503: foreign_key_violation on department_id
		if pgErr.Code == "23503" {
			return ErrUnknownDepartment
		}
	}

	return err
}
