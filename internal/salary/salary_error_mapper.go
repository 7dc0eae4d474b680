package salary

import (
	"errors"
	"net/http"

	"employee-records/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrSalaryNotFound = apperror.New(
		apperror.CodeNotFound,
		"Salary not found",
		http.StatusNotFound,
	)
	ErrUnknownEmployee = apperror.New(
		apperror.CodeNotFound,
		"Employee does not exist",
		http.StatusNotFound,
	)
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrSalaryNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23503" {
			return ErrUnknownEmployee
		}
	}

	return err
}
