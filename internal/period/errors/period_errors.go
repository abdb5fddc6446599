package perioderrors

import (
	"net/http"

	"go-timeoff/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrPeriodOverlap = apperror.New(
		apperror.CodeConflict,
		"leave period overlaps an existing period",
		http.StatusConflict,
	)
	ErrPeriodNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave period not found",
		http.StatusNotFound,
	)
	ErrNoActivePeriod = apperror.New(
		apperror.CodeNotFound,
		"no active leave period",
		http.StatusNotFound,
	)
	ErrTypeConfigNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave type config not found",
		http.StatusNotFound,
	)
	ErrTypeConfigExists = apperror.New(
		apperror.CodeConflict,
		"leave type already configured for this period",
		http.StatusConflict,
	)
	ErrInvalidPeriodID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave period id",
		http.StatusBadRequest,
	)
)
