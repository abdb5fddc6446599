package leaverequesterrors

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
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
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
	ErrRetroactiveStart = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must not be in the past",
		http.StatusBadRequest,
	)
	ErrAdvanceNotice = apperror.New(
		apperror.CodeInvalidState,
		"request does not meet the advance notice requirement",
		http.StatusUnprocessableEntity,
	)
	ErrMaxConsecutiveDays = apperror.New(
		apperror.CodeInvalidState,
		"request exceeds the maximum consecutive days for this leave type",
		http.StatusUnprocessableEntity,
	)
	ErrOverlappingRequest = apperror.New(
		apperror.CodeConflict,
		"an open leave request already covers part of this date range",
		http.StatusConflict,
	)
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid leave request status transition",
		http.StatusConflict,
	)
	ErrUnauthorizedApprover = apperror.New(
		apperror.CodeForbidden,
		"you are not an eligible approver for this request",
		http.StatusForbidden,
	)
	ErrNotRequestOwner = apperror.New(
		apperror.CodeForbidden,
		"only the request owner may cancel it",
		http.StatusForbidden,
	)
	ErrDuplicateApproval = apperror.New(
		apperror.CodeConflict,
		"an approval action was already recorded at this level",
		http.StatusConflict,
	)
	ErrRejectionReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"rejection_reason is required when rejecting",
		http.StatusBadRequest,
	)
	ErrUnknownApproverRole = apperror.New(
		apperror.CodeInvalidInput,
		"approver role must be MANAGER or HR",
		http.StatusBadRequest,
	)
	ErrTypeConfigInactive = apperror.New(
		apperror.CodeInvalidState,
		"this leave type is not active",
		http.StatusUnprocessableEntity,
	)
)

// AdvanceNotice reports the notice the policy demands versus what was given.
func AdvanceNotice(requiredDays, givenDays int) *apperror.AppError {
	return ErrAdvanceNotice.WithDetails(map[string]int{
		"required_days": requiredDays,
		"given_days":    givenDays,
	})
}

// MaxConsecutiveDays reports the cap versus the requested span.
func MaxConsecutiveDays(maxDays, requestedDays int) *apperror.AppError {
	return ErrMaxConsecutiveDays.WithDetails(map[string]int{
		"max_days":       maxDays,
		"requested_days": requestedDays,
	})
}

// InvalidTransition names the refused move.
func InvalidTransition(current, attempted string) *apperror.AppError {
	return ErrInvalidTransition.WithDetails(map[string]string{
		"current":   current,
		"attempted": attempted,
	})
}
