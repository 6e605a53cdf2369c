package leaverequesterrors

import (
	"net/http"
	"strings"

	"go-leave/internal/shared/apperror"
)

var (
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrInvalidRequestID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave request id",
		http.StatusBadRequest,
	)
	ErrInvalidApproverID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid approver id",
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
	ErrDatesNotInFuture = apperror.New(
		apperror.CodeInvalidInput,
		"leave dates must be in the future",
		http.StatusBadRequest,
	)
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrApproverNotAllowed = apperror.New(
		apperror.CodeForbidden,
		"approver must hold MANAGER or ADMIN role",
		http.StatusForbidden,
	)
	ErrSelfApproval = apperror.New(
		apperror.CodeForbidden,
		"cannot decide your own leave request",
		http.StatusForbidden,
	)
	ErrAlreadyDecided = apperror.New(
		apperror.CodeInvalidState,
		"leave request is already decided and cannot transition again",
		http.StatusBadRequest,
	)
)

// ErrUnknownLeaveType lists the currently valid type names so the
// client can correct the request.
func ErrUnknownLeaveType(name string, validNames []string) *apperror.AppError {
	return apperror.Newf(
		apperror.CodeInvalidInput,
		http.StatusBadRequest,
		"unknown leave type: %s. Available types: %s",
		name, strings.Join(validNames, ", "),
	)
}
