package balanceerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveTypeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave type id",
		http.StatusBadRequest,
	)
	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"amount must be positive",
		http.StatusBadRequest,
	)
	ErrBalanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"no leave balance found for this user and leave type",
		http.StatusNotFound,
	)
)

// ErrInsufficientBalance reports how much was asked for versus how much
// is left, so the caller can correct the request.
func ErrInsufficientBalance(requested, available string) *apperror.AppError {
	return apperror.Newf(
		apperror.CodeConflict,
		http.StatusConflict,
		"Insufficient leave balance. Requested: %s, Available: %s",
		requested, available,
	)
}
