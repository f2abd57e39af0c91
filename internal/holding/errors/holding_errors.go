package holdingerrors

import (
	"net/http"

	"github.com/hafizthesakora/cert-tracking/internal/shared/apperror"
)

var (
	ErrInvalidHoldingID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid holding id",
		http.StatusBadRequest,
	)
	ErrHoldingNotFound = apperror.New(
		apperror.CodeNotFound,
		"certification holding not found",
		http.StatusNotFound,
	)
	ErrUnknownUser = apperror.New(
		apperror.CodeInvalidInput,
		"user_id does not reference a known user",
		http.StatusBadRequest,
	)
	ErrUnknownCertification = apperror.New(
		apperror.CodeInvalidInput,
		"certification_id does not reference a known certification",
		http.StatusBadRequest,
	)
	ErrNotHolder = apperror.New(
		apperror.CodeForbidden,
		"only the certification holder may request a renewal",
		http.StatusForbidden,
	)
	ErrNotPortalMaster = apperror.New(
		apperror.CodeForbidden,
		"only a portal master of this certification or an admin may perform this action",
		http.StatusForbidden,
	)
	ErrNotAuthorized = apperror.New(
		apperror.CodeForbidden,
		"you are not allowed to view this holding",
		http.StatusForbidden,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"renewal action not allowed from the current status",
		http.StatusConflict,
	)
	ErrConcurrentUpdate = apperror.New(
		apperror.CodeConflict,
		"holding was modified concurrently, please retry",
		http.StatusConflict,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"dates must be valid and in YYYY-MM-DD format",
		http.StatusBadRequest,
	)
	ErrExpiryNotAfterIssue = apperror.New(
		apperror.CodeInvalidInput,
		"expiry_date must be after issue_date",
		http.StatusBadRequest,
	)
	ErrInvalidRenewalDate = apperror.New(
		apperror.CodeInvalidInput,
		"renewal_date must be a valid date in YYYY-MM-DD format",
		http.StatusBadRequest,
	)
	ErrRenewalDateInPast = apperror.New(
		apperror.CodeInvalidInput,
		"renewal_date must not be in the past",
		http.StatusBadRequest,
	)
)
