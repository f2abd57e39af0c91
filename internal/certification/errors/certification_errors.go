package certificationerrors

import (
	"net/http"

	"github.com/hafizthesakora/cert-tracking/internal/shared/apperror"
)

var (
	ErrInvalidCertificationID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid certification id",
		http.StatusBadRequest,
	)
	ErrCertificationNotFound = apperror.New(
		apperror.CodeNotFound,
		"certification not found",
		http.StatusNotFound,
	)
	ErrDuplicateName = apperror.New(
		apperror.CodeConflict,
		"a certification with this name already exists",
		http.StatusConflict,
	)
	ErrUnknownPortalMaster = apperror.New(
		apperror.CodeInvalidInput,
		"portal_master_ids contains an unknown user",
		http.StatusBadRequest,
	)
)
