package handler

import (
	"errors"
	"net/http"

	"github.com/ogurasousui/hr-onboarding/internal/core/admin"
	"github.com/ogurasousui/hr-onboarding/internal/core/candidate"
	"github.com/ogurasousui/hr-onboarding/internal/core/onboarding"
	"github.com/ogurasousui/hr-onboarding/internal/core/sheets"
)

func statusFromError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, errInvalidBody),
		errors.Is(err, onboarding.ErrEmptyAnswer),
		errors.Is(err, onboarding.ErrInvalidSessionID),
		errors.Is(err, candidate.ErrInvalidFullName),
		errors.Is(err, candidate.ErrInvalidDepartment),
		errors.Is(err, candidate.ErrMissingField),
		errors.Is(err, candidate.ErrInvalidCandidate),
		errors.Is(err, sheets.ErrMissingRequiredFields):
		return http.StatusBadRequest
	case errors.Is(err, admin.ErrInvalidCredentials), errors.Is(err, admin.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, onboarding.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, onboarding.ErrConversationCompleted),
		errors.Is(err, onboarding.ErrResubmitNotAllowed),
		errors.Is(err, candidate.ErrEmployeeIDAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
