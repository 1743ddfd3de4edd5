package main

import (
	"errors"
	"net/http"

	"github.com/AdamBeresnev/tennis-leagues/internal/httputil"
	"github.com/AdamBeresnev/tennis-leagues/internal/service"
)

var (
	badRequestErrors = []error{
		service.ErrInvalidEmail,
		service.ErrInvalidPassword,
		service.ErrInvalidUsername,
		service.ErrPasswordsDoNotMatch,
		service.ErrInvalidVerificationCode,
		service.ErrInvalidSeason,
		service.ErrInvalidName,
		service.ErrInvalidLogo,
		service.ErrInvalidScore,
		service.ErrNotEnoughPlayers,
	}
	unauthorizedErrors = []error{
		service.ErrIncorrectPassword,
		service.ErrIncorrectUsername,
		service.ErrUnauthorised,
	}
	notFoundErrors = []error{
		service.ErrLeagueNotFound,
		service.ErrPlayerNotFound,
		service.ErrFixtureNotFound,
	}
	conflictErrors = []error{
		service.ErrEmailTaken,
		service.ErrUsernameTaken,
		service.ErrFixtureCompleted,
		service.ErrFixturesAlreadyGenerated,
	}
)

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// statusFor maps a service error to its response status. Unknown errors are 500s.
func statusFor(err error) int {
	switch {
	case matchesAny(err, badRequestErrors):
		return http.StatusBadRequest
	case matchesAny(err, unauthorizedErrors):
		return http.StatusUnauthorized
	case matchesAny(err, notFoundErrors):
		return http.StatusNotFound
	case matchesAny(err, conflictErrors):
		return http.StatusConflict
	case errors.Is(err, service.ErrStorageDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func serviceError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status := statusFor(err)
	if status < http.StatusInternalServerError {
		msg = err.Error()
	}
	httputil.Error(w, r, status, msg, err)
}
