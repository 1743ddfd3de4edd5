package service

import (
	"errors"

	"github.com/AdamBeresnev/tennis-leagues/internal/auth"
	"github.com/AdamBeresnev/tennis-leagues/internal/league"
)

// Account errors. The validation sentinels alias the auth package so callers only need to
// match against this package.
var (
	ErrInvalidEmail            = auth.ErrInvalidEmail
	ErrInvalidPassword         = auth.ErrInvalidPassword
	ErrInvalidUsername         = auth.ErrInvalidUsername
	ErrPasswordsDoNotMatch     = errors.New("passwords do not match")
	ErrEmailTaken              = errors.New("email already registered")
	ErrUsernameTaken           = errors.New("username already registered")
	ErrIncorrectPassword       = errors.New("incorrect password")
	ErrIncorrectUsername       = errors.New("incorrect username")
	ErrInvalidVerificationCode = errors.New("invalid verification code")
	ErrUnauthorised            = errors.New("unauthorised")
)

// League errors.
var (
	ErrLeagueNotFound           = errors.New("league not found")
	ErrPlayerNotFound           = errors.New("player not found")
	ErrFixtureNotFound          = errors.New("fixture not found")
	ErrFixtureCompleted         = errors.New("fixture already completed")
	ErrFixturesAlreadyGenerated = errors.New("fixtures already generated for this season")
	ErrInvalidSeason            = errors.New("season must be at least 1")
	ErrInvalidName              = errors.New("name must not be empty")
	ErrInvalidLogo              = errors.New("logo must be a PNG image")
	ErrStorageDisabled          = errors.New("logo storage is not configured")
	ErrNotEnoughPlayers         = league.ErrNotEnoughPlayers
	ErrInvalidScore             = league.ErrInvalidScore
)
