package auth

import (
	"errors"
	"strings"
)

var (
	ErrInvalidEmail    = errors.New("email must contain an @, be greater than 3 characters and less than 300 characters")
	ErrInvalidPassword = errors.New("password must be between 8 and 100 characters")
	ErrInvalidUsername = errors.New("username must be between 3 and 100 characters")
)

func ValidateEmail(email string) error {
	if strings.Contains(email, "@") && len(email) > 3 && len(email) < 300 {
		return nil
	}
	return ErrInvalidEmail
}

func ValidatePassword(password string) error {
	if len(password) >= 8 && len(password) < 100 {
		return nil
	}
	return ErrInvalidPassword
}

func ValidateUsername(username string) error {
	if len(username) >= 3 && len(username) < 100 {
		return nil
	}
	return ErrInvalidUsername
}
