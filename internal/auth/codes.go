package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

type CodeType string

const (
	CodeEmailVerification CodeType = "EmailVerification"
	CodePasswordReset     CodeType = "PasswordReset"
)

const (
	CodeLength   = 8
	CodeValidFor = 24 * time.Hour
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateCode returns a random string of length characters drawn from A-Z and 0-9.
func GenerateCode(length int) (string, error) {
	alphabetSize := big.NewInt(int64(len(codeAlphabet)))
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("failed to generate code: %w", err)
		}
		code[i] = codeAlphabet[n.Int64()]
	}
	return string(code), nil
}

type Code struct {
	ID        int64    `db:"code_id"`
	Type      CodeType `db:"code_type"`
	Email     string   `db:"email"`
	Code      string   `db:"code"`
	CreatedTS int64    `db:"created_ts"`
	ExpiryTS  int64    `db:"expiry_ts"`
	Used      bool     `db:"used"`
}

// NewCode generates a fresh code of the given type for email, valid from now for CodeValidFor.
func NewCode(codeType CodeType, email string, now time.Time) (*Code, error) {
	value, err := GenerateCode(CodeLength)
	if err != nil {
		return nil, err
	}
	return &Code{
		Type:      codeType,
		Email:     email,
		Code:      value,
		CreatedTS: now.Unix(),
		ExpiryTS:  now.Add(CodeValidFor).Unix(),
	}, nil
}
