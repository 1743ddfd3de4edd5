package auth

import (
	"strings"
	"testing"

	"github.com/AdamBeresnev/tennis-leagues/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("TestPassword")
	require.NoError(t, err)
	assert.NotEqual(t, "TestPassword", hash)

	assert.True(t, VerifyPassword(&hash, "TestPassword"))
	assert.False(t, VerifyPassword(&hash, "WrongPassword"))
	assert.False(t, VerifyPassword(nil, "TestPassword"))
	assert.False(t, VerifyPassword(utils.Ptr(""), "TestPassword"))
}

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateCode(CodeLength)
		require.NoError(t, err)
		require.Len(t, code, CodeLength)
		for _, c := range code {
			assert.True(t, strings.ContainsRune(codeAlphabet, c), "unexpected character %q", c)
		}
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1, "codes should not repeat")
}

func TestValidation(t *testing.T) {
	testCases := []struct {
		name  string
		check func(string) error
		value string
		want  error
	}{
		{name: "valid email", check: ValidateEmail, value: "john@doe.com"},
		{name: "email without at", check: ValidateEmail, value: "johndoe.com", want: ErrInvalidEmail},
		{name: "email too short", check: ValidateEmail, value: "a@b", want: ErrInvalidEmail},
		{name: "email too long", check: ValidateEmail, value: strings.Repeat("a", 300) + "@b.com", want: ErrInvalidEmail},
		{name: "valid username", check: ValidateUsername, value: "JohnDoe"},
		{name: "username too short", check: ValidateUsername, value: "Jo", want: ErrInvalidUsername},
		{name: "username too long", check: ValidateUsername, value: strings.Repeat("j", 100), want: ErrInvalidUsername},
		{name: "valid password", check: ValidatePassword, value: "TestPassword"},
		{name: "password too short", check: ValidatePassword, value: "short", want: ErrInvalidPassword},
		{name: "password too long", check: ValidatePassword, value: strings.Repeat("p", 100), want: ErrInvalidPassword},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.check(tc.value)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
