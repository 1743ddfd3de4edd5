package service

import (
	"context"
	"testing"
	"time"

	"github.com/AdamBeresnev/tennis-leagues/internal/auth"
	users "github.com/AdamBeresnev/tennis-leagues/internal/user"
	"github.com/jmoiron/sqlx"
	"github.com/markbates/goth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegistration() RegisterInput {
	return RegisterInput{
		Username:        "alice",
		Email:           "alice@example.com",
		Password:        "correct horse",
		ConfirmPassword: "correct horse",
	}
}

func latestCode(t *testing.T, db *sqlx.DB, codeType auth.CodeType, emailAddress string) string {
	t.Helper()
	var code string
	err := db.Get(&code, "SELECT code FROM codes WHERE code_type = ? AND email = ? ORDER BY code_id DESC LIMIT 1", codeType, emailAddress)
	require.NoError(t, err)
	return code
}

func TestRegister(t *testing.T) {
	svc, sender, db := newAccountService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.False(t, user.EmailVerified())

	code := latestCode(t, db, auth.CodeEmailVerification, "alice@example.com")
	assert.Len(t, code, auth.CodeLength)

	sent := sender.last(t)
	assert.Equal(t, "alice <alice@example.com>", sent.recipient)
	assert.Contains(t, sent.body, code)

	loggedIn, err := svc.Login(ctx, "alice@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestRegisterRejections(t *testing.T) {
	svc, _, _ := newAccountService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	testCases := []struct {
		name   string
		mutate func(in *RegisterInput)
		err    error
	}{
		{"email without at sign", func(in *RegisterInput) { in.Email = "bob.example.com" }, ErrInvalidEmail},
		{"short username", func(in *RegisterInput) { in.Username = "bo" }, ErrInvalidUsername},
		{"short password", func(in *RegisterInput) { in.Password, in.ConfirmPassword = "short", "short" }, ErrInvalidPassword},
		{"taken username", func(in *RegisterInput) { in.Email = "other@example.com" }, ErrUsernameTaken},
		{"taken email", func(in *RegisterInput) { in.Username = "bob" }, ErrEmailTaken},
		{"mismatched passwords", func(in *RegisterInput) {
			in.Username, in.Email, in.ConfirmPassword = "bob", "bob@example.com", "something else"
		}, ErrPasswordsDoNotMatch},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in := validRegistration()
			tc.mutate(&in)
			_, err := svc.Register(ctx, in)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestRegisterRollsBackWhenEmailFails(t *testing.T) {
	svc, sender, _ := newAccountService(t)
	ctx := context.Background()
	sender.err = errSendFailed

	_, err := svc.Register(ctx, validRegistration())
	require.ErrorIs(t, err, errSendFailed)

	_, err = svc.Login(ctx, "alice@example.com", "correct horse")
	assert.ErrorIs(t, err, ErrIncorrectUsername)
}

func TestLogin(t *testing.T) {
	svc, _, _ := newAccountService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	_, err = svc.Login(ctx, "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, ErrIncorrectUsername)

	_, err = svc.Login(ctx, "alice@example.com", "wrong horse")
	assert.ErrorIs(t, err, ErrIncorrectPassword)
}

func TestVerifyEmail(t *testing.T) {
	svc, _, db := newAccountService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)
	code := latestCode(t, db, auth.CodeEmailVerification, user.Email)

	assert.ErrorIs(t, svc.VerifyEmail(ctx, user.Email, "WRONG123"), ErrInvalidVerificationCode)
	assert.ErrorIs(t, svc.VerifyEmail(ctx, "someone@example.com", code), ErrInvalidVerificationCode)

	require.NoError(t, svc.VerifyEmail(ctx, user.Email, code))

	verified, err := svc.GetUser(ctx, user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, users.AuthLevelVerified, verified.AuthLevel)

	assert.ErrorIs(t, svc.VerifyEmail(ctx, user.Email, code), ErrInvalidVerificationCode, "codes are single use")
}

func TestVerifyEmailExpiredCode(t *testing.T) {
	svc, _, db := newAccountService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)
	code := latestCode(t, db, auth.CodeEmailVerification, user.Email)

	svc.now = func() time.Time { return time.Now().Add(auth.CodeValidFor + time.Minute) }
	assert.ErrorIs(t, svc.VerifyEmail(ctx, user.Email, code), ErrInvalidVerificationCode)

	purged, err := svc.PurgeCodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := newAccountService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ChangePassword(ctx, user, "short", "short"), ErrInvalidPassword)
	assert.ErrorIs(t, svc.ChangePassword(ctx, user, "new password", "other password"), ErrPasswordsDoNotMatch)

	require.NoError(t, svc.ChangePassword(ctx, user, "new password", "new password"))

	_, err = svc.Login(ctx, user.Email, "correct horse")
	assert.ErrorIs(t, err, ErrIncorrectPassword)
	_, err = svc.Login(ctx, user.Email, "new password")
	assert.NoError(t, err)
}

func TestPasswordReset(t *testing.T) {
	svc, sender, db := newAccountService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.InitiatePasswordReset(ctx, "nobody@example.com"), ErrIncorrectUsername)

	require.NoError(t, svc.InitiatePasswordReset(ctx, user.Email))
	code := latestCode(t, db, auth.CodePasswordReset, user.Email)
	assert.Contains(t, sender.last(t).body, code)

	err = svc.CompletePasswordReset(ctx, ResetPasswordInput{Code: code, Password: "brand new pw", ConfirmPassword: "different"})
	assert.ErrorIs(t, err, ErrPasswordsDoNotMatch)

	err = svc.CompletePasswordReset(ctx, ResetPasswordInput{Code: "NOTACODE", Password: "brand new pw", ConfirmPassword: "brand new pw"})
	assert.ErrorIs(t, err, ErrInvalidVerificationCode)

	verification := latestCode(t, db, auth.CodeEmailVerification, user.Email)
	err = svc.CompletePasswordReset(ctx, ResetPasswordInput{Code: verification, Password: "brand new pw", ConfirmPassword: "brand new pw"})
	assert.ErrorIs(t, err, ErrInvalidVerificationCode, "verification codes cannot reset passwords")

	require.NoError(t, svc.CompletePasswordReset(ctx, ResetPasswordInput{Code: code, Password: "brand new pw", ConfirmPassword: "brand new pw"}))

	_, err = svc.Login(ctx, user.Email, "brand new pw")
	assert.NoError(t, err)

	err = svc.CompletePasswordReset(ctx, ResetPasswordInput{Code: code, Password: "another pw!", ConfirmPassword: "another pw!"})
	assert.ErrorIs(t, err, ErrInvalidVerificationCode)
}

func TestFindOrCreateUserByProvider(t *testing.T) {
	svc, _, _ := newAccountService(t)
	ctx := context.Background()

	gothUser := goth.User{
		Provider:  "discord",
		UserID:    "998877",
		Email:     "carol@example.com",
		NickName:  "carol",
		AvatarURL: "https://cdn.example.com/carol.png",
	}

	created, err := svc.FindOrCreateUserByProvider(ctx, gothUser)
	require.NoError(t, err)
	assert.Equal(t, "carol", created.Username)
	assert.True(t, created.EmailVerified())
	require.NotNil(t, created.AvatarURL)

	_, err = svc.Login(ctx, "carol@example.com", "")
	assert.ErrorIs(t, err, ErrIncorrectPassword, "provider accounts have no password")

	gothUser.NickName = "carol_renamed"
	gothUser.AvatarURL = ""
	found, err := svc.FindOrCreateUserByProvider(ctx, gothUser)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "carol_renamed", found.Username)
	assert.Nil(t, found.AvatarURL)

	_, err = svc.FindOrCreateUserByProvider(ctx, goth.User{Provider: "google", UserID: "1", Email: "carol@example.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestProviderUsername(t *testing.T) {
	assert.Equal(t, "nick", providerUsername(goth.User{NickName: " nick ", Name: "Full Name"}))
	assert.Equal(t, "Full Name", providerUsername(goth.User{Name: "Full Name"}))
	assert.Equal(t, "dave", providerUsername(goth.User{Email: "dave@example.com"}))
	assert.Equal(t, "google-42", providerUsername(goth.User{Provider: "google", UserID: "42"}))
}
