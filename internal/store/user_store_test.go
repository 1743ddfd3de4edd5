package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/AdamBeresnev/tennis-leagues/internal/auth"
	"github.com/AdamBeresnev/tennis-leagues/internal/testutil"
	users "github.com/AdamBeresnev/tennis-leagues/internal/user"
	"github.com/AdamBeresnev/tennis-leagues/internal/utils"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser() *users.User {
	return &users.User{
		ID:             uuid.New(),
		Email:          gofakeit.Email(),
		Username:       gofakeit.Username(),
		HashedPassword: utils.Ptr("not-a-real-hash"),
	}
}

func TestCreateUser(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewUserStore(db)
	ctx := context.Background()

	user := newTestUser()
	require.NoError(t, store.CreateUser(ctx, db, user))

	fetched, err := store.GetUserByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, fetched.ID)
	assert.Equal(t, user.Username, fetched.Username)
	assert.Equal(t, users.AuthLevelUnverified, fetched.AuthLevel)
	assert.False(t, fetched.EmailVerified())
	assert.WithinDuration(t, time.Now().UTC(), fetched.CreatedAt, time.Minute)

	byID, err := store.GetUser(ctx, user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, user.Email, byID.Email)

	exists, err := store.UsernameExists(ctx, user.Username)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.EmailExists(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	duplicate := newTestUser()
	duplicate.Email = user.Email
	assert.ErrorIs(t, store.CreateUser(ctx, db, duplicate), ErrUserExists)

	_, err = store.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUpdatePasswordAndAuthLevel(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewUserStore(db)
	ctx := context.Background()

	user := newTestUser()
	require.NoError(t, store.CreateUser(ctx, db, user))

	require.NoError(t, store.UpdatePassword(ctx, db, user.Email, "new-hash"))
	require.NoError(t, store.SetAuthLevel(ctx, db, user.Email, users.AuthLevelVerified))

	fetched, err := store.GetUserByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", *fetched.HashedPassword)
	assert.True(t, fetched.EmailVerified())

	assert.ErrorIs(t, store.UpdatePassword(ctx, db, "missing@example.com", "x"), sql.ErrNoRows)
	assert.ErrorIs(t, store.SetAuthLevel(ctx, db, "missing@example.com", 50), sql.ErrNoRows)
}

func TestProviderUsers(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewUserStore(db)
	ctx := context.Background()

	user := newTestUser()
	user.HashedPassword = nil
	user.Provider = utils.Ptr("google")
	user.ProviderID = utils.Ptr("1234")
	require.NoError(t, store.CreateUser(ctx, db, user))

	fetched, err := store.GetUserByProvider(ctx, "google", "1234")
	require.NoError(t, err)
	assert.Equal(t, user.ID, fetched.ID)
	assert.Nil(t, fetched.HashedPassword)

	fetched.Username = "renamed"
	fetched.AvatarURL = utils.Ptr("https://example.com/avatar.png")
	require.NoError(t, store.UpdateUserNameAndAvatar(ctx, fetched))

	fetched, err = store.GetUserByProvider(ctx, "google", "1234")
	require.NoError(t, err)
	assert.Equal(t, "renamed", fetched.Username)
	assert.Equal(t, "https://example.com/avatar.png", *fetched.AvatarURL)

	_, err = store.GetUserByProvider(ctx, "discord", "1234")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCodes(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewCodeStore(db)
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)

	code, err := auth.NewCode(auth.CodeEmailVerification, "alice@example.com", now)
	require.NoError(t, err)
	require.NoError(t, store.CreateCode(ctx, db, code))
	assert.NotZero(t, code.ID)

	found, err := store.FindValidCodeForEmail(ctx, auth.CodeEmailVerification, "alice@example.com", code.Code, now.Unix())
	require.NoError(t, err)
	assert.Equal(t, code.ID, found.ID)

	_, err = store.FindValidCodeForEmail(ctx, auth.CodeEmailVerification, "bob@example.com", code.Code, now.Unix())
	assert.ErrorIs(t, err, sql.ErrNoRows)

	_, err = store.FindValidCode(ctx, auth.CodePasswordReset, code.Code, now.Unix())
	assert.ErrorIs(t, err, sql.ErrNoRows, "code type must match")

	_, err = store.FindValidCode(ctx, auth.CodeEmailVerification, code.Code, now.Add(auth.CodeValidFor).Unix())
	assert.ErrorIs(t, err, sql.ErrNoRows, "expired code must not be found")

	require.NoError(t, store.MarkUsed(ctx, db, code.ID))
	_, err = store.FindValidCode(ctx, auth.CodeEmailVerification, code.Code, now.Unix())
	assert.ErrorIs(t, err, sql.ErrNoRows, "used code must not be found")

	fresh, err := auth.NewCode(auth.CodePasswordReset, "alice@example.com", now)
	require.NoError(t, err)
	require.NoError(t, store.CreateCode(ctx, db, fresh))

	deleted, err := store.DeleteStale(ctx, now.Unix())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	found, err = store.FindValidCode(ctx, auth.CodePasswordReset, fresh.Code, now.Unix())
	require.NoError(t, err)
	assert.Equal(t, fresh.ID, found.ID)
}
