package store

import (
	"context"
	"errors"

	users "github.com/AdamBeresnev/tennis-leagues/internal/user"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

var ErrUserExists = errors.New("user already exists")

type UserStore struct {
	db *sqlx.DB
}

const (
	userColumns = `id, email, username, hashed_password, auth_level, created_at, provider, provider_id, avatar_url`

	getUserQuery           = "SELECT " + userColumns + " FROM users WHERE id = ?"
	getUserByEmailQuery    = "SELECT " + userColumns + " FROM users WHERE email = ?"
	getUserByProviderQuery = `
        SELECT ` + userColumns + ` FROM users
        WHERE provider = ?
        AND provider_id = ?
    `
	usernameExistsQuery = "SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)"
	emailExistsQuery    = "SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)"
	createUserQuery     = `
		INSERT INTO users (id, email, username, hashed_password, auth_level, provider, provider_id, avatar_url) VALUES
		(:id, :email, :username, :hashed_password, :auth_level, :provider, :provider_id, :avatar_url)
	`
	updateUserNameAndAvatarQuery = `
		UPDATE users SET
		username = :username,
		avatar_url = :avatar_url
		WHERE id = :id
	`
	updatePasswordQuery  = "UPDATE users SET hashed_password = ? WHERE email = ?"
	updateAuthLevelQuery = "UPDATE users SET auth_level = ? WHERE email = ?"
)

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) GetUser(ctx context.Context, id interface{}) (*users.User, error) {
	var user users.User
	err := s.db.GetContext(ctx, &user, getUserQuery, id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*users.User, error) {
	var user users.User
	err := s.db.GetContext(ctx, &user, getUserByEmailQuery, email)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) GetUserByProvider(ctx context.Context, provider string, providerID string) (*users.User, error) {
	var user users.User
	err := s.db.GetContext(ctx, &user, getUserByProviderQuery, provider, providerID)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *UserStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, usernameExistsQuery, username)
	return exists, err
}

func (s *UserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, emailExistsQuery, email)
	return exists, err
}

// CreateUser inserts user, reporting ErrUserExists when the username, email or provider
// identity is already taken.
func (s *UserStore) CreateUser(ctx context.Context, exec sqlx.ExtContext, user *users.User) error {
	_, err := sqlx.NamedExecContext(ctx, exec, createUserQuery, user)
	if isUniqueViolation(err) {
		return ErrUserExists
	}
	return err
}

func (s *UserStore) UpdateUserNameAndAvatar(ctx context.Context, user *users.User) error {
	_, err := s.db.NamedExecContext(ctx, updateUserNameAndAvatarQuery, user)
	return err
}

func (s *UserStore) UpdatePassword(ctx context.Context, exec sqlx.ExtContext, email string, hashedPassword string) error {
	return expectRows(exec.ExecContext(ctx, updatePasswordQuery, hashedPassword, email))
}

func (s *UserStore) SetAuthLevel(ctx context.Context, exec sqlx.ExtContext, email string, level int) error {
	return expectRows(exec.ExecContext(ctx, updateAuthLevelQuery, level, email))
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
