package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AdamBeresnev/tennis-leagues/internal/auth"
	"github.com/AdamBeresnev/tennis-leagues/internal/email"
	"github.com/AdamBeresnev/tennis-leagues/internal/store"
	users "github.com/AdamBeresnev/tennis-leagues/internal/user"
	"github.com/AdamBeresnev/tennis-leagues/internal/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/markbates/goth"
	"github.com/rs/zerolog/log"
)

type AccountService struct {
	db     *sqlx.DB
	users  *store.UserStore
	codes  *store.CodeStore
	sender email.Sender
	now    func() time.Time
}

func NewAccountService(db *sqlx.DB, userStore *store.UserStore, codeStore *store.CodeStore, sender email.Sender) *AccountService {
	return &AccountService{
		db:     db,
		users:  userStore,
		codes:  codeStore,
		sender: sender,
		now:    time.Now,
	}
}

type RegisterInput struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Register creates a password account and emails it a verification code. The user and code
// are only committed once the email has been handed to the sender.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*users.User, error) {
	if err := auth.ValidateEmail(in.Email); err != nil {
		return nil, err
	}
	if err := auth.ValidateUsername(in.Username); err != nil {
		return nil, err
	}
	if err := auth.ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	taken, err := s.users.UsernameExists(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}
	taken, err = s.users.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	if in.Password != in.ConfirmPassword {
		return nil, ErrPasswordsDoNotMatch
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &users.User{
		ID:             uuid.New(),
		Email:          in.Email,
		Username:       in.Username,
		HashedPassword: &hash,
		AuthLevel:      users.AuthLevelUnverified,
	}
	code, err := auth.NewCode(auth.CodeEmailVerification, in.Email, s.now())
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.users.CreateUser(ctx, tx, user); err != nil {
		if errors.Is(err, store.ErrUserExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if err := s.codes.CreateCode(ctx, tx, code); err != nil {
		return nil, fmt.Errorf("failed to create verification code: %w", err)
	}

	msg := email.VerificationMessage(user.Username, user.Email, code.Code)
	if err := s.sender.Send(ctx, msg.Recipient, msg.Subject, msg.Body); err != nil {
		return nil, fmt.Errorf("failed to send verification email: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().Str("user_id", user.ID.String()).Msg("User registered")
	return user, nil
}

// Login checks the email and password pair. Accounts without a password (OAuth only) can
// never log in this way.
func (s *AccountService) Login(ctx context.Context, emailAddress, password string) (*users.User, error) {
	user, err := s.users.GetUserByEmail(ctx, emailAddress)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrIncorrectUsername
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !auth.VerifyPassword(user.HashedPassword, password) {
		return nil, ErrIncorrectPassword
	}
	return user, nil
}

func (s *AccountService) GetUser(ctx context.Context, id string) (*users.User, error) {
	user, err := s.users.GetUser(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUnauthorised
	}
	return user, err
}

// VerifyEmail consumes an email verification code and raises the account to the verified
// auth level.
func (s *AccountService) VerifyEmail(ctx context.Context, emailAddress, value string) error {
	code, err := s.codes.FindValidCodeForEmail(ctx, auth.CodeEmailVerification, emailAddress, value, s.now().Unix())
	if errors.Is(err, sql.ErrNoRows) {
		return ErrInvalidVerificationCode
	}
	if err != nil {
		return fmt.Errorf("failed to look up code: %w", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.users.SetAuthLevel(ctx, tx, code.Email, users.AuthLevelVerified); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrIncorrectUsername
		}
		return fmt.Errorf("failed to verify user: %w", err)
	}
	if err := s.codes.MarkUsed(ctx, tx, code.ID); err != nil {
		return fmt.Errorf("failed to mark code used: %w", err)
	}
	return tx.Commit()
}

func (s *AccountService) ChangePassword(ctx context.Context, user *users.User, password, confirm string) error {
	if err := auth.ValidatePassword(password); err != nil {
		return err
	}
	if password != confirm {
		return ErrPasswordsDoNotMatch
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, s.db, user.Email, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// InitiatePasswordReset emails a reset code to the account registered under emailAddress.
func (s *AccountService) InitiatePasswordReset(ctx context.Context, emailAddress string) error {
	user, err := s.users.GetUserByEmail(ctx, emailAddress)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrIncorrectUsername
	}
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	code, err := auth.NewCode(auth.CodePasswordReset, user.Email, s.now())
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.codes.CreateCode(ctx, tx, code); err != nil {
		return fmt.Errorf("failed to create reset code: %w", err)
	}

	msg := email.PasswordResetMessage(user.Username, user.Email, code.Code)
	if err := s.sender.Send(ctx, msg.Recipient, msg.Subject, msg.Body); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return tx.Commit()
}

type ResetPasswordInput struct {
	Code            string `json:"code"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (s *AccountService) CompletePasswordReset(ctx context.Context, in ResetPasswordInput) error {
	if in.Password != in.ConfirmPassword {
		return ErrPasswordsDoNotMatch
	}
	if err := auth.ValidatePassword(in.Password); err != nil {
		return err
	}

	code, err := s.codes.FindValidCode(ctx, auth.CodePasswordReset, in.Code, s.now().Unix())
	if errors.Is(err, sql.ErrNoRows) {
		return ErrInvalidVerificationCode
	}
	if err != nil {
		return fmt.Errorf("failed to look up code: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.users.UpdatePassword(ctx, tx, code.Email, hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrIncorrectUsername
		}
		return fmt.Errorf("failed to update password: %w", err)
	}
	if err := s.codes.MarkUsed(ctx, tx, code.ID); err != nil {
		return fmt.Errorf("failed to mark code used: %w", err)
	}
	return tx.Commit()
}

// PurgeCodes deletes used and expired codes, returning how many were removed.
func (s *AccountService) PurgeCodes(ctx context.Context) (int64, error) {
	return s.codes.DeleteStale(ctx, s.now().Unix())
}

// FindOrCreateUserByProvider signs in an OAuth identity, creating the account on first use
// and keeping the display name and avatar in sync afterwards.
func (s *AccountService) FindOrCreateUserByProvider(ctx context.Context, gothUser goth.User) (*users.User, error) {
	user, err := s.users.GetUserByProvider(ctx, gothUser.Provider, gothUser.UserID)
	if err == nil {
		username := providerUsername(gothUser)
		if utils.OrZero(user.AvatarURL) != gothUser.AvatarURL || user.Username != username {
			user.AvatarURL = utils.StringOrNil(gothUser.AvatarURL)
			user.Username = username
			if err := s.users.UpdateUserNameAndAvatar(ctx, user); err != nil {
				log.Ctx(ctx).Warn().Err(err).Str("user_id", user.ID.String()).Msg("Failed to refresh provider profile")
			}
		}
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	emailAddress := gothUser.Email
	authLevel := users.AuthLevelVerified
	if emailAddress == "" {
		emailAddress = fmt.Sprintf("%s@%s.oauth", gothUser.UserID, gothUser.Provider)
		authLevel = users.AuthLevelUnverified
	}
	taken, err := s.users.EmailExists(ctx, emailAddress)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	username := providerUsername(gothUser)
	taken, err = s.users.UsernameExists(ctx, username)
	if err != nil {
		return nil, err
	}
	id := uuid.New()
	if taken {
		username = fmt.Sprintf("%s-%s", username, id.String()[:6])
	}

	newUser := &users.User{
		ID:         id,
		Email:      emailAddress,
		Username:   username,
		AuthLevel:  authLevel,
		Provider:   utils.Ptr(gothUser.Provider),
		ProviderID: utils.Ptr(gothUser.UserID),
		AvatarURL:  utils.StringOrNil(gothUser.AvatarURL),
	}
	if err := s.users.CreateUser(ctx, s.db, newUser); err != nil {
		if errors.Is(err, store.ErrUserExists) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return newUser, nil
}

func providerUsername(gothUser goth.User) string {
	if name, ok := utils.FirstNonEmpty(gothUser.NickName, gothUser.Name); ok {
		return name
	}
	if local, _, ok := strings.Cut(gothUser.Email, "@"); ok && local != "" {
		return local
	}
	return gothUser.Provider + "-" + gothUser.UserID
}
