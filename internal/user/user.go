package users

import (
	"time"

	"github.com/google/uuid"
)

type ContextKey string

const UserKey ContextKey = "user"

const (
	AuthLevelUnverified = 0
	AuthLevelVerified   = 50
)

type User struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Email          string    `db:"email" json:"email"`
	Username       string    `db:"username" json:"username"`
	HashedPassword *string   `db:"hashed_password" json:"-"`
	AuthLevel      int       `db:"auth_level" json:"auth_level"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	Provider       *string   `db:"provider" json:"provider,omitempty"`
	ProviderID     *string   `db:"provider_id" json:"-"`
	AvatarURL      *string   `db:"avatar_url" json:"avatar_url,omitempty"`
}

func (u *User) EmailVerified() bool {
	return u.AuthLevel >= AuthLevelVerified
}
