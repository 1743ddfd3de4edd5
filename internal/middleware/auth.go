package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/AdamBeresnev/tennis-leagues/internal/config"
	"github.com/AdamBeresnev/tennis-leagues/internal/httputil"
	"github.com/AdamBeresnev/tennis-leagues/internal/store"
	users "github.com/AdamBeresnev/tennis-leagues/internal/user"
	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"github.com/markbates/goth"
	"github.com/markbates/goth/providers/discord"
	"github.com/markbates/goth/providers/google"
	"github.com/rs/zerolog/log"
)

// SessionUserIDKey is the session entry holding the signed in user's id.
const SessionUserIDKey = "userID"

// InitAuth registers the OAuth providers whose keys are configured and returns their names.
func InitAuth(cfg config.OAuthConfig) []string {
	base := strings.TrimSuffix(cfg.CallbackBaseURL, "/")
	callback := func(provider string) string {
		return base + "/auth/" + provider + "/callback"
	}

	var providers []goth.Provider
	if cfg.Discord.Key != "" && cfg.Discord.Secret != "" {
		providers = append(providers, discord.New(cfg.Discord.Key, cfg.Discord.Secret, callback("discord"), discord.ScopeIdentify, discord.ScopeEmail))
	}
	if cfg.Google.Key != "" && cfg.Google.Secret != "" {
		providers = append(providers, google.New(cfg.Google.Key, cfg.Google.Secret, callback("google"), "email", "profile"))
	}
	goth.UseProviders(providers...)

	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Name())
	}
	log.Info().Strs("providers", names).Msg("OAuth providers registered")
	return names
}

// RequireAuth rejects requests without a session for an existing user with 401 and stores
// the user in the request context otherwise.
func RequireAuth(sessionManager *scs.SessionManager, userStore *store.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userIDStr := sessionManager.GetString(r.Context(), SessionUserIDKey)
			if userIDStr == "" {
				httputil.Unauthorized(w, r, "unauthorised")
				return
			}

			userID, err := uuid.Parse(userIDStr)
			if err != nil {
				sessionManager.Remove(r.Context(), SessionUserIDKey)
				httputil.Unauthorized(w, r, "unauthorised")
				return
			}

			user, err := userStore.GetUser(r.Context(), userID.String())
			if err != nil {
				log.Ctx(r.Context()).Warn().Err(err).Str("user_id", userIDStr).Msg("Session user could not be loaded")
				sessionManager.Remove(r.Context(), SessionUserIDKey)
				httputil.Unauthorized(w, r, "unauthorised")
				return
			}

			ctx := context.WithValue(r.Context(), users.UserKey, user)
			ctx = log.Ctx(ctx).With().Str("user_id", userIDStr).Logger().WithContext(ctx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetAuthenticatedUser(ctx context.Context) *users.User {
	user, ok := ctx.Value(users.UserKey).(*users.User)
	if !ok {
		return nil
	}
	return user
}
