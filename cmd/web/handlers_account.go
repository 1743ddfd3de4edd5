package main

import (
	"net/http"

	"github.com/AdamBeresnev/tennis-leagues/internal/httputil"
	"github.com/AdamBeresnev/tennis-leagues/internal/middleware"
	"github.com/AdamBeresnev/tennis-leagues/internal/service"
	users "github.com/AdamBeresnev/tennis-leagues/internal/user"
	"github.com/go-chi/chi/v5"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyEmailRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type changePasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type resetRequest struct {
	Email string `json:"email"`
}

func (app *application) register(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.BadRequest(w, r, err.Error(), err)
		return
	}

	user, err := app.accounts.Register(r.Context(), in)
	if err != nil {
		serviceError(w, r, "Failed to register user", err)
		return
	}
	httputil.WriteJSON(w, r, http.StatusCreated, user)
}

func (app *application) login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.BadRequest(w, r, err.Error(), err)
		return
	}

	user, err := app.accounts.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		serviceError(w, r, "Failed to log in", err)
		return
	}
	if err := app.startSession(r, user); err != nil {
		httputil.InternalServerError(w, r, "Failed to renew session", err)
		return
	}
	httputil.WriteJSON(w, r, http.StatusOK, user)
}

func (app *application) logout(w http.ResponseWriter, r *http.Request) {
	if err := app.sessions.Destroy(r.Context()); err != nil {
		httputil.InternalServerError(w, r, "Failed to destroy session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *application) verifyEmail(w http.ResponseWriter, r *http.Request) {
	var in verifyEmailRequest
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.BadRequest(w, r, err.Error(), err)
		return
	}

	if err := app.accounts.VerifyEmail(r.Context(), in.Email, in.Code); err != nil {
		serviceError(w, r, "Failed to verify email", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *application) changePassword(w http.ResponseWriter, r *http.Request) {
	var in changePasswordRequest
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.BadRequest(w, r, err.Error(), err)
		return
	}

	user := middleware.GetAuthenticatedUser(r.Context())
	if err := app.accounts.ChangePassword(r.Context(), user, in.Password, in.ConfirmPassword); err != nil {
		serviceError(w, r, "Failed to change password", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *application) initiatePasswordReset(w http.ResponseWriter, r *http.Request) {
	var in resetRequest
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.BadRequest(w, r, err.Error(), err)
		return
	}

	if err := app.accounts.InitiatePasswordReset(r.Context(), in.Email); err != nil {
		serviceError(w, r, "Failed to start password reset", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *application) completePasswordReset(w http.ResponseWriter, r *http.Request) {
	var in service.ResetPasswordInput
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.BadRequest(w, r, err.Error(), err)
		return
	}

	if err := app.accounts.CompletePasswordReset(r.Context(), in); err != nil {
		serviceError(w, r, "Failed to reset password", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *application) beginOAuth(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	if _, err := goth.GetProvider(provider); err != nil {
		httputil.NotFound(w, r, "unknown provider", err)
		return
	}
	gothic.BeginAuthHandler(w, gothic.GetContextWithProvider(r, provider))
}

func (app *application) completeOAuth(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	if _, err := goth.GetProvider(provider); err != nil {
		httputil.NotFound(w, r, "unknown provider", err)
		return
	}

	gothUser, err := gothic.CompleteUserAuth(w, gothic.GetContextWithProvider(r, provider))
	if err != nil {
		httputil.BadRequest(w, r, "Authentication failure", err)
		return
	}

	user, err := app.accounts.FindOrCreateUserByProvider(r.Context(), gothUser)
	if err != nil {
		serviceError(w, r, "Failed to find or create user", err)
		return
	}
	if err := app.startSession(r, user); err != nil {
		httputil.InternalServerError(w, r, "Failed to renew session", err)
		return
	}

	http.Redirect(w, r, app.cfg.App.BaseURL+"/", http.StatusFound)
}

// startSession rotates the session token before binding it to user.
func (app *application) startSession(r *http.Request, user *users.User) error {
	if err := app.sessions.RenewToken(r.Context()); err != nil {
		return err
	}
	app.sessions.Put(r.Context(), middleware.SessionUserIDKey, user.ID.String())
	return nil
}
