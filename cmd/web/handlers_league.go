package main

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/AdamBeresnev/tennis-leagues/internal/httputil"
	"github.com/AdamBeresnev/tennis-leagues/internal/league"
	"github.com/AdamBeresnev/tennis-leagues/internal/service"
	"github.com/AdamBeresnev/tennis-leagues/views"
	"github.com/go-chi/chi/v5"
)

type createLeagueRequest struct {
	Name string `json:"name"`
}

type createPlayerRequest struct {
	Name     string `json:"name"`
	LeagueID int64  `json:"league_id"`
}

type movePlayerRequest struct {
	PlayerID    int64 `json:"player_id"`
	NewLeagueID int64 `json:"new_league_id"`
}

func leagueIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "leagueID"), 10, 64)
}

func (app *application) listLeagues(w http.ResponseWriter, r *http.Request) {
	leagues, err := app.leagues.ListLeagues(r.Context())
	if err != nil {
		httputil.InternalServerError(w, r, "Failed to list leagues", err)
		return
	}
	httputil.WriteJSON(w, r, http.StatusOK, leagues)
}

func (app *application) leagueTable(w http.ResponseWriter, r *http.Request) {
	leagueID, err := leagueIDParam(r)
	if err != nil {
		httputil.BadRequest(w, r, "Invalid league ID", err)
		return
	}

	table, err := app.leagues.LeagueTable(r.Context(), leagueID)
	if err != nil {
		serviceError(w, r, "Failed to build league table", err)
		return
	}
	httputil.WriteJSON(w, r, http.StatusOK, table)
}

func (app *application) leaguePage(w http.ResponseWriter, r *http.Request) {
	leagueID, err := leagueIDParam(r)
	if err != nil {
		httputil.BadRequest(w, r, "Invalid league ID", err)
		return
	}

	table, err := app.leagues.LeagueTable(r.Context(), leagueID)
	if err != nil {
		serviceError(w, r, "Failed to build league table", err)
		return
	}

	if err := views.Render(w, r, http.StatusOK, views.LeaguePage(views.PrepareLeagueData(table))); err != nil {
		httputil.InternalServerError(w, r, "Failed to render league page", err)
	}
}

func (app *application) createLeague(w http.ResponseWriter, r *http.Request) {
	var in createLeagueRequest
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.BadRequest(w, r, err.Error(), err)
		return
	}

	l, err := app.leagues.CreateLeague(r.Context(), in.Name)
	if err != nil {
		serviceError(w, r, "Failed to create league", err)
		return
	}
	httputil.WriteJSON(w, r, http.StatusCreated, l)
}

func (app *application) createPlayer(w http.ResponseWriter, r *http.Request) {
	var in createPlayerRequest
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.BadRequest(w, r, err.Error(), err)
		return
	}

	p, err := app.leagues.CreatePlayer(r.Context(), in.Name, in.LeagueID)
	if err != nil {
		serviceError(w, r, "Failed to create player", err)
		return
	}
	httputil.WriteJSON(w, r, http.StatusCreated, p)
}

func (app *application) movePlayer(w http.ResponseWriter, r *http.Request) {
	var in movePlayerRequest
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.BadRequest(w, r, err.Error(), err)
		return
	}

	p, err := app.leagues.MovePlayer(r.Context(), in.PlayerID, in.NewLeagueID)
	if err != nil {
		serviceError(w, r, "Failed to move player", err)
		return
	}
	httputil.WriteJSON(w, r, http.StatusOK, p)
}

func (app *application) generateFixtures(w http.ResponseWriter, r *http.Request) {
	leagueID, err := leagueIDParam(r)
	if err != nil {
		httputil.BadRequest(w, r, "Invalid league ID", err)
		return
	}

	season := league.DefaultSeason
	if raw := r.URL.Query().Get("season"); raw != "" {
		season, err = strconv.Atoi(raw)
		if err != nil {
			httputil.BadRequest(w, r, "Invalid season", err)
			return
		}
	}

	fixtures, err := app.leagues.GenerateFixtures(r.Context(), leagueID, season)
	if err != nil {
		serviceError(w, r, "Failed to generate fixtures", err)
		return
	}
	httputil.WriteJSON(w, r, http.StatusCreated, fixtures)
}

func (app *application) submitResult(w http.ResponseWriter, r *http.Request) {
	var in service.ResultInput
	if err := httputil.DecodeJSON(w, r, &in); err != nil {
		httputil.BadRequest(w, r, err.Error(), err)
		return
	}

	fixture, err := app.leagues.SubmitResult(r.Context(), in)
	if err != nil {
		serviceError(w, r, "Failed to submit result", err)
		return
	}
	httputil.WriteJSON(w, r, http.StatusOK, fixture)
}

func (app *application) uploadLogo(w http.ResponseWriter, r *http.Request) {
	leagueID, err := leagueIDParam(r)
	if err != nil {
		httputil.BadRequest(w, r, "Invalid league ID", err)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, service.MaxLogoSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.Error(w, r, http.StatusRequestEntityTooLarge, "logo must not exceed 2 MiB", err)
			return
		}
		httputil.BadRequest(w, r, "Failed to read logo", err)
		return
	}

	l, err := app.leagues.UploadLogo(r.Context(), leagueID, data)
	if err != nil {
		serviceError(w, r, "Failed to upload logo", err)
		return
	}
	httputil.WriteJSON(w, r, http.StatusOK, l)
}

func (app *application) healthz(w http.ResponseWriter, r *http.Request) {
	if err := app.db.PingContext(r.Context()); err != nil {
		httputil.Error(w, r, http.StatusServiceUnavailable, "database unavailable", err)
		return
	}
	httputil.WriteJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
