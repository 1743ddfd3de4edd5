package store

import (
	"context"
	"errors"

	"github.com/AdamBeresnev/tennis-leagues/internal/league"
	"github.com/jmoiron/sqlx"
)

var ErrUnknownReference = errors.New("referenced row does not exist")

type LeagueStore struct {
	db *sqlx.DB
}

const (
	leagueColumns  = `league_id, name, logo_url, created_at`
	playerColumns  = `player_id, name, league_id`
	fixtureColumns = `
		f.fixture_id, f.season, f.league_id, f.player_one_id, f.player_two_id,
		p1.name AS player_one_name, p2.name AS player_two_name,
		f.player_one_set_one_games, f.player_two_set_one_games,
		f.player_one_set_two_games, f.player_two_set_two_games,
		f.player_one_tiebreak_points, f.player_two_tiebreak_points,
		f.completed, f.winner
	`
	fixtureJoins = `
		FROM fixtures f
		JOIN players p1 ON p1.player_id = f.player_one_id
		JOIN players p2 ON p2.player_id = f.player_two_id
	`

	listLeaguesQuery   = "SELECT " + leagueColumns + " FROM leagues ORDER BY league_id"
	getLeagueQuery     = "SELECT " + leagueColumns + " FROM leagues WHERE league_id = ?"
	createLeagueQuery  = "INSERT INTO leagues (name) VALUES (?)"
	setLeagueLogoQuery = "UPDATE leagues SET logo_url = ? WHERE league_id = ?"

	createPlayerQuery = "INSERT INTO players (name, league_id) VALUES (?, ?)"
	getPlayerQuery    = "SELECT " + playerColumns + " FROM players WHERE player_id = ?"
	movePlayerQuery   = "UPDATE players SET league_id = ? WHERE player_id = ?"
	listPlayersQuery  = "SELECT " + playerColumns + " FROM players ORDER BY player_id"
	rosterQuery       = "SELECT " + playerColumns + " FROM players WHERE league_id = ? ORDER BY player_id"

	countFixturesQuery  = "SELECT COUNT(*) FROM fixtures WHERE league_id = ? AND season = ?"
	createFixturesQuery = `
		INSERT INTO fixtures (season, league_id, player_one_id, player_two_id)
		VALUES (:season, :league_id, :player_one_id, :player_two_id)
	`
	getFixtureQuery  = "SELECT " + fixtureColumns + fixtureJoins + " WHERE f.fixture_id = ?"
	getFixturesQuery = "SELECT " + fixtureColumns + fixtureJoins + `
		WHERE f.league_id = ? AND f.completed = ?
		ORDER BY f.season, f.fixture_id
	`
	updateFixtureResultQuery = `
		UPDATE fixtures SET
		player_one_set_one_games = :player_one_set_one_games,
		player_two_set_one_games = :player_two_set_one_games,
		player_one_set_two_games = :player_one_set_two_games,
		player_two_set_two_games = :player_two_set_two_games,
		player_one_tiebreak_points = :player_one_tiebreak_points,
		player_two_tiebreak_points = :player_two_tiebreak_points,
		completed = :completed,
		winner = :winner
		WHERE fixture_id = :fixture_id AND completed = 0
	`
)

func NewLeagueStore(db *sqlx.DB) *LeagueStore {
	return &LeagueStore{db: db}
}

func (s *LeagueStore) ListLeagues(ctx context.Context) ([]league.League, error) {
	leagues := []league.League{}
	err := s.db.SelectContext(ctx, &leagues, listLeaguesQuery)
	return leagues, err
}

func (s *LeagueStore) GetLeague(ctx context.Context, id int64) (*league.League, error) {
	var l league.League
	err := s.db.GetContext(ctx, &l, getLeagueQuery, id)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *LeagueStore) CreateLeague(ctx context.Context, name string) (int64, error) {
	res, err := s.db.ExecContext(ctx, createLeagueQuery, name)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *LeagueStore) SetLeagueLogo(ctx context.Context, id int64, logoURL string) error {
	return expectRows(s.db.ExecContext(ctx, setLeagueLogoQuery, logoURL, id))
}

// CreatePlayer inserts a player, optionally assigned to a league. An unknown league yields
// ErrUnknownReference.
func (s *LeagueStore) CreatePlayer(ctx context.Context, name string, leagueID *int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, createPlayerQuery, name, leagueID)
	if isForeignKeyViolation(err) {
		return 0, ErrUnknownReference
	}
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *LeagueStore) GetPlayer(ctx context.Context, id int64) (*league.Player, error) {
	var p league.Player
	err := s.db.GetContext(ctx, &p, getPlayerQuery, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// MovePlayer reassigns a player to leagueID. An unknown player yields sql.ErrNoRows and an
// unknown league ErrUnknownReference.
func (s *LeagueStore) MovePlayer(ctx context.Context, playerID int64, leagueID int64) error {
	err := expectRows(s.db.ExecContext(ctx, movePlayerQuery, leagueID, playerID))
	if isForeignKeyViolation(err) {
		return ErrUnknownReference
	}
	return err
}

// ListPlayers returns every player regardless of league.
func (s *LeagueStore) ListPlayers(ctx context.Context) ([]league.Player, error) {
	players := []league.Player{}
	err := s.db.SelectContext(ctx, &players, listPlayersQuery)
	return players, err
}

// GetRoster returns the players currently assigned to leagueID in insertion order.
func (s *LeagueStore) GetRoster(ctx context.Context, leagueID int64) ([]league.Player, error) {
	players := []league.Player{}
	err := s.db.SelectContext(ctx, &players, rosterQuery, leagueID)
	return players, err
}

func (s *LeagueStore) CountFixtures(ctx context.Context, exec sqlx.QueryerContext, leagueID int64, season int) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, exec, &n, countFixturesQuery, leagueID, season)
	return n, err
}

func (s *LeagueStore) CreateFixtures(ctx context.Context, exec sqlx.ExtContext, fixtures []league.Fixture) error {
	if len(fixtures) == 0 {
		return nil
	}
	_, err := sqlx.NamedExecContext(ctx, exec, createFixturesQuery, fixtures)
	return err
}

func (s *LeagueStore) GetFixture(ctx context.Context, exec sqlx.QueryerContext, id int64) (*league.Fixture, error) {
	var f league.Fixture
	err := sqlx.GetContext(ctx, exec, &f, getFixtureQuery, id)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// GetFixtures returns the league's fixtures across all seasons that match completed.
func (s *LeagueStore) GetFixtures(ctx context.Context, leagueID int64, completed bool) ([]league.Fixture, error) {
	fixtures := []league.Fixture{}
	err := s.db.SelectContext(ctx, &fixtures, getFixturesQuery, leagueID, completed)
	return fixtures, err
}

// UpdateFixtureResult stores the scores of f. Fixtures that are already completed are left
// untouched and reported as sql.ErrNoRows.
func (s *LeagueStore) UpdateFixtureResult(ctx context.Context, exec sqlx.ExtContext, f *league.Fixture) error {
	return expectRows(sqlx.NamedExecContext(ctx, exec, updateFixtureResultQuery, f))
}
