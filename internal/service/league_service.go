package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/AdamBeresnev/tennis-leagues/internal/league"
	"github.com/AdamBeresnev/tennis-leagues/internal/metrics"
	"github.com/AdamBeresnev/tennis-leagues/internal/storage"
	"github.com/AdamBeresnev/tennis-leagues/internal/store"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// MaxLogoSize is the largest league logo accepted for upload.
const MaxLogoSize = 2 << 20

type LeagueService struct {
	db       *sqlx.DB
	store    *store.LeagueStore
	uploader storage.FileUploader
	metrics  *metrics.Metrics
}

// NewLeagueService wires the league operations. uploader may be nil, in which case logo
// uploads report ErrStorageDisabled.
func NewLeagueService(db *sqlx.DB, store *store.LeagueStore, uploader storage.FileUploader, m *metrics.Metrics) *LeagueService {
	return &LeagueService{db: db, store: store, uploader: uploader, metrics: m}
}

func (s *LeagueService) ListLeagues(ctx context.Context) ([]league.League, error) {
	return s.store.ListLeagues(ctx)
}

func (s *LeagueService) CreateLeague(ctx context.Context, name string) (*league.League, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	id, err := s.store.CreateLeague(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create league: %w", err)
	}
	return s.store.GetLeague(ctx, id)
}

func (s *LeagueService) CreatePlayer(ctx context.Context, name string, leagueID int64) (*league.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	id, err := s.store.CreatePlayer(ctx, name, &leagueID)
	if errors.Is(err, store.ErrUnknownReference) {
		return nil, ErrLeagueNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	return s.store.GetPlayer(ctx, id)
}

// MovePlayer reassigns a player to another league. Fixtures the player already has stay with
// their original league.
func (s *LeagueService) MovePlayer(ctx context.Context, playerID int64, leagueID int64) (*league.Player, error) {
	err := s.store.MovePlayer(ctx, playerID, leagueID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrPlayerNotFound
	case errors.Is(err, store.ErrUnknownReference):
		return nil, ErrLeagueNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to move player: %w", err)
	}
	return s.store.GetPlayer(ctx, playerID)
}

// GenerateFixtures creates the round-robin schedule for a league season from its current
// roster. A season can only be generated once.
func (s *LeagueService) GenerateFixtures(ctx context.Context, leagueID int64, season int) ([]league.Fixture, error) {
	if season < 1 {
		return nil, ErrInvalidSeason
	}
	if _, err := s.getLeague(ctx, leagueID); err != nil {
		return nil, err
	}

	roster, err := s.store.GetRoster(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}
	playerIDs := make([]int64, 0, len(roster))
	for _, p := range roster {
		playerIDs = append(playerIDs, p.ID)
	}

	pairs, err := league.RoundRobin(playerIDs)
	if err != nil {
		return nil, err
	}
	fixtures := league.NewFixtures(leagueID, season, pairs)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	existing, err := s.store.CountFixtures(ctx, tx, leagueID, season)
	if err != nil {
		return nil, fmt.Errorf("failed to count fixtures: %w", err)
	}
	if existing > 0 {
		return nil, ErrFixturesAlreadyGenerated
	}

	if err := s.store.CreateFixtures(ctx, tx, fixtures); err != nil {
		return nil, fmt.Errorf("failed to create fixtures: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().
		Int64("league_id", leagueID).
		Int("season", season).
		Int("fixtures", len(fixtures)).
		Msg("Fixtures generated")
	return fixtures, nil
}

type ResultInput struct {
	FixtureID               int64 `json:"fixture_id"`
	PlayerOneSetOneGames    *int  `json:"player_one_set_one_games"`
	PlayerTwoSetOneGames    *int  `json:"player_two_set_one_games"`
	PlayerOneSetTwoGames    *int  `json:"player_one_set_two_games"`
	PlayerTwoSetTwoGames    *int  `json:"player_two_set_two_games"`
	PlayerOneTiebreakPoints *int  `json:"player_one_tiebreak_points"`
	PlayerTwoTiebreakPoints *int  `json:"player_two_tiebreak_points"`
}

func (in ResultInput) sets() (league.SetScore, league.SetScore, error) {
	if in.PlayerOneSetOneGames == nil || in.PlayerTwoSetOneGames == nil ||
		in.PlayerOneSetTwoGames == nil || in.PlayerTwoSetTwoGames == nil {
		return league.SetScore{}, league.SetScore{}, fmt.Errorf("%w: games must be given for both sets", ErrInvalidScore)
	}
	return league.SetScore{PlayerOne: *in.PlayerOneSetOneGames, PlayerTwo: *in.PlayerTwoSetOneGames},
		league.SetScore{PlayerOne: *in.PlayerOneSetTwoGames, PlayerTwo: *in.PlayerTwoSetTwoGames},
		nil
}

func (in ResultInput) tiebreak() (*league.Tiebreak, error) {
	switch {
	case in.PlayerOneTiebreakPoints == nil && in.PlayerTwoTiebreakPoints == nil:
		return nil, nil
	case in.PlayerOneTiebreakPoints == nil || in.PlayerTwoTiebreakPoints == nil:
		return nil, fmt.Errorf("%w: tiebreak points must be given for both players", ErrInvalidScore)
	}
	return &league.Tiebreak{PlayerOne: *in.PlayerOneTiebreakPoints, PlayerTwo: *in.PlayerTwoTiebreakPoints}, nil
}

// SubmitResult records the score of an uncompleted fixture and derives its winner. Every
// game count is required and the score must decide the match.
func (s *LeagueService) SubmitResult(ctx context.Context, in ResultInput) (*league.Fixture, error) {
	setOne, setTwo, err := in.sets()
	if err != nil {
		return nil, err
	}
	tiebreak, err := in.tiebreak()
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	fixture, err := s.store.GetFixture(ctx, tx, in.FixtureID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFixtureNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load fixture: %w", err)
	}
	if fixture.Completed {
		return nil, ErrFixtureCompleted
	}

	result := league.Result{
		FixtureID:   fixture.ID,
		LeagueID:    fixture.LeagueID,
		Season:      fixture.Season,
		PlayerOneID: fixture.PlayerOneID,
		PlayerTwoID: fixture.PlayerTwoID,
		SetOne:      setOne,
		SetTwo:      setTwo,
		Tiebreak:    tiebreak,
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}

	fixture.Apply(result)
	if err := s.store.UpdateFixtureResult(ctx, tx, fixture); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFixtureCompleted
		}
		return nil, fmt.Errorf("failed to store result: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.metrics.ResultSubmitted()
	return fixture, nil
}

// LeagueTable computes the standings of a league from every completed fixture it holds and
// lists its fixtures split by completion.
func (s *LeagueService) LeagueTable(ctx context.Context, leagueID int64) (*league.Table, error) {
	l, err := s.getLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	roster, err := s.store.GetRoster(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}
	// Fixtures may involve players who have since moved league, so names resolve against
	// every player.
	players, err := s.store.ListPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}
	completed, err := s.store.GetFixtures(ctx, leagueID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed fixtures: %w", err)
	}
	uncompleted, err := s.store.GetFixtures(ctx, leagueID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load uncompleted fixtures: %w", err)
	}

	rosterIDs := make([]int64, 0, len(roster))
	for _, p := range roster {
		rosterIDs = append(rosterIDs, p.ID)
	}
	results := make([]league.Result, 0, len(completed))
	for i := range completed {
		r, ok := completed[i].Result()
		if !ok {
			return nil, fmt.Errorf("fixture %d: %w", completed[i].ID, league.ErrIncompleteResult)
		}
		results = append(results, r)
	}

	standings, err := league.ComputeStandings(rosterIDs, league.Names(players), results)
	if err != nil {
		return nil, fmt.Errorf("failed to compute standings for league %d: %w", leagueID, err)
	}
	s.metrics.StandingsComputed()

	return &league.Table{
		LeagueID:    l.ID,
		LeagueName:  l.Name,
		LogoURL:     l.LogoURL,
		Standings:   standings,
		Completed:   completed,
		Uncompleted: uncompleted,
	}, nil
}

// UploadLogo stores a PNG logo for the league and records its public URL.
func (s *LeagueService) UploadLogo(ctx context.Context, leagueID int64, data []byte) (*league.League, error) {
	if s.uploader == nil {
		return nil, ErrStorageDisabled
	}
	if len(data) == 0 || len(data) > MaxLogoSize || http.DetectContentType(data) != "image/png" {
		return nil, ErrInvalidLogo
	}
	if _, err := s.getLeague(ctx, leagueID); err != nil {
		return nil, err
	}

	res, err := s.uploader.Upload(ctx, storage.LogoKey(leagueID), "image/png", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if err := s.store.SetLeagueLogo(ctx, leagueID, res.Location); err != nil {
		return nil, fmt.Errorf("failed to record logo: %w", err)
	}
	return s.store.GetLeague(ctx, leagueID)
}

func (s *LeagueService) getLeague(ctx context.Context, leagueID int64) (*league.League, error) {
	l, err := s.store.GetLeague(ctx, leagueID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLeagueNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load league: %w", err)
	}
	return l, nil
}
