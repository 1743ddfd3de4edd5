package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/AdamBeresnev/tennis-leagues/internal/league"
	"github.com/AdamBeresnev/tennis-leagues/internal/testutil"
	"github.com/AdamBeresnev/tennis-leagues/internal/utils"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedLeague(t *testing.T, store *LeagueStore, players int) (int64, []int64) {
	t.Helper()
	ctx := context.Background()

	leagueID, err := store.CreateLeague(ctx, gofakeit.Company())
	require.NoError(t, err)

	ids := make([]int64, 0, players)
	for i := 0; i < players; i++ {
		id, err := store.CreatePlayer(ctx, gofakeit.Name(), &leagueID)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return leagueID, ids
}

func TestCreateAndListLeagues(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewLeagueStore(db)
	ctx := context.Background()

	leagues, err := store.ListLeagues(ctx)
	require.NoError(t, err)
	assert.Empty(t, leagues)
	assert.NotNil(t, leagues)

	firstID, err := store.CreateLeague(ctx, "Division One")
	require.NoError(t, err)
	secondID, err := store.CreateLeague(ctx, "Division Two")
	require.NoError(t, err)

	leagues, err = store.ListLeagues(ctx)
	require.NoError(t, err)
	require.Len(t, leagues, 2)
	assert.Equal(t, firstID, leagues[0].ID)
	assert.Equal(t, "Division One", leagues[0].Name)
	assert.Equal(t, secondID, leagues[1].ID)
	assert.Nil(t, leagues[0].LogoURL)

	fetched, err := store.GetLeague(ctx, secondID)
	require.NoError(t, err)
	assert.Equal(t, "Division Two", fetched.Name)

	_, err = store.GetLeague(ctx, secondID+100)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSetLeagueLogo(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewLeagueStore(db)
	ctx := context.Background()

	leagueID, _ := seedLeague(t, store, 0)
	require.NoError(t, store.SetLeagueLogo(ctx, leagueID, "https://cdn.example.com/img/1.png"))

	fetched, err := store.GetLeague(ctx, leagueID)
	require.NoError(t, err)
	require.NotNil(t, fetched.LogoURL)
	assert.Equal(t, "https://cdn.example.com/img/1.png", *fetched.LogoURL)

	assert.ErrorIs(t, store.SetLeagueLogo(ctx, leagueID+1, "x"), sql.ErrNoRows)
}

func TestCreatePlayer(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewLeagueStore(db)
	ctx := context.Background()

	leagueID, _ := seedLeague(t, store, 0)

	unassigned, err := store.CreatePlayer(ctx, "Free Agent", nil)
	require.NoError(t, err)
	player, err := store.GetPlayer(ctx, unassigned)
	require.NoError(t, err)
	assert.Nil(t, player.LeagueID)

	_, err = store.CreatePlayer(ctx, "Lost", utils.Ptr(leagueID+42))
	assert.ErrorIs(t, err, ErrUnknownReference)
}

func TestMovePlayer(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewLeagueStore(db)
	ctx := context.Background()

	fromID, players := seedLeague(t, store, 2)
	toID, _ := seedLeague(t, store, 0)

	require.NoError(t, store.MovePlayer(ctx, players[0], toID))

	roster, err := store.GetRoster(ctx, fromID)
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, players[1], roster[0].ID)

	roster, err = store.GetRoster(ctx, toID)
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, players[0], roster[0].ID)

	assert.ErrorIs(t, store.MovePlayer(ctx, players[1]+100, toID), sql.ErrNoRows)
	assert.ErrorIs(t, store.MovePlayer(ctx, players[1], toID+100), ErrUnknownReference)

	all, err := store.ListPlayers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCreateFixtures(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewLeagueStore(db)
	ctx := context.Background()

	leagueID, players := seedLeague(t, store, 3)
	pairs, err := league.RoundRobin(players)
	require.NoError(t, err)

	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, store.CreateFixtures(ctx, tx, league.NewFixtures(leagueID, 1, pairs)))
	require.NoError(t, tx.Commit())

	count, err := store.CountFixtures(ctx, db, leagueID, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = store.CountFixtures(ctx, db, leagueID, 2)
	require.NoError(t, err)
	assert.Zero(t, count)

	open, err := store.GetFixtures(ctx, leagueID, false)
	require.NoError(t, err)
	require.Len(t, open, 3)
	assert.Equal(t, players[0], open[0].PlayerOneID)
	assert.Equal(t, players[1], open[0].PlayerTwoID)
	assert.NotEmpty(t, open[0].PlayerOneName)
	assert.Nil(t, open[0].PlayerOneSetOneGames)
	assert.False(t, open[0].Completed)

	done, err := store.GetFixtures(ctx, leagueID, true)
	require.NoError(t, err)
	assert.Empty(t, done)

	require.NoError(t, store.CreateFixtures(ctx, db, nil))
}

func TestUpdateFixtureResult(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewLeagueStore(db)
	ctx := context.Background()

	leagueID, players := seedLeague(t, store, 2)
	require.NoError(t, store.CreateFixtures(ctx, db, league.NewFixtures(leagueID, 1, [][2]int64{{players[0], players[1]}})))

	open, err := store.GetFixtures(ctx, leagueID, false)
	require.NoError(t, err)
	require.Len(t, open, 1)

	fixture, err := store.GetFixture(ctx, db, open[0].ID)
	require.NoError(t, err)
	fixture.Apply(league.Result{
		FixtureID:   fixture.ID,
		PlayerOneID: fixture.PlayerOneID,
		PlayerTwoID: fixture.PlayerTwoID,
		SetOne:      league.SetScore{PlayerOne: 6, PlayerTwo: 4},
		SetTwo:      league.SetScore{PlayerOne: 3, PlayerTwo: 6},
		Tiebreak:    &league.Tiebreak{PlayerOne: 10, PlayerTwo: 7},
	})

	err = runInTx(t, db, func(tx *sqlx.Tx) error {
		return store.UpdateFixtureResult(ctx, tx, fixture)
	})
	require.NoError(t, err)

	stored, err := store.GetFixture(ctx, db, fixture.ID)
	require.NoError(t, err)
	assert.True(t, stored.Completed)
	require.NotNil(t, stored.Winner)
	assert.Equal(t, players[0], *stored.Winner)
	assert.Equal(t, 10, *stored.PlayerOneTiebreakPoints)
	assert.Equal(t, 7, *stored.PlayerTwoTiebreakPoints)

	done, err := store.GetFixtures(ctx, leagueID, true)
	require.NoError(t, err)
	assert.Len(t, done, 1)

	// A completed fixture cannot be overwritten
	assert.ErrorIs(t, store.UpdateFixtureResult(ctx, db, fixture), sql.ErrNoRows)

	_, err = store.GetFixture(ctx, db, fixture.ID+1)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCompletedFixtureRequiresSetScores(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewLeagueStore(db)
	ctx := context.Background()

	leagueID, players := seedLeague(t, store, 2)
	require.NoError(t, store.CreateFixtures(ctx, db, league.NewFixtures(leagueID, 1, [][2]int64{{players[0], players[1]}})))
	open, err := store.GetFixtures(ctx, leagueID, false)
	require.NoError(t, err)
	require.Len(t, open, 1)

	_, err = db.ExecContext(ctx, `
		UPDATE fixtures SET completed = 1, player_one_set_one_games = 6, player_two_set_one_games = 4
		WHERE fixture_id = ?`, open[0].ID)
	var sqliteErr sqlite3.Error
	require.True(t, errors.As(err, &sqliteErr), "expected a sqlite error, got %v", err)
	assert.Equal(t, sqlite3.ErrConstraintCheck, sqliteErr.ExtendedCode)

	done, err := store.GetFixtures(ctx, leagueID, true)
	require.NoError(t, err)
	assert.Empty(t, done)
}

func runInTx(t *testing.T, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	t.Helper()
	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
