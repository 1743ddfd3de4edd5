package league

const DefaultSeason = 1

// Fixture is a scheduled match between two players of a league. Score columns stay nil
// until a result is submitted.
type Fixture struct {
	ID          int64 `db:"fixture_id" json:"fixture_id"`
	Season      int   `db:"season" json:"season"`
	LeagueID    int64 `db:"league_id" json:"league_id"`
	PlayerOneID int64 `db:"player_one_id" json:"player_one_id"`
	PlayerTwoID int64 `db:"player_two_id" json:"player_two_id"`

	PlayerOneName string `db:"player_one_name" json:"player_one_name"`
	PlayerTwoName string `db:"player_two_name" json:"player_two_name"`

	PlayerOneSetOneGames *int `db:"player_one_set_one_games" json:"player_one_set_one_games"`
	PlayerTwoSetOneGames *int `db:"player_two_set_one_games" json:"player_two_set_one_games"`
	PlayerOneSetTwoGames *int `db:"player_one_set_two_games" json:"player_one_set_two_games"`
	PlayerTwoSetTwoGames *int `db:"player_two_set_two_games" json:"player_two_set_two_games"`

	PlayerOneTiebreakPoints *int `db:"player_one_tiebreak_points" json:"player_one_tiebreak_points"`
	PlayerTwoTiebreakPoints *int `db:"player_two_tiebreak_points" json:"player_two_tiebreak_points"`

	Completed bool   `db:"completed" json:"completed"`
	Winner    *int64 `db:"winner" json:"winner"`
}

func (f *Fixture) Involves(playerID int64) bool {
	return f.PlayerOneID == playerID || f.PlayerTwoID == playerID
}

// Result converts a completed fixture into the shape the standings engine consumes.
// Uncompleted fixtures, or completed ones missing a set score, report false.
func (f *Fixture) Result() (Result, bool) {
	if !f.Completed {
		return Result{}, false
	}
	if f.PlayerOneSetOneGames == nil || f.PlayerTwoSetOneGames == nil ||
		f.PlayerOneSetTwoGames == nil || f.PlayerTwoSetTwoGames == nil {
		return Result{}, false
	}

	r := Result{
		FixtureID:   f.ID,
		LeagueID:    f.LeagueID,
		Season:      f.Season,
		PlayerOneID: f.PlayerOneID,
		PlayerTwoID: f.PlayerTwoID,
		SetOne:      SetScore{PlayerOne: *f.PlayerOneSetOneGames, PlayerTwo: *f.PlayerTwoSetOneGames},
		SetTwo:      SetScore{PlayerOne: *f.PlayerOneSetTwoGames, PlayerTwo: *f.PlayerTwoSetTwoGames},
	}
	// A tiebreak only counts when both sides have points recorded
	if f.PlayerOneTiebreakPoints != nil && f.PlayerTwoTiebreakPoints != nil {
		r.Tiebreak = &Tiebreak{PlayerOne: *f.PlayerOneTiebreakPoints, PlayerTwo: *f.PlayerTwoTiebreakPoints}
	}
	return r, true
}

// Apply records r on the fixture, marking it completed with the derived winner.
func (f *Fixture) Apply(r Result) {
	f.PlayerOneSetOneGames = &r.SetOne.PlayerOne
	f.PlayerTwoSetOneGames = &r.SetOne.PlayerTwo
	f.PlayerOneSetTwoGames = &r.SetTwo.PlayerOne
	f.PlayerTwoSetTwoGames = &r.SetTwo.PlayerTwo
	f.PlayerOneTiebreakPoints = nil
	f.PlayerTwoTiebreakPoints = nil
	if r.Tiebreak != nil {
		f.PlayerOneTiebreakPoints = &r.Tiebreak.PlayerOne
		f.PlayerTwoTiebreakPoints = &r.Tiebreak.PlayerTwo
	}
	f.Completed = true
	f.Winner = r.Winner()
}
