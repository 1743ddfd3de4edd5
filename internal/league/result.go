package league

import (
	"errors"
	"fmt"
)

const (
	MaxSetGames  = 7
	SetsToWin    = 2
	setsPerMatch = 2
)

var (
	ErrInvalidScore     = errors.New("invalid score")
	ErrIncompleteResult = errors.New("completed fixture is missing set scores")
)

type SetScore struct {
	PlayerOne int `json:"player_one"`
	PlayerTwo int `json:"player_two"`
}

// Tiebreak is the deciding segment played when the two sets are split. Points are held as
// a pair so one side can never be recorded without the other.
type Tiebreak struct {
	PlayerOne int `json:"player_one"`
	PlayerTwo int `json:"player_two"`
}

// Result is a completed match as seen by the standings engine.
type Result struct {
	FixtureID   int64
	LeagueID    int64
	Season      int
	PlayerOneID int64
	PlayerTwoID int64
	SetOne      SetScore
	SetTwo      SetScore
	Tiebreak    *Tiebreak
}

// Validate checks the score ranges a submitted result may carry and that it names a winner.
// The engine itself never calls this; stored data is scored as-is.
func (r Result) Validate() error {
	for i, set := range [setsPerMatch]SetScore{r.SetOne, r.SetTwo} {
		if set.PlayerOne < 0 || set.PlayerTwo < 0 || set.PlayerOne > MaxSetGames || set.PlayerTwo > MaxSetGames {
			return fmt.Errorf("%w: set %d games must be between 0 and %d", ErrInvalidScore, i+1, MaxSetGames)
		}
	}
	if r.Tiebreak != nil && (r.Tiebreak.PlayerOne < 0 || r.Tiebreak.PlayerTwo < 0) {
		return fmt.Errorf("%w: tiebreak points must not be negative", ErrInvalidScore)
	}
	if r.Winner() == nil {
		return fmt.Errorf("%w: neither player won %d sets", ErrInvalidScore, SetsToWin)
	}
	return nil
}

// Winner returns the id of the player who took two sets, or nil when nobody did.
func (r Result) Winner() *int64 {
	one, _ := r.perspective(r.PlayerOneID)
	two, _ := r.perspective(r.PlayerTwoID)
	switch {
	case one.setsWon() >= SetsToWin:
		id := r.PlayerOneID
		return &id
	case two.setsWon() >= SetsToWin:
		id := r.PlayerTwoID
		return &id
	}
	return nil
}

type segment struct {
	own, opp int
}

// perspective is a result re-expressed from one participant's side.
type perspective struct {
	sets     [setsPerMatch]segment
	tiebreak *segment
}

func (r Result) perspective(playerID int64) (perspective, bool) {
	var p perspective
	switch playerID {
	case r.PlayerOneID:
		p.sets = [setsPerMatch]segment{
			{own: r.SetOne.PlayerOne, opp: r.SetOne.PlayerTwo},
			{own: r.SetTwo.PlayerOne, opp: r.SetTwo.PlayerTwo},
		}
		if r.Tiebreak != nil {
			p.tiebreak = &segment{own: r.Tiebreak.PlayerOne, opp: r.Tiebreak.PlayerTwo}
		}
	case r.PlayerTwoID:
		p.sets = [setsPerMatch]segment{
			{own: r.SetOne.PlayerTwo, opp: r.SetOne.PlayerOne},
			{own: r.SetTwo.PlayerTwo, opp: r.SetTwo.PlayerOne},
		}
		if r.Tiebreak != nil {
			p.tiebreak = &segment{own: r.Tiebreak.PlayerTwo, opp: r.Tiebreak.PlayerOne}
		}
	default:
		return perspective{}, false
	}
	return p, true
}

func (p perspective) setsWon() int {
	won := 0
	for _, s := range p.sets {
		if s.own > s.opp {
			won++
		}
	}
	if p.tiebreak != nil && p.tiebreak.own > p.tiebreak.opp {
		won++
	}
	return won
}
