package league

import "errors"

var ErrNotEnoughPlayers = errors.New("at least two players are required to generate fixtures")

// RoundRobin pairs every player with every later player exactly once, keeping the order of
// playerIDs. The first player of each pair is player one of the fixture.
func RoundRobin(playerIDs []int64) ([][2]int64, error) {
	if len(playerIDs) < 2 {
		return nil, ErrNotEnoughPlayers
	}

	pairs := make([][2]int64, 0, len(playerIDs)*(len(playerIDs)-1)/2)
	for i := 0; i < len(playerIDs); i++ {
		for j := i + 1; j < len(playerIDs); j++ {
			pairs = append(pairs, [2]int64{playerIDs[i], playerIDs[j]})
		}
	}
	return pairs, nil
}

// NewFixtures turns round-robin pairs into unplayed fixtures for a league season.
func NewFixtures(leagueID int64, season int, pairs [][2]int64) []Fixture {
	fixtures := make([]Fixture, 0, len(pairs))
	for _, pair := range pairs {
		fixtures = append(fixtures, Fixture{
			Season:      season,
			LeagueID:    leagueID,
			PlayerOneID: pair[0],
			PlayerTwoID: pair[1],
		})
	}
	return fixtures
}
