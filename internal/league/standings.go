package league

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownPlayer = errors.New("player not found in name lookup")

type StandingsRow struct {
	PlayerID    int64  `json:"player_id"`
	Name        string `json:"name"`
	Played      int    `json:"played"`
	MatchesWon  int    `json:"matches_won"`
	MatchesLost int    `json:"matches_lost"`
	SetsWon     int    `json:"sets_won"`
	SetsLost    int    `json:"sets_lost"`
	GamesWon    int    `json:"games_won"`
	GamesLost   int    `json:"games_lost"`
	Points      int    `json:"points"`
}

// ComputeStandings builds one row per roster player from the completed results of a league
// and orders the table by points, highest first. Players level on points keep roster order.
//
// Every roster player and every player taking part in a result must have an entry in
// names; a missing one fails the whole computation.
func ComputeStandings(roster []int64, names map[int64]string, results []Result) ([]StandingsRow, error) {
	for _, r := range results {
		for _, id := range [2]int64{r.PlayerOneID, r.PlayerTwoID} {
			if _, ok := names[id]; !ok {
				return nil, fmt.Errorf("%w: player %d in fixture %d", ErrUnknownPlayer, id, r.FixtureID)
			}
		}
	}

	table := make([]StandingsRow, 0, len(roster))
	for _, playerID := range roster {
		name, ok := names[playerID]
		if !ok {
			return nil, fmt.Errorf("%w: roster player %d", ErrUnknownPlayer, playerID)
		}

		row := StandingsRow{PlayerID: playerID, Name: name}
		for _, r := range results {
			p, ok := r.perspective(playerID)
			if !ok {
				continue
			}
			row.record(p)
		}
		row.Played = row.MatchesWon + row.MatchesLost

		table = append(table, row)
	}

	sort.SliceStable(table, func(i, j int) bool {
		return table[i].Points > table[j].Points
	})

	return table, nil
}

// record folds a single match into the row: one point for playing, one per set won.
func (row *StandingsRow) record(p perspective) {
	row.Points++
	setsWon := 0

	for _, set := range p.sets {
		row.GamesWon += set.own
		row.GamesLost += set.opp
		setsWon += row.award(set)
	}
	if p.tiebreak != nil {
		setsWon += row.award(*p.tiebreak)
	}

	if setsWon >= SetsToWin {
		row.MatchesWon++
	} else {
		row.MatchesLost++
	}
}

// award settles one set or tiebreak and reports whether it went to the row's player.
// Level segments are awarded to nobody.
func (row *StandingsRow) award(s segment) int {
	switch {
	case s.own > s.opp:
		row.SetsWon++
		row.Points++
		return 1
	case s.own < s.opp:
		row.SetsLost++
	}
	return 0
}
