package league

type Player struct {
	ID       int64  `db:"player_id" json:"player_id"`
	Name     string `db:"name" json:"name"`
	LeagueID *int64 `db:"league_id" json:"league_id"`
}

// Names builds the id to display name lookup the standings engine resolves rows against.
func Names(players []Player) map[int64]string {
	names := make(map[int64]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
	}
	return names
}
