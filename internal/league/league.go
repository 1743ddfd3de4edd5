package league

import "time"

type League struct {
	ID        int64     `db:"league_id" json:"league_id"`
	Name      string    `db:"name" json:"league_name"`
	LogoURL   *string   `db:"logo_url" json:"logo_url,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"-"`
}

// Table is the public view of a league: the computed standings plus every fixture split by
// completion.
type Table struct {
	LeagueID    int64          `json:"league_id"`
	LeagueName  string         `json:"league_name"`
	LogoURL     *string        `json:"logo_url,omitempty"`
	Standings   []StandingsRow `json:"league_table"`
	Completed   []Fixture      `json:"completed_fixtures"`
	Uncompleted []Fixture      `json:"uncompleted_fixtures"`
}
