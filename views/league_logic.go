package views

import (
	"sort"

	"github.com/AdamBeresnev/tennis-leagues/internal/league"
)

// SeasonFixtures holds one season's fixtures split by completion.
type SeasonFixtures struct {
	Season      int
	Completed   []league.Fixture
	Uncompleted []league.Fixture
}

type LeagueData struct {
	Table   *league.Table
	LogoURL string
	Seasons []SeasonFixtures
}

// PrepareLeagueData groups the table's fixtures by season, newest season first, keeping
// fixture order within each season.
func PrepareLeagueData(table *league.Table) LeagueData {
	bySeason := make(map[int]*SeasonFixtures)
	var seasonNums []int

	season := func(n int) *SeasonFixtures {
		s, ok := bySeason[n]
		if !ok {
			s = &SeasonFixtures{Season: n}
			bySeason[n] = s
			seasonNums = append(seasonNums, n)
		}
		return s
	}
	for _, f := range table.Completed {
		s := season(f.Season)
		s.Completed = append(s.Completed, f)
	}
	for _, f := range table.Uncompleted {
		s := season(f.Season)
		s.Uncompleted = append(s.Uncompleted, f)
	}

	sort.Sort(sort.Reverse(sort.IntSlice(seasonNums)))

	seasons := make([]SeasonFixtures, 0, len(seasonNums))
	for _, n := range seasonNums {
		seasons = append(seasons, *bySeason[n])
	}

	data := LeagueData{Table: table, Seasons: seasons}
	if table.LogoURL != nil {
		data.LogoURL = *table.LogoURL
	}
	return data
}
