package views

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AdamBeresnev/tennis-leagues/internal/league"
)

// FormatScore renders a completed fixture from player one's side, e.g. "6-4 3-6 [10-8]".
// Fixtures without a usable result render as an empty string.
func FormatScore(f league.Fixture) string {
	r, ok := f.Result()
	if !ok {
		return ""
	}
	parts := []string{
		strconv.Itoa(r.SetOne.PlayerOne) + "-" + strconv.Itoa(r.SetOne.PlayerTwo),
		strconv.Itoa(r.SetTwo.PlayerOne) + "-" + strconv.Itoa(r.SetTwo.PlayerTwo),
	}
	if r.Tiebreak != nil {
		parts = append(parts, fmt.Sprintf("[%d-%d]", r.Tiebreak.PlayerOne, r.Tiebreak.PlayerTwo))
	}
	return strings.Join(parts, " ")
}
