package league

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundRobin(t *testing.T) {
	testCases := []struct {
		name     string
		players  []int64
		expected [][2]int64
	}{
		{
			name:     "2 players",
			players:  []int64{1, 2},
			expected: [][2]int64{{1, 2}},
		},
		{
			name:     "3 players",
			players:  []int64{1, 2, 3},
			expected: [][2]int64{{1, 2}, {1, 3}, {2, 3}},
		},
		{
			name:     "4 players keep input order",
			players:  []int64{7, 3, 9, 1},
			expected: [][2]int64{{7, 3}, {7, 9}, {7, 1}, {3, 9}, {3, 1}, {9, 1}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pairs, err := RoundRobin(tc.players)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, pairs)
		})
	}
}

func TestRoundRobin_EveryPairingOnce(t *testing.T) {
	players := []int64{1, 2, 3, 4, 5, 6, 7}
	pairs, err := RoundRobin(players)
	require.NoError(t, err)
	require.Len(t, pairs, len(players)*(len(players)-1)/2)

	seen := make(map[[2]int64]bool)
	for _, p := range pairs {
		assert.NotEqual(t, p[0], p[1])
		key := p
		if key[0] > key[1] {
			key = [2]int64{key[1], key[0]}
		}
		assert.False(t, seen[key], "pair %v generated twice", key)
		seen[key] = true
	}
}

func TestRoundRobin_NotEnoughPlayers(t *testing.T) {
	for _, players := range [][]int64{nil, {1}} {
		_, err := RoundRobin(players)
		assert.ErrorIs(t, err, ErrNotEnoughPlayers)
	}
}

func TestNewFixtures(t *testing.T) {
	fixtures := NewFixtures(4, 2, [][2]int64{{1, 2}, {1, 3}})
	require.Len(t, fixtures, 2)
	for _, f := range fixtures {
		assert.Equal(t, int64(4), f.LeagueID)
		assert.Equal(t, 2, f.Season)
		assert.False(t, f.Completed)
		assert.Nil(t, f.Winner)
	}
	assert.Equal(t, int64(3), fixtures[1].PlayerTwoID)
}
