package league

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yfantasy-go/yfantasy/internal/domain/fantasy"
)

func TestRankProfilesByName(t *testing.T) {
	t.Parallel()

	profiles := []fantasy.PlayerProfile{
		{"player_id": 1, "name": map[string]any{"full": "Phil Kessler"}},
		{"player_id": 2, "name": map[string]any{"full": "Phil Kessel"}},
		{"player_id": 3, "name": map[string]any{"full": "Philip Pritchard"}},
	}

	ranked := RankProfilesByName("Phil Kessel", profiles)
	require.Len(t, ranked, 3)
	assert.Equal(t, 2, ranked[0]["player_id"])
	assert.Equal(t, 1, ranked[1]["player_id"])

	// Input order is untouched.
	assert.Equal(t, 1, profiles[0]["player_id"])
}

func TestRankProfilesByName_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, RankProfilesByName("anyone", nil))
}
