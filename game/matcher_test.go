package game_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stillframe-app/stillframe_api/game"
)

func titlePool(title string) []game.Candidate {
	return []game.Candidate{{Value: title, Category: game.CategoryTitle}}
}

func TestMatch_TypoWithinThreshold(t *testing.T) {
	got := game.Match("pulp fictoin", titlePool("Pulp Fiction"), game.DefaultConfig())

	require.True(t, got.Matched)
	require.Equal(t, game.CategoryTitle, got.Category)
	require.Equal(t, "Pulp Fiction", got.Value)
	require.LessOrEqual(t, got.Score, 0.35)
}

func TestMatch_UnrelatedText(t *testing.T) {
	got := game.Match("xyz completely unrelated", titlePool("Pulp Fiction"), game.DefaultConfig())

	require.False(t, got.Matched)
	require.Equal(t, game.Category(""), got.Category)
	require.Empty(t, got.Value)
	require.Equal(t, 1.0, got.Score)
}

func TestMatch_CaseInsensitiveExact(t *testing.T) {
	got := game.Match("  PULP FICTION  ", titlePool("Pulp Fiction"), game.DefaultConfig())

	require.True(t, got.Matched)
	require.Equal(t, 0.0, got.Score)
}

func TestMatch_SurnameLandsOnFullName(t *testing.T) {
	pool := []game.Candidate{
		{Value: "Quentin Tarantino", Category: game.CategoryDirector},
	}

	got := game.Match("tarantino", pool, game.DefaultConfig())

	require.True(t, got.Matched)
	require.Equal(t, game.CategoryDirector, got.Category)
	require.Equal(t, "Quentin Tarantino", got.Value)
}

func TestMatch_TooShort(t *testing.T) {
	cases := []string{"", "   ", "a", " a "}
	for _, text := range cases {
		got := game.Match(text, titlePool("Pulp Fiction"), game.DefaultConfig())
		require.False(t, got.Matched, "input %q should not match", text)
	}
}

func TestMatch_EmptyPool(t *testing.T) {
	got := game.Match("pulp fiction", nil, game.DefaultConfig())

	require.False(t, got.Matched)
	require.Equal(t, 1.0, got.Score)
}

func TestMatch_TieBreakFirstCandidateWins(t *testing.T) {
	// Both candidates are the same distance from the guess; the first one built
	// must win regardless of how often we evaluate.
	pool := []game.Candidate{
		{Value: "John Carpenter", Category: game.CategoryDirector},
		{Value: "John Carpenter", Category: game.CategoryActor},
	}

	for i := 0; i < 10; i++ {
		got := game.Match("john carpenter", pool, game.DefaultConfig())
		require.True(t, got.Matched)
		require.Equal(t, game.CategoryDirector, got.Category)
	}
}

func TestMatch_ThresholdIsConfigurable(t *testing.T) {
	strict := game.Config{Threshold: 0.05, MinMatchChars: 2}

	got := game.Match("pulp fictoin", titlePool("Pulp Fiction"), strict)
	require.False(t, got.Matched)

	loose := game.Config{Threshold: 0.5, MinMatchChars: 2}
	got = game.Match("pulp fictoin", titlePool("Pulp Fiction"), loose)
	require.True(t, got.Matched)
}

func TestMatch_BestCandidateAcrossCategories(t *testing.T) {
	pool := []game.Candidate{
		{Value: "Pulp Fiction", Category: game.CategoryTitle},
		{Value: "Quentin Tarantino", Category: game.CategoryDirector},
		{Value: "Samuel L. Jackson", Category: game.CategoryActor},
		{Value: "Uma Thurman", Category: game.CategoryActor},
	}

	got := game.Match("uma thurmann", pool, game.DefaultConfig())

	require.True(t, got.Matched)
	require.Equal(t, game.CategoryActor, got.Category)
	require.Equal(t, "Uma Thurman", got.Value)
}
