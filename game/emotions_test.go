package game_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alimuhammedak/SyncLove/game"
)

func TestRandomOptions(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 50; i++ {
		options := game.RandomOptions(rng)
		require.Len(t, options, 3)

		assert.Equal(t, game.DifficultyEasy, options[0].Difficulty)
		assert.Equal(t, game.DifficultyMedium, options[1].Difficulty)
		assert.Contains(t,
			[]game.Difficulty{game.DifficultyHard, game.DifficultyLegendary},
			options[2].Difficulty,
		)

		// Every offered word must be resolvable back through the catalog.
		for _, option := range options {
			found, ok := game.FindEmotion(option.Emotion)
			require.True(t, ok, option.Emotion)
			assert.Equal(t, option.Category, found.Category)
			assert.Equal(t, option.Difficulty, found.Difficulty)
		}
	}
}

func TestRandomOptionsDeterministic(t *testing.T) {
	a := game.RandomOptions(rand.New(rand.NewSource(7)))
	b := game.RandomOptions(rand.New(rand.NewSource(7)))
	assert.Equal(t, a, b)
}

func TestFindEmotion(t *testing.T) {
	option, ok := game.FindEmotion("Mutluluk")
	require.True(t, ok)
	assert.Equal(t, "Temel Duygular", option.Category)
	assert.Equal(t, game.DifficultyEasy, option.Difficulty)

	option, ok = game.FindEmotion("Kaos")
	require.True(t, ok)
	assert.Equal(t, "Soyut Kavramlar", option.Category)
	assert.Equal(t, game.DifficultyLegendary, option.Difficulty)

	_, ok = game.FindEmotion("mutluluk")
	assert.False(t, ok, "catalog lookup is case-sensitive")

	_, ok = game.FindEmotion("Kalem")
	assert.False(t, ok)
}

func TestDifficultyString(t *testing.T) {
	assert.Equal(t, "easy", game.DifficultyEasy.String())
	assert.Equal(t, "legendary", game.DifficultyLegendary.String())
	assert.Equal(t, "unknown", game.Difficulty(99).String())
}
