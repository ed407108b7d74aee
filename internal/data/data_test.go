package data

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosettlers/server/internal/game"
)

func TestTemplatesLoad(t *testing.T) {
	assert.Equal(t, []string{"classic4", "classic6", "sea4"}, Keys())

	tpl, err := Template("classic4")
	require.NoError(t, err)
	assert.Len(t, tpl.Hexes, 19)
	assert.Len(t, tpl.Tokens, 18)
	assert.Len(t, tpl.Ports, 9)
	assert.False(t, tpl.Sea)

	_, err = Template("atlantis")
	assert.Error(t, err)
}

func TestPick(t *testing.T) {
	assert.Equal(t, "classic4", Pick(4, false).Key)
	assert.Equal(t, "classic6", Pick(6, false).Key)
	assert.Equal(t, "sea4", Pick(4, true).Key)
}

func TestTemplatesGenerate(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	for _, key := range Keys() {
		tpl, err := Template(key)
		require.NoError(t, err)

		opts := game.DefaultOptions()
		opts.SeaBoard = tpl.Sea
		opts.FogHexes = len(tpl.FogHexes) > 0
		b, err := game.GenerateBoard(tpl, opts, rng)
		require.NoError(t, err, key)

		assert.NotEmpty(t, b.LandHexes(), key)
		assert.Len(t, b.Ports, len(tpl.Ports), key)
		if tpl.Sea {
			assert.NotEqual(t, -1, b.Pirate, key)
		}
	}
}

func TestSeaTemplateFog(t *testing.T) {
	tpl, err := Template("sea4")
	require.NoError(t, err)

	opts := game.DefaultOptions()
	opts.SeaBoard = true
	opts.FogHexes = true
	b, err := game.GenerateBoard(tpl, opts, rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	for _, h := range tpl.FogHexes {
		assert.Equal(t, game.HexFog, b.HexType[h])
	}
	hexType, dice, ok := b.RevealFog(tpl.FogHexes[0])
	require.True(t, ok)
	assert.Equal(t, game.HexGold, hexType)
	assert.NotZero(t, dice)
}
