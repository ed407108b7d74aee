package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosettlers/server/internal/message"
)

func TestParseFormat(t *testing.T) {
	c := New()

	v, err := c.Parse("PL=4,VP=t10,BC=t3")
	require.NoError(t, err)
	assert.Equal(t, 4, v.Int("PL"))
	assert.Equal(t, 10, v.IntIfOn("VP"))
	assert.Equal(t, 3, v.IntIfOn("BC"))

	assert.Equal(t, "BC=t3,PL=4,VP=t10", Format(v))
}

func TestParseErrors(t *testing.T) {
	c := New()

	for _, bad := range []string{
		"PL",        // no '='
		"PL=x",      // not an int
		"PL=9",      // above max
		"BC=t2",     // below min
		"N7=7",      // intbool missing gate
		"SBL=maybe", // not a bool
	} {
		_, err := c.Parse(bad)
		assert.Error(t, err, bad)
	}

	// Unknown keys are skipped, not fatal.
	v, err := c.Parse("ZZ=t,PL=3")
	require.NoError(t, err)
	assert.Equal(t, 3, v.Int("PL"))
	assert.NotContains(t, v, "ZZ")
}

func TestDefaults(t *testing.T) {
	c := New()
	v := c.Defaults()

	assert.Equal(t, 4, v.Int("PL"))
	assert.Equal(t, 0, v.IntIfOn("N7"), "N7 gate defaults off")
	assert.Equal(t, 4, v.IntIfOn("BC"), "clump breaking defaults on")
	assert.False(t, v.Bool("SBL"))
	assert.NotContains(t, v, "_BHW", "internal options have no default entry")
}

func TestEffectiveMinVersion(t *testing.T) {
	c := New()

	for _, tc := range []struct {
		opts string
		want int
	}{
		{"", message.VersionMin},
		{"PL=4,VP=t10", message.VersionMin},
		{"PL=6", message.VersionGameOptions}, // chosen value, not declaration
		{"PLB=t", message.VersionGameOptions},
		{"SBL=t", message.VersionSeaBoards},
		{"_SC_FOG=t", message.VersionSeaBoards},
		{"SBL=f", message.VersionMin}, // off bools don't constrain
		{"SC=SC_NSHO", message.VersionSeaBoards},
	} {
		v, err := c.Parse(tc.opts)
		require.NoError(t, err, tc.opts)
		assert.Equal(t, tc.want, c.EffectiveMinVersion(v), tc.opts)
	}
}

func TestApplyScenario(t *testing.T) {
	c := New()

	v, err := c.Parse("PL=4,SC=SC_CLVI")
	require.NoError(t, err)
	require.NoError(t, c.ApplyScenario(v))

	assert.True(t, v.Bool("SBL"))
	assert.True(t, v.Bool("_SC_CLVI"))
	assert.True(t, v.Bool("_SC_3IP"))
	assert.Equal(t, 14, v.IntIfOn("VP"), "cloth trade plays to 14")
	assert.Equal(t, 4, v.Int("PL"), "creator's player count survives")
}

func TestAddScenario(t *testing.T) {
	c := New()

	require.NoError(t, c.AddScenario(&Scenario{
		Key: "SC_TEST", Opts: "SBL=t,_SC_FOG=t", Title: "Test Islands",
	}))
	s := c.Scenario("SC_TEST")
	require.NotNil(t, s)
	assert.Equal(t, message.VersionSeaBoards, s.MinVersion, "defaulted")

	assert.Error(t, c.AddScenario(&Scenario{Key: "SC_TEST"}), "duplicate")
	assert.Error(t, c.AddScenario(&Scenario{Key: "-"}), "reserved key")
	assert.Error(t, c.AddScenario(&Scenario{Key: "SC_BAD", Opts: "PL=99"}), "bad opts")
}
