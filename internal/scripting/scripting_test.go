package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gosettlers/server/internal/catalog"
)

func writeScript(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestLoadScenarios(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "custom.lua", `
scenario{
    key = "SC_TEST",
    title = "Test Islands",
    opts = "SBL=t,_SC_SANY=t",
    min_version = 2100,
}
`)

	cat := catalog.New()
	require.NoError(t, LoadScenarios(dir, cat, zap.NewNop()))

	s := cat.Scenario("SC_TEST")
	require.NotNil(t, s)
	assert.Equal(t, "Test Islands", s.Title)
	assert.Equal(t, 2100, s.MinVersion)
	assert.Equal(t, "SBL=t,_SC_SANY=t", s.Opts)
}

func TestLoadScenariosDuplicateKeyFails(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "dup.lua", `
scenario{ key = "SC_NSHO", title = "Shadow", opts = "SBL=t" }
`)

	err := LoadScenarios(dir, catalog.New(), zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestLoadScenariosBrokenScript(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "broken.lua", `this is not lua`)

	require.Error(t, LoadScenarios(dir, catalog.New(), zap.NewNop()))
}

func TestLoadScenariosEmptyDir(t *testing.T) {
	require.NoError(t, LoadScenarios(t.TempDir(), catalog.New(), zap.NewNop()))
}
