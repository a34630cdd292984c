package cli

import (
	"path/filepath"
	"testing"

	"github.com/klokku/eventcal/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestRootCommand_Wiring(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["migrate"])

	flag := rootCmd.PersistentFlags().Lookup("config")
	if assert.NotNil(t, flag) {
		assert.Equal(t, defaultConfigPath, flag.DefValue)
	}
}

func TestMigrate_FailsWithoutConnectionString(t *testing.T) {
	t.Setenv("EVENTCAL_DB_URL", "")
	rootCmd.SetArgs([]string{"migrate", "--config", filepath.Join(t.TempDir(), "missing.yaml")})

	err := rootCmd.Execute()

	assert.ErrorIs(t, err, config.ErrMissingConnectionString)
}
