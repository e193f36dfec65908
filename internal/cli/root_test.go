package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	t.Run("version flag", func(t *testing.T) {
		cmd := NewRootCmd()
		cmd.SetArgs([]string{"--version"})

		output := &bytes.Buffer{}
		cmd.SetOut(output)

		require.NoError(t, cmd.Execute())
		assert.Contains(t, output.String(), "sesh version")
		assert.Contains(t, output.String(), GetVersion())
	})

	t.Run("help flag", func(t *testing.T) {
		cmd := NewRootCmd()
		cmd.SetArgs([]string{"--help"})

		output := &bytes.Buffer{}
		cmd.SetOut(output)

		require.NoError(t, cmd.Execute())
		helpText := output.String()
		assert.Contains(t, helpText, "session files")
		for _, name := range []string{"list", "latest", "read", "write", "delete", "startup", "shutdown", "watch", "docs", "config"} {
			assert.Contains(t, helpText, name)
		}
	})

	t.Run("global flags", func(t *testing.T) {
		cmd := GetRootCmd()

		configFlag := cmd.PersistentFlags().Lookup("config")
		require.NotNil(t, configFlag)
		assert.Equal(t, "", configFlag.DefValue)

		logLevelFlag := cmd.PersistentFlags().Lookup("log-level")
		require.NotNil(t, logLevelFlag)
		assert.Equal(t, "warn", logLevelFlag.DefValue)

		workdirFlag := cmd.PersistentFlags().Lookup("workdir")
		require.NotNil(t, workdirFlag)
	})

	t.Run("fresh trees do not share flag state", func(t *testing.T) {
		first := NewRootCmd()
		require.NoError(t, first.PersistentFlags().Set("workdir", "/tmp"))

		second := NewRootCmd()
		assert.Equal(t, "", second.PersistentFlags().Lookup("workdir").Value.String())
	})
}

func TestGetVersion(t *testing.T) {
	version := GetVersion()
	assert.NotEmpty(t, version)
	assert.True(t, strings.HasPrefix(version, "0."))
}
