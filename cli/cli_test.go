package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tung362/votecatalog/lobby"
	"github.com/tung362/votecatalog/logging"
)

func setupLobby(t *testing.T) *lobby.Context {
	t.Helper()
	logging.Log = logrus.New()

	l, err := lobby.New(lobby.Settings{})
	require.NoError(t, err)
	require.NoError(t, l.LoadExtensions([]string{"../extension/testdata/example.yaml"}))
	_, err = l.Commit(lobby.ReferenceHost)
	require.NoError(t, err)
	return l
}

func captured() (*cobra.Command, *bytes.Buffer) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	return cmd, &buf
}

func TestPrintCatalog(t *testing.T) {
	l := setupLobby(t)
	cmd, buf := captured()

	printCatalog(cmd, l)

	out := buf.String()
	assert.Contains(t, out, "Difficulty (position 0)")
	assert.Contains(t, out, "  [3] Votes.Spawn Mobs Selection")
	assert.Contains(t, out, "*[7] Spawn Mobs -> ExampleVotePoll bit 1")
	assert.Contains(t, out, "4 selections (2 host), 9 choices (5 host)")
}

func TestDecodeRuleBook(t *testing.T) {
	peer := setupLobby(t)
	require.NoError(t, peer.Choose("Votes.Game Mode Selection", "Example"))
	msg, err := peer.EncodeRuleBook()
	require.NoError(t, err)

	t.Run("Happy path - decoded and adopted", func(t *testing.T) {
		cmd, buf := captured()
		require.NoError(t, decodeRuleBook(cmd, setupLobby(t), msg, true))

		out := buf.String()
		assert.Contains(t, out, "Difficulty = Normal")
		assert.Contains(t, out, "Votes.Game Mode Selection = Example")
		assert.Contains(t, out, "poll ExampleVotePoll bits [1]")
		assert.Contains(t, out, "game mode Example")
	})

	t.Run("Unhappy path - truncated message", func(t *testing.T) {
		cmd, _ := captured()
		assert.Error(t, decodeRuleBook(cmd, setupLobby(t), msg[:1], false))
	})
}

func TestInitConfig(t *testing.T) {
	logging.Log = logrus.New()
	viper.Reset()
	t.Cleanup(func() {
		viper.Reset()
		configFile = ""
	})

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: warn\nstorage:\n  driver: memory\n"), 0o644))

	t.Run("Happy path - explicit config file", func(t *testing.T) {
		configFile = path
		require.NoError(t, initConfig())
		assert.Equal(t, "memory", viper.GetString("storage.driver"))
		assert.Equal(t, logrus.WarnLevel, logging.Logger().GetLevel())
	})

	t.Run("Unhappy path - missing explicit config file", func(t *testing.T) {
		configFile = filepath.Join(dir, "missing.yaml")
		assert.Error(t, initConfig())
	})
}
