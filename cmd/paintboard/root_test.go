package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parsed(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addConfigFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestLoadConfig_Flags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "paintboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\nhistory:\n  redo_policy: retain\n"), 0o644))

	cfg, err := loadConfig(parsed(t, "--config", path))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "retain", cfg.History.RedoPolicy)
	assert.Equal(t, "memory", cfg.Store.Backend)

	cfg, err = loadConfig(parsed(t, "--config", path, "--log-level", "debug", "--redis-url", "redis://localhost:6379"))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "redis", cfg.Store.Backend)

	_, err = loadConfig(parsed(t, "--config", path, "--store", "redis"))
	assert.Error(t, err, "redis without a url is rejected")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "paintboard version v"))
}

func TestSessionCommands_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	url := "redis://" + mr.Addr()
	cfgPath := filepath.Join(t.TempDir(), "none.yaml")

	out, err := run(t, "session", "ls", "--config", cfgPath, "--redis-url", url)
	require.NoError(t, err)
	assert.Contains(t, out, "No boards found.")

	require.NoError(t, mr.Set("paintboard:board:s:b1", `{"session_id":"b1","revision":1,"painted":[{"x":1,"y":2}],"done":[{"coordinate":{"x":1,"y":2},"kind":"PAINT"}],"undone":[]}`))
	_, err = mr.ZAdd("paintboard:board:index", 4102444800, "b1")
	require.NoError(t, err)

	out, err = run(t, "session", "ls", "--config", cfgPath, "--redis-url", url)
	require.NoError(t, err)
	assert.Contains(t, out, "- b1: 1 painted, revision 1, 1 to undo, 0 to redo")

	out, err = run(t, "session", "inspect", "b1", "--config", cfgPath, "--redis-url", url)
	require.NoError(t, err)
	assert.Contains(t, out, `"session_id": "b1"`)

	out, err = run(t, "session", "rm", "b1", "--config", cfgPath, "--redis-url", url)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed board 'b1'")
	assert.False(t, mr.Exists("paintboard:board:s:b1"))

	_, err = run(t, "session", "inspect", "b1", "--config", cfgPath, "--redis-url", url)
	assert.Error(t, err)
}
