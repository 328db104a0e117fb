package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ShivamAgarwal-code/AI-Cortex/internal/config"
)

func TestSetConfigValue_ServerURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cortex.yaml")
	require.NoError(t, config.WriteDefaultConfig(path))

	err := setConfigValue(path, "server_url", "ws://agent.internal:9000/ws")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, "ws://agent.internal:9000/ws", got["server_url"])
}

func TestSetConfigValue_ServerURLRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cortex.yaml")

	err := setConfigValue(path, "server_url", "http://not-a-websocket")
	assert.Error(t, err)
	assert.NoFileExists(t, path, "invalid value must not be written")
}

func TestSetConfigValue_AutoReconnect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cortex.yaml")
	require.NoError(t, config.WriteDefaultConfig(path))

	require.NoError(t, setConfigValue(path, "auto_reconnect", "false"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, false, got["auto_reconnect"])
}

func TestSetConfigValue_AutoReconnectRejectsNonBool(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cortex.yaml")

	err := setConfigValue(path, "auto_reconnect", "maybe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "true or false")
}

func TestSetConfigValue_UnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cortex.yaml")

	err := setConfigValue(path, "theme", "dark")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config key")
}

func TestDefaultConfigPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".config", "cortex", "cortex.yaml"), defaultConfigPath())
}

func TestResolveConfigPath_PrefersFlag(t *testing.T) {
	orig := cfgFile
	t.Cleanup(func() { cfgFile = orig })

	cfgFile = "/tmp/custom.yaml"
	assert.Equal(t, "/tmp/custom.yaml", resolveConfigPath())
}
