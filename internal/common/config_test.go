package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "devtracker.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFromFiles_Defaults(t *testing.T) {
	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, 5080, config.Server.Port)
	assert.Equal(t, "localhost", config.Server.Host)
	assert.Equal(t, "./data/devtracker", config.Storage.Badger.Path)
	assert.Contains(t, config.Providers.Atlassian.Scopes, "offline_access")
}

func TestLoadFromFiles_FileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
[server]
port = 9090
host = "0.0.0.0"

[providers.github]
client_id = "file-client"
`)

	config, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)
	assert.Equal(t, "file-client", config.Providers.GitHub.ClientID)
	// Untouched sections keep their defaults
	assert.Equal(t, "./data/devtracker", config.Storage.Badger.Path)
}

func TestLoadFromFiles_LaterFileWins(t *testing.T) {
	first := writeConfigFile(t, "[server]\nport = 8001\n")
	second := writeConfigFile(t, "[server]\nport = 8002\n")

	config, err := LoadFromFiles(first, second)
	require.NoError(t, err)
	assert.Equal(t, 8002, config.Server.Port)
}

func TestLoadFromFiles_EnvOverridesFile(t *testing.T) {
	t.Setenv("DEVTRACKER_SERVER_PORT", "7070")
	t.Setenv("DEVTRACKER_GITHUB_CLIENT_SECRET", "env-secret")

	path := writeConfigFile(t, "[server]\nport = 9090\n")

	config, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, config.Server.Port)
	assert.Equal(t, "env-secret", config.Providers.GitHub.ClientSecret)
}

func TestLoadFromFiles_MissingFile(t *testing.T) {
	_, err := LoadFromFiles("/nonexistent/devtracker.toml")
	assert.Error(t, err)
}

func TestLoadFromFiles_InvalidPort(t *testing.T) {
	path := writeConfigFile(t, "[server]\nport = 99999\n")

	_, err := LoadFromFiles(path)
	assert.Error(t, err)
}

func TestApplyFlagOverrides(t *testing.T) {
	config := NewDefaultConfig()

	ApplyFlagOverrides(config, 6060, "example.internal")
	assert.Equal(t, 6060, config.Server.Port)
	assert.Equal(t, "example.internal", config.Server.Host)

	// Zero values leave the config untouched
	ApplyFlagOverrides(config, 0, "")
	assert.Equal(t, 6060, config.Server.Port)
	assert.Equal(t, "example.internal", config.Server.Host)
}

func TestBaseURL(t *testing.T) {
	config := NewDefaultConfig()
	assert.Equal(t, "http://localhost:5080", config.BaseURL())

	config.Server.PublicURL = "https://tracker.example.com/"
	assert.Equal(t, "https://tracker.example.com", config.BaseURL())
}

func TestRedirectURI(t *testing.T) {
	config := NewDefaultConfig()

	uri := config.RedirectURI(config.Providers.GitHub, "/auth/github/callback")
	assert.Equal(t, "http://localhost:5080/auth/github/callback", uri)

	config.Providers.GitHub.RedirectURI = "https://tracker.example.com/cb"
	uri = config.RedirectURI(config.Providers.GitHub, "/auth/github/callback")
	assert.Equal(t, "https://tracker.example.com/cb", uri)
}
