package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment" validate:"omitempty,oneof=development production"`
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
	Providers   ProvidersConfig `toml:"providers"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"gte=1,lte=65535"`
	Host string `toml:"host" validate:"required"`
	// PublicURL is the externally reachable base URL used to derive OAuth
	// redirect URIs when no explicit override is configured.
	PublicURL string `toml:"public_url"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path string `toml:"path" validate:"required"`
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"omitempty,oneof=debug info warn error"`
	Output []string `toml:"output"` // "stdout", "file"
}

// ProvidersConfig holds per-provider OAuth application settings.
// Client secrets are server-only; they are read from the environment and
// never written back to the browser.
type ProvidersConfig struct {
	GitHub    OAuthAppConfig `toml:"github"`
	Atlassian OAuthAppConfig `toml:"atlassian"`
}

// OAuthAppConfig holds one OAuth application registration.
// A missing client id leaves the provider disconnected rather than crashing.
type OAuthAppConfig struct {
	ClientID     string   `toml:"client_id"`
	ClientSecret string   `toml:"client_secret"`
	RedirectURI  string   `toml:"redirect_uri"` // optional explicit override
	Scopes       []string `toml:"scopes"`
}

// NewDefaultConfig returns the built-in configuration defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 5080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/devtracker",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		Providers: ProvidersConfig{
			GitHub: OAuthAppConfig{
				Scopes: []string{"read:user", "repo"},
			},
			Atlassian: OAuthAppConfig{
				Scopes: []string{"read:me", "read:jira-user", "read:jira-work", "read:confluence-content.summary", "offline_access"},
			},
		},
	}
}

// LoadFromFiles loads configuration with priority: defaults -> file1 -> file2 -> ... -> env
// Later files override earlier files; environment variables override all files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("DEVTRACKER_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("DEVTRACKER_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("DEVTRACKER_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if publicURL := os.Getenv("DEVTRACKER_PUBLIC_URL"); publicURL != "" {
		config.Server.PublicURL = publicURL
	}

	// Storage configuration
	if badgerPath := os.Getenv("DEVTRACKER_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Logging configuration
	if level := os.Getenv("DEVTRACKER_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("DEVTRACKER_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// OAuth provider credentials. Secrets are only ever sourced from the
	// environment or the config file on the server side.
	if id := os.Getenv("DEVTRACKER_GITHUB_CLIENT_ID"); id != "" {
		config.Providers.GitHub.ClientID = id
	}
	if secret := os.Getenv("DEVTRACKER_GITHUB_CLIENT_SECRET"); secret != "" {
		config.Providers.GitHub.ClientSecret = secret
	}
	if uri := os.Getenv("DEVTRACKER_GITHUB_REDIRECT_URI"); uri != "" {
		config.Providers.GitHub.RedirectURI = uri
	}
	if id := os.Getenv("DEVTRACKER_ATLASSIAN_CLIENT_ID"); id != "" {
		config.Providers.Atlassian.ClientID = id
	}
	if secret := os.Getenv("DEVTRACKER_ATLASSIAN_CLIENT_SECRET"); secret != "" {
		config.Providers.Atlassian.ClientSecret = secret
	}
	if uri := os.Getenv("DEVTRACKER_ATLASSIAN_REDIRECT_URI"); uri != "" {
		config.Providers.Atlassian.RedirectURI = uri
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks configuration invariants via struct tags
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// BaseURL returns the externally reachable base URL of the server
func (c *Config) BaseURL() string {
	if c.Server.PublicURL != "" {
		return strings.TrimRight(c.Server.PublicURL, "/")
	}
	return fmt.Sprintf("http://%s:%d", c.Server.Host, c.Server.Port)
}

// RedirectURI resolves the OAuth redirect URI for a provider callback path,
// honouring an explicit override when one is configured.
func (c *Config) RedirectURI(app OAuthAppConfig, callbackPath string) string {
	if app.RedirectURI != "" {
		return app.RedirectURI
	}
	return c.BaseURL() + callbackPath
}
