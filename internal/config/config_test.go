package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Server: ServerConfig{Port: "8080", CORSOrigins: []string{"*"}},
		Store:  StoreConfig{Path: "data/pins.db"},
		GenAI:  GenAIConfig{RPS: 2, Burst: 4},
		Pins:   PinsConfig{ConfigVersion: "v0.10.0", DefaultPinID: "g4"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:    "bad environment",
			mutate:  func(c *Config) { c.App.Environment = "qa" },
			wantErr: "invalid environment",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logger.Level = "verbose" },
			wantErr: "invalid log level",
		},
		{
			name:    "empty db path",
			mutate:  func(c *Config) { c.Store.Path = "" },
			wantErr: "database path",
		},
		{
			name:    "empty config version",
			mutate:  func(c *Config) { c.Pins.ConfigVersion = "" },
			wantErr: "config version",
		},
		{
			name:    "empty default pin",
			mutate:  func(c *Config) { c.Pins.DefaultPinID = "" },
			wantErr: "default pin",
		},
		{
			name:    "zero rps",
			mutate:  func(c *Config) { c.GenAI.RPS = 0 },
			wantErr: "RPS must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidate_EmptyAPIKeyAllowed(t *testing.T) {
	cfg := validConfig()
	cfg.GenAI.APIKey = ""

	assert.NoError(t, cfg.Validate())
}

func TestGetConfigValue(t *testing.T) {
	t.Setenv("TEST_CONFIG_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "TEST_CONFIG_KEY", "default"))
	assert.Equal(t, "from-env", getConfigValue("", "TEST_CONFIG_KEY", "default"))
	assert.Equal(t, "default", getConfigValue("", "TEST_CONFIG_MISSING", "default"))
}

func TestGetIntConfigValue(t *testing.T) {
	t.Setenv("TEST_INT_KEY", "7")
	t.Setenv("TEST_INT_BAD", "not-a-number")

	assert.Equal(t, 7, getIntConfigValue("", "TEST_INT_KEY", 2))
	assert.Equal(t, 3, getIntConfigValue("3", "TEST_INT_KEY", 2))
	assert.Equal(t, 2, getIntConfigValue("", "TEST_INT_BAD", 2))
	assert.Equal(t, 2, getIntConfigValue("", "TEST_INT_MISSING", 2))
}

func TestGetFloatConfigValue(t *testing.T) {
	t.Setenv("TEST_FLOAT_KEY", "0.5")

	assert.Equal(t, 0.5, getFloatConfigValue("", "TEST_FLOAT_KEY", 2))
	assert.Equal(t, 1.5, getFloatConfigValue("1.5", "TEST_FLOAT_KEY", 2))
	assert.Equal(t, 2.0, getFloatConfigValue("", "TEST_FLOAT_MISSING", 2))
}

func TestParseDurationValue(t *testing.T) {
	d, err := parseDurationValue("", "TEST_DURATION_MISSING", "15s")
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, d)

	d, err = parseDurationValue("2m", "TEST_DURATION_MISSING", "15s")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, d)

	_, err = parseDurationValue("soon", "TEST_DURATION_MISSING", "15s")
	assert.Error(t, err)
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, splitOrigins("*"))
	assert.Equal(t, []string{"https://a.example", "https://b.example"},
		splitOrigins("https://a.example, https://b.example"))
	assert.Equal(t, []string{"*"}, splitOrigins(" , "))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\n\nTEST_ENVFILE_A=hello\nTEST_ENVFILE_B=\"quoted\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("TEST_ENVFILE_A", "")
	t.Setenv("TEST_ENVFILE_B", "")

	require.NoError(t, loadEnvFile(path))

	assert.Equal(t, "hello", os.Getenv("TEST_ENVFILE_A"))
	assert.Equal(t, "quoted", os.Getenv("TEST_ENVFILE_B"))
}

func TestLoadEnvFile_DoesNotOverrideEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("TEST_ENVFILE_C=from-file\n"), 0o600))

	t.Setenv("TEST_ENVFILE_C", "from-env")

	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "from-env", os.Getenv("TEST_ENVFILE_C"))
}

func TestLoadEnvFile_BadLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("NOT A PAIR\n"), 0o600))

	assert.Error(t, loadEnvFile(path))
}
