package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// Helper function to create a temporary config file
func createTempConfigFile(t *testing.T, dir string, content string) string {
	t.Helper()
	tempFilePath := filepath.Join(dir, configFileName)
	err := os.WriteFile(tempFilePath, []byte(content), 0644)
	require.NoError(t, err)
	return tempFilePath
}

func TestLoadConfig_DefaultOnly(t *testing.T) {
	tempDir := t.TempDir()

	loaded, err := LoadConfig(tempDir)
	require.NoError(t, err)

	expected := GetDefaultConfig()
	expected.Mailbox.Path = filepath.Join(tempDir, DefaultMailboxFile)
	assert.Equal(t, expected, loaded)
}

func TestLoadConfig_Override(t *testing.T) {
	tempDir := t.TempDir()
	createTempConfigFile(t, tempDir, `
mailbox:
  path: /srv/contacts/list.txt
  watch: true
profile:
  baseURL: http://localhost:9999
  timeout: 250ms
  maxRetries: 5
  fetchAvatars: false
view:
  layout: grid
  gridColumns: 5
simulate:
  seed: 42
logLevel: debug
`)

	loaded, err := LoadConfig(tempDir)
	require.NoError(t, err)

	assert.Equal(t, "/srv/contacts/list.txt", loaded.Mailbox.Path)
	assert.True(t, loaded.Mailbox.Watch)
	assert.Equal(t, 300*time.Millisecond, loaded.Mailbox.Debounce, "unset fields keep defaults")
	assert.Equal(t, "http://localhost:9999", loaded.Profile.BaseURL)
	assert.Equal(t, 250*time.Millisecond, loaded.Profile.Timeout)
	assert.Equal(t, uint(5), loaded.Profile.MaxRetries)
	assert.False(t, loaded.Profile.ShouldFetchAvatars())
	assert.Equal(t, 100, loaded.Profile.AvatarSize)
	assert.Equal(t, LayoutGrid, loaded.View.Layout)
	assert.Equal(t, 5, loaded.View.GridColumns)
	assert.Equal(t, uint64(42), loaded.Simulate.Seed)
	assert.Equal(t, 2, loaded.Simulate.MinimumEntities)
	assert.Equal(t, "debug", loaded.LogLevel)
}

func TestLoadConfig_RelativeMailboxPath(t *testing.T) {
	tempDir := t.TempDir()
	createTempConfigFile(t, tempDir, "mailbox:\n  path: lists/team.txt\n")

	loaded, err := LoadConfig(tempDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tempDir, "lists", "team.txt"), loaded.Mailbox.Path)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	tempDir := t.TempDir()
	createTempConfigFile(t, tempDir, "view:\n  layout: [unterminated\n")

	_, err := LoadConfig(tempDir)
	require.Error(t, err)

	var cfgErr ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, ErrorTypeParse, cfgErr.ErrorType)
	assert.Equal(t, configFileName, cfgErr.FileName)
	assert.NotEmpty(t, cfgErr.Suggestions)
	assert.Contains(t, cfgErr.DetailedError(), "Configuration Error in config.yaml")
}

func TestLoadConfig_TypeMismatchReportsLine(t *testing.T) {
	tempDir := t.TempDir()
	createTempConfigFile(t, tempDir, "view:\n  gridColumns: many\n")

	_, err := LoadConfig(tempDir)

	var cfgErr ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, ErrorTypeParse, cfgErr.ErrorType)
	assert.Equal(t, 2, cfgErr.LineNumber)
	assert.Contains(t, cfgErr.DetailedError(), "Line: 2")
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tempDir := t.TempDir()
	createTempConfigFile(t, tempDir, "view:\n  layout: carousel\nprofile:\n  concurrency: -1\n")

	_, err := LoadConfig(tempDir)

	var cfgErr ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, ErrorTypeValidation, cfgErr.ErrorType)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 2)
}

func TestGetDefaultConfigPath(t *testing.T) {
	original := osUserHomeDir
	defer func() { osUserHomeDir = original }()

	osUserHomeDir = func() (string, error) { return "/home/tester", nil }
	path, err := GetDefaultConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/tester", userConfigDir), path)

	osUserHomeDir = func() (string, error) { return "", errors.New("no home") }
	_, err = GetDefaultConfigPath()
	assert.Error(t, err)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	tempDir := filepath.Join(t.TempDir(), "nested")
	cfg := GetDefaultConfig()
	cfg.View.Layout = LayoutGrid
	cfg.Profile.Timeout = 1500 * time.Millisecond

	require.NoError(t, SaveConfig(tempDir, cfg))

	raw, err := os.ReadFile(filepath.Join(tempDir, configFileName))
	require.NoError(t, err)
	var generic map[string]interface{}
	require.NoError(t, yaml.Unmarshal(raw, &generic))
	assert.Contains(t, string(raw), "timeout: 1.5s")

	loaded, err := LoadConfig(tempDir)
	require.NoError(t, err)
	assert.Equal(t, LayoutGrid, loaded.View.Layout)
	assert.Equal(t, 1500*time.Millisecond, loaded.Profile.Timeout)
}
