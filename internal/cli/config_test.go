package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigRoundTrip(t *testing.T) {
	cfgFile = filepath.Join(t.TempDir(), "crv.yaml")
	t.Cleanup(func() { cfgFile = "" })

	require.NoError(t, SetProfile(Profile{
		Name:      "staging",
		ServerURL: "https://review.example.test",
		Token:     "aaa.bbb.ccc",
	}))

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "staging", config.DefaultProfile)
	assert.Equal(t, "https://review.example.test", config.Profiles["staging"].ServerURL)
	assert.Equal(t, "aaa.bbb.ccc", config.Profiles["staging"].Token)
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfgFile = filepath.Join(t.TempDir(), "absent.yaml")
	t.Cleanup(func() { cfgFile = "" })

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Empty(t, config.Profiles)
}

func TestGetCurrentProfileDefaults(t *testing.T) {
	cfgFile = filepath.Join(t.TempDir(), "crv.yaml")
	t.Cleanup(func() { cfgFile = "" })

	profile, err := GetCurrentProfile()
	require.NoError(t, err)
	assert.Equal(t, "default", profile.Name)
	assert.Equal(t, "http://localhost:3001", profile.ServerURL)
}

func TestLanguageFromExtension(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"main.go", "go"},
		{"app.TS", "typescript"},
		{"script.py", "python"},
		{"query.sql", "sql"},
		{"README", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, languageFromExtension(tt.path), tt.path)
	}
}
