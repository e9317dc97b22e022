package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskKey(t *testing.T) {
	tests := []struct {
		name   string
		apiKey string
		want   string
	}{
		{"empty", "", "(not set)"},
		{"short", "abc123", "***"},
		{"exactly eight", "12345678", "***"},
		{"long", "AIzaSyB1234567890abcdef", "AIza...cdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskKey(tt.apiKey))
		})
	}
}

func TestEnv_SetGetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	env := LoadEnv(path)

	assert.Empty(t, env.Get("SOME_UNSET_KEY_FOR_TEST"))

	require.NoError(t, env.Set(EnvGeminiAPIKey, "AIzaSyB1234567890abcdef"))
	assert.Equal(t, "AIzaSyB1234567890abcdef", env.Get(EnvGeminiAPIKey))

	// A fresh store over the same file sees the persisted value.
	reloaded := LoadEnv(path)
	assert.Equal(t, "AIzaSyB1234567890abcdef", reloaded.Get(EnvGeminiAPIKey))
}

func TestEnv_MissingFileIsNotAnError(t *testing.T) {
	env := LoadEnv(filepath.Join(t.TempDir(), "nonexistent", ".env"))
	assert.Empty(t, env.Get(EnvGeminiAPIKey))
	require.NoError(t, env.Reload())
}

func TestEnv_FileValueOverridesProcessEnv(t *testing.T) {
	t.Setenv(EnvGeminiAPIKey, "from-process")

	path := filepath.Join(t.TempDir(), ".env")
	env := LoadEnv(path)
	assert.Equal(t, "from-process", env.Get(EnvGeminiAPIKey))

	require.NoError(t, env.Set(EnvGeminiAPIKey, "from-file"))
	assert.Equal(t, "from-file", env.Get(EnvGeminiAPIKey))
}

func TestEnv_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	env := LoadEnv(path)
	require.NoError(t, env.Set(EnvGeminiAPIKey, "original"))

	// Simulate an external edit to the file.
	require.NoError(t, os.WriteFile(path, []byte(EnvGeminiAPIKey+"=updated\n"), 0644))
	require.NoError(t, env.Reload())
	assert.Equal(t, "updated", env.Get(EnvGeminiAPIKey))
}

func TestEnv_Masked(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	env := LoadEnv(path)
	require.NoError(t, env.Set(EnvGeminiAPIKey, "AIzaSyB1234567890abcdef"))

	masked := env.Masked()
	assert.Equal(t, "AIza...cdef", masked[EnvGeminiAPIKey])
	assert.NotContains(t, masked[EnvGeminiAPIKey], "1234567890")
}
