package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("FITZ_API_URL", "https://fitz.example.com/api/")
	t.Setenv("FITZ_SEARCH_DEBOUNCE", "250ms")
	t.Setenv("FITZ_SEARCH_LIMIT", "5")
	t.Setenv("FITZ_DEBUG", "true")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "https://fitz.example.com/api", cfg.APIURL)
	assert.Equal(t, 250*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, 5, cfg.SearchLimit)
	assert.True(t, cfg.Debug)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	t.Setenv("FITZ_API_URL", "localhost:8000")
	_, err := FromEnv()
	require.Error(t, err)

	t.Setenv("FITZ_API_URL", DefaultAPIURL)
	t.Setenv("FITZ_SEARCH_LIMIT", "0")
	_, err = FromEnv()
	require.Error(t, err)

	t.Setenv("FITZ_SEARCH_LIMIT", "twenty")
	_, err = FromEnv()
	require.Error(t, err)
}
