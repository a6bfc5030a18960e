package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GEMINI_WORKER_TOKEN", "ghp_test")
	t.Setenv("GEMINI_WORKER_OWNER", "yasha-ai")
	t.Setenv("GEMINI_WORKER_REPO", "content")
}

func TestLoad(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "ghp_test", cfg.Token)
	assert.Equal(t, "yasha-ai", cfg.Owner)
	assert.Equal(t, "content", cfg.Repo)
	assert.Equal(t, "main", cfg.Ref)
	assert.Equal(t, "https://api.github.com", cfg.BaseURL)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GEMINI_WORKER_REF", "develop")
	t.Setenv("GEMINI_WORKER_API_URL", "https://github.internal/api/v3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "develop", cfg.Ref)
	assert.Equal(t, "https://github.internal/api/v3", cfg.BaseURL)
}

func TestLoadMissingToken(t *testing.T) {
	t.Setenv("GEMINI_WORKER_OWNER", "yasha-ai")
	t.Setenv("GEMINI_WORKER_REPO", "content")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid",
			cfg:  Config{Token: "t", Owner: "o", Repo: "r"},
		},
		{
			name:    "empty token",
			cfg:     Config{Owner: "o", Repo: "r"},
			wantErr: true,
		},
		{
			name:    "owner contains slash",
			cfg:     Config{Token: "t", Owner: "o/r", Repo: "r"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
