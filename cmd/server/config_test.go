package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/form-backend/internal/auth"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_PATH", "DB_BOOTSTRAP", "PASSWORD_SCHEME", "BCRYPT_COST", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := loadConfig()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "data/forms.db", cfg.Server.DBPath)
	assert.False(t, cfg.Server.Bootstrap)
	assert.Equal(t, auth.SchemeSHA256, cfg.Server.PasswordScheme)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", " 9090 ")
	t.Setenv("DB_PATH", "/tmp/forms.db")
	t.Setenv("DB_BOOTSTRAP", "true")
	t.Setenv("PASSWORD_SCHEME", "BCRYPT")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := loadConfig()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/tmp/forms.db", cfg.Server.DBPath)
	assert.True(t, cfg.Server.Bootstrap)
	assert.Equal(t, auth.SchemeBcrypt, cfg.Server.PasswordScheme)
	assert.Equal(t, 10, cfg.Server.BcryptCost)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"PORT", "eighty"},
		{"PORT", "70000"},
		{"DB_BOOTSTRAP", "maybe"},
		{"BCRYPT_COST", "high"},
		{"LOG_LEVEL", "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := loadConfig()

			assert.ErrorContains(t, err, tt.key)
		})
	}
}
