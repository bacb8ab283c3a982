package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/sakif/form-backend/internal/auth"
	"github.com/sakif/form-backend/internal/server"
)

type appConfig struct {
	Server   server.Config
	LogLevel slog.Level
}

func loadConfig() (appConfig, error) {
	cfg := appConfig{
		Server: server.Config{
			Port:           8080,
			DBPath:         "data/forms.db",
			PasswordScheme: auth.SchemeSHA256,
			BcryptCost:     12,
		},
		LogLevel: slog.LevelInfo,
	}

	if v, ok := lookupNonEmptyEnv("PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return cfg, fmt.Errorf("invalid PORT %q", v)
		}
		cfg.Server.Port = port
	}
	if v, ok := lookupNonEmptyEnv("DB_PATH"); ok {
		cfg.Server.DBPath = v
	}
	if v, ok := lookupNonEmptyEnv("DB_BOOTSTRAP"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid DB_BOOTSTRAP %q", v)
		}
		cfg.Server.Bootstrap = b
	}
	if v, ok := lookupNonEmptyEnv("PASSWORD_SCHEME"); ok {
		cfg.Server.PasswordScheme = auth.Scheme(strings.ToLower(v))
	}
	if v, ok := lookupNonEmptyEnv("BCRYPT_COST"); ok {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid BCRYPT_COST %q", v)
		}
		cfg.Server.BcryptCost = cost
	}
	if v, ok := lookupNonEmptyEnv("LOG_LEVEL"); ok {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return cfg, fmt.Errorf("invalid LOG_LEVEL %q", v)
		}
	}

	return cfg, nil
}

func lookupNonEmptyEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return "", false
	}
	return trimmed, true
}
