package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[App]
Port = 8080
AllowedOrigins = ["https://news.example.com"]

[Storage]
Driver = "badger"

[Auth]
Secret = "s3cret"
TokenTTL = "2h"

[[Auth.Users]]
ID = "1"
Username = "admin"
PasswordHash = "$2a$10$hash"
Role = "admin"

[Broadcast]
PingInterval = "15s"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "0.0.0.0", cfg.App.Host, "default kept")
	assert.Equal(t, []string{"https://news.example.com"}, cfg.App.AllowedOrigins)
	assert.Equal(t, DriverBadger, cfg.Storage.Driver)
	assert.True(t, cfg.Storage.SeedDefaultTags)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL.Duration)
	assert.Equal(t, 15*time.Second, cfg.Broadcast.PingInterval.Duration)
	assert.Equal(t, 10*time.Second, cfg.Broadcast.WriteTimeout.Duration)
	require.Len(t, cfg.Auth.Users, 1)
	assert.Equal(t, "admin", cfg.Auth.Users[0].Username)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing secret", body: "[App]\nPort = 1\n"},
		{name: "unknown driver", body: "[Storage]\nDriver = \"sqlite\"\n[Auth]\nSecret = \"x\"\n"},
		{name: "bad duration", body: "[Auth]\nSecret = \"x\"\nTokenTTL = \"soon\"\n"},
		{name: "not toml", body: "App = ["},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
