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

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
[backend]
url = "https://api.spa.test"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, "info", cfg.Logs.Level)
	assert.Equal(t, 72*time.Hour, cfg.Booking.Policy().ConfirmOpens)
	assert.Equal(t, 24*time.Hour, cfg.Booking.Policy().ConfirmCloses)
	assert.Equal(t, 72*time.Hour, cfg.Booking.Policy().CancelNotice)
	assert.Equal(t, []time.Duration{24 * time.Hour, time.Hour}, cfg.Calendar.Alarms())
	assert.Equal(t, "not_determined", cfg.Calendar.Access)
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `
[backend]
url = "https://api.spa.test"
timeout = 5

[booking]
confirm_opens_hours = 48
confirm_closes_hours = 12
cancel_notice_hours = 24
timezone = "UTC"

[calendar]
name = "Spa"
access = "granted"
alarms_minutes = [30]

[database]
host = "db"
port = 5433
user = "spa"
password = "secret"
dbname = "spa"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 48*time.Hour, cfg.Booking.Policy().ConfirmOpens)
	assert.Equal(t, 24*time.Hour, cfg.Booking.Policy().CancelNotice)
	assert.Equal(t, []time.Duration{30 * time.Minute}, cfg.Calendar.Alarms())
	assert.Equal(t, "host=db port=5433 user=spa password=secret dbname=spa sslmode=disable", cfg.Database.DSN())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing backend url", `[logs]
level = "debug"`},
		{"inverted confirm window", `[backend]
url = "http://x"
[booking]
confirm_opens_hours = 10
confirm_closes_hours = 20`},
		{"unknown calendar access", `[backend]
url = "http://x"
[calendar]
access = "maybe"`},
		{"unknown timezone", `[backend]
url = "http://x"
[booking]
timezone = "Mars/Olympus"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
