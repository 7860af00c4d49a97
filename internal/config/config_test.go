package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	assert.Equal(t, "person", cfg.Detector.TargetClass)
	assert.Equal(t, 0.75, cfg.Detector.ConfThreshold)
	assert.Equal(t, 0.5, cfg.Detector.IoUThreshold)
	assert.Equal(t, 2*time.Second, cfg.Detector.MinDuration)
	assert.Equal(t, 5*time.Second, cfg.Detector.SamplingDuration)
	assert.Equal(t, 2*time.Second, cfg.Detector.SleepDuration)
	assert.Equal(t, "http://localhost:8000/send_alert", cfg.Detector.AlertServerURL)

	assert.Equal(t, "https://api.telegram.org/bot", cfg.Telegram.URL)
	assert.True(t, cfg.Telegram.Enabled)
	assert.False(t, cfg.Telegram.PollingEnabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TELE_BOT_TOKEN", "secret-token")
	t.Setenv("TELE_CHAT_ID", "777")
	t.Setenv("DETECTOR_TARGET_CLASS", "dog")
	t.Setenv("DETECTOR_MIN_DURATION", "10s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "secret-token", cfg.Telegram.Token)
	assert.Equal(t, "777", cfg.Telegram.ChatID)
	assert.Equal(t, "dog", cfg.Detector.TargetClass)
	assert.Equal(t, 10*time.Second, cfg.Detector.MinDuration)
}

func TestLoad_BadDurationFallsBack(t *testing.T) {
	t.Setenv("DETECTOR_MIN_DURATION", "whenever")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Detector.MinDuration)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "svc",
		Password: "pw",
		Name:     "alerts",
		SSLMode:  "require",
	}
	assert.Equal(t, "postgres://svc:pw@db.internal:5433/alerts?sslmode=require", d.DSN())
}
