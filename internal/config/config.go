package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Telegram TelegramConfig
	Detector DetectorConfig
	Logger   LoggerConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type TelegramConfig struct {
	Enabled bool
	// Bot API base URL, should not need to be changed.
	URL                   string
	Token                 string
	ChatID                string
	ParseMode             string
	DisableWebPagePreview bool
	DisableNotification   bool
	// Long-poll command bot (/start, /status).
	PollingEnabled bool
	PollTimeout    time.Duration
}

type DetectorConfig struct {
	CameraURL        string
	InferenceURL     string
	AlertServerURL   string
	TargetClass      string
	ConfThreshold    float64
	IoUThreshold     float64
	MinDuration      time.Duration
	SamplingDuration time.Duration
	SleepDuration    time.Duration
	SampleInterval   time.Duration
}

type LoggerConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("PORT", 8000)
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "postgres")
	v.SetDefault("DATABASE_NAME", "alerts")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)
	v.SetDefault("DATABASE_MAX_IDLE_CONNS", 2)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("TELEGRAM_ENABLED", true)
	v.SetDefault("TELEGRAM_URL", "https://api.telegram.org/bot")
	v.SetDefault("TELE_BOT_TOKEN", "")
	v.SetDefault("TELE_CHAT_ID", "")
	v.SetDefault("TELEGRAM_PARSE_MODE", "")
	v.SetDefault("TELEGRAM_DISABLE_WEB_PAGE_PREVIEW", false)
	v.SetDefault("TELEGRAM_DISABLE_NOTIFICATION", false)
	v.SetDefault("TELEGRAM_POLLING_ENABLED", false)
	v.SetDefault("TELEGRAM_POLL_TIMEOUT", "30s")
	v.SetDefault("DETECTOR_CAMERA_URL", "http://localhost:8080/snapshot")
	v.SetDefault("DETECTOR_INFERENCE_URL", "http://localhost:9001")
	v.SetDefault("API_SERVER_URL", "http://localhost:8000/send_alert")
	v.SetDefault("DETECTOR_TARGET_CLASS", "person")
	v.SetDefault("DETECTOR_CONF_THRESHOLD", 0.75)
	v.SetDefault("DETECTOR_IOU_THRESHOLD", 0.5)
	v.SetDefault("DETECTOR_MIN_DURATION", "2s")
	v.SetDefault("DETECTOR_SAMPLING_DURATION", "5s")
	v.SetDefault("DETECTOR_SLEEP_DURATION", "2s")
	v.SetDefault("DETECTOR_SAMPLE_INTERVAL", "500ms")
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")

	// Env
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("PORT"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DATABASE_HOST"),
			Port:            v.GetInt("DATABASE_PORT"),
			User:            v.GetString("DATABASE_USER"),
			Password:        v.GetString("DATABASE_PASSWORD"),
			Name:            v.GetString("DATABASE_NAME"),
			SSLMode:         v.GetString("DATABASE_SSLMODE"),
			MaxOpenConns:    v.GetInt("DATABASE_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DATABASE_MAX_IDLE_CONNS"),
			ConnMaxLifetime: parseDuration(v, "DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Telegram: TelegramConfig{
			Enabled:               v.GetBool("TELEGRAM_ENABLED"),
			URL:                   v.GetString("TELEGRAM_URL"),
			Token:                 v.GetString("TELE_BOT_TOKEN"),
			ChatID:                v.GetString("TELE_CHAT_ID"),
			ParseMode:             v.GetString("TELEGRAM_PARSE_MODE"),
			DisableWebPagePreview: v.GetBool("TELEGRAM_DISABLE_WEB_PAGE_PREVIEW"),
			DisableNotification:   v.GetBool("TELEGRAM_DISABLE_NOTIFICATION"),
			PollingEnabled:        v.GetBool("TELEGRAM_POLLING_ENABLED"),
			PollTimeout:           parseDuration(v, "TELEGRAM_POLL_TIMEOUT", 30*time.Second),
		},
		Detector: DetectorConfig{
			CameraURL:        v.GetString("DETECTOR_CAMERA_URL"),
			InferenceURL:     v.GetString("DETECTOR_INFERENCE_URL"),
			AlertServerURL:   v.GetString("API_SERVER_URL"),
			TargetClass:      v.GetString("DETECTOR_TARGET_CLASS"),
			ConfThreshold:    v.GetFloat64("DETECTOR_CONF_THRESHOLD"),
			IoUThreshold:     v.GetFloat64("DETECTOR_IOU_THRESHOLD"),
			MinDuration:      parseDuration(v, "DETECTOR_MIN_DURATION", 2*time.Second),
			SamplingDuration: parseDuration(v, "DETECTOR_SAMPLING_DURATION", 5*time.Second),
			SleepDuration:    parseDuration(v, "DETECTOR_SLEEP_DURATION", 2*time.Second),
			SampleInterval:   parseDuration(v, "DETECTOR_SAMPLE_INTERVAL", 500*time.Millisecond),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return fallback
	}
	return d
}
