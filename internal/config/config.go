package config

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// ErrNoTransport is returned when neither the Telegram bot nor the HTTP API
// is configured.
var ErrNoTransport = errors.New("set TELEGRAM_BOT_TOKEN or HTTP_ADDR")

// Config holds all configuration for the application.
// Values are read by viper from a config file or environment variables.
type Config struct {
	TelegramBotToken string `mapstructure:"TELEGRAM_BOT_TOKEN"`
	HTTPAddr         string `mapstructure:"HTTP_ADDR"`

	// BadgerDBPath empty keeps libraries in memory only.
	BadgerDBPath string `mapstructure:"BADGERDB_PATH"`

	// GeminiAPIKey empty disables AI classification; every reel is then
	// classified by the offline heuristics.
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel  string `mapstructure:"GEMINI_MODEL"`
	// GeminiRequestsPerSecond 0 disables client-side pacing.
	GeminiRequestsPerSecond float64 `mapstructure:"GEMINI_REQUESTS_PER_SECOND"`

	// ScrapeURLs enables headless-browser metadata lookup for links.
	ScrapeURLs bool `mapstructure:"SCRAPE_URLS"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
}

func setDefaults(v *viper.Viper) {
	// AutomaticEnv only resolves keys viper already knows about.
	v.SetDefault("TELEGRAM_BOT_TOKEN", "")
	v.SetDefault("HTTP_ADDR", "")
	v.SetDefault("BADGERDB_PATH", "")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-2.0-flash")
	v.SetDefault("GEMINI_REQUESTS_PER_SECOND", 1.0)
	v.SetDefault("SCRAPE_URLS", false)
	v.SetDefault("LOG_LEVEL", "info")
}

// LoadConfig reads configuration from path/config.yaml and environment
// variables. Environment variables win. A missing config file is not an error.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks field ranges and that at least one transport is enabled.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.GeminiModel, validation.Required),
		validation.Field(&c.GeminiRequestsPerSecond, validation.Min(0.0)),
		validation.Field(&c.LogLevel, validation.By(validLevel)),
	); err != nil {
		return err
	}
	if c.TelegramBotToken == "" && c.HTTPAddr == "" {
		return ErrNoTransport
	}
	return nil
}

// Level returns the parsed log level.
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

func validLevel(value any) error {
	s, _ := value.(string)
	if _, err := logrus.ParseLevel(s); err != nil {
		return errors.New("must be a logrus level such as debug, info or warn")
	}
	return nil
}
