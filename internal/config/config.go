// Package config loads poolbot settings from flags, environment, .env and an
// optional config file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/Sternrassler/raydium-pools-bot/pkg/client"
	"github.com/Sternrassler/raydium-pools-bot/pkg/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. POOLBOT_TOKEN.
const EnvPrefix = "POOLBOT"

// ErrMissingToken is returned when the bot is started without a token.
var ErrMissingToken = errors.New("bot token is required (set POOLBOT_TOKEN or --token)")

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	Token       string
	APIBaseURL  string
	PageSize    int
	HTTPTimeout time.Duration
	UserAgent   string
	PollTimeout time.Duration
	MetricsAddr string
	LogLevel    string
	LogPretty   bool
}

// Load merges a .env file, config file, environment variables and flags into
// Config. An empty envFile means ./.env if it exists.
func Load(cfgFile, envFile string, flags *pflag.FlagSet) (Config, error) {
	if err := loadDotEnv(envFile); err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("token", EnvPrefix+"_TOKEN", "TELEGRAM_BOT_TOKEN"); err != nil {
		return Config{}, fmt.Errorf("bind token env: %w", err)
	}

	v.SetDefault("api-base-url", client.DefaultBaseURL)
	v.SetDefault("page-size", client.DefaultPageSize)
	v.SetDefault("http-timeout", 30*time.Second)
	v.SetDefault("user-agent", "raydium-pools-bot/0.1.0")
	v.SetDefault("poll-timeout", 60*time.Second)
	v.SetDefault("metrics-addr", ":9090")
	v.SetDefault("log-level", "info")
	v.SetDefault("log-pretty", false)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("poolbot")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		Token:       strings.TrimSpace(v.GetString("token")),
		APIBaseURL:  v.GetString("api-base-url"),
		PageSize:    v.GetInt("page-size"),
		HTTPTimeout: v.GetDuration("http-timeout"),
		UserAgent:   v.GetString("user-agent"),
		PollTimeout: v.GetDuration("poll-timeout"),
		MetricsAddr: v.GetString("metrics-addr"),
		LogLevel:    v.GetString("log-level"),
		LogPretty:   v.GetBool("log-pretty"),
	}

	return cfg, cfg.validate()
}

// RequireToken reports ErrMissingToken when no bot token was configured.
func (c Config) RequireToken() error {
	if c.Token == "" {
		return ErrMissingToken
	}
	return nil
}

// ClientConfig returns the Raydium client configuration.
func (c Config) ClientConfig() client.Config {
	return client.Config{
		BaseURL:   c.APIBaseURL,
		UserAgent: c.UserAgent,
		PageSize:  c.PageSize,
		Timeout:   c.HTTPTimeout,
	}
}

// LoggingConfig returns the logger configuration. Load has already validated
// the level.
func (c Config) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level, _ = logging.ParseLevel(c.LogLevel)
	cfg.Pretty = c.LogPretty
	return cfg
}

func (c Config) validate() error {
	if c.PageSize < 1 {
		return fmt.Errorf("page-size must be >= 1 (got %d)", c.PageSize)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("http-timeout must not be negative (got %s)", c.HTTPTimeout)
	}
	if u, err := url.Parse(c.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api-base-url %q is not an absolute URL", c.APIBaseURL)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// loadDotEnv loads envFile, or ./.env when envFile is empty. A missing
// default file is not an error. Existing environment variables win.
func loadDotEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}
