package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/rowanarora/personal-website/internal/github"
	"github.com/rowanarora/personal-website/internal/session"
)

// EnvPrefix prefixes every environment override, e.g. PORTFOLIO_GITHUB_OWNER.
const EnvPrefix = "PORTFOLIO"

// Config is the resolved server configuration.
type Config struct {
	Port          string        `mapstructure:"port"`
	GitHubOwner   string        `mapstructure:"github-owner"`
	GitHubAPI     string        `mapstructure:"github-api"`
	GitHubExclude []string      `mapstructure:"github-exclude"`
	GitHubLimit   int           `mapstructure:"github-limit"`
	ContentFile   string        `mapstructure:"content-file"`
	PublicDir     string        `mapstructure:"public-dir"`
	SessionDSN    string        `mapstructure:"session-dsn"`
	SessionTTL    time.Duration `mapstructure:"session-ttl"`
	LogLevel      string        `mapstructure:"log-level"`
	Debug         bool          `mapstructure:"debug"`
}

// SetDefaults registers defaults and environment binding on v. The bare PORT
// variable is honored the way hosting platforms set it.
func SetDefaults(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("github-owner", "rowanarora")
	v.SetDefault("github-api", github.DefaultAPI)
	filter := github.DefaultFilter()
	v.SetDefault("github-exclude", filter.Exclude)
	v.SetDefault("github-limit", filter.Limit)
	v.SetDefault("content-file", "")
	v.SetDefault("public-dir", "./public")
	v.SetDefault("session-dsn", session.MemoryDSN)
	v.SetDefault("session-ttl", 24*time.Hour)
	v.SetDefault("log-level", "info")
	v.SetDefault("debug", false)

	_ = v.BindEnv("port", EnvPrefix+"_PORT", "PORT")
}

// ReadFile merges the config file into v. A missing file is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".portfolio")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return errors.Wrap(err, "error reading config file")
	}
	return nil
}

// Load unmarshals and validates the resolved settings in v.
func Load(v *viper.Viper) (cfg Config, err error) {
	err = v.Unmarshal(&cfg)
	if err != nil {
		err = errors.Wrap(err, "unable to unmarshal config")
		return cfg, err
	}

	err = cfg.Validate()
	return cfg, err
}

// Validate checks the settings that have no safe fallback.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.GitHubOwner == "" {
		return errors.New("github-owner is required")
	}
	if c.GitHubLimit < 0 {
		return errors.Errorf("github-limit must not be negative, got %d", c.GitHubLimit)
	}
	if c.SessionTTL <= 0 {
		return errors.Errorf("session-ttl must be positive, got %s", c.SessionTTL)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Filter returns the repository filter the settings describe.
func (c *Config) Filter() github.Filter {
	return github.Filter{Exclude: c.GitHubExclude, Limit: c.GitHubLimit}
}

// ParseLevel maps a level name onto slog.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return level, errors.Errorf("invalid log-level %q: must be one of debug, info, warn, error", name)
	}
	return level, nil
}
