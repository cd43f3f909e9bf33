// Package config loads runtime settings from a YAML file, BACALC_* environment
// variables and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "BACALC"
	configName     = ".bacalc"
	FeedNone       = "none"
	FeedFirestore  = "firestore"
	FeedFile       = "file"
	defaultRefresh = "@every 10m"
)

// Config holds application configuration
type Config struct {
	HTTPAddr string     `mapstructure:"http_addr"`
	GRPCAddr string     `mapstructure:"grpc_addr"`
	Data     DataConfig `mapstructure:"data"`
	Log      LogConfig  `mapstructure:"log"`
	Feed     FeedConfig `mapstructure:"feed"`
	Pace     PaceConfig `mapstructure:"pace"`
}

type DataConfig struct {
	Dir           string        `mapstructure:"dir"` // empty: embedded tables only
	WatchInterval time.Duration `mapstructure:"watch_interval"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// FeedConfig selects where banners come from.
type FeedConfig struct {
	Source     string        `mapstructure:"source"` // none, firestore or file
	BaseURL    string        `mapstructure:"base_url"`
	ProjectID  string        `mapstructure:"project_id"`
	Collection string        `mapstructure:"collection"`
	APIKey     string        `mapstructure:"api_key"`
	File       string        `mapstructure:"file"`
	Refresh    string        `mapstructure:"refresh"` // cron spec
	Timeout    time.Duration `mapstructure:"timeout"`
}

// PaceConfig is the default daily pats and monthly gifts for bond estimates.
type PaceConfig struct {
	PatsPerDay    int `mapstructure:"pats_per_day"`
	GiftsPerMonth int `mapstructure:"gifts_per_month"`
}

// SetDefaults registers every key so environment variables can override it.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("grpc_addr", ":9090")
	v.SetDefault("data.dir", "")
	v.SetDefault("data.watch_interval", 5*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("feed.source", FeedNone)
	v.SetDefault("feed.base_url", "")
	v.SetDefault("feed.project_id", "")
	v.SetDefault("feed.collection", "banners")
	v.SetDefault("feed.api_key", "")
	v.SetDefault("feed.file", "")
	v.SetDefault("feed.refresh", defaultRefresh)
	v.SetDefault("feed.timeout", 15*time.Second)
	v.SetDefault("pace.pats_per_day", 5)
	v.SetDefault("pace.gifts_per_month", 50)
}

// NewViper returns a viper instance with defaults and env binding. Keys map
// to variables like BACALC_FEED_PROJECT_ID.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile points v at cfgFile, or at $HOME/.bacalc.yaml when empty. A
// missing default file is not an error; a missing explicit file is.
func ReadFile(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return err
		}
		v.AddConfigPath(home)
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &nf) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load reads .env, the config file and the environment into a Config.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := ReadFile(v, cfgFile); err != nil {
		return nil, err
	}
	return Decode(v)
}

// Decode unmarshals and validates what v currently holds.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Feed.Source = strings.ToLower(strings.TrimSpace(cfg.Feed.Source))
	if cfg.Data.Dir != "" {
		dir, err := homedir.Expand(cfg.Data.Dir)
		if err != nil {
			return nil, fmt.Errorf("expand data dir: %w", err)
		}
		cfg.Data.Dir = dir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the combinations Load cannot default away.
func (c *Config) Validate() error {
	var errs []string
	switch c.Feed.Source {
	case FeedNone, "":
	case FeedFirestore:
		if c.Feed.ProjectID == "" {
			errs = append(errs, "feed.project_id is required for the firestore feed")
		}
	case FeedFile:
		if c.Feed.File == "" {
			errs = append(errs, "feed.file is required for the file feed")
		}
	default:
		errs = append(errs, fmt.Sprintf("feed.source %q is not one of none, firestore, file", c.Feed.Source))
	}
	if c.Feed.Source != FeedNone && c.Feed.Source != "" && c.Feed.Refresh == "" {
		errs = append(errs, "feed.refresh must be a cron spec")
	}
	if c.Pace.PatsPerDay < 0 || c.Pace.GiftsPerMonth < 0 {
		errs = append(errs, "pace values must be non-negative")
	}
	if c.Data.WatchInterval < 0 {
		errs = append(errs, "data.watch_interval must be non-negative")
	}
	if len(errs) > 0 {
		return errors.New("invalid config: " + strings.Join(errs, "; "))
	}
	return nil
}
