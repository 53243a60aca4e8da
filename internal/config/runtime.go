package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "SCREENING"

type Runtime struct {
	App     AppConfig     `mapstructure:"app"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Logging LoggingConfig `mapstructure:"logging"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Policy  PolicyConfig  `mapstructure:"policy"`
	History HistoryConfig `mapstructure:"history"`
	Alerts  AlertsConfig  `mapstructure:"alerts"`
	Share   ShareConfig   `mapstructure:"share"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CacheConfig selects Redis when RedisAddr is set, the in-process map
// otherwise. MaxItems 0 disables the in-process cache.
type CacheConfig struct {
	MaxItems      int           `mapstructure:"max_items"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	TTL           time.Duration `mapstructure:"ttl"`
}

type PolicyConfig struct {
	MaxSteps  int `mapstructure:"max_steps"`
	ObsBuffer int `mapstructure:"obs_buffer"`
}

// HistoryConfig uses Postgres when PostgresDSN is set and keeps at most
// MaxRecords in memory otherwise.
type HistoryConfig struct {
	PostgresDSN    string `mapstructure:"postgres_dsn"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxRecords     int    `mapstructure:"max_records"`
}

type AlertsConfig struct {
	Region      string        `mapstructure:"region"`
	SNSTopicARN string        `mapstructure:"sns_topic_arn"`
	EmailFrom   string        `mapstructure:"email_from"`
	EmailTo     []string      `mapstructure:"email_to"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type ShareConfig struct {
	DefaultLanguage string `mapstructure:"default_language"`
	IncludePatient  bool   `mapstructure:"include_patient"`
	IncludeVillage  bool   `mapstructure:"include_village"`
}

var defaults = map[string]any{
	"app.name":                "under5-screening",
	"app.environment":         "development",
	"http.addr":               ":8080",
	"http.read_timeout":       "10s",
	"http.write_timeout":      "10s",
	"http.shutdown_timeout":   "15s",
	"logging.level":           "info",
	"logging.format":          "json",
	"cache.max_items":         1024,
	"cache.redis_addr":        "",
	"cache.redis_password":    "",
	"cache.redis_db":          0,
	"cache.ttl":               "24h",
	"policy.max_steps":        64,
	"policy.obs_buffer":       4096,
	"history.postgres_dsn":    "",
	"history.max_connections": 10,
	"history.max_records":     10000,
	"alerts.region":           "eu-west-1",
	"alerts.sns_topic_arn":    "",
	"alerts.email_from":       "",
	"alerts.email_to":         []string{},
	"alerts.timeout":          "3s",
	"share.default_language":  "en",
	"share.include_patient":   false,
	"share.include_village":   false,
}

// Load reads configs/config.yaml when present and applies SCREENING_*
// environment overrides. A .env file is loaded into the environment first
// and never replaces variables that are already set.
func Load() (Runtime, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Runtime{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Runtime{}, fmt.Errorf("error reading config: %w", err)
		}
	}

	return FromViper(v)
}

// FromViper applies defaults and environment overrides to v and decodes it.
func FromViper(v *viper.Viper) (Runtime, error) {
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Runtime
	if err := v.Unmarshal(&cfg); err != nil {
		return Runtime{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Alerts.EmailTo = compact(cfg.Alerts.EmailTo)
	cfg.Share.DefaultLanguage = strings.TrimSpace(cfg.Share.DefaultLanguage)

	if err := cfg.Validate(); err != nil {
		return Runtime{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c Runtime) Validate() error {
	var errs []error
	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q is not one of debug|info|warn|error", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q is not one of json|console", c.Logging.Format))
	}
	if c.Cache.MaxItems < 0 {
		errs = append(errs, errors.New("cache.max_items must not be negative"))
	}
	if c.Cache.TTL < 0 {
		errs = append(errs, errors.New("cache.ttl must not be negative"))
	}
	if c.Policy.MaxSteps < 1 {
		errs = append(errs, errors.New("policy.max_steps must be at least 1"))
	}
	if c.Policy.ObsBuffer < 1 {
		errs = append(errs, errors.New("policy.obs_buffer must be at least 1"))
	}
	if c.History.PostgresDSN != "" && c.History.MaxConnections < 1 {
		errs = append(errs, errors.New("history.max_connections must be at least 1"))
	}
	if c.History.PostgresDSN == "" && c.History.MaxRecords < 1 {
		errs = append(errs, errors.New("history.max_records must be at least 1"))
	}
	if c.Alerts.EmailFrom != "" && len(c.Alerts.EmailTo) == 0 {
		errs = append(errs, errors.New("alerts.email_to is required when alerts.email_from is set"))
	}
	if c.Share.DefaultLanguage == "" {
		errs = append(errs, errors.New("share.default_language is required"))
	}
	return errors.Join(errs...)
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
