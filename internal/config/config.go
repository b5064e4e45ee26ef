package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode   `yaml:"mode"`
	HTTPAddr string `yaml:"http_addr"`

	RequestTimeout time.Duration `yaml:"request_timeout"`

	// Remote question source
	UpstreamBaseURL     string        `yaml:"upstream_base_url"`
	ImageBaseURL        string        `yaml:"image_base_url"`
	UpstreamTimeout     time.Duration `yaml:"upstream_timeout"` // per call
	UpstreamConcurrency int           `yaml:"upstream_concurrency"`

	DefaultQuestionCount int `yaml:"default_question_count"`
	MaxYearSpan          int `yaml:"max_year_span"`

	SessionBackend string        `yaml:"session_backend"` // memory|sql
	SessionTTL     time.Duration `yaml:"session_ttl"`     // 0 keeps sessions for the process lifetime

	DBDriver string `yaml:"db_driver"`
	DBDSN    string `yaml:"db_dsn"`

	AssetsPath   string `yaml:"assets_path"`
	LogoKey      string `yaml:"logo_key"`
	ExposeAssets bool   `yaml:"expose_assets"` // mount GET /assets/*

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"` // text|json

	CORSOriginsOnline  []string `yaml:"cors_origins_online"`
	CORSOriginsOffline []string `yaml:"cors_origins_offline"`
}

func Defaults() Config {
	return Config{
		Mode:                 ModeOffline,
		HTTPAddr:             ":3000",
		RequestTimeout:       60 * time.Second,
		UpstreamBaseURL:      "https://api.fs-quiz.eu/2",
		ImageBaseURL:         "https://img.fs-quiz.eu/",
		UpstreamTimeout:      10 * time.Second,
		UpstreamConcurrency:  8,
		DefaultQuestionCount: 5,
		MaxYearSpan:          30,
		SessionBackend:       "memory",
		DBDriver:             "sqlite",
		AssetsPath:           "./assets",
		LogoKey:              "logo.png",
		ExposeAssets:         true,
		LogLevel:             "info",
		LogFormat:            "text",
		CORSOriginsOnline:    []string{"https://quiz.fs-quiz.eu"},
		CORSOriginsOffline:   []string{"http://localhost:3000", "http://localhost:5500", "http://127.0.0.1:5500"},
	}
}

// Load layers defaults, the optional CONFIG_FILE and the environment, in that order.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Mode = Mode(envOr("MODE", string(c.Mode)))
	c.HTTPAddr = envOr("HTTP_ADDR", c.HTTPAddr)
	c.RequestTimeout = envDuration("REQUEST_TIMEOUT", c.RequestTimeout)
	c.UpstreamBaseURL = envOr("UPSTREAM_BASE_URL", c.UpstreamBaseURL)
	c.ImageBaseURL = envOr("IMAGE_BASE_URL", c.ImageBaseURL)
	c.UpstreamTimeout = envDuration("UPSTREAM_TIMEOUT", c.UpstreamTimeout)
	c.UpstreamConcurrency = envInt("UPSTREAM_CONCURRENCY", c.UpstreamConcurrency)
	c.DefaultQuestionCount = envInt("DEFAULT_QUESTION_COUNT", c.DefaultQuestionCount)
	c.MaxYearSpan = envInt("MAX_YEAR_SPAN", c.MaxYearSpan)
	c.SessionBackend = envOr("SESSION_BACKEND", c.SessionBackend)
	c.SessionTTL = envDuration("SESSION_TTL", c.SessionTTL)
	c.DBDriver = envOr("DB_DRIVER", c.DBDriver)
	c.DBDSN = envOr("DB_DSN", c.DBDSN)
	c.AssetsPath = envOr("ASSETS_PATH", c.AssetsPath)
	c.LogoKey = envOr("LOGO_KEY", c.LogoKey)
	c.ExposeAssets = envBool("EXPOSE_ASSETS", c.ExposeAssets)
	c.LogLevel = envOr("LOG_LEVEL", c.LogLevel)
	c.LogFormat = envOr("LOG_FORMAT", c.LogFormat)
	c.CORSOriginsOnline = csvOr("CORS_ORIGINS_ONLINE", c.CORSOriginsOnline)
	c.CORSOriginsOffline = csvOr("CORS_ORIGINS_OFFLINE", c.CORSOriginsOffline)
}

func (c Config) Validate() error {
	var errs []error
	if c.Mode != ModeOffline && c.Mode != ModeOnline {
		errs = append(errs, fmt.Errorf("mode must be %q or %q, got %q", ModeOffline, ModeOnline, c.Mode))
	}
	if strings.TrimSpace(c.UpstreamBaseURL) == "" {
		errs = append(errs, errors.New("upstream_base_url is required"))
	}
	if c.UpstreamTimeout <= 0 {
		errs = append(errs, errors.New("upstream_timeout must be positive"))
	}
	if c.UpstreamConcurrency <= 0 {
		errs = append(errs, errors.New("upstream_concurrency must be positive"))
	}
	if c.DefaultQuestionCount <= 0 {
		errs = append(errs, errors.New("default_question_count must be positive"))
	}
	if c.MaxYearSpan <= 0 {
		errs = append(errs, errors.New("max_year_span must be positive"))
	}
	if c.SessionTTL < 0 {
		errs = append(errs, errors.New("session_ttl must not be negative"))
	}
	switch c.SessionBackend {
	case "memory", "sql":
	default:
		errs = append(errs, fmt.Errorf("unsupported session_backend: %s", c.SessionBackend))
	}
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("unsupported db_driver: %s", c.DBDriver))
	}
	return errors.Join(errs...)
}

// CORSOrigins returns the allow-list for the active mode.
func (c Config) CORSOrigins() []string {
	if c.Mode == ModeOnline {
		return c.CORSOriginsOnline
	}
	return c.CORSOriginsOffline
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func envInt(k string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(k)))
	if err != nil {
		return def
	}
	return v
}
func envDuration(k string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(k)))
	if err != nil {
		return def
	}
	return v
}
func csvOr(k string, def []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
