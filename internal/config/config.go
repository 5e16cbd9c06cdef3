package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrMissingKey reports that a credential the caller needs is not configured.
var ErrMissingKey = errors.New("missing configuration key")

// Recognized credential keys.
const (
	KeyAIGateway         = "aiGatewayKey"
	KeyWeatherAPI        = "weatherApiKey"
	KeyNewsAPI           = "newsApiKey"
	KeyMarketAPI         = "marketApiKey"
	KeyStorageURL        = "storageUrl"
	KeyStorageServiceKey = "storageServiceKey"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Auth     AuthConfig     `yaml:"auth"`
	Storage  StorageConfig  `yaml:"storage"`
	Upstream UpstreamConfig `yaml:"upstream"`
	AI       AIConfig       `yaml:"ai"`
	Weather  WeatherConfig  `yaml:"weather"`
	News     NewsConfig     `yaml:"news"`
	Market   MarketConfig   `yaml:"market"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

// AuthConfig holds the secret the hosted auth service signs user tokens with.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// StorageConfig points at the shared relational store. Driver is one of
// postgres, mysql or sqlite.
type StorageConfig struct {
	Driver     string `yaml:"driver"`
	URL        string `yaml:"url"`
	ServiceKey string `yaml:"service_key"`
	NewsLimit  int    `yaml:"news_limit"`
	PriceLimit int    `yaml:"price_limit"`
}

type UpstreamConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

type AIConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

type WeatherConfig struct {
	BaseURL   string  `yaml:"base_url"`
	APIKey    string  `yaml:"api_key"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

type NewsConfig struct {
	BaseURL  string `yaml:"base_url"`
	APIKey   string `yaml:"api_key"`
	PageSize int    `yaml:"page_size"`
}

type MarketConfig struct {
	BaseURL    string `yaml:"base_url"`
	APIKey     string `yaml:"api_key"`
	ResourceID string `yaml:"resource_id"`
	Limit      int    `yaml:"limit"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default returns the built-in configuration before any file or environment
// overrides are applied.
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Port: 8080},
		Log:      LogConfig{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
		Storage:  StorageConfig{Driver: "postgres", NewsLimit: 20, PriceLimit: 50},
		Upstream: UpstreamConfig{TimeoutSeconds: 30},
		AI:       AIConfig{BaseURL: "https://ai.gateway.lovable.dev/v1", Model: "google/gemini-2.5-flash"},
		Weather:  WeatherConfig{BaseURL: "https://api.openweathermap.org", Latitude: 28.6139, Longitude: 77.2090},
		News:     NewsConfig{BaseURL: "https://newsapi.org", PageSize: 20},
		Market: MarketConfig{
			BaseURL:    "https://api.data.gov.in",
			ResourceID: "9ef84268-d588-465a-a308-a864a43d0070",
			Limit:      100,
		},
		Metrics: MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func Load(configFile string) *Config {
	c := Default()

	// .env only seeds variables that are not already set in the process.
	_ = godotenv.Load()

	paths := []string{"etc/config-dev.yaml", "/etc/farmer-support/config.yaml"}
	if configFile != "" {
		paths = []string{configFile}
	}
	for _, path := range paths {
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, c)
			break
		}
	}

	envOverride(&c.AI.APIKey, "LOVABLE_API_KEY")
	envOverride(&c.AI.APIKey, "AI_GATEWAY_KEY")
	envOverride(&c.AI.BaseURL, "AI_GATEWAY_URL")
	envOverride(&c.AI.Model, "AI_MODEL")
	envOverride(&c.Weather.APIKey, "OPENWEATHER_API_KEY")
	envOverride(&c.News.APIKey, "NEWS_API_KEY")
	envOverride(&c.Market.APIKey, "DATA_GOV_API_KEY")
	envOverride(&c.Storage.Driver, "STORAGE_DRIVER")
	envOverride(&c.Storage.URL, "DATABASE_URL")
	envOverride(&c.Storage.URL, "SUPABASE_DB_URL")
	envOverride(&c.Storage.ServiceKey, "SUPABASE_SERVICE_ROLE_KEY")
	envOverride(&c.Auth.JWTSecret, "SUPABASE_JWT_SECRET")
	envOverride(&c.Log.Level, "LOG_LEVEL")
	envOverride(&c.Log.File, "LOG_FILE")
	envOverrideInt(&c.Server.Port, "PORT")
	envOverrideInt(&c.Upstream.TimeoutSeconds, "UPSTREAM_TIMEOUT_SECONDS")
	envOverrideFloat(&c.Weather.Latitude, "DEFAULT_LATITUDE")
	envOverrideFloat(&c.Weather.Longitude, "DEFAULT_LONGITUDE")

	return c
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// Require returns the value of a recognized credential key, or an error
// wrapping ErrMissingKey when it is empty.
func (c *Config) Require(key string) (string, error) {
	var v string
	switch key {
	case KeyAIGateway:
		v = c.AI.APIKey
	case KeyWeatherAPI:
		v = c.Weather.APIKey
	case KeyNewsAPI:
		v = c.News.APIKey
	case KeyMarketAPI:
		v = c.Market.APIKey
	case KeyStorageURL:
		v = c.Storage.URL
	case KeyStorageServiceKey:
		v = c.Storage.ServiceKey
	default:
		return "", fmt.Errorf("unknown configuration key %q", key)
	}
	if v == "" {
		return "", fmt.Errorf("%s: %w", key, ErrMissingKey)
	}
	return v, nil
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envOverrideFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}
