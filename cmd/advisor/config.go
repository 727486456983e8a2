package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the process configuration, read from config.yaml and the environment.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Store   StoreConfig   `mapstructure:"store"`
	Advisor AdvisorConfig `mapstructure:"advisor"`
	Logger  LoggerConfig  `mapstructure:"logger"`
	Tracer  TracerConfig  `mapstructure:"tracer"`
}

type ServerConfig struct {
	Addr           string        `mapstructure:"addr"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type LLMConfig struct {
	// Provider is "openai" or "anthropic".
	Provider        string        `mapstructure:"provider"`
	Model           string        `mapstructure:"model"`
	BaseURL         string        `mapstructure:"base_url"`
	Language        string        `mapstructure:"language"`
	MaxTokens       int           `mapstructure:"max_tokens"`
	Timeout         time.Duration `mapstructure:"timeout"`
	OpenAIAPIKey    string        `mapstructure:"openai_api_key"`
	AnthropicAPIKey string        `mapstructure:"anthropic_api_key"`
}

type CatalogConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIID   string        `mapstructure:"api_id"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type StoreConfig struct {
	// Driver is "sqlite", "postgres" or "memory".
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
	DSN    string `mapstructure:"dsn"`
}

type AdvisorConfig struct {
	SearchLimit      int    `mapstructure:"search_limit"`
	FetchConcurrency int    `mapstructure:"fetch_concurrency"`
	CategoriesFile   string `mapstructure:"categories_file"`
}

type LoggerConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type TracerConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Exporter string `mapstructure:"exporter"`
}

// credentialEnv maps config keys to the conventional environment variables holding them.
var credentialEnv = map[string]string{
	"llm.openai_api_key":    "OPENAI_API_KEY",
	"llm.anthropic_api_key": "ANTHROPIC_API_KEY",
	"catalog.api_id":        "TECHSPECS_API_ID",
	"catalog.api_key":       "TECHSPECS_API_KEY",
}

// Load reads .env and config.yaml from dir, then applies ADVISOR_* environment overrides.
// A missing config file is not an error; missing credentials are.
func Load(dir string) (*Config, error) {
	loadEnvFile(filepath.Join(dir, ".env"))

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("ADVISOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, env := range credentialEnv {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile(paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
		}
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.request_timeout", "120s")

	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.language", "en")
	v.SetDefault("llm.max_tokens", 0)
	v.SetDefault("llm.timeout", "60s")

	v.SetDefault("catalog.base_url", "https://api.techspecs.io/v5")
	v.SetDefault("catalog.timeout", "10s")

	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "user_profiles.db")
	v.SetDefault("store.dsn", "")

	v.SetDefault("advisor.search_limit", 5)
	v.SetDefault("advisor.fetch_concurrency", 1)
	v.SetDefault("advisor.categories_file", "")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "text")
	v.SetDefault("logger.output", "stderr")

	v.SetDefault("tracer.enabled", false)
	v.SetDefault("tracer.exporter", "noop")
}

func (c *Config) validate() error {
	switch c.LLM.Provider {
	case "openai":
		if c.LLM.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY is not set")
		}
	case "anthropic":
		if c.LLM.AnthropicAPIKey == "" {
			return errors.New("ANTHROPIC_API_KEY is not set")
		}
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}

	if c.Catalog.APIID == "" {
		return errors.New("TECHSPECS_API_ID is not set")
	}
	if c.Catalog.APIKey == "" {
		return errors.New("TECHSPECS_API_KEY is not set")
	}

	switch c.Store.Driver {
	case "sqlite":
		if c.Store.Path == "" {
			return errors.New("store.path is required for sqlite")
		}
	case "postgres":
		if c.Store.DSN == "" {
			return errors.New("store.dsn is required for postgres")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	return nil
}
