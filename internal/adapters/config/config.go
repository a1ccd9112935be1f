package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"

	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Provider ProviderConfig `yaml:"provider"`
	Store    StoreConfig    `yaml:"store"`
	Redis    RedisConfig    `yaml:"redis"`
	Telegram TelegramConfig `yaml:"telegram"`
	IDs      IDsConfig      `yaml:"ids"`
}

type ServerConfig struct {
	Disabled        bool          `yaml:"disabled"         env:"SERVER_DISABLED"`
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	PublicURL       string        `yaml:"public_url"       env:"SERVER_PUBLIC_URL"       env-default:"https://mindprofile.app"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

type ProviderConfig struct {
	Kind    string        `yaml:"kind"     env:"PROVIDER_KIND"     env-default:"gemini"`
	APIKey  string        `yaml:"api_key"  env:"PROVIDER_API_KEY"`
	Model   string        `yaml:"model"    env:"PROVIDER_MODEL"`
	BaseURL string        `yaml:"base_url" env:"PROVIDER_BASE_URL"`
	Timeout time.Duration `yaml:"timeout"  env:"PROVIDER_TIMEOUT"  env-default:"15s"`
}

type StoreConfig struct {
	Kind string        `yaml:"kind" env:"STORE_KIND" env-default:"memory"`
	TTL  time.Duration `yaml:"ttl"  env:"STORE_TTL"  env-default:"24h"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"     env:"REDIS_ADDR"     env-default:"redis:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db"       env:"REDIS_DB"       env-default:"0"`
}

type TelegramConfig struct {
	Enabled bool   `yaml:"enabled" env:"TELEGRAM_ENABLED" env-default:"false"`
	Token   string `yaml:"token"   env:"BOT_TOKEN"`
}

type IDsConfig struct {
	Node int64 `yaml:"node" env:"IDS_NODE" env-default:"1"`
}

// Load reads an optional .env, then the YAML file at CONFIG_PATH (default
// ./config.yaml) with environment overrides. Without a file only the
// environment and defaults are used, unless CONFIG_PATH was set explicitly.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	path := os.Getenv("CONFIG_PATH")
	explicit := path != ""
	if !explicit {
		path = "./config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if explicit {
		return Config{}, fmt.Errorf("config file %s: %w", path, err)
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Provider.Kind {
	case ProviderGemini, ProviderOpenAI:
		if c.Provider.APIKey == "" {
			return fmt.Errorf("provider.api_key is required for %s", c.Provider.Kind)
		}
	case ProviderNone:
	default:
		return fmt.Errorf("unknown provider.kind %q", c.Provider.Kind)
	}
	if c.Provider.Timeout <= 0 {
		return errors.New("provider.timeout must be positive")
	}

	switch c.Store.Kind {
	case StoreMemory:
	case StoreRedis:
		if c.Redis.Addr == "" {
			return errors.New("redis.addr is required for the redis store")
		}
	default:
		return fmt.Errorf("unknown store.kind %q", c.Store.Kind)
	}
	if c.Store.TTL <= 0 {
		return errors.New("store.ttl must be positive")
	}

	if c.Telegram.Enabled && c.Telegram.Token == "" {
		return errors.New("telegram.token is required when telegram is enabled")
	}
	if !c.Telegram.Enabled && c.Server.Disabled {
		return errors.New("nothing to run: both server and telegram are disabled")
	}
	if c.IDs.Node < 0 || c.IDs.Node > 1023 {
		return fmt.Errorf("ids.node must be in [0,1023] (got %d)", c.IDs.Node)
	}
	return nil
}
