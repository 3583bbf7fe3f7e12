// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token   string `yaml:"token"`
	Mode    string `yaml:"mode"` // polling | webhook (future)
	Workers int    `yaml:"workers"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type OpsConfig struct {
	Port int `yaml:"port"` // healthz + metrics listener
}

type AuthConfig struct {
	TokenURL     string `yaml:"token_url"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

type GatewayConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Channel  string `yaml:"channel"` // language-injection pub/sub channel
}

type JobsConfig struct {
	PollInterval      time.Duration `yaml:"poll_interval"`
	MaxWait           time.Duration `yaml:"max_wait"`
	BatchPollInterval time.Duration `yaml:"batch_poll_interval"`
	BatchMaxWait      time.Duration `yaml:"batch_max_wait"`
	MaxChunkSize      int           `yaml:"max_chunk_size"`
}

type RecapConfig struct {
	Provider     string `yaml:"provider"` // openai | anthropic | gemini
	Model        string `yaml:"model"`
	GeminiKey    string `yaml:"gemini_key"`
	GeminiURL    string `yaml:"gemini_url"`
	MaxDocTokens int    `yaml:"max_doc_tokens"`
}

type Config struct {
	Bot     BotConfig     `yaml:"bot"`
	Log     LogConfig     `yaml:"log"`
	Ops     OpsConfig     `yaml:"ops"`
	Auth    AuthConfig    `yaml:"auth"`
	Gateway GatewayConfig `yaml:"gateway"`
	Redis   RedisConfig   `yaml:"redis"`
	Jobs    JobsConfig    `yaml:"jobs"`
	Recap   RecapConfig   `yaml:"recap"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Gateway.Timeout <= 0 {
		cfg.Gateway.Timeout = 5 * time.Minute
	}
	if cfg.Jobs.PollInterval <= 0 {
		cfg.Jobs.PollInterval = 10 * time.Second
	}
	if cfg.Jobs.MaxWait <= 0 {
		cfg.Jobs.MaxWait = 10 * time.Minute
	}
	if cfg.Jobs.BatchPollInterval <= 0 {
		cfg.Jobs.BatchPollInterval = 20 * time.Second
	}
	if cfg.Jobs.BatchMaxWait <= 0 {
		cfg.Jobs.BatchMaxWait = 15 * time.Minute
	}
	if cfg.Jobs.MaxChunkSize <= 0 {
		cfg.Jobs.MaxChunkSize = 30
	}
	if cfg.Recap.Provider == "" {
		cfg.Recap.Provider = "anthropic"
	}
	if cfg.Recap.MaxDocTokens <= 0 {
		cfg.Recap.MaxDocTokens = 100000
	}

	// Minimal validation
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot.token is required")
	}
	if cfg.Auth.TokenURL == "" || cfg.Auth.ClientID == "" || cfg.Auth.ClientSecret == "" {
		return nil, errors.New("auth.token_url, auth.client_id and auth.client_secret are required")
	}
	if cfg.Gateway.BaseURL == "" {
		return nil, errors.New("gateway.base_url is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
