// Package config содержит логику чтения конфигурации дашборда и заглушки бэкенда.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/m-okumura/poikatsu-dashboard/internal/apiclient"
)

// Config содержит параметры конфигурации дашборда.
type Config struct {
	APIBaseURL string `env:"POIKATSU_API_URL"`
	TokenFile  string `env:"POIKATSU_TOKEN_FILE"`
}

// Parse считывает конфигурацию дашборда из флагов командной строки и
// переменных окружения. Переменные окружения имеют приоритет.
func Parse(args []string) (*Config, []string, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, nil, fmt.Errorf("parse env: %w", err)
	}

	envAPIBaseURL := cfg.APIBaseURL
	envTokenFile := cfg.TokenFile

	fs := flag.NewFlagSet("poikatsu", flag.ContinueOnError)
	fs.StringVar(&cfg.APIBaseURL, "a", apiclient.DefaultBaseURL, "base URL of the loyalty backend API")
	fs.StringVar(&cfg.TokenFile, "t", "", "path to the token file (default: user config dir)")

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("parse flags: %w", err)
	}

	if envAPIBaseURL != "" {
		cfg.APIBaseURL = envAPIBaseURL
	}
	if envTokenFile != "" {
		cfg.TokenFile = envTokenFile
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = apiclient.DefaultBaseURL
	}

	return cfg, fs.Args(), nil
}

// StubConfig содержит параметры конфигурации заглушки бэкенда.
type StubConfig struct {
	RunAddress string `env:"RUN_ADDRESS"`
	JWTSecret  string `env:"JWT_SECRET"`
	SeedDemo   bool   `env:"SEED_DEMO"`
}

// ParseStub считывает конфигурацию заглушки бэкенда.
// Переменные окружения имеют приоритет над флагами.
func ParseStub(args []string) (*StubConfig, error) {
	cfg := &StubConfig{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envJWTSecret := cfg.JWTSecret
	envSeedDemo := cfg.SeedDemo

	fs := flag.NewFlagSet("poikatsu-stub", flag.ContinueOnError)
	fs.StringVar(&cfg.RunAddress, "a", "localhost:8000", "address and port for HTTP server")
	fs.StringVar(&cfg.JWTSecret, "s", "", "secret for signing access tokens")
	fs.BoolVar(&cfg.SeedDemo, "seed", false, "seed demo users and campaigns")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envJWTSecret != "" {
		cfg.JWTSecret = envJWTSecret
	}
	if envSeedDemo {
		cfg.SeedDemo = true
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8000"
	}

	return cfg, nil
}
