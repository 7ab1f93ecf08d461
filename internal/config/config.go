package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the settings shopfront needs to reach the shop API.
type Config struct {
	APIURL         string
	TimeoutSeconds int
	PageSize       int
}

const (
	defaultConfigPath = "~/.config/shopfront/config.toml"
	defaultAPIURL     = "127.0.0.1:4000"
	defaultTimeout    = 10
	defaultPageSize   = 12
)

// Environment variable overrides, applied after the config file. A local
// .env file in the working directory is folded into the environment first.
const (
	envAPIURL   = "SHOPFRONT_API_URL"
	envTimeout  = "SHOPFRONT_TIMEOUT_SECONDS"
	envPageSize = "SHOPFRONT_PAGE_SIZE"
)

// Load resolves configuration in order: defaults, the TOML config file,
// then environment variables. A missing config file is not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIURL:         defaultAPIURL,
		TimeoutSeconds: defaultTimeout,
		PageSize:       defaultPageSize,
	}

	raw, err := os.ReadFile(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Defaults apply; env can still override below.
	case err != nil:
		return Config{}, fmt.Errorf("read config: %w", err)
	default:
		var file struct {
			APIURL         string `toml:"api_url"`
			TimeoutSeconds int    `toml:"timeout_seconds"`
			PageSize       int    `toml:"page_size"`
		}
		if err := toml.Unmarshal(raw, &file); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		if url := strings.TrimSpace(file.APIURL); url != "" {
			cfg.APIURL = url
		}
		if file.TimeoutSeconds > 0 {
			cfg.TimeoutSeconds = file.TimeoutSeconds
		}
		if file.PageSize > 0 {
			cfg.PageSize = file.PageSize
		}
	}

	// Developer convenience: a .env in the working directory behaves like
	// exported environment variables. Absence is the normal case.
	_ = godotenv.Load()
	applyEnv(&cfg)

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if url := strings.TrimSpace(os.Getenv(envAPIURL)); url != "" {
		cfg.APIURL = url
	}
	if raw := strings.TrimSpace(os.Getenv(envTimeout)); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cfg.TimeoutSeconds = n
		}
	}
	if raw := strings.TrimSpace(os.Getenv(envPageSize)); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cfg.PageSize = n
		}
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
