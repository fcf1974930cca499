package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Env holds the environment driven defaults. Persisted preferences, when
// present, take precedence over these in the desktop app.
type Env struct {
	APIBaseURL       string `env:"MYLORA_API_BASE_URL" envDefault:"http://localhost:5000"`
	LogLevel         string `env:"MYLORA_LOG_LEVEL" envDefault:"info"`
	LogFormat        string `env:"MYLORA_LOG_FORMAT" envDefault:"console"`
	PreviewMaxIndex  int    `env:"MYLORA_PREVIEW_MAX_INDEX" envDefault:"10"`
	ProbeConcurrency int    `env:"MYLORA_PROBE_CONCURRENCY" envDefault:"8"`
	UserAgent        string `env:"MYLORA_USER_AGENT" envDefault:"MyLoRA-Desktop/1.0"`
}

// LoadEnv parses environment variables into Env.
func LoadEnv() (*Env, error) {
	return load(env.Options{})
}

// LoadEnvFrom parses Env from vars instead of the process environment.
func LoadEnvFrom(vars map[string]string) (*Env, error) {
	if vars == nil {
		vars = map[string]string{}
	}
	return load(env.Options{Environment: vars})
}

func load(opts env.Options) (*Env, error) {
	cfg := &Env{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.APIBaseURL = strings.TrimSpace(cfg.APIBaseURL)
	if err := ValidateBaseURL(cfg.APIBaseURL); err != nil {
		return nil, err
	}
	cfg.PreviewMaxIndex = clampMaxIndex(cfg.PreviewMaxIndex)
	if cfg.ProbeConcurrency <= 0 {
		cfg.ProbeConcurrency = DefaultProbeConcurrency
	}
	return cfg, nil
}

// ValidateBaseURL checks that raw is an absolute http(s) URL
func ValidateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid API base URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid API base URL %q: must start with http:// or https://", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid API base URL %q: missing host", raw)
	}
	return nil
}
