// Package config loads mathagent settings from .env files and the process
// environment. Nested keys use "__" as delimiter, e.g. GOOGLE__API_KEY.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvUseVertexAI   = "GOOGLE__GENAI_USE_VERTEXAI"
	EnvAPIKey        = "GOOGLE__API_KEY"
	EnvModel         = "GOOGLE__MODEL"
	EnvBaseURL       = "GOOGLE__BASE_URL"
	EnvMaxIterations = "MATHAGENT__MAX_ITERATIONS"
	EnvMaxRetries    = "MATHAGENT__MAX_RETRIES"
	EnvTimeout       = "MATHAGENT__REQUEST_TIMEOUT"
)

// Defaults.
const (
	DefaultModel         = "gemini-2.5-flash"
	DefaultMaxIterations = 5
	DefaultMaxRetries    = 3
	DefaultTimeout       = 60 * time.Second
	DefaultEnvFile       = ".env"
)

// Secret is a string that does not print its value.
type Secret string

func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return "[REDACTED]"
}

func (s Secret) GoString() string {
	return strconv.Quote(s.String())
}

// Value returns the secret itself.
func (s Secret) Value() string {
	return string(s)
}

// GoogleConfig selects and authenticates the Gemini backend.
type GoogleConfig struct {
	UseVertexAI bool
	APIKey      Secret
	Model       string
	BaseURL     string
}

// AgentConfig tunes the agent loop.
type AgentConfig struct {
	MaxIterations int
	// MaxRetries applies to transient model failures; 0 disables retries.
	MaxRetries     int
	RequestTimeout time.Duration
}

// Config is the complete application configuration.
type Config struct {
	Google GoogleConfig
	Agent  AgentConfig
}

// Load reads the given .env files (".env" when none are given), then the
// process environment. Variables already set in the environment win over
// file values, and missing files are skipped. The environment is not
// modified.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{DefaultEnvFile}
	}

	fileValues := map[string]string{}
	for _, file := range files {
		values, err := godotenv.Read(file)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", file, err)
		}
		for k, v := range values {
			if _, seen := fileValues[k]; !seen {
				fileValues[k] = v
			}
		}
	}

	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return strings.TrimSpace(v)
		}
		return strings.TrimSpace(fileValues[key])
	}

	return parse(lookup)
}

func parse(lookup func(string) string) (*Config, error) {
	cfg := &Config{
		Google: GoogleConfig{
			APIKey:  Secret(lookup(EnvAPIKey)),
			Model:   lookup(EnvModel),
			BaseURL: lookup(EnvBaseURL),
		},
		Agent: AgentConfig{
			MaxIterations:  DefaultMaxIterations,
			MaxRetries:     DefaultMaxRetries,
			RequestTimeout: DefaultTimeout,
		},
	}
	if cfg.Google.Model == "" {
		cfg.Google.Model = DefaultModel
	}

	if raw := lookup(EnvUseVertexAI); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid boolean %q", EnvUseVertexAI, raw)
		}
		cfg.Google.UseVertexAI = v
	}

	if raw := lookup(EnvMaxIterations); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("%s: expected a positive integer, got %q", EnvMaxIterations, raw)
		}
		cfg.Agent.MaxIterations = v
	}

	if raw := lookup(EnvMaxRetries); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("%s: expected a non-negative integer, got %q", EnvMaxRetries, raw)
		}
		cfg.Agent.MaxRetries = v
	}

	if raw := lookup(EnvTimeout); raw != "" {
		v, err := time.ParseDuration(raw)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("%s: expected a positive duration such as 30s, got %q", EnvTimeout, raw)
		}
		cfg.Agent.RequestTimeout = v
	}

	return cfg, nil
}

// Validate checks the settings needed to talk to the model.
func (c *Config) Validate() error {
	if c.Google.APIKey == "" {
		return fmt.Errorf("%s is not set", EnvAPIKey)
	}
	return nil
}

// Backend names the configured Gemini backend.
func (c *Config) Backend() string {
	if c.Google.UseVertexAI {
		return "vertex-ai"
	}
	return "gemini-api"
}

func (c *Config) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s=%t\n", EnvUseVertexAI, c.Google.UseVertexAI)
	fmt.Fprintf(&b, "%s=%s\n", EnvAPIKey, c.Google.APIKey)
	fmt.Fprintf(&b, "%s=%s\n", EnvModel, c.Google.Model)
	if c.Google.BaseURL != "" {
		fmt.Fprintf(&b, "%s=%s\n", EnvBaseURL, c.Google.BaseURL)
	}
	fmt.Fprintf(&b, "%s=%d\n", EnvMaxIterations, c.Agent.MaxIterations)
	fmt.Fprintf(&b, "%s=%d\n", EnvMaxRetries, c.Agent.MaxRetries)
	fmt.Fprintf(&b, "%s=%s", EnvTimeout, c.Agent.RequestTimeout)
	return b.String()
}
