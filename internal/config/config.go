// Package config resolves runtime settings from defaults, an optional file and the environment.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/mentor/pkg/adapters/gemini"
	"github.com/aretw0/mentor/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Redis configures the shared lesson cache. An empty Addr disables it.
type Redis struct {
	Addr     string        `yaml:"addr" json:"addr"`
	Password string        `yaml:"password" json:"password"`
	DB       int           `yaml:"db" json:"db"`
	TTL      time.Duration `yaml:"ttl" json:"ttl"`
	Prefix   string        `yaml:"prefix" json:"prefix"`
}

// Config is the fully resolved application configuration.
type Config struct {
	APIKey          string        `yaml:"api_key" json:"api_key"`
	Model           string        `yaml:"model" json:"model"`
	BaseURL         string        `yaml:"base_url" json:"base_url"`
	Timeout         time.Duration `yaml:"timeout" json:"timeout"`
	Temperature     float64       `yaml:"temperature" json:"temperature"`
	MaxOutputTokens int           `yaml:"max_output_tokens" json:"max_output_tokens"`

	// CurriculumPath is a YAML/JSON catalog; CurriculumDir a directory of markdown topics.
	// When both are empty the built-in course is used.
	CurriculumPath string `yaml:"curriculum" json:"curriculum"`
	CurriculumDir  string `yaml:"curriculum_dir" json:"curriculum_dir"`

	Redis Redis  `yaml:"redis" json:"redis"`
	Addr  string `yaml:"addr" json:"addr"`
	Debug bool   `yaml:"debug" json:"debug"`
}

// Default returns the built-in settings.
func Default() Config {
	opts := domain.DefaultSessionOptions()
	return Config{
		Model:           gemini.DefaultModel,
		BaseURL:         gemini.DefaultBaseURL,
		Timeout:         gemini.DefaultTimeout,
		Temperature:     opts.Temperature,
		MaxOutputTokens: opts.MaxOutputTokens,
		Redis: Redis{
			TTL:    24 * time.Hour,
			Prefix: "mentor:lesson:",
		},
		Addr: ":8080",
	}
}

// Load applies the file at path (if non-empty) and then the environment on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse config json: %w", err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config yaml: %w", err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v, ok := lookup(k); ok && v != "" {
				*dst = v
				return
			}
		}
	}

	str(&c.APIKey, "GEMINI_API_KEY", "API_KEY")
	str(&c.Model, "MENTOR_MODEL")
	str(&c.BaseURL, "MENTOR_BASE_URL")
	str(&c.CurriculumPath, "MENTOR_CURRICULUM")
	str(&c.CurriculumDir, "MENTOR_CURRICULUM_DIR")
	str(&c.Redis.Addr, "MENTOR_REDIS_ADDR")
	str(&c.Redis.Password, "MENTOR_REDIS_PASSWORD")
	str(&c.Redis.Prefix, "MENTOR_REDIS_PREFIX")
	str(&c.Addr, "MENTOR_ADDR")

	if v, ok := lookup("MENTOR_TIMEOUT_SECONDS"); ok && v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return fmt.Errorf("invalid MENTOR_TIMEOUT_SECONDS %q", v)
		}
		c.Timeout = time.Duration(secs) * time.Second
	}
	if v, ok := lookup("MENTOR_TEMPERATURE"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid MENTOR_TEMPERATURE %q: %w", v, err)
		}
		c.Temperature = f
	}
	if v, ok := lookup("MENTOR_MAX_OUTPUT_TOKENS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MENTOR_MAX_OUTPUT_TOKENS %q: %w", v, err)
		}
		c.MaxOutputTokens = n
	}
	if v, ok := lookup("MENTOR_REDIS_DB"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MENTOR_REDIS_DB %q: %w", v, err)
		}
		c.Redis.DB = n
	}
	if v, ok := lookup("MENTOR_DEBUG"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid MENTOR_DEBUG %q: %w", v, err)
		}
		c.Debug = b
	}
	return nil
}

// Gemini projects the model settings.
func (c Config) Gemini() gemini.Config {
	return gemini.Config{
		APIKey:  c.APIKey,
		Model:   c.Model,
		BaseURL: c.BaseURL,
		Timeout: c.Timeout,
	}
}

// SessionOptions projects the generation settings.
func (c Config) SessionOptions() domain.SessionOptions {
	return domain.SessionOptions{
		Temperature:     c.Temperature,
		MaxOutputTokens: c.MaxOutputTokens,
	}
}
