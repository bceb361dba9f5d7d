package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/mentor"
	"github.com/aretw0/mentor/internal/config"
)

// Options are the flags shared by every command.
type Options struct {
	ConfigPath     string
	Debug          bool
	Model          string
	CurriculumPath string
	CurriculumDir  string
	RedisAddr      string
}

// RunOptions contains all the configuration for the Run command.
type RunOptions struct {
	Options
	JSON  bool
	Topic string
	Plain bool
}

var configCandidates = []string{"mentor.yaml", "mentor.yml", "mentor.json"}

// discoverConfig returns the first mentor config file found in dir, or "".
func discoverConfig(dir string) string {
	for _, name := range configCandidates {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// LoadConfig resolves the configuration: defaults, then the config file (explicit or
// discovered in the working directory), then the environment, then the flags.
func LoadConfig(opts Options) (config.Config, error) {
	path := opts.ConfigPath
	if path == "" {
		path = discoverConfig(".")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	if opts.Debug {
		cfg.Debug = true
	}
	if opts.Model != "" {
		cfg.Model = opts.Model
	}
	if opts.CurriculumPath != "" {
		cfg.CurriculumPath = opts.CurriculumPath
		cfg.CurriculumDir = ""
	}
	if opts.CurriculumDir != "" {
		cfg.CurriculumDir = opts.CurriculumDir
	}
	if opts.RedisAddr != "" {
		cfg.Redis.Addr = opts.RedisAddr
	}
	return cfg, nil
}

// NewApp loads the configuration and wires the application.
func NewApp(ctx context.Context, opts Options, appOpts ...mentor.Option) (*mentor.App, *slog.Logger, error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, nil, err
	}
	logger := createLogger(cfg.Debug)

	app, err := mentor.New(ctx, cfg, append([]mentor.Option{mentor.WithLogger(logger)}, appOpts...)...)
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing mentor: %w", err)
	}
	return app, logger, nil
}
