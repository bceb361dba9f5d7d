package mentor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/mentor/internal/config"
	"github.com/aretw0/mentor/internal/logging"
	"github.com/aretw0/mentor/internal/metrics"
	"github.com/aretw0/mentor/pkg/adapters/gemini"
	loamAdapter "github.com/aretw0/mentor/pkg/adapters/loam"
	"github.com/aretw0/mentor/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/mentor/pkg/adapters/redis"
	"github.com/aretw0/mentor/pkg/curriculum"
	"github.com/aretw0/mentor/pkg/domain"
	"github.com/aretw0/mentor/pkg/ports"
	"github.com/aretw0/mentor/pkg/session"
	"github.com/aretw0/mentor/pkg/tutor"
)

// App is the high-level entry point: a tutor wired to its model, curriculum and lesson cache.
type App struct {
	Config     config.Config
	Curriculum *domain.Curriculum
	Tutor      *tutor.Tutor
	Service    *tutor.Service
	Metrics    *metrics.Metrics

	logger  *slog.Logger
	model   ports.ModelClient
	source  ports.CurriculumSource
	cache   ports.LessonCache
	locker  ports.DistributedLocker
	closers []func() error
}

// Option defines a functional option for configuring the App.
type Option func(*App)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithMetrics records model, cache and render activity.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *App) {
		a.Metrics = m
	}
}

// WithModel injects a model client, bypassing the Gemini client.
func WithModel(m ports.ModelClient) Option {
	return func(a *App) {
		a.model = m
	}
}

// WithCurriculumSource injects the catalog, bypassing the configured file or directory.
func WithCurriculumSource(src ports.CurriculumSource) Option {
	return func(a *App) {
		a.source = src
	}
}

// WithLessonCache injects the lesson cache and its locker, bypassing Redis.
func WithLessonCache(cache ports.LessonCache, locker ports.DistributedLocker) Option {
	return func(a *App) {
		a.cache = cache
		a.locker = locker
	}
}

// New wires an App from cfg.
//
// A missing API key is not an error: the tutor starts without a model and every
// conversation opens with a system message explaining the problem.
func New(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	a := &App{Config: cfg}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logging.NewNop()
	}

	if err := a.loadCurriculum(ctx); err != nil {
		return nil, err
	}
	if err := a.setupModel(); err != nil {
		return nil, err
	}
	if err := a.setupCache(ctx); err != nil {
		a.Close()
		return nil, err
	}

	tutorOpts := []tutor.Option{
		tutor.WithLogger(a.logger),
		tutor.WithSessionOptions(cfg.SessionOptions()),
		tutor.WithMetrics(a.Metrics),
		tutor.WithLessonCache(a.cache),
	}
	if a.locker != nil {
		tutorOpts = append(tutorOpts, tutor.WithLocker(a.locker))
	}

	a.Tutor = tutor.New(a.model, a.Curriculum, tutorOpts...)
	a.Service = tutor.NewService(a.Tutor, session.NewManager(session.WithLogger(a.logger)))
	return a, nil
}

func (a *App) loadCurriculum(ctx context.Context) error {
	src := a.source
	switch {
	case src != nil:
	case a.Config.CurriculumDir != "":
		loader, err := loamAdapter.Open(a.Config.CurriculumDir)
		if err != nil {
			return err
		}
		src = loader
	default:
		src = curriculum.Source{Path: a.Config.CurriculumPath}
	}

	c, err := src.Curriculum(ctx)
	if err != nil {
		return fmt.Errorf("failed to load curriculum: %w", err)
	}
	a.Curriculum = c
	a.logger.Debug("Curriculum loaded", "title", c.Title, "modules", len(c.Modules))
	return nil
}

func (a *App) setupModel() error {
	if a.model != nil {
		return nil
	}
	client, err := gemini.New(a.Config.Gemini(), gemini.WithLogger(a.logger))
	if errors.Is(err, domain.ErrMissingCredentials) {
		a.logger.Warn("No API key configured, the tutor is unavailable")
		return nil
	}
	if err != nil {
		return err
	}
	a.logger.Debug("Model client ready", "model", client.Model())
	a.model = client
	return nil
}

func (a *App) setupCache(ctx context.Context) error {
	if a.cache != nil {
		return nil
	}
	if a.Config.Redis.Addr == "" {
		a.cache = memory.NewStore()
		a.locker = memory.NewLocker()
		return nil
	}

	store := redisAdapter.New(a.Config.Redis.Addr, a.Config.Redis.Password, a.Config.Redis.DB,
		redisAdapter.WithTTL(a.Config.Redis.TTL),
		redisAdapter.WithPrefix(a.Config.Redis.Prefix),
	)
	a.closers = append(a.closers, store.Client().Close)
	if err := store.Ping(ctx); err != nil {
		return fmt.Errorf("failed to connect to redis at %s: %w", a.Config.Redis.Addr, err)
	}
	a.cache = store
	a.locker = redisAdapter.NewLocker(store.Client(), a.Config.Redis.Prefix+"lock:")
	a.logger.Info("Lesson cache connected", "addr", a.Config.Redis.Addr)
	return nil
}

// Available reports whether a model client is configured.
func (a *App) Available() bool {
	return a.model != nil
}

// Close releases external connections.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}
