// Package app wires configuration into the store, planner, tools and
// clipper shared by the CLI and the Telegram bot.
package app

import (
	"context"
	"errors"
	"fmt"

	"pantry-planner/internal/clipper"
	"pantry-planner/internal/config"
	"pantry-planner/internal/database"
	"pantry-planner/internal/llm"
	"pantry-planner/internal/mealplan"
	"pantry-planner/internal/metrics"
	"pantry-planner/internal/planner"
	"pantry-planner/internal/recipe"
	"pantry-planner/internal/shared"
	"pantry-planner/internal/storage"
	"pantry-planner/internal/tools"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Sampling temperatures per agent.
const (
	plannerTemperature = 0.4
	clipperTemperature = 0.1
)

// App holds the application's dependencies.
type App struct {
	cfg    *config.Config
	logger *zap.Logger

	Store     *storage.Store
	Planner   *planner.Planner
	Tools     *tools.Registry
	Clipper   *clipper.Clipper
	Metrics   *metrics.Store
	Collector *metrics.Collector
	Registry  *prometheus.Registry

	closers []func() error
}

type options struct {
	backend storage.Backend
	chat    llm.ChatStreamer
	chatSet bool
}

// Option overrides a dependency normally built from the configuration.
type Option func(*options)

// WithBackend uses b instead of the configured storage backend.
func WithBackend(b storage.Backend) Option {
	return func(o *options) { o.backend = b }
}

// WithChat uses c for every agent instead of the configured provider. A nil
// c disables the AI path.
func WithChat(c llm.ChatStreamer) Option {
	return func(o *options) {
		o.chat = c
		o.chatSet = true
	}
}

// New builds an App from cfg. Close releases what it opened.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{cfg: cfg, logger: logger, Registry: prometheus.NewRegistry()}

	db, err := database.NewDB(cfg.DatabasePath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	a.closers = append(a.closers, db.Close)
	a.Metrics = metrics.NewStore(db.SQL)

	backend := o.backend
	if backend == nil {
		backend, err = a.newBackend(ctx, db)
		if err != nil {
			a.Close()
			return nil, err
		}
	}
	a.Store = storage.NewStore(backend, logger.Named("store"))

	planChat, clipChat := o.chat, o.chat
	if !o.chatSet {
		planChat, err = a.newChat(ctx, plannerTemperature)
		if err != nil {
			a.Close()
			return nil, err
		}
		clipChat, err = a.newChat(ctx, clipperTemperature)
		if err != nil {
			a.Close()
			return nil, err
		}
	}

	a.Planner = planner.NewPlanner(a.Store, planChat, logger.Named("planner"), planner.WithTimeout(cfg.AITimeout))
	a.Tools = tools.NewRegistry(a.Store)
	if clipChat != nil {
		a.Clipper = clipper.NewClipper(clipChat, a.Store, logger.Named("clipper"))
	}

	a.Collector = metrics.NewCollector(a.Registry)
	a.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if cfg.StorageBackend == config.BackendFile {
		if err := metrics.RegisterDataDirGauge(a.Registry, cfg.DataDir); err != nil {
			logger.Warn("failed to register data dir gauge", zap.Error(err))
		}
	}

	logger.Info("app initialized",
		zap.String("storage_backend", cfg.StorageBackend),
		zap.String("ai_provider", cfg.AIProvider),
		zap.Bool("ai_enabled", planChat != nil),
	)
	return a, nil
}

func (a *App) newBackend(ctx context.Context, db *database.DB) (storage.Backend, error) {
	switch a.cfg.StorageBackend {
	case config.BackendMemory:
		return storage.NewMemoryBackend(), nil
	case config.BackendSQLite:
		return storage.NewSQLiteBackend(db.SQL), nil
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     a.cfg.RedisAddr,
			Password: a.cfg.RedisPassword,
			DB:       a.cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", a.cfg.RedisAddr, err)
		}
		a.closers = append(a.closers, client.Close)
		return storage.NewRedisBackend(client, a.cfg.RedisKeyPrefix), nil
	default:
		b, err := storage.NewFileBackend(a.cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file storage: %w", err)
		}
		return b, nil
	}
}

// newChat returns nil when no provider is configured.
func (a *App) newChat(ctx context.Context, temperature float64) (llm.ChatStreamer, error) {
	var chat llm.ChatStreamer
	switch a.cfg.AIProvider {
	case config.ProviderEndpoint:
		chat = llm.NewEndpointClient(a.cfg.AIChatURL)
	case config.ProviderGroq:
		chat = llm.NewGroqClient(a.cfg, temperature)
	case config.ProviderGemini:
		gemini, err := llm.NewGeminiClient(ctx, a.cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		a.closers = append(a.closers, gemini.Close)
		chat = gemini
	default:
		return nil, nil
	}
	return llm.NewRateLimited(chat, a.cfg.AIRequestsPerMinute), nil
}

// Close releases clients and connections in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// GeneratePlan runs the planner and records what the AI call cost.
func (a *App) GeneratePlan(ctx context.Context, req planner.Request) (mealplan.MealPlan, []shared.AgentMeta) {
	plan, metas := a.Planner.GeneratePlan(ctx, req)
	a.Collector.ObservePlan(plan, metas)
	a.recordMetas(ctx, metas...)
	return plan, metas
}

// ErrClipperDisabled is returned by ClipRecipe when no AI provider is configured.
var ErrClipperDisabled = errors.New("recipe clipping needs an AI provider")

// ClipRecipe imports the recipe at url into the store.
func (a *App) ClipRecipe(ctx context.Context, url string) (recipe.Recipe, error) {
	if a.Clipper == nil {
		return recipe.Recipe{}, ErrClipperDisabled
	}
	r, meta, err := a.Clipper.ClipURL(ctx, url)
	if meta != nil {
		a.Collector.ObserveAgent(*meta)
		a.recordMetas(ctx, *meta)
	}
	return r, err
}

func (a *App) recordMetas(ctx context.Context, metas ...shared.AgentMeta) {
	for _, m := range metas {
		if err := a.Metrics.RecordMeta(context.WithoutCancel(ctx), m); err != nil {
			a.logger.Warn("failed to record metrics", zap.String("agent", m.AgentName), zap.Error(err))
		}
	}
}
