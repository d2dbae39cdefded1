package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"docsum/internal/config"
	"docsum/internal/database"
	"docsum/internal/handlers"
	"docsum/internal/middleware"
	"docsum/internal/repository"
	"docsum/internal/router"
	"docsum/internal/services"
	"docsum/internal/session"
	"docsum/internal/views"
	"docsum/internal/websocket"
)

// App is the wired server.
type App struct {
	Handler http.Handler
	Models  *services.ModelConfigurator

	closers []func()
}

// Close releases everything Build opened, last opened first.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Build connects the optional backends and wires the handlers. The language
// model is configured once here so a rejected key stops startup.
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	a := &App{}

	factory, err := ModelFactory(cfg)
	if err != nil {
		return nil, err
	}
	a.Models = services.NewModelConfigurator(factory, cfg.APIKey(), cfg.ModelName())
	a.closers = append(a.closers, a.Models.Close)

	if _, err := a.Models.Configure(ctx); err != nil {
		a.Close()
		return nil, err
	}
	log.Info("language model configured", zap.String("provider", cfg.LLMProvider), zap.String("model", cfg.ModelName()))

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, func() { redisClient.Close() })
		log.Info("redis connected")
	}

	history, err := a.buildHistory(ctx, cfg, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	renderer, err := views.New()
	if err != nil {
		a.Close()
		return nil, err
	}

	ocr := a.buildOCR(cfg, log)
	extractor := services.NewFileExtractService(cfg.MaxUploadBytes, ocr, cfg.OCRLanguage)

	hub := websocket.NewHub(redisClient, log)
	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	a.closers = append(a.closers, limiter.Stop)

	study := handlers.NewStudyHandler(handlers.StudyDeps{
		Sessions:  session.NewManager(SessionStore(cfg, redisClient)),
		Extractor: extractor,
		Models:    a.Models,
		Exporter:  services.NewExportService(),
		History:   history,
		Progress:  hub,
		Views:     renderer,
		Log:       log,
	})

	sessions := middleware.NewSessions(cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	a.Handler = router.New(log, sessions, limiter, study, hub)

	return a, nil
}

// ModelFactory picks the provider named by LLM_PROVIDER.
func ModelFactory(cfg *config.Config) (services.ModelFactory, error) {
	switch cfg.LLMProvider {
	case "gemini":
		return services.GeminiFactory(cfg.GeminiConcurrentReqs), nil
	case "openai":
		return services.OpenAIFactory(), nil
	default:
		return nil, &services.ConfigurationError{Message: fmt.Sprintf("invalid LLM_PROVIDER: %s (valid options: gemini, openai)", cfg.LLMProvider)}
	}
}

// SessionStore keeps sessions in Redis when it is configured, in memory otherwise.
func SessionStore(cfg *config.Config, redisClient *redis.Client) session.Store {
	if redisClient != nil {
		return session.NewRedisStore(redisClient, cfg.SessionTTL)
	}
	return session.NewMemoryStore(cfg.SessionTTL)
}

func (a *App) buildHistory(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.History, error) {
	if cfg.DatabaseURL == "" {
		log.Info("DATABASE_URL not set, study history disabled")
		return repository.NoopHistory{}, nil
	}

	pool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, pool.Close)

	if err := database.RunMigrations(ctx, pool, database.Migrations(), log); err != nil {
		return nil, err
	}
	log.Info("postgres connected, migrations applied")

	return &repository.PostgresHistory{
		Documents: repository.NewDocumentRepo(pool),
		QuizRuns:  repository.NewQuizRunRepo(pool),
	}, nil
}

// buildOCR reads images through Gemini. With the OpenAI provider that needs a
// GEMINI_API_KEY of its own; without one image uploads are refused.
func (a *App) buildOCR(cfg *config.Config, log *zap.Logger) services.OCR {
	if cfg.LLMProvider == "gemini" {
		return services.ModelOCR{Models: a.Models}
	}
	if cfg.GeminiAPIKey == "" {
		log.Warn("GEMINI_API_KEY not set, image uploads disabled")
		return nil
	}

	ocrModels := services.NewModelConfigurator(services.GeminiFactory(cfg.GeminiConcurrentReqs), cfg.GeminiAPIKey, cfg.Model)
	a.closers = append(a.closers, ocrModels.Close)
	return services.ModelOCR{Models: ocrModels}
}
