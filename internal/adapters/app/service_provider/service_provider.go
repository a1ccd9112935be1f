package service_provider

import (
	"MindProfile/internal/adapters/config"
	"MindProfile/internal/adapters/controller/httpapi"
	tgcontroller "MindProfile/internal/adapters/controller/telegram"
	"MindProfile/internal/adapters/idgen"
	"MindProfile/internal/adapters/logger"
	"MindProfile/internal/adapters/provider"
	"MindProfile/internal/adapters/provider/gemini"
	openaiprovider "MindProfile/internal/adapters/provider/openai"
	"MindProfile/internal/adapters/repository/memstate"
	"MindProfile/internal/adapters/repository/redisstate"
	"MindProfile/internal/domain/repository"
	"MindProfile/internal/domain/service/content"
	"MindProfile/internal/domain/service/session"
	"MindProfile/internal/domain/service/share"
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type ServiceProvider struct {
	config config.Config
	logger *zap.Logger

	redisClient *redis.Client
	memStore    *memstate.SessionStateRepo

	sessionController *session.Controller

	httpServer *httpapi.Server
	botRunner  *tgcontroller.Runner
}

func New(ctx context.Context) (*ServiceProvider, error) {
	sp := &ServiceProvider{}
	if err := sp.init(ctx); err != nil {
		sp.Close()
		return nil, err
	}
	return sp, nil
}

func (sp *ServiceProvider) Config() config.Config {
	return sp.config
}

func (sp *ServiceProvider) Logger() *zap.Logger {
	return sp.logger
}

// HTTPServer is nil when the HTTP API is disabled.
func (sp *ServiceProvider) HTTPServer() *httpapi.Server {
	return sp.httpServer
}

// BotRunner is nil when the Telegram front end is disabled.
func (sp *ServiceProvider) BotRunner() *tgcontroller.Runner {
	return sp.botRunner
}

// SessionSweeper is nil unless sessions live in process memory.
func (sp *ServiceProvider) SessionSweeper() *memstate.SessionStateRepo {
	return sp.memStore
}

func (sp *ServiceProvider) SessionController() *session.Controller {
	return sp.sessionController
}

func (sp *ServiceProvider) Close() {
	if sp.redisClient != nil {
		if err := sp.redisClient.Close(); err != nil && sp.logger != nil {
			sp.logger.Warn("close redis", zap.Error(err))
		}
	}
	if sp.logger != nil {
		_ = sp.logger.Sync()
	}
}

func (sp *ServiceProvider) init(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	sp.config = cfg

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	sp.logger = log

	ids, err := idgen.NewSnowflake(cfg.IDs.Node)
	if err != nil {
		return fmt.Errorf("init id generator: %w", err)
	}

	contentProvider, err := sp.initProvider(ctx)
	if err != nil {
		return err
	}

	stateRepo, err := sp.initStore(ctx)
	if err != nil {
		return err
	}

	sp.sessionController = session.NewController(
		session.NewStore(stateRepo),
		content.New(contentProvider, ids, log),
		share.New(cfg.Server.PublicURL, log),
		ids,
		log,
		session.WithAnalyzingTTL(2*cfg.Provider.Timeout),
	)

	if !cfg.Server.Disabled {
		router := httpapi.NewRouter(sp.sessionController, log)
		sp.httpServer = httpapi.NewServer(cfg.Server, router, log)
	}

	if cfg.Telegram.Enabled {
		botRunner, err := tgcontroller.New(cfg.Telegram.Token, sp.sessionController, log)
		if err != nil {
			return fmt.Errorf("create telegram controller: %w", err)
		}
		sp.botRunner = botRunner
	}

	log.Info("service provider initialized",
		zap.String("provider", cfg.Provider.Kind),
		zap.String("store", cfg.Store.Kind),
		zap.Bool("http", sp.httpServer != nil),
		zap.Bool("telegram", sp.botRunner != nil),
	)
	return nil
}

func (sp *ServiceProvider) initProvider(ctx context.Context) (repository.ContentProvider, error) {
	cfg := sp.config.Provider
	switch cfg.Kind {
	case config.ProviderGemini:
		c, err := gemini.New(ctx, gemini.Config{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		}, sp.logger)
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		return c, nil
	case config.ProviderOpenAI:
		c, err := openaiprovider.New(openaiprovider.Config{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		}, sp.logger)
		if err != nil {
			return nil, fmt.Errorf("create openai client: %w", err)
		}
		return c, nil
	case config.ProviderNone:
		sp.logger.Warn("content provider disabled, serving fallback content only")
		return provider.Disabled{}, nil
	}
	return nil, fmt.Errorf("unknown provider kind %q", cfg.Kind)
}

func (sp *ServiceProvider) initStore(ctx context.Context) (repository.SessionStateRepository, error) {
	cfg := sp.config
	switch cfg.Store.Kind {
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		sp.redisClient = client
		return redisstate.NewSessionStateRepo(client, cfg.Store.TTL), nil
	case config.StoreMemory:
		sp.memStore = memstate.NewSessionStateRepo(cfg.Store.TTL, clockwork.NewRealClock())
		return sp.memStore, nil
	}
	return nil, fmt.Errorf("unknown store kind %q", cfg.Store.Kind)
}
