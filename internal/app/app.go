package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/converso/internal/auth"
	"github.com/MrSnakeDoc/converso/internal/companion"
	"github.com/MrSnakeDoc/converso/internal/config"
	"github.com/MrSnakeDoc/converso/internal/httpserver"
	"github.com/MrSnakeDoc/converso/internal/httpserver/deps"
	"github.com/MrSnakeDoc/converso/internal/logger"
	"github.com/MrSnakeDoc/converso/internal/redis"
	"github.com/MrSnakeDoc/converso/internal/sources/catalog"
	"github.com/MrSnakeDoc/converso/internal/store/memory"
	redisstore "github.com/MrSnakeDoc/converso/internal/store/redis"
	"github.com/MrSnakeDoc/converso/internal/store/sqlite"
	"github.com/MrSnakeDoc/converso/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	closeStore  func() error
}

func New() (*App, error) {
	cfg := config.Load()
	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, loggerClient)
	if err != nil {
		return nil, err
	}

	// Redis is optional: without it dashboard views are simply not cached
	var (
		redisClient *goredis.Client
		views       *redisstore.Store
		invalidator companion.Invalidator
	)
	if cfg.RedisEnabled() {
		redisClient, err = redis.Connect(ctx, redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			loggerClient.Warn("view cache disabled, redis unreachable", logger.Error(err))
		} else {
			views = redisstore.NewStore(redisClient, cfg.ViewCacheTTL)
			invalidator = views
		}
	} else {
		loggerClient.Info("redis not configured, view cache disabled")
	}

	if store != nil && cfg.CatalogFile != "" {
		seedCatalog(ctx, store, views, cfg, loggerClient)
	}

	d := deps.Deps{
		Logger:           loggerClient,
		StartTime:        time.Now(),
		Version:          version.Version,
		Commit:           version.Commit,
		BuildDate:        version.BuildDate,
		GoVersion:        version.GoVersion,
		AllowedHosts:     cfg.AllowedHosts,
		AllowedCIDRS:     cfg.AllowedCIDRS,
		TrustProxy:       cfg.TrustProxy,
		Companions:       companion.New(store, auth.ContextProvider{}, invalidator, loggerClient),
		Verifier:         auth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer),
		RedisClient:      redisClient,
		RateLimitBurst:   cfg.RateLimitBurst,
		RateLimitPerMin:  cfg.RateLimitPerMin,
		RateLimitEntries: cfg.RateLimitEntries,
	}

	if views != nil {
		d.Views = views
	}

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      httpserver.New(cfg, loggerClient, d),
		redisClient: redisClient,
		closeStore:  closeStore,
	}, nil
}

// openStore returns a nil store when none is configured; the service then
// serves empty reads and rejects writes.
func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (companion.RecordStore, func() error, error) {
	noop := func() error { return nil }

	if !cfg.StoreEnabled() {
		log.Warn("record store not configured, reads will be empty and writes rejected",
			logger.String("driver", cfg.StoreDriver))
		return nil, noop, nil
	}

	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		log.Warn("using in-memory record store, data is lost on restart")
		return memory.NewStore(), noop, nil
	default:
		s, err := sqlite.Open(ctx, cfg.DatabasePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open record store: %w", err)
		}
		log.Info("record store opened", logger.String("path", cfg.DatabasePath))
		return s, s.Close, nil
	}
}

func seedCatalog(ctx context.Context, store companion.RecordStore, views *redisstore.Store, cfg *config.Config, log logger.Logger) {
	n, err := catalog.Seed(ctx, store, cfg.CatalogFile, cfg.CatalogAuthor, log)
	if err != nil {
		log.Warn("catalog seeding failed", logger.String("file", cfg.CatalogFile), logger.Error(err))
		return
	}
	if n > 0 && views != nil {
		if err := views.FlushViews(ctx); err != nil {
			log.Warn("failed to flush cached views after seeding", logger.Error(err))
		}
	}
}

func (a *App) Run() error {
	a.logger.Info("🚀 starting converso",
		logger.String("version", version.Version),
		logger.String("commit", version.Commit),
		logger.String("built", version.BuildDate),
		logger.String("go", version.GoVersion),
		logger.String("addr", a.cfg.ListenPort))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		a.closeBackends()
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.closeBackends()
	a.logger.Info("✅ converso stopped cleanly")
	_ = a.logger.Sync()
	return nil
}

func (a *App) closeBackends() {
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", logger.Error(err))
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}
	if err := a.closeStore(); err != nil {
		a.logger.Warn("failed to close record store", logger.Error(err))
	}
}
