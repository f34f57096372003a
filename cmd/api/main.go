package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/routerlabs/quote-aggregator/internal/cache"
	"github.com/routerlabs/quote-aggregator/internal/config"
	"github.com/routerlabs/quote-aggregator/internal/flags"
	"github.com/routerlabs/quote-aggregator/internal/metrics"
	"github.com/routerlabs/quote-aggregator/internal/portion"
	"github.com/routerlabs/quote-aggregator/internal/router"
	"github.com/routerlabs/quote-aggregator/internal/server"
	"github.com/routerlabs/quote-aggregator/internal/storage"
)

// env bootstrap function
func loadEnv(logger *logrus.Logger) {
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "../..")
	envPath := filepath.Join(projectRoot, ".env")

	if err := godotenv.Load(envPath); err != nil {
		logger.Warnf("no .env file found at %s, using system environment variables", envPath)
	} else {
		logger.Infof("loaded .env from %s", envPath)
	}
}

// main initializes all dependencies and starts the HTTP server with
// graceful shutdown.
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.InfoLevel)

	// load .env BEFORE anything reads os.Getenv
	loadEnv(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Redis backs both the portion cache and runtime feature flags. When it
	// is unreachable the service still comes up on the in-process cache and
	// environment flags.
	var portionCache cache.Store
	var flagStore *flags.Store
	flagProvider := flags.Provider(flags.EnvProvider{})

	rclient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   0,
	})
	if err := rclient.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("redis unreachable, using in-memory portion cache and env flags")
		portionCache = cache.NewMemory()
	} else {
		rc, err := cache.NewRedis(rclient, "portion:")
		if err != nil {
			logger.WithError(err).Fatal("failed to create redis cache")
		}
		portionCache = rc

		fs, err := flags.NewStore(rclient)
		if err != nil {
			logger.WithError(err).Fatal("failed to create flags store")
		}
		flagStore = fs
		flagProvider = &flags.StoreProvider{Store: fs, Fallback: flags.EnvProvider{}}
	}

	// Quote analytics sink (optional)
	var quoteStore storage.QuoteStore
	if cfg.ClickHouseAddr != "" {
		chs, err := storage.NewClickHouseStore(storage.ClickHouseConfig{
			Addr:     cfg.ClickHouseAddr,
			Database: cfg.ClickHouseDatabase,
			Username: cfg.ClickHouseUsername,
			Password: cfg.ClickHousePassword,
		})
		if err != nil {
			logger.WithError(err).Warn("clickhouse unavailable, quote logs will not be persisted")
		} else {
			quoteStore = chs
			defer func() {
				_ = chs.Close()
			}()
		}
	}

	fetcher := portion.NewFetcher(portion.FetcherConfig{
		Client:      portion.NewClient(cfg.PortionURL, cfg.PortionAPIKey, cfg.HTTPTimeout),
		Cache:       portionCache,
		Flags:       flagProvider,
		FlagKey:     cfg.PortionFlagKey,
		Metrics:     &metrics.LogEmitter{Logger: logger},
		Logger:      logger,
		PositiveTTL: cfg.PortionPositiveTTL,
		NegativeTTL: cfg.PortionNegativeTTL,
		BypassCache: cfg.PortionCacheBypass,
	})

	var routerClient *router.Client
	if cfg.RouterURL != "" {
		routerClient = router.NewClient(cfg.RouterURL, cfg.RouterAPIKey, cfg.HTTPTimeout)
	}

	h := &server.Handlers{
		Portion: fetcher,
		Router:  routerClient,
		Quotes:  quoteStore,
		Flags:   flagStore,
		DevMode: cfg.DevMode,
		Logger:  logger,
	}

	srv, err := server.NewServer(server.ServerDeps{
		Handlers: h,
		Config: server.ServerConfig{
			Addr:    cfg.APIAddr,
			DevMode: cfg.DevMode,
			APIKey:  cfg.APIKey,
		},
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to create http server")
	}

	go func() {
		<-sigCh
		logger.Info("shutting down")
		cancel()
		_ = srv.Shutdown(context.Background())
	}()

	logger.WithField("addr", cfg.APIAddr).Info("api server starting")
	if err := srv.Start(); err != nil {
		// "http: Server closed" is expected during graceful shutdown
		if err.Error() == "http: Server closed" {
			return
		}
		logger.WithError(err).Fatal("api server failed")
	}

	if err := srv.WaitClosed(context.Background()); err != nil {
		fmt.Println(err)
	}
}
