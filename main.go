package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/pollboard/cliparse"
	"github.com/danielhkuo/pollboard/db"
	"github.com/danielhkuo/pollboard/events"
	"github.com/danielhkuo/pollboard/kvstore"
	"github.com/danielhkuo/pollboard/logging"
	"github.com/danielhkuo/pollboard/metrics"
	"github.com/danielhkuo/pollboard/middleware"
	"github.com/danielhkuo/pollboard/pollstore"
	"github.com/danielhkuo/pollboard/router"
	"github.com/danielhkuo/pollboard/session"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := cliparse.LoadDotEnv(".env"); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		slog.Error("Error parsing log level", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logging.New(os.Stderr, level))

	if err := run(cfg); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg cliparse.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			slog.Warn("failed to close store", "error", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	var publisher events.Publisher = events.LogPublisher{}
	if len(cfg.EventBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.EventBrokers, cfg.EventTopic)
		slog.Info("Publishing poll events to kafka", "brokers", cfg.EventBrokers, "topic", cfg.EventTopic)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			slog.Warn("failed to close event publisher", "error", err)
		}
	}()

	sessions := session.New(kv,
		session.WithLoginDelay(cfg.LoginDelay),
		session.WithMetrics(m),
	)
	sessions.Restore(ctx)

	opts := []pollstore.Option{
		pollstore.WithPublisher(publisher),
		pollstore.WithMetrics(m),
	}
	if cfg.SeedDemo {
		opts = append(opts, pollstore.WithSeed(pollstore.DemoPolls(time.Now())))
	}
	polls := pollstore.New(kv, sessions, opts...)
	polls.Restore(ctx)

	mux := router.NewRouter(sessions, polls, registry)

	server := &http.Server{
		Handler:           middleware.CORS(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Listening", "port", cfg.Port, "store", cfg.StoreType)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	slog.Info("Server closed")
	return err
}

// openStore connects the configured blob backend and returns it with its
// closer.
func openStore(ctx context.Context, cfg cliparse.Config) (kvstore.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StoreType {
	case cliparse.StoreMemory:
		slog.Warn("Using in-memory store; nothing survives a restart")
		return kvstore.NewMemoryStore(), noop, nil

	case cliparse.StoreSQLite, cliparse.StorePostgres:
		driver := db.DriverSQLite
		if cfg.StoreType == cliparse.StorePostgres {
			driver = db.DriverPostgres
		}

		dbConn, err := sql.Open(driver, cfg.StoreURL)
		if err != nil {
			return nil, nil, fmt.Errorf("database connection failed: %w", err)
		}
		if err := dbConn.PingContext(ctx); err != nil {
			dbConn.Close()
			return nil, nil, fmt.Errorf("database ping failed: %w", err)
		}
		if err := db.CreateSchema(dbConn); err != nil {
			dbConn.Close()
			return nil, nil, fmt.Errorf("schema creation failed: %w", err)
		}
		slog.Info("Database schema ready", "driver", driver)
		return kvstore.NewSQLStore(dbConn), dbConn.Close, nil

	case cliparse.StoreRedis:
		client, err := kvstore.DialRedis(ctx, cfg.StoreURL)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("Redis store ready")
		return kvstore.NewRedisStore(client, kvstore.DefaultRedisPrefix), client.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store type %q", cfg.StoreType)
	}
}
