package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/adrianbrandt/web-chores/internal/config"
	"github.com/adrianbrandt/web-chores/internal/events"
	"github.com/adrianbrandt/web-chores/internal/middleware"
	"github.com/adrianbrandt/web-chores/internal/recurrence"
	"github.com/adrianbrandt/web-chores/internal/rpc"
	"github.com/adrianbrandt/web-chores/internal/service"
	"github.com/adrianbrandt/web-chores/internal/storage/sqlite"
	"github.com/adrianbrandt/web-chores/pkg/logging"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return err
	}

	logger := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.DBPath)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	engineOpts := []recurrence.Option{recurrence.WithMetrics(recurrence.NewMetrics(registry))}

	if cfg.RedisAddr != "" {
		locker, err := recurrence.NewRedisLocker(ctx, cfg.RedisAddr)
		if err != nil {
			return err
		}
		defer locker.Close()
		engineOpts = append(engineOpts, recurrence.WithLocker(locker))
		logger.Info("Regeneration run lock enabled", "redis", cfg.RedisAddr)
	}

	if cfg.EventsEnabled() {
		publisher, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return err
		}
		defer publisher.Close()
		engineOpts = append(engineOpts, recurrence.WithPublisher(publisher))
		logger.Info("Event publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	engine := recurrence.NewEngine(store, logger, engineOpts...)

	mux := http.NewServeMux()

	// Register Connect services
	rpc.Register(mux, rpc.Services{
		Groups: service.NewGroupService(store, logger),
		Lists:  service.NewListService(store, logger),
		Items:  service.NewItemService(store, logger),
		Engine: engine,
	}, connect.WithInterceptors(
		middleware.LoggingInterceptor(logger),
		middleware.MetricsInterceptor(middleware.NewRPCMetrics(registry)),
		middleware.ErrorInterceptor(),
		middleware.RequireIdentity(),
	))

	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	})

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           h2c.NewHandler(corsMiddleware(mux), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	engineDone := make(chan struct{})
	if cfg.RecurrenceInterval > 0 {
		go func() {
			defer close(engineDone)
			engine.Run(ctx, cfg.RecurrenceInterval)
		}()
	} else {
		close(engineDone)
		logger.Info("Recurrence loop disabled")
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Connect server starting", "address", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		stop()
		<-engineDone
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	<-engineDone
	return nil
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms, X-User-ID")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms, X-Error-Code")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
