package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/hamed0406/pulseping/internal/config"
	"github.com/hamed0406/pulseping/internal/httpapi"
	"github.com/hamed0406/pulseping/internal/logging"
	"github.com/hamed0406/pulseping/internal/metrics"
	"github.com/hamed0406/pulseping/internal/pinglog"
	"github.com/hamed0406/pulseping/internal/repo/backend"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.NewLogger(logging.Options{Dir: cfg.LogDir, Level: cfg.LogLevel, Stderr: true})
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("storage_open_error", zap.String("backend", cfg.StorageBackend), zap.Error(err))
	}
	defer stores.Close()

	store := pinglog.New(stores.Blobs, logger, pinglog.Flags{
		PartitionLocks: cfg.PartitionLocks,
		NativeAppend:   cfg.NativeAppend,
	}.Options()...)

	api := httpapi.NewServer(logger, store, httpapi.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		APIKeys:        cfg.StatusAPIKeys,
		PublicRPM:      cfg.PublicRPM,
		PublicBurst:    cfg.PublicBurst,
		Metrics:        metrics.New(prometheus.DefaultRegisterer),
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("api_listen",
		zap.String("addr", cfg.Addr),
		zap.String("backend", cfg.StorageBackend),
		zap.String("container", cfg.ContainerName),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("api_listen_error", zap.Error(err))
	}
	logger.Info("api_stopped")
}
