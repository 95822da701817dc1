package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hamed0406/pulseping/internal/collector"
	"github.com/hamed0406/pulseping/internal/config"
	"github.com/hamed0406/pulseping/internal/logging"
	"github.com/hamed0406/pulseping/internal/metrics"
	"github.com/hamed0406/pulseping/internal/notify"
	"github.com/hamed0406/pulseping/internal/pinglog"
	"github.com/hamed0406/pulseping/internal/probe"
	"github.com/hamed0406/pulseping/internal/repo/backend"
	"github.com/hamed0406/pulseping/internal/scheduler"
)

func main() {
	once := flag.Bool("once", false, "run a single collection pass and exit (for cron or timer triggers)")
	metricsAddr := flag.String("metrics-addr", "", "serve /metrics on this address, e.g. :9100")
	flag.Parse()

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

	var checker probe.Checker = probe.NewHTTPChecker(cfg.ProbeTimeout)
	checker = &probe.RetryChecker{Inner: checker, Attempts: cfg.RetryAttempts, Backoff: cfg.RetryBackoff}
	if cfg.DNSDiagnostics {
		checker = probe.NewDNSDiagnostics(checker)
	}

	col := collector.New(logger, store, checker, cfg.URLs)
	col.Concurrency = cfg.MaxConcurrent
	col.Timeout = (cfg.ProbeTimeout + cfg.RetryBackoff) * time.Duration(cfg.RetryAttempts)
	col.Metrics = metrics.New(prometheus.DefaultRegisterer)

	alerter := scheduler.NewAlerter(logger, stores.Alerts, notify.New(logger, cfg.SlackWebhookURL), scheduler.AlerterConfig{
		AlertOnRecovery: cfg.AlertOnRecovery,
		Cooldown:        cfg.AlertCooldown,
	})

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			srv := &http.Server{Addr: *metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Warn("metrics_listen_error", zap.Error(err))
			}
		}()
	}

	logger.Info("collector_start",
		zap.Strings("urls", cfg.URLs),
		zap.Bool("once", *once),
		zap.Duration("interval", cfg.CheckInterval),
		zap.String("backend", cfg.StorageBackend),
	)

	if *once {
		recs, err := col.RunOnce(ctx)
		if oerr := alerter.Observe(ctx, recs); oerr != nil {
			logger.Warn("alerter_error", zap.Error(oerr))
		}
		if err != nil {
			logger.Error("collector_run_error", zap.Error(err))
			_ = logger.Sync()
			os.Exit(1)
		}
		return
	}

	scheduler.New(logger, col, cfg.CheckInterval, alerter).Run(ctx)
}
