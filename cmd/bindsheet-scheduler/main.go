package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Bindsheet/internal/bind"
	"github.com/shaiso/Bindsheet/internal/config"
	"github.com/shaiso/Bindsheet/internal/invoices"
	"github.com/shaiso/Bindsheet/internal/runner"
	"github.com/shaiso/Bindsheet/internal/scheduler"
	"github.com/shaiso/Bindsheet/internal/smartsheet"
	"github.com/shaiso/Bindsheet/internal/telemetry"
)

func main() {
	logger := telemetry.SetupLogger()
	logger.Info("starting bindsheet-scheduler")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:    ":" + cfg.SchedPort,
		Handler: mux,
	}
	go func() {
		logger.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			cancel()
		}
	}()

	// Планировщик работает только при включённом JOB_ENABLED
	// и заданной контрольной таблице.
	var driver *scheduler.Driver
	switch {
	case !cfg.JobEnabled:
		logger.Warn("scheduler disabled (JOB_ENABLED is off), serving health only")
	case cfg.ControlSheetID == 0:
		logger.Warn("control sheet id not set, serving health only")
	default:
		driver, err = buildDriver(cfg, logger)
		if err != nil {
			logger.Error("failed to build scheduler", "error", err)
			os.Exit(1)
		}
		if err := driver.Start(ctx); err != nil {
			logger.Error("failed to start scheduler", "error", err)
			os.Exit(1)
		}
		logger.Info("scheduler started", "poll_spec", cfg.PollSpec)
	}

	<-ctx.Done()
	logger.Info("shutting down")

	// Сначала дожидаемся текущего цикла, потом гасим HTTP.
	if driver != nil {
		if err := driver.Stop(); err != nil {
			logger.Error("drain error", "error", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("stopped")
}

// buildDriver собирает весь конвейер планировщика:
// control sheet → selector → runner → invoices executor → updater.
func buildDriver(cfg *config.Config, logger *slog.Logger) (*scheduler.Driver, error) {
	sheets := smartsheet.New(smartsheet.Config{
		Token:   cfg.SmartsheetToken,
		BaseURL: cfg.SmartsheetBaseURL,
		Logger:  logger,
	})
	control := smartsheet.NewControlSheet(sheets, cfg.ControlSheetID, logger)
	bindClient := bind.New(bind.Config{
		Timeout: cfg.BindTimeout,
		Logger:  logger,
	})

	executor := invoices.New(invoices.Config{
		Control: control,
		Sheets:  sheets,
		Bind:    bindClient,
		Logger:  logger,
	})

	sched := scheduler.New(scheduler.Config{
		Reader:   control,
		Runner:   runner.New(runner.Config{MaxConcurrent: cfg.MaxConcurrent, Logger: logger}),
		Updater:  scheduler.NewUpdater(control, logger),
		Executor: executor,
		Defaults: scheduler.LoadDefaults(cfg.DefaultTimezone),
		Logger:   logger,
	})

	return scheduler.NewDriver(scheduler.DriverConfig{
		Scheduler:    sched,
		PollSpec:     cfg.PollSpec,
		DrainTimeout: cfg.DrainTimeout,
		Logger:       logger,
	})
}
