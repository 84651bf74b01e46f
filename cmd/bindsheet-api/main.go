package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Bindsheet/internal/api"
	"github.com/shaiso/Bindsheet/internal/bind"
	"github.com/shaiso/Bindsheet/internal/config"
	"github.com/shaiso/Bindsheet/internal/invoices"
	"github.com/shaiso/Bindsheet/internal/scheduler"
	"github.com/shaiso/Bindsheet/internal/smartsheet"
	"github.com/shaiso/Bindsheet/internal/telemetry"
)

var startTime = time.Now()

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting bindsheet-api")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Клиенты внешних API
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

	svc := invoices.New(invoices.Config{
		Control: control,
		Sheets:  sheets,
		Bind:    bindClient,
		Logger:  logger,
	})

	// Создаём API handler
	handler := api.NewHandler(api.Config{
		Sheets:   sheets,
		Control:  control,
		Invoices: svc,
		Defaults: scheduler.LoadDefaults(cfg.DefaultTimezone),
		Logger:   logger,
	})

	mux := http.NewServeMux()

	// Health и metrics
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %s", time.Since(startTime))
	})
	mux.Handle("/metrics", promhttp.Handler())

	// Регистрируем API маршруты
	handler.RegisterRoutes(mux)

	addr := ":" + cfg.APIPort

	// Создаём HTTP сервер с возможностью graceful shutdown
	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Запускаем сервер в горутине
	go func() {
		logger.Info("listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Ожидаем сигнал завершения
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	<-ctx.Done()
	logger.Info("shutting down")

	// Graceful shutdown с таймаутом 10 секунд
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("stopped")
}
