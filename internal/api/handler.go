package api

import (
	"log/slog"
	"time"

	"github.com/shaiso/Bindsheet/internal/invoices"
	"github.com/shaiso/Bindsheet/internal/scheduler"
	"github.com/shaiso/Bindsheet/internal/smartsheet"
)

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	sheets   *smartsheet.Client
	control  *smartsheet.ControlSheet
	invoices *invoices.Service
	defaults scheduler.Defaults
	logger   *slog.Logger
	now      func() time.Time

	// pushTimeout — предел фоновой выгрузки, запущенной через POST /push.
	pushTimeout time.Duration
}

// Config — конфигурация для создания Handler.
type Config struct {
	Sheets   *smartsheet.Client
	Control  *smartsheet.ControlSheet
	Invoices *invoices.Service
	Defaults scheduler.Defaults
	Logger   *slog.Logger

	// Now — источник времени для derived-полей /jobs (default: time.Now).
	Now func() time.Time

	// PushTimeout — таймаут фоновой выгрузки (default: 10m).
	PushTimeout time.Duration
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	pushTimeout := cfg.PushTimeout
	if pushTimeout <= 0 {
		pushTimeout = 10 * time.Minute
	}
	return &Handler{
		sheets:      cfg.Sheets,
		control:     cfg.Control,
		invoices:    cfg.Invoices,
		defaults:    cfg.Defaults,
		logger:      logger,
		now:         now,
		pushTimeout: pushTimeout,
	}
}
