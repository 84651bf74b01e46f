package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Bindsheet/internal/domain"
	"github.com/shaiso/Bindsheet/internal/runner"
	"github.com/shaiso/Bindsheet/internal/telemetry"
)

// RowReader — reader-коллаборатор: свежие строки контрольной таблицы.
// Реализация — smartsheet.ControlSheet.
type RowReader interface {
	Rows(ctx context.Context) ([]domain.Record, error)
}

// Scheduler — планировщик per-company задач поверх контрольной таблицы.
type Scheduler struct {
	reader   RowReader
	runner   *runner.Runner
	updater  *Updater
	executor runner.Executor
	defaults Defaults
	logger   *slog.Logger
	now      func() time.Time
}

// Config — конфигурация Scheduler.
type Config struct {
	Reader   RowReader
	Runner   *runner.Runner
	Updater  *Updater
	Executor runner.Executor
	Defaults Defaults
	Logger   *slog.Logger

	// Now — источник текущего времени (для детерминированных тестов).
	// По умолчанию time.Now.
	Now func() time.Time
}

// New создаёт новый Scheduler.
func New(cfg Config) *Scheduler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Scheduler{
		reader:   cfg.Reader,
		runner:   cfg.Runner,
		updater:  cfg.Updater,
		executor: cfg.Executor,
		defaults: cfg.Defaults,
		logger:   logger,
		now:      now,
	}
}

// Tick выполняет один цикл планировщика.
//
// 1. Читает все строки контрольной таблицы (свежие, без кэша)
// 2. Парсит их в дескрипторы задач
// 3. Выбирает due задачи
// 4. Запускает их конкурентно
// 5. По мере завершения записывает last_run через Updater
//
// Tick возвращается только когда все задачи завершились и их записи
// применены (или зарепорчены) — следующий цикл никогда не видит
// незавершённый предыдущий. Ошибки строк не прерывают цикл:
// они аккумулируются в CycleReport. Ошибка возвращается только
// при недоступности самой контрольной таблицы.
func (s *Scheduler) Tick(ctx context.Context) (*domain.CycleReport, error) {
	now := s.now()
	report := &domain.CycleReport{
		CycleID:   uuid.New(),
		StartedAt: now,
	}
	logger := telemetry.WithCycleID(s.logger, report.CycleID.String())

	// 1. Читаем строки
	records, err := s.reader.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	report.RowsTotal = len(records)

	// 2. Парсим
	rows := make([]*domain.JobRow, 0, len(records))
	for _, rec := range records {
		row, err := ParseRow(rec, s.defaults)
		if err != nil {
			report.AddError(err)
			telemetry.RowsExcluded.WithLabelValues("malformed").Inc()
			logger.Warn("malformed row skipped", "row_id", rec.RowID, "error", err)
			continue
		}
		rows = append(rows, row)
	}

	// 3. Выбираем due
	due, errs := SelectDue(rows, now)
	for _, err := range errs {
		report.AddError(err)
		telemetry.RowsExcluded.WithLabelValues("config").Inc()
		logger.Warn("row excluded from scheduling", "error", err)
	}
	report.Due = len(due)

	if len(due) == 0 {
		s.finish(report, logger)
		return report, nil
	}

	logger.Info("due jobs selected", "count", len(due))

	// 4-5. Запускаем и записываем по мере завершения.
	// Канал закрывается после последней задачи — дочитав его,
	// мы гарантированно дождались конца цикла.
	for outcome := range s.runner.Dispatch(ctx, due, s.executor) {
		s.applyOutcome(ctx, report, logger, outcome)
	}

	s.finish(report, logger)
	return report, nil
}

// applyOutcome обрабатывает исход одной задачи.
func (s *Scheduler) applyOutcome(ctx context.Context, report *domain.CycleReport, logger *slog.Logger, outcome runner.Outcome) {
	companyID := outcome.Job.CompanyID

	switch {
	case outcome.Skipped:
		report.Skipped++
		report.AddError(outcome.Err)
		telemetry.JobsTotal.WithLabelValues("skipped").Inc()

	case outcome.Err != nil:
		// last_run не продвигается: задача останется due
		report.Failed++
		report.AddError(outcome.Err)
		telemetry.JobsTotal.WithLabelValues("failed").Inc()
		logger.Error("job failed", "company_id", companyID, "error", outcome.Err)

	default:
		if err := s.updater.Record(ctx, outcome.Job, outcome.Result.CompletedAt); err != nil {
			report.Failed++
			report.AddError(err)
			telemetry.JobsTotal.WithLabelValues("failed").Inc()
			logger.Error("job completed but not recorded", "company_id", companyID, "error", err)
			return
		}
		report.Succeeded++
		telemetry.JobsTotal.WithLabelValues("succeeded").Inc()
	}
}

// finish закрывает отчёт цикла и пишет итоговые метрики.
func (s *Scheduler) finish(report *domain.CycleReport, logger *slog.Logger) {
	report.FinishedAt = s.now()

	telemetry.CyclesTotal.Inc()
	telemetry.CycleDuration.Observe(report.FinishedAt.Sub(report.StartedAt).Seconds())

	logger.Info("cycle completed",
		"rows", report.RowsTotal,
		"due", report.Due,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"skipped", report.Skipped,
		"errors", len(report.Errors),
	)
}
