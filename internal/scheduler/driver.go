package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// pollParser — парсер POLL_SPEC: стандартные 5-польные cron-выражения
// плюс дескрипторы ("@every 1m", "@hourly").
var pollParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Driver гоняет циклы планировщика по расписанию POLL_SPEC.
//
// Циклы строго последовательны: SkipIfStillRunning пропускает тик,
// пока предыдущий Tick не вернулся. На этом держится гарантия,
// что выборка цикла N+1 видит только полностью применённые
// (или зарепорченные) записи цикла N.
type Driver struct {
	cron         *cron.Cron
	sched        *Scheduler
	spec         string
	drainTimeout time.Duration
	logger       *slog.Logger

	// runCtx живёт дольше сигнального контекста Start:
	// выполняющийся цикл дорабатывает под ним при shutdown
	// и отменяется только если не уложился в drainTimeout.
	runCtx    context.Context
	runCancel context.CancelFunc
}

// DriverConfig — конфигурация Driver.
type DriverConfig struct {
	Scheduler *Scheduler

	// PollSpec — расписание циклов (default: "@every 1m").
	PollSpec string

	// DrainTimeout — сколько ждать завершения текущего цикла
	// при остановке (default: 30s).
	DrainTimeout time.Duration

	Logger *slog.Logger
}

// NewDriver создаёт Driver. Невалидный PollSpec — ошибка сразу,
// а не при первом тике.
func NewDriver(cfg DriverConfig) (*Driver, error) {
	spec := cfg.PollSpec
	if spec == "" {
		spec = "@every 1m"
	}
	if _, err := pollParser.Parse(spec); err != nil {
		return nil, fmt.Errorf("invalid poll spec %q: %w", spec, err)
	}

	drainTimeout := cfg.DrainTimeout
	if drainTimeout <= 0 {
		drainTimeout = 30 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := cron.New(
		cron.WithParser(pollParser),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	return &Driver{
		cron:         c,
		sched:        cfg.Scheduler,
		spec:         spec,
		drainTimeout: drainTimeout,
		logger:       logger,
	}, nil
}

// Start запускает циклы. Отмена ctx блокирует запуск новых циклов,
// но НЕ прерывает текущий: его задачи дорабатывают, и их записи
// применяются. Прервать зависший цикл может только Stop —
// по истечении drainTimeout.
func (d *Driver) Start(ctx context.Context) error {
	d.runCtx, d.runCancel = context.WithCancel(context.Background())

	_, err := d.cron.AddFunc(d.spec, func() {
		if ctx.Err() != nil || d.runCtx.Err() != nil {
			return
		}
		if _, err := d.sched.Tick(d.runCtx); err != nil {
			d.logger.Error("cycle failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("register poll func: %w", err)
	}

	d.cron.Start()
	d.logger.Info("scheduler driver started", "poll_spec", d.spec)
	return nil
}

// Stop останавливает расписание и ждёт завершения текущего цикла —
// выполненный, но не записанный запуск не теряется молча.
// Если цикл не уложился в drainTimeout, возвращает ErrDrainTimeout.
func (d *Driver) Stop() error {
	drained := d.cron.Stop()

	select {
	case <-drained.Done():
		if d.runCancel != nil {
			d.runCancel()
		}
		d.logger.Info("scheduler driver stopped")
		return nil
	case <-time.After(d.drainTimeout):
		// только теперь цикл действительно прерывается
		if d.runCancel != nil {
			d.runCancel()
		}
		d.logger.Warn("drain timeout exceeded, in-flight cycle abandoned")
		return ErrDrainTimeout
	}
}
