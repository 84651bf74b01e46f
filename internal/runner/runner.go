package runner

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/shaiso/Bindsheet/internal/domain"
)

// Executor — capability-интерфейс задачи компании.
//
// Реализация (invoices.Service) скачивает счета из Bind и пушит их
// в целевую таблицу; для планировщика это непрозрачная единица работы.
type Executor interface {
	Execute(ctx context.Context, companyID string) (*Result, error)
}

// Result — результат успешного выполнения задачи.
type Result struct {
	// CompletedAt — момент завершения задачи.
	// Именно это время становится новым last_run.
	CompletedAt time.Time

	// Invoices — сколько счетов обработано (информационно, для логов).
	Invoices int
}

// Outcome — исход одной задачи цикла.
type Outcome struct {
	Job     *domain.JobRow
	Result  *Result // заполнен при успехе
	Skipped bool    // задача пропущена in-flight guard'ом
	Err     error   // *domain.ExecutionError при ошибке или пропуске
}

// Runner запускает due задачи цикла конкурентно.
//
// Контракт:
//   - все задачи цикла стартуют, не дожидаясь завершения друг друга
//     (MaxConcurrent ограничивает только одновременное выполнение);
//   - ошибка задачи никогда не роняет цикл — она попадает в Outcome;
//   - одна компания никогда не выполняется дважды одновременно:
//     задача компании, ещё не завершившей предыдущий запуск,
//     пропускается и репортится (in-flight guard).
type Runner struct {
	maxConcurrent int64
	logger        *slog.Logger

	mu       sync.Mutex
	inflight map[string]bool
}

// Config — конфигурация Runner.
type Config struct {
	// MaxConcurrent — предел одновременно выполняющихся задач.
	// 0 — без предела: все due задачи цикла выполняются сразу.
	MaxConcurrent int
	Logger        *slog.Logger
}

// New создаёт новый Runner.
func New(cfg Config) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		maxConcurrent: int64(cfg.MaxConcurrent),
		logger:        logger,
		inflight:      make(map[string]bool),
	}
}

// Dispatch запускает все задачи и возвращает канал исходов.
//
// Канал закрывается после завершения всех задач — вычитав его до конца,
// вызывающий гарантированно дождался конца цикла.
func (r *Runner) Dispatch(ctx context.Context, jobs []*domain.JobRow, exec Executor) <-chan Outcome {
	out := make(chan Outcome, len(jobs))

	limit := r.maxConcurrent
	if limit <= 0 {
		limit = int64(len(jobs))
	}
	if limit == 0 {
		limit = 1
	}
	sem := semaphore.NewWeighted(limit)

	var wg sync.WaitGroup
	for _, job := range jobs {
		if !r.acquire(job.CompanyID) {
			r.logger.Warn("company still running, skipped",
				"company_id", job.CompanyID,
			)
			out <- Outcome{
				Job:     job,
				Skipped: true,
				Err:     &domain.ExecutionError{CompanyID: job.CompanyID, Err: ErrAlreadyRunning},
			}
			continue
		}

		wg.Add(1)
		go func(job *domain.JobRow) {
			defer wg.Done()
			defer r.release(job.CompanyID)

			if err := sem.Acquire(ctx, 1); err != nil {
				out <- Outcome{
					Job: job,
					Err: &domain.ExecutionError{CompanyID: job.CompanyID, Err: err},
				}
				return
			}
			defer sem.Release(1)

			result, err := exec.Execute(ctx, job.CompanyID)
			if err != nil {
				out <- Outcome{
					Job: job,
					Err: &domain.ExecutionError{CompanyID: job.CompanyID, Err: err},
				}
				return
			}
			out <- Outcome{Job: job, Result: result}
		}(job)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

// acquire помечает компанию как выполняющуюся.
// false — компания уже in-flight.
func (r *Runner) acquire(companyID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inflight[companyID] {
		return false
	}
	r.inflight[companyID] = true
	return true
}

// release снимает отметку in-flight.
func (r *Runner) release(companyID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inflight, companyID)
}
