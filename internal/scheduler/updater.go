package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/shaiso/Bindsheet/internal/domain"
)

// SheetWriter — writer-коллаборатор: запись расписания в строку
// источника истины. Реализация — smartsheet.ControlSheet.
type SheetWriter interface {
	WriteSchedule(ctx context.Context, rowID int64, lastRun, nextRun time.Time) error
}

// Updater записывает результат успешного запуска обратно в контрольную
// таблицу. Единственный писатель last_run во всей системе.
type Updater struct {
	writer SheetWriter
	logger *slog.Logger
}

// NewUpdater создаёт новый Updater.
func NewUpdater(writer SheetWriter, logger *slog.Logger) *Updater {
	if logger == nil {
		logger = slog.Default()
	}
	return &Updater{writer: writer, logger: logger}
}

// Record фиксирует завершение задачи: last_run = completedAt,
// next_run = completedAt + interval (производная, хранится только
// для отображения).
//
// Идемпотентен при at-least-once: повторная запись того же
// completedAt даёт идентичное состояние таблицы. При ошибке записи
// возвращает *domain.PersistenceError — расписание не продвигается,
// задача будет выбрана снова в следующем цикле.
func (u *Updater) Record(ctx context.Context, job *domain.JobRow, completedAt time.Time) error {
	lastRun := completedAt.UTC().Truncate(time.Second)
	nextRun := lastRun.Add(job.Interval)

	if err := u.writer.WriteSchedule(ctx, job.RowID, lastRun, nextRun); err != nil {
		return &domain.PersistenceError{
			CompanyID: job.CompanyID,
			RowID:     job.RowID,
			Err:       err,
		}
	}

	u.logger.Info("run recorded",
		"company_id", job.CompanyID,
		"row_id", job.RowID,
		"last_run", lastRun.Format(time.RFC3339),
		"next_run", nextRun.Format(time.RFC3339),
	)
	return nil
}
