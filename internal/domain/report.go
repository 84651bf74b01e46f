package domain

import (
	"time"

	"github.com/google/uuid"
)

// CycleReport — агрегированный отчёт одного цикла планировщика.
//
// Ошибки отдельных строк собираются сюда, а не прерывают цикл.
type CycleReport struct {
	// CycleID — уникальный идентификатор цикла (для корреляции логов).
	CycleID uuid.UUID `json:"cycle_id"`

	// StartedAt — момент начала цикла (инжектированные часы).
	StartedAt time.Time `json:"started_at"`

	// FinishedAt — момент завершения цикла.
	FinishedAt time.Time `json:"finished_at"`

	// RowsTotal — сколько строк прочитано из контрольной таблицы.
	RowsTotal int `json:"rows_total"`

	// Due — сколько задач было выбрано к запуску.
	Due int `json:"due"`

	// Succeeded — выполнено и записано в таблицу.
	Succeeded int `json:"succeeded"`

	// Failed — завершилось ExecutionError или PersistenceError.
	Failed int `json:"failed"`

	// Skipped — пропущено из-за in-flight guard (компания ещё выполняется).
	Skipped int `json:"skipped"`

	// Errors — все ошибки цикла: malformed строки, конфигурационные,
	// ошибки выполнения и записи.
	Errors []error `json:"-"`
}

// AddError добавляет ошибку строки в отчёт. nil игнорируется.
func (r *CycleReport) AddError(err error) {
	if err == nil {
		return
	}
	r.Errors = append(r.Errors, err)
}

// ErrorStrings возвращает ошибки цикла в виде строк (для JSON/логов).
func (r *CycleReport) ErrorStrings() []string {
	if len(r.Errors) == 0 {
		return nil
	}
	out := make([]string, len(r.Errors))
	for i, err := range r.Errors {
		out[i] = err.Error()
	}
	return out
}
