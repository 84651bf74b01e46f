package domain

import "time"

// Record — сырая строка контрольной таблицы.
//
// Cells — значения ячеек по заголовку колонки, как их вернул Smartsheet
// (displayValue, если есть, иначе value). RowID нужен для обратной записи.
type Record struct {
	RowID int64
	Cells map[string]any
}

// JobRow — распарсенная строка контрольной таблицы: дескриптор
// периодической задачи одной компании.
//
// NextRun не хранится — всегда выводится из LastRun + Interval.
// Колонка "Siguiente ejecucion" в таблице заполняется только для
// отображения и никогда не читается обратно.
type JobRow struct {
	// RowID — id строки в контрольной таблице (для записи timestamps).
	RowID int64

	// CompanyID — уникальный идентификатор компании (колонка "ID").
	CompanyID string

	// Client — человекочитаемое имя компании (колонка "Cliente").
	// Используется только в логах.
	Client string

	// Interval — интервал между запусками.
	// Значение <= 0 — конфигурационная ошибка, строка не планируется.
	Interval time.Duration

	// LastRun — время последнего успешного запуска.
	// nil означает «ещё не запускалась» — задача немедленно due.
	LastRun *time.Time

	// Location — часовой пояс строки для интерпретации naive-времени.
	Location *time.Location
}

// NextRun возвращает время следующего запуска: LastRun + Interval.
// Для никогда не запускавшейся строки возвращает now (задача сразу due).
func (j *JobRow) NextRun(now time.Time) time.Time {
	if j.LastRun == nil {
		return now
	}
	return j.LastRun.Add(j.Interval)
}

// IsDue проверяет, пора ли запускать: NextRun <= now.
func (j *JobRow) IsDue(now time.Time) bool {
	return !j.NextRun(now).After(now)
}
