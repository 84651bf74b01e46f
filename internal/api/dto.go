package api

import (
	"time"

	"github.com/shaiso/Bindsheet/internal/domain"
)

// JobResponse — строка контрольной таблицы с производным расписанием.
type JobResponse struct {
	RowID           int64      `json:"row_id"`
	CompanyID       string     `json:"company_id"`
	Client          string     `json:"client,omitempty"`
	IntervalMinutes float64    `json:"interval_minutes"`
	Timezone        string     `json:"timezone"`
	LastRun         *time.Time `json:"last_run,omitempty"`
	NextRun         time.Time  `json:"next_run"`
	Due             bool       `json:"due"`
}

// JobFromRow конвертирует domain.JobRow в JobResponse.
// next_run и due выводятся из last_run на момент запроса.
func JobFromRow(row *domain.JobRow, now time.Time) JobResponse {
	return JobResponse{
		RowID:           row.RowID,
		CompanyID:       row.CompanyID,
		Client:          row.Client,
		IntervalMinutes: row.Interval.Minutes(),
		Timezone:        row.Location.String(),
		LastRun:         row.LastRun,
		NextRun:         row.NextRun(now),
		Due:             row.IsDue(now),
	}
}

// JobListResponse — ответ /jobs: валидные строки плюс ошибки разбора.
type JobListResponse struct {
	Jobs   []JobResponse `json:"jobs"`
	Errors []string      `json:"errors,omitempty"`
}

// PushResponse — ответ POST /push.
type PushResponse struct {
	Status  string `json:"status"`
	Company string `json:"company,omitempty"`
}
