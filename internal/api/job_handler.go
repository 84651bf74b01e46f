package api

import (
	"net/http"
	"sort"

	"github.com/shaiso/Bindsheet/internal/scheduler"
)

// ListJobs возвращает разобранные строки контрольной таблицы
// с производными next_run/due и ошибками разбора.
// GET /api/v1/jobs
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	records, err := h.control.Rows(r.Context())
	if HandleSheetError(w, h.logger, err, "control sheet not found") {
		return
	}

	now := h.now()
	resp := JobListResponse{Jobs: []JobResponse{}}

	for _, rec := range records {
		row, err := scheduler.ParseRow(rec, h.defaults)
		if err != nil {
			resp.Errors = append(resp.Errors, err.Error())
			continue
		}
		resp.Jobs = append(resp.Jobs, JobFromRow(row, now))
	}

	sort.Slice(resp.Jobs, func(i, j int) bool {
		return resp.Jobs[i].CompanyID < resp.Jobs[j].CompanyID
	})

	Success(w, resp)
}
