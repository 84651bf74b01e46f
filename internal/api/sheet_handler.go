package api

import (
	"net/http"
	"strconv"
)

// Ping — проверка живости сервиса.
// GET /ping
func (h *Handler) Ping(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetSheet возвращает произвольную таблицу как {header, data}.
// GET /api/v1/sheets/{id}
func (h *Handler) GetSheet(w http.ResponseWriter, r *http.Request) {
	sheetID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		BadRequest(w, "invalid sheet id")
		return
	}

	sheet, err := h.sheets.GetSheet(r.Context(), sheetID)
	if HandleSheetError(w, h.logger, err, "sheet not found") {
		return
	}

	Success(w, sheet.Table())
}

// GetConfig возвращает контрольную таблицу как {header, data}.
// GET /api/v1/config
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	table, err := h.control.Table(r.Context())
	if HandleSheetError(w, h.logger, err, "control sheet not found") {
		return
	}

	Success(w, table)
}
