package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/shaiso/Bindsheet/internal/invoices"
)

// FetchInvoices выгружает счета всех компаний (или одной через ?company=)
// без записи в целевые таблицы.
// GET /api/v1/invoices
func (h *Handler) FetchInvoices(w http.ResponseWriter, r *http.Request) {
	h.fetchInvoices(w, r, r.URL.Query().Get("company"))
}

// FetchCompanyInvoices выгружает счета одной компании.
// GET /api/v1/invoices/{company}
func (h *Handler) FetchCompanyInvoices(w http.ResponseWriter, r *http.Request) {
	h.fetchInvoices(w, r, r.PathValue("company"))
}

func (h *Handler) fetchInvoices(w http.ResponseWriter, r *http.Request, companyID string) {
	results, err := h.invoices.FetchAll(r.Context(), companyID, false)
	if err != nil {
		if errors.Is(err, invoices.ErrCompanyNotFound) {
			NotFound(w, "company not found")
			return
		}
		if HandleSheetError(w, h.logger, err, "control sheet not found") {
			return
		}
	}

	Success(w, results)
}

// Push запускает фоновую выгрузку с записью в целевые таблицы.
// POST /api/v1/push?company=<id>
func (h *Handler) Push(w http.ResponseWriter, r *http.Request) {
	companyID := r.URL.Query().Get("company")

	// Выгрузка идёт в фоне: контекст запроса не наследуется,
	// чтобы закрытие соединения её не оборвало.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.pushTimeout)
		defer cancel()

		if _, err := h.invoices.FetchAll(ctx, companyID, true); err != nil {
			h.logger.Error("background push failed",
				"company_id", companyID,
				"error", err,
			)
		}
	}()

	Accepted(w, PushResponse{Status: "accepted", Company: companyID})
}
