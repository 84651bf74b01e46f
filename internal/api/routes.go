package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Middleware chain
	chain := Chain(
		Recovery(h.logger),
		Logging(h.logger),
		Metrics(),
		CORS(),
	)

	// Health
	mux.Handle("GET /ping", chain(http.HandlerFunc(h.Ping)))

	// Sheets
	mux.Handle("GET /api/v1/sheets/{id}", chain(http.HandlerFunc(h.GetSheet)))
	mux.Handle("GET /api/v1/config", chain(http.HandlerFunc(h.GetConfig)))

	// Jobs
	mux.Handle("GET /api/v1/jobs", chain(http.HandlerFunc(h.ListJobs)))

	// Invoices
	mux.Handle("GET /api/v1/invoices", chain(http.HandlerFunc(h.FetchInvoices)))
	mux.Handle("GET /api/v1/invoices/{company}", chain(http.HandlerFunc(h.FetchCompanyInvoices)))
	mux.Handle("POST /api/v1/push", chain(http.HandlerFunc(h.Push)))
}
