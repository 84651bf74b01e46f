package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики планировщика.
var (
	// CyclesTotal — количество завершённых циклов планировщика.
	CyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bindsheet_scheduler_cycles_total",
		Help: "Total completed scheduler cycles",
	})

	// CycleDuration — длительность цикла планировщика.
	CycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bindsheet_scheduler_cycle_duration_seconds",
		Help:    "Scheduler cycle duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// JobsTotal — задачи по исходу: succeeded, failed, skipped.
	JobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bindsheet_scheduler_jobs_total",
		Help: "Scheduled jobs by outcome",
	}, []string{"status"})

	// RowsExcluded — строки, исключённые из планирования: malformed, config.
	RowsExcluded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bindsheet_scheduler_rows_excluded_total",
		Help: "Control sheet rows excluded from scheduling by reason",
	}, []string{"reason"})
)

// Метрики внешних вызовов.
var (
	// BindPages — страницы, загруженные из Bind API.
	BindPages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bindsheet_bind_pages_total",
		Help: "Pages fetched from Bind API",
	})

	// BindInvoices — счета, загруженные из Bind API.
	BindInvoices = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bindsheet_bind_invoices_total",
		Help: "Invoices fetched from Bind API",
	})

	// SheetWrites — записи в Smartsheet: insert, update, schedule.
	SheetWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bindsheet_smartsheet_writes_total",
		Help: "Smartsheet row writes by kind",
	}, []string{"kind"})

	// HTTPRequests — HTTP запросы к API по методу и статусу.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bindsheet_http_requests_total",
		Help: "HTTP requests handled by the API",
	}, []string{"method", "status"})
)
