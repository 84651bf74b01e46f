package bind

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shaiso/Bindsheet/internal/domain"
	"github.com/shaiso/Bindsheet/internal/telemetry"
)

// DefaultInvoicesURL — базовый URL Bind API для компаний без "API URL".
const DefaultInvoicesURL = "https://api.bind.com.mx/api/Invoices"

// Invoice — счёт из Bind API. Форма свободная: набор полей зависит
// от компании, маппинг в колонки задаётся правилами.
type Invoice map[string]any

// Client — клиент Bind ERP API.
//
// Токен не хранится в клиенте: он свой у каждой компании
// и берётся из domain.Company при запросе.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// Config — конфигурация Client.
type Config struct {
	Timeout time.Duration // default: 30s
	Logger  *slog.Logger
}

// New создаёт новый Client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// page — страница ответа Bind API.
type page struct {
	Value    []Invoice `json:"value"`
	NextLink string    `json:"nextLink"`
}

// FetchInvoices скачивает все счета компании, следуя nextLink
// до последней страницы.
func (c *Client) FetchInvoices(ctx context.Context, company *domain.Company) ([]Invoice, error) {
	url := BuildURL(NormalizeBaseURL(company.APIURL), company.Filter)

	var invoices []Invoice
	for pageNum := 1; url != ""; pageNum++ {
		c.logger.Debug("bind page",
			"company_id", company.ID,
			"page", pageNum,
			"url", url,
		)

		pg, err := c.fetchPage(ctx, url, company.APIToken)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d for company %s: %w", pageNum, company.ID, err)
		}

		invoices = append(invoices, pg.Value...)
		url = pg.NextLink
		telemetry.BindPages.Inc()
	}

	telemetry.BindInvoices.Add(float64(len(invoices)))
	return invoices, nil
}

// fetchPage скачивает одну страницу.
func (c *Client) fetchPage(ctx context.Context, url, token string) (*page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 800))
		return nil, &APIError{StatusCode: resp.StatusCode, Message: string(data)}
	}

	var pg page
	if err := json.NewDecoder(resp.Body).Decode(&pg); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &pg, nil
}

// NormalizeBaseURL чинит типичные ошибки в колонке "API URL":
//   - пустое значение → URL по умолчанию
//   - хвост "/invoices" → "/Invoices" (Bind чувствителен к регистру)
//   - "/v1/" без "/api/" → "/api/"
func NormalizeBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return DefaultInvoicesURL
	}
	if strings.HasSuffix(strings.ToLower(base), "/invoices") {
		base = base[:len(base)-len("invoices")] + "Invoices"
	}
	if strings.Contains(base, "/v1/") && !strings.Contains(base, "/api/") {
		base = strings.Replace(base, "/v1/", "/api/", 1)
	}
	return base
}

// BuildURL добавляет к базовому URL фильтр из колонки "Filtro".
// Фильтр может быть записан с "?" и без префикса "$filter=" —
// обе формы нормализуются.
func BuildURL(base, filter string) string {
	clean := strings.TrimSpace(filter)
	if clean == "" {
		return base
	}
	clean = strings.TrimPrefix(clean, "?")
	if !strings.HasPrefix(strings.ToLower(clean), "$filter=") {
		clean = "$filter=" + clean
	}

	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + clean
}
