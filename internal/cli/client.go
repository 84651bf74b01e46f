package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// TableResponse — таблица Smartsheet как {header, data}.
type TableResponse struct {
	Header []string         `json:"header"`
	Data   []map[string]any `json:"data"`
}

// JobResponse — строка расписания из API.
type JobResponse struct {
	RowID           int64   `json:"row_id"`
	CompanyID       string  `json:"company_id"`
	Client          string  `json:"client,omitempty"`
	IntervalMinutes float64 `json:"interval_minutes"`
	Timezone        string  `json:"timezone"`
	LastRun         string  `json:"last_run,omitempty"`
	NextRun         string  `json:"next_run"`
	Due             bool    `json:"due"`
}

// JobListResponse — ответ /jobs.
type JobListResponse struct {
	Jobs   []JobResponse `json:"jobs"`
	Errors []string      `json:"errors,omitempty"`
}

// FetchResult — итог выгрузки одной компании.
type FetchResult struct {
	Client string `json:"client,omitempty"`
	Count  int    `json:"count"`
	Error  string `json:"error,omitempty"`
}

// PushResponse — ответ POST /push.
type PushResponse struct {
	Status  string `json:"status"`
	Company string `json:"company,omitempty"`
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- Client ---

// Client — HTTP-клиент для Bindsheet API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

// Ping проверяет доступность сервиса.
func (c *Client) Ping() error {
	resp, err := c.httpClient.Get(c.baseURL + "/ping")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: HTTP %d", resp.StatusCode)
	}
	return nil
}

// GetSheet возвращает произвольную таблицу.
func (c *Client) GetSheet(id string) (*TableResponse, error) {
	var table TableResponse
	err := c.get("/api/v1/sheets/"+url.PathEscape(id), &table)
	return &table, err
}

// GetConfig возвращает контрольную таблицу.
func (c *Client) GetConfig() (*TableResponse, error) {
	var table TableResponse
	err := c.get("/api/v1/config", &table)
	return &table, err
}

// ListJobs возвращает расписание компаний.
func (c *Client) ListJobs() (*JobListResponse, error) {
	var jobs JobListResponse
	err := c.get("/api/v1/jobs", &jobs)
	return &jobs, err
}

// FetchInvoices выгружает счета. companyID="" — все компании.
func (c *Client) FetchInvoices(companyID string) (map[string]FetchResult, error) {
	path := "/api/v1/invoices"
	if companyID != "" {
		path += "/" + url.PathEscape(companyID)
	}

	var results map[string]FetchResult
	err := c.get(path, &results)
	return results, err
}

// Push запускает фоновую выгрузку с записью в целевые таблицы.
func (c *Client) Push(companyID string) (*PushResponse, error) {
	path := "/api/v1/push"
	if companyID != "" {
		path += "?company=" + url.QueryEscape(companyID)
	}

	var pr PushResponse
	err := c.doData(http.MethodPost, path, &pr)
	return &pr, err
}

// --- HTTP helpers ---

func (c *Client) get(path string, result any) error {
	return c.doData(http.MethodGet, path, result)
}

func (c *Client) doData(method, path string, result any) error {
	req, err := http.NewRequest(method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if result != nil {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}
