package smartsheet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/shaiso/Bindsheet/internal/telemetry"
)

// DefaultBaseURL — базовый URL Smartsheet REST API 2.0.
const DefaultBaseURL = "https://api.smartsheet.com/2.0"

// maxAttempts — попытки запроса при 429 (rate limit).
const maxAttempts = 3

// Client — клиент Smartsheet REST API.
//
// Авторизация — bearer token через oauth2 static token source,
// он подставляет заголовок Authorization в каждый запрос.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Config — конфигурация Client.
type Config struct {
	Token   string
	BaseURL string        // default: DefaultBaseURL
	Timeout time.Duration // default: 30s
	Logger  *slog.Logger
}

// New создаёт новый Client.
func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: cfg.Token,
		TokenType:   "Bearer",
	})
	httpClient := oauth2.NewClient(context.Background(), src)
	httpClient.Timeout = timeout

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// GetSheet загружает таблицу целиком: колонки и строки.
func (c *Client) GetSheet(ctx context.Context, sheetID int64) (*Sheet, error) {
	var sheet Sheet
	url := fmt.Sprintf("%s/sheets/%d", c.baseURL, sheetID)
	if err := c.do(ctx, http.MethodGet, url, nil, &sheet); err != nil {
		return nil, fmt.Errorf("get sheet %d: %w", sheetID, err)
	}
	return &sheet, nil
}

// rowsResult — ответ Smartsheet на запись строк.
type rowsResult struct {
	Result []json.RawMessage `json:"result"`
}

// AddRows вставляет строки в конец таблицы.
// Возвращает количество вставленных строк.
func (c *Client) AddRows(ctx context.Context, sheetID int64, rows []NewRow) (int, error) {
	var res rowsResult
	url := fmt.Sprintf("%s/sheets/%d/rows", c.baseURL, sheetID)
	if err := c.do(ctx, http.MethodPost, url, rows, &res); err != nil {
		return 0, fmt.Errorf("add rows to sheet %d: %w", sheetID, err)
	}
	telemetry.SheetWrites.WithLabelValues("insert").Add(float64(len(res.Result)))
	return len(res.Result), nil
}

// UpdateRows обновляет ячейки существующих строк.
// Возвращает количество обновлённых строк.
func (c *Client) UpdateRows(ctx context.Context, sheetID int64, rows []RowUpdate) (int, error) {
	var res rowsResult
	url := fmt.Sprintf("%s/sheets/%d/rows", c.baseURL, sheetID)
	if err := c.do(ctx, http.MethodPut, url, rows, &res); err != nil {
		return 0, fmt.Errorf("update rows in sheet %d: %w", sheetID, err)
	}
	telemetry.SheetWrites.WithLabelValues("update").Add(float64(len(res.Result)))
	return len(res.Result), nil
}

// do выполняет запрос с JSON телом и декодирует JSON ответ в out.
//
// 429 повторяется до maxAttempts раз с паузой из Retry-After
// (по умолчанию 1 секунда). Прочие не-2xx статусы — *APIError.
func (c *Client) do(ctx context.Context, method, url string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	for attempt := 1; ; attempt++ {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt < maxAttempts {
			wait := retryAfter(resp)
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()

			c.logger.Warn("smartsheet rate limited, retrying",
				"url", url,
				"attempt", attempt,
				"wait", wait,
			)

			select {
			case <-time.After(wait):
				continue
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		defer resp.Body.Close()

		if resp.StatusCode/100 != 2 {
			data, _ := io.ReadAll(io.LimitReader(resp.Body, 800))
			return &APIError{StatusCode: resp.StatusCode, Message: string(data)}
		}

		if out == nil {
			io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
}

// retryAfter возвращает паузу из заголовка Retry-After (секунды).
func retryAfter(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if sec, err := strconv.Atoi(v); err == nil && sec > 0 {
			return time.Duration(sec) * time.Second
		}
	}
	return time.Second
}
