package smartsheet

import (
	"errors"
	"fmt"
	"net/http"
)

// Ошибки шлюза Smartsheet.
var (
	// ErrColumnNotFound — ожидаемая колонка отсутствует в таблице.
	ErrColumnNotFound = errors.New("column not found")
)

// APIError — не-2xx ответ Smartsheet API.
type APIError struct {
	StatusCode int
	Message    string
}

// Error реализует интерфейс error.
func (e *APIError) Error() string {
	return fmt.Sprintf("smartsheet api: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound — ответ был 404.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsNotFound проверяет, что ошибка — 404 от Smartsheet.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsNotFound()
}
