package bind

import "fmt"

// APIError — не-2xx ответ Bind API.
type APIError struct {
	StatusCode int
	Message    string
}

// Error реализует интерфейс error.
func (e *APIError) Error() string {
	return fmt.Sprintf("bind api: status %d: %s", e.StatusCode, e.Message)
}
