package runner

import "errors"

// Ошибки запуска задач.
var (
	// ErrAlreadyRunning — предыдущий запуск компании ещё не завершён.
	ErrAlreadyRunning = errors.New("previous run still in flight")
)
