package scheduler

import "errors"

// Ошибки планировщика.
var (
	// ErrDrainTimeout — текущий цикл не завершился за DrainTimeout
	// при остановке драйвера.
	ErrDrainTimeout = errors.New("drain timeout exceeded")
)
