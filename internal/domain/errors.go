package domain

import (
	"errors"
	"fmt"
)

// Таксономия ошибок цикла планировщика.
//
// Все четыре ошибки относятся к одной строке контрольной таблицы
// и никогда не прерывают цикл: строка пропускается (или остаётся due),
// ошибка попадает в CycleReport, обработка остальных строк продолжается.

// MalformedRowError — строка не распарсилась: обязательная колонка
// отсутствует или имеет неожиданную форму.
type MalformedRowError struct {
	RowID  int64  // id строки контрольной таблицы
	Column string // колонка, вызвавшая ошибку
	Err    error  // базовая ошибка
}

// Error реализует интерфейс error.
func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("malformed row %d: column %q: %v", e.RowID, e.Column, e.Err)
}

// Unwrap возвращает базовую ошибку.
func (e *MalformedRowError) Unwrap() error {
	return e.Err
}

// ConfigurationError — строка распарсилась, но конфигурация невалидна
// (interval <= 0, дубликат company_id). Строка не планируется.
type ConfigurationError struct {
	CompanyID string
	Err       error
}

// Error реализует интерфейс error.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("company %s: %v", e.CompanyID, e.Err)
}

// Unwrap возвращает базовую ошибку.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// ExecutionError — задача компании завершилась ошибкой.
// last_run не продвигается, строка остаётся due (retry через пере-выборку).
type ExecutionError struct {
	CompanyID string
	Err       error
}

// Error реализует интерфейс error.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execute job for company %s: %v", e.CompanyID, e.Err)
}

// Unwrap возвращает базовую ошибку.
func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// PersistenceError — запись last_run в контрольную таблицу не удалась.
// Расписание не продвигается: строка будет выбрана снова в следующем цикле,
// вместо «выполнили, но забыли, что выполнили».
type PersistenceError struct {
	CompanyID string
	RowID     int64
	Err       error
}

// Error реализует интерфейс error.
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist last_run for company %s (row %d): %v", e.CompanyID, e.RowID, e.Err)
}

// Unwrap возвращает базовую ошибку.
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Базовые причины конфигурационных ошибок.
var (
	// ErrNonPositiveInterval — interval <= 0.
	ErrNonPositiveInterval = errors.New("interval must be positive")

	// ErrDuplicateCompanyID — несколько строк с одним company_id.
	ErrDuplicateCompanyID = errors.New("duplicate company_id")
)
