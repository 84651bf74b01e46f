package config

import "errors"

// Ошибки конфигурации.
var (
	// ErrTokenMissing — SMARTSHEET_TOKEN не задан.
	ErrTokenMissing = errors.New("SMARTSHEET_TOKEN is not set")
)
