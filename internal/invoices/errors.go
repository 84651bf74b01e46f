package invoices

import "errors"

// Ошибки выгрузки.
var (
	// ErrCompanyNotFound — в контрольной таблице нет строки с таким ID.
	ErrCompanyNotFound = errors.New("company not found in control sheet")

	// ErrNoToken — у компании не заполнена колонка "API Token".
	ErrNoToken = errors.New("company has no API token")
)
