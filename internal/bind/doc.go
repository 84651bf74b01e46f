// Package bind содержит клиент Bind ERP API:
// постраничная загрузка счетов (value + nextLink) с bearer token
// компании и нормализация URL из контрольной таблицы.
package bind
