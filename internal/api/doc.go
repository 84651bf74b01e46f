// Package api содержит HTTP API сервер.
//
// Структура:
//   - handler.go         — Handler с DI (клиенты Smartsheet/Bind, logger)
//   - routes.go          — регистрация маршрутов
//   - middleware.go      — middleware (logging, recovery, CORS, metrics)
//   - response.go        — унифицированные JSON-ответы и обработка ошибок
//   - dto.go             — Data Transfer Objects (request/response)
//   - sheet_handler.go   — /ping, /sheets/{id}, /config
//   - job_handler.go     — /jobs
//   - invoice_handler.go — /invoices, /push
//
// API предоставляет REST endpoints для чтения таблиц Smartsheet,
// просмотра расписания и ручного запуска выгрузки счетов.
package api
