// Package cli содержит команды CLI-клиента Bindsheet API.
//
// Структура:
//   - client.go   — HTTP-клиент для API
//   - output.go   — форматирование вывода (таблицы / JSON)
//   - status.go   — команда status
//   - sheet.go    — команды sheet get и config
//   - jobs.go     — команда jobs
//   - invoices.go — команды invoices и push
//
// Команды создаются фабриками New*Cmd с ленивым созданием клиента,
// чтобы флаги --api-url и --json применялись после разбора аргументов.
package cli
