// Package smartsheet содержит клиент Smartsheet REST API 2.0
// и шлюз к контрольной таблице.
//
// Структура:
//   - client.go  — HTTP клиент (GetSheet, AddRows, UpdateRows, retry на 429)
//   - sheet.go   — типы Sheet/Row/Cell и конвертация в Table/Records
//   - control.go — ControlSheet: reader и writer контрольной таблицы
//
// ControlSheet реализует интерфейсы scheduler.RowReader и
// scheduler.SheetWriter — планировщик не знает про Smartsheet.
package smartsheet
