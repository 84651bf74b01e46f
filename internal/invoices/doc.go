// Package invoices реализует выгрузку счетов: скачивание из Bind ERP
// и upsert в целевую таблицу Smartsheet (вставка новых, обновление
// существующих по UUID или составной подписи).
//
// Service реализует runner.Executor — это production-задача,
// которую планировщик выполняет для каждой due компании.
package invoices
