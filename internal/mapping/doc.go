// Package mapping содержит чистые преобразования для сопоставления
// счетов Bind со строками Smartsheet: slug-нормализацию заголовков,
// правила маппинга из "Reglas JSON" и составную подпись счёта.
package mapping
