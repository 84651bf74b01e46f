package mapping

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Ключи счёта Bind, участвующие в маппинге по умолчанию.
const (
	KeyUUID    = "UUID"
	KeyDate    = "Date"
	KeyRFC     = "RFC"
	KeyTotal   = "Total"
	KeyCFDIUse = "CFDIUse"
)

// Rules — правила маппинга: ключ счёта Bind → заголовок колонки
// целевой таблицы.
type Rules map[string]string

// DefaultRules возвращает маппинг по умолчанию.
// Используется, когда "Reglas JSON" пуста или не парсится.
func DefaultRules() Rules {
	return Rules{
		KeyUUID:    "UUID",
		KeyDate:    "Fecha emisión",
		KeyRFC:     "RFC Receptor",
		KeyTotal:   "Total",
		KeyCFDIUse: "Tipo CFDI",
	}
}

// ParseRules парсит колонку "Reglas JSON": {"map": {"src": "dest column"}}.
//
// Невалидный JSON или пустой map не фатальны: возвращаются правила
// по умолчанию вместе с ошибкой, чтобы вызывающий мог залогировать
// предупреждение и продолжить.
func ParseRules(rulesJSON string) (Rules, error) {
	if strings.TrimSpace(rulesJSON) == "" {
		return DefaultRules(), nil
	}

	var payload struct {
		Map map[string]string `json:"map"`
	}
	if err := json.Unmarshal([]byte(rulesJSON), &payload); err != nil {
		return DefaultRules(), fmt.Errorf("parse mapping rules: %w", err)
	}
	if len(payload.Map) == 0 {
		return DefaultRules(), nil
	}

	return Rules(payload.Map), nil
}

// DestColumn возвращает slug колонки назначения для ключа счёта.
func (r Rules) DestColumn(srcKey string) string {
	return Slug(r[srcKey])
}
