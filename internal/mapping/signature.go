package mapping

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Signature — составной ключ счёта для сопоставления строк без UUID:
// дата, RFC получателя, сумма и тип CFDI.
//
// Comparable-структура: используется как ключ map при индексации
// целевой таблицы.
type Signature struct {
	Date  string
	RFC   string
	Total float64
	CFDI  string
}

// MakeSignature собирает подпись из сырых значений ячеек/счёта.
// Значения нормализуются: дата приводится к ISO, RFC — к верхнему
// регистру без пробелов, сумма округляется до сентаво.
func MakeSignature(date, rfc, total, cfdi any) Signature {
	return Signature{
		Date:  ISODate(asString(date)),
		RFC:   strings.ToUpper(strings.TrimSpace(asString(rfc))),
		Total: CoerceTotal(total),
		CFDI:  strings.TrimSpace(asString(cfdi)),
	}
}

// ISODate приводит значение даты к "2006-01-02".
// Берутся первые 10 символов; если они не парсятся как дата,
// значение возвращается как есть.
func ISODate(s string) string {
	if s == "" {
		return ""
	}
	head := s
	if len(head) > 10 {
		head = head[:10]
	}
	if _, err := time.Parse("2006-01-02", head); err != nil {
		return s
	}
	return head
}

// CoerceTotal приводит сумму к float64 с округлением до двух знаков.
// Непарсящееся значение — 0.
func CoerceTotal(v any) float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	return math.Round(f*100) / 100
}

// asString приводит значение ячейки к строке. nil — пустая строка.
func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}
