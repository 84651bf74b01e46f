package scheduler

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shaiso/Bindsheet/internal/domain"
	"github.com/shaiso/Bindsheet/internal/mapping"
)

// Defaults — параметры парсинга строк по умолчанию.
type Defaults struct {
	// Location — зона для строк без колонки "Zona horaria"
	// и для naive-времени в "Ultima ejecucion".
	Location *time.Location
}

// LoadDefaults строит Defaults из имени IANA-зоны.
// Невалидная зона — fallback на UTC.
func LoadDefaults(timezone string) Defaults {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	return Defaults{Location: loc}
}

// ParseRow парсит строку контрольной таблицы в дескриптор задачи.
//
// Обязательные колонки: "ID" и "Intervalo (minutos)" — их отсутствие
// или неожиданная форма дают *domain.MalformedRowError. Нечитаемая
// "Ultima ejecucion" ошибкой не считается: строка ведёт себя как
// никогда не запускавшаяся, а не застревает навсегда.
//
// Чистая функция: никакого I/O и логирования.
func ParseRow(rec domain.Record, defaults Defaults) (*domain.JobRow, error) {
	loc := defaults.Location
	if loc == nil {
		loc = time.UTC
	}

	companyID := strings.TrimSpace(cellText(rec.Cells, domain.ColCompanyID))
	if companyID == "" {
		return nil, &domain.MalformedRowError{
			RowID:  rec.RowID,
			Column: domain.ColCompanyID,
			Err:    fmt.Errorf("missing company id"),
		}
	}

	interval, err := parseInterval(cellValue(rec.Cells, domain.ColInterval))
	if err != nil {
		return nil, &domain.MalformedRowError{
			RowID:  rec.RowID,
			Column: domain.ColInterval,
			Err:    err,
		}
	}

	// зона строки: колонка "Zona horaria", иначе default, иначе UTC
	if tz := strings.TrimSpace(cellText(rec.Cells, domain.ColTimezone)); tz != "" {
		if rowLoc, err := time.LoadLocation(tz); err == nil {
			loc = rowLoc
		}
	}

	return &domain.JobRow{
		RowID:     rec.RowID,
		CompanyID: companyID,
		Client:    strings.TrimSpace(cellText(rec.Cells, domain.ColClient)),
		Interval:  interval,
		LastRun:   parseTimestamp(cellText(rec.Cells, domain.ColLastRun), loc),
		Location:  loc,
	}, nil
}

// parseInterval приводит значение "Intervalo (minutos)" к длительности.
// Числовая ячейка усекается к целым минутам; строка должна быть числом.
func parseInterval(v any) (time.Duration, error) {
	switch t := v.(type) {
	case nil:
		return 0, fmt.Errorf("missing interval")
	case float64:
		return time.Duration(math.Trunc(t)) * time.Minute, nil
	case int:
		return time.Duration(t) * time.Minute, nil
	case int64:
		return time.Duration(t) * time.Minute, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, fmt.Errorf("missing interval")
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("interval %q is not a number", t)
		}
		return time.Duration(math.Trunc(f)) * time.Minute, nil
	default:
		return 0, fmt.Errorf("interval has unexpected type %T", v)
	}
}

// timestampLayouts — naive-форматы "Ultima ejecucion",
// интерпретируемые в зоне строки.
var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimestamp парсит значение "Ultima ejecucion".
// Непарсящееся значение — nil (строка считается никогда не запускавшейся).
func parseTimestamp(s string, loc *time.Location) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return &t
		}
	}
	return nil
}

// cellValue возвращает значение ячейки по заголовку колонки (поиск по slug).
func cellValue(cells map[string]any, column string) any {
	want := mapping.Slug(column)
	for title, value := range cells {
		if mapping.Slug(title) == want {
			return value
		}
	}
	return nil
}

// cellText возвращает значение ячейки как строку.
func cellText(cells map[string]any, column string) string {
	switch v := cellValue(cells, column).(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
