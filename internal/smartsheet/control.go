package smartsheet

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shaiso/Bindsheet/internal/domain"
	"github.com/shaiso/Bindsheet/internal/mapping"
	"github.com/shaiso/Bindsheet/internal/telemetry"
)

// ControlSheet — шлюз к контрольной таблице.
//
// Для планировщика это и reader (Rows), и writer (WriteSchedule):
// единственный источник истины расписания. Только WriteSchedule
// пишет "Ultima ejecucion".
type ControlSheet struct {
	client  *Client
	sheetID int64
	logger  *slog.Logger

	// id колонок timestamps кэшируются после первого УСПЕШНОГО
	// резолва: строки читаются каждый цикл, но колонки не меняются.
	// Ошибка не кэшируется — после сбоя API следующий WriteSchedule
	// пробует снова.
	colMu       sync.Mutex
	colResolved bool
	colLast     int64
	colNext     int64
}

// NewControlSheet создаёт шлюз к контрольной таблице.
func NewControlSheet(client *Client, sheetID int64, logger *slog.Logger) *ControlSheet {
	if logger == nil {
		logger = slog.Default()
	}
	return &ControlSheet{
		client:  client,
		sheetID: sheetID,
		logger:  telemetry.WithSheetID(logger, sheetID),
	}
}

// SheetID возвращает id контрольной таблицы.
func (cs *ControlSheet) SheetID() int64 {
	return cs.sheetID
}

// Rows читает все строки контрольной таблицы.
// Вызывается в начале каждого цикла — долгоживущего кэша нет.
func (cs *ControlSheet) Rows(ctx context.Context) ([]domain.Record, error) {
	sheet, err := cs.client.GetSheet(ctx, cs.sheetID)
	if err != nil {
		return nil, fmt.Errorf("read control sheet: %w", err)
	}
	return sheet.Records(), nil
}

// Table возвращает контрольную таблицу в упрощённой форме для API.
func (cs *ControlSheet) Table(ctx context.Context) (*Table, error) {
	sheet, err := cs.client.GetSheet(ctx, cs.sheetID)
	if err != nil {
		return nil, err
	}
	return sheet.Table(), nil
}

// Companies читает конфигурации компаний из контрольной таблицы.
// Фильтрация (нет токена и т.п.) — забота вызывающего.
func (cs *ControlSheet) Companies(ctx context.Context) ([]domain.Company, error) {
	records, err := cs.Rows(ctx)
	if err != nil {
		return nil, err
	}

	companies := make([]domain.Company, 0, len(records))
	for _, rec := range records {
		companies = append(companies, domain.Company{
			RowID:       rec.RowID,
			ID:          cellString(rec.Cells, domain.ColCompanyID),
			Name:        cellString(rec.Cells, domain.ColClient),
			APIToken:    cellString(rec.Cells, domain.ColAPIToken),
			APIURL:      cellString(rec.Cells, domain.ColAPIURL),
			Filter:      cellString(rec.Cells, domain.ColFilter),
			DestSheetID: cellString(rec.Cells, domain.ColDestSheet),
			RulesJSON:   cellString(rec.Cells, domain.ColRules),
		})
	}
	return companies, nil
}

// WriteSchedule записывает "Ultima ejecucion" и производную
// "Siguiente ejecucion" в строку контрольной таблицы.
//
// Значения — UTC RFC3339 c точностью до секунды ("...Z").
// Запись идемпотентна: повторная запись того же lastRun даёт
// то же состояние таблицы.
func (cs *ControlSheet) WriteSchedule(ctx context.Context, rowID int64, lastRun, nextRun time.Time) error {
	colLast, colNext, err := cs.scheduleColumns(ctx)
	if err != nil {
		return err
	}

	update := RowUpdate{
		ID: rowID,
		Cells: []NewCell{
			{ColumnID: colLast, Value: formatTimestamp(lastRun)},
			{ColumnID: colNext, Value: formatTimestamp(nextRun)},
		},
	}

	if _, err := cs.client.UpdateRows(ctx, cs.sheetID, []RowUpdate{update}); err != nil {
		return fmt.Errorf("write schedule row %d: %w", rowID, err)
	}

	telemetry.SheetWrites.WithLabelValues("schedule").Inc()
	cs.logger.Info("schedule row updated",
		"row_id", rowID,
		"last_run", formatTimestamp(lastRun),
		"next_run", formatTimestamp(nextRun),
	)
	return nil
}

// scheduleColumns резолвит id колонок timestamps по slug заголовка.
func (cs *ControlSheet) scheduleColumns(ctx context.Context) (int64, int64, error) {
	cs.colMu.Lock()
	defer cs.colMu.Unlock()

	if cs.colResolved {
		return cs.colLast, cs.colNext, nil
	}

	sheet, err := cs.client.GetSheet(ctx, cs.sheetID)
	if err != nil {
		return 0, 0, err
	}
	cols := sheet.ColumnIDs()

	colLast, ok := cols[mapping.Slug(domain.ColLastRun)]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", ErrColumnNotFound, domain.ColLastRun)
	}
	colNext, ok := cols[mapping.Slug(domain.ColNextRun)]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", ErrColumnNotFound, domain.ColNextRun)
	}

	cs.colLast, cs.colNext = colLast, colNext
	cs.colResolved = true
	return colLast, colNext, nil
}

// formatTimestamp форматирует время для записи в таблицу:
// UTC, RFC3339, без долей секунды.
func formatTimestamp(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

// cellString возвращает строковое значение ячейки по заголовку колонки.
// Заголовок ищется по slug: акценты и регистр не важны.
func cellString(cells map[string]any, column string) string {
	want := mapping.Slug(column)
	for title, value := range cells {
		if mapping.Slug(title) != want {
			continue
		}
		if s, ok := value.(string); ok {
			return s
		}
		if value != nil {
			return fmt.Sprintf("%v", value)
		}
	}
	return ""
}
