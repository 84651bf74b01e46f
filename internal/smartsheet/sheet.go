package smartsheet

import (
	"github.com/shaiso/Bindsheet/internal/domain"
	"github.com/shaiso/Bindsheet/internal/mapping"
)

// Column — колонка таблицы Smartsheet.
type Column struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Cell — ячейка строки.
// DisplayValue — отформатированное значение; Value — сырое.
type Cell struct {
	ColumnID     int64  `json:"columnId"`
	Value        any    `json:"value,omitempty"`
	DisplayValue string `json:"displayValue,omitempty"`
}

// Effective возвращает значение ячейки для чтения:
// displayValue, если он есть, иначе value.
func (c *Cell) Effective() any {
	if c.DisplayValue != "" {
		return c.DisplayValue
	}
	return c.Value
}

// Row — строка таблицы.
type Row struct {
	ID    int64  `json:"id"`
	Cells []Cell `json:"cells"`
}

// Sheet — таблица Smartsheet: колонки и строки.
type Sheet struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name,omitempty"`
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Table — упрощённое представление таблицы для API:
// {"header": [...заголовки...], "data": [{заголовок: значение}]}.
type Table struct {
	Header []string         `json:"header"`
	Data   []map[string]any `json:"data"`
}

// Table конвертирует таблицу в упрощённую форму.
// Ячейки сопоставляются колонкам по позиции, как их возвращает API.
func (s *Sheet) Table() *Table {
	header := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		header[i] = col.Title
	}

	data := make([]map[string]any, 0, len(s.Rows))
	for _, row := range s.Rows {
		rec := make(map[string]any, len(header))
		for i := range row.Cells {
			if i >= len(header) {
				break
			}
			rec[header[i]] = row.Cells[i].Effective()
		}
		data = append(data, rec)
	}

	return &Table{Header: header, Data: data}
}

// Records возвращает строки таблицы как domain.Record
// (id строки + значения по заголовкам колонок).
func (s *Sheet) Records() []domain.Record {
	table := s.Table()
	records := make([]domain.Record, len(s.Rows))
	for i, row := range s.Rows {
		records[i] = domain.Record{RowID: row.ID, Cells: table.Data[i]}
	}
	return records
}

// ColumnIDs возвращает map: slug заголовка → id колонки.
func (s *Sheet) ColumnIDs() map[string]int64 {
	out := make(map[string]int64, len(s.Columns))
	for _, col := range s.Columns {
		out[mapping.Slug(col.Title)] = col.ID
	}
	return out
}

// NewCell — ячейка для записи.
type NewCell struct {
	ColumnID int64 `json:"columnId"`
	Value    any   `json:"value"`
}

// NewRow — строка для вставки (всегда в конец таблицы).
type NewRow struct {
	ToBottom bool      `json:"toBottom"`
	Cells    []NewCell `json:"cells"`
}

// RowUpdate — обновление существующей строки.
type RowUpdate struct {
	ID    int64     `json:"id"`
	Cells []NewCell `json:"cells"`
}
