package invoices

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shaiso/Bindsheet/internal/bind"
	"github.com/shaiso/Bindsheet/internal/domain"
	"github.com/shaiso/Bindsheet/internal/mapping"
	"github.com/shaiso/Bindsheet/internal/smartsheet"
)

// sheetIndex — индекс целевой таблицы: по UUID и по составной подписи.
type sheetIndex struct {
	byUUID      map[string]int64
	bySignature map[mapping.Signature]int64
}

// push вставляет новые счета и обновляет существующие в целевой
// таблице компании. "Ultima ejecucion" здесь не трогается — её пишет
// только Schedule Updater.
func (s *Service) push(ctx context.Context, company *domain.Company, invoices []bind.Invoice) error {
	destID, err := strconv.ParseInt(strings.TrimSpace(company.DestSheetID), 10, 64)
	if err != nil {
		return fmt.Errorf("bad destination sheet id %q: %w", company.DestSheetID, err)
	}

	dest, err := s.sheets.GetSheet(ctx, destID)
	if err != nil {
		return fmt.Errorf("open destination sheet: %w", err)
	}

	rules, rulesErr := mapping.ParseRules(company.RulesJSON)
	if rulesErr != nil {
		s.logger.Warn("bad mapping rules, using defaults",
			"company_id", company.ID,
			"error", rulesErr,
		)
	}

	colMap := dest.ColumnIDs()
	index := indexRows(dest, colMap, rules)
	inserts, updates := splitInvoices(invoices, colMap, rules, index)

	if len(inserts) > 0 {
		count, err := s.sheets.AddRows(ctx, destID, inserts)
		if err != nil {
			return fmt.Errorf("insert rows: %w", err)
		}
		s.logger.Info("rows inserted", "company_id", company.ID, "count", count)
	}
	if len(updates) > 0 {
		count, err := s.sheets.UpdateRows(ctx, destID, updates)
		if err != nil {
			return fmt.Errorf("update rows: %w", err)
		}
		s.logger.Info("rows updated", "company_id", company.ID, "count", count)
	}

	return nil
}

// indexRows строит индекс существующих строк целевой таблицы:
// значение UUID-колонки → row id и подпись (дата, RFC, сумма, CFDI) → row id.
func indexRows(dest *smartsheet.Sheet, colMap map[string]int64, rules mapping.Rules) *sheetIndex {
	index := &sheetIndex{
		byUUID:      make(map[string]int64),
		bySignature: make(map[mapping.Signature]int64),
	}

	uuidCol := colMap[rules.DestColumn(mapping.KeyUUID)]
	sigCols := [4]int64{
		colMap[rules.DestColumn(mapping.KeyDate)],
		colMap[rules.DestColumn(mapping.KeyRFC)],
		colMap[rules.DestColumn(mapping.KeyTotal)],
		colMap[rules.DestColumn(mapping.KeyCFDIUse)],
	}

	for _, row := range dest.Rows {
		var sigVals [4]any
		var rowUUID string

		for i := range row.Cells {
			cell := &row.Cells[i]
			if uuidCol != 0 && cell.ColumnID == uuidCol && cell.Value != nil {
				rowUUID = strings.TrimSpace(fmt.Sprintf("%v", cell.Value))
			}
			for ix, colID := range sigCols {
				if colID != 0 && cell.ColumnID == colID {
					sigVals[ix] = cell.Effective()
				}
			}
		}

		if rowUUID != "" {
			index.byUUID[rowUUID] = row.ID
		}
		index.bySignature[mapping.MakeSignature(sigVals[0], sigVals[1], sigVals[2], sigVals[3])] = row.ID
	}

	return index
}

// splitInvoices раскладывает счета на вставки (не найдены в таблице)
// и обновления (найдены по UUID или подписи).
func splitInvoices(invoices []bind.Invoice, colMap map[string]int64, rules mapping.Rules, index *sheetIndex) ([]smartsheet.NewRow, []smartsheet.RowUpdate) {
	var inserts []smartsheet.NewRow
	var updates []smartsheet.RowUpdate

	for _, inv := range invoices {
		cells := invoiceCells(inv, colMap, rules)
		if len(cells) == 0 {
			continue
		}

		var rowID int64
		if uuidVal := strings.TrimSpace(fmt.Sprintf("%v", orEmpty(inv[mapping.KeyUUID]))); uuidVal != "" {
			rowID = index.byUUID[uuidVal]
		}
		if rowID == 0 {
			sig := mapping.MakeSignature(
				inv[mapping.KeyDate], inv[mapping.KeyRFC],
				inv[mapping.KeyTotal], inv[mapping.KeyCFDIUse],
			)
			rowID = index.bySignature[sig]
		}

		if rowID != 0 {
			updates = append(updates, smartsheet.RowUpdate{ID: rowID, Cells: cells})
		} else {
			inserts = append(inserts, smartsheet.NewRow{ToBottom: true, Cells: cells})
		}
	}

	return inserts, updates
}

// invoiceCells строит ячейки строки по правилам маппинга.
// Отсутствующие в счёте или в таблице поля пропускаются.
func invoiceCells(inv bind.Invoice, colMap map[string]int64, rules mapping.Rules) []smartsheet.NewCell {
	var cells []smartsheet.NewCell
	for srcKey, destCol := range rules {
		colID := colMap[mapping.Slug(destCol)]
		if colID == 0 {
			continue
		}
		val := inv[srcKey]
		if val == nil {
			continue
		}
		if strings.HasPrefix(strings.ToLower(srcKey), "date") {
			val = mapping.ISODate(fmt.Sprintf("%v", val))
		}
		cells = append(cells, smartsheet.NewCell{ColumnID: colID, Value: val})
	}
	return cells
}

// orEmpty возвращает значение или пустую строку вместо nil.
func orEmpty(v any) any {
	if v == nil {
		return ""
	}
	return v
}
