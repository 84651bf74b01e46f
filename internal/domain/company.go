package domain

// Названия колонок контрольной таблицы.
// Совпадение ищется по slug (без регистра, пробелов и акцентов),
// поэтому "Última ejecución" и "Ultima ejecucion" — одна колонка.
const (
	ColCompanyID = "ID"
	ColClient    = "Cliente"
	ColAPIToken  = "API Token"
	ColAPIURL    = "API URL"
	ColFilter    = "Filtro"
	ColDestSheet = "Hoja destino ID"
	ColRules     = "Reglas JSON"
	ColInterval  = "Intervalo (minutos)"
	ColLastRun   = "Ultima ejecucion"
	ColNextRun   = "Siguiente ejecucion"
	ColTimezone  = "Zona horaria"
)

// Company — конфигурация выгрузки одной компании из контрольной таблицы.
//
// Это «паспорт» для обращения к Bind ERP и к целевой таблице;
// расписание той же строки описывает JobRow.
type Company struct {
	// RowID — id строки в контрольной таблице.
	RowID int64 `json:"row_id"`

	// ID — идентификатор компании (колонка "ID").
	ID string `json:"id"`

	// Name — имя клиента (колонка "Cliente"). Может быть пустым.
	Name string `json:"name,omitempty"`

	// APIToken — bearer token для Bind API этой компании.
	// Компании без токена пропускаются с предупреждением.
	APIToken string `json:"-"`

	// APIURL — базовый URL Bind API. Пустое значение — URL по умолчанию.
	APIURL string `json:"api_url,omitempty"`

	// Filter — OData-фильтр для выборки счетов (колонка "Filtro").
	Filter string `json:"filter,omitempty"`

	// DestSheetID — id целевой таблицы для push (колонка "Hoja destino ID").
	DestSheetID string `json:"dest_sheet_id,omitempty"`

	// RulesJSON — правила маппинга колонок (колонка "Reglas JSON").
	RulesJSON string `json:"-"`
}

// Label возвращает имя для логов: Cliente, либо "ID-<id>".
func (c *Company) Label() string {
	if c.Name != "" {
		return c.Name
	}
	return "ID-" + c.ID
}
