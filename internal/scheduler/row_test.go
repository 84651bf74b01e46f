package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/shaiso/Bindsheet/internal/domain"
)

func mxDefaults(t *testing.T) Defaults {
	t.Helper()
	loc, err := time.LoadLocation("America/Mexico_City")
	if err != nil {
		t.Fatalf("load timezone: %v", err)
	}
	return Defaults{Location: loc}
}

// --- ParseRow Tests ---

func TestParseRow_NumericInterval(t *testing.T) {
	rec := domain.Record{
		RowID: 1001,
		Cells: map[string]any{
			"ID":                  "A",
			"Cliente":             "Acme",
			"Intervalo (minutos)": float64(60),
		},
	}

	row, err := ParseRow(rec, mxDefaults(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if row.CompanyID != "A" {
		t.Errorf("expected company A, got %q", row.CompanyID)
	}
	if row.Client != "Acme" {
		t.Errorf("expected client Acme, got %q", row.Client)
	}
	if row.Interval != time.Hour {
		t.Errorf("expected 1h interval, got %v", row.Interval)
	}
	if row.LastRun != nil {
		t.Errorf("expected no last run, got %v", row.LastRun)
	}
}

func TestParseRow_IntervalCoercion(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  time.Duration
	}{
		{"float truncates", 30.9, 30 * time.Minute},
		{"string number", "45", 45 * time.Minute},
		{"string float truncates", "15.5", 15 * time.Minute},
		{"zero passes parse", float64(0), 0}, // отбрасывается селектором, не парсером
		{"negative passes parse", float64(-5), -5 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := domain.Record{
				RowID: 1,
				Cells: map[string]any{"ID": "A", "Intervalo (minutos)": tt.value},
			}
			row, err := ParseRow(rec, mxDefaults(t))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if row.Interval != tt.want {
				t.Errorf("expected %v, got %v", tt.want, row.Interval)
			}
		})
	}
}

func TestParseRow_MissingCompanyID(t *testing.T) {
	rec := domain.Record{
		RowID: 7,
		Cells: map[string]any{"Intervalo (minutos)": float64(10)},
	}

	_, err := ParseRow(rec, mxDefaults(t))
	if err == nil {
		t.Fatal("expected error for missing company id")
	}

	var malformed *domain.MalformedRowError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected *domain.MalformedRowError, got %T", err)
	}
	if malformed.RowID != 7 {
		t.Errorf("expected row id 7, got %d", malformed.RowID)
	}
	if malformed.Column != domain.ColCompanyID {
		t.Errorf("expected column %q, got %q", domain.ColCompanyID, malformed.Column)
	}
}

func TestParseRow_MissingOrBadInterval(t *testing.T) {
	tests := []struct {
		name  string
		cells map[string]any
	}{
		{"absent", map[string]any{"ID": "A"}},
		{"empty string", map[string]any{"ID": "A", "Intervalo (minutos)": ""}},
		{"non-numeric", map[string]any{"ID": "A", "Intervalo (minutos)": "cada hora"}},
		{"wrong type", map[string]any{"ID": "A", "Intervalo (minutos)": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRow(domain.Record{RowID: 1, Cells: tt.cells}, mxDefaults(t))

			var malformed *domain.MalformedRowError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected *domain.MalformedRowError, got %v", err)
			}
			if malformed.Column != domain.ColInterval {
				t.Errorf("expected interval column, got %q", malformed.Column)
			}
		})
	}
}

func TestParseRow_LastRunFormats(t *testing.T) {
	defaults := mxDefaults(t)

	tests := []struct {
		name  string
		value string
		want  time.Time
	}{
		{
			"rfc3339 utc",
			"2025-07-04T10:00:00Z",
			time.Date(2025, 7, 4, 10, 0, 0, 0, time.UTC),
		},
		{
			"rfc3339 offset",
			"2025-07-04T04:00:00-06:00",
			time.Date(2025, 7, 4, 10, 0, 0, 0, time.UTC),
		},
		{
			"naive assumes row timezone",
			"2025-07-04T04:00:00",
			time.Date(2025, 7, 4, 4, 0, 0, 0, defaults.Location),
		},
		{
			"naive with space",
			"2025-07-04 04:00:00",
			time.Date(2025, 7, 4, 4, 0, 0, 0, defaults.Location),
		},
		{
			"date only",
			"2025-07-04",
			time.Date(2025, 7, 4, 0, 0, 0, 0, defaults.Location),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := domain.Record{
				RowID: 1,
				Cells: map[string]any{
					"ID":                  "A",
					"Intervalo (minutos)": float64(60),
					"Ultima ejecucion":    tt.value,
				},
			}
			row, err := ParseRow(rec, defaults)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if row.LastRun == nil {
				t.Fatal("expected last run to be parsed")
			}
			if !row.LastRun.Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, row.LastRun)
			}
		})
	}
}

func TestParseRow_UnparseableLastRunBehavesAsNeverRun(t *testing.T) {
	rec := domain.Record{
		RowID: 1,
		Cells: map[string]any{
			"ID":                  "A",
			"Intervalo (minutos)": float64(60),
			"Ultima ejecucion":    "hace un rato",
		},
	}

	row, err := ParseRow(rec, mxDefaults(t))
	if err != nil {
		t.Fatalf("unparseable last run should not be an error: %v", err)
	}
	if row.LastRun != nil {
		t.Errorf("expected nil last run, got %v", row.LastRun)
	}
	if !row.IsDue(time.Now()) {
		t.Error("row without last run should be due")
	}
}

func TestParseRow_AccentedColumnTitles(t *testing.T) {
	// в таблице заголовки могут быть с акцентами
	rec := domain.Record{
		RowID: 1,
		Cells: map[string]any{
			"ID":                  "A",
			"Intervalo (minutos)": float64(60),
			"Última ejecución":    "2025-07-04T10:00:00Z",
		},
	}

	row, err := ParseRow(rec, mxDefaults(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.LastRun == nil {
		t.Fatal("accented column title should match last run column")
	}
}

func TestParseRow_RowTimezoneColumn(t *testing.T) {
	rec := domain.Record{
		RowID: 1,
		Cells: map[string]any{
			"ID":                  "A",
			"Intervalo (minutos)": float64(60),
			"Zona horaria":        "America/New_York",
			"Ultima ejecucion":    "2025-07-04T06:00:00",
		},
	}

	row, err := ParseRow(rec, mxDefaults(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ny, _ := time.LoadLocation("America/New_York")
	want := time.Date(2025, 7, 4, 6, 0, 0, 0, ny)
	if !row.LastRun.Equal(want) {
		t.Errorf("naive last run should be in row timezone: got %v, want %v", row.LastRun, want)
	}
}

func TestParseRow_InvalidTimezoneFallsBack(t *testing.T) {
	defaults := mxDefaults(t)
	rec := domain.Record{
		RowID: 1,
		Cells: map[string]any{
			"ID":                  "A",
			"Intervalo (minutos)": float64(60),
			"Zona horaria":        "Marte/Cydonia",
		},
	}

	row, err := ParseRow(rec, defaults)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.Location != defaults.Location {
		t.Errorf("invalid timezone should fall back to default, got %v", row.Location)
	}
}

func TestLoadDefaults_InvalidZoneFallsBackToUTC(t *testing.T) {
	d := LoadDefaults("No/Such_Zone")
	if d.Location != time.UTC {
		t.Errorf("expected UTC fallback, got %v", d.Location)
	}
}

// --- NextRun Tests ---

func TestNextRun_Derivation(t *testing.T) {
	now := time.Date(2025, 7, 4, 12, 0, 0, 0, time.UTC)
	lastRun := now.Add(-10 * time.Minute)

	row := &domain.JobRow{CompanyID: "B", Interval: 30 * time.Minute, LastRun: &lastRun}

	// next_run = last_run + interval, строго
	want := lastRun.Add(30 * time.Minute)
	if got := row.NextRun(now); !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	// изменение interval без нового запуска сдвигает next_run
	row.Interval = 5 * time.Minute
	want = lastRun.Add(5 * time.Minute)
	if got := row.NextRun(now); !got.Equal(want) {
		t.Errorf("after interval change: expected %v, got %v", want, got)
	}
}

func TestNextRun_NeverRunIsNow(t *testing.T) {
	now := time.Date(2025, 7, 4, 12, 0, 0, 0, time.UTC)
	row := &domain.JobRow{CompanyID: "A", Interval: time.Hour}

	if got := row.NextRun(now); !got.Equal(now) {
		t.Errorf("never-run row should be due now, got %v", got)
	}
	if !row.IsDue(now) {
		t.Error("never-run row should be due")
	}
}
