package mapping

import "testing"

// --- Slug Tests ---

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ultima ejecucion", "ultimaejecucion"},
		{"Última ejecución", "ultimaejecucion"},
		{"Intervalo (minutos)", "intervalo(minutos)"},
		{"Fecha emisión", "fechaemision"},
		{"RFC Receptor", "rfcreceptor"},
		{"API Token", "apitoken"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlug_AccentedAndPlainMatch(t *testing.T) {
	if Slug("Siguiente ejecución") != Slug("Siguiente ejecucion") {
		t.Error("accented and plain titles should produce the same slug")
	}
}

// --- Rules Tests ---

func TestParseRules_Empty(t *testing.T) {
	rules, err := ParseRules("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rules[KeyUUID] != "UUID" || rules[KeyDate] != "Fecha emisión" {
		t.Errorf("expected default rules, got %v", rules)
	}
}

func TestParseRules_Custom(t *testing.T) {
	rules, err := ParseRules(`{"map": {"UUID": "Folio fiscal", "Total": "Importe"}}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rules[KeyUUID] != "Folio fiscal" {
		t.Errorf("expected custom UUID column, got %q", rules[KeyUUID])
	}
	if rules[KeyTotal] != "Importe" {
		t.Errorf("expected custom Total column, got %q", rules[KeyTotal])
	}
}

func TestParseRules_BadJSON(t *testing.T) {
	rules, err := ParseRules(`{broken`)
	if err == nil {
		t.Error("expected error for broken JSON")
	}
	// даже при ошибке возвращаются правила по умолчанию
	if rules[KeyRFC] != "RFC Receptor" {
		t.Errorf("expected default rules fallback, got %v", rules)
	}
}

func TestParseRules_EmptyMap(t *testing.T) {
	rules, err := ParseRules(`{"map": {}}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rules[KeyCFDIUse] != "Tipo CFDI" {
		t.Errorf("empty map should fall back to defaults, got %v", rules)
	}
}

// --- Signature Tests ---

func TestMakeSignature_Normalization(t *testing.T) {
	sig := MakeSignature("2025-07-04T10:30:00", " xaxx010101000 ", "1234.567", " G03 ")

	if sig.Date != "2025-07-04" {
		t.Errorf("expected ISO date, got %q", sig.Date)
	}
	if sig.RFC != "XAXX010101000" {
		t.Errorf("expected uppercased RFC, got %q", sig.RFC)
	}
	if sig.Total != 1234.57 {
		t.Errorf("expected rounded total 1234.57, got %v", sig.Total)
	}
	if sig.CFDI != "G03" {
		t.Errorf("expected trimmed CFDI, got %q", sig.CFDI)
	}
}

func TestMakeSignature_EqualKeys(t *testing.T) {
	a := MakeSignature("2025-07-04", "ABC", 100.0, "G01")
	b := MakeSignature("2025-07-04T00:00:00", "abc ", "100.004", "G01")

	if a != b {
		t.Errorf("signatures should match: %+v vs %+v", a, b)
	}
}

func TestCoerceTotal(t *testing.T) {
	tests := []struct {
		in   any
		want float64
	}{
		{100.555, 100.56},
		{"99.99", 99.99},
		{42, 42},
		{int64(7), 7},
		{"garbage", 0},
		{nil, 0},
	}

	for _, tt := range tests {
		if got := CoerceTotal(tt.in); got != tt.want {
			t.Errorf("CoerceTotal(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestISODate_NonDate(t *testing.T) {
	if got := ISODate("not a date"); got != "not a date" {
		t.Errorf("non-date should pass through, got %q", got)
	}
}
