package smartsheet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// sheetJSON — минимальная таблица в формате Smartsheet API.
const sheetJSON = `{
	"id": 111,
	"name": "Config",
	"columns": [
		{"id": 1, "title": "ID"},
		{"id": 2, "title": "Cliente"},
		{"id": 3, "title": "Intervalo (minutos)"},
		{"id": 4, "title": "Ultima ejecucion"},
		{"id": 5, "title": "Siguiente ejecucion"}
	],
	"rows": [
		{"id": 1001, "cells": [
			{"columnId": 1, "value": "A", "displayValue": "A"},
			{"columnId": 2, "value": "Acme", "displayValue": "Acme"},
			{"columnId": 3, "value": 60, "displayValue": "60"},
			{"columnId": 4},
			{"columnId": 5}
		]},
		{"id": 1002, "cells": [
			{"columnId": 1, "value": "B", "displayValue": "B"},
			{"columnId": 2, "value": "Beta", "displayValue": "Beta"},
			{"columnId": 3, "value": 30, "displayValue": "30"},
			{"columnId": 4, "value": "2025-07-04T10:00:00Z", "displayValue": "2025-07-04T10:00:00Z"},
			{"columnId": 5}
		]}
	]
}`

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New(Config{
		Token:   "test-token",
		BaseURL: server.URL,
		Timeout: 2 * time.Second,
	})
	return client, server
}

// --- Client Tests ---

func TestGetSheet(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sheets/111" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("expected bearer auth header, got %q", got)
		}
		w.Write([]byte(sheetJSON))
	}))

	sheet, err := client.GetSheet(context.Background(), 111)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sheet.Columns) != 5 {
		t.Errorf("expected 5 columns, got %d", len(sheet.Columns))
	}
	if len(sheet.Rows) != 2 {
		t.Errorf("expected 2 rows, got %d", len(sheet.Rows))
	}
}

func TestGetSheet_NotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"errorCode": 1006, "message": "Not Found"}`))
	}))

	_, err := client.GetSheet(context.Background(), 999)
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if !IsNotFound(err) {
		t.Errorf("expected IsNotFound, got %v", err)
	}
}

func TestDo_RetryOn429(t *testing.T) {
	var attempts int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(sheetJSON))
	}))

	_, err := client.GetSheet(context.Background(), 111)
	if err != nil {
		t.Fatalf("unexpected error after retry: %v", err)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
}

func TestUpdateRows_Payload(t *testing.T) {
	var received []map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		json.NewDecoder(r.Body).Decode(&received)
		w.Write([]byte(`{"result": [{"id": 1001}]}`))
	}))

	count, err := client.UpdateRows(context.Background(), 111, []RowUpdate{
		{ID: 1001, Cells: []NewCell{{ColumnID: 4, Value: "2025-07-04T10:00:00Z"}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 updated row, got %d", count)
	}

	if len(received) != 1 {
		t.Fatalf("expected 1 row in payload, got %d", len(received))
	}
	if received[0]["id"] != float64(1001) {
		t.Errorf("expected row id 1001, got %v", received[0]["id"])
	}
}

// --- Sheet Tests ---

func TestSheet_Table(t *testing.T) {
	var sheet Sheet
	if err := json.Unmarshal([]byte(sheetJSON), &sheet); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}

	table := sheet.Table()
	if len(table.Header) != 5 || table.Header[0] != "ID" {
		t.Errorf("unexpected header: %v", table.Header)
	}
	if len(table.Data) != 2 {
		t.Fatalf("expected 2 data rows, got %d", len(table.Data))
	}
	if table.Data[0]["Cliente"] != "Acme" {
		t.Errorf("expected Acme, got %v", table.Data[0]["Cliente"])
	}
	// пустая ячейка — nil
	if table.Data[0]["Ultima ejecucion"] != nil {
		t.Errorf("empty cell should be nil, got %v", table.Data[0]["Ultima ejecucion"])
	}
}

func TestSheet_Records(t *testing.T) {
	var sheet Sheet
	if err := json.Unmarshal([]byte(sheetJSON), &sheet); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}

	records := sheet.Records()
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].RowID != 1001 {
		t.Errorf("expected row id 1001, got %d", records[0].RowID)
	}
	if records[1].Cells["ID"] != "B" {
		t.Errorf("expected company B, got %v", records[1].Cells["ID"])
	}
}

// --- ControlSheet Tests ---

func TestControlSheet_WriteSchedule(t *testing.T) {
	var updates []map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(sheetJSON))
		case http.MethodPut:
			json.NewDecoder(r.Body).Decode(&updates)
			w.Write([]byte(`{"result": [{"id": 1001}]}`))
		}
	}))

	cs := NewControlSheet(client, 111, nil)

	lastRun := time.Date(2025, 7, 4, 10, 5, 0, 0, time.UTC)
	nextRun := lastRun.Add(time.Hour)

	if err := cs.WriteSchedule(context.Background(), 1001, lastRun, nextRun); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(updates) != 1 {
		t.Fatalf("expected 1 row update, got %d", len(updates))
	}
	cells := updates[0]["cells"].([]any)
	if len(cells) != 2 {
		t.Fatalf("expected 2 cells, got %d", len(cells))
	}

	first := cells[0].(map[string]any)
	if first["columnId"] != float64(4) {
		t.Errorf("expected last-run column id 4, got %v", first["columnId"])
	}
	if first["value"] != "2025-07-04T10:05:00Z" {
		t.Errorf("expected RFC3339 UTC value, got %v", first["value"])
	}

	second := cells[1].(map[string]any)
	if second["value"] != "2025-07-04T11:05:00Z" {
		t.Errorf("expected next run = last + interval, got %v", second["value"])
	}
}

func TestControlSheet_WriteScheduleRetriesColumnLookup(t *testing.T) {
	// первый резолв колонок падает из-за сбоя API; после
	// восстановления следующий WriteSchedule должен пройти —
	// ошибка резолва не прилипает на всю жизнь процесса
	var gets int
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			gets++
			if gets == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"message": "maintenance"}`))
				return
			}
			w.Write([]byte(sheetJSON))
		case http.MethodPut:
			w.Write([]byte(`{"result": [{"id": 1001}]}`))
		}
	}))

	cs := NewControlSheet(client, 111, nil)
	lastRun := time.Date(2025, 7, 4, 10, 5, 0, 0, time.UTC)

	if err := cs.WriteSchedule(context.Background(), 1001, lastRun, lastRun.Add(time.Hour)); err == nil {
		t.Fatal("expected error while API is down")
	}
	if err := cs.WriteSchedule(context.Background(), 1001, lastRun, lastRun.Add(time.Hour)); err != nil {
		t.Fatalf("write after recovery should succeed: %v", err)
	}

	// третий вызов идёт из кэша колонок — GET больше не нужен
	if err := cs.WriteSchedule(context.Background(), 1001, lastRun, lastRun.Add(time.Hour)); err != nil {
		t.Fatalf("cached write failed: %v", err)
	}
	if gets != 2 {
		t.Errorf("expected 2 sheet reads (failed + successful resolve), got %d", gets)
	}
}

func TestControlSheet_Companies(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(sheetJSON))
	}))

	cs := NewControlSheet(client, 111, nil)
	companies, err := cs.Companies(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(companies) != 2 {
		t.Fatalf("expected 2 companies, got %d", len(companies))
	}
	if companies[0].ID != "A" || companies[0].Name != "Acme" {
		t.Errorf("unexpected first company: %+v", companies[0])
	}
	if companies[0].Label() != "Acme" {
		t.Errorf("expected label Acme, got %q", companies[0].Label())
	}
}

func TestFormatTimestamp(t *testing.T) {
	// не-UTC время с долями секунды приводится к UTC без долей
	loc := time.FixedZone("CST", -6*3600)
	ts := time.Date(2025, 7, 4, 4, 0, 0, 123456789, loc)

	if got := formatTimestamp(ts); got != "2025-07-04T10:00:00Z" {
		t.Errorf("expected 2025-07-04T10:00:00Z, got %q", got)
	}
}
