package sheet

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func TestFromRecords_TrimsHeaderAndPadsRows(t *testing.T) {
	tbl := FromRecords([][]string{
		{" Topic ", "Status  ", "", "Topic"},
		{"Order parts", "Complete"},
		{"", "", "", ""},
		{"Ship", "In Progress", "x", "dup", "overflow"},
	})
	wantHeader := []string{"Topic", "Status", "Unnamed: 2", "Topic.1"}
	if !reflect.DeepEqual(tbl.Header, wantHeader) {
		t.Fatalf("header=%q want %q", tbl.Header, wantHeader)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("expected blank row skipped, got %d rows", len(tbl.Rows))
	}
	if len(tbl.Rows[0]) != 4 || tbl.Rows[0][2] != "" {
		t.Fatalf("short row not padded: %q", tbl.Rows[0])
	}
	if len(tbl.Rows[1]) != 4 {
		t.Fatalf("long row not truncated: %q", tbl.Rows[1])
	}
}

func TestFromRecords_Empty(t *testing.T) {
	tbl := FromRecords(nil)
	if len(tbl.Header) != 0 || len(tbl.Rows) != 0 {
		t.Fatalf("expected empty table, got %+v", tbl)
	}
}

func TestDrop(t *testing.T) {
	tbl := FromRecords([][]string{
		{"Topic", "Baseline Start", "Status", "Variance"},
		{"a", "1", "Complete", "0"},
	})
	out := tbl.Drop("Baseline Start", "Variance", "Not There")
	if !reflect.DeepEqual(out.Header, []string{"Topic", "Status"}) {
		t.Fatalf("header=%q", out.Header)
	}
	if !reflect.DeepEqual(out.Rows[0], []string{"a", "Complete"}) {
		t.Fatalf("row=%q", out.Rows[0])
	}
	if !tbl.Has("Variance") {
		t.Fatalf("Drop must not modify the receiver")
	}
	if out.Index("Status") != 1 || out.Index("Variance") != -1 {
		t.Fatalf("Index after drop unexpected")
	}
}

func TestReadCSV_BOMAndRagged(t *testing.T) {
	recs, err := ReadCSV(strings.NewReader("\ufeffTopic,Status\nA,Complete,extra\nB\n"))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if recs[0][0] != "Topic" {
		t.Fatalf("BOM not stripped: %q", recs[0][0])
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
}

func TestLoad_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.csv")
	data := "Topic , Status,Variance\nA,Complete,1\nB,Not Started,2\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	tbl, err := Load(path, Options{Exclude: []string{"Variance"}})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(tbl.Header, []string{"Topic", "Status"}) {
		t.Fatalf("header=%q", tbl.Header)
	}
	if len(tbl.Rows) != 2 || tbl.Rows[1][1] != "Not Started" {
		t.Fatalf("rows=%q", tbl.Rows)
	}
}

func TestLoad_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	_ = f.SetCellValue(sheet, "A1", "Topic")
	_ = f.SetCellValue(sheet, "B1", " Status ")
	_ = f.SetCellValue(sheet, "C1", "Start Date")
	_ = f.SetCellValue(sheet, "A2", "Order parts")
	_ = f.SetCellValue(sheet, "B2", "Complete")
	_ = f.SetCellValue(sheet, "C2", time.Date(2024, 12, 16, 0, 0, 0, 0, time.UTC))
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	_ = f.Close()

	tbl, err := Load(path, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(tbl.Header, []string{"Topic", "Status", "Start Date"}) {
		t.Fatalf("header=%q", tbl.Header)
	}
	if len(tbl.Rows) != 1 || tbl.Rows[0][1] != "Complete" {
		t.Fatalf("rows=%q", tbl.Rows)
	}
	// dates come back as serial numbers
	if !strings.HasPrefix(tbl.Rows[0][2], "45642") {
		t.Fatalf("expected serial date, got %q", tbl.Rows[0][2])
	}

	if _, err := Load(path, Options{Sheet: "Missing"}); err == nil {
		t.Fatalf("expected error for missing sheet")
	}
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	_, err := Load("tasks.ods", Options{})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}
