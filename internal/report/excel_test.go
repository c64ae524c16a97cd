package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/TTMS-DilumCA/ttms-reporting/internal/entity"
)

func testDataset() *dataset {
	created := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	started := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	finished := started.Add(2 * time.Hour)
	return &dataset{
		Molds: []entity.Mold{
			{ID: "m1", MoldNo: "M-001", Customer: "Acme", Status: "completed", Category: "New", CreatedDate: &created},
			{ID: "m2", MoldNo: "M-002", Customer: "Acme", Status: "ongoing", Category: "Renovate", CreatedDate: &created},
			{ID: "m3", MoldNo: "M-003", Customer: "Bravo", Status: "pending", Category: "New", CreatedDate: &created},
		},
		Processes: []entity.Process{
			{ID: "p1", ProcessType: "Milling", MoldNo: "M-001", Status: "completed", Machine: "CNC-1", Operator: "op1", StartedAt: &started, FinishedAt: &finished},
			{ID: "p2", ProcessType: "Drilling", MoldNo: "M-002", Status: "ongoing", Machine: "CNC-2", Operator: "op2", StartedAt: &started},
		},
		Users: []entity.User{
			{ID: "u1", FullName: "Mala Perera", Email: "mala@ttms.lk", Role: entity.RoleManager, EPFNo: "1001", Status: "active"},
		},
		Customers: []entity.Customer{
			{ID: "c1", FullName: "Acme Contact", Company: "Acme", Email: "contact@acme.com"},
		},
		Tools: []entity.Tool{
			{ID: "t1", ToolNo: "T-01", Amount: 3, Status: "pending", CrafterName: "op2"},
		},
	}
}

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open generated workbook: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestBuildBIWorkbookSheets(t *testing.T) {
	data, err := buildBIWorkbook(testDataset(), testTime, 6)
	if err != nil {
		t.Fatalf("buildBIWorkbook: %v", err)
	}
	f := openWorkbook(t, data)

	sheets := f.GetSheetList()
	want := []string{sheetDashboard, sheetAnalytics, sheetAllData}
	if len(sheets) != len(want) {
		t.Fatalf("sheet list = %v, want %v", sheets, want)
	}
	for i, name := range want {
		if sheets[i] != name {
			t.Fatalf("sheet[%d] = %q, want %q", i, sheets[i], name)
		}
	}
}

func TestBuildBIWorkbookDashboardMetrics(t *testing.T) {
	data, err := buildBIWorkbook(testDataset(), testTime, 6)
	if err != nil {
		t.Fatalf("buildBIWorkbook: %v", err)
	}
	f := openWorkbook(t, data)

	rows, err := f.GetRows(sheetDashboard)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}

	metrics := map[string]string{}
	for _, row := range rows {
		if len(row) >= 2 {
			metrics[row[0]] = row[1]
		}
	}
	if got := metrics["Total Molds"]; got != "3" {
		t.Errorf("Total Molds = %q, want 3", got)
	}
	if got := metrics["Mold Completion Rate"]; got != "33.3%" {
		t.Errorf("Mold Completion Rate = %q, want 33.3%%", got)
	}
	if got := metrics["Process Completion Rate"]; got != "50.0%" {
		t.Errorf("Process Completion Rate = %q, want 50.0%%", got)
	}
}

func TestBuildBIWorkbookStatusBlock(t *testing.T) {
	data, err := buildBIWorkbook(testDataset(), testTime, 6)
	if err != nil {
		t.Fatalf("buildBIWorkbook: %v", err)
	}
	f := openWorkbook(t, data)

	rows, err := f.GetRows(sheetAnalytics)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}

	found := false
	for _, row := range rows {
		if len(row) >= 3 && row[0] == "completed" && row[1] == "1" && row[2] == "33.3%" {
			found = true
		}
	}
	if !found {
		t.Fatal("status distribution row for completed/1/33.3% not found")
	}
}

// Zero customers must still yield a 3-sheet workbook whose customer section
// has a header row and no data rows.
func TestBuildBIWorkbookZeroCustomers(t *testing.T) {
	ds := testDataset()
	ds.Customers = nil

	data, err := buildBIWorkbook(ds, testTime, 6)
	if err != nil {
		t.Fatalf("buildBIWorkbook: %v", err)
	}
	f := openWorkbook(t, data)

	if got := len(f.GetSheetList()); got != 3 {
		t.Fatalf("sheet count = %d, want 3", got)
	}

	rows, err := f.GetRows(sheetAllData)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}

	headerIdx := -1
	for i, row := range rows {
		if len(row) > 0 && row[0] == "Full Name" {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		t.Fatal("customer header row not found")
	}
	// The next non-empty row must be the Tools section banner, not data.
	for _, row := range rows[headerIdx+1:] {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		if row[0] != bannerText {
			t.Fatalf("unexpected customer data row %v", row)
		}
		break
	}
}

func TestBuildBIWorkbookAllEmpty(t *testing.T) {
	data, err := buildBIWorkbook(&dataset{}, testTime, 6)
	if err != nil {
		t.Fatalf("buildBIWorkbook on empty dataset: %v", err)
	}
	f := openWorkbook(t, data)
	if got := len(f.GetSheetList()); got != 3 {
		t.Fatalf("sheet count = %d, want 3", got)
	}
}
