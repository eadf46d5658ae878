package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"CreditExposure/internal/collector"
	"CreditExposure/internal/exposure"
	"CreditExposure/internal/model"

	"github.com/xuri/excelize/v2"
)

func testRun(t *testing.T, capPct *float64) (*exposure.Result, model.Portfolio) {
	t.Helper()
	p, err := model.NewPortfolio([]model.Loan{
		{ProjectID: "A", LTV: 80, MarketValue: 1000, LoanNominal: 200, SeniorLoan: 600, SecurityAmount: 50},
		{ProjectID: "B", LTV: 70, MarketValue: 2000, LoanNominal: 400, SeniorLoan: 1000},
		{ProjectID: "C", LTV: 90, MarketValue: 500, LoanNominal: 100, SeniorLoan: 350, SecurityAmount: 30},
	})
	if err != nil {
		t.Fatal(err)
	}
	grid, err := model.NewGrid([]float64{0, 0.3, 1})
	if err != nil {
		t.Fatal(err)
	}
	res, err := exposure.Run(context.Background(), p, exposure.Options{Grid: grid, ComparisonCap: capPct})
	if err != nil {
		t.Fatal(err)
	}
	return res, p
}

func TestWriteLoansCSV_ReadsBack(t *testing.T) {
	_, p := testRun(t, nil)
	var buf bytes.Buffer
	if err := WriteLoansCSV(&buf, p.Loans()); err != nil {
		t.Fatal(err)
	}
	loans, err := collector.ReadCSV(&buf)
	if err != nil {
		t.Fatal(err)
	}
	want := p.Loans()
	if len(loans) != len(want) {
		t.Fatalf("expected %d loans, got %d", len(want), len(loans))
	}
	for i := range want {
		if loans[i] != want[i] {
			t.Errorf("loan %d: expected %+v, got %+v", i, want[i], loans[i])
		}
	}
}

func TestWriteCurveCSV(t *testing.T) {
	res, _ := testRun(t, nil)
	var buf bytes.Buffer
	if err := WriteCurveCSV(&buf, res.Curve.Rows()); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "decline_fraction,series_label,loss_ratio" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if len(lines) != 1+2*3 {
		t.Fatalf("expected 7 lines, got %d", len(lines))
	}
	if lines[1] != "0,unweighted,0" {
		t.Errorf("unexpected first row %q", lines[1])
	}
	if lines[6] != "1,weighted,1" {
		t.Errorf("unexpected last row %q", lines[6])
	}
}

func TestWorkbook_Sheets(t *testing.T) {
	capPct := 85.0
	res, p := testRun(t, &capPct)
	data, err := Workbook(context.Background(), res, p)
	if err != nil {
		t.Fatal(err)
	}
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	want := []string{SheetExposure, SheetPortfolio, SheetComparison}
	if strings.Join(sheets, ",") != strings.Join(want, ",") {
		t.Fatalf("expected sheets %v, got %v", want, sheets)
	}
	rows, err := wb.GetRows(SheetExposure)
	if err != nil {
		t.Fatal(err)
	}
	// title + header + 4 series x 3 declines
	if len(rows) != 2+12 {
		t.Errorf("expected 14 exposure rows, got %d", len(rows))
	}
	if rows[1][1] != "series_label" {
		t.Errorf("unexpected header %v", rows[1])
	}
	rows, err = wb.GetRows(SheetPortfolio)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2+3 || rows[2][0] != "A" {
		t.Errorf("unexpected portfolio sheet %v", rows)
	}
}

func TestWorkbook_WithoutComparison(t *testing.T) {
	res, p := testRun(t, nil)
	data, err := Workbook(context.Background(), res, p)
	if err != nil {
		t.Fatal(err)
	}
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	defer wb.Close()
	if got := wb.GetSheetList(); len(got) != 2 {
		t.Errorf("expected 2 sheets, got %v", got)
	}
}

func TestWriteFiles(t *testing.T) {
	capPct := 85.0
	res, p := testRun(t, &capPct)
	dir := filepath.Join(t.TempDir(), "out")
	paths, err := WriteFiles(context.Background(), dir, res, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 4 {
		t.Fatalf("expected 4 files, got %v", paths)
	}
	for _, name := range []string{ExposureCSV, PortfolioCSV, ComparisonCSV, ExposureXLSX} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	comparison, err := os.ReadFile(filepath.Join(dir, ComparisonCSV))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(comparison), "C,85,500,75,350,22") {
		t.Errorf("expected capped loan C in comparison.csv, got:\n%s", comparison)
	}
}
