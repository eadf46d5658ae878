package collector

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"CreditExposure/internal/model"

	"github.com/xuri/excelize/v2"
)

const originalCSV = `ProjektNumber,LTV,MarketValue,LoanNominal,SeniorLoan,SecurityAmount,Region
P-100,80,1000,200,600,50,North
P-101,70,2000,400,1000,0,South
P-102,95,800,160,600,16,East
`

func TestReadCSV_OriginalHeaders(t *testing.T) {
	loans, err := ReadCSV(strings.NewReader(originalCSV))
	if err != nil {
		t.Fatal(err)
	}
	if len(loans) != 3 {
		t.Fatalf("expected 3 loans, got %d", len(loans))
	}
	want := model.Loan{ProjectID: "P-100", LTV: 80, MarketValue: 1000, LoanNominal: 200, SeniorLoan: 600, SecurityAmount: 50}
	if loans[0] != want {
		t.Errorf("expected %+v, got %+v", want, loans[0])
	}
}

func TestReadCSV_SnakeCaseReordered(t *testing.T) {
	in := "security_amount,senior_loan,loan_nominal,market_value,ltv,project_id\n10,600,200,1000,80,X\n"
	loans, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(loans) != 1 || loans[0].ProjectID != "X" || loans[0].SecurityAmount != 10 || loans[0].SeniorLoan != 600 {
		t.Errorf("unexpected loans %+v", loans)
	}
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"empty", "", "empty file"},
		{"missing column", "project_id,ltv,market_value\nA,1,2\n", "loan_nominal"},
		{"bad number", "project_id,ltv,market_value,loan_nominal,senior_loan,security_amount\nA,80,1000,200,600,0\nB,80,lots,200,600,0\n", "line 3"},
		{"missing id", "project_id,ltv,market_value,loan_nominal,senior_loan,security_amount\n,80,1000,200,600,0\n", "empty project_id"},
	}
	for _, tt := range tests {
		_, err := ReadCSV(strings.NewReader(tt.input))
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if !strings.Contains(err.Error(), tt.msg) {
			t.Errorf("%s: expected error containing %q, got %v", tt.name, tt.msg, err)
		}
	}
}

func TestReadXLSX(t *testing.T) {
	wb := excelize.NewFile()
	rows := [][]interface{}{
		{"ProjektNumber", "LTV", "MarketValue", "LoanNominal", "SeniorLoan", "SecurityAmount"},
		{"P-1", 80, 1000, 200, 600, 50},
		{},
		{"P-2", 70, 2000, 400, 1000, 0},
	}
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		if err := wb.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := wb.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	loans, err := ReadXLSX(bytes.NewReader(buf.Bytes()), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(loans) != 2 {
		t.Fatalf("expected 2 loans, got %d", len(loans))
	}
	if loans[1].ProjectID != "P-2" || loans[1].MarketValue != 2000 || loans[1].LoanNominal != 400 {
		t.Errorf("unexpected second loan %+v", loans[1])
	}
}

func TestSourceFor(t *testing.T) {
	if s, err := SourceFor("a/b.CSV", ""); err != nil || s.Name() != "csv:a/b.CSV" {
		t.Errorf("csv source: %v %v", s, err)
	}
	if s, err := SourceFor("a/b.xlsx", "Loans"); err != nil || s.Name() != "xlsx:a/b.xlsx" {
		t.Errorf("xlsx source: %v %v", s, err)
	}
	if _, err := SourceFor("a/b.json", ""); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestLTVRange_Filter(t *testing.T) {
	loans := []model.Loan{{ProjectID: "a", LTV: 40}, {ProjectID: "b", LTV: 60}, {ProjectID: "c", LTV: 90}, {ProjectID: "d", LTV: 120}}
	tests := []struct {
		r    LTVRange
		want []string
	}{
		{LTVRange{}, []string{"a", "b", "c", "d"}},
		{LTVRange{Min: 60}, []string{"b", "c", "d"}},
		{LTVRange{Min: 60, Max: 90}, []string{"b", "c"}},
		{LTVRange{Max: 40}, []string{"a"}},
	}
	for _, tt := range tests {
		got := tt.r.Filter(loans)
		if len(got) != len(tt.want) {
			t.Errorf("range %+v: expected %v, got %v", tt.r, tt.want, got)
			continue
		}
		for i := range got {
			if got[i].ProjectID != tt.want[i] {
				t.Errorf("range %+v: expected %v, got %v", tt.r, tt.want, got)
				break
			}
		}
	}
}

func TestCollect_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loans.csv")
	if err := os.WriteFile(path, []byte(originalCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := SourceFor(path, "")
	if err != nil {
		t.Fatal(err)
	}
	p, err := NewCollector(src, LTVRange{Max: 90}).Collect()
	if err != nil {
		t.Fatal(err)
	}
	if p.Len() != 2 {
		t.Errorf("expected 2 loans within LTV <= 90, got %d", p.Len())
	}
}

func TestCollect_InvalidLoans(t *testing.T) {
	src := &MockSource{Loans: []model.Loan{
		{ProjectID: "good", LTV: 80, MarketValue: 1000, LoanNominal: 200, SeniorLoan: 600},
		{ProjectID: "bad", LTV: 80, MarketValue: 1000, LoanNominal: 0, SeniorLoan: 800},
	}}
	_, err := NewCollector(src, LTVRange{}).Collect()
	var ile *model.InvalidLoanError
	if !errors.As(err, &ile) || len(ile.ProjectIDs) != 1 || ile.ProjectIDs[0] != "bad" {
		t.Errorf("expected invalid loan 'bad', got %v", err)
	}
}

func TestCollect_SourceError(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewCollector(&MockSource{Err: boom}, LTVRange{}).Collect()
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped source error, got %v", err)
	}
}
