package collector

import (
	"fmt"
	"io"
	"os"
	"strings"

	"CreditExposure/internal/model"

	"github.com/xuri/excelize/v2"
)

// XLSXSource reads loans from a workbook sheet laid out like the CSV input.
type XLSXSource struct {
	Path  string
	Sheet string // first sheet when empty
}

func (s *XLSXSource) Name() string { return "xlsx:" + s.Path }

func (s *XLSXSource) Load() ([]model.Loan, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return ReadXLSX(f, s.Sheet)
}

// ReadXLSX parses loans from the named sheet of the workbook in r.
func ReadXLSX(r io.Reader, sheet string) ([]model.Loan, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	if sheet == "" {
		sheets := wb.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	idx, err := columnIndex(rows[0])
	if err != nil {
		return nil, err
	}
	var loans []model.Loan
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		loan, err := parseRecord(row, idx)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		loans = append(loans, loan)
	}
	return loans, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
