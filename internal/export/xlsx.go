package export

import (
	"context"
	"errors"
	"fmt"
	"log"

	"CreditExposure/internal/collector"
	"CreditExposure/internal/exposure"
	"CreditExposure/internal/model"

	"github.com/xuri/excelize/v2"
)

// Workbook sheet names.
const (
	SheetExposure   = "Exposure"
	SheetPortfolio  = "Portfolio"
	SheetComparison = "Comparison"
)

const (
	titleColor  = "#cfe2f3"
	headerColor = "#d9ead3"
)

// Workbook renders a run into an XLSX file: the long-format curve, the portfolio and,
// when present, the comparison portfolio.
func Workbook(ctx context.Context, res *exposure.Result, p model.Portfolio) ([]byte, error) {
	if res == nil || res.Curve == nil {
		return nil, errors.New("empty result")
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("[WARN] close workbook: %v", err)
		}
	}()

	if err := fillCurveSheet(f, res.Curve); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := fillLoanSheet(f, SheetPortfolio, "Portfolio", p); err != nil {
		return nil, err
	}
	if res.Comparison != nil {
		title := fmt.Sprintf("Comparison portfolio (%d loans dropped)", res.Dropped)
		if err := fillLoanSheet(f, SheetComparison, title, *res.Comparison); err != nil {
			return nil, err
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		log.Printf("[WARN] delete default sheet: %v", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func fillCurveSheet(f *excelize.File, c *exposure.Curve) error {
	if err := newSheet(f, SheetExposure, "Investment principal loss by market value decline", CurveHeader); err != nil {
		return err
	}
	for i, r := range c.Rows() {
		row := i + 3
		_ = f.SetCellValue(SheetExposure, cell(1, row), r.Decline)
		_ = f.SetCellStr(SheetExposure, cell(2, row), r.Series)
		_ = f.SetCellValue(SheetExposure, cell(3, row), r.LossRatio)
	}
	return nil
}

func fillLoanSheet(f *excelize.File, sheet, title string, p model.Portfolio) error {
	header := append(collector.Header(), "equity_amount")
	if err := newSheet(f, sheet, title, header); err != nil {
		return err
	}
	row := 3
	p.Each(func(l model.Loan) {
		_ = f.SetCellStr(sheet, cell(1, row), l.ProjectID)
		_ = f.SetCellValue(sheet, cell(2, row), l.LTV)
		_ = f.SetCellValue(sheet, cell(3, row), l.MarketValue)
		_ = f.SetCellValue(sheet, cell(4, row), l.LoanNominal)
		_ = f.SetCellValue(sheet, cell(5, row), l.SeniorLoan)
		_ = f.SetCellValue(sheet, cell(6, row), l.SecurityAmount)
		_ = f.SetCellValue(sheet, cell(7, row), l.EquityAmount())
		row++
	})
	return nil
}

// newSheet creates sheet with a merged title on row 1 and header on row 2.
func newSheet(f *excelize.File, sheet, title string, header []string) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	last := cell(len(header), 1)
	if err := f.MergeCell(sheet, "A1", last); err != nil {
		return fmt.Errorf("merge title: %w", err)
	}
	_ = f.SetCellStr(sheet, "A1", title)
	titleStyle, err := f.NewStyle(headerStyle(titleColor))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, titleStyle); err != nil {
		return fmt.Errorf("apply title style: %w", err)
	}

	for i, h := range header {
		_ = f.SetCellStr(sheet, cell(i+1, 2), h)
	}
	colStyle, err := f.NewStyle(headerStyle(headerColor))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A2", cell(len(header), 2), colStyle); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}
	return nil
}

func headerStyle(color string) *excelize.Style {
	return &excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{color},
		},
	}
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
