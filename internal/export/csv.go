package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"CreditExposure/internal/collector"
	"CreditExposure/internal/model"
)

// CurveHeader is the header row of the long-format exposure table.
var CurveHeader = []string{"decline_fraction", "series_label", "loss_ratio"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteLoansCSV writes loans in the same layout the collector reads.
func WriteLoansCSV(w io.Writer, loans []model.Loan) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(collector.Header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, l := range loans {
		record := []string{
			l.ProjectID,
			formatFloat(l.LTV),
			formatFloat(l.MarketValue),
			formatFloat(l.LoanNominal),
			formatFloat(l.SeniorLoan),
			formatFloat(l.SecurityAmount),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write loan %s: %w", l.ProjectID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCurveCSV writes one line per (decline, series) row.
func WriteCurveCSV(w io.Writer, rows []model.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CurveHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write([]string{formatFloat(r.Decline), r.Series, formatFloat(r.LossRatio)}); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
