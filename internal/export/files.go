package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"CreditExposure/internal/exposure"
	"CreditExposure/internal/model"
)

// Output file names written by WriteFiles.
const (
	ExposureCSV   = "exposure.csv"
	PortfolioCSV  = "portfolio.csv"
	ComparisonCSV = "comparison.csv"
	ExposureXLSX  = "exposure.xlsx"
)

// WriteFiles writes the run's CSV and XLSX outputs into dir and returns their paths.
func WriteFiles(ctx context.Context, dir string, res *exposure.Result, p model.Portfolio) ([]string, error) {
	if res == nil || res.Curve == nil {
		return nil, fmt.Errorf("empty result")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var written []string
	write := func(name string, data []byte) error {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		written = append(written, path)
		return nil
	}

	var buf bytes.Buffer
	if err := WriteCurveCSV(&buf, res.Curve.Rows()); err != nil {
		return written, err
	}
	if err := write(ExposureCSV, buf.Bytes()); err != nil {
		return written, err
	}

	buf.Reset()
	if err := WriteLoansCSV(&buf, p.Loans()); err != nil {
		return written, err
	}
	if err := write(PortfolioCSV, buf.Bytes()); err != nil {
		return written, err
	}

	if res.Comparison != nil {
		buf.Reset()
		if err := WriteLoansCSV(&buf, res.Comparison.Loans()); err != nil {
			return written, err
		}
		if err := write(ComparisonCSV, buf.Bytes()); err != nil {
			return written, err
		}
	}

	wb, err := Workbook(ctx, res, p)
	if err != nil {
		return written, err
	}
	if err := write(ExposureXLSX, wb); err != nil {
		return written, err
	}
	return written, nil
}
