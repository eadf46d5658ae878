package collector

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"CreditExposure/internal/model"
)

// Source loads the raw loan table.
type Source interface {
	Load() ([]model.Loan, error)
	Name() string
}

// SourceFor picks a Source by file extension.
func SourceFor(path, sheet string) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return &CSVSource{Path: path}, nil
	case ".xlsx", ".xlsm":
		return &XLSXSource{Path: path, Sheet: sheet}, nil
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", filepath.Ext(path))
	}
}

// MockSource returns fixed loans for development and testing.
type MockSource struct {
	Loans []model.Loan
	Err   error
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) Load() ([]model.Loan, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]model.Loan, len(m.Loans))
	copy(out, m.Loans)
	return out, nil
}

// Input columns, in output order. The original dataset's headers are accepted as aliases.
var columns = []struct {
	name    string
	aliases []string
}{
	{"project_id", []string{"projektnumber", "projectnumber", "projectid"}},
	{"ltv", nil},
	{"market_value", []string{"marketvalue"}},
	{"loan_nominal", []string{"loannominal"}},
	{"senior_loan", []string{"seniorloan"}},
	{"security_amount", []string{"securityamount"}},
}

// Header is the canonical header row used when writing loans back out.
func Header() []string {
	h := make([]string, len(columns))
	for i, c := range columns {
		h[i] = c.name
	}
	return h
}

// columnIndex maps every required column to its position in header.
func columnIndex(header []string) ([]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		pos[key] = i
	}
	idx := make([]int, len(columns))
	for i, c := range columns {
		j, ok := pos[c.name]
		for _, a := range c.aliases {
			if ok {
				break
			}
			j, ok = pos[a]
		}
		if !ok {
			return nil, fmt.Errorf("missing column %q", c.name)
		}
		idx[i] = j
	}
	return idx, nil
}

// parseRecord converts one table row into a Loan using idx from columnIndex.
func parseRecord(record []string, idx []int) (model.Loan, error) {
	field := func(i int) string {
		if idx[i] >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx[i]])
	}
	nums := make([]float64, len(columns)-1)
	for i := 1; i < len(columns); i++ {
		raw := field(i)
		if raw == "" {
			return model.Loan{}, fmt.Errorf("empty %s", columns[i].name)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.Loan{}, fmt.Errorf("parse %s %q: %w", columns[i].name, raw, err)
		}
		nums[i-1] = v
	}
	id := field(0)
	if id == "" {
		return model.Loan{}, fmt.Errorf("empty %s", columns[0].name)
	}
	return model.Loan{
		ProjectID:      id,
		LTV:            nums[0],
		MarketValue:    nums[1],
		LoanNominal:    nums[2],
		SeniorLoan:     nums[3],
		SecurityAmount: nums[4],
	}, nil
}
