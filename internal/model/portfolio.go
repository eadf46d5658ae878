package model

import "fmt"

// Portfolio is a validated, immutable set of loans with unique project ids.
type Portfolio struct {
	loans []Loan
}

// NewPortfolio validates loans in a single pass and copies them into a Portfolio.
// Loans failing validation are reported together in an *InvalidLoanError.
func NewPortfolio(loans []Loan) (Portfolio, error) {
	seen := make(map[string]struct{}, len(loans))
	var invalid []string
	for _, l := range loans {
		if _, dup := seen[l.ProjectID]; dup {
			return Portfolio{}, fmt.Errorf("%w: %s", ErrDuplicateProject, l.ProjectID)
		}
		seen[l.ProjectID] = struct{}{}
		if !l.valid() {
			invalid = append(invalid, l.ProjectID)
		}
	}
	if len(invalid) > 0 {
		return Portfolio{}, &InvalidLoanError{ProjectIDs: invalid}
	}

	cp := make([]Loan, len(loans))
	copy(cp, loans)
	return Portfolio{loans: cp}, nil
}

func (p Portfolio) Len() int { return len(p.loans) }

// Loans returns a copy of the portfolio's loans in input order.
func (p Portfolio) Loans() []Loan {
	cp := make([]Loan, len(p.loans))
	copy(cp, p.loans)
	return cp
}

// Each calls fn for every loan in input order.
func (p Portfolio) Each(fn func(Loan)) {
	for _, l := range p.loans {
		fn(l)
	}
}

// TotalNominal sums the subordinated notionals.
func (p Portfolio) TotalNominal() float64 {
	total := 0.0
	for _, l := range p.loans {
		total += l.LoanNominal
	}
	return total
}

// LTVRange returns the smallest and largest LTV. ok is false for an empty portfolio.
func (p Portfolio) LTVRange() (min, max float64, ok bool) {
	if len(p.loans) == 0 {
		return 0, 0, false
	}
	min, max = p.loans[0].LTV, p.loans[0].LTV
	for _, l := range p.loans[1:] {
		if l.LTV < min {
			min = l.LTV
		}
		if l.LTV > max {
			max = l.LTV
		}
	}
	return min, max, true
}
