package model

import "math"

// Loan is one financing project's capital stack.
type Loan struct {
	ProjectID      string
	LTV            float64 // percent of market value, may exceed 100
	MarketValue    float64
	LoanNominal    float64 // subordinated notional
	SeniorLoan     float64 // fixed bank loan
	SecurityAmount float64 // cash deposit backing the subordinated tranche
}

// EquityAmount is what is left of the market value after both loans. Negative when over-levered.
func (l Loan) EquityAmount() float64 {
	return l.MarketValue - l.LoanNominal - l.SeniorLoan
}

// valid reports whether the loan can take part in aggregation.
func (l Loan) valid() bool {
	for _, v := range []float64{l.LTV, l.MarketValue, l.LoanNominal, l.SeniorLoan, l.SecurityAmount} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return l.LoanNominal > 0 && l.MarketValue > 0 && l.SeniorLoan >= 0 && l.SecurityAmount >= 0
}
