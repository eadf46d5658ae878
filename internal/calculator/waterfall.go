package calculator

import "CreditExposure/internal/model"

// LossAmount returns the part of a market value decline that reaches the subordinated loan.
// Equity (plus the security deposit when included) absorbs the first loss; anything beyond the
// subordinated notional passes on to the senior loan.
func LossAmount(loan model.Loan, decline float64, includeSecurityDeposit bool) float64 {
	mvLoss := decline * loan.MarketValue
	buffer := loan.EquityAmount()
	if includeSecurityDeposit {
		buffer += loan.SecurityAmount
	}
	return clamp(mvLoss-buffer, 0, loan.LoanNominal)
}

// LossRatio is LossAmount as a fraction of the subordinated notional, in [0, 1].
func LossRatio(loan model.Loan, decline float64, includeSecurityDeposit bool) (float64, error) {
	if loan.LoanNominal == 0 {
		return 0, model.ErrDivisionUndefined
	}
	return LossAmount(loan, decline, includeSecurityDeposit) / loan.LoanNominal, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
