package exposure

import (
	"fmt"
	"math"

	"CreditExposure/internal/model"

	"github.com/shopspring/decimal"
)

// CapPortfolio builds the comparison portfolio: every loan whose LTV exceeds ltvCapPercent has its
// subordinated notional shrunk until senior + subordinated debt equals the cap. The senior loan is
// fixed. The security deposit keeps its ratio to the notional. Loans left with no notional are
// dropped. p is not modified.
func CapPortfolio(p model.Portfolio, ltvCapPercent float64) (model.Portfolio, error) {
	if math.IsNaN(ltvCapPercent) || ltvCapPercent < 0 {
		return model.Portfolio{}, fmt.Errorf("ltv cap must be non-negative, got %v", ltvCapPercent)
	}
	capped := dropExhausted(capLoans(p.Loans(), ltvCapPercent))
	out, err := model.NewPortfolio(capped)
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("rebuild capped portfolio: %w", err)
	}
	return out, nil
}

// capLoans recomputes notional, deposit and LTV for every loan, keeping loans whose notional
// ends up non-positive.
func capLoans(loans []model.Loan, ltvCapPercent float64) []model.Loan {
	capPct := decimal.NewFromFloat(ltvCapPercent)
	hundred := decimal.NewFromInt(100)

	out := make([]model.Loan, len(loans))
	for i, l := range loans {
		nominal := decimal.NewFromFloat(l.LoanNominal)
		senior := decimal.NewFromFloat(l.SeniorLoan)
		mv := decimal.NewFromFloat(l.MarketValue)

		newNominal := nominal
		if l.LTV > ltvCapPercent {
			newNominal = capPct.Div(hundred).Mul(mv).Sub(senior)
		}

		// deposit/nominal ratio is taken from the loan as given
		security := decimal.NewFromFloat(l.SecurityAmount).Mul(newNominal).Div(nominal).Floor()
		ltv := hundred.Mul(senior.Add(newNominal)).Div(mv).Floor()

		out[i] = model.Loan{
			ProjectID:      l.ProjectID,
			LTV:            ltv.InexactFloat64(),
			MarketValue:    l.MarketValue,
			LoanNominal:    newNominal.InexactFloat64(),
			SeniorLoan:     l.SeniorLoan,
			SecurityAmount: security.InexactFloat64(),
		}
	}
	return out
}

// dropExhausted removes loans the company could not fund at all under the cap.
func dropExhausted(loans []model.Loan) []model.Loan {
	out := make([]model.Loan, 0, len(loans))
	for _, l := range loans {
		if l.LoanNominal > 0 {
			out = append(out, l)
		}
	}
	return out
}

