package calculator

import (
	"errors"
	"math"
	"testing"

	"CreditExposure/internal/model"
)

func caseLoan() model.Loan {
	return model.Loan{
		ProjectID:   "P-1",
		LTV:         80,
		MarketValue: 1000,
		LoanNominal: 200,
		SeniorLoan:  600,
	}
}

func TestLossRatio_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		decline  float64
		deposit  float64
		include  bool
		expected float64
	}{
		{"equity absorbs small decline", 0.05, 0, false, 0},
		{"partial subordinated loss", 0.30, 0, false, 0.5},
		{"full decline clamps to notional", 1.0, 0, false, 1.0},
		{"deposit ignored when excluded", 0.30, 50, false, 0.5},
		{"deposit adds to buffer", 0.30, 50, true, 0.25},
		{"zero decline", 0, 0, false, 0},
	}
	for _, tt := range tests {
		loan := caseLoan()
		loan.SecurityAmount = tt.deposit
		got, err := LossRatio(loan, tt.decline, tt.include)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("%s: expected %.4f, got %.4f", tt.name, tt.expected, got)
		}
	}
}

func TestLossAmount_Scenario(t *testing.T) {
	if got := LossAmount(caseLoan(), 0.30, false); math.Abs(got-100) > 1e-9 {
		t.Errorf("expected loss amount 100, got %.4f", got)
	}
	if got := LossAmount(caseLoan(), 1.0, false); got != 200 {
		t.Errorf("expected loss amount capped at 200, got %.4f", got)
	}
}

func TestLossRatio_OverLeveredLoanLosesImmediately(t *testing.T) {
	loan := model.Loan{ProjectID: "P-2", MarketValue: 1000, LoanNominal: 300, SeniorLoan: 800}
	// equity is -100, so 100 of notional is lost before any decline
	got, err := LossRatio(loan, 0, false)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-1.0/3) > 1e-12 {
		t.Errorf("expected 1/3, got %.6f", got)
	}
}

func TestLossRatio_ZeroNominal(t *testing.T) {
	loan := caseLoan()
	loan.LoanNominal = 0
	if _, err := LossRatio(loan, 0.5, false); !errors.Is(err, model.ErrDivisionUndefined) {
		t.Errorf("expected ErrDivisionUndefined, got %v", err)
	}
	if got := LossAmount(loan, 0.5, false); got != 0 {
		t.Errorf("expected amount 0 for zero notional, got %.4f", got)
	}
}

func TestLossRatio_BoundedAndMonotonic(t *testing.T) {
	loans := []model.Loan{
		caseLoan(),
		{ProjectID: "a", MarketValue: 500, LoanNominal: 100, SeniorLoan: 100, SecurityAmount: 40},
		{ProjectID: "b", MarketValue: 2500, LoanNominal: 900, SeniorLoan: 1700, SecurityAmount: 10},
		{ProjectID: "c", MarketValue: 100, LoanNominal: 1, SeniorLoan: 0},
	}
	for _, loan := range loans {
		for _, include := range []bool{false, true} {
			prev := -1.0
			for i := 0; i <= 100; i++ {
				d := float64(i) / 100
				r, err := LossRatio(loan, d, include)
				if err != nil {
					t.Fatal(err)
				}
				if r < 0 || r > 1 {
					t.Fatalf("loan %s decline %.2f: ratio %.4f out of [0, 1]", loan.ProjectID, d, r)
				}
				if r < prev {
					t.Fatalf("loan %s decline %.2f: ratio decreased from %.4f to %.4f", loan.ProjectID, d, prev, r)
				}
				prev = r
			}
		}
	}
}

func TestLossRatio_DepositNeverIncreasesLoss(t *testing.T) {
	loan := caseLoan()
	loan.SecurityAmount = 75
	for i := 0; i <= 20; i++ {
		d := float64(i) / 20
		without, _ := LossRatio(loan, d, false)
		with, _ := LossRatio(loan, d, true)
		if with > without {
			t.Errorf("decline %.2f: with deposit %.4f > without %.4f", d, with, without)
		}
	}
}
