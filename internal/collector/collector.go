package collector

import (
	"fmt"
	"log"

	"CreditExposure/internal/model"
)

// LTVRange keeps loans with Min <= LTV <= Max. Max == 0 leaves the upper end open.
type LTVRange struct {
	Min float64
	Max float64
}

// Filter returns the loans inside the range, in input order.
func (r LTVRange) Filter(loans []model.Loan) []model.Loan {
	out := make([]model.Loan, 0, len(loans))
	for _, l := range loans {
		if l.LTV < r.Min {
			continue
		}
		if r.Max != 0 && l.LTV > r.Max {
			continue
		}
		out = append(out, l)
	}
	return out
}

// Collector loads a dataset and turns it into a validated portfolio.
type Collector struct {
	Source Source
	Range  LTVRange
}

// NewCollector creates a Collector with the given source and LTV filter.
func NewCollector(source Source, ltvRange LTVRange) *Collector {
	return &Collector{Source: source, Range: ltvRange}
}

// Collect loads, filters and validates the portfolio.
func (c *Collector) Collect() (model.Portfolio, error) {
	loans, err := c.Source.Load()
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("load %s: %w", c.Source.Name(), err)
	}
	filtered := c.Range.Filter(loans)
	log.Printf("[INFO] loaded %d loans from %s, %d within LTV range", len(loans), c.Source.Name(), len(filtered))

	p, err := model.NewPortfolio(filtered)
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("build portfolio: %w", err)
	}
	return p, nil
}
