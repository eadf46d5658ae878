package exposure

import (
	"context"
	"fmt"

	"CreditExposure/internal/calculator"
	"CreditExposure/internal/model"

	"golang.org/x/sync/errgroup"
)

// Aggregate holds the two portfolio-level loss conventions at one decline.
type Aggregate struct {
	Unweighted float64 // mean of per-loan loss ratios
	Weighted   float64 // total loss amount over total notional
}

// AggregateAt folds the waterfall over every loan of p at a single decline.
func AggregateAt(p model.Portfolio, decline float64, includeSecurityDeposit bool) (Aggregate, error) {
	if p.Len() == 0 {
		return Aggregate{}, model.ErrEmptyPortfolio
	}

	var ratioSum, lossSum, nominalSum float64
	var err error
	p.Each(func(l model.Loan) {
		if err != nil {
			return
		}
		r, rerr := calculator.LossRatio(l, decline, includeSecurityDeposit)
		if rerr != nil {
			err = fmt.Errorf("loan %s: %w", l.ProjectID, rerr)
			return
		}
		ratioSum += r
		lossSum += calculator.LossAmount(l, decline, includeSecurityDeposit)
		nominalSum += l.LoanNominal
	})
	if err != nil {
		return Aggregate{}, err
	}
	if nominalSum == 0 {
		return Aggregate{}, model.ErrDivisionUndefined
	}

	return Aggregate{
		Unweighted: ratioSum / float64(p.Len()),
		Weighted:   lossSum / nominalSum,
	}, nil
}

// Evaluator applies AggregateAt across a scenario grid.
type Evaluator struct {
	// Workers > 1 spreads grid points over that many goroutines.
	Workers int
}

// Series returns the unweighted and weighted curves of p over grid, in grid order.
func (e Evaluator) Series(ctx context.Context, p model.Portfolio, grid model.Grid, includeSecurityDeposit bool) (unweighted, weighted []model.Point, err error) {
	if p.Len() == 0 {
		return nil, nil, model.ErrEmptyPortfolio
	}
	aggs := make([]Aggregate, grid.Len())

	if e.Workers <= 1 {
		for i := 0; i < grid.Len(); i++ {
			if aggs[i], err = AggregateAt(p, grid.At(i), includeSecurityDeposit); err != nil {
				return nil, nil, err
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.Workers)
		for i := 0; i < grid.Len(); i++ {
			i := i
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				a, err := AggregateAt(p, grid.At(i), includeSecurityDeposit)
				if err != nil {
					return err
				}
				aggs[i] = a
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, nil, err
		}
	}

	unweighted = make([]model.Point, len(aggs))
	weighted = make([]model.Point, len(aggs))
	for i, a := range aggs {
		d := grid.At(i)
		unweighted[i] = model.Point{Decline: d, Loss: a.Unweighted}
		weighted[i] = model.Point{Decline: d, Loss: a.Weighted}
	}
	return unweighted, weighted, nil
}
