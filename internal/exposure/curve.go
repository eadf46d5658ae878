package exposure

import (
	"context"
	"fmt"
	"sort"

	"CreditExposure/internal/model"
)

// Series labels of the long-format curve.
const (
	SeriesUnweighted = "unweighted"
	SeriesWeighted   = "weighted"
	ComparisonSuffix = " - comparison"
)

// Options replaces the interactive settings of a chart session.
type Options struct {
	Grid                   model.Grid
	IncludeSecurityDeposit bool
	ComparisonCap          *float64 // LTV cap in percent; nil disables the comparison portfolio
	Workers                int
}

// Curve is the tidy exposure result: one row per (decline, series).
type Curve struct {
	grid   model.Grid
	labels []string
	series map[string][]model.Point
}

// BuildCurve evaluates p, and comparison when non-nil, over opts.Grid.
func BuildCurve(ctx context.Context, p model.Portfolio, comparison *model.Portfolio, opts Options) (*Curve, error) {
	if opts.Grid.Len() == 0 {
		return nil, fmt.Errorf("%w: no points", model.ErrInvalidGrid)
	}
	ev := Evaluator{Workers: opts.Workers}
	c := &Curve{grid: opts.Grid, series: make(map[string][]model.Point, 4)}

	unweighted, weighted, err := ev.Series(ctx, p, opts.Grid, opts.IncludeSecurityDeposit)
	if err != nil {
		return nil, fmt.Errorf("evaluate portfolio: %w", err)
	}
	c.add(SeriesUnweighted, unweighted)
	c.add(SeriesWeighted, weighted)

	if comparison != nil {
		unweighted, weighted, err := ev.Series(ctx, *comparison, opts.Grid, opts.IncludeSecurityDeposit)
		if err != nil {
			return nil, fmt.Errorf("evaluate comparison portfolio: %w", err)
		}
		c.add(SeriesUnweighted+ComparisonSuffix, unweighted)
		c.add(SeriesWeighted+ComparisonSuffix, weighted)
	}
	return c, nil
}

func (c *Curve) add(label string, points []model.Point) {
	c.labels = append(c.labels, label)
	c.series[label] = points
}

// Grid returns the declines every series is evaluated at.
func (c *Curve) Grid() model.Grid { return c.grid }

// Labels returns series labels in insertion order.
func (c *Curve) Labels() []string {
	cp := make([]string, len(c.labels))
	copy(cp, c.labels)
	return cp
}

// Series returns a copy of one series, or nil if the label is unknown.
func (c *Curve) Series(label string) []model.Point {
	pts, ok := c.series[label]
	if !ok {
		return nil
	}
	cp := make([]model.Point, len(pts))
	copy(cp, pts)
	return cp
}

// Rows flattens the curve series by series, each in grid order.
func (c *Curve) Rows() []model.Row {
	rows := make([]model.Row, 0, len(c.labels)*c.grid.Len())
	for _, label := range c.labels {
		for _, pt := range c.series[label] {
			rows = append(rows, model.Row{Decline: pt.Decline, Series: label, LossRatio: pt.Loss})
		}
	}
	return rows
}

// HasComparison reports whether the curve carries comparison series.
func (c *Curve) HasComparison() bool {
	_, ok := c.series[SeriesUnweighted+ComparisonSuffix]
	return ok
}

// Result is a full exposure run: the curve and, when capped, the comparison portfolio.
type Result struct {
	Curve      *Curve
	Comparison *model.Portfolio
	Dropped    int // loans removed by the cap
}

// Run builds the comparison portfolio when opts.ComparisonCap is set and evaluates both.
func Run(ctx context.Context, p model.Portfolio, opts Options) (*Result, error) {
	res := &Result{}
	if opts.ComparisonCap != nil {
		capped, err := CapPortfolio(p, *opts.ComparisonCap)
		if err != nil {
			return nil, err
		}
		if capped.Len() == 0 {
			return nil, fmt.Errorf("comparison portfolio at %.0f%% LTV cap: %w", *opts.ComparisonCap, model.ErrEmptyPortfolio)
		}
		res.Comparison = &capped
		res.Dropped = p.Len() - capped.Len()
	}

	curve, err := BuildCurve(ctx, p, res.Comparison, opts)
	if err != nil {
		return nil, err
	}
	res.Curve = curve
	return res, nil
}

// LossAt interpolates the series label linearly at decline. ok is false for an unknown
// label or a decline outside the grid.
func (c *Curve) LossAt(label string, decline float64) (loss float64, ok bool) {
	pts, found := c.series[label]
	if !found || len(pts) == 0 {
		return 0, false
	}
	if decline < pts[0].Decline || decline > pts[len(pts)-1].Decline {
		return 0, false
	}
	i := sort.Search(len(pts), func(i int) bool { return pts[i].Decline >= decline })
	if pts[i].Decline == decline || i == 0 {
		return pts[i].Loss, true
	}
	lo, hi := pts[i-1], pts[i]
	t := (decline - lo.Decline) / (hi.Decline - lo.Decline)
	return lo.Loss + t*(hi.Loss-lo.Loss), true
}
