package chart

import (
	"fmt"
	"strings"

	"CreditExposure/internal/exposure"

	"github.com/vicanso/go-charts/v2"
)

// Options controls the rendered image.
type Options struct {
	Width    int
	Height   int
	Subtitle string
}

const (
	defaultWidth  = 900
	defaultHeight = 600
	yMax          = 1.02
)

// DisplayName maps a curve series label to its legend text.
func DisplayName(label string) string {
	base, comparison := strings.CutSuffix(label, exposure.ComparisonSuffix)
	name := "Investment Principal Loss"
	if base == exposure.SeriesWeighted {
		name += " (weighted)"
	}
	if comparison {
		name += exposure.ComparisonSuffix
	}
	return name
}

// RenderExposure draws every series of c as a line over the decline grid and returns PNG bytes.
func RenderExposure(c *exposure.Curve, opts Options) ([]byte, error) {
	if c == nil || c.Grid().Len() == 0 {
		return nil, fmt.Errorf("no curve to render")
	}
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultHeight
	}

	declines := c.Grid().Points()
	xLabels := make([]string, len(declines))
	for i, d := range declines {
		xLabels[i] = fmt.Sprintf("%.0f%%", d*100)
	}

	labels := c.Labels()
	values := make([][]float64, 0, len(labels))
	names := make([]string, 0, len(labels))
	for _, label := range labels {
		pts := c.Series(label)
		ys := make([]float64, len(pts))
		for i, pt := range pts {
			ys[i] = pt.Loss
		}
		values = append(values, ys)
		names = append(names, DisplayName(label))
	}

	seriesList := charts.NewSeriesListDataFromValues(values, charts.ChartTypeLine)
	for i := range seriesList {
		seriesList[i].Name = names[i]
	}

	split := 10
	if len(xLabels) <= split {
		split = len(xLabels) - 1
		if split < 1 {
			split = 1
		}
	}
	lo, hi := 0.0, yMax

	painter, err := charts.Render(charts.ChartOption{SeriesList: seriesList},
		charts.TitleTextOptionFunc("Investment Principal Loss vs. Market Value Decline", opts.Subtitle),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: xLabels, BoundaryGap: charts.FalseFlag(), SplitNumber: split}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &lo, Max: &hi, DivideCount: 6}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names, Top: charts.PositionTop}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(opts.Width),
		charts.HeightOptionFunc(opts.Height),
	)
	if err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	buf, err := painter.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	return buf, nil
}
