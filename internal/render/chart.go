// Package render draws the whitewater log chart server side, for clients
// without JavaScript and for export.
package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/andGarc/portfolio/internal/wwlog"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoData is returned when the view holds no entries to draw.
var ErrNoData = errors.New("render: no entries to chart")

func color(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

// dominantRiver is the river with the most days in month m, by view order.
func dominantRiver(view wwlog.AggregatedView, m int) string {
	best, bestCount := "", 0
	for _, river := range view.RiversPresent {
		if n := view.MonthlySeriesByRiver[river][m]; n > bestCount {
			best, bestCount = river, n
		}
	}
	return best
}

// MonthlyBars builds one bar per month, sized by the month's total and
// colored by the river that contributed most days to it.
func MonthlyBars(view wwlog.AggregatedView) []chart.Value {
	bars := make([]chart.Value, 0, len(view.MonthlyTotals))
	for m, total := range view.MonthlyTotals {
		c := color(wwlog.RiverColor(dominantRiver(view, m)))
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s (%d)", wwlog.MonthAbbrev[m], total),
			Value: float64(total),
			Style: chart.Style{FillColor: c, StrokeColor: c, StrokeWidth: 1},
		})
	}
	return bars
}

// MonthlyChartSVG writes the monthly totals bar chart for view as SVG.
func MonthlyChartSVG(w io.Writer, view wwlog.AggregatedView) error {
	if view.TotalDays == 0 {
		return ErrNoData
	}

	peak := 0
	for _, total := range view.MonthlyTotals {
		peak = max(peak, total)
	}

	graph := chart.BarChart{
		Title:      wwlog.ChartTitle(view.Filter),
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10}},
		Width:      1024,
		Height:     400,
		BarWidth:   50,
		BarSpacing: 24,
		YAxis: chart.YAxis{
			Name:  "Number of Days",
			Range: &chart.ContinuousRange{Min: 0, Max: float64(peak + 1)},
		},
		Bars: MonthlyBars(view),
	}
	if err := graph.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render monthly chart: %w", err)
	}
	return nil
}
