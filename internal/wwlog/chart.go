package wwlog

import "strconv"

const DefaultRiverColor = "#ef4444"

var riverColors = map[string]string{
	"Little Falls": "#3b82f6",
	"Great Falls":  "#10b981",
	"Yough":        "#f59e0b",
	"White River":  "#8b5cf6",
	"Other":        "#ef4444",
}

// RiverColor is the palette color for a known river, DefaultRiverColor otherwise.
func RiverColor(river string) string {
	if c, ok := riverColors[river]; ok {
		return c
	}
	return DefaultRiverColor
}

type Marker struct {
	Color string `json:"color"`
}

type Font struct {
	Family string `json:"family,omitempty"`
	Size   int    `json:"size,omitempty"`
	Color  string `json:"color,omitempty"`
}

// Series is one Plotly trace.
type Series struct {
	X            []string `json:"x"`
	Y            []int    `json:"y"`
	Name         string   `json:"name,omitempty"`
	Type         string   `json:"type,omitempty"`
	Marker       *Marker  `json:"marker,omitempty"`
	Text         []string `json:"text,omitempty"`
	Mode         string   `json:"mode,omitempty"`
	TextPosition string   `json:"textposition,omitempty"`
	ShowLegend   *bool    `json:"showlegend,omitempty"`
	HoverInfo    string   `json:"hoverinfo,omitempty"`
	TextFont     *Font    `json:"textfont,omitempty"`
}

// ChartSeries returns one stacked bar trace per river in view order and a
// trailing text trace that prints each month's total above its bar.
// It returns nil when the view holds no rivers.
func ChartSeries(view AggregatedView) []Series {
	if len(view.RiversPresent) == 0 {
		return nil
	}
	months := MonthAbbrev[:]

	series := make([]Series, 0, len(view.RiversPresent)+1)
	for _, river := range view.RiversPresent {
		counts := view.MonthlySeriesByRiver[river]
		series = append(series, Series{
			X:      months,
			Y:      counts[:],
			Name:   river,
			Type:   "bar",
			Marker: &Marker{Color: RiverColor(river)},
		})
	}

	labels := make([]string, len(view.MonthlyTotals))
	for m, total := range view.MonthlyTotals {
		labels[m] = strconv.Itoa(total)
	}
	hidden := false
	totals := view.MonthlyTotals
	series = append(series, Series{
		X:            months,
		Y:            totals[:],
		Text:         labels,
		Mode:         "text",
		TextPosition: "top center",
		ShowLegend:   &hidden,
		HoverInfo:    "skip",
		TextFont:     &Font{Color: "white", Size: 12},
	})
	return series
}

// ChartTitle is the chart heading for filter.
func ChartTitle(filter YearFilter) string {
	title := "Kayaking Days by Month and River"
	if !filter.IsAll() {
		title += " (" + string(filter) + ")"
	}
	return title
}

// ChartLayout is the Plotly layout for the stacked month chart.
func ChartLayout(filter YearFilter) map[string]any {
	axis := func(name string) map[string]any {
		return map[string]any{
			"title":     map[string]any{"text": name, "font": Font{Family: "Arial", Size: 12, Color: "white"}},
			"tickfont":  Font{Color: "white"},
			"gridcolor": "rgba(255,255,255,0.1)",
		}
	}
	return map[string]any{
		"barmode":       "stack",
		"showlegend":    true,
		"title":         map[string]any{"text": ChartTitle(filter), "font": Font{Family: "monospace", Size: 16, Color: "white"}},
		"paper_bgcolor": "rgba(0,0,0,0)",
		"plot_bgcolor":  "rgba(0,0,0,0)",
		"margin":        map[string]int{"l": 50, "r": 20, "t": 50, "b": 50},
		"xaxis":         axis("Month"),
		"yaxis":         axis("Number of Days"),
		"legend": map[string]any{
			"font":        Font{Color: "white"},
			"bgcolor":     "rgba(30,38,64,0.7)",
			"bordercolor": "rgba(255,255,255,0.2)",
			"borderwidth": 1,
		},
		"autosize": true,
	}
}
