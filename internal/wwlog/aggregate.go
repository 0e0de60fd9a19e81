package wwlog

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
)

// YearFilter is either AllYears or a four digit year.
type YearFilter string

const AllYears YearFilter = "All"

// MonthAbbrev labels the twelve month buckets, January first.
var MonthAbbrev = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

func ParseYearFilter(s string) (YearFilter, error) {
	if s == string(AllYears) {
		return AllYears, nil
	}
	if len(s) != 4 {
		return "", fmt.Errorf("invalid year filter %q", s)
	}
	if _, err := strconv.Atoi(s); err != nil {
		return "", fmt.Errorf("invalid year filter %q", s)
	}
	return YearFilter(s), nil
}

// yearLabel is how a year is written in filters and year options.
func yearLabel(y int) string {
	return fmt.Sprintf("%04d", y)
}

func (f YearFilter) IsAll() bool {
	return f == AllYears || f == ""
}

func (f YearFilter) Matches(d Date) bool {
	return f.IsAll() || string(f) == yearLabel(d.Year)
}

// AggregatedView is everything the dashboard shows for one filter.
type AggregatedView struct {
	Filter               YearFilter         `json:"filter"`
	TotalDays            int                `json:"total_days"`
	RiversPresent        []string           `json:"rivers_present"`
	RiverDayCounts       map[string]int     `json:"river_day_counts"`
	MonthlySeriesByRiver map[string][12]int `json:"monthly_series_by_river"`
	MonthlyTotals        [12]int            `json:"monthly_totals"`
}

// Aggregate counts the entries matching filter by river and by month.
// Rivers are ordered by descending day count; equal counts keep the order
// in which the rivers first appear in entries.
func Aggregate(entries []Entry, filter YearFilter) AggregatedView {
	view := AggregatedView{
		Filter:               filter,
		RiversPresent:        []string{},
		RiverDayCounts:       make(map[string]int),
		MonthlySeriesByRiver: make(map[string][12]int),
	}

	for _, e := range entries {
		if !filter.Matches(e.Date) {
			continue
		}
		view.TotalDays++

		series, seen := view.MonthlySeriesByRiver[e.River]
		if !seen {
			view.RiversPresent = append(view.RiversPresent, e.River)
		}
		series[e.Date.Month-1]++
		view.MonthlySeriesByRiver[e.River] = series
		view.RiverDayCounts[e.River]++
	}

	slices.SortStableFunc(view.RiversPresent, func(a, b string) int {
		return cmp.Compare(view.RiverDayCounts[b], view.RiverDayCounts[a])
	})

	for _, river := range view.RiversPresent {
		series := view.MonthlySeriesByRiver[river]
		for m := range series {
			view.MonthlyTotals[m] += series[m]
		}
	}
	return view
}

// YearOptions lists the distinct years in entries, newest first, and the
// filter selected by default: the newest year, or AllYears with no entries.
func YearOptions(entries []Entry) ([]string, YearFilter) {
	seen := make(map[int]bool)
	var years []int
	for _, e := range entries {
		if !seen[e.Date.Year] {
			seen[e.Date.Year] = true
			years = append(years, e.Date.Year)
		}
	}
	slices.SortFunc(years, func(a, b int) int { return cmp.Compare(b, a) })

	options := make([]string, 0, len(years))
	for _, y := range years {
		options = append(options, yearLabel(y))
	}
	if len(options) == 0 {
		return options, AllYears
	}
	return options, YearFilter(options[0])
}

// ResolveFilter picks the filter for a request: the requested one when it
// parses, the default otherwise.
func ResolveFilter(requested string, def YearFilter) YearFilter {
	if requested == "" {
		return def
	}
	f, err := ParseYearFilter(requested)
	if err != nil {
		return def
	}
	return f
}
