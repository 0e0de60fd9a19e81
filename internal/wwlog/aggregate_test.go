package wwlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(date, river string) Entry {
	d, err := ParseDate(date)
	if err != nil {
		panic(err)
	}
	return Entry{Date: d, River: river, LevelType: LevelFeet}
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}

func TestAggregateScenario(t *testing.T) {
	entries := []Entry{
		entry("2023-01-05", "Little Falls"),
		entry("2023-01-20", "Little Falls"),
		entry("2023-02-02", "Great Falls"),
	}

	view := Aggregate(entries, "2023")

	assert.Equal(t, 3, view.TotalDays)
	assert.Equal(t, map[string]int{"Little Falls": 2, "Great Falls": 1}, view.RiverDayCounts)
	assert.Equal(t, []string{"Little Falls", "Great Falls"}, view.RiversPresent)
	assert.Equal(t, [12]int{2}, view.MonthlySeriesByRiver["Little Falls"])
	assert.Equal(t, [12]int{0, 1}, view.MonthlySeriesByRiver["Great Falls"])
	assert.Equal(t, [12]int{2, 1}, view.MonthlyTotals)
}

func TestAggregateEmpty(t *testing.T) {
	view := Aggregate(nil, AllYears)

	assert.Zero(t, view.TotalDays)
	assert.Empty(t, view.RiversPresent)
	assert.Empty(t, view.RiverDayCounts)
	assert.Equal(t, [12]int{}, view.MonthlyTotals)
	assert.Nil(t, ChartSeries(view))
}

func TestAggregateFilters(t *testing.T) {
	entries := []Entry{
		entry("2024-06-01", "Yough"),
		entry("2023-06-01", "Yough"),
		entry("2023-07-04", "Great Falls"),
		entry("2022-12-31", "Little Falls"),
	}

	tests := []struct {
		name   string
		filter YearFilter
		total  int
	}{
		{name: "all", filter: AllYears, total: len(entries)},
		{name: "2023", filter: "2023", total: 2},
		{name: "2022", filter: "2022", total: 1},
		{name: "year without data", filter: "1999", total: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := Aggregate(entries, tt.filter)
			assert.Equal(t, tt.total, view.TotalDays)

			counts := make([]int, 0, len(view.RiverDayCounts))
			for _, c := range view.RiverDayCounts {
				counts = append(counts, c)
			}
			assert.Equal(t, view.TotalDays, sum(counts))
			assert.Equal(t, view.TotalDays, sum(view.MonthlyTotals[:]))
			assert.Len(t, view.RiversPresent, len(view.RiverDayCounts))
			for _, river := range view.RiversPresent {
				assert.Contains(t, view.RiverDayCounts, river)
			}
		})
	}
}

func TestAggregateOrdersRiversByCountThenEncounter(t *testing.T) {
	entries := []Entry{
		entry("2023-03-01", "White River"),
		entry("2023-03-02", "Yough"),
		entry("2023-03-03", "Great Falls"),
		entry("2023-03-04", "Great Falls"),
		entry("2023-03-05", "Yough"),
		entry("2023-03-06", "Other"),
	}

	view := Aggregate(entries, AllYears)

	assert.Equal(t, []string{"Yough", "Great Falls", "White River", "Other"}, view.RiversPresent)
	for i := 1; i < len(view.RiversPresent); i++ {
		prev := view.RiverDayCounts[view.RiversPresent[i-1]]
		cur := view.RiverDayCounts[view.RiversPresent[i]]
		assert.GreaterOrEqual(t, prev, cur)
	}
}

func TestAggregateIsPure(t *testing.T) {
	entries := []Entry{
		entry("2021-04-10", "Little Falls"),
		entry("2021-05-11", "Great Falls"),
		entry("2021-05-12", "Mystery Creek"),
	}

	first := Aggregate(entries, "2021")
	second := Aggregate(entries, "2021")

	assert.Equal(t, first, second)
	assert.Equal(t, ChartSeries(first), ChartSeries(second))
}

func TestAggregateBucketsByWrittenMonth(t *testing.T) {
	d, err := ParseDate("2023-01-31T23:30:00-05:00")
	require.NoError(t, err)

	view := Aggregate([]Entry{{Date: d, River: "Yough"}}, "2023")

	assert.Equal(t, [12]int{1}, view.MonthlyTotals)
}

func TestYearOptions(t *testing.T) {
	entries := []Entry{
		entry("2022-05-01", "Yough"),
		entry("2021-05-01", "Yough"),
		entry("2023-05-01", "Yough"),
		entry("2023-08-01", "Yough"),
	}

	options, def := YearOptions(entries)

	assert.Equal(t, []string{"2023", "2022", "2021"}, options)
	assert.Equal(t, YearFilter("2023"), def)
}

func TestYearOptionsEmpty(t *testing.T) {
	options, def := YearOptions(nil)

	assert.Empty(t, options)
	assert.Equal(t, AllYears, def)
}

func TestDefaultYearAlwaysMatches(t *testing.T) {
	for _, date := range []string{"0999-03-01", "0042-07-04", "2024-05-01"} {
		t.Run(date, func(t *testing.T) {
			entries := []Entry{entry(date, "Yough")}

			options, def := YearOptions(entries)
			require.Len(t, options, 1)
			assert.Equal(t, YearFilter(options[0]), def)

			f, err := ParseYearFilter(options[0])
			require.NoError(t, err)
			assert.Equal(t, 1, Aggregate(entries, f).TotalDays)
		})
	}
}

func TestResolveFilter(t *testing.T) {
	assert.Equal(t, YearFilter("2022"), ResolveFilter("2022", "2023"))
	assert.Equal(t, AllYears, ResolveFilter("All", "2023"))
	assert.Equal(t, YearFilter("2023"), ResolveFilter("", "2023"))
	assert.Equal(t, YearFilter("2023"), ResolveFilter("twenty", "2023"))
	assert.Equal(t, YearFilter("2023"), ResolveFilter("20231", "2023"))
}
