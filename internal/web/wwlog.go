package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"slices"

	"github.com/andGarc/portfolio/internal/render"
	"github.com/andGarc/portfolio/internal/wwlog"
	"github.com/gin-gonic/gin"
)

type riverTile struct {
	River string
	Days  int
	Color string
}

// dashboardPanel is the dashboard for one year filter.
type dashboardPanel struct {
	Filter     string
	Active     bool
	AllYears   bool
	TotalDays  int
	Tiles      []riverTile
	HasChart   bool
	SeriesJSON string
	LayoutJSON string
}

type dashboardData struct {
	Selected string
	Options  []string
	Panels   []dashboardPanel
}

// loadEntries reads the whole log once. A failed read is logged and treated
// as an empty log. The read is not tied to the client connection.
func (s *Server) loadEntries(c *gin.Context) []wwlog.Entry {
	ctx := context.WithoutCancel(c.Request.Context())
	entries, err := s.source.ListEntries(ctx)
	if err != nil {
		log.Printf("Error fetching kayaking data [%s]: %v", requestID(c), err)
		s.metrics.SourceErrors.WithLabelValues("list").Inc()
		return nil
	}
	return entries
}

// selectFilter resolves the requested filter against the years present.
func selectFilter(requested string, years []string, def wwlog.YearFilter) wwlog.YearFilter {
	f := wwlog.ResolveFilter(requested, def)
	if f.IsAll() || slices.Contains(years, string(f)) {
		return f
	}
	return def
}

func buildPanel(entries []wwlog.Entry, filter wwlog.YearFilter, active bool) (dashboardPanel, error) {
	view := wwlog.Aggregate(entries, filter)
	p := dashboardPanel{
		Filter:    string(filter),
		Active:    active,
		AllYears:  filter.IsAll(),
		TotalDays: view.TotalDays,
	}
	for _, river := range view.RiversPresent {
		p.Tiles = append(p.Tiles, riverTile{River: river, Days: view.RiverDayCounts[river], Color: wwlog.RiverColor(river)})
	}

	series := wwlog.ChartSeries(view)
	if len(series) == 0 {
		return p, nil
	}
	seriesJSON, err := json.Marshal(series)
	if err != nil {
		return p, err
	}
	layoutJSON, err := json.Marshal(wwlog.ChartLayout(filter))
	if err != nil {
		return p, err
	}
	p.HasChart = true
	p.SeriesJSON = string(seriesJSON)
	p.LayoutJSON = string(layoutJSON)
	return p, nil
}

// buildDashboard renders a panel per filter option so switching years on
// the client needs no further reads.
func buildDashboard(entries []wwlog.Entry, requested string) (dashboardData, error) {
	years, def := wwlog.YearOptions(entries)
	selected := selectFilter(requested, years, def)

	filters := append([]string{string(wwlog.AllYears)}, years...)
	data := dashboardData{Selected: string(selected), Options: filters}
	for _, f := range filters {
		panel, err := buildPanel(entries, wwlog.YearFilter(f), f == string(selected))
		if err != nil {
			return data, err
		}
		data.Panels = append(data.Panels, panel)
	}
	return data, nil
}

func (s *Server) wwlogPage(c *gin.Context) {
	c.HTML(http.StatusOK, "wwlog.html", gin.H{
		"Title": "Whitewater Log",
		"Year":  c.Query("year"),
	})
}

func (s *Server) wwlogDashboard(c *gin.Context) {
	data, err := buildDashboard(s.loadEntries(c), c.Query("year"))
	if err != nil {
		log.Printf("Error building dashboard [%s]: %v", requestID(c), err)
		c.String(http.StatusInternalServerError, "failed to build dashboard")
		return
	}
	c.HTML(http.StatusOK, "wwlog-dashboard.html", data)
}

func (s *Server) wwlogChart(c *gin.Context) {
	entries := s.loadEntries(c)
	years, def := wwlog.YearOptions(entries)
	view := wwlog.Aggregate(entries, selectFilter(c.Query("year"), years, def))

	var buf bytes.Buffer
	if err := render.MonthlyChartSVG(&buf, view); err != nil {
		if errors.Is(err, render.ErrNoData) {
			c.Status(http.StatusNoContent)
			return
		}
		log.Printf("Error rendering chart [%s]: %v", requestID(c), err)
		c.String(http.StatusInternalServerError, "failed to render chart")
		return
	}
	c.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
}

func (s *Server) wwlogAPI(c *gin.Context) {
	entries := s.loadEntries(c)
	years, def := wwlog.YearOptions(entries)
	filter := selectFilter(c.Query("year"), years, def)
	view := wwlog.Aggregate(entries, filter)

	series := wwlog.ChartSeries(view)
	if series == nil {
		series = []wwlog.Series{}
	}
	c.JSON(http.StatusOK, gin.H{
		"filter":  filter,
		"default": def,
		"years":   years,
		"view":    view,
		"series":  series,
		"layout":  wwlog.ChartLayout(filter),
	})
}

type formData struct {
	Title    string
	Form     wwlog.Form
	Rivers   []string
	Units    []wwlog.LevelType
	MaxNotes int
	NotesLen int
	Success  string
	Error    string
	Added    *wwlog.Entry
	Fragment bool
}

func newFormData(f wwlog.Form) formData {
	return formData{
		Title:    "Whitewater Log Entry",
		Form:     f,
		Rivers:   wwlog.Rivers,
		Units:    []wwlog.LevelType{wwlog.LevelFeet, wwlog.LevelCFS},
		MaxNotes: wwlog.MaxNotesLength,
		NotesLen: len([]rune(f.Notes)),
	}
}

func (s *Server) entryForm(c *gin.Context) {
	c.HTML(http.StatusOK, "wwlogform.html", newFormData(wwlog.NewForm(s.now().In(s.loc))))
}

// submitEntry inserts one entry. HTMX requests get the form panel back
// with the new row as an out-of-band prepend to #recent-entries; plain
// form posts get the whole page.
func (s *Server) submitEntry(c *gin.Context) {
	form := wwlog.Form{
		Date:  c.PostForm("date"),
		River: c.PostForm("river"),
		Level: c.PostForm("level"),
		Unit:  wwlog.LevelType(c.PostForm("unit")),
	}
	form.SetNotes(c.PostForm("notes"))

	ctx := context.WithoutCancel(c.Request.Context())
	stored, err := form.Submit(ctx, s.source)

	var data formData
	if err != nil {
		log.Printf("Error adding log entry [%s]: %v", requestID(c), err)
		if wwlog.IsDataAccess(err) {
			s.metrics.SourceErrors.WithLabelValues("insert").Inc()
		}
		data = newFormData(form)
		data.Error = "Failed to submit log entry: " + wwlog.UserMessage(err)
	} else {
		s.metrics.EntriesInserted.Inc()
		data = newFormData(form)
		data.Success = "Log entry submitted successfully!"
		data.Added = &stored
	}

	if c.GetHeader("HX-Request") == "true" {
		data.Fragment = true
		c.HTML(http.StatusOK, "wwlog-form-panel.html", data)
		return
	}
	c.HTML(http.StatusOK, "wwlogform.html", data)
}
