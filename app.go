package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/andGarc/portfolio/internal/config"
	"github.com/andGarc/portfolio/internal/content"
	"github.com/andGarc/portfolio/internal/store"
	"github.com/andGarc/portfolio/internal/supabase"
	"github.com/andGarc/portfolio/internal/web"
	"github.com/andGarc/portfolio/internal/wwlog"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

// App holds what the commands share. The data source is opened once by
// Init and handed to whichever command runs.
type App struct {
	v   *viper.Viper
	cfg config.Config
	out io.Writer

	source wwlog.Source
	db     *store.SQLite
	now    func() time.Time
}

func NewApp(out io.Writer) *App {
	return &App{v: config.New(), out: out, now: time.Now}
}

// Init loads the configuration and opens the data source. The SQLite
// database is opened for the sqlite backend and whenever visits are tracked.
func (a *App) Init(needVisits bool) error {
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	if cfg.Backend == config.BackendSQLite || needVisits {
		db, err := store.Open(cfg.DatabasePath)
		if err != nil {
			return err
		}
		a.db = db
	}

	switch cfg.Backend {
	case config.BackendSupabase:
		a.source = supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey,
			supabase.WithTable(cfg.Table),
			supabase.WithTimeout(cfg.HTTPTimeout),
		)
		log.Printf("Whitewater log backed by Supabase table %q", cfg.Table)
	case config.BackendSQLite:
		a.source = a.db
		log.Printf("Whitewater log backed by SQLite at %s", cfg.DatabasePath)
	}
	return nil
}

func (a *App) Close() {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
	a.db = nil
}

// Serve runs the web server until SIGINT or SIGTERM.
func (a *App) Serve(ctx context.Context) error {
	site, err := content.Load()
	if err != nil {
		return err
	}

	opts := web.Options{
		Source:    a.source,
		Site:      site,
		StaticDir: a.cfg.StaticDir,
		ImagesDir: a.cfg.ImagesDir,
	}
	if a.cfg.TrackVisitors && a.db != nil {
		opts.Visits = a.db

		cleanup, err := scheduleVisitorCleanup(a.db, a.cfg.VisitorCleanupSchedule, a.cfg.VisitorRetention, a.now)
		if err != nil {
			return err
		}
		cleanup.Start()
		defer cleanup.Stop()
	}

	srv, err := web.New(opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx, ":"+a.cfg.Port)
}

func (a *App) ListEntries(ctx context.Context, year string) error {
	entries, err := a.source.ListEntries(ctx)
	if err != nil {
		return err
	}
	_, def := wwlog.YearOptions(entries)
	filter := wwlog.ResolveFilter(year, def)

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tRIVER\tLEVEL\tNOTES")
	for _, e := range entries {
		if !filter.Matches(e.Date) {
			continue
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%.2f %s\t%s\n", e.ID, e.Date, e.River, e.Level, e.LevelType, e.NotesText())
	}
	return w.Flush()
}

func (a *App) Stats(ctx context.Context, year string, asJSON bool) error {
	entries, err := a.source.ListEntries(ctx)
	if err != nil {
		return err
	}
	_, def := wwlog.YearOptions(entries)
	view := wwlog.Aggregate(entries, wwlog.ResolveFilter(year, def))

	if asJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}

	fmt.Fprintf(a.out, "%s\n", wwlog.ChartTitle(view.Filter))
	fmt.Fprintf(a.out, "Total days on the water: %d\n\n", view.TotalDays)

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "RIVER\tDAYS")
	for _, m := range wwlog.MonthAbbrev {
		fmt.Fprintf(w, "\t%s", m)
	}
	fmt.Fprintln(w)
	for _, river := range view.RiversPresent {
		fmt.Fprintf(w, "%s\t%d", river, view.RiverDayCounts[river])
		for _, n := range view.MonthlySeriesByRiver[river] {
			fmt.Fprintf(w, "\t%d", n)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Total\t%d", view.TotalDays)
	for _, n := range view.MonthlyTotals {
		fmt.Fprintf(w, "\t%d", n)
	}
	fmt.Fprintln(w)
	return w.Flush()
}

// AddEntry inserts form the same way the web form does.
func (a *App) AddEntry(ctx context.Context, form wwlog.Form) error {
	stored, err := form.Submit(ctx, a.source)
	if err != nil {
		return fmt.Errorf("failed to submit log entry: %s", wwlog.UserMessage(err))
	}
	fmt.Fprintf(a.out, "Log entry submitted successfully! (id %d: %s %s %.2f %s)\n",
		stored.ID, stored.Date, stored.River, stored.Level, stored.LevelType)
	return nil
}

func (a *App) VisitorStats(ctx context.Context, asJSON bool) error {
	if a.db == nil {
		return fmt.Errorf("visitor tracking needs the SQLite database")
	}
	stats, err := a.db.VisitorStats(ctx, a.now())
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	fmt.Fprintf(a.out, "Total visits:   %d\n", stats.TotalVisitors)
	fmt.Fprintf(a.out, "Unique:         %d\n", stats.UniqueVisitors)
	fmt.Fprintf(a.out, "Today:          %d\n", stats.VisitorsToday)
	fmt.Fprintf(a.out, "This week:      %d\n\n", stats.VisitorsThisWeek)

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tVIEWS")
	for _, p := range stats.TopPaths {
		fmt.Fprintf(w, "%s\t%d\n", p.Path, p.Views)
	}
	return w.Flush()
}
