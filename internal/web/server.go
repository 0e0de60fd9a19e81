// Package web serves the portfolio: static pages rendered from bundled
// content, the whitewater log dashboard and the log entry form.
package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/andGarc/portfolio/internal/content"
	"github.com/andGarc/portfolio/internal/store"
	"github.com/andGarc/portfolio/internal/wwlog"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// VisitRecorder stores privacy-conscious page views.
type VisitRecorder interface {
	RecordVisit(ctx context.Context, v store.Visit) error
}

type Options struct {
	Source wwlog.Source
	Site   *content.Site

	// Visits enables visitor tracking when set.
	Visits VisitRecorder

	// Registry receives the server metrics; a fresh one is used when nil.
	Registry *prometheus.Registry

	StaticDir string
	ImagesDir string

	// Location is the timezone "today" is computed in for the entry form.
	Location *time.Location
	Now      func() time.Time
}

type Server struct {
	engine   *gin.Engine
	source   wwlog.Source
	site     *content.Site
	visits   VisitRecorder
	metrics  *Metrics
	registry *prometheus.Registry
	salt     string
	loc      *time.Location
	now      func() time.Time
}

func New(opts Options) (*Server, error) {
	if opts.Source == nil {
		return nil, errors.New("web: a wwlog source is required")
	}
	if opts.Site == nil {
		return nil, errors.New("web: site content is required")
	}

	salt, err := generateSalt()
	if err != nil {
		return nil, err
	}

	s := &Server{
		source:   opts.Source,
		site:     opts.Site,
		visits:   opts.Visits,
		registry: opts.Registry,
		salt:     salt,
		loc:      opts.Location,
		now:      opts.Now,
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.metrics = NewMetrics(s.registry)

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), requestIDMiddleware(), s.metricsMiddleware())
	if s.visits != nil {
		r.Use(s.visitorTrackingMiddleware())
		log.Println("Privacy: Visitor tracking enabled with hashed IP addresses")
	}
	r.SetHTMLTemplate(tmpl)

	if opts.ImagesDir != "" {
		r.Static("/images", opts.ImagesDir)
	}
	if opts.StaticDir != "" {
		r.Static("/static", opts.StaticDir)
	}

	s.engine = r
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := s.engine

	r.GET("/", s.home)
	r.GET("/projects", s.projects)
	r.GET("/projects/:slug/modal", s.projectModal)
	r.GET("/timeline", s.timeline)
	r.GET("/privacy", s.privacy)

	r.GET("/wwlog", s.wwlogPage)
	r.GET("/wwlog/dashboard", s.wwlogDashboard)
	r.GET("/wwlog/chart.svg", s.wwlogChart)
	r.GET("/wwlogform", s.entryForm)
	r.POST("/wwlogform", s.submitEntry)

	api := r.Group("/api")
	api.GET("/wwlog", s.wwlogAPI)

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down web server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func generateSalt() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate hashing salt: %w", err)
	}
	return hex.EncodeToString(b), nil
}

