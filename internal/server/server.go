// Package server serves the portfolio page and the HTMX fragments and event
// streams that keep it interactive.
package server

import (
	"html/template"
	"io/fs"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/rowanarora/personal-website/internal/component"
	"github.com/rowanarora/personal-website/internal/content"
	"github.com/rowanarora/personal-website/internal/github"
	"github.com/rowanarora/personal-website/internal/session"
	"github.com/rowanarora/personal-website/web"
)

// Config carries everything a Server needs.
type Config struct {
	Portfolio content.Portfolio
	Repos     component.RepoLister
	Filter    github.Filter
	Visits    *session.Store
	Logger    *slog.Logger

	// PublicDir holds the photo and the résumé. Empty disables /public.
	PublicDir string

	// Zero intervals use the component defaults.
	CycleInterval   time.Duration
	FadeWindow      time.Duration
	ShimmerInterval time.Duration

	// Rand seeds each page's background. Nil means a random seed.
	Rand func() *rand.Rand
}

type Server struct {
	cfg    Config
	log    *slog.Logger
	engine *gin.Engine
}

// New builds the router. gin's mode is left to the caller.
func New(cfg Config) (*Server, error) {
	if cfg.Visits == nil {
		return nil, errors.New("server needs a visit store")
	}
	if cfg.Repos == nil {
		return nil, errors.New("server needs a repository lister")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Rand == nil {
		cfg.Rand = func() *rand.Rand { return nil }
	}

	tpl, err := template.New("").Funcs(funcs()).ParseFS(web.FS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "parsing templates")
	}
	static, err := fs.Sub(web.FS, "static")
	if err != nil {
		return nil, errors.Wrap(err, "opening static assets")
	}

	s := &Server{cfg: cfg, log: cfg.Logger}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log), visitor())
	r.SetHTMLTemplate(tpl)

	r.StaticFS("/static", http.FS(static))
	if cfg.PublicDir != "" {
		r.Static("/public", cfg.PublicDir)
	}

	r.GET("/", s.page)
	r.GET("/nav", s.nav)
	r.GET("/repos", s.repos)
	r.GET("/health", health)

	r.GET("/experience/:index", s.openExperience)
	r.DELETE("/experience/selection", s.closeExperience)
	r.GET("/projects/:index", s.openProject)
	r.DELETE("/projects/selection", s.closeProject)

	r.GET("/stream/label", s.streamLabel)
	r.GET("/stream/shimmer", s.streamShimmer)

	s.engine = r
	return s, nil
}

// Router returns the handler to mount on an http.Server.
func (s *Server) Router() http.Handler {
	return s.engine
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"markdown": content.Markdown,
	}
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
