package server

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rowanarora/personal-website/internal/component"
	"github.com/rowanarora/personal-website/internal/content"
)

type pageView struct {
	content.Portfolio

	Nav            navView
	Label          component.Frame
	Orbs           []orbView
	Dots           []dotView
	Repos          *component.RepoFeed
	ParallaxFactor float64
}

type orbView struct {
	ID    int
	X, Y  float64
	Style template.CSS
}

type dotView struct {
	ID    int
	Style template.CSS
}

type navView struct {
	Name       string
	Active     string
	TopHref    string
	ResumePath string
	Links      []linkView
}

type linkView struct {
	Name   string
	Href   string
	Active bool
}

// page renders the whole document. Loading it counts as a fresh mount, so
// any overlay the visitor left open is closed.
func (s *Server) page(c *gin.Context) {
	_, err := s.update(c, func(v *visit) error { v.teardown(); return nil })
	if !s.check(c, err) {
		return
	}

	bg := component.NewBackground(s.cfg.Rand())
	view := pageView{
		Portfolio:      s.cfg.Portfolio,
		Nav:            s.navView(component.NewTracker(component.Sections, "")),
		Label:          component.NewCycler(s.cfg.Portfolio.Technologies).Frame(),
		Orbs:           orbViews(bg.Orbs(), component.Center),
		Dots:           dotViews(bg.Dots()),
		Repos:          component.NewRepoFeed(s.cfg.Repos, s.cfg.Filter, s.log),
		ParallaxFactor: component.ParallaxFactor,
	}
	c.HTML(http.StatusOK, "index.html", view)
}

// nav re-renders the nav bar for a scroll position. The browser sends the
// scroll offset as y, the current section as active and each section's top
// offset as o.<id>.
func (s *Server) nav(c *gin.Context) {
	y, err := strconv.ParseFloat(c.DefaultQuery("y", "0"), 64)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid scroll position")
		return
	}

	offsets := make(map[string]float64)
	for key, values := range c.Request.URL.Query() {
		id, ok := strings.CutPrefix(key, "o.")
		if !ok || len(values) == 0 {
			continue
		}
		off, err := strconv.ParseFloat(values[0], 64)
		if err != nil {
			continue
		}
		offsets[id] = off
	}

	t := component.NewTracker(component.Sections, c.Query("active"))
	t.OnScroll(y, offsets)
	c.HTML(http.StatusOK, "nav.html", s.navView(t))
}

// repos loads the GitHub list. The fetch is bound to the request, so a
// visitor who leaves cancels it.
func (s *Server) repos(c *gin.Context) {
	feed := component.NewRepoFeed(s.cfg.Repos, s.cfg.Filter, s.log)
	feed.Load(c.Request.Context())
	c.HTML(http.StatusOK, "repos.html", feed)
}

func (s *Server) navView(t *component.Tracker) navView {
	nv := navView{
		Name:       s.cfg.Portfolio.Profile.Name,
		Active:     t.Active(),
		TopHref:    component.TopHref(),
		ResumePath: s.cfg.Portfolio.Profile.ResumePath,
	}
	for _, sec := range t.Links() {
		nv.Links = append(nv.Links, linkView{
			Name:   sec.Name,
			Href:   component.Href(sec.ID),
			Active: t.IsActive(sec.ID),
		})
	}
	return nv
}

func orbViews(orbs []component.Orb, p component.Pointer) []orbView {
	views := make([]orbView, len(orbs))
	for i, o := range orbs {
		x, y := o.Parallax(p)
		views[i] = orbView{
			ID: o.ID,
			X:  o.X,
			Y:  o.Y,
			Style: template.CSS(fmt.Sprintf(
				"left: %.2f%%; top: %.2f%%; width: %.0fpx; height: %.0fpx; opacity: %.2f; background: %s;",
				x, y, o.Size, o.Size, o.Opacity, o.Color)),
		}
	}
	return views
}

func dotViews(dots []component.Dot) []dotView {
	views := make([]dotView, len(dots))
	for i, d := range dots {
		views[i] = dotView{
			ID: d.ID,
			Style: template.CSS(fmt.Sprintf(
				"left: %.2f%%; top: %.2f%%; opacity: %.2f; transform: scale(%.2f); background: %s;",
				d.X, d.Y, d.Opacity, d.Scale, d.Color())),
		}
	}
	return views
}
