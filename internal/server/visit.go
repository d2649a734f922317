package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/rowanarora/personal-website/internal/component"
	"github.com/rowanarora/personal-website/internal/content"
	"github.com/rowanarora/personal-website/internal/session"
)

// scrollLockEvent is the HX-Trigger event the browser applies to <body>.
const scrollLockEvent = "scroll-lock"

// visit is one visitor's interactive state rebuilt from the store. At most
// one overlay is open: opening one closes the other first.
type visit struct {
	doc *component.Document

	experience *component.Selection[content.Experience]
	projects   *component.Selection[content.Project]

	experienceOverlay *component.Overlay
	projectOverlay    *component.Overlay
}

func (s *Server) restore(st session.State) *visit {
	v := &visit{
		doc:        component.NewDocument(st.ScrollLocked),
		experience: component.NewSelection(s.cfg.Portfolio.Experience),
		projects:   component.NewSelection(s.cfg.Portfolio.Projects),
	}
	v.experience.Restore(st.Experience)
	v.projects.Restore(st.Project)

	_, expOpen := v.experience.Selected()
	_, projOpen := v.projects.Selected()
	v.experienceOverlay = component.NewOverlay(v.doc, expOpen)
	v.projectOverlay = component.NewOverlay(v.doc, projOpen)
	return v
}

func (v *visit) state() session.State {
	return session.State{
		Experience:   v.experience.Index(),
		Project:      v.projects.Index(),
		ScrollLocked: v.doc.ScrollLocked(),
	}
}

func (v *visit) openExperience(i int) error {
	if err := v.experience.Select(i); err != nil {
		return err
	}
	v.closeProject()
	v.experienceOverlay.SetVisible(true)
	return nil
}

func (v *visit) closeExperience() {
	v.experience.Clear()
	v.experienceOverlay.SetVisible(false)
}

func (v *visit) openProject(i int) error {
	if err := v.projects.Select(i); err != nil {
		return err
	}
	v.closeExperience()
	v.projectOverlay.SetVisible(true)
	return nil
}

func (v *visit) closeProject() {
	v.projects.Clear()
	v.projectOverlay.SetVisible(false)
}

// teardown is what leaving the page does: every overlay closes and the
// document scroll is released.
func (v *visit) teardown() {
	v.experienceOverlay.Close()
	v.projectOverlay.Close()
	v.experience.Clear()
	v.projects.Clear()
}

// update loads the visitor's state, applies fn and saves the result. When
// fn fails nothing is saved.
func (s *Server) update(c *gin.Context, fn func(*visit) error) (*visit, error) {
	ctx := c.Request.Context()
	id := visitorID(c)

	st, err := s.cfg.Visits.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	v := s.restore(st)
	if err := fn(v); err != nil {
		return v, err
	}
	if err := s.cfg.Visits.Save(ctx, id, v.state()); err != nil {
		return v, err
	}
	s.log.Debug("visit updated", "visitor", id,
		"experience_open", v.experienceOverlay.Visible(),
		"project_open", v.projectOverlay.Visible(),
		"scroll_locked", v.doc.ScrollLocked())
	return v, nil
}

func (s *Server) openExperience(c *gin.Context) {
	i, ok := index(c)
	if !ok {
		return
	}
	v, err := s.update(c, func(v *visit) error { return v.openExperience(i) })
	if !s.check(c, err) {
		return
	}
	item, _ := v.experience.Selected()
	setScrollLock(c, v.doc.ScrollLocked())
	c.HTML(http.StatusOK, "experience-modal.html", gin.H{"Item": item, "Index": i})
}

func (s *Server) closeExperience(c *gin.Context) {
	v, err := s.update(c, func(v *visit) error { v.closeExperience(); return nil })
	if !s.check(c, err) {
		return
	}
	setScrollLock(c, v.doc.ScrollLocked())
	c.String(http.StatusOK, "")
}

func (s *Server) openProject(c *gin.Context) {
	i, ok := index(c)
	if !ok {
		return
	}
	v, err := s.update(c, func(v *visit) error { return v.openProject(i) })
	if !s.check(c, err) {
		return
	}
	item, _ := v.projects.Selected()
	setScrollLock(c, v.doc.ScrollLocked())
	c.HTML(http.StatusOK, "project-modal.html", gin.H{"Item": item, "Index": i})
}

func (s *Server) closeProject(c *gin.Context) {
	v, err := s.update(c, func(v *visit) error { v.closeProject(); return nil })
	if !s.check(c, err) {
		return
	}
	setScrollLock(c, v.doc.ScrollLocked())
	c.String(http.StatusOK, "")
}

func index(c *gin.Context) (int, bool) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.String(http.StatusNotFound, "not found")
		return 0, false
	}
	return i, true
}

// check writes the error response for err, if any, and reports whether the
// handler may continue.
func (s *Server) check(c *gin.Context, err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, component.ErrOutOfRange) {
		c.String(http.StatusNotFound, "not found")
		return false
	}
	s.log.Error("error updating visit", "visitor", visitorID(c), "error", err)
	c.String(http.StatusInternalServerError, "something went wrong")
	return false
}

func setScrollLock(c *gin.Context, locked bool) {
	payload, _ := json.Marshal(map[string]any{
		scrollLockEvent: map[string]bool{"locked": locked},
	})
	c.Header("HX-Trigger", string(payload))
}
