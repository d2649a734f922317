package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowanarora/personal-website/internal/content"
	"github.com/rowanarora/personal-website/internal/github"
	"github.com/rowanarora/personal-website/internal/session"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakeLister struct {
	repos []github.Repo
	err   error
	ctx   context.Context
}

func (f *fakeLister) ListRepos(ctx context.Context) ([]github.Repo, error) {
	f.ctx = ctx
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.repos, f.err
}

type fixture struct {
	srv    *Server
	visits *session.Store
	repos  *fakeLister
	site   content.Portfolio
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	site, err := content.Default()
	require.NoError(t, err)

	visits, err := session.Open(session.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = visits.Close() })

	repos := &fakeLister{}
	srv, err := New(Config{
		Portfolio:       site,
		Repos:           repos,
		Filter:          github.DefaultFilter(),
		Visits:          visits,
		PublicDir:       t.TempDir(),
		CycleInterval:   40 * time.Millisecond,
		FadeWindow:      10 * time.Millisecond,
		ShimmerInterval: 20 * time.Millisecond,
	})
	require.NoError(t, err)

	return &fixture{srv: srv, visits: visits, repos: repos, site: site}
}

// do sends one request as visitor. An empty visitor gets a fresh cookie.
func (f *fixture) do(method, path, visitor string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if visitor != "" {
		req.AddCookie(&http.Cookie{Name: visitorCookie, Value: visitor})
	}
	rec := httptest.NewRecorder()
	f.srv.Router().ServeHTTP(rec, req)
	return rec
}

// visitor loads the page once and returns the cookie it was given.
func (f *fixture) visitor(t *testing.T) string {
	t.Helper()
	rec := f.do(http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	for _, c := range rec.Result().Cookies() {
		if c.Name == visitorCookie {
			return c.Value
		}
	}
	t.Fatal("no visitor cookie set")
	return ""
}

func (f *fixture) state(t *testing.T, visitor string) session.State {
	t.Helper()
	st, err := f.visits.Load(context.Background(), visitor)
	require.NoError(t, err)
	return st
}

func scrollLocked(t *testing.T, rec *httptest.ResponseRecorder) bool {
	t.Helper()
	var trigger map[string]struct {
		Locked bool `json:"locked"`
	}
	require.NoError(t, json.Unmarshal([]byte(rec.Header().Get("HX-Trigger")), &trigger))
	ev, ok := trigger[scrollLockEvent]
	require.True(t, ok, "missing %s event", scrollLockEvent)
	return ev.Locked
}

func TestNewRequiresDependencies(t *testing.T) {
	_, err := New(Config{Repos: &fakeLister{}})
	assert.Error(t, err)

	visits, err := session.Open("")
	require.NoError(t, err)
	defer visits.Close()

	_, err = New(Config{Visits: visits})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Empty(t, rec.Result().Cookies(), "health checks get no visitor cookie")
}

func TestStaticAssets(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/static/app.js", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "scroll-lock")

	rec = f.do(http.MethodGet, "/static/site.css", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestVisitorCookie(t *testing.T) {
	f := newFixture(t)

	id := f.visitor(t)
	assert.NotEmpty(t, id)

	rec := f.do(http.MethodGet, "/", id)
	assert.Empty(t, rec.Result().Cookies(), "a valid cookie is kept")

	rec = f.do(http.MethodGet, "/", "not-a-uuid")
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.NotEqual(t, "not-a-uuid", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestPage(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, "<title>Rowan Arora")
	assert.Equal(t, 8, strings.Count(body, `class="orb"`))
	assert.Equal(t, 25, strings.Count(body, `class="dot"`))
	assert.Contains(t, body, `hx-get="/repos"`, "repositories start in the loading state")
	assert.Contains(t, body, `<span class="rotating-label" data-index="0">Python</span>`)
	assert.Contains(t, body, `data-active="hero"`)
	assert.Contains(t, body, `href="#top"`)
	assert.Contains(t, body, `href="#contact"`)
	assert.NotContains(t, body, `href="#hero"`, "hero has no nav link")
	assert.Contains(t, body, f.site.Footer.Credit)

	for i := range f.site.Experience {
		assert.Contains(t, body, `hx-get="/experience/`+strconv.Itoa(i)+`"`)
	}
}

func TestPageResetsVisit(t *testing.T) {
	f := newFixture(t)
	id := f.visitor(t)

	rec := f.do(http.MethodGet, "/experience/1", id)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, f.state(t, id).ScrollLocked)

	rec = f.do(http.MethodGet, "/", id)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, session.Closed, f.state(t, id))
}

func TestOpenExperience(t *testing.T) {
	f := newFixture(t)
	id := f.visitor(t)

	rec := f.do(http.MethodGet, "/experience/1", id)
	require.Equal(t, http.StatusOK, rec.Code)

	e := f.site.Experience[1]
	assert.Contains(t, rec.Body.String(), e.Title)
	assert.Contains(t, rec.Body.String(), `hx-delete="/experience/selection"`)
	assert.True(t, scrollLocked(t, rec))
	assert.Equal(t, session.State{Experience: 1, Project: -1, ScrollLocked: true}, f.state(t, id))
}

func TestCloseExperience(t *testing.T) {
	f := newFixture(t)
	id := f.visitor(t)

	f.do(http.MethodGet, "/experience/0", id)
	rec := f.do(http.MethodDelete, "/experience/selection", id)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.False(t, scrollLocked(t, rec))
	assert.Equal(t, session.Closed, f.state(t, id))
}

func TestCloseWithNothingOpen(t *testing.T) {
	f := newFixture(t)
	id := f.visitor(t)

	rec := f.do(http.MethodDelete, "/projects/selection", id)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, scrollLocked(t, rec))
	assert.Equal(t, session.Closed, f.state(t, id))
}

func TestOpenProject(t *testing.T) {
	f := newFixture(t)
	id := f.visitor(t)

	rec := f.do(http.MethodGet, "/projects/0", id)
	require.Equal(t, http.StatusOK, rec.Code)

	p := f.site.Projects[0]
	assert.Contains(t, rec.Body.String(), p.Title)
	assert.Contains(t, rec.Body.String(), "Technical Details")
	assert.True(t, scrollLocked(t, rec))

	rec = f.do(http.MethodDelete, "/projects/selection", id)
	assert.False(t, scrollLocked(t, rec))
	assert.Equal(t, session.Closed, f.state(t, id))
}

func TestOpeningOneOverlayClosesTheOther(t *testing.T) {
	f := newFixture(t)
	id := f.visitor(t)

	f.do(http.MethodGet, "/experience/2", id)
	rec := f.do(http.MethodGet, "/projects/1", id)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, scrollLocked(t, rec))
	assert.Equal(t, session.State{Experience: -1, Project: 1, ScrollLocked: true}, f.state(t, id))

	rec = f.do(http.MethodGet, "/experience/0", id)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, session.State{Experience: 0, Project: -1, ScrollLocked: true}, f.state(t, id))
}

func TestOpenOutOfRange(t *testing.T) {
	f := newFixture(t)
	id := f.visitor(t)

	f.do(http.MethodGet, "/experience/1", id)

	for _, path := range []string{"/experience/3", "/experience/-1", "/experience/abc", "/projects/2"} {
		t.Run(path, func(t *testing.T) {
			rec := f.do(http.MethodGet, path, id)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Empty(t, rec.Header().Get("HX-Trigger"))
		})
	}

	assert.Equal(t, session.State{Experience: 1, Project: -1, ScrollLocked: true}, f.state(t, id),
		"a bad index leaves the open overlay alone")
}

func TestVisitorsDoNotShareOverlays(t *testing.T) {
	f := newFixture(t)
	a := f.visitor(t)
	b := f.visitor(t)
	require.NotEqual(t, a, b)

	f.do(http.MethodGet, "/experience/0", a)
	assert.True(t, f.state(t, a).ScrollLocked)
	assert.Equal(t, session.Closed, f.state(t, b))
}

func TestNav(t *testing.T) {
	f := newFixture(t)
	offsets := "&o.hero=0&o.about=900&o.experience=1800&o.projects=3200&o.contact=4600"

	tests := []struct {
		name   string
		query  string
		active string
	}{
		{name: "top", query: "y=0&active=hero" + offsets, active: "hero"},
		{name: "lookahead", query: "y=1650&active=about" + offsets, active: "experience"},
		{name: "bottom", query: "y=5000&active=projects" + offsets, active: "contact"},
		{name: "no offsets keeps active", query: "y=3000&active=about", active: "about"},
		{name: "unknown active", query: "y=0&active=nowhere", active: "hero"},
		{name: "bad offset skipped", query: "y=1000&active=hero&o.about=abc&o.hero=0", active: "hero"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(http.MethodGet, "/nav?"+tt.query, "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), `data-active="`+tt.active+`"`)
			if tt.active != "hero" {
				assert.Contains(t, rec.Body.String(), `href="#`+tt.active+`" class="nav-link active"`)
			} else {
				assert.NotContains(t, rec.Body.String(), "nav-link active")
			}
		})
	}
}

func TestNavBadScroll(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/nav?y=down", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRepos(t *testing.T) {
	f := newFixture(t)
	desc := "A tiny tool"
	f.repos.repos = []github.Repo{
		{Name: "personal-website", HTMLURL: "https://github.com/o/personal-website"},
		{Name: "tool", Description: &desc, Stars: 3, HTMLURL: "https://github.com/o/tool"},
		{Name: "secret", Private: true},
	}

	rec := f.do(http.MethodGet, "/repos", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, `id="repos"`)
	assert.Contains(t, body, "A tiny tool")
	assert.Contains(t, body, "★ 3")
	assert.Contains(t, body, `href="https://github.com/o/tool"`)
	assert.NotContains(t, body, "secret")
	assert.NotContains(t, body, "https://github.com/o/personal-website")
	assert.NotContains(t, body, "hx-get", "the loaded list does not reload")
}

func TestReposFailure(t *testing.T) {
	f := newFixture(t)
	f.repos.err = assert.AnError

	rec := f.do(http.MethodGet, "/repos", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), github.Placeholder().Name)
	assert.Equal(t, 1, strings.Count(rec.Body.String(), "repo-card"))
}

func TestReposFollowsRequestContext(t *testing.T) {
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/repos", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	f.srv.Router().ServeHTTP(rec, req)

	require.NotNil(t, f.repos.ctx)
	assert.ErrorIs(t, f.repos.ctx.Err(), context.Canceled)
	assert.Contains(t, rec.Body.String(), github.Placeholder().Name)
}

func TestPublicFiles(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.srv.cfg.PublicDir+"/resume.pdf", []byte("%PDF"), 0600))

	rec := f.do(http.MethodGet, "/public/resume.pdf", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "%PDF", rec.Body.String())
}

func TestVisitUpdateLogsOverlays(t *testing.T) {
	f := newFixture(t)
	var buf bytes.Buffer
	f.srv.log = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	id := f.visitor(t)

	rec := f.do(http.MethodGet, "/projects/0", id)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, buf.String(), "experience_open=false project_open=true scroll_locked=true")

	buf.Reset()
	rec = f.do(http.MethodDelete, "/projects/selection", id)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, buf.String(), "experience_open=false project_open=false scroll_locked=false")
}
