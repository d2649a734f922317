package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/pkg/errors"
)

const (
	// DefaultAPI is the public GitHub REST endpoint.
	DefaultAPI = "https://api.github.com"

	// PerPage is the page size requested from the listing endpoint. Only the
	// first page is ever read.
	PerPage = 100

	userAgent = "personal-website/1.0"
)

// Repo is the subset of the GitHub repository object the site reads.
type Repo struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Language    *string `json:"language"`
	Stars       int     `json:"stargazers_count"`
	HTMLURL     string  `json:"html_url"`
	Private     bool    `json:"private"`
}

// Client lists the public repositories of one owner. Requests are
// unauthenticated and never retried. The last successful list is kept with
// its ETag and revalidated with If-None-Match; GitHub does not count a 304
// against the rate limit, so every page view can still ask once.
type Client struct {
	api   string
	owner string
	http  *http.Client

	mu    sync.Mutex
	etag  string
	cache []Repo
}

// NewClient returns a client for owner against api. An empty api means
// DefaultAPI. A nil httpClient means http.DefaultClient, which has no timeout.
func NewClient(api, owner string, httpClient *http.Client) *Client {
	if api == "" {
		api = DefaultAPI
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{api: api, owner: owner, http: httpClient}
}

// Owner returns the account whose repositories are listed.
func (c *Client) Owner() string {
	return c.owner
}

// ListRepos fetches the owner's repositories sorted by last update.
func (c *Client) ListRepos(ctx context.Context) (repos []Repo, err error) {
	endpoint, err := c.reposURL()
	if err != nil {
		return repos, err
	}

	var req *http.Request
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return repos, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", userAgent)

	etag, cached := c.cached()
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	var resp *http.Response
	resp, err = c.http.Do(req)
	if err != nil {
		err = errors.Wrap(err, "HTTP request failed")
		return repos, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		if etag == "" {
			err = errors.New("not modified without a cached list")
			return repos, err
		}
		return cached, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err = errors.Errorf("HTTP request failed with status: %d", resp.StatusCode)
		return repos, err
	}

	err = json.NewDecoder(resp.Body).Decode(&repos)
	if err != nil {
		err = errors.Wrap(err, "failed to decode repository list")
		return nil, err
	}

	c.store(resp.Header.Get("ETag"), repos)
	return repos, err
}

// cached returns the stored ETag and a copy of the list it validates.
func (c *Client) cached() (string, []Repo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.etag, append([]Repo(nil), c.cache...)
}

func (c *Client) store(etag string, repos []Repo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if etag == "" {
		c.etag, c.cache = "", nil
		return
	}
	c.etag, c.cache = etag, append([]Repo(nil), repos...)
}

func (c *Client) reposURL() (string, error) {
	base, err := url.Parse(c.api)
	if err != nil {
		return "", errors.Wrapf(err, "invalid GitHub API URL: %s", c.api)
	}
	base = base.JoinPath("users", c.owner, "repos")

	q := url.Values{}
	q.Set("sort", "updated")
	q.Set("per_page", strconv.Itoa(PerPage))
	base.RawQuery = q.Encode()

	return base.String(), nil
}
