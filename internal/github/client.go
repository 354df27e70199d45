// internal/github/client.go
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/google/go-querystring/query"
	"golang.org/x/oauth2"

	custom_errors "github-activity-dashboard/internal/errors"
	"github-activity-dashboard/internal/model"
)

const (
	DefaultBaseURL = "https://api.github.com"

	reposPerPage   = 100
	eventsPerPage  = 30
	commitsPerPage = 3

	headerRateRemaining = "X-RateLimit-Remaining"
)

var errEmptyBody = errors.New("empty response body")

// Client is a wrapper around the go-github client covering the four read
// endpoints the dashboard needs. It keeps no state between calls: every call
// builds its own go-github client on top of the configured http.Client.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	baseURL    *url.URL
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient substitutes the HTTP client used to reach GitHub.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets an overall timeout on outbound requests. Zero means none.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// NewClient creates and configures a new Client instance.
// An empty token leaves requests unauthenticated; otherwise the token is
// attached through an oauth2 transport.
func NewClient(baseURL, token string, logger *slog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse GitHub base URL: %w", err)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	c := &Client{
		httpClient: &http.Client{},
		baseURL:    u,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}

	hc := *c.httpClient
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	var rt http.RoundTripper = &liveTransport{base: base}
	if token != "" {
		rt = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   rt,
		}
	}
	hc.Transport = rt
	c.httpClient = &hc

	return c, nil
}

// newGitHub builds a fresh go-github client so no rate-limit bookkeeping is
// shared between calls.
func (c *Client) newGitHub() *github.Client {
	gh := github.NewClient(c.httpClient)
	u := *c.baseURL
	gh.BaseURL = &u
	return gh
}

// GetUser fetches the public profile of username.
func (c *Client) GetUser(ctx context.Context, username string) (*model.User, error) {
	c.logger.Debug("Fetching user", "username", username)

	var user github.User
	if err := c.getJSON(ctx, fmt.Sprintf("users/%v", username), nil, &user); err != nil {
		return nil, err
	}
	return toInternalUser(&user), nil
}

// GetRepositories fetches the first page of up to 100 repositories of username.
func (c *Client) GetRepositories(ctx context.Context, username string) ([]model.Repository, error) {
	c.logger.Debug("Fetching repositories", "username", username)

	opts := &github.RepositoryListByUserOptions{
		ListOptions: github.ListOptions{PerPage: reposPerPage},
	}
	var repos []*github.Repository
	if err := c.getJSON(ctx, fmt.Sprintf("users/%v/repos", username), opts, &repos); err != nil {
		return nil, err
	}

	out := make([]model.Repository, 0, len(repos))
	for _, r := range repos {
		out = append(out, toInternalRepository(r))
	}
	return out, nil
}

// GetPublicEvents fetches up to 30 recent public events of username.
func (c *Client) GetPublicEvents(ctx context.Context, username string) ([]model.Event, error) {
	c.logger.Debug("Fetching public events", "username", username)

	opts := &github.ListOptions{PerPage: eventsPerPage}
	var events []*github.Event
	if err := c.getJSON(ctx, fmt.Sprintf("users/%v/events/public", username), opts, &events); err != nil {
		return nil, err
	}

	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		out = append(out, c.toInternalEvent(e))
	}
	return out, nil
}

// GetRepositoryCommits fetches the 3 most recent commits of the repository
// identified by fullName ("owner/name").
func (c *Client) GetRepositoryCommits(ctx context.Context, fullName string) ([]model.RepositoryCommit, error) {
	owner, name, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return nil, &custom_errors.ErrInvalidRepoFormat{Repo: fullName}
	}
	c.logger.Debug("Fetching repository commits", "owner", owner, "repo", name)

	opts := &github.CommitsListOptions{
		ListOptions: github.ListOptions{PerPage: commitsPerPage},
	}
	var commits []*github.RepositoryCommit
	if err := c.getJSON(ctx, fmt.Sprintf("repos/%v/%v/commits", owner, name), opts, &commits); err != nil {
		return nil, err
	}

	out := make([]model.RepositoryCommit, 0, len(commits))
	for _, rc := range commits {
		out = append(out, toInternalCommit(rc))
	}
	return out, nil
}

// getJSON issues a GET for path with opts encoded as the query string and
// decodes the body into v. go-github's decoder accepts an empty body, so the
// raw payload is decoded here instead.
func (c *Client) getJSON(ctx context.Context, path string, opts interface{}, v interface{}) error {
	if opts != nil {
		qs, err := query.Values(opts)
		if err != nil {
			return fmt.Errorf("encode query for %s: %w", path, err)
		}
		if len(qs) > 0 {
			path += "?" + qs.Encode()
		}
	}

	gh := c.newGitHub()
	req, err := gh.NewRequest(http.MethodGet, path, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", path, err)
	}

	var raw json.RawMessage
	resp, err := gh.Do(ctx, req, &raw)
	if err != nil {
		// A 202 is still a successful response; go-github hands its body back
		// on the AcceptedError.
		var accepted *github.AcceptedError
		if !errors.As(err, &accepted) {
			return classifyError(resp, err)
		}
		raw = accepted.Raw
	}

	if err := decodeBody(raw, v); err != nil {
		return classifyError(resp, err)
	}
	return nil
}

// decodeBody rejects empty and null payloads, which carry no resource.
func decodeBody(raw []byte, v interface{}) error {
	body := bytes.TrimSpace(raw)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return errEmptyBody
	}
	return json.Unmarshal(body, v)
}

// classifyError normalizes any go-github failure into an APIError.
func classifyError(resp *github.Response, err error) error {
	if resp == nil || resp.Response == nil {
		return &custom_errors.APIError{
			Message: "network request to GitHub API failed",
			Err:     err,
		}
	}

	status := resp.StatusCode
	if status >= 200 && status <= 299 {
		return &custom_errors.APIError{
			Message: "GitHub API returned invalid JSON",
			Status:  status,
			Err:     err,
		}
	}

	// go-github short-circuits with a synthetic 403 and no headers when it
	// already knows the quota is exhausted.
	var rateErr *github.RateLimitError
	rateLimited := status == http.StatusForbidden &&
		(resp.Header.Get(headerRateRemaining) == "0" || errors.As(err, &rateErr))
	if rateLimited {
		return &custom_errors.APIError{
			Message:     "GitHub API rate limit exceeded",
			Status:      status,
			RateLimited: true,
			Err:         err,
		}
	}

	return &custom_errors.APIError{
		Message: fmt.Sprintf("GitHub API request failed with status %d", status),
		Status:  status,
		Err:     err,
	}
}

func toInternalUser(u *github.User) *model.User {
	return &model.User{
		Login:       u.GetLogin(),
		Name:        u.GetName(),
		Bio:         u.GetBio(),
		Followers:   u.GetFollowers(),
		PublicRepos: u.GetPublicRepos(),
	}
}

// toInternalRepository translates a github.Repository object to our internal model.Repository.
func toInternalRepository(r *github.Repository) model.Repository {
	return model.Repository{
		ID:          r.GetID(),
		Name:        r.GetName(),
		FullName:    r.GetFullName(),
		Description: r.Description,
		Language:    r.Language,
		StarsCount:  r.GetStargazersCount(),
		ForksCount:  r.GetForksCount(),
		URL:         r.GetHTMLURL(),
		PushedAt:    timePtr(r.GetPushedAt()),
	}
}

// toInternalEvent keeps inline commits of push events only; a payload that
// fails to parse yields an event without commits.
func (c *Client) toInternalEvent(e *github.Event) model.Event {
	ev := model.Event{
		Type:      e.GetType(),
		RepoName:  e.GetRepo().GetName(),
		CreatedAt: timePtr(e.GetCreatedAt()),
	}
	if ev.Type != model.PushEventType {
		return ev
	}

	payload, err := e.ParsePayload()
	if err != nil {
		c.logger.Debug("Skipping unparsable push event payload", "repo", ev.RepoName, "error", err)
		return ev
	}
	push, ok := payload.(*github.PushEvent)
	if !ok {
		return ev
	}
	for _, hc := range push.Commits {
		ev.Commits = append(ev.Commits, model.EventCommit{
			SHA:     hc.GetSHA(),
			Message: hc.GetMessage(),
		})
	}
	return ev
}

// toInternalCommit translates a github.RepositoryCommit object to our internal model.RepositoryCommit.
func toInternalCommit(rc *github.RepositoryCommit) model.RepositoryCommit {
	return model.RepositoryCommit{
		SHA:           rc.GetSHA(),
		Message:       rc.GetCommit().GetMessage(),
		URL:           rc.GetHTMLURL(),
		AuthorDate:    timePtr(rc.GetCommit().GetAuthor().GetDate()),
		CommitterDate: timePtr(rc.GetCommit().GetCommitter().GetDate()),
	}
}

func timePtr(ts github.Timestamp) *time.Time {
	if ts.IsZero() {
		return nil
	}
	t := ts.Time
	return &t
}
