// internal/dashboard/commits.go
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	custom_errors "github-activity-dashboard/internal/errors"
	"github-activity-dashboard/internal/model"
)

const (
	maxLatestCommits = 3
	maxFallbackRepos = 5

	scopeEvents        = "events"
	scopeLatestCommits = "latest commits"

	defaultCommitMessage = "New commit"
	noActivityMessage    = "No recent public repository activity found."
)

// commitFeed accumulates unique commits up to maxLatestCommits.
type commitFeed struct {
	commits []model.LatestCommit
	seen    map[string]struct{}
}

func newCommitFeed() *commitFeed {
	return &commitFeed{
		commits: make([]model.LatestCommit, 0, maxLatestCommits),
		seen:    make(map[string]struct{}),
	}
}

func (f *commitFeed) full() bool {
	return len(f.commits) >= maxLatestCommits
}

func (f *commitFeed) has(repoName, sha string) bool {
	_, ok := f.seen[repoName+":"+sha]
	return ok
}

// add appends c unless its (repo, sha) pair was already seen.
func (f *commitFeed) add(c model.LatestCommit) bool {
	if f.has(c.RepoName, c.SHA) {
		return false
	}
	f.seen[c.RepoName+":"+c.SHA] = struct{}{}
	f.commits = append(f.commits, c)
	return true
}

// resolveLatestCommits builds the commit feed from push events first and
// falls back to per-repository commit history while fewer than 3 commits are
// known. Failures are reported as a message, never as an error; the last
// failure wins and any found commit clears it.
func (l *Loader) resolveLatestCommits(ctx context.Context, logger *slog.Logger, username string, repos []model.Repository) ([]model.LatestCommit, *string) {
	feed := newCommitFeed()
	var failure *string

	events, err := l.api.GetPublicEvents(ctx, username)
	if err != nil {
		msg := formatGitHubError(err, scopeEvents)
		failure = &msg
		logger.Warn("Failed to load public events", "error", err)
	} else {
		for _, c := range commitsFromEvents(events) {
			feed.add(c)
			if feed.full() {
				break
			}
		}
	}

	if !feed.full() {
		for _, repo := range recentlyPushedRepos(repos) {
			if feed.full() {
				break
			}

			commits, err := l.api.GetRepositoryCommits(ctx, repo.FullName)
			if err != nil {
				msg := formatGitHubError(err, scopeLatestCommits)
				failure = &msg
				logger.Warn("Failed to load repository commits", "repo", repo.FullName, "error", err)
				continue
			}

			for _, rc := range commits {
				if feed.add(l.fromRepositoryCommit(repo, rc)) && feed.full() {
					break
				}
			}
		}
	}

	latest := feed.commits
	sort.SliceStable(latest, func(i, j int) bool {
		return latest[i].CommittedAt.After(latest[j].CommittedAt)
	})
	if len(latest) > maxLatestCommits {
		latest = latest[:maxLatestCommits]
	}

	if len(latest) > 0 {
		return latest, nil
	}
	if failure == nil {
		msg := noActivityMessage
		failure = &msg
	}
	return latest, failure
}

// commitsFromEvents flattens the inline commits of usable push events.
func commitsFromEvents(events []model.Event) []model.LatestCommit {
	var out []model.LatestCommit
	for _, e := range events {
		if e.Type != model.PushEventType || len(e.Commits) == 0 || e.RepoName == "" || e.CreatedAt == nil {
			continue
		}
		for _, c := range e.Commits {
			out = append(out, model.LatestCommit{
				SHA:         c.SHA,
				Message:     firstLine(c.Message),
				RepoName:    e.RepoName,
				CommittedAt: *e.CreatedAt,
				CommitURL:   commitURL(e.RepoName, c.SHA),
			})
		}
	}
	return out
}

// recentlyPushedRepos returns up to 5 repositories having both a full name
// and a push timestamp, newest push first.
func recentlyPushedRepos(repos []model.Repository) []model.Repository {
	out := make([]model.Repository, 0, len(repos))
	for _, r := range repos {
		if r.FullName != "" && r.PushedAt != nil {
			out = append(out, r)
		}
	}
	sortByPushedDesc(out)
	if len(out) > maxFallbackRepos {
		out = out[:maxFallbackRepos]
	}
	return out
}

func (l *Loader) fromRepositoryCommit(repo model.Repository, rc model.RepositoryCommit) model.LatestCommit {
	var committedAt time.Time
	switch {
	case rc.AuthorDate != nil:
		committedAt = *rc.AuthorDate
	case rc.CommitterDate != nil:
		committedAt = *rc.CommitterDate
	case repo.PushedAt != nil:
		committedAt = *repo.PushedAt
	default:
		committedAt = l.now()
	}

	url := rc.URL
	if url == "" {
		url = commitURL(repo.FullName, rc.SHA)
	}

	return model.LatestCommit{
		SHA:         rc.SHA,
		Message:     firstLine(rc.Message),
		RepoName:    repo.FullName,
		CommittedAt: committedAt,
		CommitURL:   url,
	}
}

func firstLine(message string) string {
	line, _, _ := strings.Cut(message, "\n")
	if line == "" {
		return defaultCommitMessage
	}
	return line
}

func commitURL(repoName, sha string) string {
	return fmt.Sprintf("https://github.com/%s/commit/%s", repoName, sha)
}

// formatGitHubError renders a failure of the given scope for display.
func formatGitHubError(err error, scope string) string {
	var apiErr *custom_errors.APIError
	if !errors.As(err, &apiErr) {
		return fmt.Sprintf("Failed to load %s from GitHub API.", scope)
	}
	if apiErr.RateLimited {
		return fmt.Sprintf("GitHub API rate limit hit while loading %s.", scope)
	}
	status := "unknown"
	if apiErr.Status != 0 {
		status = strconv.Itoa(apiErr.Status)
	}
	return fmt.Sprintf("GitHub API error (%s) while loading %s.", status, scope)
}
