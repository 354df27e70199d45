// internal/dashboard/loader.go
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github-activity-dashboard/internal/model"
)

// API is the subset of the GitHub client the loader depends on.
type API interface {
	GetUser(ctx context.Context, username string) (*model.User, error)
	GetRepositories(ctx context.Context, username string) ([]model.Repository, error)
	GetPublicEvents(ctx context.Context, username string) ([]model.Event, error)
	GetRepositoryCommits(ctx context.Context, fullName string) ([]model.RepositoryCommit, error)
}

// DefaultProfile is the static identity shown when GitHub has no name or bio.
func DefaultProfile() model.UserProfile {
	return model.UserProfile{
		Name:  "John Doe",
		Title: "Frontend Developer",
		Bio:   "Crafting beautiful, performant web experiences. Passionate about design systems and user interfaces.",
	}
}

// Loader assembles the dashboard view for a GitHub account.
type Loader struct {
	api      API
	logger   *slog.Logger
	defaults model.UserProfile
	now      func() time.Time
}

// NewLoader creates a new Loader instance.
func NewLoader(api API, logger *slog.Logger, defaults model.UserProfile) *Loader {
	return &Loader{
		api:      api,
		logger:   logger,
		defaults: defaults,
		now:      time.Now,
	}
}

// Load fetches the user and repositories (both required), derives stats and
// recent projects, and resolves the latest commits feed on a best-effort
// basis. Only failures of the required calls are returned as errors.
func (l *Loader) Load(ctx context.Context, username string) (*model.DashboardData, error) {
	logger := l.logger.With("username", username)
	logger.Info("Loading dashboard")

	var (
		user  *model.User
		repos []model.Repository
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := l.api.GetUser(gctx, username)
		if err != nil {
			return fmt.Errorf("load user %q: %w", username, err)
		}
		user = u
		return nil
	})
	g.Go(func() error {
		r, err := l.api.GetRepositories(gctx, username)
		if err != nil {
			return fmt.Errorf("load repositories of %q: %w", username, err)
		}
		repos = r
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.Error("Failed to load required dashboard data", "error", err)
		return nil, err
	}

	commits, commitErr := l.resolveLatestCommits(ctx, logger, username, repos)
	if commitErr != nil {
		logger.Warn("Latest commits unavailable", "reason", *commitErr)
	}

	data := &model.DashboardData{
		UserProfile:       l.profile(user, username),
		Stats:             computeStats(repos, user),
		Projects:          recentProjects(repos),
		LatestCommits:     commits,
		LatestCommitError: commitErr,
	}
	logger.Info("Dashboard loaded", "repos", len(repos), "commits", len(commits))
	return data, nil
}

func (l *Loader) profile(user *model.User, username string) model.UserProfile {
	p := l.defaults
	p.Name = username
	if user.Name != "" {
		p.Name = user.Name
	}
	if user.Bio != "" {
		p.Bio = user.Bio
	}
	return p
}
