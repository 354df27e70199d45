// internal/dashboard/loader_test.go
package dashboard

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	custom_errors "github-activity-dashboard/internal/errors"
	"github-activity-dashboard/internal/model"
)

// MockAPI is a mock of the API interface.
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) GetUser(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(*model.User), args.Error(1)
}
func (m *MockAPI) GetRepositories(ctx context.Context, username string) ([]model.Repository, error) {
	args := m.Called(ctx, username)
	return args.Get(0).([]model.Repository), args.Error(1)
}
func (m *MockAPI) GetPublicEvents(ctx context.Context, username string) ([]model.Event, error) {
	args := m.Called(ctx, username)
	return args.Get(0).([]model.Event), args.Error(1)
}
func (m *MockAPI) GetRepositoryCommits(ctx context.Context, fullName string) ([]model.RepositoryCommit, error) {
	args := m.Called(ctx, fullName)
	return args.Get(0).([]model.RepositoryCommit), args.Error(1)
}

const testUsername = "mehedi-hasan1102"

func ts(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func strPtr(s string) *string { return &s }

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func testUser() *model.User {
	return &model.User{Login: testUsername, Name: "Mehedi Hasan", Bio: "Developer", Followers: 10, PublicRepos: 5}
}

func testRepos() []model.Repository {
	return []model.Repository{
		{
			ID: 1, Name: "portfolio", FullName: "mehedi/portfolio",
			Description: strPtr("Portfolio project"), Language: strPtr("TypeScript"),
			StarsCount: 7, ForksCount: 2, URL: "https://github.com/mehedi/portfolio",
			PushedAt: ts("2026-01-01T00:00:00Z"),
		},
		{
			ID: 2, Name: "api", FullName: "mehedi/api",
			StarsCount: 3, ForksCount: 1, URL: "https://github.com/mehedi/api",
			PushedAt: ts("2026-01-02T00:00:00Z"),
		},
	}
}

func pushEvent(repo, createdAt string, commits ...model.EventCommit) model.Event {
	return model.Event{Type: "PushEvent", RepoName: repo, CreatedAt: ts(createdAt), Commits: commits}
}

func newTestLoader(api API) *Loader {
	l := NewLoader(api, testLogger(), DefaultProfile())
	l.now = func() time.Time { return time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC) }
	return l
}

func rateLimitErr() error {
	return &custom_errors.APIError{Message: "GitHub API rate limit exceeded", Status: 403, RateLimited: true}
}

func TestLoader_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("returns expected shaped data for the success path", func(t *testing.T) {
		api := new(MockAPI)
		api.On("GetUser", mock.Anything, testUsername).Return(testUser(), nil).Once()
		api.On("GetRepositories", mock.Anything, testUsername).Return(testRepos(), nil).Once()
		api.On("GetPublicEvents", mock.Anything, testUsername).Return([]model.Event{
			pushEvent("mehedi/portfolio", "2026-01-03T00:00:00Z",
				model.EventCommit{SHA: "abc123456789", Message: "feat: improve navbar"}),
		}, nil).Once()
		api.On("GetRepositoryCommits", mock.Anything, mock.Anything).Return([]model.RepositoryCommit{}, nil)

		data, err := newTestLoader(api).Load(ctx, testUsername)

		require.NoError(t, err)
		assert.Equal(t, "Mehedi Hasan", data.UserProfile.Name)
		assert.Equal(t, "Developer", data.UserProfile.Bio)
		assert.Equal(t, DefaultProfile().Title, data.UserProfile.Title)
		assert.Equal(t, model.Stats{Stars: 10, Forks: 3, Followers: 10, Repos: 5}, data.Stats)
		require.Len(t, data.Projects, 2)
		assert.Equal(t, "api", data.Projects[0].Name)
		assert.Equal(t, "No description", data.Projects[0].Description)
		assert.Equal(t, "Unknown", data.Projects[0].Language)
		require.Len(t, data.LatestCommits, 1)
		assert.Equal(t, "abc123456789", data.LatestCommits[0].SHA)
		assert.Equal(t, "https://github.com/mehedi/portfolio/commit/abc123456789", data.LatestCommits[0].CommitURL)
		assert.Nil(t, data.LatestCommitError)
	})

	t.Run("sets rate-limit message when every commit source is rate limited", func(t *testing.T) {
		api := new(MockAPI)
		api.On("GetUser", mock.Anything, testUsername).Return(testUser(), nil)
		api.On("GetRepositories", mock.Anything, testUsername).Return(testRepos(), nil)
		api.On("GetPublicEvents", mock.Anything, testUsername).Return([]model.Event(nil), rateLimitErr())
		api.On("GetRepositoryCommits", mock.Anything, mock.Anything).Return([]model.RepositoryCommit(nil), rateLimitErr())

		data, err := newTestLoader(api).Load(ctx, testUsername)

		require.NoError(t, err)
		assert.Empty(t, data.LatestCommits)
		require.NotNil(t, data.LatestCommitError)
		assert.Regexp(t, `(?i)rate limit`, *data.LatestCommitError)
		assert.Equal(t, "GitHub API rate limit hit while loading latest commits.", *data.LatestCommitError)
		assert.Len(t, data.Projects, 2, "profile, stats and projects still load")
	})

	t.Run("bubbles hard failures from the user endpoint", func(t *testing.T) {
		api := new(MockAPI)
		api.On("GetUser", mock.Anything, testUsername).
			Return((*model.User)(nil), &custom_errors.APIError{Message: "network request to GitHub API failed"})
		api.On("GetRepositories", mock.Anything, testUsername).Return(testRepos(), nil).Maybe()

		data, err := newTestLoader(api).Load(ctx, testUsername)

		require.Error(t, err)
		assert.Nil(t, data)
		var apiErr *custom_errors.APIError
		assert.ErrorAs(t, err, &apiErr)
		api.AssertNotCalled(t, "GetPublicEvents", mock.Anything, mock.Anything)
	})

	t.Run("bubbles hard failures from the repositories endpoint", func(t *testing.T) {
		api := new(MockAPI)
		api.On("GetUser", mock.Anything, testUsername).Return(testUser(), nil).Maybe()
		api.On("GetRepositories", mock.Anything, testUsername).
			Return([]model.Repository(nil), &custom_errors.APIError{Message: "GitHub API request failed with status 404", Status: 404})

		data, err := newTestLoader(api).Load(ctx, testUsername)

		require.Error(t, err)
		assert.Nil(t, data)
		assert.Equal(t, 404, custom_errors.StatusOf(err))
	})

	t.Run("falls back to username and default bio", func(t *testing.T) {
		api := new(MockAPI)
		api.On("GetUser", mock.Anything, testUsername).Return(&model.User{Login: testUsername}, nil)
		api.On("GetRepositories", mock.Anything, testUsername).Return([]model.Repository{}, nil)
		api.On("GetPublicEvents", mock.Anything, testUsername).Return([]model.Event{}, nil)

		data, err := newTestLoader(api).Load(ctx, testUsername)

		require.NoError(t, err)
		assert.Equal(t, testUsername, data.UserProfile.Name)
		assert.Equal(t, DefaultProfile().Bio, data.UserProfile.Bio)
		assert.Equal(t, model.Stats{}, data.Stats)
		assert.Empty(t, data.Projects)
		assert.Empty(t, data.LatestCommits)
		require.NotNil(t, data.LatestCommitError)
		assert.Equal(t, "No recent public repository activity found.", *data.LatestCommitError)
	})
}

func TestComputeStats(t *testing.T) {
	repos := []model.Repository{
		{StarsCount: 7, ForksCount: 2},
		{StarsCount: 0, ForksCount: 0},
		{StarsCount: 3, ForksCount: 1},
	}
	user := &model.User{Followers: 4, PublicRepos: 99}

	stats := computeStats(repos, user)

	assert.Equal(t, 10, stats.Stars)
	assert.Equal(t, 3, stats.Forks)
	assert.Equal(t, 4, stats.Followers)
	assert.Equal(t, 99, stats.Repos, "repo count comes from the profile, not len(repos)")
}

func TestRecentProjects(t *testing.T) {
	repos := []model.Repository{
		{ID: 1, Name: "old", PushedAt: ts("2025-01-01T00:00:00Z")},
		{ID: 2, Name: "never", PushedAt: nil},
		{ID: 3, Name: "newest", PushedAt: ts("2026-03-01T00:00:00Z"), Description: strPtr(""), Language: strPtr("Go")},
		{ID: 4, Name: "middle", PushedAt: ts("2025-06-01T00:00:00Z")},
		{ID: 5, Name: "older", PushedAt: ts("2024-01-01T00:00:00Z")},
	}

	projects := recentProjects(repos)

	require.Len(t, projects, 3)
	assert.Equal(t, []string{"newest", "middle", "old"}, []string{projects[0].Name, projects[1].Name, projects[2].Name})
	assert.Equal(t, "No description", projects[0].Description)
	assert.Equal(t, "Go", projects[0].Language)
	for _, p := range projects {
		assert.NotEqual(t, "never", p.Name)
	}
}
