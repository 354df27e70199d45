// internal/model/models.go
package model

import "time"

// User holds the profile fields read from GET /users/{username}.
type User struct {
	Login       string
	Name        string
	Bio         string
	Followers   int
	PublicRepos int
}

// Repository represents the metadata of a GitHub repository.
type Repository struct {
	ID          int64
	Name        string
	FullName    string
	Description *string
	Language    *string
	StarsCount  int
	ForksCount  int
	URL         string
	PushedAt    *time.Time
}

// EventCommit is the inline commit summary carried by a push event.
type EventCommit struct {
	SHA     string
	Message string
}

// PushEventType is the only event type whose commits feed the dashboard.
const PushEventType = "PushEvent"

// Event is a public activity event of a user. Commits is set for push events only.
type Event struct {
	Type      string
	RepoName  string
	CreatedAt *time.Time
	Commits   []EventCommit
}

// RepositoryCommit is one entry of GET /repos/{owner}/{repo}/commits.
type RepositoryCommit struct {
	SHA           string
	Message       string
	URL           string
	AuthorDate    *time.Time
	CommitterDate *time.Time
}

// UserProfile is the display identity rendered on the dashboard.
type UserProfile struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Bio   string `json:"bio"`
}

// Stats are aggregate counters across all repositories.
type Stats struct {
	Stars     int `json:"stars"`
	Forks     int `json:"forks"`
	Followers int `json:"followers"`
	Repos     int `json:"repos"`
}

// Project is a recently pushed repository projected for display.
type Project struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Stars       int    `json:"stars"`
	Forks       int    `json:"forks"`
	URL         string `json:"url,omitempty"`
}

// LatestCommit is one entry of the latest commits feed.
type LatestCommit struct {
	SHA         string    `json:"sha"`
	Message     string    `json:"message"`
	RepoName    string    `json:"repoName"`
	CommittedAt time.Time `json:"committedAt"`
	CommitURL   string    `json:"commitUrl"`
}

// DashboardData is the consolidated result of one dashboard load.
type DashboardData struct {
	UserProfile       UserProfile    `json:"userProfile"`
	Stats             Stats          `json:"stats"`
	Projects          []Project      `json:"projects"`
	LatestCommits     []LatestCommit `json:"latestCommits"`
	LatestCommitError *string        `json:"latestCommitError"`
}
