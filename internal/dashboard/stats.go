// internal/dashboard/stats.go
package dashboard

import (
	"sort"
	"time"

	"github-activity-dashboard/internal/model"
)

const (
	maxRecentProjects = 3

	noDescription   = "No description"
	unknownLanguage = "Unknown"
)

// computeStats sums stars and forks over repos; followers and repo count come
// from the user profile only.
func computeStats(repos []model.Repository, user *model.User) model.Stats {
	var stats model.Stats
	for _, r := range repos {
		stats.Stars += r.StarsCount
		stats.Forks += r.ForksCount
	}
	stats.Followers = user.Followers
	stats.Repos = user.PublicRepos
	return stats
}

// recentProjects returns up to 3 repositories with a push timestamp, most
// recently pushed first.
func recentProjects(repos []model.Repository) []model.Project {
	pushed := make([]model.Repository, 0, len(repos))
	for _, r := range repos {
		if r.PushedAt != nil {
			pushed = append(pushed, r)
		}
	}
	sortByPushedDesc(pushed)
	if len(pushed) > maxRecentProjects {
		pushed = pushed[:maxRecentProjects]
	}

	projects := make([]model.Project, 0, len(pushed))
	for _, r := range pushed {
		projects = append(projects, toProject(r))
	}
	return projects
}

func toProject(r model.Repository) model.Project {
	p := model.Project{
		ID:          r.ID,
		Name:        r.Name,
		Description: noDescription,
		Language:    unknownLanguage,
		Stars:       r.StarsCount,
		Forks:       r.ForksCount,
		URL:         r.URL,
	}
	if r.Description != nil && *r.Description != "" {
		p.Description = *r.Description
	}
	if r.Language != nil && *r.Language != "" {
		p.Language = *r.Language
	}
	return p
}

// sortByPushedDesc orders repositories newest push first; a missing
// timestamp counts as the epoch.
func sortByPushedDesc(repos []model.Repository) {
	sort.SliceStable(repos, func(i, j int) bool {
		return pushedTime(repos[i]).After(pushedTime(repos[j]))
	})
}

func pushedTime(r model.Repository) time.Time {
	if r.PushedAt == nil {
		return time.Unix(0, 0)
	}
	return *r.PushedAt
}
