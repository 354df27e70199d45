// cmd/cli/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github-activity-dashboard/internal/config"
	"github-activity-dashboard/internal/dashboard"
	"github-activity-dashboard/internal/github"
	"github-activity-dashboard/internal/model"
)

var (
	outputJSON bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "GitHub activity dashboard",
	Long: `A CLI tool for viewing the public GitHub activity of an account.

It shows the profile, aggregate stats, the most recently pushed projects
and the latest commits, using the same loader as the HTTP service.`,
	SilenceUsage: true,
}

var showCmd = &cobra.Command{
	Use:   "show [username]",
	Short: "Show the dashboard for a user",
	Long:  `Display the dashboard for a GitHub user. Defaults to GITHUB_USERNAME.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log requests to stderr")

	rootCmd.AddCommand(showCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	username := cfg.GithubUsername
	if len(args) == 1 {
		username = args[0]
	}
	if username == "" {
		return fmt.Errorf("no username given and GITHUB_USERNAME is not set")
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	client, err := github.NewClient(cfg.GithubAPIURL, cfg.GithubToken, logger, github.WithTimeout(cfg.HTTPClientTimeout))
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}
	loader := dashboard.NewLoader(client, logger, cfg.Profile(dashboard.DefaultProfile()))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	data, err := loader.Load(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to load dashboard: %w", err)
	}

	out := cmd.OutOrStdout()
	if outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}
	renderDashboard(out, data)
	return nil
}

func renderDashboard(w io.Writer, data *model.DashboardData) {
	fmt.Fprintf(w, "\n%s\n%s\n%s\n\n", data.UserProfile.Name, data.UserProfile.Title, data.UserProfile.Bio)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Stars", strconv.Itoa(data.Stats.Stars)})
	table.Append([]string{"Forks", strconv.Itoa(data.Stats.Forks)})
	table.Append([]string{"Followers", strconv.Itoa(data.Stats.Followers)})
	table.Append([]string{"Public Repositories", strconv.Itoa(data.Stats.Repos)})
	table.Render()

	fmt.Fprintf(w, "\nRecent Projects\n")
	table = tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Language", "Stars", "Forks", "Description"})
	for _, p := range data.Projects {
		table.Append([]string{p.Name, p.Language, strconv.Itoa(p.Stars), strconv.Itoa(p.Forks), p.Description})
	}
	table.Render()

	fmt.Fprintf(w, "\nLatest Commits\n")
	if len(data.LatestCommits) > 0 {
		table = tablewriter.NewWriter(w)
		table.SetHeader([]string{"Repository", "SHA", "Message", "Committed"})
		for _, c := range data.LatestCommits {
			table.Append([]string{c.RepoName, shortSHA(c.SHA), c.Message, c.CommittedAt.Format("2006-01-02 15:04")})
		}
		table.Render()
	}
	if data.LatestCommitError != nil {
		fmt.Fprintf(w, "%s\n", *data.LatestCommitError)
	}
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
