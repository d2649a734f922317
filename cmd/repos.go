package cmd

import (
	"context"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/rowanarora/personal-website/internal/config"
	"github.com/rowanarora/personal-website/internal/github"
)

const reposTimeout = 30 * time.Second

//nolint:gochecknoglobals // Cobra boilerplate
var reposAll bool

//nolint:gochecknoglobals // Cobra boilerplate
var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "Print the repositories the site would show",
	Long: `Fetch the owner's public repositories from GitHub and print them the way
the "Latest from GitHub" section filters them.

Unlike the site, a failed fetch is reported as an error instead of a
placeholder entry.`,
	Args: cobra.NoArgs,
	RunE: runRepos,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	reposCmd.Flags().BoolVar(&reposAll, "all", false, "skip the exclude list and the limit")
	reposCmd.Flags().String("github-owner", "", "GitHub user whose repositories are listed")
	_ = v.BindPFlag("github-owner", reposCmd.Flags().Lookup("github-owner"))
	rootCmd.AddCommand(reposCmd)
}

func runRepos(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), reposTimeout)
	defer cancel()

	client := github.NewClient(cfg.GitHubAPI, cfg.GitHubOwner, nil)
	repos, err := client.ListRepos(ctx)
	if err != nil {
		return errors.Wrapf(err, "listing repositories of %s", client.Owner())
	}

	filter := cfg.Filter()
	if reposAll {
		filter = github.Filter{}
	}
	summaries := github.Summarize(repos, filter)
	if len(summaries) == 0 {
		cmd.Printf("No public repositories for %s\n", client.Owner())
		return nil
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header([]string{"#", "Name", "Language", "Stars", "Description", "URL"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	starred := color.New(color.FgYellow, color.Bold).SprintFunc()
	data := make([][]string, 0, len(summaries))
	for i, s := range summaries {
		stars := strconv.Itoa(s.Stars)
		if s.Starred {
			stars = starred("★ " + stars)
		}
		data = append(data, []string{strconv.Itoa(i + 1), s.Name, s.Language, stars, s.Description, s.URL})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
