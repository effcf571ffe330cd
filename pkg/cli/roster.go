package cli

import (
	"context"

	"github.com/m-mizutani/bound/pkg/cli/config"
	"github.com/m-mizutani/bound/pkg/infra/roster"
	"github.com/m-mizutani/bound/pkg/usecase"
	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"
)

func cmdRoster() *cli.Command {
	return &cli.Command{
		Name:  "roster",
		Usage: "Manage the membership roster",
		Commands: []*cli.Command{
			cmdRosterFetch(),
		},
	}
}

func cmdRosterFetch() *cli.Command {
	var (
		githubCfg config.GitHub
		output    string
	)

	flags := append(githubCfg.Flags(), &cli.StringFlag{
		Name:        "output",
		Aliases:     []string{"o"},
		Usage:       "Write the roster TSV to a file instead of stdout",
		Destination: &output,
		Sources:     cli.EnvVars("BOUND_ROSTER_OUTPUT"),
	})

	return &cli.Command{
		Name:  "fetch",
		Usage: "Build the roster from GitHub organization teams",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)
			logger.Debug("fetching roster", "github", githubCfg)

			client, err := githubCfg.NewClient(ctx)
			if err != nil {
				return err
			}

			builder := usecase.NewRosterBuilder(client, usecase.WithWorkers(githubCfg.Workers))
			memberships, err := builder.Build(ctx, githubCfg.Orgs)
			if err != nil {
				return err
			}

			if output == "" {
				return roster.Write(c.Root().Writer, memberships)
			}
			if err := roster.WriteFile(output, memberships); err != nil {
				return err
			}
			logger.Info("roster written", "path", output, "entries", len(memberships))
			return nil
		},
	}
}
