package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/m-mizutani/bound/pkg/cli/config"
	"github.com/m-mizutani/bound/pkg/controller/report"
	"github.com/m-mizutani/bound/pkg/usecase"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdCommits() *cli.Command {
	var repoCfg config.Repository

	return &cli.Command{
		Name:  "commits",
		Usage: "Print parsed commits with their file changes",
		Flags: repoCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			logOpts, err := repoCfg.LogOptions()
			if err != nil {
				return err
			}

			stream, err := repoCfg.Open().Log(ctx, logOpts)
			if err != nil {
				return err
			}
			defer stream.Close()

			for {
				commit, ok, err := stream.NextCommit(ctx)
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
				if err := report.WriteCommit(c.Root().Writer, commit); err != nil {
					return err
				}
			}
		},
	}
}

func cmdCodeowners() *cli.Command {
	var (
		repoCfg     config.Repository
		analysisCfg config.Analysis
		commitID    string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "commit",
			Aliases:     []string{"c"},
			Usage:       "Commit (or any revision) to read the ownership file at",
			Value:       "HEAD",
			Destination: &commitID,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, analysisCfg.Flags()...)

	return &cli.Command{
		Name:  "codeowners",
		Usage: "Print the ownership file in force at a commit",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := analysisCfg.Apply(ctx, c.IsSet); err != nil {
				return err
			}

			content, location, err := usecase.LoadOwnershipFile(ctx, repoCfg.Open(), commitID, analysisCfg.OwnershipFiles)
			if err != nil {
				return err
			}
			if location == "" {
				fmt.Fprintln(os.Stderr, "No CODEOWNERS file found at this commit.")
				return nil
			}

			ctxlog.From(ctx).Debug("ownership file found", "commit", commitID, "path", location)
			if _, err := c.Root().Writer.Write(content); err != nil {
				return goerr.Wrap(err, "failed to write ownership file")
			}
			return nil
		},
	}
}

func cmdCommitsWithOwners() *cli.Command {
	var (
		repoCfg     config.Repository
		analysisCfg config.Analysis
	)

	return &cli.Command{
		Name:  "commits-with-owners",
		Usage: "Print commits with the owners of every changed file",
		Flags: append(repoCfg.Flags(), analysisCfg.Flags()...),
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := analysisCfg.Apply(ctx, c.IsSet); err != nil {
				return err
			}

			logOpts, err := repoCfg.LogOptions()
			if err != nil {
				return err
			}
			members, err := loadMembership(ctx, analysisCfg.Roster)
			if err != nil {
				return err
			}

			repo := repoCfg.Open()
			stream, err := repo.Log(ctx, logOpts)
			if err != nil {
				return err
			}
			defer stream.Close()

			resolver := usecase.NewOwnershipResolver(repo,
				usecase.WithOwnershipFiles(analysisCfg.OwnershipFiles),
				usecase.WithTraversalOrder(logOpts.Order))

			enricher := usecase.NewEnricher(stream, resolver, members)

			for {
				commit, ok, err := enricher.NextEnriched(ctx)
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
				if err := report.WriteEnrichedCommit(c.Root().Writer, commit); err != nil {
					return err
				}
			}
		},
	}
}
