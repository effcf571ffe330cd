package cli

import (
	"context"
	"io"

	"github.com/m-mizutani/bound/pkg/cli/config"
	"github.com/m-mizutani/bound/pkg/controller/report"
	"github.com/m-mizutani/bound/pkg/domain/interfaces"
	"github.com/m-mizutani/bound/pkg/infra/roster"
	"github.com/m-mizutani/bound/pkg/usecase"
	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"
)

func cmdOwners() *cli.Command {
	return reportCommand("owners", "Report team and outside contributions per owner group", report.ViewOwners)
}

func cmdContributors() *cli.Command {
	return reportCommand("contributors", "Report each contributor's work per owner group", report.ViewContributors)
}

func reportCommand(name, usage string, view report.View) *cli.Command {
	var (
		repoCfg     config.Repository
		analysisCfg config.Analysis
		outputCfg   config.Output
	)

	flags := append(repoCfg.Flags(), analysisCfg.Flags()...)
	flags = append(flags, outputCfg.Flags()...)

	return &cli.Command{
		Name:  name,
		Usage: usage,
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := analysisCfg.Apply(ctx, c.IsSet); err != nil {
				return err
			}

			logOpts, err := repoCfg.LogOptions()
			if err != nil {
				return err
			}
			renderer, err := outputCfg.Renderer()
			if err != nil {
				return err
			}
			members, err := loadMembership(ctx, analysisCfg.Roster)
			if err != nil {
				return err
			}

			ctxlog.From(ctx).Info("starting analysis",
				"view", view,
				"repository", repoCfg,
				"analysis", analysisCfg,
			)

			repo := repoCfg.Open()
			stream, err := repo.Log(ctx, logOpts)
			if err != nil {
				return err
			}
			defer stream.Close()

			resolver := usecase.NewOwnershipResolver(repo,
				usecase.WithOwnershipFiles(analysisCfg.OwnershipFiles),
				usecase.WithTraversalOrder(logOpts.Order))

			opts := []usecase.AnalyzerOption{
				usecase.WithAdjusted(analysisCfg.Adjusted),
				usecase.WithTop(analysisCfg.Top),
			}
			if members != nil {
				opts = append(opts, usecase.WithMembership(members))
			}

			result, err := usecase.NewAnalyzer(resolver, opts...).Run(ctx, stream)
			if err != nil {
				return err
			}

			if err := outputCfg.Emit(ctx, c.Root().Writer, func(w io.Writer) error {
				return renderer.Render(w, result, view)
			}); err != nil {
				return err
			}

			return outputCfg.Notify(ctx, report.Summary(result, view, outputCfg.Location()))
		},
	}
}

// loadMembership reads the roster at path. It returns nil when no roster is
// configured.
func loadMembership(ctx context.Context, path string) (interfaces.MembershipChecker, error) {
	if path == "" {
		return nil, nil
	}

	memberships, err := roster.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := roster.Validate(memberships); err != nil {
		return nil, err
	}

	ctxlog.From(ctx).Debug("roster loaded", "path", path, "entries", len(memberships))
	return usecase.NewMembershipIndex(memberships), nil
}
