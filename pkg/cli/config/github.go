package config

import (
	"context"
	"os"

	"github.com/m-mizutani/bound/pkg/domain/interfaces"
	"github.com/m-mizutani/bound/pkg/domain/types"
	"github.com/m-mizutani/bound/pkg/infra/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// GitHub holds GitHub API configuration
type GitHub struct {
	Token          string `masq:"secret"`
	AppID          int64
	InstallationID int64
	PrivateKey     string `masq:"secret"`
	BaseURL        string
	RateLimit      float64
	Orgs           []string
	Workers        int
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub token (falls back to `gh auth token`)",
			Destination: &c.Token,
			Sources:     cli.EnvVars("BOUND_GITHUB_TOKEN", "GITHUB_TOKEN"),
		},
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID",
			Destination: &c.AppID,
			Sources:     cli.EnvVars("BOUND_GITHUB_APP_ID"),
		},
		&cli.Int64Flag{
			Name:        "github-app-installation-id",
			Usage:       "GitHub App installation ID",
			Destination: &c.InstallationID,
			Sources:     cli.EnvVars("BOUND_GITHUB_APP_INSTALLATION_ID"),
		},
		&cli.StringFlag{
			Name:        "github-app-private-key",
			Usage:       "Path to the GitHub App private key (PEM)",
			Destination: &c.PrivateKey,
			Sources:     cli.EnvVars("BOUND_GITHUB_APP_PRIVATE_KEY"),
		},
		&cli.StringFlag{
			Name:        "github-base-url",
			Usage:       "GitHub API base URL (GitHub Enterprise)",
			Destination: &c.BaseURL,
			Sources:     cli.EnvVars("BOUND_GITHUB_BASE_URL"),
		},
		&cli.FloatFlag{
			Name:        "github-rate-limit",
			Usage:       "Maximum GitHub API requests per second (0 = unlimited)",
			Value:       10,
			Destination: &c.RateLimit,
			Sources:     cli.EnvVars("BOUND_GITHUB_RATE_LIMIT"),
		},
		&cli.StringSliceFlag{
			Name:        "org",
			Usage:       "Organization to read teams from (repeatable, default: all of the user's organizations)",
			Destination: &c.Orgs,
			Sources:     cli.EnvVars("BOUND_GITHUB_ORGS"),
		},
		&cli.IntFlag{
			Name:        "workers",
			Usage:       "Concurrent GitHub API calls",
			Value:       8,
			Destination: &c.Workers,
			Sources:     cli.EnvVars("BOUND_GITHUB_WORKERS"),
		},
	}
}

// NewClient creates a GitHub client. GitHub App credentials win over a
// token; without either, the token of the gh CLI is used.
func (c *GitHub) NewClient(ctx context.Context) (interfaces.GitHubClient, error) {
	opts := []github.Option{github.WithRateLimit(c.RateLimit)}
	if c.BaseURL != "" {
		opts = append(opts, github.WithBaseURL(c.BaseURL))
	}

	if c.AppID != 0 {
		if c.InstallationID == 0 || c.PrivateKey == "" {
			return nil, goerr.New("GitHub App requires installation ID and private key", goerr.T(types.ErrTagConfig))
		}
		key, err := os.ReadFile(c.PrivateKey)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read GitHub App private key", goerr.V("path", c.PrivateKey), goerr.T(types.ErrTagConfig))
		}
		ctxlog.From(ctx).Debug("using GitHub App credentials", "app_id", c.AppID, "installation_id", c.InstallationID)
		return github.NewAppClient(c.AppID, c.InstallationID, key, opts...)
	}

	token := c.Token
	if token == "" {
		t, err := github.TokenFromGHCLI(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "no GitHub token given and gh CLI is unavailable", goerr.T(types.ErrTagConfig))
		}
		token = t
	}

	return github.NewClient(token, opts...)
}
