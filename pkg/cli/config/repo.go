package config

import (
	"github.com/m-mizutani/bound/pkg/domain/model"
	"github.com/m-mizutani/bound/pkg/domain/types"
	"github.com/m-mizutani/bound/pkg/infra/git"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Repository holds the target repository and commit range
type Repository struct {
	Dir     string
	Since   string
	Until   string
	Rev     string
	Order   string
	GitPath string
}

// Flags returns CLI flags for repository configuration
func (c *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "directory",
			Aliases:     []string{"d"},
			Usage:       "Path to the git repository",
			Value:       ".",
			Destination: &c.Dir,
			Sources:     cli.EnvVars("BOUND_DIRECTORY"),
		},
		&cli.StringFlag{
			Name:        "since",
			Aliases:     []string{"s"},
			Usage:       "Only commits more recent than this date (git --since syntax)",
			Destination: &c.Since,
			Sources:     cli.EnvVars("BOUND_SINCE"),
		},
		&cli.StringFlag{
			Name:        "until",
			Aliases:     []string{"u"},
			Usage:       "Only commits older than this date (git --until syntax)",
			Destination: &c.Until,
			Sources:     cli.EnvVars("BOUND_UNTIL"),
		},
		&cli.StringFlag{
			Name:        "rev",
			Usage:       "Revision to walk from (default HEAD)",
			Destination: &c.Rev,
			Sources:     cli.EnvVars("BOUND_REV"),
		},
		&cli.StringFlag{
			Name:        "order",
			Usage:       "Traversal order (oldest, newest)",
			Value:       string(model.OrderOldestFirst),
			Destination: &c.Order,
			Sources:     cli.EnvVars("BOUND_ORDER"),
		},
		&cli.StringFlag{
			Name:        "git-path",
			Usage:       "Path to the git binary",
			Value:       "git",
			Destination: &c.GitPath,
			Sources:     cli.EnvVars("BOUND_GIT_PATH"),
		},
	}
}

// Open returns the configured repository
func (c *Repository) Open() *git.Repository {
	var opts []git.Option
	if c.GitPath != "" {
		opts = append(opts, git.WithGitPath(c.GitPath))
	}
	return git.New(c.Dir, opts...)
}

// LogOptions converts the commit range flags
func (c *Repository) LogOptions() (git.LogOptions, error) {
	order, ok := model.ParseOrder(c.Order)
	if !ok {
		return git.LogOptions{}, goerr.New("invalid traversal order",
			goerr.V("order", c.Order),
			goerr.T(types.ErrTagConfig))
	}

	return git.LogOptions{
		Since: c.Since,
		Until: c.Until,
		Rev:   c.Rev,
		Order: order,
	}, nil
}
