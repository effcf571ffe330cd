package cli

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/m-mizutani/bound/pkg/cli/config"
	"github.com/m-mizutani/bound/pkg/domain/types"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

type runConfig struct {
	stdout  io.Writer
	envFile string
}

// Option configures Run
type Option func(*runConfig)

// WithStdout replaces the writer receiving command output
func WithStdout(w io.Writer) Option {
	return func(c *runConfig) {
		c.stdout = w
	}
}

// WithEnvFile replaces the dotenv file loaded before flags are parsed
func WithEnvFile(path string) Option {
	return func(c *runConfig) {
		c.envFile = path
	}
}

// Run runs the CLI application
func Run(ctx context.Context, args []string, opts ...Option) error {
	rc := &runConfig{
		stdout:  os.Stdout,
		envFile: ".env",
	}
	for _, opt := range opts {
		opt(rc)
	}

	var (
		loggerCfg config.Logger
		sentryCfg config.Sentry
		logger    *slog.Logger
	)

	if err := loadEnvFile(rc.envFile); err != nil {
		slog.Default().Error("failed to load env file", slog.Any("error", err))
		return err
	}

	app := &cli.Command{
		Name:    "bound",
		Usage:   "Ownership attribution over git commit history",
		Version: types.Version,
		Writer:  rc.stdout,
		Flags:   append(loggerCfg.Flags(), sentryCfg.Flags()...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			logger, err = loggerCfg.Configure()
			if err != nil {
				return nil, err
			}

			logger = logger.With("run_id", uuid.NewString())
			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)

			if err := sentryCfg.Configure(ctx); err != nil {
				return nil, err
			}
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			return loggerCfg.Close()
		},
		Commands: []*cli.Command{
			cmdCommits(),
			cmdCodeowners(),
			cmdCommitsWithOwners(),
			cmdOwners(),
			cmdContributors(),
			cmdRoster(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("CLI execution failed", slog.Any("error", err))
		sentryCfg.Capture(err)
		return err
	}

	return nil
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return goerr.Wrap(err, "failed to load env file", goerr.V("path", path), goerr.T(types.ErrTagConfig))
	}
	return nil
}
