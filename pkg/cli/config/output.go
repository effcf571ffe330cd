package config

import (
	"bytes"
	"context"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/bound/pkg/controller/report"
	"github.com/m-mizutani/bound/pkg/domain/types"
	"github.com/m-mizutani/bound/pkg/infra/gcs"
	"github.com/m-mizutani/bound/pkg/infra/slack"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Output holds report destination configuration
type Output struct {
	Format string
	Path   string
	Upload string

	SlackToken   string `masq:"secret"`
	SlackChannel string
}

// Flags returns CLI flags for output configuration
func (c *Output) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"f"},
			Usage:       "Report format (text, json, tsv)",
			Value:       string(report.FormatText),
			Destination: &c.Format,
			Sources:     cli.EnvVars("BOUND_FORMAT"),
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Write the report to a file instead of stdout",
			Destination: &c.Path,
			Sources:     cli.EnvVars("BOUND_OUTPUT"),
		},
		&cli.StringFlag{
			Name:        "upload",
			Usage:       "Also upload the report to Cloud Storage (gs://bucket/object)",
			Destination: &c.Upload,
			Sources:     cli.EnvVars("BOUND_UPLOAD"),
		},
		&cli.StringFlag{
			Name:        "slack-token",
			Usage:       "Slack bot token to announce the report",
			Destination: &c.SlackToken,
			Sources:     cli.EnvVars("BOUND_SLACK_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel to announce the report in",
			Destination: &c.SlackChannel,
			Sources:     cli.EnvVars("BOUND_SLACK_CHANNEL"),
		},
	}
}

// Renderer returns a renderer for the configured format. Colors are only
// used when printing text to a terminal.
func (c *Output) Renderer() (*report.Renderer, error) {
	format, err := report.ParseFormat(c.Format)
	if err != nil {
		return nil, err
	}
	return report.NewRenderer(format, report.WithColor(c.Path == "" && !color.NoColor)), nil
}

// Emit renders the report with render and writes it to the configured
// destinations. Nothing is written when render fails.
func (c *Output) Emit(ctx context.Context, stdout io.Writer, render func(w io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}

	if c.Path == "" {
		if _, err := stdout.Write(buf.Bytes()); err != nil {
			return goerr.Wrap(err, "failed to write report")
		}
	} else {
		if err := os.WriteFile(c.Path, buf.Bytes(), 0644); err != nil {
			return goerr.Wrap(err, "failed to write report", goerr.V("path", c.Path))
		}
		ctxlog.From(ctx).Info("report written", "path", c.Path, "bytes", buf.Len())
	}

	if c.Upload != "" {
		format, err := report.ParseFormat(c.Format)
		if err != nil {
			return err
		}

		store, err := gcs.New(ctx)
		if err != nil {
			return goerr.Wrap(err, "failed to create storage client", goerr.T(types.ErrTagConfig))
		}
		if err := store.Put(ctx, c.Upload, buf.Bytes(), format.ContentType()); err != nil {
			return err
		}
		ctxlog.From(ctx).Info("report uploaded", "uri", c.Upload)
	}

	return nil
}

// Location returns where the report can be found, empty when it was only
// printed
func (c *Output) Location() string {
	if c.Upload != "" {
		return c.Upload
	}
	return c.Path
}

// Notify posts text to Slack. It does nothing without a channel.
func (c *Output) Notify(ctx context.Context, text string) error {
	if c.SlackChannel == "" {
		return nil
	}

	notifier, err := slack.New(c.SlackToken, c.SlackChannel)
	if err != nil {
		return goerr.Wrap(err, "failed to configure slack", goerr.T(types.ErrTagConfig))
	}
	if err := notifier.Notify(ctx, text); err != nil {
		return err
	}

	ctxlog.From(ctx).Info("report announced", "channel", c.SlackChannel)
	return nil
}
