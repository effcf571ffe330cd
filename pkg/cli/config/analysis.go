package config

import (
	"context"
	"os"

	"github.com/m-mizutani/bound/pkg/domain/types"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Analysis holds attribution settings
type Analysis struct {
	Roster         string
	Adjusted       bool
	Top            int
	OwnershipFiles []string
	Profile        string
}

// Profile is the TOML analysis profile
//
//	ownership_files = [".github/CODEOWNERS", "CODEOWNERS"]
//	top = 20
//	adjusted = true
//	roster = "roster.tsv"
type Profile struct {
	OwnershipFiles []string `toml:"ownership_files"`
	Top            *int     `toml:"top"`
	Adjusted       *bool    `toml:"adjusted"`
	Roster         string   `toml:"roster"`
}

// Flags returns CLI flags for analysis configuration
func (c *Analysis) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "roster",
			Aliases:     []string{"r"},
			Usage:       "Membership roster TSV (author_email, author_name, codeowner)",
			Destination: &c.Roster,
			Sources:     cli.EnvVars("BOUND_ROSTER"),
		},
		&cli.BoolFlag{
			Name:        "adjusted",
			Usage:       "Add insertion proportional commit credit",
			Destination: &c.Adjusted,
			Sources:     cli.EnvVars("BOUND_ADJUSTED"),
		},
		&cli.IntFlag{
			Name:        "top",
			Usage:       "Length of ranked contributor lists",
			Value:       types.DefaultTopN,
			Destination: &c.Top,
			Sources:     cli.EnvVars("BOUND_TOP"),
		},
		&cli.StringSliceFlag{
			Name:        "ownership-file",
			Usage:       "Ownership file location, in priority order (repeatable)",
			Value:       append([]string(nil), types.DefaultOwnershipFiles...),
			Destination: &c.OwnershipFiles,
			Sources:     cli.EnvVars("BOUND_OWNERSHIP_FILES"),
		},
		&cli.StringFlag{
			Name:        "profile",
			Usage:       "TOML analysis profile",
			Destination: &c.Profile,
			Sources:     cli.EnvVars("BOUND_PROFILE"),
		},
	}
}

// LoadProfile reads a TOML analysis profile
func LoadProfile(path string) (*Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read profile", goerr.V("path", path), goerr.T(types.ErrTagConfig))
	}

	var profile Profile
	if err := toml.Unmarshal(raw, &profile); err != nil {
		return nil, goerr.Wrap(err, "failed to parse profile", goerr.V("path", path), goerr.T(types.ErrTagConfig))
	}
	return &profile, nil
}

// Apply merges the profile, if configured, into c. Flags given on the
// command line or through the environment take precedence; explicit reports
// whether a flag was given.
func (c *Analysis) Apply(ctx context.Context, explicit func(name string) bool) error {
	if c.Profile == "" {
		return nil
	}

	profile, err := LoadProfile(c.Profile)
	if err != nil {
		return err
	}

	if len(profile.OwnershipFiles) > 0 && !explicit("ownership-file") {
		c.OwnershipFiles = profile.OwnershipFiles
	}
	if profile.Top != nil && !explicit("top") {
		c.Top = *profile.Top
	}
	if profile.Adjusted != nil && !explicit("adjusted") {
		c.Adjusted = *profile.Adjusted
	}
	if profile.Roster != "" && !explicit("roster") {
		c.Roster = profile.Roster
	}

	ctxlog.From(ctx).Debug("analysis profile applied", "path", c.Profile, "config", c)
	return nil
}
