package usecase

import (
	"context"

	"github.com/m-mizutani/bound/pkg/domain/interfaces"
	"github.com/m-mizutani/bound/pkg/domain/model"
	"github.com/m-mizutani/bound/pkg/domain/types"
	"github.com/m-mizutani/bound/pkg/utils/async"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

const defaultRosterWorkers = 8

// RosterBuilder collects team memberships of GitHub organizations
type RosterBuilder struct {
	client  interfaces.GitHubClient
	workers int
}

// RosterOption configures RosterBuilder
type RosterOption func(*RosterBuilder)

// WithWorkers sets the number of concurrent API calls
func WithWorkers(n int) RosterOption {
	return func(b *RosterBuilder) {
		if n > 0 {
			b.workers = n
		}
	}
}

// NewRosterBuilder creates a RosterBuilder
func NewRosterBuilder(client interfaces.GitHubClient, opts ...RosterOption) *RosterBuilder {
	b := &RosterBuilder{
		client:  client,
		workers: defaultRosterWorkers,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type teamRef struct {
	org     string
	slug    string
	members []string
}

// Build returns one membership per (team, member) of orgs. When orgs is
// empty, every organization of the authenticated user is used. The owner
// group of a team is "@org/slug" and the author name falls back to the login.
func (b *RosterBuilder) Build(ctx context.Context, orgs []string) ([]model.Membership, error) {
	logger := ctxlog.From(ctx)

	if len(orgs) == 0 {
		found, err := b.client.ListOrganizations(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list organizations", goerr.T(types.ErrTagGitHub))
		}
		orgs = found
	}
	logger.Info("building roster", "orgs", orgs)

	var teams []*teamRef
	for _, org := range orgs {
		slugs, err := b.client.ListTeamSlugs(ctx, org)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list teams", goerr.V("org", org), goerr.T(types.ErrTagGitHub))
		}
		for _, slug := range slugs {
			teams = append(teams, &teamRef{org: org, slug: slug})
		}
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(b.workers)
	for _, team := range teams {
		async.Go(egCtx, eg, func(ctx context.Context) error {
			members, err := b.client.ListTeamMembers(ctx, team.org, team.slug)
			if err != nil {
				return goerr.Wrap(err, "failed to list team members",
					goerr.V("org", team.org),
					goerr.V("team", team.slug),
					goerr.T(types.ErrTagGitHub))
			}
			team.members = members
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var logins []string
	seen := make(map[string]struct{})
	for _, team := range teams {
		for _, login := range team.members {
			if _, ok := seen[login]; ok {
				continue
			}
			seen[login] = struct{}{}
			logins = append(logins, login)
		}
	}

	profiles := make([]*model.GitHubUser, len(logins))
	eg, egCtx = errgroup.WithContext(ctx)
	eg.SetLimit(b.workers)
	for i, login := range logins {
		async.Go(egCtx, eg, func(ctx context.Context) error {
			user, err := b.client.GetUser(ctx, login)
			if err != nil {
				return goerr.Wrap(err, "failed to get user", goerr.V("login", login), goerr.T(types.ErrTagGitHub))
			}
			profiles[i] = user
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	users := make(map[string]*model.GitHubUser, len(logins))
	for i, login := range logins {
		users[login] = profiles[i]
	}

	var roster []model.Membership
	for _, team := range teams {
		group := "@" + team.org + "/" + team.slug
		for _, login := range team.members {
			user := users[login]
			if user == nil {
				logger.Warn("user not found, skipped", "login", login, "team", group)
				continue
			}

			name := user.Name
			if name == "" {
				name = login
			}
			roster = append(roster, model.Membership{
				AuthorEmail: user.Email,
				AuthorName:  name,
				OwnerGroup:  group,
			})
		}
	}

	logger.Info("roster built", "teams", len(teams), "users", len(logins), "entries", len(roster))
	return roster, nil
}
