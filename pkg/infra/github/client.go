package github

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/bound/pkg/domain/interfaces"
	"github.com/m-mizutani/bound/pkg/domain/model"
	"github.com/m-mizutani/bound/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/time/rate"
)

const perPage = 100

type client struct {
	githubClient *github.Client
	limiter      *rate.Limiter
}

// Option configures the GitHub client
type Option func(*client) error

// WithBaseURL points the client at another API endpoint, e.g. GitHub
// Enterprise or a test server
func WithBaseURL(baseURL string) Option {
	return func(c *client) error {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return goerr.Wrap(err, "invalid GitHub API base URL", goerr.V("url", baseURL))
		}
		c.githubClient.BaseURL = u
		return nil
	}
}

// WithRateLimit caps API requests per second. Zero or negative disables the
// limit.
func WithRateLimit(perSecond float64) Option {
	return func(c *client) error {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return nil
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		return nil
	}
}

// NewClient creates a GitHub client authenticated with a personal access
// token
func NewClient(token string, opts ...Option) (interfaces.GitHubClient, error) {
	c, err := newClient(github.NewClient(nil).WithAuthToken(token), opts...)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// NewAppClient creates a GitHub client with App installation authentication
func NewAppClient(appID, installationID int64, privateKey []byte, opts ...Option) (interfaces.GitHubClient, error) {
	itr, err := ghinstallation.New(http.DefaultTransport, appID, installationID, privateKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App transport",
			goerr.V("app_id", appID),
			goerr.V("installation_id", installationID),
			goerr.T(types.ErrTagGitHub))
	}

	c, err := newClient(github.NewClient(&http.Client{Transport: itr}), opts...)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func newClient(gh *github.Client, opts ...Option) (*client, error) {
	c := &client{
		githubClient: gh,
		limiter:      rate.NewLimiter(rate.Limit(10), 1),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *client) wait(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return goerr.Wrap(err, "rate limiter", goerr.T(types.ErrTagGitHub))
	}
	return nil
}

// ListOrganizations returns logins of organizations the authenticated user belongs to
func (c *client) ListOrganizations(ctx context.Context) ([]string, error) {
	opts := &github.ListOptions{PerPage: perPage}

	var logins []string
	for {
		if err := c.wait(ctx); err != nil {
			return nil, err
		}

		orgs, resp, err := c.githubClient.Organizations.List(ctx, "", opts)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list organizations", goerr.T(types.ErrTagGitHub))
		}
		for _, org := range orgs {
			logins = append(logins, org.GetLogin())
		}

		if resp.NextPage == 0 {
			return logins, nil
		}
		opts.Page = resp.NextPage
	}
}

// ListTeamSlugs returns slugs of all teams in org
func (c *client) ListTeamSlugs(ctx context.Context, org string) ([]string, error) {
	opts := &github.ListOptions{PerPage: perPage}

	var slugs []string
	for {
		if err := c.wait(ctx); err != nil {
			return nil, err
		}

		teams, resp, err := c.githubClient.Teams.ListTeams(ctx, org, opts)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list teams",
				goerr.V("org", org),
				goerr.T(types.ErrTagGitHub))
		}
		for _, team := range teams {
			slugs = append(slugs, team.GetSlug())
		}

		if resp.NextPage == 0 {
			return slugs, nil
		}
		opts.Page = resp.NextPage
	}
}

// ListTeamMembers returns logins of the members of a team
func (c *client) ListTeamMembers(ctx context.Context, org, teamSlug string) ([]string, error) {
	opts := &github.TeamListTeamMembersOptions{
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var logins []string
	for {
		if err := c.wait(ctx); err != nil {
			return nil, err
		}

		members, resp, err := c.githubClient.Teams.ListTeamMembersBySlug(ctx, org, teamSlug, opts)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list team members",
				goerr.V("org", org),
				goerr.V("team", teamSlug),
				goerr.T(types.ErrTagGitHub))
		}
		for _, member := range members {
			logins = append(logins, member.GetLogin())
		}

		if resp.NextPage == 0 {
			return logins, nil
		}
		opts.Page = resp.NextPage
	}
}

// GetUser returns the public profile of login, nil if it does not exist
func (c *client) GetUser(ctx context.Context, login string) (*model.GitHubUser, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	user, resp, err := c.githubClient.Users.Get(ctx, login)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get user",
			goerr.V("login", login),
			goerr.T(types.ErrTagGitHub))
	}

	return &model.GitHubUser{
		Login: user.GetLogin(),
		Name:  user.GetName(),
		Email: user.GetEmail(),
	}, nil
}
