package interfaces

import (
	"context"

	"github.com/m-mizutani/bound/pkg/domain/model"
)

// GitHubClient defines the GitHub API operations needed to build a roster
type GitHubClient interface {
	// ListOrganizations returns logins of organizations the authenticated user belongs to
	ListOrganizations(ctx context.Context) ([]string, error)

	// ListTeamSlugs returns slugs of all teams in org
	ListTeamSlugs(ctx context.Context, org string) ([]string, error)

	// ListTeamMembers returns logins of the members of a team
	ListTeamMembers(ctx context.Context, org, teamSlug string) ([]string, error)

	// GetUser returns the public profile of login, nil if it does not exist
	GetUser(ctx context.Context, login string) (*model.GitHubUser, error)
}
