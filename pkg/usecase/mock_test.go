package usecase_test

import (
	"context"
	"errors"

	"github.com/m-mizutani/bound/pkg/domain/model"
)

// mockCommitSource replays a fixed history
type mockCommitSource struct {
	commits []*model.Commit
	err     error
	pos     int
}

func (m *mockCommitSource) NextCommit(ctx context.Context) (*model.Commit, bool, error) {
	if m.pos >= len(m.commits) {
		if m.err != nil {
			return nil, false, m.err
		}
		return nil, false, nil
	}
	c := m.commits[m.pos]
	m.pos++
	return c, true, nil
}

type readCall struct {
	CommitID string
	Path     string
}

// mockFileReader serves file contents keyed by commit and path
type mockFileReader struct {
	readFunc func(ctx context.Context, commitID, path string) ([]byte, error)
	calls    []readCall
}

func (m *mockFileReader) ReadFileAtCommit(ctx context.Context, commitID, path string) ([]byte, error) {
	m.calls = append(m.calls, readCall{CommitID: commitID, Path: path})
	if m.readFunc != nil {
		return m.readFunc(ctx, commitID, path)
	}
	return nil, errors.New("mock not configured")
}

// staticFiles returns a reader serving files[commitID][path]
func staticFiles(files map[string]map[string]string) *mockFileReader {
	return &mockFileReader{
		readFunc: func(ctx context.Context, commitID, path string) ([]byte, error) {
			content, ok := files[commitID][path]
			if !ok {
				return nil, nil
			}
			return []byte(content), nil
		},
	}
}

// mockMembership treats authors listed per group as members
type mockMembership struct {
	members map[string][]string
}

func (m *mockMembership) IsMember(authorName, authorEmail, ownerGroup string) bool {
	for _, email := range m.members[ownerGroup] {
		if email == authorEmail {
			return true
		}
	}
	return false
}

type mockGitHubClient struct {
	listOrganizationsFunc func(ctx context.Context) ([]string, error)
	listTeamSlugsFunc     func(ctx context.Context, org string) ([]string, error)
	listTeamMembersFunc   func(ctx context.Context, org, teamSlug string) ([]string, error)
	getUserFunc           func(ctx context.Context, login string) (*model.GitHubUser, error)
}

func (m *mockGitHubClient) ListOrganizations(ctx context.Context) ([]string, error) {
	if m.listOrganizationsFunc != nil {
		return m.listOrganizationsFunc(ctx)
	}
	return nil, errors.New("mock not configured")
}

func (m *mockGitHubClient) ListTeamSlugs(ctx context.Context, org string) ([]string, error) {
	if m.listTeamSlugsFunc != nil {
		return m.listTeamSlugsFunc(ctx, org)
	}
	return nil, errors.New("mock not configured")
}

func (m *mockGitHubClient) ListTeamMembers(ctx context.Context, org, teamSlug string) ([]string, error) {
	if m.listTeamMembersFunc != nil {
		return m.listTeamMembersFunc(ctx, org, teamSlug)
	}
	return nil, errors.New("mock not configured")
}

func (m *mockGitHubClient) GetUser(ctx context.Context, login string) (*model.GitHubUser, error) {
	if m.getUserFunc != nil {
		return m.getUserFunc(ctx, login)
	}
	return nil, errors.New("mock not configured")
}

func commit(id string, author model.Author, changes ...model.FileChange) *model.Commit {
	return &model.Commit{ID: id, Author: author, Changes: changes}
}

func change(path string, ins, del int) model.FileChange {
	return model.FileChange{Path: path, Insertions: ins, Deletions: del}
}
