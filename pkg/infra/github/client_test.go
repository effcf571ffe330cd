package github_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/m-mizutani/bound/pkg/domain/model"
	"github.com/m-mizutani/bound/pkg/domain/types"
	githubinfra "github.com/m-mizutani/bound/pkg/infra/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	gt.NoError(t, json.NewEncoder(w).Encode(v))
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var server *httptest.Server

	mux.HandleFunc("/user/orgs", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []map[string]any{{"login": "acme"}, {"login": "umbrella"}})
	})

	mux.HandleFunc("/orgs/acme/teams", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			writeJSON(t, w, []map[string]any{{"slug": "web"}})
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s/orgs/acme/teams?page=2>; rel="next"`, server.URL))
		writeJSON(t, w, []map[string]any{{"slug": "core"}})
	})

	mux.HandleFunc("/orgs/acme/teams/core/members", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []map[string]any{{"login": "alice"}, {"login": "bob"}})
	})

	mux.HandleFunc("/orgs/missing/teams", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		writeJSON(t, w, map[string]any{"message": "Not Found"})
	})

	mux.HandleFunc("/users/alice", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"login": "alice", "name": "Alice Liddell", "email": "alice@example.com"})
	})

	mux.HandleFunc("/users/ghost", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		writeJSON(t, w, map[string]any{"message": "Not Found"})
	})

	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestClient(t *testing.T) {
	server := newTestServer(t)
	ctx := context.Background()

	client, err := githubinfra.NewClient("test-token",
		githubinfra.WithBaseURL(server.URL),
		githubinfra.WithRateLimit(0),
	)
	gt.NoError(t, err).Required()

	t.Run("list organizations", func(t *testing.T) {
		orgs, err := client.ListOrganizations(ctx)
		gt.NoError(t, err)
		gt.V(t, orgs).Equal([]string{"acme", "umbrella"})
	})

	t.Run("list team slugs across pages", func(t *testing.T) {
		slugs, err := client.ListTeamSlugs(ctx, "acme")
		gt.NoError(t, err)
		gt.V(t, slugs).Equal([]string{"core", "web"})
	})

	t.Run("list team members", func(t *testing.T) {
		members, err := client.ListTeamMembers(ctx, "acme", "core")
		gt.NoError(t, err)
		gt.V(t, members).Equal([]string{"alice", "bob"})
	})

	t.Run("API error is tagged", func(t *testing.T) {
		_, err := client.ListTeamSlugs(ctx, "missing")
		gt.Error(t, err).Required()
		gt.True(t, goerr.HasTag(err, types.ErrTagGitHub))
	})

	t.Run("get user", func(t *testing.T) {
		user, err := client.GetUser(ctx, "alice")
		gt.NoError(t, err)
		gt.V(t, user).Equal(&model.GitHubUser{Login: "alice", Name: "Alice Liddell", Email: "alice@example.com"})
	})

	t.Run("unknown user is nil", func(t *testing.T) {
		user, err := client.GetUser(ctx, "ghost")
		gt.NoError(t, err)
		gt.V(t, user == nil).Equal(true)
	})
}

func TestNewAppClient_InvalidKey(t *testing.T) {
	_, err := githubinfra.NewAppClient(1, 2, []byte("not a pem key"))
	gt.Error(t, err)
}

func TestClient_WithRealAPI(t *testing.T) {
	token := os.Getenv("TEST_GITHUB_TOKEN")
	org := os.Getenv("TEST_GITHUB_ORG")
	if token == "" || org == "" {
		t.Skip("TEST_GITHUB_TOKEN and TEST_GITHUB_ORG are not set")
	}

	client, err := githubinfra.NewClient(token)
	gt.NoError(t, err).Required()

	slugs, err := client.ListTeamSlugs(context.Background(), org)
	gt.NoError(t, err)
	t.Log("teams: " + strconv.Itoa(len(slugs)))
}
