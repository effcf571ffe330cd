package cli_test

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/bound/pkg/cli"
	"github.com/m-mizutani/gt"
)

func gitEnv() []string {
	return append(os.Environ(),
		"GIT_CONFIG_GLOBAL=/dev/null",
		"GIT_CONFIG_NOSYSTEM=1",
		"GIT_COMMITTER_NAME=committer",
		"GIT_COMMITTER_EMAIL=committer@example.com",
	)
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = gitEnv()
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v: %v: %s", args, err, out)
	}
}

func lines(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString("line\n")
	}
	return b.String()
}

// setupRepo creates a repository where a team member adds a.go and an
// outsider then removes five of its lines
func setupRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git executable not available")
	}

	dir := t.TempDir()
	runGit(t, dir, "init", "-q")

	write := func(name, content string) {
		gt.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644)).Required()
		runGit(t, dir, "add", name)
	}

	write("CODEOWNERS", "a.go @team1\n")
	write("a.go", lines(10))
	runGit(t, dir, "commit", "-q", "-m", "add", "--author", "Member <member@example.com>", "--date", "2024-01-01T00:00:00Z")

	write("a.go", lines(5))
	runGit(t, dir, "commit", "-q", "-m", "trim", "--author", "Outsider <outsider@example.com>", "--date", "2024-01-02T00:00:00Z")

	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout bytes.Buffer
	err := cli.Run(context.Background(),
		append([]string{"bound", "--log-level", "error", "--log-format", "text"}, args...),
		cli.WithStdout(&stdout),
		cli.WithEnvFile(""),
	)
	return stdout.String(), err
}

func TestOwners_TSV(t *testing.T) {
	dir := setupRepo(t)

	rosterPath := filepath.Join(t.TempDir(), "roster.tsv")
	gt.NoError(t, os.WriteFile(rosterPath, []byte(
		"author_email\tauthor_name\tcodeowner\nmember@example.com\tMember\t@team1\n"), 0644)).Required()

	out, err := run(t, "owners", "--directory", dir, "--roster", rosterPath, "--format", "tsv")
	gt.NoError(t, err)
	gt.V(t, out).Equal(
		"owner\tinsertions_by_team\tdeletions_by_team\tcommits_by_team\tinsertions_by_others\tdeletions_by_others\tcommits_by_others\n" +
			"@team1\t10\t0\t1\t0\t5\t1\n")
}

func TestContributors_JSONToFile(t *testing.T) {
	dir := setupRepo(t)
	outPath := filepath.Join(t.TempDir(), "report.json")

	out, err := run(t, "contributors", "--directory", dir, "--format", "json", "--output", outPath, "--adjusted")
	gt.NoError(t, err)
	gt.V(t, out).Equal("")

	raw, err := os.ReadFile(outPath)
	gt.NoError(t, err)
	gt.String(t, string(raw)).Contains(`"adjusted": true`)
	gt.String(t, string(raw)).Contains(`"owner": "unowned"`)
	gt.String(t, string(raw)).Contains(`"email": "outsider@example.com"`)
}

func TestCodeowners(t *testing.T) {
	dir := setupRepo(t)

	out, err := run(t, "codeowners", "--directory", dir, "--commit", "HEAD")
	gt.NoError(t, err)
	gt.V(t, out).Equal("a.go @team1\n")
}

func TestCommitsWithOwners(t *testing.T) {
	dir := setupRepo(t)

	out, err := run(t, "commits-with-owners", "--directory", dir)
	gt.NoError(t, err)
	gt.String(t, out).Contains("Author: Member <member@example.com>\nDate: 2024-01-01 00:00:00 UTC\n")
	gt.String(t, out).Contains("  a.go: +10 -0 (Codeowners: @team1)\n")
	gt.String(t, out).Contains("  CODEOWNERS: +1 -0 (Codeowners: None)\n")
	gt.String(t, out).Contains("  a.go: +0 -5 (Codeowners: @team1)\n")
}

func TestCommits_NewestFirst(t *testing.T) {
	dir := setupRepo(t)

	out, err := run(t, "commits", "--directory", dir, "--order", "newest")
	gt.NoError(t, err)
	gt.True(t, strings.Index(out, "Outsider") < strings.Index(out, "Member"))
}

func TestInvalidFlags(t *testing.T) {
	dir := setupRepo(t)

	_, err := run(t, "owners", "--directory", dir, "--order", "sideways")
	gt.Error(t, err)

	_, err = run(t, "owners", "--directory", dir, "--format", "yaml")
	gt.Error(t, err)

	err = cli.Run(context.Background(), []string{"bound", "--log-level", "loud", "commits", "--directory", dir}, cli.WithEnvFile(""))
	gt.Error(t, err)
}

func TestProfile(t *testing.T) {
	dir := setupRepo(t)
	profile := filepath.Join(t.TempDir(), "bound.toml")
	gt.NoError(t, os.WriteFile(profile, []byte("adjusted = true\ntop = 1\n"), 0644)).Required()

	out, err := run(t, "owners", "--directory", dir, "--format", "tsv", "--profile", profile)
	gt.NoError(t, err)
	gt.String(t, out).Contains("adjusted_commits_by_others")
}
