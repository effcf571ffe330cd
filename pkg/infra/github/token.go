package github

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/m-mizutani/bound/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// TokenFromGHCLI asks the GitHub CLI for the token of the logged in user
func TokenFromGHCLI(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, "gh", "auth", "token")
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	out, err := cmd.Output()
	if err != nil {
		return "", goerr.Wrap(err, "`gh auth token` failed",
			goerr.V("stderr", strings.TrimSpace(stderr.String())),
			goerr.T(types.ErrTagGitHub))
	}

	token := strings.TrimSpace(string(out))
	if token == "" {
		return "", goerr.New("`gh auth token` returned an empty token", goerr.T(types.ErrTagGitHub))
	}
	return token, nil
}
