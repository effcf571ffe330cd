package git

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/m-mizutani/bound/pkg/domain/model"
	"github.com/m-mizutani/bound/pkg/domain/types"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Repository runs git commands against a local working copy
type Repository struct {
	dir     string
	gitPath string

	// commits already confirmed to exist
	knownMutex sync.Mutex
	known      map[string]struct{}
}

// Option configures Repository
type Option func(*Repository)

// WithGitPath overrides the git executable
func WithGitPath(path string) Option {
	return func(r *Repository) {
		r.gitPath = path
	}
}

// New creates a Repository for the working copy at dir
func New(dir string, opts ...Option) *Repository {
	r := &Repository{
		dir:     dir,
		gitPath: "git",
		known:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LogOptions selects the commits to stream
type LogOptions struct {
	Since string
	Until string
	// Rev is the revision to walk from, HEAD when empty
	Rev   string
	Order model.Order
}

func (o LogOptions) args() []string {
	args := []string{"log", "--no-merges", "--no-renames", LogFormat, "--numstat"}
	if o.Since != "" {
		args = append(args, "--since="+o.Since)
	}
	if o.Until != "" {
		args = append(args, "--until="+o.Until)
	}
	if o.Order != model.OrderNewestFirst {
		args = append(args, "--reverse")
	}
	if o.Rev != "" {
		args = append(args, o.Rev)
	}
	return append(args, "--")
}

// Log starts `git log` and returns a stream of its commits. The caller must
// Close the stream.
func (r *Repository) Log(ctx context.Context, opts LogOptions) (*LogStream, error) {
	args := opts.args()
	cmd := exec.CommandContext(ctx, r.gitPath, args...)
	cmd.Dir = r.dir

	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to capture git log output", goerr.T(types.ErrTagRepository))
	}
	if err := cmd.Start(); err != nil {
		return nil, goerr.Wrap(err, "failed to start git log",
			goerr.V("dir", r.dir),
			goerr.T(types.ErrTagRepository))
	}

	ctxlog.From(ctx).Debug("git log started", "dir", r.dir, "args", args)

	return &LogStream{
		parser: NewParser(stdout),
		cmd:    cmd,
		stdout: stdout,
		stderr: stderr,
	}, nil
}

// LogStream is a CommitSource backed by a running git process
type LogStream struct {
	parser *Parser
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr *bytes.Buffer
	waited bool
}

// NextCommit returns the next commit from git. When the output is exhausted
// the exit status of git is checked.
func (s *LogStream) NextCommit(ctx context.Context) (*model.Commit, bool, error) {
	commit, ok, err := s.parser.NextCommit(ctx)
	if err != nil || ok {
		return commit, ok, err
	}

	if err := s.wait(); err != nil {
		return nil, false, goerr.Wrap(err, "git log failed",
			goerr.V("stderr", strings.TrimSpace(s.stderr.String())),
			goerr.T(types.ErrTagRepository))
	}
	return nil, false, nil
}

// Close stops git if it is still running
func (s *LogStream) Close() error {
	if s.waited {
		return nil
	}
	_ = s.stdout.Close()
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	_ = s.wait()
	return nil
}

func (s *LogStream) wait() error {
	if s.waited {
		return nil
	}
	s.waited = true
	return s.cmd.Wait()
}

// ReadFileAtCommit returns the content of path at commitID, or nil when the
// path does not exist in that commit.
func (r *Repository) ReadFileAtCommit(ctx context.Context, commitID, path string) ([]byte, error) {
	// git reports a missing path the same way for a commit it does not have,
	// so the commit is checked first.
	if err := r.verifyCommit(ctx, commitID); err != nil {
		return nil, goerr.Wrap(err, "failed to read file at commit", goerr.V("path", path))
	}

	cmd := exec.CommandContext(ctx, r.gitPath, "show", commitID+":"+path)
	cmd.Dir = r.dir

	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && isMissingPath(stderr.String()) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to read file at commit",
			goerr.V("commit", commitID),
			goerr.V("path", path),
			goerr.V("stderr", strings.TrimSpace(stderr.String())),
			goerr.T(types.ErrTagRepository))
	}

	if out == nil {
		out = []byte{}
	}
	return out, nil
}

func (r *Repository) verifyCommit(ctx context.Context, commitID string) error {
	r.knownMutex.Lock()
	_, ok := r.known[commitID]
	r.knownMutex.Unlock()
	if ok {
		return nil
	}

	cmd := exec.CommandContext(ctx, r.gitPath, "cat-file", "-e", commitID+"^{commit}")
	cmd.Dir = r.dir

	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return goerr.Wrap(err, "commit not found",
			goerr.V("commit", commitID),
			goerr.V("stderr", strings.TrimSpace(stderr.String())),
			goerr.T(types.ErrTagRepository))
	}

	r.knownMutex.Lock()
	r.known[commitID] = struct{}{}
	r.knownMutex.Unlock()
	return nil
}

// isMissingPath detects git's "path does not exist" family of messages, e.g.
// "fatal: path 'X' does not exist in 'abc'" or "fatal: path 'X' exists on
// disk, but not in 'abc'".
func isMissingPath(stderr string) bool {
	return strings.HasPrefix(strings.TrimSpace(stderr), "fatal: path")
}
