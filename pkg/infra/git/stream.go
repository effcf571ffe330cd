package git

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/bound/pkg/domain/model"
	"github.com/m-mizutani/bound/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// CommitSentinel starts every commit block of the log format
const CommitSentinel = "COMMIT"

// LogFormat makes git log emit the block layout understood by Parser
const LogFormat = "--format=" + CommitSentinel + "%n%H%n%at%n%an%n%ae"

// Parser decodes `git log --numstat` output written with LogFormat into
// commits. It reads lazily and cannot be rewound. Structural problems end
// the sequence with an error; unparsable numstat counts (binary files)
// become zero.
type Parser struct {
	reader *bufio.Reader
	lineNo int

	pending    string
	hasPending bool

	err  error
	done bool
}

// NewParser creates a parser reading from r
func NewParser(r io.Reader) *Parser {
	return &Parser{reader: bufio.NewReader(r)}
}

// NextCommit returns the next commit. It returns false when the input is
// exhausted. After an error every call returns the same error.
func (p *Parser) NextCommit(ctx context.Context) (*model.Commit, bool, error) {
	if p.err != nil {
		return nil, false, p.err
	}
	if p.done {
		return nil, false, nil
	}
	if err := ctx.Err(); err != nil {
		p.err = goerr.Wrap(err, "commit stream interrupted")
		return nil, false, p.err
	}

	commit, err := p.parseCommit()
	if err != nil {
		p.err = err
		return nil, false, err
	}
	if commit == nil {
		p.done = true
		return nil, false, nil
	}
	return commit, true, nil
}

func (p *Parser) parseCommit() (*model.Commit, error) {
	line, ok, err := p.next()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	if line != CommitSentinel {
		return nil, p.structuralError("expected commit sentinel", line)
	}

	var header [4]string
	for i := range header {
		line, ok, err := p.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, goerr.New("unexpected end of input in commit header",
				goerr.V("line", p.lineNo),
				goerr.V("missing_fields", len(header)-i),
				goerr.T(types.ErrTagIngestion))
		}
		header[i] = line
	}

	ts, err := strconv.ParseInt(strings.TrimSpace(header[1]), 10, 64)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid commit timestamp",
			goerr.V("line", p.lineNo-2),
			goerr.V("commit", header[0]),
			goerr.V("text", header[1]),
			goerr.T(types.ErrTagIngestion))
	}

	commit := &model.Commit{
		ID: header[0],
		Author: model.Author{
			Name:  header[2],
			Email: header[3],
		},
		Timestamp: time.Unix(ts, 0).UTC(),
	}

	// Optional blank separator between header and numstat rows. Commits
	// without changes go straight to the next sentinel.
	line, ok, err = p.next()
	if err != nil {
		return nil, err
	}
	if !ok {
		return commit, nil
	}
	switch {
	case strings.TrimSpace(line) == "":
	case line == CommitSentinel:
		p.unread(line)
		return commit, nil
	default:
		return nil, p.structuralError("expected blank line after commit header", line)
	}

	for {
		line, ok, err := p.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return commit, nil
		}
		if line == CommitSentinel {
			p.unread(line)
			return commit, nil
		}

		change, err := p.parseChange(line)
		if err != nil {
			return nil, err
		}
		commit.Changes = append(commit.Changes, *change)
	}
}

func (p *Parser) parseChange(line string) (*model.FileChange, error) {
	parts := strings.Split(line, "\t")
	if len(parts) != 3 {
		return nil, p.structuralError("invalid file change line", line)
	}

	return &model.FileChange{
		Insertions: parseCount(parts[0]),
		Deletions:  parseCount(parts[1]),
		Path:       parts[2],
	}, nil
}

// parseCount returns 0 for anything that is not a non-negative integer,
// e.g. "-" reported by numstat for binary files.
func parseCount(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func (p *Parser) structuralError(msg, line string) error {
	return goerr.New(msg,
		goerr.V("line", p.lineNo),
		goerr.V("text", line),
		goerr.T(types.ErrTagIngestion))
}

func (p *Parser) unread(line string) {
	p.pending = line
	p.hasPending = true
}

func (p *Parser) next() (string, bool, error) {
	if p.hasPending {
		p.hasPending = false
		return p.pending, true, nil
	}

	line, err := p.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, goerr.Wrap(err, "failed to read commit stream",
			goerr.V("line", p.lineNo+1),
			goerr.T(types.ErrTagIngestion))
	}
	if line == "" && err != nil {
		return "", false, nil
	}

	p.lineNo++
	return strings.TrimRight(line, "\r\n"), true, nil
}
