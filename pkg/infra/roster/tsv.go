package roster

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/m-mizutani/bound/pkg/domain/model"
	"github.com/m-mizutani/bound/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Header is the first line of every roster file
const Header = "author_email\tauthor_name\tcodeowner"

// Write encodes memberships as TSV. Absent email or name are written as
// empty fields.
func Write(w io.Writer, memberships []model.Membership) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(Header + "\n"); err != nil {
		return goerr.Wrap(err, "failed to write roster header")
	}

	for _, m := range memberships {
		for _, field := range []string{m.AuthorEmail, m.AuthorName, m.OwnerGroup} {
			if strings.ContainsAny(field, "\t\n\r") {
				return goerr.New("roster field contains a tab or newline",
					goerr.V("owner_group", m.OwnerGroup),
					goerr.V("field", field),
					goerr.T(types.ErrTagRoster))
			}
		}

		line := m.AuthorEmail + "\t" + m.AuthorName + "\t" + m.OwnerGroup + "\n"
		if _, err := bw.WriteString(line); err != nil {
			return goerr.Wrap(err, "failed to write roster entry")
		}
	}

	if err := bw.Flush(); err != nil {
		return goerr.Wrap(err, "failed to flush roster")
	}
	return nil
}

// Read decodes a roster written by Write. The first line is a header and is
// skipped. Any record without exactly three fields is an error.
func Read(r io.Reader) ([]model.Membership, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var memberships []model.Membership
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo == 1 {
			continue
		}

		line := strings.TrimSuffix(scanner.Text(), "\r")
		parts := strings.Split(line, "\t")
		if len(parts) != 3 {
			return nil, goerr.New("invalid roster line",
				goerr.V("line", lineNo),
				goerr.V("text", line),
				goerr.V("fields", len(parts)),
				goerr.T(types.ErrTagRoster))
		}

		memberships = append(memberships, model.Membership{
			AuthorEmail: parts[0],
			AuthorName:  parts[1],
			OwnerGroup:  parts[2],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to read roster", goerr.T(types.ErrTagRoster))
	}

	return memberships, nil
}

// ReadFile reads a roster from path
func ReadFile(path string) ([]model.Membership, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open roster", goerr.V("path", path), goerr.T(types.ErrTagRoster))
	}
	defer f.Close()

	memberships, err := Read(f)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse roster", goerr.V("path", path))
	}
	return memberships, nil
}

// WriteFile writes a roster to path, replacing any existing file
func WriteFile(path string, memberships []model.Membership) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return goerr.Wrap(err, "failed to create roster", goerr.V("path", path), goerr.T(types.ErrTagRoster))
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = goerr.Wrap(cerr, "failed to close roster", goerr.V("path", path))
		}
	}()

	if err := Write(f, memberships); err != nil {
		return goerr.Wrap(err, "failed to write roster", goerr.V("path", path))
	}
	return nil
}

// ErrEmptyOwnerGroup is returned by Validate
var ErrEmptyOwnerGroup = errors.New("roster entry has no owner group")

// Validate checks that every entry names an owner group
func Validate(memberships []model.Membership) error {
	for i, m := range memberships {
		if m.OwnerGroup == "" {
			return goerr.Wrap(ErrEmptyOwnerGroup, "invalid roster entry",
				goerr.V("index", i),
				goerr.V("author_email", m.AuthorEmail),
				goerr.V("author_name", m.AuthorName),
				goerr.T(types.ErrTagRoster))
		}
	}
	return nil
}
