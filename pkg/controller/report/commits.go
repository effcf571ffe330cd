package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/m-mizutani/bound/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

const dateLayout = "2006-01-02 15:04:05 UTC"

// WriteCommit prints a parsed commit in a git log like listing
func WriteCommit(w io.Writer, commit *model.Commit) error {
	var b strings.Builder
	writeCommitHeader(&b, commit.ID, commit.Author, commit.Timestamp)
	for _, c := range commit.Changes {
		fmt.Fprintf(&b, "  %s: +%d -%d\n", c.Path, c.Insertions, c.Deletions)
	}
	b.WriteString("\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return goerr.Wrap(err, "failed to write commit", goerr.V("commit", commit.ID))
	}
	return nil
}

// WriteEnrichedCommit prints a commit with the owners of each change
func WriteEnrichedCommit(w io.Writer, commit *model.EnrichedCommit) error {
	var b strings.Builder
	writeCommitHeader(&b, commit.ID, commit.Author, commit.Timestamp)
	for _, c := range commit.Changes {
		owners := "None"
		if c.Owners != nil {
			owners = strings.Join(c.Owners, ", ")
		}
		fmt.Fprintf(&b, "  %s: +%d -%d (Codeowners: %s)\n", c.Path, c.Insertions, c.Deletions, owners)
	}
	b.WriteString("\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return goerr.Wrap(err, "failed to write commit", goerr.V("commit", commit.ID))
	}
	return nil
}

func writeCommitHeader(b *strings.Builder, id string, author model.Author, ts time.Time) {
	fmt.Fprintf(b, "Commit: %s\n", id)
	fmt.Fprintf(b, "Author: %s\n", author.String())
	fmt.Fprintf(b, "Date: %s\n", ts.UTC().Format(dateLayout))
	b.WriteString("Changes:\n")
}
