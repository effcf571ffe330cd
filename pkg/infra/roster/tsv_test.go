package roster_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/bound/pkg/domain/model"
	"github.com/m-mizutani/bound/pkg/domain/types"
	"github.com/m-mizutani/bound/pkg/infra/roster"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

var sample = []model.Membership{
	{AuthorEmail: "alice@example.com", AuthorName: "Alice", OwnerGroup: "@org/core"},
	{AuthorEmail: "", AuthorName: "Bob", OwnerGroup: "@org/core"},
	{AuthorEmail: "carol@example.com", AuthorName: "", OwnerGroup: "@org/web"},
	{AuthorEmail: "", AuthorName: "", OwnerGroup: "@org/empty"},
}

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	gt.NoError(t, roster.Write(&buf, sample)).Required()

	got, err := roster.Read(&buf)
	gt.NoError(t, err).Required()
	gt.V(t, got).Equal(sample)
}

func TestWrite_Format(t *testing.T) {
	var buf bytes.Buffer
	gt.NoError(t, roster.Write(&buf, sample[:2])).Required()

	gt.V(t, buf.String()).Equal(
		"author_email\tauthor_name\tcodeowner\n" +
			"alice@example.com\tAlice\t@org/core\n" +
			"\tBob\t@org/core\n")
}

func TestWrite_RejectsSeparators(t *testing.T) {
	var buf bytes.Buffer
	err := roster.Write(&buf, []model.Membership{
		{AuthorName: "Tab\tName", OwnerGroup: "@org/core"},
	})
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagRoster))
}

func TestRead(t *testing.T) {
	t.Run("header only", func(t *testing.T) {
		got, err := roster.Read(strings.NewReader(roster.Header + "\n"))
		gt.NoError(t, err)
		gt.A(t, got).Length(0)
	})

	t.Run("CRLF line endings", func(t *testing.T) {
		got, err := roster.Read(strings.NewReader(roster.Header + "\r\na@example.com\tA\t@org/x\r\n"))
		gt.NoError(t, err).Required()
		gt.V(t, got).Equal([]model.Membership{
			{AuthorEmail: "a@example.com", AuthorName: "A", OwnerGroup: "@org/x"},
		})
	})

	t.Run("wrong field count", func(t *testing.T) {
		input := roster.Header + "\na@example.com\tA\t@org/x\nbroken line\n"
		_, err := roster.Read(strings.NewReader(input))
		gt.Error(t, err).Required()
		gt.String(t, err.Error()).Contains("invalid roster line")
		gt.True(t, goerr.HasTag(err, types.ErrTagRoster))
	})

	t.Run("too many fields", func(t *testing.T) {
		input := roster.Header + "\na\tb\tc\td\n"
		_, err := roster.Read(strings.NewReader(input))
		gt.Error(t, err)
	})
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.tsv")
	gt.NoError(t, roster.WriteFile(path, sample)).Required()

	got, err := roster.ReadFile(path)
	gt.NoError(t, err).Required()
	gt.V(t, got).Equal(sample)

	_, err = roster.ReadFile(filepath.Join(t.TempDir(), "missing.tsv"))
	gt.Error(t, err)
}

func TestValidate(t *testing.T) {
	gt.NoError(t, roster.Validate(sample))

	err := roster.Validate([]model.Membership{{AuthorName: "Alice"}})
	gt.Error(t, err)
	gt.True(t, errors.Is(err, roster.ErrEmptyOwnerGroup))
}
