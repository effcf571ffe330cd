package interfaces

import (
	"context"

	"github.com/m-mizutani/bound/pkg/domain/model"
)

// CommitSource is a pull-based, single-pass, ordered commit enumerator.
// NextCommit returns false once the history is exhausted.
type CommitSource interface {
	NextCommit(ctx context.Context) (*model.Commit, bool, error)
}

// FileReader reads repository content at a given commit. A nil slice with a
// nil error means path did not exist at that commit.
type FileReader interface {
	ReadFileAtCommit(ctx context.Context, commitID, path string) ([]byte, error)
}

// MembershipChecker answers whether an author belongs to an owner group
type MembershipChecker interface {
	IsMember(authorName, authorEmail, ownerGroup string) bool
}
