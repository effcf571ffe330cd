package model

import (
	"strings"
	"time"
)

// Author identifies a commit author as recorded by git
type Author struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// String renders the author as "Name <email>"
func (a Author) String() string {
	return a.Name + " <" + a.Email + ">"
}

// Less orders authors by name, then email
func (a Author) Less(b Author) bool {
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.Email < b.Email
}

// FileChange is one numstat row of a commit
type FileChange struct {
	Path       string `json:"path"`
	Insertions int    `json:"insertions"`
	Deletions  int    `json:"deletions"`
}

// Commit is a single non-merge commit with its per-file changes
type Commit struct {
	ID        string       `json:"id"`
	Author    Author       `json:"author"`
	Timestamp time.Time    `json:"timestamp"`
	Changes   []FileChange `json:"changes"`
}

// Touches reports whether any change of the commit is exactly one of paths
func (c *Commit) Touches(paths []string) bool {
	for _, change := range c.Changes {
		for _, p := range paths {
			if change.Path == p {
				return true
			}
		}
	}
	return false
}

// EnrichedChange is a FileChange annotated with its owners and, when a roster
// is available, whether the commit author belongs to each owner group.
type EnrichedChange struct {
	FileChange
	Owners []string `json:"owners"`
	// AuthorIsOwner is nil when no roster was supplied.
	AuthorIsOwner map[string]bool `json:"author_is_owner,omitempty"`
}

// IsTeamChange reports whether the author is a member of owner. Without a
// roster every author is an outsider.
func (c *EnrichedChange) IsTeamChange(owner string) bool {
	return c.AuthorIsOwner[owner]
}

// EnrichedCommit is a Commit whose changes carry ownership data
type EnrichedCommit struct {
	ID        string    `json:"id"`
	Author    Author    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
	// OwnershipFile is the location of the ownership file in force, empty if
	// none existed up to this commit.
	OwnershipFile string           `json:"ownership_file,omitempty"`
	Changes       []EnrichedChange `json:"changes"`
}

// Order is the traversal direction of the commit history
type Order string

const (
	OrderOldestFirst Order = "oldest"
	OrderNewestFirst Order = "newest"
)

// ParseOrder converts a user supplied order name
func ParseOrder(s string) (Order, bool) {
	switch Order(strings.ToLower(s)) {
	case OrderOldestFirst:
		return OrderOldestFirst, true
	case OrderNewestFirst:
		return OrderNewestFirst, true
	default:
		return "", false
	}
}
