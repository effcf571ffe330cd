package usecase

import (
	"strings"

	"github.com/m-mizutani/bound/pkg/domain/model"
)

// MembershipIndex answers whether an author belongs to an owner group. An
// author matches a roster entry when the email OR the name is equal, ignoring
// case. It is read-only after construction.
type MembershipIndex struct {
	byEmail map[string]map[string]struct{}
	byName  map[string]map[string]struct{}
}

// NewMembershipIndex indexes a roster
func NewMembershipIndex(memberships []model.Membership) *MembershipIndex {
	x := &MembershipIndex{
		byEmail: make(map[string]map[string]struct{}),
		byName:  make(map[string]map[string]struct{}),
	}

	for _, m := range memberships {
		if m.AuthorEmail != "" {
			addGroup(x.byEmail, strings.ToLower(m.AuthorEmail), m.OwnerGroup)
		}
		if m.AuthorName != "" {
			addGroup(x.byName, strings.ToLower(m.AuthorName), m.OwnerGroup)
		}
	}
	return x
}

func addGroup(index map[string]map[string]struct{}, key, group string) {
	groups, ok := index[key]
	if !ok {
		groups = make(map[string]struct{})
		index[key] = groups
	}
	groups[group] = struct{}{}
}

// IsMember reports whether the author is a member of ownerGroup
func (x *MembershipIndex) IsMember(authorName, authorEmail, ownerGroup string) bool {
	if authorEmail != "" {
		if _, ok := x.byEmail[strings.ToLower(authorEmail)][ownerGroup]; ok {
			return true
		}
	}
	if authorName != "" {
		if _, ok := x.byName[strings.ToLower(authorName)][ownerGroup]; ok {
			return true
		}
	}
	return false
}
