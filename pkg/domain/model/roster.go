package model

// Membership is one roster entry binding an author identity to an owner
// group. An empty AuthorEmail or AuthorName means the field is absent.
type Membership struct {
	AuthorEmail string `json:"author_email,omitempty"`
	AuthorName  string `json:"author_name,omitempty"`
	OwnerGroup  string `json:"owner_group"`
}

// GitHubUser is the subset of a GitHub profile used to build a roster
type GitHubUser struct {
	Login string
	Name  string
	Email string
}
