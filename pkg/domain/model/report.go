package model

// ContributorMetric is one row of a ranked contributor list
type ContributorMetric struct {
	Author Author `json:"author"`
	Value  int    `json:"value"`
}

// OwnerAdjusted holds insertion-proportional totals of an owner group
type OwnerAdjusted struct {
	ChangesByTeam   int     `json:"changes_by_team"`
	ChangesByOthers int     `json:"changes_by_others"`
	CommitsByTeam   float64 `json:"commits_by_team"`
	CommitsByOthers float64 `json:"commits_by_others"`
}

// OwnerReport summarizes the changes made under one owner group
type OwnerReport struct {
	Owner string `json:"owner"`

	InsertionsByTeam int `json:"insertions_by_team"`
	DeletionsByTeam  int `json:"deletions_by_team"`
	CommitsByTeam    int `json:"commits_by_team"`

	InsertionsByOthers int `json:"insertions_by_others"`
	DeletionsByOthers  int `json:"deletions_by_others"`
	CommitsByOthers    int `json:"commits_by_others"`

	// Adjusted is nil unless adjusted mode is enabled
	Adjusted *OwnerAdjusted `json:"adjusted,omitempty"`

	TopTeamByChanges    []ContributorMetric `json:"top_team_contributors_by_changes"`
	TopTeamByCommits    []ContributorMetric `json:"top_team_contributors_by_commits"`
	TopOutsideByChanges []ContributorMetric `json:"top_outside_contributors_by_changes"`
	TopOutsideByCommits []ContributorMetric `json:"top_outside_contributors_by_commits"`
}

// OwnerContribution is a contributor's work under one owner group
type OwnerContribution struct {
	Owner      string `json:"owner"`
	Insertions int    `json:"insertions"`
	Deletions  int    `json:"deletions"`
	Commits    int    `json:"commits"`

	AdjustedChanges *int     `json:"adjusted_changes,omitempty"`
	AdjustedCommits *float64 `json:"adjusted_commits,omitempty"`
}

// ContributorReport breaks down one contributor's work by owner group
type ContributorReport struct {
	Author       Author              `json:"author"`
	TotalCommits int                 `json:"total_commits"`
	Owners       []OwnerContribution `json:"owners"`
}

// Report is the result of one analysis run
type Report struct {
	Adjusted     bool                `json:"adjusted"`
	Commits      int                 `json:"commits"`
	Owners       []OwnerReport       `json:"owners,omitempty"`
	Contributors []ContributorReport `json:"contributors,omitempty"`
}
