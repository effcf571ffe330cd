package usecase

import (
	"context"

	"github.com/m-mizutani/bound/pkg/domain/interfaces"
	"github.com/m-mizutani/bound/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// Enricher pulls commits from a CommitSource and annotates each change with
// the owners in force at that commit and the author's membership in them.
type Enricher struct {
	source   interfaces.CommitSource
	resolver *OwnershipResolver
	members  interfaces.MembershipChecker
}

// NewEnricher creates an Enricher. members may be nil when no roster is
// available; every author is then treated as an outsider.
func NewEnricher(source interfaces.CommitSource, resolver *OwnershipResolver, members interfaces.MembershipChecker) *Enricher {
	return &Enricher{
		source:   source,
		resolver: resolver,
		members:  members,
	}
}

// NextEnriched returns the next enriched commit, or false when the history is
// exhausted
func (e *Enricher) NextEnriched(ctx context.Context) (*model.EnrichedCommit, bool, error) {
	commit, ok, err := e.source.NextCommit(ctx)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	rules, err := e.resolver.Resolve(ctx, commit)
	if err != nil {
		return nil, false, goerr.Wrap(err, "failed to resolve ownership", goerr.V("commit", commit.ID))
	}

	return Enrich(commit, rules, e.members), true, nil
}

// Enrich annotates commit with the owners from rules. Owners listed twice by
// a rule are kept once.
func Enrich(commit *model.Commit, rules *model.RuleSet, members interfaces.MembershipChecker) *model.EnrichedCommit {
	enriched := &model.EnrichedCommit{
		ID:            commit.ID,
		Author:        commit.Author,
		Timestamp:     commit.Timestamp,
		OwnershipFile: rules.Source(),
		Changes:       make([]model.EnrichedChange, 0, len(commit.Changes)),
	}

	for _, change := range commit.Changes {
		owners := uniqueOwners(rules.Match(change.Path))

		var flags map[string]bool
		if members != nil {
			flags = make(map[string]bool, len(owners))
			for _, owner := range owners {
				flags[owner] = members.IsMember(commit.Author.Name, commit.Author.Email, owner)
			}
		}

		enriched.Changes = append(enriched.Changes, model.EnrichedChange{
			FileChange:    change,
			Owners:        owners,
			AuthorIsOwner: flags,
		})
	}

	return enriched
}

func uniqueOwners(owners []string) []string {
	if len(owners) < 2 {
		return owners
	}

	seen := make(map[string]struct{}, len(owners))
	result := owners[:0:0]
	for _, o := range owners {
		if _, ok := seen[o]; ok {
			continue
		}
		seen[o] = struct{}{}
		result = append(result, o)
	}
	return result
}
