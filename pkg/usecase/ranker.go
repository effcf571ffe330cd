package usecase

import (
	"sort"

	"github.com/m-mizutani/bound/pkg/domain/model"
	"github.com/m-mizutani/bound/pkg/domain/types"
)

// Ranker turns accumulators into sorted report rows with top-N contributor
// lists
type Ranker struct {
	top int
}

// NewRanker creates a Ranker keeping top entries per list. A non-positive
// value falls back to types.DefaultTopN.
func NewRanker(top int) *Ranker {
	if top <= 0 {
		top = types.DefaultTopN
	}
	return &Ranker{top: top}
}

// Rank builds the full report of engine
func (r *Ranker) Rank(engine *AttributionEngine) *model.Report {
	return &model.Report{
		Adjusted:     engine.adjusted,
		Commits:      engine.commits,
		Owners:       r.RankOwners(engine),
		Contributors: r.RankContributors(engine),
	}
}

// RankOwners returns one row per owner group sorted by owner name
func (r *Ranker) RankOwners(engine *AttributionEngine) []model.OwnerReport {
	names := make([]string, 0, len(engine.owners))
	for name := range engine.owners {
		names = append(names, name)
	}
	sort.Strings(names)

	reports := make([]model.OwnerReport, 0, len(names))
	for _, name := range names {
		acc := engine.owners[name]
		report := model.OwnerReport{
			Owner:              name,
			InsertionsByTeam:   acc.insertionsByTeam,
			DeletionsByTeam:    acc.deletionsByTeam,
			CommitsByTeam:      acc.commitsByTeam,
			InsertionsByOthers: acc.insertionsByOthers,
			DeletionsByOthers:  acc.deletionsByOthers,
			CommitsByOthers:    acc.commitsByOthers,

			TopTeamByChanges:    r.topN(acc.team, func(t *tally) int { return t.changes }),
			TopTeamByCommits:    r.topN(acc.team, func(t *tally) int { return t.commits }),
			TopOutsideByChanges: r.topN(acc.outside, func(t *tally) int { return t.changes }),
			TopOutsideByCommits: r.topN(acc.outside, func(t *tally) int { return t.commits }),
		}

		if engine.adjusted {
			report.Adjusted = &model.OwnerAdjusted{
				ChangesByTeam:   acc.adjustedChangesByTeam,
				ChangesByOthers: acc.adjustedChangesByOthers,
				CommitsByTeam:   acc.adjustedCommitsByTeam,
				CommitsByOthers: acc.adjustedCommitsByOthers,
			}
		}

		reports = append(reports, report)
	}

	return reports
}

// RankContributors returns one row per contributor sorted by total commit
// rows, then author name and email
func (r *Ranker) RankContributors(engine *AttributionEngine) []model.ContributorReport {
	reports := make([]model.ContributorReport, 0, len(engine.contributors))

	for author, buckets := range engine.contributors {
		report := model.ContributorReport{
			Author: author,
			Owners: make([]model.OwnerContribution, 0, len(buckets)),
		}

		for owner, b := range buckets {
			contribution := model.OwnerContribution{
				Owner:      owner,
				Insertions: b.insertions,
				Deletions:  b.deletions,
				Commits:    b.commits,
			}
			if engine.adjusted {
				changes := b.adjustedChanges
				commits := b.adjustedCommits
				contribution.AdjustedChanges = &changes
				contribution.AdjustedCommits = &commits
			}

			report.TotalCommits += b.commits
			report.Owners = append(report.Owners, contribution)
		}

		sort.Slice(report.Owners, func(i, j int) bool {
			a, b := report.Owners[i], report.Owners[j]
			if a.Commits != b.Commits {
				return a.Commits > b.Commits
			}
			return a.Owner < b.Owner
		})

		reports = append(reports, report)
	}

	sort.Slice(reports, func(i, j int) bool {
		a, b := reports[i], reports[j]
		if a.TotalCommits != b.TotalCommits {
			return a.TotalCommits > b.TotalCommits
		}
		return a.Author.Less(b.Author)
	})

	return reports
}

func (r *Ranker) topN(pool map[model.Author]*tally, metric func(*tally) int) []model.ContributorMetric {
	metrics := make([]model.ContributorMetric, 0, len(pool))
	for author, t := range pool {
		metrics = append(metrics, model.ContributorMetric{Author: author, Value: metric(t)})
	}

	sort.Slice(metrics, func(i, j int) bool {
		a, b := metrics[i], metrics[j]
		if a.Value != b.Value {
			return a.Value > b.Value
		}
		return a.Author.Less(b.Author)
	})

	if len(metrics) > r.top {
		metrics = metrics[:r.top]
	}
	return metrics
}
