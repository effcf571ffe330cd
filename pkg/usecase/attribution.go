package usecase

import (
	"github.com/m-mizutani/bound/pkg/domain/model"
	"github.com/m-mizutani/bound/pkg/domain/types"
)

type tally struct {
	changes int
	commits int
}

type ownerAccumulator struct {
	insertionsByTeam int
	deletionsByTeam  int
	commitsByTeam    int

	insertionsByOthers int
	deletionsByOthers  int
	commitsByOthers    int

	adjustedChangesByTeam   int
	adjustedChangesByOthers int
	adjustedCommitsByTeam   float64
	adjustedCommitsByOthers float64

	team    map[model.Author]*tally
	outside map[model.Author]*tally
}

func newOwnerAccumulator() *ownerAccumulator {
	return &ownerAccumulator{
		team:    make(map[model.Author]*tally),
		outside: make(map[model.Author]*tally),
	}
}

func (a *ownerAccumulator) add(author model.Author, change *model.EnrichedChange, team bool) {
	pool := a.outside
	if team {
		a.insertionsByTeam += change.Insertions
		a.deletionsByTeam += change.Deletions
		a.commitsByTeam++
		pool = a.team
	} else {
		a.insertionsByOthers += change.Insertions
		a.deletionsByOthers += change.Deletions
		a.commitsByOthers++
	}

	t, ok := pool[author]
	if !ok {
		t = &tally{}
		pool[author] = t
	}
	t.changes += change.Insertions + change.Deletions
	t.commits++
}

type contributorBucket struct {
	insertions      int
	deletions       int
	commits         int
	adjustedChanges int
	adjustedCommits float64
}

// AttributionEngine folds enriched commits into per-owner and per-contributor
// accumulators. It is not safe for concurrent use.
type AttributionEngine struct {
	adjusted bool
	commits  int

	owners       map[string]*ownerAccumulator
	contributors map[model.Author]map[string]*contributorBucket
}

// NewAttributionEngine creates an engine. adjusted enables insertion
// proportional weighting.
func NewAttributionEngine(adjusted bool) *AttributionEngine {
	return &AttributionEngine{
		adjusted:     adjusted,
		owners:       make(map[string]*ownerAccumulator),
		contributors: make(map[model.Author]map[string]*contributorBucket),
	}
}

// Commits returns the number of applied commits
func (e *AttributionEngine) Commits() int {
	return e.commits
}

// Apply adds commit to the accumulators. Every owner of a change is credited
// with the full insertion and deletion counts.
func (e *AttributionEngine) Apply(commit *model.EnrichedCommit) {
	e.commits++

	var (
		ownerIns    map[string]int
		ownerTotal  int
		bucketIns   map[string]int
		bucketTotal int
	)
	if e.adjusted {
		ownerIns = make(map[string]int)
		bucketIns = make(map[string]int)
		for i := range commit.Changes {
			change := &commit.Changes[i]
			for _, owner := range change.Owners {
				ownerIns[owner] += change.Insertions
				ownerTotal += change.Insertions
			}
			bucketIns[bucketOf(change)] += change.Insertions
			bucketTotal += change.Insertions
		}
	}

	weightedOwners := make(map[string]struct{})
	weightedBuckets := make(map[string]struct{})

	for i := range commit.Changes {
		change := &commit.Changes[i]

		for _, owner := range change.Owners {
			acc := e.owner(owner)
			team := change.IsTeamChange(owner)
			acc.add(commit.Author, change, team)

			if !e.adjusted {
				continue
			}

			var weight float64
			if _, done := weightedOwners[owner]; !done {
				weightedOwners[owner] = struct{}{}
				weight = share(ownerIns[owner], ownerTotal)
			}
			if team {
				acc.adjustedChangesByTeam += change.Insertions
				acc.adjustedCommitsByTeam += weight
			} else {
				acc.adjustedChangesByOthers += change.Insertions
				acc.adjustedCommitsByOthers += weight
			}
		}

		bucket := bucketOf(change)
		b := e.bucket(commit.Author, bucket)
		b.insertions += change.Insertions
		b.deletions += change.Deletions
		b.commits++

		if e.adjusted {
			b.adjustedChanges += change.Insertions
			if _, done := weightedBuckets[bucket]; !done {
				weightedBuckets[bucket] = struct{}{}
				b.adjustedCommits += share(bucketIns[bucket], bucketTotal)
			}
		}
	}
}

func (e *AttributionEngine) owner(name string) *ownerAccumulator {
	acc, ok := e.owners[name]
	if !ok {
		acc = newOwnerAccumulator()
		e.owners[name] = acc
	}
	return acc
}

func (e *AttributionEngine) bucket(author model.Author, owner string) *contributorBucket {
	buckets, ok := e.contributors[author]
	if !ok {
		buckets = make(map[string]*contributorBucket)
		e.contributors[author] = buckets
	}
	b, ok := buckets[owner]
	if !ok {
		b = &contributorBucket{}
		buckets[owner] = b
	}
	return b
}

// bucketOf returns the owner group a change is credited to in the contributor
// view: its first owner, or the unowned group.
func bucketOf(change *model.EnrichedChange) string {
	if len(change.Owners) == 0 {
		return types.UnownedGroup
	}
	return change.Owners[0]
}

func share(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total)
}
