package usecase

import (
	"context"
	"strings"

	"github.com/hmarr/codeowners"
	"github.com/m-mizutani/bound/pkg/domain/interfaces"
	"github.com/m-mizutani/bound/pkg/domain/model"
	"github.com/m-mizutani/bound/pkg/domain/types"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// OwnershipResolver returns the ownership rules in force at each commit of a
// single ordered traversal. The parsed rule set is cached and only rebuilt
// when an ownership file location shows up in a commit's change list.
//
// A resolver belongs to one traversal; commits must be passed in history
// order, never concurrently.
type OwnershipResolver struct {
	reader    interfaces.FileReader
	locations []string
	order     model.Order

	rules      *model.RuleSet
	lastCommit string
	// stale is set in newest-first traversal after a commit that changed an
	// ownership file: older commits need the previous content.
	stale   bool
	fetches int
}

// ResolverOption configures OwnershipResolver
type ResolverOption func(*OwnershipResolver)

// WithOwnershipFiles replaces the ownership file locations, in lookup
// priority order
func WithOwnershipFiles(locations []string) ResolverOption {
	return func(r *OwnershipResolver) {
		r.locations = locations
	}
}

// WithTraversalOrder tells the resolver in which direction commits arrive
func WithTraversalOrder(order model.Order) ResolverOption {
	return func(r *OwnershipResolver) {
		r.order = order
	}
}

// NewOwnershipResolver creates a resolver reading ownership files via reader
func NewOwnershipResolver(reader interfaces.FileReader, opts ...ResolverOption) *OwnershipResolver {
	r := &OwnershipResolver{
		reader:    reader,
		locations: types.DefaultOwnershipFiles,
		order:     model.OrderOldestFirst,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the rule set in force at commit
func (r *OwnershipResolver) Resolve(ctx context.Context, commit *model.Commit) (*model.RuleSet, error) {
	touched := commit.Touches(r.locations)

	refetch := r.rules == nil || r.stale
	if touched && r.order != model.OrderNewestFirst {
		refetch = true
	}

	if refetch {
		rules, err := LoadRuleSet(ctx, r.reader, commit.ID, r.locations)
		if err != nil {
			return nil, err
		}

		ctxlog.From(ctx).Debug("ownership rules loaded",
			"commit", commit.ID,
			"source", rules.Source(),
			"rules", rules.Len(),
		)
		r.rules = rules
		r.stale = false
		r.fetches++
	}

	if touched && r.order == model.OrderNewestFirst {
		r.stale = true
	}

	r.lastCommit = commit.ID
	return r.rules, nil
}

// Fetches returns how many times the ownership file has been loaded
func (r *OwnershipResolver) Fetches() int {
	return r.fetches
}

// LastCommit returns the id of the last resolved commit
func (r *OwnershipResolver) LastCommit() string {
	return r.lastCommit
}

// LoadOwnershipFile returns the content of the first existing location at
// commitID and that location. Both are empty when no location exists.
func LoadOwnershipFile(ctx context.Context, reader interfaces.FileReader, commitID string, locations []string) ([]byte, string, error) {
	for _, location := range locations {
		content, err := reader.ReadFileAtCommit(ctx, commitID, location)
		if err != nil {
			return nil, "", goerr.Wrap(err, "failed to read ownership file",
				goerr.V("commit", commitID),
				goerr.V("path", location),
				goerr.T(types.ErrTagRepository))
		}
		if content != nil {
			return content, location, nil
		}
	}
	return nil, "", nil
}

// LoadRuleSet loads and parses the ownership file in force at commitID. A
// missing file yields an empty rule set.
func LoadRuleSet(ctx context.Context, reader interfaces.FileReader, commitID string, locations []string) (*model.RuleSet, error) {
	content, location, err := LoadOwnershipFile(ctx, reader, commitID, locations)
	if err != nil {
		return nil, err
	}
	if location == "" {
		return model.EmptyRuleSet(), nil
	}
	return ParseRuleSet(ctx, location, content), nil
}

// ParseRuleSet parses CODEOWNERS content line by line. Lines that fail to
// parse are logged and skipped so that one bad rule in an old revision does
// not abort the run.
func ParseRuleSet(ctx context.Context, source string, content []byte) *model.RuleSet {
	logger := ctxlog.From(ctx)

	var rules codeowners.Ruleset
	for i, line := range strings.Split(string(content), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		parsed, err := codeowners.ParseFile(strings.NewReader(trimmed))
		if err != nil {
			logger.Warn("skipping invalid ownership rule",
				"source", source,
				"line", i+1,
				"text", trimmed,
				"error", err,
			)
			continue
		}
		rules = append(rules, parsed...)
	}

	return model.NewRuleSet(source, rules)
}
