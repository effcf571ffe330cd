package model

import "github.com/hmarr/codeowners"

// RuleSet is an immutable, ordered set of ownership rules. The owners of a
// path are those of the last rule matching it.
type RuleSet struct {
	source string
	rules  codeowners.Ruleset
}

// NewRuleSet wraps parsed rules read from source
func NewRuleSet(source string, rules codeowners.Ruleset) *RuleSet {
	return &RuleSet{source: source, rules: rules}
}

// EmptyRuleSet is used when no ownership file exists. Every path is unowned.
func EmptyRuleSet() *RuleSet {
	return &RuleSet{}
}

// Source returns the path of the ownership file, empty for EmptyRuleSet
func (r *RuleSet) Source() string {
	return r.source
}

// Len returns the number of rules
func (r *RuleSet) Len() int {
	return len(r.rules)
}

// Match returns the owners of path. It returns nil when no rule matches and
// an empty, non-nil slice when the winning rule lists no owners.
func (r *RuleSet) Match(path string) []string {
	var rule *codeowners.Rule
	// A rule that fails to match is passed over so that it does not hide the
	// earlier rules.
	for i := len(r.rules) - 1; i >= 0; i-- {
		if ok, err := r.rules[i].Match(path); err == nil && ok {
			rule = &r.rules[i]
			break
		}
	}
	if rule == nil {
		return nil
	}

	owners := make([]string, 0, len(rule.Owners))
	for _, o := range rule.Owners {
		owners = append(owners, o.String())
	}
	return owners
}
