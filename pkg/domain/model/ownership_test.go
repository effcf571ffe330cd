package model_test

import (
	"strings"
	"testing"

	"github.com/hmarr/codeowners"
	"github.com/m-mizutani/bound/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

func TestRuleSet_Match(t *testing.T) {
	content := strings.Join([]string{
		"# default owners",
		"*       @org/platform",
		"*.go    @org/backend @org/reviewers",
		"/docs/  @org/docs",
		"/docs/generated/",
	}, "\n")

	rules, err := codeowners.ParseFile(strings.NewReader(content))
	gt.NoError(t, err).Required()

	rs := model.NewRuleSet("CODEOWNERS", rules)
	gt.V(t, rs.Source()).Equal("CODEOWNERS")
	gt.V(t, rs.Len()).Equal(4)

	t.Run("last matching rule wins", func(t *testing.T) {
		gt.V(t, rs.Match("cmd/main.go")).Equal([]string{"@org/backend", "@org/reviewers"})
		gt.V(t, rs.Match("README.md")).Equal([]string{"@org/platform"})
		gt.V(t, rs.Match("docs/index.md")).Equal([]string{"@org/docs"})
	})

	t.Run("winning rule without owners", func(t *testing.T) {
		owners := rs.Match("docs/generated/api.md")
		gt.V(t, owners == nil).Equal(false)
		gt.A(t, owners).Length(0)
	})
}

func TestRuleSet_NoMatch(t *testing.T) {
	rules, err := codeowners.ParseFile(strings.NewReader("/src/ @org/src\n"))
	gt.NoError(t, err).Required()

	rs := model.NewRuleSet("CODEOWNERS", rules)
	gt.V(t, rs.Match("README.md") == nil).Equal(true)
}

func TestEmptyRuleSet(t *testing.T) {
	rs := model.EmptyRuleSet()
	gt.V(t, rs.Source()).Equal("")
	gt.V(t, rs.Len()).Equal(0)
	gt.V(t, rs.Match("anything.go") == nil).Equal(true)
}
