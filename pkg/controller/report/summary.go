package report

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/m-mizutani/bound/pkg/domain/model"
)

// Summary returns a short plain text digest of report for chat notifications
func Summary(report *model.Report, view View, location string) string {
	var b strings.Builder

	switch view {
	case ViewContributors:
		fmt.Fprintf(&b, "bound contributors report: %s commits, %s contributors",
			humanize.Comma(int64(report.Commits)), humanize.Comma(int64(len(report.Contributors))))
		for i, c := range report.Contributors {
			if i == 3 {
				break
			}
			fmt.Fprintf(&b, "\n• %s: %s commits", c.Author.String(), humanize.Comma(int64(c.TotalCommits)))
		}

	default:
		fmt.Fprintf(&b, "bound owners report: %s commits, %s owner groups",
			humanize.Comma(int64(report.Commits)), humanize.Comma(int64(len(report.Owners))))
		for _, o := range report.Owners {
			team := o.InsertionsByTeam + o.DeletionsByTeam
			others := o.InsertionsByOthers + o.DeletionsByOthers
			fmt.Fprintf(&b, "\n• %s: team %s / others %s changed lines",
				o.Owner, humanize.Comma(int64(team)), humanize.Comma(int64(others)))
		}
	}

	if location != "" {
		fmt.Fprintf(&b, "\n%s", location)
	}
	return b.String()
}
