package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/m-mizutani/bound/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// Renderer writes reports and commit listings
type Renderer struct {
	format Format
	color  bool
}

// Option configures Renderer
type Option func(*Renderer)

// WithColor enables colored headings in text output
func WithColor(enabled bool) Option {
	return func(r *Renderer) {
		r.color = enabled
	}
}

// NewRenderer creates a Renderer for format
func NewRenderer(format Format, opts ...Option) *Renderer {
	r := &Renderer{format: format}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render writes the selected view of report to w
func (r *Renderer) Render(w io.Writer, report *model.Report, view View) error {
	switch r.format {
	case FormatJSON:
		return r.renderJSON(w, report, view)
	case FormatTSV:
		if view == ViewContributors {
			return writeContributorsTSV(w, report)
		}
		return writeOwnersTSV(w, report)
	default:
		if view == ViewContributors {
			return r.writeContributorsText(w, report)
		}
		return r.writeOwnersText(w, report)
	}
}

func (r *Renderer) renderJSON(w io.Writer, report *model.Report, view View) error {
	out := model.Report{
		Adjusted: report.Adjusted,
		Commits:  report.Commits,
	}
	if view == ViewContributors {
		out.Contributors = report.Contributors
	} else {
		out.Owners = report.Owners
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(out); err != nil {
		return goerr.Wrap(err, "failed to encode report")
	}
	return nil
}

func (r *Renderer) heading(w io.Writer, format string, args ...any) {
	c := color.New(color.Bold, color.FgCyan)
	if r.color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	_, _ = c.Fprintf(w, format, args...)
	_, _ = fmt.Fprintln(w)
}

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	return tbl
}

func (r *Renderer) writeOwnersText(w io.Writer, report *model.Report) error {
	r.heading(w, "Owners (%s commits)", humanize.Comma(int64(report.Commits)))

	for _, o := range report.Owners {
		_, _ = fmt.Fprintln(w)
		r.heading(w, "%s", o.Owner)

		summary := newTable()
		header := table.Row{"", "Insertions", "Deletions", "Commits"}
		if o.Adjusted != nil {
			header = append(header, "Adj. Changes", "Adj. Commits")
		}
		summary.AppendHeader(header)

		team := table.Row{"team", humanize.Comma(int64(o.InsertionsByTeam)), humanize.Comma(int64(o.DeletionsByTeam)), humanize.Comma(int64(o.CommitsByTeam))}
		others := table.Row{"others", humanize.Comma(int64(o.InsertionsByOthers)), humanize.Comma(int64(o.DeletionsByOthers)), humanize.Comma(int64(o.CommitsByOthers))}
		if o.Adjusted != nil {
			team = append(team, humanize.Comma(int64(o.Adjusted.ChangesByTeam)), formatWeight(o.Adjusted.CommitsByTeam))
			others = append(others, humanize.Comma(int64(o.Adjusted.ChangesByOthers)), formatWeight(o.Adjusted.CommitsByOthers))
		}
		summary.AppendRow(team)
		summary.AppendRow(others)
		_, _ = fmt.Fprintln(w, summary.Render())

		r.writeRanking(w, "Top team contributors by changes", o.TopTeamByChanges)
		r.writeRanking(w, "Top team contributors by commits", o.TopTeamByCommits)
		r.writeRanking(w, "Top outside contributors by changes", o.TopOutsideByChanges)
		r.writeRanking(w, "Top outside contributors by commits", o.TopOutsideByCommits)
	}

	return nil
}

// writeRanking prints the list name as a heading. A table title would be
// wrapped to the table width and split long names.
func (r *Renderer) writeRanking(w io.Writer, title string, metrics []model.ContributorMetric) {
	if len(metrics) == 0 {
		return
	}

	r.heading(w, "%s", title)
	tbl := newTable()
	tbl.AppendHeader(table.Row{"#", "Author", "Value"})
	for i, m := range metrics {
		tbl.AppendRow(table.Row{i + 1, m.Author.String(), humanize.Comma(int64(m.Value))})
	}
	_, _ = fmt.Fprintln(w, tbl.Render())
}

func (r *Renderer) writeContributorsText(w io.Writer, report *model.Report) error {
	r.heading(w, "Contributors (%s commits)", humanize.Comma(int64(report.Commits)))

	for _, c := range report.Contributors {
		_, _ = fmt.Fprintln(w)
		r.heading(w, "%s: %s commits", c.Author.String(), humanize.Comma(int64(c.TotalCommits)))

		tbl := newTable()
		header := table.Row{"Owner", "Insertions", "Deletions", "Commits"}
		if report.Adjusted {
			header = append(header, "Adj. Changes", "Adj. Commits")
		}
		tbl.AppendHeader(header)

		for _, o := range c.Owners {
			row := table.Row{o.Owner, humanize.Comma(int64(o.Insertions)), humanize.Comma(int64(o.Deletions)), humanize.Comma(int64(o.Commits))}
			if o.AdjustedChanges != nil && o.AdjustedCommits != nil {
				row = append(row, humanize.Comma(int64(*o.AdjustedChanges)), formatWeight(*o.AdjustedCommits))
			}
			tbl.AppendRow(row)
		}
		_, _ = fmt.Fprintln(w, tbl.Render())
	}

	return nil
}

func formatWeight(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

func tsvFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func writeTSVLine(w io.Writer, fields ...string) error {
	if _, err := io.WriteString(w, strings.Join(fields, "\t")+"\n"); err != nil {
		return goerr.Wrap(err, "failed to write report line")
	}
	return nil
}

func writeOwnersTSV(w io.Writer, report *model.Report) error {
	header := []string{
		"owner",
		"insertions_by_team", "deletions_by_team", "commits_by_team",
		"insertions_by_others", "deletions_by_others", "commits_by_others",
	}
	if report.Adjusted {
		header = append(header,
			"adjusted_changes_by_team", "adjusted_changes_by_others",
			"adjusted_commits_by_team", "adjusted_commits_by_others")
	}
	if err := writeTSVLine(w, header...); err != nil {
		return err
	}

	for _, o := range report.Owners {
		fields := []string{
			o.Owner,
			strconv.Itoa(o.InsertionsByTeam), strconv.Itoa(o.DeletionsByTeam), strconv.Itoa(o.CommitsByTeam),
			strconv.Itoa(o.InsertionsByOthers), strconv.Itoa(o.DeletionsByOthers), strconv.Itoa(o.CommitsByOthers),
		}
		if o.Adjusted != nil {
			fields = append(fields,
				strconv.Itoa(o.Adjusted.ChangesByTeam), strconv.Itoa(o.Adjusted.ChangesByOthers),
				tsvFloat(o.Adjusted.CommitsByTeam), tsvFloat(o.Adjusted.CommitsByOthers))
		}
		if err := writeTSVLine(w, fields...); err != nil {
			return err
		}
	}
	return nil
}

func writeContributorsTSV(w io.Writer, report *model.Report) error {
	header := []string{"author_name", "author_email", "owner", "insertions", "deletions", "commits"}
	if report.Adjusted {
		header = append(header, "adjusted_changes", "adjusted_commits")
	}
	if err := writeTSVLine(w, header...); err != nil {
		return err
	}

	for _, c := range report.Contributors {
		for _, o := range c.Owners {
			fields := []string{
				c.Author.Name, c.Author.Email, o.Owner,
				strconv.Itoa(o.Insertions), strconv.Itoa(o.Deletions), strconv.Itoa(o.Commits),
			}
			if o.AdjustedChanges != nil && o.AdjustedCommits != nil {
				fields = append(fields, strconv.Itoa(*o.AdjustedChanges), tsvFloat(*o.AdjustedCommits))
			}
			if err := writeTSVLine(w, fields...); err != nil {
				return err
			}
		}
	}
	return nil
}
