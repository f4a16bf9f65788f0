package commands

import (
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/ytget/kicktracker/internal/model"
)

// projectResult is one row of the scrape command
type projectResult struct {
	ID     string
	Record model.ProjectRecord
	Err    error
}

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

func renderProjects(out io.Writer, results []projectResult, now time.Time) {
	t := newTable(out)
	t.AppendHeader(table.Row{"Project", "Title", "Pledged", "Funded", "Backers", "Updates", "Ends", "Left"})

	for _, r := range results {
		if r.Err != nil {
			t.AppendRow(table.Row{r.ID, "error: " + r.Err.Error(), "", "", "", "", "", ""})
			continue
		}
		rec := r.Record
		t.AppendRow(table.Row{
			r.ID,
			rec.Title,
			rec.PledgedAmount,
			rec.PrettyPercent(),
			groupDigits(rec.BackerCount),
			groupDigits(rec.UpdateCount),
			humanize.RelTime(rec.EndTime, now, "ago", "from now"),
			rec.TimeLeft(now),
		})
	}
	t.Render()
}

func renderProfile(out io.Writer, profile string, ids []string) {
	t := newTable(out)
	t.AppendHeader(table.Row{"#", "Project"})
	for i, id := range ids {
		t.AppendRow(table.Row{i + 1, id})
	}
	t.AppendFooter(table.Row{"", profile + ": " + humanize.Comma(int64(len(ids))) + " projects"})
	t.Render()
}

// groupDigits adds thousands separators to scraped counts; anything that is
// not a plain integer is shown as is
func groupDigits(raw string) string {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return raw
	}
	return humanize.Comma(n)
}
