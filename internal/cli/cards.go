package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	osintinfo "github.com/kailas-cloud/osintinfo/pkg/sdk"
)

var (
	accent = lipgloss.Color("#8BC34A")
	muted  = lipgloss.Color("#8a94a6")
	danger = lipgloss.Color("#e53935")

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1).
			MarginBottom(1)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	contextStyle = lipgloss.NewStyle().Italic(true).Foreground(muted)
	labelStyle   = lipgloss.NewStyle().Bold(true)
	summaryStyle = lipgloss.NewStyle().Foreground(muted)
	emptyStyle   = lipgloss.NewStyle().Foreground(danger)
)

// renderCards draws one bordered card per record under a summary line.
func renderCards(res osintinfo.Results) string {
	if len(res.Records) == 0 {
		return emptyStyle.Render("No results found.") + "\n"
	}

	var b strings.Builder
	b.WriteString(summaryStyle.Render(fmt.Sprintf("%d records, %d fields", res.RecordCount, res.FieldCount)))
	b.WriteString("\n\n")
	for i, rec := range res.Records {
		b.WriteString(cardStyle.Render(cardBody(rec, i)))
		b.WriteString("\n")
	}
	return b.String()
}

func cardBody(rec osintinfo.Record, i int) string {
	title := strings.TrimSpace(rec.Title)
	if title == "" {
		title = fmt.Sprintf("Record %d", i+1)
	}
	lines := []string{titleStyle.Render(title)}
	if rec.ContextLabel != "" && rec.ContextLabel != title {
		lines = append(lines, contextStyle.Render(rec.ContextLabel))
	}
	for _, f := range rec.Fields {
		if strings.TrimSpace(f.Text) == "" {
			continue
		}
		lines = append(lines, labelStyle.Render(f.Label+":")+" "+f.Text)
	}
	return strings.Join(lines, "\n")
}
