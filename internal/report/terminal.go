package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"scheduler/internal/capacity"
)

const (
	nameColumnWidth = 16
	weekColumnWidth = 9
)

var (
	subtleColor = lipgloss.Color("#6C6C6C")

	// TitleStyle for report headers
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4")).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(subtleColor)

	nameStyle = lipgloss.NewStyle().Width(nameColumnWidth)

	cellStyle = lipgloss.NewStyle().
			Width(weekColumnWidth).
			Align(lipgloss.Right)

	levelColor = map[string]lipgloss.Color{
		capacity.LevelIdle:      subtleColor,
		capacity.LevelLight:     lipgloss.Color("#73F59F"),
		capacity.LevelBalanced:  lipgloss.Color("#3FB950"),
		capacity.LevelFull:      lipgloss.Color("#E3B341"),
		capacity.LevelOver:      lipgloss.Color("#FF6B6B"),
		capacity.LevelUnbounded: lipgloss.Color("#FF0000"),
	}
)

// RenderHeatMap draws the heat map as a table, one row per person and one
// colored cell per week. Project-ready people are marked with "*".
func RenderHeatMap(hm capacity.HeatMap) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("Capacity from %s", hm.Anchor)))
	b.WriteString("\n")

	if len(hm.Rows) == 0 {
		b.WriteString(headerStyle.Render("no people on the roster"))
		b.WriteString("\n")
		return b.String()
	}

	header := []string{nameStyle.Render(headerStyle.Render("person"))}
	for w := range hm.Rows[0].Weeks {
		label := hm.Anchor.AddDays(7 * w).Time().Format("Jan 02")
		header = append(header, cellStyle.Render(headerStyle.Render(label)))
	}
	header = append(header, cellStyle.Render(headerStyle.Render("later")))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, header...))
	b.WriteString("\n")

	for _, row := range hm.Rows {
		name := row.Person
		if row.IsProjectReady {
			name += " *"
		}
		cells := []string{nameStyle.Render(truncate(name, nameColumnWidth-1))}
		for _, bucket := range row.Weeks {
			cells = append(cells, renderCell(bucket))
		}
		cells = append(cells, cellStyle.Foreground(subtleColor).Render(beyondText(row.Beyond)))
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteString("\n")
	}

	if totals := hm.TeamTotals(); len(totals) > 0 {
		cells := []string{nameStyle.Bold(true).Render("team")}
		for _, bucket := range totals {
			cells = append(cells, renderCell(bucket))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderConflicts lists P1 conflicts one per line.
func RenderConflicts(conflicts []capacity.Conflict) string {
	if len(conflicts) == 0 {
		return headerStyle.Render("no P1 conflicts") + "\n"
	}
	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("%d P1 conflicts", len(conflicts))))
	b.WriteString("\n")
	warn := lipgloss.NewStyle().Foreground(levelColor[capacity.LevelOver])
	for _, c := range conflicts {
		b.WriteString(warn.Render(fmt.Sprintf("#%d / #%d", c.First, c.Second)))
		b.WriteString("  " + strings.Join(c.People, ", ") + "\n")
	}
	return b.String()
}

func renderCell(b capacity.Bucket) string {
	style := cellStyle.Foreground(levelColor[b.Level()])
	if b.Overallocated() {
		style = style.Bold(true)
	}
	return style.Render(cellText(b))
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
