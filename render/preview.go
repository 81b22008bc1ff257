// Package render turns a finished tab into terminal output: a static
// lipgloss-styled preview and a scrollable bubbletea pager.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	gutterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Bold(true)

	measureShadeA = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	measureShadeB = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FFFF"))
)

// Preview renders ASCII tab lines with a colored string-name gutter and
// alternating measure shading (grounded on
// ako-backing-tracks/display/tablature.go's style table).
func Preview(lines []string) string {
	var b strings.Builder
	for _, line := range lines {
		gutterEnd := strings.Index(line, "||")
		if gutterEnd < 0 {
			b.WriteString(line)
			b.WriteString("\n")
			continue
		}
		gutter := gutterStyle.Render(line[:gutterEnd+2])
		body := shadeMeasures(line[gutterEnd+2:])
		b.WriteString(gutter)
		b.WriteString(body)
		b.WriteString("\n")
	}
	return b.String()
}

// shadeMeasures alternates styling between successive "|"-terminated
// measures so a reader can visually separate them.
func shadeMeasures(body string) string {
	measures := strings.Split(body, "|")
	var b strings.Builder
	for i, m := range measures {
		if m == "" && i == len(measures)-1 {
			continue
		}
		style := measureShadeA
		if i%2 == 1 {
			style = measureShadeB
		}
		b.WriteString(style.Render(m))
		if i < len(measures)-1 {
			b.WriteString(gutterStyle.Render("|"))
		}
	}
	return b.String()
}
