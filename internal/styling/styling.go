// Package styling renders the key/value summaries and report tables.
package styling

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Dash replaces empty values in rendered output.
const Dash = "-"

var (
	labelStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	rightStyle  = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// OrDash returns s, or Dash when s is empty.
func OrDash(s string) string {
	if s == "" {
		return Dash
	}
	return s
}

// Summary renders label/value pairs as a borderless two-column block.
func Summary(pairs [][2]string) string {
	width := 0
	for _, p := range pairs {
		if len(p[0]) > width {
			width = len(p[0])
		}
	}

	var b strings.Builder
	for _, p := range pairs {
		b.WriteString("  ")
		b.WriteString(labelStyle.Width(width + 2).Render(p[0]))
		b.WriteString(OrDash(p[1]))
		b.WriteString("\n")
	}
	return b.String()
}

// Table renders a bordered table with a bold header row. Columns listed
// in rightCols are right-aligned.
func Table(headers []string, rows [][]string, rightCols ...int) string {
	right := make(map[int]bool, len(rightCols))
	for _, c := range rightCols {
		right[c] = true
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if right[col] {
				return rightStyle
			}
			return cellStyle
		})
	return t.Render()
}
