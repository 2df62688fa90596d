package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(10)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	headStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
)

type printer struct {
	w       io.Writer
	noColor bool
}

func (p printer) style(s lipgloss.Style) lipgloss.Style {
	if p.noColor {
		return lipgloss.NewStyle().Width(s.GetWidth())
	}
	return s
}

func (p printer) title(s string) {
	fmt.Fprintln(p.w, p.style(titleStyle).Render(s))
}

func (p printer) field(label, value string) {
	fmt.Fprintln(p.w, p.style(labelStyle).Render(label)+" "+value)
}

func (p printer) ok(s string) {
	fmt.Fprintln(p.w, p.style(okStyle).Render(s))
}

// table prints rows in columns padded to the widest cell.
func (p printer) table(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	line := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = style.Width(widths[i]).Render(cell)
		}
		return strings.Join(parts, "  ")
	}

	fmt.Fprintln(p.w, line(headers, p.style(headStyle)))
	for _, row := range rows {
		fmt.Fprintln(p.w, line(row, lipgloss.NewStyle()))
	}
}
