package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// barPainter renders header and command-bar segments over a solid
// background. Lipgloss resets ANSI state between styled segments, which
// leaves unstyled gaps in a colored bar; painting every run of spaces too
// keeps the bar solid.
// See: https://github.com/charmbracelet/lipgloss/discussions/78
type barPainter struct {
	bg    lipgloss.Color
	blank lipgloss.Style
}

func newBarPainter(color string) barPainter {
	bg := lipgloss.Color(color)
	return barPainter{bg: bg, blank: lipgloss.NewStyle().Background(bg)}
}

// paint styles text for the bar, giving every character including interior
// spaces the bar background.
func (p barPainter) paint(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	styled := style.Background(p.bg)
	if !strings.Contains(text, " ") {
		return styled.Render(text)
	}
	words := strings.Split(text, " ")
	for i, w := range words {
		if w != "" {
			words[i] = styled.Render(w)
		}
	}
	return strings.Join(words, p.pad(1))
}

// pad returns n painted spaces.
func (p barPainter) pad(n int) string {
	return p.blank.Render(strings.Repeat(" ", n))
}

// hint renders one command-bar segment as key:description.
func (p barPainter) hint(key, desc string, keyStyle, descStyle lipgloss.Style) string {
	return p.paint(key, keyStyle) + p.blank.Render(":") + p.paint(desc, descStyle)
}

// row joins segments with gap painted spaces between them.
func (p barPainter) row(segments []string, gap int) string {
	return strings.Join(segments, p.pad(gap))
}
