package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BgStyle paints text segments over one shared background. Words are styled
// one at a time and joined with pre-rendered spaces, so the ANSI reset after
// each word never leaves an unfilled gap.
type BgStyle struct {
	bg    lipgloss.Color
	space string
}

// NewBgStyle returns a helper for the background color bgColor.
func NewBgStyle(bgColor string) BgStyle {
	b := BgStyle{bg: lipgloss.Color(bgColor)}
	b.space = b.fill(" ")
	return b
}

func (b BgStyle) fill(s string) string {
	return lipgloss.NewStyle().Background(b.bg).Render(s)
}

// Render styles text on the background. Runs of spaces are kept.
func (b BgStyle) Render(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	s := style.Background(b.bg)
	words := strings.Split(text, " ")
	for i, w := range words {
		if w != "" {
			words[i] = s.Render(w)
		}
	}
	return strings.Join(words, b.space)
}

// Space returns one filled space.
func (b BgStyle) Space() string { return b.space }

// Spaces returns n filled spaces.
func (b BgStyle) Spaces(n int) string {
	return b.fill(strings.Repeat(" ", max(n, 0)))
}

// Sep returns sep on the background.
func (b BgStyle) Sep(sep string) string { return b.fill(sep) }

// Join joins rendered parts with a filled separator.
func (b BgStyle) Join(parts []string, sep string) string {
	return strings.Join(parts, b.fill(sep))
}

// FillLine pads rendered content out to width.
func (b BgStyle) FillLine(content string, width int) string {
	return lipgloss.NewStyle().Background(b.bg).Width(width).Render(content)
}

// Pair renders "label value" with separate styles.
func (b BgStyle) Pair(label, value string, labelStyle, valueStyle lipgloss.Style) string {
	return b.Render(label, labelStyle) + b.space + b.Render(value, valueStyle)
}
