package viz

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var canvasStyle = lipgloss.NewStyle().Padding(1, 2)

// Styles are the lipgloss styles of one theme.
type Styles struct {
	Header      lipgloss.Style
	Stats       lipgloss.Style
	Label       lipgloss.Style
	Value       lipgloss.Style
	ActiveParam lipgloss.Style
	Graph       lipgloss.Style
	Help        lipgloss.Style
	Running     lipgloss.Style
	Paused      lipgloss.Style
	Error       lipgloss.Style
	Recording   lipgloss.Style
	BarFull     lipgloss.Style
	BarMid      lipgloss.Style
	BarLow      lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Header: lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),
		Stats: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(45),
		Label:       lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		Value:       lipgloss.NewStyle().Foreground(t.Text),
		ActiveParam: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		Graph:       lipgloss.NewStyle().Foreground(t.Secondary).Padding(1, 0),
		Help:        lipgloss.NewStyle().Foreground(t.Muted).MarginTop(2),
		Running:     lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		Paused:      lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		Error:       lipgloss.NewStyle().Foreground(t.Error).Bold(true),
		Recording:   lipgloss.NewStyle().Foreground(t.Error).Bold(true).Blink(true),
		BarFull:     lipgloss.NewStyle().Foreground(t.Error),
		BarMid:      lipgloss.NewStyle().Foreground(t.Warning),
		BarLow:      lipgloss.NewStyle().Foreground(t.Primary),
	}
}

// CapacityBar renders how full the particle buffer is.
func (s Styles) CapacityBar(active, capacity, width int) string {
	percent := 0.0
	if capacity > 0 {
		percent = float64(active) / float64(capacity)
	}
	filled := min(max(int(percent*float64(width)), 0), width)

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	switch {
	case percent >= 1:
		return s.BarFull.Render(bar)
	case percent > 0.8:
		return s.BarMid.Render(bar)
	default:
		return s.BarLow.Render(bar)
	}
}

// RGBA converts a "#rrggbb" lipgloss color; anything else is white.
func RGBA(c lipgloss.Color) color.RGBA {
	r, g, b := parseHex(string(c))
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xff}
}

func parseHex(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 255, 255, 255
	}
	r = parseHexByte(hex[1:3])
	g = parseHexByte(hex[3:5])
	b = parseHexByte(hex[5:7])
	return
}

func parseHexByte(s string) int {
	var val int
	for _, c := range s {
		val *= 16
		switch {
		case c >= '0' && c <= '9':
			val += int(c - '0')
		case c >= 'a' && c <= 'f':
			val += int(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			val += int(c - 'A' + 10)
		}
	}
	return val
}
