package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"geomap/internal/layer"
)

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	borderCol = lipgloss.Color("#243141")
	hoverFg   = lipgloss.Color("#FFA500")

	appStyle   = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(baseDimFg)
)

// palette colors layers that carry no color style.
var palette = []string{"#3B82F6", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6", "#14B8A6"}

// namedColors covers the CSS names most often used in layer styles.
var namedColors = map[string]string{
	"black":   "#000000",
	"white":   "#FFFFFF",
	"red":     "#FF0000",
	"green":   "#008000",
	"blue":    "#0000FF",
	"yellow":  "#FFFF00",
	"orange":  "#FFA500",
	"purple":  "#800080",
	"gray":    "#808080",
	"grey":    "#808080",
	"cyan":    "#00FFFF",
	"magenta": "#FF00FF",
}

// layerStyle maps a layer's merged style onto a terminal style.
func layerStyle(l *layer.WidgetLayer, idx int) lipgloss.Style {
	c := strings.ToLower(strings.TrimSpace(l.Color()))
	if hex, ok := namedColors[c]; ok {
		c = hex
	}
	if c == "" || (!strings.HasPrefix(c, "#") && strings.Trim(c, "0123456789") != "") {
		c = palette[idx%len(palette)]
	}
	s := lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	if l.Opacity() < 0.5 {
		s = s.Faint(true)
	}
	return s
}
