package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	lo := m.layout()
	contentWidth, contentHeight := lo.contentW, lo.contentH

	// list height follows the real content area
	if m.showSidebar {
		m.l.SetSize(sidebarW-2, contentHeight-2)
	}

	header := titleStyle.Render(" geomap ─ vector layers ") + m.renderLegend()
	header = lipgloss.NewStyle().Width(contentWidth).MaxHeight(lo.headerH).Render(header)

	var sidebar string
	if m.showSidebar {
		sidebar = lipgloss.NewStyle().Width(sidebarW).Render(m.l.View())
	}

	mapWidth, mapHeight := lo.mapW, lo.mapH
	var mapView string
	if m.showAttrs {
		// Render attributes table centered in the map area
		// infer a reasonable width from columns
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		if colW == 0 {
			colW = min(60, contentWidth-6)
		}
		maxW := min(mapWidth, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(mapHeight-2, 20))
		attrsBox := boxStyle.Width(maxW).Render(m.tbl.View())
		mapView = lipgloss.Place(mapWidth, mapHeight, lipgloss.Center, lipgloss.Center, attrsBox)
	} else {
		ascii := m.renderMap(mapWidth, mapHeight)
		// plain map canvas: no border, no background highlight
		mapView = lipgloss.NewStyle().Width(mapWidth).Height(mapHeight).Render(ascii)
	}

	// Build inspect popup box (center-left overlay, not in map column)
	popup := ""
	if m.inspectPopup != "" && !m.showAttrs {
		maxPopupW := min(48, contentWidth/2)
		if maxPopupW < 20 {
			maxPopupW = 20
		}
		box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).MaxWidth(maxPopupW).Render(m.inspectPopup)
		popup = lipgloss.Place(contentWidth, contentHeight, lipgloss.Left, lipgloss.Center, box)
	}

	body := mapView
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	}

	// Footer / help
	help := m.renderHelp()
	status := dimStyle.Render(" " + m.status + " ")
	// mouse coords at bottom-right
	coords := ""
	if m.hoverHasGeo {
		coords = dimStyle.Render(fmt.Sprintf("  lon=%.5f lat=%.5f  ", m.hoverLon, m.hoverLat))
	}
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, status, help)
	spacerW := max(0, contentWidth-lipgloss.Width(left)-lipgloss.Width(coords))
	right := lipgloss.Place(spacerW+lipgloss.Width(coords), 1, lipgloss.Right, lipgloss.Center, coords)
	footer := lipgloss.NewStyle().Width(contentWidth).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, right))

	// the popup replaces the body while open so the map origin stays fixed
	if popup != "" {
		body = popup
	}
	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(contentWidth).Height(m.height).Render(ui)
}

// viewLayout is the screen geometry shared by View and mouse handling.
type viewLayout struct {
	headerH, footerH   int
	contentW, contentH int
	mapX, mapY         int // map origin in terminal cells
	mapW, mapH         int
}

func (m Model) layout() viewLayout {
	lo := viewLayout{headerH: 1, footerH: 2}
	lo.contentH = max(4, m.height-lo.headerH-lo.footerH)
	lo.contentW = max(10, m.width)
	sidebar := 0
	if m.showSidebar {
		// sidebar plus the one-column gutter
		sidebar = sidebarW + 1
	}
	lo.mapW = max(10, lo.contentW-sidebar-1)
	lo.mapH = lo.contentH
	lo.mapX = sidebar
	lo.mapY = lo.headerH
	return lo
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"↑↓←→ pan",
		"+/- zoom",
		"Tab layers",
		"Enter toggle",
		"r refresh",
		"a attrs",
		"i inspect",
		"l all layers",
		"h help",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}

// renderLegend lists layer names in their map colors; hidden layers are dimmed.
func (m Model) renderLegend() string {
	if len(m.layers) == 0 {
		return ""
	}
	parts := make([]string, 0, len(m.layers))
	for i, l := range m.layers {
		if !l.Visible {
			parts = append(parts, dimStyle.Render("○ "+l.Name))
			continue
		}
		parts = append(parts, layerStyle(l, i).Render("● "+l.Name))
	}
	return "  " + strings.Join(parts, "  ")
}
