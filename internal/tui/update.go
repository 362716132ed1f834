package tui

import (
	"fmt"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"geomap/internal/geom"
)

const sidebarW = 32

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshMsg:
		m.refreshLayers()
		if m.showAttrs {
			m.refreshAttrsFromCurrent()
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.showSidebar {
			m.l.SetSize(sidebarW-2, m.height-1-2) // provisional; will be refined in View
		}
	case tea.KeyMsg:
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "+", "=":
			if m.zoom < 64 {
				m.zoom *= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "-", "_":
			if m.zoom > 0.05 {
				m.zoom /= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "0":
			m.zoom = 1.0
			m.offsetX, m.offsetY = 0, 0
			m.status = "view reset"
		case "tab":
			m.showSidebar = !m.showSidebar
			if m.showSidebar {
				m.l.SetSize(sidebarW-2, m.height-1-2)
			}
		case "r":
			m.refreshLayers()
		case "h":
			m.helpVisible = !m.helpVisible
		case "a":
			m.showAttrs = !m.showAttrs
			if m.showAttrs {
				m.refreshAttrsFromCurrent()
			}
		case "i":
			li, lon, lat, ok := m.inspectNearest()
			if ok {
				l := m.layers[li]
				b := l.Geometry.BBox
				meta := []string{
					fmt.Sprintf("layer: %s", l.Name),
					fmt.Sprintf("id: %s", l.ID),
					fmt.Sprintf("bbox: [%.5f, %.5f, %.5f, %.5f]", b.MinX, b.MinY, b.MaxX, b.MaxY),
					fmt.Sprintf("features: %d", len(l.Data.Features())),
					fmt.Sprintf("style: %v", l.Style),
					fmt.Sprintf("nearest: lon=%.6f lat=%.6f", lon, lat),
				}
				m.inspectPopup = strings.Join(meta, "\n")
				m.status = "inspect popup"
			} else {
				m.inspectPopup = "no feature nearby"
				m.status = m.inspectPopup
			}
		case "esc":
			m.inspectPopup = ""
		case "l":
			// toggle all layers
			all := true
			for _, l := range m.layers {
				all = all && l.Visible
			}
			m.setAllVisible(!all)
			m.status = fmt.Sprintf("layers visible: %v", !all)
		case "enter", " ":
			if m.showSidebar {
				m.toggleLayer(m.selectedLayer())
				if m.showAttrs {
					m.refreshAttrsFromCurrent()
				}
			}
		case "up":
			if !m.showSidebar {
				m.offsetY -= 1
			}
		case "down":
			if !m.showSidebar {
				m.offsetY += 1
			}
		case "left":
			m.offsetX -= 2
		case "right":
			m.offsetX += 2
		}
	case tea.MouseMsg:
		m = m.trackHover(msg)
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

// trackHover updates hover state from a mouse event over the map area.
func (m Model) trackHover(msg tea.MouseMsg) Model {
	lo := m.layout()
	mapOriginX, mapOriginY := lo.mapX, lo.mapY
	mapWidth, mapHeight := lo.mapW, lo.mapH
	cx, cy := msg.X, msg.Y
	if cx < mapOriginX || cx >= mapOriginX+mapWidth || cy < mapOriginY || cy >= mapOriginY+mapHeight {
		m.hovering = false
		return m
	}
	m.hovering = true
	m.hoverCellX = cx - mapOriginX
	m.hoverCellY = cy - mapOriginY
	if lon, lat, ok := m.cellToLonLat(m.hoverCellX, m.hoverCellY, mapWidth, mapHeight); ok {
		m.hoverHasGeo = true
		m.hoverLon = lon
		m.hoverLat = lat
	} else {
		m.hoverHasGeo = false
	}
	// snap to the nearest vertex of any visible layer using micro coords
	hxMic := m.hoverCellX * 2
	hyMic := m.hoverCellY * 4
	best := 1<<31 - 1
	bx, by := hxMic, hyMic
	m.vertices(func(_ int, p [2]float64) {
		mx, my, ok := m.screenXYMicro(p[0], p[1], mapWidth, mapHeight)
		if !ok {
			return
		}
		dx := mx - hxMic
		dy := my - hyMic
		if d := dx*dx + dy*dy; d < best {
			best = d
			bx, by = mx, my
		}
	})
	m.hoverMicX, m.hoverMicY = bx, by
	return m
}

// featureCounts summarizes geometry for the status line.
func featureCounts(d geom.Data) string {
	return fmt.Sprintf("pts=%d ls=%d poly=%d", len(d.Points), len(d.Lines), len(d.Polygons))
}
