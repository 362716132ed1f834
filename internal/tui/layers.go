package tui

import (
	"fmt"
	"math"

	list "github.com/charmbracelet/bubbles/list"

	"geomap/internal/geom"
	"geomap/internal/layer"
)

type layerItem struct {
	title, desc string
	id          string
	visible     bool
}

func (i layerItem) Title() string {
	if i.visible {
		return "● " + i.title
	}
	return "○ " + i.title
}
func (i layerItem) Description() string { return i.desc }
func (i layerItem) FilterValue() string { return i.title }

// refreshLayers snapshots the widget map and recomputes the view extent.
func (m *Model) refreshLayers() {
	m.layers = m.wm.Layers()
	items := make([]list.Item, 0, len(m.layers))
	for _, l := range m.layers {
		items = append(items, layerItem{
			title:   l.Name,
			desc:    fmt.Sprintf("features=%d %s", len(l.Data.Features()), featureCounts(l.Geometry)),
			id:      l.ID,
			visible: l.Visible,
		})
	}
	m.l.SetItems(items)
	if b, ok := m.wm.Bounds(); ok {
		m.bbox = b.Pad(0.05)
	} else {
		lat, lon := m.wm.Center()
		span := math.Pow(2, float64(m.wm.Zoom()))
		m.bbox = geom.BBox{MinX: lon - 180/span, MinY: lat - 90/span, MaxX: lon + 180/span, MaxY: lat + 90/span}
	}
	if len(m.layers) == 0 {
		m.status = "no layers attached"
	} else {
		m.status = fmt.Sprintf("layers: %d", len(m.layers))
	}
}

// selectedLayer returns the layer highlighted in the sidebar, falling back
// to the first visible one.
func (m Model) selectedLayer() *layer.WidgetLayer {
	if it, ok := m.l.SelectedItem().(layerItem); ok {
		for _, l := range m.layers {
			if l.ID == it.id {
				return l
			}
		}
	}
	for _, l := range m.layers {
		if l.Visible {
			return l
		}
	}
	return nil
}

func (m *Model) toggleLayer(l *layer.WidgetLayer) {
	if l == nil {
		return
	}
	if err := m.wm.SetVisible(l.ID, !l.Visible); err != nil {
		m.status = "layer error: " + err.Error()
		return
	}
	idx := m.l.Index()
	m.refreshLayers()
	m.l.Select(idx)
	m.status = fmt.Sprintf("%s: visible=%v", l.Name, !l.Visible)
}

func (m *Model) setAllVisible(visible bool) {
	for _, l := range m.layers {
		_ = m.wm.SetVisible(l.ID, visible)
	}
	m.refreshLayers()
}
