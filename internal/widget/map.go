// Package widget is an in-process map: it keeps attached layers for
// interactive display.
package widget

import (
	"errors"
	"fmt"
	"sync"

	"geomap/internal/geom"
	"geomap/internal/layer"
)

var (
	ErrLayerType    = errors.New("widget: layer is not a widget layer")
	ErrUnknownLayer = errors.New("widget: unknown layer")
)

var _ layer.MapTarget = (*Map)(nil)

// Map holds widget layers in insertion order. It is safe for concurrent use.
type Map struct {
	mu     sync.RWMutex
	lat    float64
	lon    float64
	zoom   int
	layers []*layer.WidgetLayer
}

type Option func(*Map)

func WithCenter(lat, lon float64) Option {
	return func(m *Map) { m.lat, m.lon = lat, lon }
}

func WithZoom(zoom int) Option {
	return func(m *Map) {
		if zoom >= 0 {
			m.zoom = zoom
		}
	}
}

func New(options ...Option) *Map {
	m := &Map{zoom: 1}
	for _, o := range options {
		o(m)
	}
	return m
}

func (m *Map) Backend() layer.Backend { return layer.BackendWidget }

func (m *Map) Center() (lat, lon float64) { return m.lat, m.lon }

func (m *Map) Zoom() int { return m.zoom }

// Add attaches a *layer.WidgetLayer. Adding a layer id twice is an error.
func (m *Map) Add(l layer.Layer) error {
	if m == nil {
		return layer.ErrNilMap
	}
	wl, ok := l.(*layer.WidgetLayer)
	if !ok || wl == nil {
		return fmt.Errorf("%w: %T", ErrLayerType, l)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.layers {
		if existing.ID == wl.ID {
			return fmt.Errorf("widget: layer %s already added", wl.ID)
		}
	}
	m.layers = append(m.layers, wl)
	return nil
}

// Layers returns copies of the attached layers.
func (m *Map) Layers() []*layer.WidgetLayer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*layer.WidgetLayer, 0, len(m.layers))
	for _, l := range m.layers {
		out = append(out, l.Clone())
	}
	return out
}

func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.layers)
}

func (m *Map) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, l := range m.layers {
		if l.ID == id {
			m.layers = append(m.layers[:i], m.layers[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownLayer, id)
}

func (m *Map) SetVisible(id string, visible bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.layers {
		if l.ID == id {
			l.Visible = visible
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownLayer, id)
}

func (m *Map) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.layers = nil
}

// Bounds returns the union extent of visible layers with geometry.
func (m *Map) Bounds() (geom.BBox, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var b geom.BBox
	found := false
	for _, l := range m.layers {
		if !l.Visible || l.Geometry.Vertices() == 0 {
			continue
		}
		if !found {
			b, found = l.Geometry.BBox, true
			continue
		}
		b = b.Union(l.Geometry.BBox)
	}
	return b, found
}
