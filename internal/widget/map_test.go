package widget

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geomap/internal/geom"
	"geomap/internal/layer"
	"geomap/internal/render"
)

func newVector(t *testing.T, name, content string, opts layer.Options) *layer.Vector {
	t.Helper()
	p := filepath.Join(t.TempDir(), name+".geojson")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	v, err := layer.NewVector(name, render.Static(p), opts)
	require.NoError(t, err)
	return v
}

func TestMap_AddFromVector(t *testing.T) {
	t.Parallel()

	v := newVector(t, "point", `{"type":"FeatureCollection","features":[]}`, layer.Options{
		"opacity": 0.6,
		"style":   map[string]any{"color": "red"},
	})

	first, second := New(), New(WithCenter(1, 2), WithZoom(5))
	require.NoError(t, v.AddTo(first))
	require.NoError(t, v.AddTo(second))

	for _, m := range []*Map{first, second} {
		layers := m.Layers()
		require.Len(t, layers, 1)
		assert.Equal(t, map[string]any{"color": "red", "opacity": 0.6}, layers[0].Style)
		assert.Equal(t, "point", layers[0].Name)
		assert.Equal(t, geom.Document{"type": "FeatureCollection", "features": []any{}}, layers[0].Data)
	}
	assert.NotEqual(t, first.Layers()[0].ID, second.Layers()[0].ID)

	lat, lon := second.Center()
	assert.Equal(t, 1.0, lat)
	assert.Equal(t, 2.0, lon)
	assert.Equal(t, 5, second.Zoom())
	assert.Equal(t, layer.BackendWidget, second.Backend())
}

func TestMap_LayersAreSnapshots(t *testing.T) {
	t.Parallel()

	m := New()
	require.NoError(t, m.Add(&layer.WidgetLayer{ID: "a", Name: "a", Style: map[string]any{"color": "red"}, Visible: true}))

	snap := m.Layers()
	snap[0].Style["color"] = "blue"
	snap[0].Visible = false

	again := m.Layers()
	assert.Equal(t, "red", again[0].Color())
	assert.True(t, again[0].Visible)
}

func TestMap_VisibilityAndRemoval(t *testing.T) {
	t.Parallel()

	m := New()
	a := &layer.WidgetLayer{ID: "a", Visible: true, Geometry: extract(t, `{"type":"Point","coordinates":[0,0]}`)}
	b := &layer.WidgetLayer{ID: "b", Visible: true, Geometry: extract(t, `{"type":"LineString","coordinates":[[5,5],[10,-2]]}`)}
	require.NoError(t, m.Add(a))
	require.NoError(t, m.Add(b))
	assert.Error(t, m.Add(a))

	bounds, ok := m.Bounds()
	require.True(t, ok)
	assert.Equal(t, geom.BBox{MinX: 0, MinY: -2, MaxX: 10, MaxY: 5}, bounds)

	require.NoError(t, m.SetVisible("b", false))
	bounds, ok = m.Bounds()
	require.True(t, ok)
	assert.Equal(t, geom.BBox{}, bounds)

	assert.ErrorIs(t, m.SetVisible("zzz", true), ErrUnknownLayer)
	require.NoError(t, m.Remove("a"))
	assert.ErrorIs(t, m.Remove("a"), ErrUnknownLayer)
	assert.Equal(t, 1, m.Len())

	_, ok = m.Bounds()
	assert.False(t, ok)

	m.Clear()
	assert.Zero(t, m.Len())
}

func TestMap_RejectsHTMLLayers(t *testing.T) {
	t.Parallel()

	m := New()
	assert.ErrorIs(t, m.Add(&layer.HTMLLayer{Name: "h"}), ErrLayerType)
	assert.ErrorIs(t, m.Add(nil), ErrLayerType)
}

func TestMap_TypedNilMap(t *testing.T) {
	t.Parallel()

	v := newVector(t, "pts", `{"type":"Point","coordinates":[1,1]}`, nil)
	var m *Map
	assert.ErrorIs(t, v.AddTo(m), layer.ErrNilMap)
}

func TestMap_ConcurrentAdd(t *testing.T) {
	t.Parallel()

	v := newVector(t, "pts", `{"type":"Point","coordinates":[1,1]}`, nil)
	m := New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, v.AddTo(m))
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, m.Len())
}

func extract(t *testing.T, s string) geom.Data {
	t.Helper()
	doc, err := geom.ParseDocument([]byte(s))
	require.NoError(t, err)
	return geom.Extract(doc)
}
