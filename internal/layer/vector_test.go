package layer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geomap/internal/geom"
)

type fakeRenderer struct {
	path string
	err  error
}

func (r fakeRenderer) Render(string) (string, error) { return r.path, r.err }

type fakeMap struct {
	mu      sync.Mutex
	backend Backend
	layers  []Layer
	addErr  error
}

func (m *fakeMap) Backend() Backend { return m.backend }

func (m *fakeMap) Add(l Layer) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.layers = append(m.layers, l)
	return nil
}

func writeJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	p := filepath.Join(t.TempDir(), "point.json")
	require.NoError(t, os.WriteFile(p, b, 0o644))
	return p
}

func emptyCollection() map[string]any {
	return map[string]any{"type": "FeatureCollection", "features": []any{}}
}

func TestVector_OpacityStyleReusedAcrossMaps(t *testing.T) {
	t.Parallel()

	path := writeJSON(t, emptyCollection())
	style := map[string]any{"color": "red"}
	v, err := NewVector("point", fakeRenderer{path: path}, Options{"opacity": 0.6, "style": style})
	require.NoError(t, err)

	first := &fakeMap{backend: BackendWidget}
	second := &fakeMap{backend: BackendWidget}
	require.NoError(t, v.AddTo(first))
	require.NoError(t, v.AddTo(second))

	require.Len(t, first.layers, 1)
	require.Len(t, second.layers, 1)
	for _, l := range []Layer{first.layers[0], second.layers[0]} {
		wl, ok := l.(*WidgetLayer)
		require.True(t, ok, "expected *WidgetLayer, got %T", l)
		assert.Equal(t, map[string]any{"color": "red", "opacity": 0.6}, wl.Style)
		assert.NotContains(t, wl.Params, "opacity")
		assert.NotContains(t, wl.Params, "style")
		assert.Equal(t, "point", wl.Name)
		if diff := cmp.Diff(geom.Document(emptyCollection()), wl.Data); diff != "" {
			t.Fatalf("layer data mismatch (-want +got):\n%s", diff)
		}
	}

	// Each layer owns its style map.
	first.layers[0].(*WidgetLayer).Style["color"] = "blue"
	assert.Equal(t, "red", second.layers[0].(*WidgetLayer).Style["color"])

	// Original user-provided options remain unchanged.
	assert.Equal(t, Options{"opacity": 0.6, "style": map[string]any{"color": "red"}}, v.Options())
	assert.Equal(t, map[string]any{"color": "red"}, style)
	assert.Equal(t, map[string]any{"color": "red"}, v.Style())
}

func TestVector_CallerMutationDoesNotLeak(t *testing.T) {
	t.Parallel()

	path := writeJSON(t, emptyCollection())
	opts := Options{"style": map[string]any{"color": "green"}, "tooltip": []any{"name"}}
	v, err := NewVector("roads", fakeRenderer{path: path}, opts)
	require.NoError(t, err)

	opts["style"].(map[string]any)["color"] = "black"
	opts["opacity"] = "oops"
	opts["tooltip"].([]any)[0] = "id"

	assert.Equal(t, map[string]any{"color": "green"}, v.MergedStyle())
	assert.Equal(t, Options{"style": map[string]any{"color": "green"}, "tooltip": []any{"name"}}, v.Options())

	got := v.Options()
	got["style"].(map[string]any)["color"] = "purple"
	assert.Equal(t, map[string]any{"color": "green"}, v.Style())
}

func TestVector_PreservesFeatures(t *testing.T) {
	t.Parallel()

	features := make([]any, 0, 5)
	for i := 0; i < 5; i++ {
		features = append(features, map[string]any{
			"type":       "Feature",
			"geometry":   map[string]any{"type": "Point", "coordinates": []any{json.Number(fmt.Sprint(i)), json.Number(fmt.Sprint(-i))}},
			"properties": map[string]any{"name": fmt.Sprintf("f%d", i), "rank": json.Number(fmt.Sprint(i))},
		})
	}
	want := map[string]any{"type": "FeatureCollection", "features": features}
	path := writeJSON(t, want)

	v, err := NewVector("ranked", fakeRenderer{path: path}, nil)
	require.NoError(t, err)

	m := &fakeMap{backend: BackendHTML}
	require.NoError(t, v.AddTo(m))
	require.Len(t, m.layers, 1)

	hl, ok := m.layers[0].(*HTMLLayer)
	require.True(t, ok, "expected *HTMLLayer, got %T", m.layers[0])
	assert.Len(t, hl.Data.Features(), 5)
	if diff := cmp.Diff(geom.Document(want), hl.Data); diff != "" {
		t.Fatalf("layer data mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, map[string]any{}, hl.Style)
	assert.Regexp(t, `^geo_json_[0-9a-f]{32}$`, hl.ID)
	assert.True(t, hl.HasBounds)
	assert.Equal(t, geom.BBox{MinX: 0, MinY: -4, MaxX: 4, MaxY: 0}, hl.Bounds)
}

func TestVector_KeepsLargeIntegerProperties(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "osm.geojson")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Point","coordinates":[13.4,52.5]},"properties":{"osm_id":9007199254740993,"name":"gate"}}
	]}`), 0o644))

	v, err := NewVector("osm", fakeRenderer{path: path}, nil)
	require.NoError(t, err)

	for _, backend := range []Backend{BackendHTML, BackendWidget} {
		m := &fakeMap{backend: backend}
		require.NoError(t, v.AddTo(m))
		require.Len(t, m.layers, 1)

		var doc geom.Document
		switch l := m.layers[0].(type) {
		case *HTMLLayer:
			doc = l.Data
		case *WidgetLayer:
			doc = l.Data
			assert.Equal(t, [][2]float64{{13.4, 52.5}}, l.Geometry.Points)
		}
		props := doc.Features()[0]["properties"].(map[string]any)
		assert.Equal(t, json.Number("9007199254740993"), props["osm_id"], backend.String())

		out, err := json.Marshal(doc)
		require.NoError(t, err)
		assert.Contains(t, string(out), `"osm_id":9007199254740993`)
	}
}

func TestVector_ForwardsUnknownOptions(t *testing.T) {
	t.Parallel()

	path := writeJSON(t, emptyCollection())
	v, err := NewVector("parks", fakeRenderer{path: path}, Options{
		"opacity": 1,
		"tooltip": true,
		"hover":   map[string]any{"weight": 3.0},
		"z_index": 7,
		"style":   map[string]string{"fillColor": "#00ff00"},
	})
	require.NoError(t, err)

	l, err := v.Layer(BackendWidget)
	require.NoError(t, err)
	wl := l.(*WidgetLayer)
	assert.Equal(t, map[string]any{"tooltip": true, "hover": map[string]any{"weight": 3.0}, "z_index": 7}, wl.Params)
	assert.Equal(t, map[string]any{"fillColor": "#00ff00", "opacity": 1.0}, wl.Style)
	assert.Equal(t, 1.0, wl.Opacity())
	assert.Equal(t, "", wl.Color())
	assert.True(t, wl.Visible)
}

func TestNewVector_ConfigurationErrors(t *testing.T) {
	t.Parallel()

	r := fakeRenderer{path: "unused"}
	cases := map[string]struct {
		name   string
		r      Renderer
		opts   Options
		option string
	}{
		"non numeric opacity": {name: "a", r: r, opts: Options{"opacity": "0.5"}, option: "opacity"},
		"bool opacity":        {name: "a", r: r, opts: Options{"opacity": true}, option: "opacity"},
		"opacity above one":   {name: "a", r: r, opts: Options{"opacity": 1.5}, option: "opacity"},
		"negative opacity":    {name: "a", r: r, opts: Options{"opacity": -0.1}, option: "opacity"},
		"style not mapping":   {name: "a", r: r, opts: Options{"style": "red"}, option: "style"},
		"empty name":          {name: "", r: r, option: "name"},
		"nil renderer":        {name: "a", r: nil, option: "renderer"},
	}
	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			v, err := NewVector(tc.name, tc.r, tc.opts)
			assert.Nil(t, v)
			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tc.option, cfgErr.Option)
		})
	}
}

func TestNewVector_AcceptsNumericKinds(t *testing.T) {
	t.Parallel()

	for _, val := range []any{0, 1, float32(0.25), int64(0), uint8(1), json.Number("0.75")} {
		v, err := NewVector("a", fakeRenderer{}, Options{"opacity": val})
		require.NoError(t, err, "%T", val)
		_, ok := v.Opacity()
		assert.True(t, ok)
	}
}

func TestVector_AddTo_ArtifactNotFound(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "missing.json")
	v, err := NewVector("ghost", fakeRenderer{path: missing}, nil)
	require.NoError(t, err)

	m := &fakeMap{backend: BackendHTML}
	err = v.AddTo(m)
	var nf *ArtifactNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, missing, nf.Location)
	assert.Equal(t, "ghost", nf.Name)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Empty(t, m.layers)

	dir := t.TempDir()
	v, err = NewVector("dir", fakeRenderer{path: dir}, nil)
	require.NoError(t, err)
	require.ErrorAs(t, v.AddTo(m), &nf)
}

func TestVector_AddTo_ParseError(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(p, []byte("{not geojson"), 0o644))
	v, err := NewVector("broken", fakeRenderer{path: p}, nil)
	require.NoError(t, err)

	m := &fakeMap{backend: BackendWidget}
	var pe *ParseError
	require.ErrorAs(t, v.AddTo(m), &pe)
	assert.Equal(t, p, pe.Location)
	assert.Empty(t, m.layers)

	p2 := filepath.Join(t.TempDir(), "nottype.json")
	require.NoError(t, os.WriteFile(p2, []byte(`{"features": []}`), 0o644))
	v, err = NewVector("untyped", fakeRenderer{path: p2}, nil)
	require.NoError(t, err)
	require.ErrorAs(t, v.AddTo(m), &pe)
	assert.ErrorIs(t, pe, geom.ErrMissingType)
}

func TestVector_AddTo_PropagatesRendererAndMapErrors(t *testing.T) {
	t.Parallel()

	renderErr := errors.New("no such vector map")
	v, err := NewVector("x", fakeRenderer{err: renderErr}, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, v.AddTo(&fakeMap{backend: BackendHTML}), renderErr)

	addErr := errors.New("map closed")
	v, err = NewVector("x", fakeRenderer{path: writeJSON(t, emptyCollection())}, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, v.AddTo(&fakeMap{backend: BackendHTML, addErr: addErr}), addErr)
}

func TestVector_AddTo_UnsupportedBackend(t *testing.T) {
	t.Parallel()

	v, err := NewVector("x", fakeRenderer{path: writeJSON(t, emptyCollection())}, nil)
	require.NoError(t, err)

	m := &fakeMap{backend: Backend(42)}
	assert.ErrorIs(t, v.AddTo(m), ErrUnsupportedBackend)
	assert.Empty(t, m.layers)
	assert.ErrorIs(t, v.AddTo(nil), ErrNilMap)
	assert.Equal(t, "unknown", Backend(42).String())
}

func TestVector_ConcurrentAddTo(t *testing.T) {
	t.Parallel()

	path := writeJSON(t, emptyCollection())
	v, err := NewVector("point", fakeRenderer{path: path}, Options{"opacity": 0.3, "style": map[string]any{"weight": 2}})
	require.NoError(t, err)

	const n = 16
	maps := make([]*fakeMap, n)
	var wg sync.WaitGroup
	for i := range maps {
		backend := BackendHTML
		if i%2 == 0 {
			backend = BackendWidget
		}
		maps[i] = &fakeMap{backend: backend}
		wg.Add(1)
		go func(m *fakeMap) {
			defer wg.Done()
			assert.NoError(t, v.AddTo(m))
		}(maps[i])
	}
	wg.Wait()

	want := map[string]any{"weight": 2, "opacity": 0.3}
	for _, m := range maps {
		require.Len(t, m.layers, 1)
		switch l := m.layers[0].(type) {
		case *HTMLLayer:
			assert.Equal(t, want, l.Style)
		case *WidgetLayer:
			assert.Equal(t, want, l.Style)
		}
	}
	assert.Equal(t, map[string]any{"weight": 2}, v.Style())
}

func TestWidgetLayer_Clone(t *testing.T) {
	t.Parallel()

	v, err := NewVector("x", fakeRenderer{path: writeJSON(t, emptyCollection())}, Options{"style": map[string]any{"color": "red"}})
	require.NoError(t, err)
	l, err := v.Layer(BackendWidget)
	require.NoError(t, err)

	orig := l.(*WidgetLayer)
	c := orig.Clone()
	c.Style["color"] = "blue"
	c.Visible = false
	assert.Equal(t, "red", orig.Color())
	assert.True(t, orig.Visible)
	assert.Equal(t, orig.ID, c.ID)
}
