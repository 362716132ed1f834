// Package htmlmap exports layers to a static, self-contained HTML page.
package htmlmap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"geomap/internal/geom"
	"geomap/internal/layer"
	"geomap/internal/monitoring"
)

// ErrLayerType is returned when a layer built for another backend is added.
var ErrLayerType = errors.New("htmlmap: layer is not an html layer")

var _ layer.MapTarget = (*Map)(nil)

// Map collects HTML layers and renders them into one page.
type Map struct {
	mu     sync.Mutex
	title  string
	lat    float64
	lon    float64
	zoom   int
	width  string
	height string
	layers []*layer.HTMLLayer
}

// Option configures a Map.
type Option func(*Map)

func WithTitle(title string) Option { return func(m *Map) { m.title = title } }

// WithLocation sets the center used when no layer carries coordinates.
func WithLocation(lat, lon float64) Option {
	return func(m *Map) { m.lat, m.lon = lat, lon }
}

func WithZoom(zoom int) Option {
	return func(m *Map) {
		if zoom >= 0 {
			m.zoom = zoom
		}
	}
}

// WithSize sets the chart size as CSS lengths, e.g. "100%" and "720px".
func WithSize(width, height string) Option {
	return func(m *Map) { m.width, m.height = width, height }
}

func New(options ...Option) *Map {
	m := &Map{title: "geomap", zoom: 1, width: "100%", height: "720px"}
	for _, o := range options {
		o(m)
	}
	return m
}

func (m *Map) Backend() layer.Backend { return layer.BackendHTML }

// Add attaches an *layer.HTMLLayer.
func (m *Map) Add(l layer.Layer) error {
	if m == nil {
		return layer.ErrNilMap
	}
	hl, ok := l.(*layer.HTMLLayer)
	if !ok || hl == nil {
		return fmt.Errorf("%w: %T", ErrLayerType, l)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.layers = append(m.layers, hl)
	return nil
}

// Layers returns the attached layers in insertion order.
func (m *Map) Layers() []*layer.HTMLLayer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*layer.HTMLLayer(nil), m.layers...)
}

// Extent is the padded union of layer bounds, or a window around the
// configured location sized by the zoom level.
func (m *Map) Extent() geom.BBox {
	m.mu.Lock()
	defer m.mu.Unlock()
	var b geom.BBox
	found := false
	for _, l := range m.layers {
		if !l.HasBounds {
			continue
		}
		if !found {
			b, found = l.Bounds, true
			continue
		}
		b = b.Union(l.Bounds)
	}
	if found {
		return b.Pad(0.05)
	}
	halfLon := 180 / math.Pow(2, float64(m.zoom))
	halfLat := 90 / math.Pow(2, float64(m.zoom))
	return geom.BBox{MinX: m.lon - halfLon, MinY: m.lat - halfLat, MaxX: m.lon + halfLon, MaxY: m.lat + halfLat}
}

// Render writes the page to w.
func (m *Map) Render(w io.Writer) error {
	layers := m.Layers()
	ext := m.Extent()

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: m.title, Width: m.width, Height: m.height}),
		charts.WithTitleOpts(opts.Title{Title: m.title, Subtitle: fmt.Sprintf("layers=%d zoom=%d", len(layers), m.zoom)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: ext.MinX, Max: ext.MaxX, Name: "lon", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: ext.MinY, Max: ext.MaxY, Name: "lat", NameLocation: "middle", NameGap: 30}),
	)
	for _, l := range layers {
		color, _ := l.Style["color"].(string)
		scatter.AddSeries(l.Name, seriesData(l),
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
		)
	}

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		return fmt.Errorf("htmlmap: render chart: %w", err)
	}
	var blocks bytes.Buffer
	for _, l := range layers {
		if err := writeLayerBlock(&blocks, l); err != nil {
			return err
		}
	}
	page := buf.Bytes()
	if i := bytes.LastIndex(page, []byte("</body>")); i >= 0 {
		out := make([]byte, 0, len(page)+blocks.Len())
		out = append(out, page[:i]...)
		out = append(out, blocks.Bytes()...)
		out = append(out, page[i:]...)
		page = out
	} else {
		page = append(page, blocks.Bytes()...)
	}
	_, err := w.Write(page)
	return err
}

// Save renders the page into path, creating parent directories.
func (m *Map) Save(path string) error {
	var buf bytes.Buffer
	if err := m.Render(&buf); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return err
	}
	monitoring.Logf("htmlmap: wrote %s (%d bytes)", path, buf.Len())
	return nil
}

// seriesData flattens every vertex of the layer, labelled by its feature.
func seriesData(l *layer.HTMLLayer) []opts.ScatterData {
	var data []opts.ScatterData
	add := func(label string, d geom.Data) {
		if label == "" {
			label = l.Name
		}
		push := func(p [2]float64) {
			data = append(data, opts.ScatterData{Name: label, Value: []interface{}{p[0], p[1]}})
		}
		for _, p := range d.Points {
			push(p)
		}
		for _, ls := range d.Lines {
			for _, p := range ls {
				push(p)
			}
		}
		for _, poly := range d.Polygons {
			for _, ring := range poly {
				for _, p := range ring {
					push(p)
				}
			}
		}
	}
	features := l.Data.Features()
	if features == nil {
		add("", geom.Extract(l.Data))
		return data
	}
	for _, f := range features {
		add(geom.Label(f), geom.Extract(geom.Document(f)))
	}
	return data
}

type layerBlock struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Style  map[string]any `json:"style"`
	Params map[string]any `json:"params,omitempty"`
	Data   geom.Document  `json:"data"`
}

func writeLayerBlock(w *bytes.Buffer, l *layer.HTMLLayer) error {
	b, err := json.Marshal(layerBlock{ID: l.ID, Name: l.Name, Style: l.Style, Params: l.Params, Data: l.Data})
	if err != nil {
		return fmt.Errorf("htmlmap: encode layer %s: %w", l.Name, err)
	}
	fmt.Fprintf(w, "<script type=\"application/geo+json\" id=%q data-name=\"%s\">%s</script>\n",
		l.ID, html.EscapeString(l.Name), b)
	return nil
}
