package layer

import (
	"strings"

	"github.com/google/uuid"

	"geomap/internal/geom"
)

// Backend tags the kind of map a layer is built for.
type Backend int

const (
	// BackendHTML maps export static HTML pages with the layer data embedded.
	BackendHTML Backend = iota + 1
	// BackendWidget maps keep attached layers in process for interactive display.
	BackendWidget
)

func (b Backend) String() string {
	switch b {
	case BackendHTML:
		return "html"
	case BackendWidget:
		return "widget"
	}
	return "unknown"
}

// Renderer produces the location of a GeoJSON artifact for a named dataset.
type Renderer interface {
	Render(name string) (string, error)
}

// MapTarget is a map that layers can be attached to. Backend declares which
// layer variant Add expects.
type MapTarget interface {
	Backend() Backend
	Add(l Layer) error
}

// Layer is either *HTMLLayer or *WidgetLayer.
type Layer interface {
	Backend() Backend
	LayerName() string
	isLayer()
}

// HTMLLayer is a layer embedded into an exported HTML page.
type HTMLLayer struct {
	ID     string
	Name   string
	Data   geom.Document
	Style  map[string]any
	Params map[string]any
	Bounds geom.BBox
	// HasBounds is false when the data carries no coordinates.
	HasBounds bool
}

func (*HTMLLayer) Backend() Backend    { return BackendHTML }
func (l *HTMLLayer) LayerName() string { return l.Name }
func (*HTMLLayer) isLayer()            {}

// WidgetLayer is a layer held by an in-process map widget.
type WidgetLayer struct {
	ID       string
	Name     string
	Data     geom.Document
	Style    map[string]any
	Params   map[string]any
	Geometry geom.Data
	Visible  bool
}

func (*WidgetLayer) Backend() Backend    { return BackendWidget }
func (l *WidgetLayer) LayerName() string { return l.Name }
func (*WidgetLayer) isLayer()            {}

// Color returns the style color, or "" when unset.
func (l *WidgetLayer) Color() string {
	c, _ := l.Style["color"].(string)
	return c
}

// Opacity returns the style opacity, defaulting to 1.
func (l *WidgetLayer) Opacity() float64 {
	if f, ok := toFloat(l.Style["opacity"]); ok {
		return f
	}
	return 1
}

// Clone returns a copy that shares no maps with l.
func (l *WidgetLayer) Clone() *WidgetLayer {
	c := *l
	c.Style = copyMap(l.Style)
	c.Params = copyMap(l.Params)
	c.Data = geom.Document(copyMap(l.Data))
	return &c
}

func newHTMLLayer(name string, doc geom.Document, style, params map[string]any) *HTMLLayer {
	d := geom.Extract(doc)
	return &HTMLLayer{
		ID:        "geo_json_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		Name:      name,
		Data:      doc,
		Style:     style,
		Params:    params,
		Bounds:    d.BBox,
		HasBounds: d.Vertices() > 0,
	}
}

func newWidgetLayer(name string, doc geom.Document, style, params map[string]any) *WidgetLayer {
	return &WidgetLayer{
		ID:       uuid.NewString(),
		Name:     name,
		Data:     doc,
		Style:    style,
		Params:   params,
		Geometry: geom.Extract(doc),
		Visible:  true,
	}
}
