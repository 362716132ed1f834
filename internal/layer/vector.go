package layer

import (
	"errors"
	"fmt"
	"io"
	"os"

	"geomap/internal/geom"
)

// Vector attaches a rendered vector dataset to maps. It holds no map state
// and its options are read-only after construction, so AddTo may be called
// concurrently for different maps.
type Vector struct {
	name       string
	renderer   Renderer
	options    Options
	style      map[string]any
	opacity    float64
	hasOpacity bool
}

// NewVector validates opts and returns a Vector for the named dataset.
// opts is copied; later changes by the caller do not affect the Vector.
func NewVector(name string, r Renderer, opts Options) (*Vector, error) {
	if name == "" {
		return nil, &ConfigurationError{Option: "name", Reason: "must not be empty"}
	}
	if r == nil {
		return nil, &ConfigurationError{Option: "renderer", Reason: "must not be nil"}
	}
	style, opacity, hasOpacity, err := opts.parse()
	if err != nil {
		return nil, err
	}
	return &Vector{
		name:       name,
		renderer:   r,
		options:    opts.Clone(),
		style:      style,
		opacity:    opacity,
		hasOpacity: hasOpacity,
	}, nil
}

func (v *Vector) Name() string { return v.name }

// Options returns a copy of the options the Vector was built with.
func (v *Vector) Options() Options { return v.options.Clone() }

// Style returns a copy of the base style, without opacity merged in.
func (v *Vector) Style() map[string]any { return copyMap(v.style) }

func (v *Vector) Opacity() (float64, bool) { return v.opacity, v.hasOpacity }

// MergedStyle returns a fresh style map with opacity folded in.
func (v *Vector) MergedStyle() map[string]any {
	merged := make(map[string]any, len(v.style)+1)
	for k, val := range v.style {
		merged[k] = copyValue(val)
	}
	if v.hasOpacity {
		merged[OptionOpacity] = v.opacity
	}
	return merged
}

// params returns the options forwarded verbatim to the layer.
func (v *Vector) params() map[string]any {
	out := make(map[string]any, len(v.options))
	for k, val := range v.options {
		if k == OptionStyle || k == OptionOpacity {
			continue
		}
		out[k] = copyValue(val)
	}
	return out
}

// Layer renders the dataset and builds the layer variant for backend
// without attaching it anywhere.
func (v *Vector) Layer(backend Backend) (Layer, error) {
	if backend != BackendHTML && backend != BackendWidget {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedBackend, backend)
	}
	doc, err := v.load()
	if err != nil {
		return nil, err
	}
	switch backend {
	case BackendHTML:
		return newHTMLLayer(v.name, doc, v.MergedStyle(), v.params()), nil
	default:
		return newWidgetLayer(v.name, doc, v.MergedStyle(), v.params()), nil
	}
}

// AddTo renders the dataset, builds the layer variant the target declares
// and adds it to the target.
func (v *Vector) AddTo(target MapTarget) error {
	if target == nil {
		return ErrNilMap
	}
	l, err := v.Layer(target.Backend())
	if err != nil {
		return err
	}
	return target.Add(l)
}

func (v *Vector) load() (geom.Document, error) {
	loc, err := v.renderer.Render(v.name)
	if err != nil {
		return nil, fmt.Errorf("layer: render %s: %w", v.name, err)
	}
	f, err := os.Open(loc)
	if err != nil {
		return nil, &ArtifactNotFoundError{Name: v.name, Location: loc, Err: err}
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, &ArtifactNotFoundError{Name: v.name, Location: loc, Err: err}
	}
	if fi.IsDir() {
		return nil, &ArtifactNotFoundError{Name: v.name, Location: loc, Err: errors.New("is a directory")}
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, &ArtifactNotFoundError{Name: v.name, Location: loc, Err: err}
	}
	doc, err := geom.ParseDocument(data)
	if err != nil {
		return nil, &ParseError{Name: v.name, Location: loc, Err: err}
	}
	return doc, nil
}
