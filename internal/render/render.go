// Package render resolves dataset names to GeoJSON artifacts on disk.
package render

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"geomap/internal/geom"
	"geomap/internal/layer"
	"geomap/internal/monitoring"
)

// ErrDatasetNotFound is returned when no source file exists for a name.
var ErrDatasetNotFound = errors.New("render: dataset not found")

// Extensions lists the source formats Dir looks for, in lookup order.
var Extensions = []string{".geojson", ".json", ".csv", ".kml", ".wkt"}

var (
	_ layer.Renderer = (*Dir)(nil)
	_ layer.Renderer = Static("")
	_ layer.Renderer = Func(nil)
)

// Dir renders datasets stored as files in a directory. GeoJSON sources are
// returned in place; CSV, KML and WKT sources are converted to GeoJSON files
// in a private temp dir that Close removes.
type Dir struct {
	root string

	mu     sync.Mutex
	tmp    string
	closed bool
}

// NewDir returns a renderer over the files in root.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

func (d *Dir) Root() string { return d.root }

// Render returns the path of a GeoJSON artifact for name.
func (d *Dir) Render(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("render: invalid dataset name %q", name)
	}
	src, ext, err := d.find(name)
	if err != nil {
		return "", err
	}
	var convert func(io.Reader) ([]map[string]any, error)
	switch ext {
	case ".geojson", ".json":
		return src, nil
	case ".csv":
		convert = geom.ReadCSV
	case ".kml":
		convert = geom.ReadKML
	case ".wkt":
		convert = geom.ReadWKT
	}
	f, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer f.Close()
	features, err := convert(f)
	if err != nil {
		return "", fmt.Errorf("render: convert %s: %w", filepath.Base(src), err)
	}
	return d.write(name, geom.NewCollection(features))
}

func (d *Dir) find(name string) (string, string, error) {
	for _, ext := range Extensions {
		p := filepath.Join(d.root, name+ext)
		fi, err := os.Stat(p)
		if err == nil && fi.Mode().IsRegular() {
			return p, ext, nil
		}
	}
	return "", "", fmt.Errorf("%w: %s in %s", ErrDatasetNotFound, name, d.root)
}

func (d *Dir) write(name string, doc geom.Document) (string, error) {
	dir, err := d.tempDir()
	if err != nil {
		return "", err
	}
	f, err := os.CreateTemp(dir, name+"-*.geojson")
	if err != nil {
		return "", err
	}
	if err := doc.Encode(f); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func (d *Dir) tempDir() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return "", errors.New("render: renderer closed")
	}
	if d.tmp == "" {
		tmp, err := os.MkdirTemp("", "geomap-render-")
		if err != nil {
			return "", err
		}
		monitoring.Logf("render: artifacts in %s", tmp)
		d.tmp = tmp
	}
	return d.tmp, nil
}

// Close removes converted artifacts. GeoJSON sources are left untouched.
func (d *Dir) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	if d.tmp == "" {
		return nil
	}
	err := os.RemoveAll(d.tmp)
	if err != nil {
		monitoring.Logf("render: cleanup %s: %v", d.tmp, err)
	}
	d.tmp = ""
	return err
}

// Static renders every name to the same location.
type Static string

func (s Static) Render(string) (string, error) { return string(s), nil }

// Func adapts a function to layer.Renderer.
type Func func(name string) (string, error)

func (f Func) Render(name string) (string, error) { return f(name) }
