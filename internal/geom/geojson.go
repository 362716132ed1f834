package geom

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Document is a decoded GeoJSON object. Features and their properties are
// kept exactly as decoded.
type Document map[string]any

var (
	ErrMissingType = errors.New("geojson: missing type")
	ErrNotObject   = errors.New("geojson: document is not an object")
)

// ReadDocument decodes a GeoJSON object from r.
func ReadDocument(r io.Reader) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseDocument(data)
}

// ParseDocument decodes data and checks that it has the shape of a GeoJSON
// object. An empty FeatureCollection is valid. Numbers are kept as
// json.Number so large integer properties survive unchanged.
func ParseDocument(data []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("geojson: trailing data after document")
	}
	raw, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	t, _ := raw["type"].(string)
	switch t {
	case "":
		return nil, ErrMissingType
	case "FeatureCollection":
		fs, ok := raw["features"].([]any)
		if !ok {
			return nil, errors.New("geojson: features is not an array")
		}
		for i, f := range fs {
			fm, ok := f.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("geojson: feature %d is not an object", i)
			}
			if err := checkFeature(fm); err != nil {
				return nil, fmt.Errorf("geojson: feature %d: %w", i, err)
			}
		}
	case "Feature":
		if err := checkFeature(raw); err != nil {
			return nil, fmt.Errorf("geojson: %w", err)
		}
	default:
		if err := checkGeometry(raw); err != nil {
			return nil, fmt.Errorf("geojson: %w", err)
		}
	}
	return Document(raw), nil
}

func checkFeature(f map[string]any) error {
	if t, _ := f["type"].(string); t != "Feature" {
		return fmt.Errorf("unexpected type %q", t)
	}
	switch g := f["geometry"].(type) {
	case nil:
	case map[string]any:
		if err := checkGeometry(g); err != nil {
			return err
		}
	default:
		return errors.New("geometry is not an object")
	}
	switch f["properties"].(type) {
	case nil, map[string]any:
		return nil
	default:
		return errors.New("properties is not an object")
	}
}

func checkGeometry(g map[string]any) error {
	t, _ := g["type"].(string)
	switch t {
	case "Point", "MultiPoint", "LineString", "MultiLineString", "Polygon", "MultiPolygon":
		if _, ok := g["coordinates"].([]any); !ok {
			return fmt.Errorf("%s without coordinates", t)
		}
	case "GeometryCollection":
		gs, ok := g["geometries"].([]any)
		if !ok {
			return errors.New("GeometryCollection without geometries")
		}
		for _, el := range gs {
			gm, ok := el.(map[string]any)
			if !ok {
				return errors.New("geometry is not an object")
			}
			if err := checkGeometry(gm); err != nil {
				return err
			}
		}
	case "":
		return errors.New("geometry without type")
	default:
		return fmt.Errorf("unsupported geometry type %q", t)
	}
	return nil
}

// Type returns the GeoJSON type member.
func (d Document) Type() string {
	t, _ := d["type"].(string)
	return t
}

// Features returns the feature objects of a Feature or FeatureCollection.
// Bare geometries have no features.
func (d Document) Features() []map[string]any {
	switch d.Type() {
	case "FeatureCollection":
		fs, _ := d["features"].([]any)
		out := make([]map[string]any, 0, len(fs))
		for _, f := range fs {
			if fm, ok := f.(map[string]any); ok {
				out = append(out, fm)
			}
		}
		return out
	case "Feature":
		return []map[string]any{d}
	}
	return nil
}

// Label picks a display name for a feature from its properties.
func Label(f map[string]any) string {
	pm, _ := f["properties"].(map[string]any)
	for _, k := range []string{"name", "title", "label", "id"} {
		if s, ok := pm[k].(string); ok && s != "" {
			return s
		}
	}
	if id, ok := f["id"]; ok && id != nil {
		return fmt.Sprint(id)
	}
	return ""
}

// Extract walks the document and collects drawable geometry with its bbox.
// Malformed coordinates are skipped.
func Extract(doc Document) Data {
	var d Data
	var walkGeom func(g map[string]any)
	walkGeom = func(g map[string]any) {
		gt, _ := g["type"].(string)
		switch gt {
		case "Point":
			if pt, ok := parsePoint(g["coordinates"]); ok {
				d.addPoint(pt)
			}
		case "MultiPoint":
			if pts, ok := parseArrayPoints(g["coordinates"]); ok {
				for _, p := range pts {
					d.addPoint(p)
				}
			}
		case "LineString":
			if ls, ok := parseArrayPoints(g["coordinates"]); ok {
				d.addLine(ls)
			}
		case "MultiLineString":
			if arr, ok := g["coordinates"].([]any); ok {
				for _, el := range arr {
					if ls, ok := parseArrayPoints(el); ok {
						d.addLine(ls)
					}
				}
			}
		case "Polygon":
			if poly, ok := parsePolygon(g["coordinates"]); ok {
				d.addPolygon(poly)
			}
		case "MultiPolygon":
			if arr, ok := g["coordinates"].([]any); ok {
				for _, el := range arr {
					if poly, ok := parsePolygon(el); ok {
						d.addPolygon(poly)
					}
				}
			}
		case "GeometryCollection":
			if gs, ok := g["geometries"].([]any); ok {
				for _, el := range gs {
					if gm, ok := el.(map[string]any); ok {
						walkGeom(gm)
					}
				}
			}
		}
	}
	switch doc.Type() {
	case "Feature", "FeatureCollection":
		for _, f := range doc.Features() {
			if g, ok := f["geometry"].(map[string]any); ok {
				walkGeom(g)
			}
		}
	default:
		if len(doc) > 0 {
			walkGeom(doc)
		}
	}
	return d
}

func parsePoint(v any) (pt [2]float64, ok bool) {
	if a, ok := v.([]any); ok && len(a) >= 2 {
		lon, lok := number(a[0])
		lat, aok := number(a[1])
		if lok && aok {
			return [2]float64{lon, lat}, true
		}
	}
	return [2]float64{}, false
}

// number reads a coordinate decoded either as json.Number or float64.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	}
	return 0, false
}

func parseArrayPoints(v any) (pts [][2]float64, ok bool) {
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}
	for _, el := range arr {
		if pt, ok := parsePoint(el); ok {
			pts = append(pts, pt)
		}
	}
	return pts, true
}

func parsePolygon(v any) (poly [][][2]float64, ok bool) {
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}
	for _, ring := range arr {
		if ls, ok := parseArrayPoints(ring); ok {
			poly = append(poly, ls)
		}
	}
	return poly, true
}
