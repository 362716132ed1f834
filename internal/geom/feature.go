package geom

import (
	"encoding/json"
	"io"
)

// NewFeature wraps a geometry object and its properties into a Feature.
func NewFeature(geometry, props map[string]any) map[string]any {
	if props == nil {
		props = map[string]any{}
	}
	return map[string]any{
		"type":       "Feature",
		"geometry":   geometry,
		"properties": props,
	}
}

// NewCollection builds a FeatureCollection document.
func NewCollection(features []map[string]any) Document {
	fs := make([]any, 0, len(features))
	for _, f := range features {
		fs = append(fs, f)
	}
	return Document{"type": "FeatureCollection", "features": fs}
}

// Encode writes the document as JSON.
func (d Document) Encode(w io.Writer) error {
	return json.NewEncoder(w).Encode(map[string]any(d))
}

func coords(pt [2]float64) []any { return []any{pt[0], pt[1]} }

func coordList(pts [][2]float64) []any {
	out := make([]any, 0, len(pts))
	for _, p := range pts {
		out = append(out, coords(p))
	}
	return out
}

func pointGeometry(pt [2]float64) map[string]any {
	return map[string]any{"type": "Point", "coordinates": coords(pt)}
}
