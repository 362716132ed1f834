package geom

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
)

// ParseWKT parses a subset of WKT into a GeoJSON geometry object.
// Supported: POINT(x y), MULTIPOINT(x y, ...), LINESTRING(x y, ...),
// POLYGON((x y, ...), (hole ...)).
func ParseWKT(wkt string) (map[string]any, error) {
	s := strings.TrimSpace(wkt)
	if s == "" {
		return nil, errors.New("empty wkt")
	}
	up := strings.ToUpper(s)
	parseTuples := func(block string) [][2]float64 {
		var out [][2]float64
		for _, tup := range strings.Split(block, ",") {
			tup = strings.Trim(strings.TrimSpace(tup), "()")
			parts := strings.Fields(tup)
			if len(parts) < 2 {
				continue
			}
			x, e1 := strconv.ParseFloat(parts[0], 64)
			y, e2 := strconv.ParseFloat(parts[1], 64)
			if e1 != nil || e2 != nil {
				continue
			}
			out = append(out, [2]float64{x, y})
		}
		return out
	}
	body := func(open, close string) (string, bool) {
		i := strings.Index(s, open)
		j := strings.LastIndex(s, close)
		if i < 0 || j <= i {
			return "", false
		}
		return s[i+len(open) : j], true
	}
	switch {
	case strings.HasPrefix(up, "POINT"):
		b, ok := body("(", ")")
		if !ok {
			return nil, errors.New("wkt point: invalid")
		}
		pts := parseTuples(b)
		if len(pts) != 1 {
			return nil, errors.New("wkt point: expected one coordinate")
		}
		return pointGeometry(pts[0]), nil
	case strings.HasPrefix(up, "MULTIPOINT"):
		b, ok := body("(", ")")
		if !ok {
			return nil, errors.New("wkt multipoint: invalid")
		}
		pts := parseTuples(b)
		if len(pts) == 0 {
			return nil, errors.New("wkt: no coordinates parsed")
		}
		return map[string]any{"type": "MultiPoint", "coordinates": coordList(pts)}, nil
	case strings.HasPrefix(up, "LINESTRING"):
		b, ok := body("(", ")")
		if !ok {
			return nil, errors.New("wkt linestring: invalid")
		}
		ls := parseTuples(b)
		if len(ls) < 2 {
			return nil, errors.New("wkt linestring: need at least two coordinates")
		}
		return map[string]any{"type": "LineString", "coordinates": coordList(ls)}, nil
	case strings.HasPrefix(up, "POLYGON"):
		b, ok := body("((", "))")
		if !ok {
			return nil, errors.New("wkt polygon: invalid")
		}
		// normalize spaces around ring separators
		norm := strings.ReplaceAll(b, "), (", "),(")
		norm = strings.ReplaceAll(norm, ") , (", "),(")
		var rings []any
		for _, rp := range strings.Split(norm, "),(") {
			pts := parseTuples(rp)
			if len(pts) == 0 {
				continue
			}
			rings = append(rings, coordList(pts))
		}
		if len(rings) == 0 {
			return nil, errors.New("wkt: no coordinates parsed")
		}
		return map[string]any{"type": "Polygon", "coordinates": rings}, nil
	}
	return nil, errors.New("unsupported wkt type")
}

// ReadWKT reads one WKT geometry per non-empty line and returns a feature
// for each. Lines starting with '#' are ignored.
func ReadWKT(r io.Reader) ([]map[string]any, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var features []map[string]any
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		g, err := ParseWKT(line)
		if err != nil {
			return nil, err
		}
		features = append(features, NewFeature(g, nil))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(features) == 0 {
		return nil, errors.New("empty wkt")
	}
	return features, nil
}
