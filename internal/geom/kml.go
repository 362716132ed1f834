package geom

import (
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"
)

type kmlPoint struct {
	Coordinates string `xml:"coordinates"`
}

type kmlPlacemark struct {
	Name        string    `xml:"name"`
	Description string    `xml:"description"`
	Point       *kmlPoint `xml:"Point"`
}

type kmlFolder struct {
	Placemarks []kmlPlacemark `xml:"Placemark"`
	Folders    []kmlFolder    `xml:"Folder"`
}

type kmlDoc struct {
	Placemarks []kmlPlacemark `xml:"Placemark"`
	Folders    []kmlFolder    `xml:"Folder"`
	Document   *kmlFolder     `xml:"Document"`
}

// ReadKML extracts Point placemarks from a KML document
// (Placemark > Point > coordinates), including those nested in Document and
// Folder elements. KML coordinates are "lon,lat[,alt]"; altitude is ignored.
func ReadKML(r io.Reader) ([]map[string]any, error) {
	var doc kmlDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	var features []map[string]any
	var collect func(pms []kmlPlacemark, folders []kmlFolder)
	collect = func(pms []kmlPlacemark, folders []kmlFolder) {
		for _, pm := range pms {
			if pm.Point == nil {
				continue
			}
			// coordinates may contain multiple tuples separated by spaces
			for _, tuple := range strings.Fields(pm.Point.Coordinates) {
				vals := strings.Split(tuple, ",")
				if len(vals) < 2 {
					continue
				}
				lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
				lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
				if err1 != nil || err2 != nil {
					continue
				}
				props := map[string]any{}
				if name := strings.TrimSpace(pm.Name); name != "" {
					props["name"] = name
				}
				if desc := strings.TrimSpace(pm.Description); desc != "" {
					props["description"] = desc
				}
				features = append(features, NewFeature(pointGeometry([2]float64{lon, lat}), props))
			}
		}
		for _, f := range folders {
			collect(f.Placemarks, f.Folders)
		}
	}
	collect(doc.Placemarks, doc.Folders)
	if doc.Document != nil {
		collect(doc.Document.Placemarks, doc.Document.Folders)
	}
	if len(features) == 0 {
		return nil, errors.New("kml: no points found")
	}
	return features, nil
}
