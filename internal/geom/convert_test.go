package geom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	t.Parallel()

	input := "name,Latitude,LON,kind\nalpha,10.5,20.25,cafe\nbad,x,1,skip\nbeta,-1,2,park\n"
	features, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, features, 2)

	doc := NewCollection(features)
	d := Extract(doc)
	assert.Equal(t, [][2]float64{{20.25, 10.5}, {2, -1}}, d.Points)

	props := features[0]["properties"].(map[string]any)
	assert.Equal(t, map[string]any{"name": "alpha", "kind": "cafe"}, props)
}

func TestReadCSV_Errors(t *testing.T) {
	t.Parallel()

	_, err := ReadCSV(strings.NewReader(""))
	assert.EqualError(t, err, "empty csv")

	_, err = ReadCSV(strings.NewReader("a,b\n1,2\n"))
	assert.EqualError(t, err, "csv: latitude/longitude columns not found")

	_, err = ReadCSV(strings.NewReader("lat,lon\nx,y\n"))
	assert.EqualError(t, err, "csv: no valid points parsed")
}

func TestReadKML(t *testing.T) {
	t.Parallel()

	input := `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <Placemark><name>hq</name><Point><coordinates>13.4,52.5,0</coordinates></Point></Placemark>
    <Folder>
      <Placemark><name>depot</name><description>north</description><Point><coordinates>10,53</coordinates></Point></Placemark>
    </Folder>
    <Placemark><name>area</name></Placemark>
  </Document>
</kml>`
	features, err := ReadKML(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, features, 2)
	assert.Equal(t, "hq", Label(features[0]))
	assert.Equal(t, "depot", Label(features[1]))
	assert.Equal(t, "north", features[1]["properties"].(map[string]any)["description"])

	d := Extract(NewCollection(features))
	assert.Equal(t, [][2]float64{{13.4, 52.5}, {10, 53}}, d.Points)
}

func TestReadKML_NoPoints(t *testing.T) {
	t.Parallel()

	_, err := ReadKML(strings.NewReader(`<kml><Placemark><name>x</name></Placemark></kml>`))
	assert.EqualError(t, err, "kml: no points found")
}

func TestParseWKT(t *testing.T) {
	t.Parallel()

	g, err := ParseWKT("POINT (1 2)")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"type": "Point", "coordinates": []any{1.0, 2.0}}, g)

	g, err = ParseWKT("multipoint((1 2), (3 4))")
	require.NoError(t, err)
	assert.Equal(t, "MultiPoint", g["type"])
	assert.Len(t, g["coordinates"], 2)

	g, err = ParseWKT("LINESTRING(0 0, 1 1, 2 0)")
	require.NoError(t, err)
	assert.Equal(t, "LineString", g["type"])
	assert.Len(t, g["coordinates"], 3)

	g, err = ParseWKT("POLYGON((0 0, 10 0, 10 10, 0 0), (2 2, 3 2, 3 3, 2 2))")
	require.NoError(t, err)
	assert.Equal(t, "Polygon", g["type"])
	rings := g["coordinates"].([]any)
	require.Len(t, rings, 2)
	assert.Len(t, rings[1], 4)
}

func TestParseWKT_Errors(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "POINT", "POINT()", "LINESTRING(0 0)", "CIRCLE(1 1)", "POLYGON(0 0)"} {
		_, err := ParseWKT(input)
		assert.Error(t, err, input)
	}
}

func TestReadWKT(t *testing.T) {
	t.Parallel()

	features, err := ReadWKT(strings.NewReader("# sample\nPOINT(1 1)\n\nLINESTRING(0 0, 5 5)\n"))
	require.NoError(t, err)
	require.Len(t, features, 2)

	d := Extract(NewCollection(features))
	assert.Len(t, d.Points, 1)
	assert.Len(t, d.Lines, 1)

	_, err = ReadWKT(strings.NewReader("\n# nothing\n"))
	assert.EqualError(t, err, "empty wkt")
}

func TestAttributes(t *testing.T) {
	t.Parallel()

	doc, err := ParseDocument([]byte(pointCollection))
	require.NoError(t, err)

	cols, rows := Attributes(doc)
	assert.Equal(t, []string{"name", "lanes"}, cols)
	assert.Equal(t, [][]string{{"origin", ""}, {"road", "2"}, {"", ""}}, rows)

	cols, rows = Attributes(Document{"type": "Point", "coordinates": []any{0.0, 0.0}})
	assert.Empty(t, cols)
	assert.Empty(t, rows)
}
