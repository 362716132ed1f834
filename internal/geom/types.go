package geom

type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Valid reports whether the box has a non-degenerate extent on both axes.
func (b BBox) Valid() bool {
	return b.MaxX > b.MinX && b.MaxY > b.MinY
}

// Union returns the smallest box covering b and o.
func (b BBox) Union(o BBox) BBox {
	return BBox{
		MinX: min(b.MinX, o.MinX),
		MinY: min(b.MinY, o.MinY),
		MaxX: max(b.MaxX, o.MaxX),
		MaxY: max(b.MaxY, o.MaxY),
	}
}

// Pad grows the box by frac of its size on every side. Degenerate axes
// (a single point) are widened by a fixed margin instead.
func (b BBox) Pad(frac float64) BBox {
	const minMargin = 0.01
	dx := (b.MaxX - b.MinX) * frac
	dy := (b.MaxY - b.MinY) * frac
	if dx <= 0 {
		dx = minMargin
	}
	if dy <= 0 {
		dy = minMargin
	}
	return BBox{MinX: b.MinX - dx, MinY: b.MinY - dy, MaxX: b.MaxX + dx, MaxY: b.MaxY + dy}
}

// Data is a minimal geometry container for rendering
type Data struct {
	Points   [][2]float64
	Lines    [][][2]float64
	Polygons [][][][2]float64 // polygons with rings (first outer, following holes)
	BBox     BBox

	vertices int
}

// Empty reports whether no geometry was collected.
func (d Data) Empty() bool {
	return len(d.Points) == 0 && len(d.Lines) == 0 && len(d.Polygons) == 0
}

// Vertices returns the number of coordinates that contributed to BBox.
func (d Data) Vertices() int { return d.vertices }

// extend grows the bbox to include pt; the first vertex seeds it.
func (d *Data) extend(pt [2]float64) {
	if d.vertices == 0 {
		d.BBox = BBox{MinX: pt[0], MinY: pt[1], MaxX: pt[0], MaxY: pt[1]}
	} else {
		if pt[0] < d.BBox.MinX {
			d.BBox.MinX = pt[0]
		}
		if pt[1] < d.BBox.MinY {
			d.BBox.MinY = pt[1]
		}
		if pt[0] > d.BBox.MaxX {
			d.BBox.MaxX = pt[0]
		}
		if pt[1] > d.BBox.MaxY {
			d.BBox.MaxY = pt[1]
		}
	}
	d.vertices++
}

func (d *Data) addPoint(pt [2]float64) {
	d.Points = append(d.Points, pt)
	d.extend(pt)
}

func (d *Data) addLine(ls [][2]float64) {
	d.Lines = append(d.Lines, ls)
	for _, p := range ls {
		d.extend(p)
	}
}

func (d *Data) addPolygon(poly [][][2]float64) {
	d.Polygons = append(d.Polygons, poly)
	for _, ring := range poly {
		for _, p := range ring {
			d.extend(p)
		}
	}
}
