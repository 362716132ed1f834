package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"geomap/internal/geom"
)

// cellToLonLat converts a map cell coordinate back to lon/lat using bbox, zoom, and pan.
func (m Model) cellToLonLat(cx, cy, w, h int) (float64, float64, bool) {
	if !m.bbox.Valid() {
		return 0, 0, false
	}
	if w <= 1 || h <= 1 {
		return 0, 0, false
	}
	zx := float64(cx-m.offsetX) / float64(w-1)
	zy := 1.0 - float64(cy-m.offsetY)/float64(h-1)
	nx := 0.5 + (zx-0.5)/m.zoom
	ny := 0.5 + (zy-0.5)/m.zoom
	lon := m.bbox.MinX + nx*(m.bbox.MaxX-m.bbox.MinX)
	lat := m.bbox.MinY + ny*(m.bbox.MaxY-m.bbox.MinY)
	return lon, lat, true
}

// drawGeometry rasterizes one layer's geometry into br.
func (m Model) drawGeometry(br *brailleBuf, d geom.Data, w, h int) {
	project := func(p [2]float64) ([2]int, bool) {
		mx, my, ok := m.screenXYMicro(p[0], p[1], w, h)
		return [2]int{mx, my}, ok
	}
	// polygons: fill the outer ring (holes ignored), then every ring's edges
	for _, poly := range d.Polygons {
		var rings [][][2]int
		for _, ring := range poly {
			var sm [][2]int
			for _, p := range ring {
				if q, ok := project(p); ok {
					sm = append(sm, q)
				}
			}
			if len(sm) >= 3 {
				rings = append(rings, sm)
			}
		}
		if len(rings) == 0 {
			continue
		}
		br.fillRing(rings[0])
		for _, r := range rings {
			for i := 0; i < len(r); i++ {
				a := r[i]
				b := r[(i+1)%len(r)]
				br.drawLineMicro(a[0], a[1], b[0], b[1])
			}
		}
	}
	for _, ls := range d.Lines {
		var prev *[2]int
		for _, p := range ls {
			q, ok := project(p)
			if !ok {
				continue
			}
			if prev != nil {
				br.drawLineMicro(prev[0], prev[1], q[0], q[1])
			}
			prev = &q
		}
	}
	for _, p := range d.Points {
		if q, ok := project(p); ok {
			br.setPixel(q[0], q[1])
		}
	}
}

// renderMap draws every visible layer; later layers paint over earlier ones.
func (m Model) renderMap(w, h int) string {
	type cell struct {
		r     rune
		layer int // -1: empty
	}
	grid := make([][]cell, h)
	for y := range grid {
		grid[y] = make([]cell, w)
		for x := range grid[y] {
			grid[y][x] = cell{r: ' ', layer: -1}
		}
	}
	for li, l := range m.layers {
		if !l.Visible {
			continue
		}
		br := newBrailleBuf(w, h)
		m.drawGeometry(br, l.Geometry, w, h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if g := br.glyph(x, y); g != 0 {
					grid[y][x] = cell{r: g, layer: li}
				}
			}
		}
	}

	styles := make([]lipgloss.Style, len(m.layers))
	for i, l := range m.layers {
		styles[i] = layerStyle(l, i)
	}
	hoverX, hoverY := -1, -1
	if m.hovering {
		hoverX, hoverY = m.hoverMicX/2, m.hoverMicY/4
	}
	circle := lipgloss.NewStyle().Foreground(hoverFg).Render("◯")

	lines := make([]string, h)
	for y := 0; y < h; y++ {
		var sb strings.Builder
		// emit runs of cells that share a layer so each run is styled once
		run := []rune{}
		runLayer := -1
		flush := func() {
			if len(run) == 0 {
				return
			}
			if runLayer < 0 {
				sb.WriteString(string(run))
			} else {
				sb.WriteString(styles[runLayer].Render(string(run)))
			}
			run = run[:0]
		}
		for x := 0; x < w; x++ {
			c := grid[y][x]
			if x == hoverX && y == hoverY {
				flush()
				sb.WriteString(circle)
				runLayer = -1
				continue
			}
			if c.layer != runLayer {
				flush()
				runLayer = c.layer
			}
			run = append(run, c.r)
		}
		flush()
		lines[y] = sb.String()
	}
	return strings.Join(lines, "\n")
}

// screenXYMicro maps lon/lat into a 2x4 microgrid per cell for braille rendering.
func (m Model) screenXYMicro(lon, lat float64, w, h int) (int, int, bool) {
	if !m.bbox.Valid() {
		return 0, 0, false
	}
	nx := (lon - m.bbox.MinX) / (m.bbox.MaxX - m.bbox.MinX)
	ny := (lat - m.bbox.MinY) / (m.bbox.MaxY - m.bbox.MinY)
	zx := 0.5 + (nx-0.5)*m.zoom
	zy := 0.5 + (ny-0.5)*m.zoom
	wMic := w * 2
	hMic := h * 4
	sx := int(zx*float64(wMic-1)) + m.offsetX*2
	sy := int((1.0-zy)*float64(hMic-1)) + m.offsetY*4
	return sx, sy, true
}

// screenXY maps lon/lat to current screen integer coordinates considering zoom and pan.
func (m Model) screenXY(lon, lat float64, w, h int) (int, int, bool) {
	if !m.bbox.Valid() {
		return 0, 0, false
	}
	nx := (lon - m.bbox.MinX) / (m.bbox.MaxX - m.bbox.MinX)
	ny := (lat - m.bbox.MinY) / (m.bbox.MaxY - m.bbox.MinY)
	// Apply zoom around center (0.5, 0.5)
	zx := 0.5 + (nx-0.5)*m.zoom
	zy := 0.5 + (ny-0.5)*m.zoom
	sx := int(zx*float64(w-1)) + m.offsetX
	sy := int((1.0-zy)*float64(h-1)) + m.offsetY
	return sx, sy, true
}

// vertices calls fn for every vertex of every visible layer.
func (m Model) vertices(fn func(layerIdx int, p [2]float64)) {
	for li, l := range m.layers {
		if !l.Visible {
			continue
		}
		g := l.Geometry
		for _, p := range g.Points {
			fn(li, p)
		}
		for _, ls := range g.Lines {
			for _, p := range ls {
				fn(li, p)
			}
		}
		for _, poly := range g.Polygons {
			for _, ring := range poly {
				for _, p := range ring {
					fn(li, p)
				}
			}
		}
	}
}

// inspectNearest finds the vertex closest to the center of the map canvas.
func (m Model) inspectNearest() (layerIdx int, lon, lat float64, ok bool) {
	lo := m.layout()
	w, h := lo.mapW, lo.mapH
	cx, cy := w/2, h/2
	bestD := 1<<31 - 1
	var best [2]float64
	bestLayer := -1
	m.vertices(func(li int, p [2]float64) {
		sx, sy, ok := m.screenXY(p[0], p[1], w, h)
		if !ok {
			return
		}
		dx := sx - cx
		dy := sy - cy
		if d := dx*dx + dy*dy; d < bestD {
			bestD = d
			best = p
			bestLayer = li
		}
	})
	if bestLayer < 0 {
		return 0, 0, 0, false
	}
	return bestLayer, best[0], best[1], true
}
