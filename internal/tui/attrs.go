package tui

import (
	"fmt"

	table "github.com/charmbracelet/bubbles/table"

	"geomap/internal/geom"
)

// refreshAttrsFromCurrent rebuilds the table columns/rows from the selected layer's features.
func (m *Model) refreshAttrsFromCurrent() {
	l := m.selectedLayer()
	if l == nil {
		m.showAttrs = false
		m.status = "no layer selected"
		return
	}
	cols, rows := geom.Attributes(l.Data)
	// If there are no columns or rows, disable attributes view to avoid rendering panics
	if len(cols) == 0 || len(rows) == 0 {
		// Do not touch table internals here to avoid re-render during SetColumns
		m.showAttrs = false
		m.status = fmt.Sprintf("no attributes for layer %s", l.Name)
		return
	}
	// map to bubbles table columns/rows
	tcols := make([]table.Column, 0, len(cols)+1)
	tcols = append(tcols, table.Column{Title: "#", Width: 4})
	maxColW := 24
	for _, c := range cols {
		w := min(len(c)+2, maxColW)
		tcols = append(tcols, table.Column{Title: c, Width: w})
	}
	trows := make([]table.Row, 0, len(rows))
	for i, r := range rows {
		row := make([]string, 0, len(r)+1)
		row = append(row, fmt.Sprintf("%d", i+1))
		row = append(row, r...)
		trows = append(trows, table.Row(row))
	}
	// Normalize each row to match the number of table columns
	colCount := len(tcols)
	for i := range trows {
		cells := []string(trows[i])
		if len(cells) < colCount {
			cells = append(cells, make([]string, colCount-len(cells))...)
		} else if len(cells) > colCount {
			cells = cells[:colCount]
		}
		trows[i] = table.Row(cells)
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
	m.status = fmt.Sprintf("attributes: %s (%d rows)", l.Name, len(trows))
}
