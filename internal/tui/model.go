package tui

import (
	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"geomap/internal/geom"
	"geomap/internal/layer"
	"geomap/internal/widget"
)

// RefreshMsg asks the model to re-read layers from its widget map, e.g.
// after layers were added from another goroutine.
type RefreshMsg struct{}

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool

	zoom    float64
	offsetX int
	offsetY int

	status string

	// Layers
	wm     *widget.Map
	layers []*layer.WidgetLayer
	l      list.Model
	bbox   geom.BBox

	// inspect popup
	inspectPopup string

	// hover state
	hovering    bool
	hoverCellX  int
	hoverCellY  int
	hoverMicX   int
	hoverMicY   int
	hoverHasGeo bool
	hoverLon    float64
	hoverLat    float64

	// attributes table
	showAttrs bool
	tbl       table.Model
}

// New returns a viewer over the layers attached to wm.
func New(wm *widget.Map) Model {
	m := Model{
		wm:          wm,
		showSidebar: false,
		helpVisible: true,
		zoom:        1.0,
		status:      "geomap ready",
	}
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = true
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Layers"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// attributes table setup (columns will be inferred per layer)
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshLayers()
	return m
}

func (m Model) Init() tea.Cmd { return nil }
