// Command geomap attaches vector datasets to a map and either exports an HTML
// page or opens the terminal viewer.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"geomap/internal/config"
	"geomap/internal/htmlmap"
	"geomap/internal/layer"
	"geomap/internal/render"
	"geomap/internal/tui"
	"geomap/internal/widget"
)

func main() {
	configPath := flag.String("config", "", "session YAML file")
	dir := flag.String("dir", "", "directory holding the datasets (default: config source_dir or .)")
	htmlOut := flag.String("html", "", "write an HTML page instead of opening the viewer")
	opacity := flag.String("opacity", "", "opacity applied to every layer, 0..1")
	color := flag.String("color", "", "style color applied to every layer")
	title := flag.String("title", "", "map title")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: geomap [flags] dataset...\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	sess := &config.Session{}
	if *configPath != "" {
		var err error
		if sess, err = config.Load(*configPath); err != nil {
			log.Fatal(err)
		}
	}
	for _, name := range flag.Args() {
		sess.Layers = append(sess.Layers, config.LayerConfig{Name: name})
	}
	if err := sess.Validate(); err != nil {
		flag.Usage()
		log.Fatal(err)
	}
	if *title != "" {
		sess.Title = *title
	}
	if *htmlOut != "" {
		sess.Output = *htmlOut
	}
	root := *dir
	if root == "" {
		root = sess.SourceDir
	}
	if root == "" {
		root = "."
	}

	src := render.NewDir(root)
	defer src.Close()

	vectors := make([]*layer.Vector, 0, len(sess.Layers))
	for _, lc := range sess.Layers {
		v, err := layer.NewVector(lc.Name, src, overrides(lc.Options, *opacity, *color))
		if err != nil {
			src.Close()
			log.Fatal(err)
		}
		vectors = append(vectors, v)
	}

	lat, lon := sess.Location()
	if sess.Output != "" {
		opts := []htmlmap.Option{htmlmap.WithLocation(lat, lon), htmlmap.WithZoom(sess.ZoomLevel())}
		if sess.Title != "" {
			opts = append(opts, htmlmap.WithTitle(sess.Title))
		}
		m := htmlmap.New(opts...)
		if err := attach(vectors, m); err != nil {
			src.Close()
			log.Fatal(err)
		}
		if err := m.Save(sess.Output); err != nil {
			src.Close()
			log.Fatal(err)
		}
		return
	}

	wm := widget.New(widget.WithCenter(lat, lon), widget.WithZoom(sess.ZoomLevel()))
	if err := attach(vectors, wm); err != nil {
		src.Close()
		log.Fatal(err)
	}
	if _, err := tea.NewProgram(tui.New(wm), tea.WithAltScreen(), tea.WithMouseAllMotion()).Run(); err != nil {
		src.Close()
		log.Fatal(err)
	}
}

func attach(vectors []*layer.Vector, target layer.MapTarget) error {
	for _, v := range vectors {
		if err := v.AddTo(target); err != nil {
			return err
		}
	}
	return nil
}

// overrides applies command-line opacity and color on top of configured
// options. An opacity that is not a number, or a configured style that is
// not a mapping, is passed through so the layer rejects it.
func overrides(opts layer.Options, opacity, color string) layer.Options {
	out := opts.Clone()
	if opacity == "" && color == "" {
		return out
	}
	if out == nil {
		out = layer.Options{}
	}
	if opacity != "" {
		if f, err := strconv.ParseFloat(opacity, 64); err == nil {
			out[layer.OptionOpacity] = f
		} else {
			out[layer.OptionOpacity] = opacity
		}
	}
	if color != "" {
		style := map[string]any{}
		switch s := out[layer.OptionStyle].(type) {
		case nil:
		case map[string]any:
			for k, v := range s {
				style[k] = v
			}
		case map[string]string:
			for k, v := range s {
				style[k] = v
			}
		default:
			// not a mapping: keep it so the layer reports it
			return out
		}
		style["color"] = color
		out[layer.OptionStyle] = style
	}
	return out
}

func init() {
	log.SetFlags(0)
	log.SetPrefix("geomap: ")
	if os.Getenv("GEOMAP_DEBUG") != "" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}
}
