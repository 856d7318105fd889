// Package export renders routes and the results of linear referencing
// queries as KML documents, for inspection in Google Earth or QGIS.
package export

import (
	"fmt"
	"image/color"
	"io"

	"github.com/twpayne/go-kml"

	"github.com/dpup/lrs/internal/lib/geo"
)

var (
	routeColor    = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	fragmentColor = color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff}
	normalColor   = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
)

// Document collects placemarks before they are written out
type Document struct {
	name    string
	folders []kml.Element
}

// NewDocument starts an empty document
func NewDocument(name string) *Document {
	return &Document{name: name}
}

// Route is a polyline shown as one placemark
type Route struct {
	ID     string
	Name   string
	Coords []geo.Coord
}

// Marker is a labelled point
type Marker struct {
	Name        string
	Description string
	Coord       geo.Coord
}

// AddRoutes adds a folder with one line placemark per route
func (d *Document) AddRoutes(folder string, routes []Route) {
	d.addLines(folder, "#route", routes)
}

// AddFragments adds a folder with the pieces a route was split into
func (d *Document) AddFragments(folder string, fragments []Route) {
	d.addLines(folder, "#fragment", fragments)
}

// AddNormals adds a folder with one short line per normal
func (d *Document) AddNormals(folder string, normals []geo.Line) {
	placemarks := []kml.Element{kml.Name(folder)}
	for i, n := range normals {
		placemarks = append(placemarks, kml.Placemark(
			kml.Name(fmt.Sprintf("normal %d", i)),
			kml.StyleURL("#normal"),
			kml.LineString(kml.Coordinates(coordinate(n.Start), coordinate(n.End))),
		))
	}
	d.folders = append(d.folders, kml.Folder(placemarks...))
}

// AddMarkers adds a folder of labelled points
func (d *Document) AddMarkers(folder string, markers []Marker) {
	placemarks := []kml.Element{kml.Name(folder)}
	for _, m := range markers {
		children := []kml.Element{kml.Name(m.Name)}
		if m.Description != "" {
			children = append(children, kml.Description(m.Description))
		}
		children = append(children, kml.Point(kml.Coordinates(coordinate(m.Coord))))
		placemarks = append(placemarks, kml.Placemark(children...))
	}
	d.folders = append(d.folders, kml.Folder(placemarks...))
}

func (d *Document) addLines(folder, style string, routes []Route) {
	placemarks := []kml.Element{kml.Name(folder)}
	for _, r := range routes {
		name := r.Name
		if name == "" {
			name = r.ID
		}
		coords := make([]kml.Coordinate, len(r.Coords))
		for i, c := range r.Coords {
			coords[i] = coordinate(c)
		}
		placemarks = append(placemarks, kml.Placemark(
			kml.Name(name),
			kml.Description(r.ID),
			kml.StyleURL(style),
			kml.LineString(kml.Tessellate(true), kml.Coordinates(coords...)),
		))
	}
	d.folders = append(d.folders, kml.Folder(placemarks...))
}

// Write renders the document as indented KML
func (d *Document) Write(w io.Writer) error {
	children := []kml.Element{
		kml.Name(d.name),
		lineStyle("route", routeColor, 4),
		lineStyle("fragment", fragmentColor, 2),
		lineStyle("normal", normalColor, 2),
	}
	children = append(children, d.folders...)
	if err := kml.KML(kml.Document(children...)).WriteIndent(w, "", "  "); err != nil {
		return fmt.Errorf("failed to write KML: %w", err)
	}
	return nil
}

func lineStyle(id string, c color.Color, width float64) kml.Element {
	return kml.SharedStyle(id, kml.LineStyle(kml.Color(c), kml.Width(width)))
}

// coordinate maps X to longitude and Y to latitude
func coordinate(c geo.Coord) kml.Coordinate {
	return kml.Coordinate{Lon: c.X, Lat: c.Y}
}
