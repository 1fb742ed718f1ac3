package importer

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"restaurant-floor/internal/floorplan/models"
)

// ============================================================
// XML Structures
// ============================================================

type svgDoc struct {
	XMLName xml.Name `xml:"svg"`
	svgGroup
}

// svgGroup элементы уровня документа или <g>; группы обходятся рекурсивно.
type svgGroup struct {
	Rects  []svgRect  `xml:"rect"`
	Paths  []svgPath  `xml:"path"`
	Groups []svgGroup `xml:"g"`
}

type svgRect struct {
	ID     string  `xml:"id,attr"`
	X      float64 `xml:"x,attr"`
	Y      float64 `xml:"y,attr"`
	Width  float64 `xml:"width,attr"`
	Height float64 `xml:"height,attr"`
}

type svgPath struct {
	ID string `xml:"id,attr"`
	D  string `xml:"d,attr"`
}

// ============================================================
// Parser
// ============================================================

// Element стена, дверь или перегородка из SVG в пикселях: осевая линия по длинной стороне.
type Element struct {
	ID   string
	Kind models.ObjectKind
	P1   Point
	P2   Point
}

// Horizontal как и у стен сетки: длина по X не меньше длины по Y.
func (e Element) Horizontal() bool {
	return abs(e.P2.X-e.P1.X) >= abs(e.P2.Y-e.P1.Y)
}

// Parse читает SVG и возвращает распознанные по id элементы.
// Элементы без известного префикса пропускаются.
func Parse(r io.Reader) ([]Element, error) {
	var doc svgDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode svg: %w", err)
	}

	var elements []Element
	if err := collect(doc.svgGroup, &elements); err != nil {
		return nil, err
	}
	return elements, nil
}

func collect(g svgGroup, out *[]Element) error {
	for _, rect := range g.Rects {
		kind, ok := classifyByID(rect.ID)
		if !ok {
			continue
		}
		p1, p2 := axisOfBox(rect.X, rect.Y, rect.X+rect.Width, rect.Y+rect.Height)
		*out = append(*out, Element{ID: rect.ID, Kind: kind, P1: p1, P2: p2})
	}

	for _, path := range g.Paths {
		kind, ok := classifyByID(path.ID)
		if !ok {
			continue
		}
		points, err := ParsePath(path.D)
		if err != nil {
			return fmt.Errorf("path %s: %w", path.ID, err)
		}
		if len(points) < 2 {
			continue
		}
		minX, minY, maxX, maxY := boundingBox(points)
		p1, p2 := axisOfBox(minX, minY, maxX, maxY)
		*out = append(*out, Element{ID: path.ID, Kind: kind, P1: p1, P2: p2})
	}

	for _, sub := range g.Groups {
		if err := collect(sub, out); err != nil {
			return err
		}
	}
	return nil
}

func classifyByID(id string) (models.ObjectKind, bool) {
	switch {
	case strings.HasPrefix(id, "Wall_"), strings.HasPrefix(id, "Hui_Wall_"):
		return models.ObjectWall, true
	case strings.HasPrefix(id, "Door_"):
		return models.ObjectDoor, true
	case strings.HasPrefix(id, "Divider_"):
		return models.ObjectDivider, true
	}
	return "", false
}

// axisOfBox осевая линия прямоугольника по длинной стороне.
func axisOfBox(minX, minY, maxX, maxY float64) (Point, Point) {
	if maxX-minX >= maxY-minY {
		midY := (minY + maxY) / 2
		return Point{X: minX, Y: midY}, Point{X: maxX, Y: midY}
	}
	midX := (minX + maxX) / 2
	return Point{X: midX, Y: minY}, Point{X: midX, Y: maxY}
}

func boundingBox(points []Point) (minX, minY, maxX, maxY float64) {
	minX, maxX = points[0].X, points[0].X
	minY, maxY = points[0].Y, points[0].Y
	for _, p := range points[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	return minX, minY, maxX, maxY
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
