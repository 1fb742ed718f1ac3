package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ============================================================
// Path Parser
// ============================================================

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

var pathCommand = regexp.MustCompile(`([MmLlHhVvZz])([^MmLlHhVvZz]*)`)

// ParsePath парсит атрибут d в список точек.
// Поддерживаются только прямые: M, L, H, V, Z и их относительные формы.
// Повторяющиеся пары координат после M/L трактуются как неявные L.
func ParsePath(d string) ([]Point, error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return nil, fmt.Errorf("empty path")
	}

	var points []Point
	var cur Point

	for _, match := range pathCommand.FindAllStringSubmatch(d, -1) {
		cmd := match[1]
		coords := parseCoords(match[2])
		relative := cmd == strings.ToLower(cmd)

		switch strings.ToUpper(cmd) {
		case "M", "L":
			for i := 0; i+1 < len(coords); i += 2 {
				if relative {
					cur.X += coords[i]
					cur.Y += coords[i+1]
				} else {
					cur = Point{X: coords[i], Y: coords[i+1]}
				}
				points = append(points, cur)
			}
		case "H":
			for _, c := range coords {
				if relative {
					cur.X += c
				} else {
					cur.X = c
				}
				points = append(points, cur)
			}
		case "V":
			for _, c := range coords {
				if relative {
					cur.Y += c
				} else {
					cur.Y = c
				}
				points = append(points, cur)
			}
		case "Z":
			// замыкание на первую точку
			if len(points) > 0 {
				cur = points[0]
				points = append(points, cur)
			}
		}
	}

	return points, nil
}

func parseCoords(s string) []float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	var coords []float64
	for _, part := range strings.Fields(strings.ReplaceAll(s, ",", " ")) {
		if val, err := strconv.ParseFloat(part, 64); err == nil {
			coords = append(coords, val)
		}
	}
	return coords
}
