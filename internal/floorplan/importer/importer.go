package importer

import (
	"fmt"
	"io"
	"math"

	"restaurant-floor/internal/floorplan/models"
)

// DefaultCellPx размер клетки в пикселях исходного чертежа.
const DefaultCellPx = 60.0

// FromSVG переводит стены, двери и перегородки SVG-чертежа в объекты сетки.
// Каждый элемент становится полосой толщиной в одну клетку вдоль длинной стороны.
func FromSVG(r io.Reader, cellPx float64) ([]models.FurnitureObject, error) {
	if cellPx <= 0 || math.IsNaN(cellPx) {
		cellPx = DefaultCellPx
	}

	elements, err := Parse(r)
	if err != nil {
		return nil, err
	}

	objects := make([]models.FurnitureObject, 0, len(elements))
	for _, el := range elements {
		objects = append(objects, ToObject(el, cellPx))
	}
	return objects, nil
}

// ToObject один элемент в клетках сетки.
func ToObject(el Element, cellPx float64) models.FurnitureObject {
	obj := models.FurnitureObject{
		ID:    el.ID,
		Kind:  el.Kind,
		Scale: 1,
		Label: el.ID,
	}

	if el.Horizontal() {
		from, to := math.Min(el.P1.X, el.P2.X), math.Max(el.P1.X, el.P2.X)
		obj.OriginX = toCell(from, cellPx)
		obj.OriginY = int(math.Floor(el.P1.Y / cellPx))
		obj.SpanX = max(1, toCell(to, cellPx)-obj.OriginX)
		obj.SpanY = 1
	} else {
		from, to := math.Min(el.P1.Y, el.P2.Y), math.Max(el.P1.Y, el.P2.Y)
		obj.OriginX = int(math.Floor(el.P1.X / cellPx))
		obj.OriginY = toCell(from, cellPx)
		obj.SpanX = 1
		obj.SpanY = max(1, toCell(to, cellPx)-obj.OriginY)
		obj.Rotation = 90
	}

	obj.OriginX = max(0, obj.OriginX)
	obj.OriginY = max(0, obj.OriginY)
	return obj
}

func toCell(px, cellPx float64) int {
	return int(math.Round(px / cellPx))
}

// Summary короткое описание результата импорта для логов.
func Summary(objects []models.FurnitureObject) string {
	counts := map[models.ObjectKind]int{}
	for _, o := range objects {
		counts[o.Kind]++
	}
	return fmt.Sprintf("walls=%d doors=%d dividers=%d",
		counts[models.ObjectWall], counts[models.ObjectDoor], counts[models.ObjectDivider])
}
