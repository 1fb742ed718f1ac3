package walls

import (
	"restaurant-floor/internal/floorplan/models"
)

// ============================================================
// Wall segments
// ============================================================

// Segment стена или перегородка как отрезок по длинной оси.
// Для горизонтального отрезка Const хранит y, Start/End хранят x; для вертикального наоборот.
type Segment struct {
	ID         string
	Horizontal bool
	Start      int
	End        int
	Const      int
}

// SegmentOf строит отрезок из прямоугольника: горизонтальный, если spanX >= spanY.
func SegmentOf(id string, r models.Rect) Segment {
	if r.W >= r.H {
		return Segment{ID: id, Horizontal: true, Start: r.X, End: r.X + r.W, Const: r.Y}
	}
	return Segment{ID: id, Horizontal: false, Start: r.Y, End: r.Y + r.H, Const: r.X}
}

func (s Segment) P1() models.GridPoint {
	if s.Horizontal {
		return models.GridPoint{X: s.Start, Y: s.Const}
	}
	return models.GridPoint{X: s.Const, Y: s.Start}
}

func (s Segment) P2() models.GridPoint {
	if s.Horizontal {
		return models.GridPoint{X: s.End, Y: s.Const}
	}
	return models.GridPoint{X: s.Const, Y: s.End}
}

// Translate сдвигает отрезок.
func (s Segment) Translate(dx, dy int) Segment {
	if s.Horizontal {
		s.Start += dx
		s.End += dx
		s.Const += dy
		return s
	}
	s.Start += dy
	s.End += dy
	s.Const += dx
	return s
}

// Segments все стены и перегородки плана, кроме excludeID.
// Декоративные объекты в анализ не попадают.
func Segments(l *models.GridLayout, excludeID string) []Segment {
	var out []Segment
	for _, o := range l.Objects {
		if !o.Kind.IsWallLike() || !o.Collides() {
			continue
		}
		if excludeID != "" && o.ID == excludeID {
			continue
		}
		out = append(out, SegmentOf(o.ID, o.Rect()))
	}
	return out
}

// WallRects прямоугольники стен/перегородок для притягивания мебели.
func WallRects(l *models.GridLayout, excludeID string) []models.Rect {
	var out []models.Rect
	for _, o := range l.Objects {
		if !o.Kind.IsWallLike() || !o.Collides() {
			continue
		}
		if excludeID != "" && o.ID == excludeID {
			continue
		}
		out = append(out, o.Rect())
	}
	return out
}

// CollinearOverlap длина перекрытия двух отрезков на одной прямой.
// Касание концами дает 0 и допускается.
func CollinearOverlap(a, b Segment) int {
	if a.Horizontal != b.Horizontal || a.Const != b.Const {
		return 0
	}
	overlap := min(a.End, b.End) - max(a.Start, b.Start)
	if overlap < 0 {
		return 0
	}
	return overlap
}

// Intersections точки пересечения горизонтальных и вертикальных отрезков
// (включая Т- и Г-образные стыки на концах).
func Intersections(segments []Segment) []models.GridPoint {
	var out []models.GridPoint
	seen := make(map[models.GridPoint]bool)

	for i := 0; i < len(segments); i++ {
		for j := i + 1; j < len(segments); j++ {
			a, b := segments[i], segments[j]
			if a.Horizontal == b.Horizontal {
				continue
			}
			h, v := a, b
			if !a.Horizontal {
				h, v = b, a
			}
			p, ok := crossing(h, v)
			if !ok || seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

func crossing(h, v Segment) (models.GridPoint, bool) {
	vx, hy := v.Const, h.Const
	if vx < h.Start || vx > h.End {
		return models.GridPoint{}, false
	}
	if hy < v.Start || hy > v.End {
		return models.GridPoint{}, false
	}
	return models.GridPoint{X: vx, Y: hy}, true
}
