package snap

import (
	"math"
	"sort"

	"restaurant-floor/internal/floorplan/models"
	"restaurant-floor/internal/floorplan/walls"
)

// ============================================================
// Endpoint / line / corner / parallel snapping
// ============================================================

type translation struct {
	dx, dy int
	score  float64
}

// segmentSnap для стен и дверей: из кандидатов segmentCandidates берется
// ближайший, не создающий перекрытия стен на одной прямой.
func (e *Engine) segmentSnap(l *models.GridLayout, x, y, spanX, spanY int, excludeID string) (int, int, bool) {
	others := walls.Segments(l, excludeID)
	if len(others) == 0 {
		return x, y, false
	}

	moving := walls.SegmentOf(excludeID, models.Rect{X: x, Y: y, W: spanX, H: spanY})
	for _, c := range e.segmentCandidates(moving, others) {
		nx, ny := x+c.dx, y+c.dy
		if !fits(l, nx, ny, spanX, spanY) {
			continue
		}
		if overlapsCollinear(moving.Translate(c.dx, c.dy), others) {
			continue
		}
		return nx, ny, true
	}
	return x, y, false
}

// segmentCandidates сдвиги, приводящие конец стены к концу другой стены,
// к проекции на другую стену или к пересечению стен, а также параллельное
// выравнивание. Отсортированы по расстоянию, при равенстве порядок сохраняется.
func (e *Engine) segmentCandidates(moving walls.Segment, others []walls.Segment) []translation {
	ends := []models.GridPoint{moving.P1(), moving.P2()}

	var cands []translation
	add := func(dx, dy int, penalty, radius float64) {
		d := math.Hypot(float64(dx), float64(dy))
		if d > radius {
			return
		}
		cands = append(cands, translation{dx: dx, dy: dy, score: d + penalty})
	}
	toward := func(target models.GridPoint, radius float64) {
		for _, p := range ends {
			add(target.X-p.X, target.Y-p.Y, 0, radius)
		}
	}

	for _, o := range others {
		toward(o.P1(), e.opts.EndpointRadius)
		toward(o.P2(), e.opts.EndpointRadius)
	}
	for _, o := range others {
		for _, p := range ends {
			q := project(p, o)
			add(q.X-p.X, q.Y-p.Y, 0, e.opts.EndpointRadius)
		}
	}
	for _, c := range walls.Intersections(others) {
		toward(c, e.opts.EndpointRadius)
	}
	for _, o := range others {
		if o.Horizontal != moving.Horizontal {
			continue
		}
		d := o.Const - moving.Const
		if moving.Horizontal {
			add(0, d, e.opts.ParallelPenalty, e.opts.ParallelRadius)
		} else {
			add(d, 0, e.opts.ParallelPenalty, e.opts.ParallelRadius)
		}
	}

	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].score < cands[j].score
	})
	return cands
}

// project проекция точки на отрезок, зажатая его концами.
func project(p models.GridPoint, s walls.Segment) models.GridPoint {
	if s.Horizontal {
		return models.GridPoint{X: min(max(p.X, s.Start), s.End), Y: s.Const}
	}
	return models.GridPoint{X: s.Const, Y: min(max(p.Y, s.Start), s.End)}
}

func overlapsCollinear(s walls.Segment, others []walls.Segment) bool {
	for _, o := range others {
		if walls.CollinearOverlap(s, o) > 0 {
			return true
		}
	}
	return false
}
