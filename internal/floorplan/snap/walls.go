package snap

import (
	"math"

	"restaurant-floor/internal/floorplan/models"
	"restaurant-floor/internal/floorplan/walls"
)

// ============================================================
// Wall hug / wall offset
// ============================================================

type proposal struct {
	x, y int
	axis axis
	dist int
}

// wallHug предлагает поставить элемент вплотную к стене сверху/снизу
// (при перекрытии по X) или слева/справа (при перекрытии по Y).
// Берется ближайшее по манхэттенскому расстоянию, не дальше HugRadius.
func (e *Engine) wallHug(l *models.GridLayout, x, y, spanX, spanY int, excludeID string) (proposal, bool) {
	rect := models.Rect{X: x, Y: y, W: spanX, H: spanY}
	best := proposal{dist: math.MaxInt}

	consider := func(px, py int, ax axis) {
		if !fits(l, px, py, spanX, spanY) {
			return
		}
		d := abs(px-x) + abs(py-y)
		if d < best.dist {
			best = proposal{x: px, y: py, axis: ax, dist: d}
		}
	}

	for _, w := range walls.WallRects(l, excludeID) {
		if rect.OverlapsX(w) {
			consider(x, w.Y-spanY, axisY)
			consider(x, w.Bottom(), axisY)
		}
		if rect.OverlapsY(w) {
			consider(w.X-spanX, y, axisX)
			consider(w.Right(), y, axisX)
		}
	}

	return best, best.dist <= e.opts.HugRadius
}

// wallOffset оставляет ровно WallClearance свободных клеток между мебелью и стеной.
// Сторона выбирается по тому, где сейчас центр элемента относительно стены.
func (e *Engine) wallOffset(l *models.GridLayout, x, y, spanX, spanY int, excludeID string) (proposal, bool) {
	rect := models.Rect{X: x, Y: y, W: spanX, H: spanY}
	gap := e.opts.WallClearance
	best := proposal{dist: math.MaxInt}

	for _, w := range walls.WallRects(l, excludeID) {
		horizontal := w.W >= w.H
		var p proposal
		if horizontal {
			if !rect.OverlapsX(w) {
				continue
			}
			// центры в полуклетках
			if 2*y+spanY < 2*w.Y+w.H {
				p = proposal{x: x, y: w.Y - gap - spanY, axis: axisY}
			} else {
				p = proposal{x: x, y: w.Bottom() + gap, axis: axisY}
			}
			p.dist = abs(p.y - y)
		} else {
			if !rect.OverlapsY(w) {
				continue
			}
			if 2*x+spanX < 2*w.X+w.W {
				p = proposal{x: w.X - gap - spanX, y: y, axis: axisX}
			} else {
				p = proposal{x: w.Right() + gap, y: y, axis: axisX}
			}
			p.dist = abs(p.x - x)
		}

		if p.dist > e.opts.OffsetRadius || !fits(l, p.x, p.y, spanX, spanY) {
			continue
		}
		if p.dist < best.dist {
			best = p
		}
	}

	return best, best.dist != math.MaxInt
}
