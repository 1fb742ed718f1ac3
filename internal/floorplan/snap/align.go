package snap

import (
	"math"

	"restaurant-floor/internal/floorplan/models"
)

// ============================================================
// Alignment
// ============================================================

type alignment struct {
	dx, dy         int
	hasX, hasY     bool
	guideX, guideY float64
}

// align сравнивает левый/правый край и центр элемента с соответствующими
// краями остальных элементов. Все в полуклетках, чтобы центры нечетных span
// тоже выравнивались. Оси X и Y независимы.
// Стены здесь не учитываются: к ним мебель притягивают отдельные этапы.
func (e *Engine) align(l *models.GridLayout, x, y, spanX, spanY int, excludeID string) alignment {
	var a alignment
	limit := 2 * e.opts.AlignRadius
	bestX, bestY := math.MaxInt, math.MaxInt

	mine := [3]int{2 * x, 2 * (x + spanX), 2*x + spanX}
	mineY := [3]int{2 * y, 2 * (y + spanY), 2*y + spanY}

	for _, item := range l.Items() {
		if !item.Collides || item.WallLike() || (excludeID != "" && item.ID == excludeID) {
			continue
		}
		r := item.Rect
		theirs := [3]int{2 * r.X, 2 * r.Right(), 2*r.X + r.W}
		theirsY := [3]int{2 * r.Y, 2 * r.Bottom(), 2*r.Y + r.H}

		for i := range mine {
			if d, ok := halfDelta(theirs[i], mine[i], limit); ok && abs(d) < bestX {
				bestX = abs(d)
				a.dx, a.hasX, a.guideX = d/2, true, float64(theirs[i])/2
			}
			if d, ok := halfDelta(theirsY[i], mineY[i], limit); ok && abs(d) < bestY {
				bestY = abs(d)
				a.dy, a.hasY, a.guideY = d/2, true, float64(theirsY[i])/2
			}
		}
	}
	return a
}

// halfDelta разница в полуклетках; нечетная разница на целой сетке недостижима.
func halfDelta(target, current, limit int) (int, bool) {
	d := target - current
	if d%2 != 0 || abs(d) > limit {
		return 0, false
	}
	return d, true
}
