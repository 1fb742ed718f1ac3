package grid

import (
	"restaurant-floor/internal/floorplan/models"
)

// ============================================================
// Grid Model
// ============================================================

// IsCellActive проверяет маску. Клетки вне сетки неактивны,
// а недостающий хвост маски считается активным.
func IsCellActive(l *models.GridLayout, x, y int) bool {
	if x < 0 || y < 0 || x >= l.Cols || y >= l.Rows {
		return false
	}
	idx := y*l.Cols + x
	if idx >= len(l.Mask) {
		return true
	}
	return l.Mask[idx] != 0
}

// ActiveCellCount количество используемых клеток.
func ActiveCellCount(l *models.GridLayout) int {
	count := 0
	for y := 0; y < l.Rows; y++ {
		for x := 0; x < l.Cols; x++ {
			if IsCellActive(l, x, y) {
				count++
			}
		}
	}
	return count
}

// OccupiedBounds возвращает область для "fit to screen".
// При неполной маске берется габарит активных клеток, иначе вся сетка;
// затем область расширяется до всех размещенных элементов, чтобы ничего не обрезать.
func OccupiedBounds(l *models.GridLayout) models.Bounds {
	full := models.Bounds{MinX: 0, MinY: 0, MaxX: l.Cols - 1, MaxY: l.Rows - 1}

	b := full
	if hasInactive(l) {
		if tight, ok := activeBounds(l); ok {
			b = tight
		}
	}

	for _, item := range l.Items() {
		r := item.Rect
		b.MinX = min(b.MinX, r.X)
		b.MinY = min(b.MinY, r.Y)
		b.MaxX = max(b.MaxX, r.Right()-1)
		b.MaxY = max(b.MaxY, r.Bottom()-1)
	}

	b.MinX = clamp(b.MinX, 0, full.MaxX)
	b.MinY = clamp(b.MinY, 0, full.MaxY)
	b.MaxX = clamp(b.MaxX, b.MinX, full.MaxX)
	b.MaxY = clamp(b.MaxY, b.MinY, full.MaxY)
	return b
}

func hasInactive(l *models.GridLayout) bool {
	n := min(len(l.Mask), l.Rows*l.Cols)
	for i := 0; i < n; i++ {
		if l.Mask[i] == 0 {
			return true
		}
	}
	return false
}

func activeBounds(l *models.GridLayout) (models.Bounds, bool) {
	b := models.Bounds{MinX: l.Cols, MinY: l.Rows, MaxX: -1, MaxY: -1}
	found := false
	for y := 0; y < l.Rows; y++ {
		for x := 0; x < l.Cols; x++ {
			if !IsCellActive(l, x, y) {
				continue
			}
			found = true
			b.MinX = min(b.MinX, x)
			b.MinY = min(b.MinY, y)
			b.MaxX = max(b.MaxX, x)
			b.MaxY = max(b.MaxY, y)
		}
	}
	return b, found
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
