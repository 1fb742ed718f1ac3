package editor

import "restaurant-floor/internal/floorplan/models"

// ============================================================
// Default spans
// ============================================================

// DefaultTableSpan размер нового стола по форме и числу мест.
func DefaultTableSpan(shape models.Shape, seats int) (int, int) {
	seats = max(1, seats)
	switch shape {
	case models.ShapeSquare, models.ShapeRound:
		switch {
		case seats <= 2:
			return 1, 1
		case seats <= 4:
			return 2, 2
		default:
			return 3, 3
		}
	case models.ShapeRect:
		if seats <= 2 {
			return 2, 1
		}
		return max(2, (seats+1)/2), 2
	case models.ShapeBooth:
		return max(2, (seats+1)/2), 1
	}
	return 1, 1
}

// DefaultObjectSpan размер нового объекта по типу.
func DefaultObjectSpan(kind models.ObjectKind) (int, int) {
	switch kind {
	case models.ObjectWall:
		return 4, 1
	case models.ObjectDoor:
		return 2, 1
	case models.ObjectBar, models.ObjectDivider:
		return 3, 1
	case models.ObjectPlant, models.ObjectChair, models.ObjectVisual:
		return 1, 1
	}
	return 1, 1
}

// DefaultSpan для payload новой drag-сессии. Явно заданный span имеет приоритет.
// Размер по умолчанию задан для горизонтальной ориентации и поворачивается вместе с элементом.
func DefaultSpan(p models.DragPayload) (int, int) {
	if p.SpanX > 0 && p.SpanY > 0 {
		return p.SpanX, p.SpanY
	}
	var sx, sy int
	if p.Kind == models.KindTable {
		sx, sy = DefaultTableSpan(p.Shape, p.Seats)
	} else {
		sx, sy = DefaultObjectSpan(p.ObjectType)
	}
	if IsVertical(models.NormalizeRotation(p.Rotation)) {
		sx, sy = sy, sx
	}
	return sx, sy
}

// IsVertical: повороты на нечетное число четвертей меняют оси местами.
func IsVertical(rotation int) bool {
	return (rotation/90)%2 == 1
}
