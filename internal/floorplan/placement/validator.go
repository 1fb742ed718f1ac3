package placement

import (
	"errors"

	"restaurant-floor/internal/floorplan/grid"
	"restaurant-floor/internal/floorplan/models"
)

// ============================================================
// Placement Validator
// ============================================================

// Reason причина отказа в размещении.
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonOutsideShape Reason = "outside-shape"
	ReasonCollision    Reason = "collision"
)

var (
	ErrOutsideShape = errors.New("outside-shape")
	ErrCollision    = errors.New("collision")
)

// Candidate предполагаемое положение элемента.
type Candidate struct {
	X, Y         int
	SpanX, SpanY int
	// IgnoreID исключает сам перемещаемый элемент из проверки.
	IgnoreID string
	// VisualOnly декоративные элементы только зажимаются в сетку.
	VisualOnly bool
}

// Result либо принятое положение, либо причина отказа.
type Result struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Reason Reason `json:"reason,omitempty"`
}

func (r Result) Accepted() bool {
	return r.Reason == ReasonNone
}

// Err переводит отказ в sentinel-ошибку для вызывающего кода.
func (r Result) Err() error {
	switch r.Reason {
	case ReasonNone:
		return nil
	case ReasonOutsideShape:
		return ErrOutsideShape
	case ReasonCollision:
		return ErrCollision
	}
	return errors.New(string(r.Reason))
}

// ClampToGrid удерживает прямоугольник внутри сетки.
func ClampToGrid(x, y, spanX, spanY, cols, rows int) (int, int) {
	return clampAxis(x, max(0, cols-spanX)), clampAxis(y, max(0, rows-spanY))
}

func clampAxis(v, hi int) int {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}

// MaskAllows true, если все покрываемые клетки активны.
func MaskAllows(l *models.GridLayout, x, y, spanX, spanY int) bool {
	for cy := y; cy < y+spanY; cy++ {
		for cx := x; cx < x+spanX; cx++ {
			if !grid.IsCellActive(l, cx, cy) {
				return false
			}
		}
	}
	return true
}

// Collides проверяет пересечение с любым другим участвующим в коллизиях элементом.
func Collides(l *models.GridLayout, candidate models.Rect, ignoreID string) bool {
	for _, item := range l.Items() {
		if !item.Collides || (ignoreID != "" && item.ID == ignoreID) {
			continue
		}
		if candidate.Overlaps(item.Rect) {
			return true
		}
	}
	return false
}

// ValidatePlacement: clamp → маска → коллизии, именно в таком порядке.
// Элемент крупнее сетки не помещается никуда, в том числе декоративный.
func ValidatePlacement(l *models.GridLayout, c Candidate) Result {
	spanX := models.NormalizeSpan(c.SpanX)
	spanY := models.NormalizeSpan(c.SpanY)
	x, y := ClampToGrid(c.X, c.Y, spanX, spanY, l.Cols, l.Rows)
	res := Result{X: x, Y: y}

	if spanX > l.Cols || spanY > l.Rows {
		res.Reason = ReasonOutsideShape
		return res
	}
	if c.VisualOnly {
		return res
	}
	if !MaskAllows(l, x, y, spanX, spanY) {
		res.Reason = ReasonOutsideShape
		return res
	}
	if Collides(l, models.Rect{X: x, Y: y, W: spanX, H: spanY}, c.IgnoreID) {
		res.Reason = ReasonCollision
		return res
	}
	return res
}
