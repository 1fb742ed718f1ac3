package models

import (
	"errors"
	"fmt"
	"math"
)

// ============================================================
// Boundary normalization
// ============================================================

const (
	MinScale = 0.5
	MaxScale = 1.6

	// MaxGridDim предел числа строк и столбцов: маска выделяется целиком.
	MaxGridDim = 256
)

var ErrGridTooLarge = errors.New("grid too large")

// CheckDimensions отклоняет сетку, которую нельзя разместить в памяти.
// Вызывается до Normalize для документов, пришедших извне.
func CheckDimensions(rows, cols int) error {
	if rows > MaxGridDim || cols > MaxGridDim {
		return fmt.Errorf("%w: %dx%d, max %d", ErrGridTooLarge, rows, cols, MaxGridDim)
	}
	return nil
}

// Normalize приводит документ к инвариантам модели при входе в движок:
// размеры сетки в [1, MaxGridDim], маска по размеру сетки, span >= 1, поворот кратен 45°, масштаб в пределах.
func Normalize(l *GridLayout) {
	l.Rows = min(max(1, l.Rows), MaxGridDim)
	l.Cols = min(max(1, l.Cols), MaxGridDim)
	l.Mask = NormalizeMask(l.Mask, l.Rows*l.Cols)

	if l.Tables == nil {
		l.Tables = []Table{}
	}
	if l.Objects == nil {
		l.Objects = []FurnitureObject{}
	}

	for i := range l.Tables {
		t := &l.Tables[i]
		t.OriginX = max(0, t.OriginX)
		t.OriginY = max(0, t.OriginY)
		t.SpanX = NormalizeSpan(t.SpanX)
		t.SpanY = NormalizeSpan(t.SpanY)
		t.Rotation = NormalizeRotation(t.Rotation)
		t.Scale = NormalizeScale(t.Scale)
		t.SeatCount = max(1, t.SeatCount)
		if !t.Shape.Valid() {
			t.Shape = ShapeSquare
		}
	}

	for i := range l.Objects {
		o := &l.Objects[i]
		o.OriginX = max(0, o.OriginX)
		o.OriginY = max(0, o.OriginY)
		o.SpanX = NormalizeSpan(o.SpanX)
		o.SpanY = NormalizeSpan(o.SpanY)
		o.Rotation = NormalizeRotation(o.Rotation)
		o.Scale = NormalizeScale(o.Scale)
		if !o.Kind.Valid() {
			o.Kind = ObjectVisual
		}
	}
}

// NormalizeMask дополняет маску единицами до size и отрезает лишнее.
// Отсутствующая маска означает полностью активную сетку.
func NormalizeMask(mask []int, size int) []int {
	out := make([]int, size)
	for i := range out {
		out[i] = 1
		if i < len(mask) && mask[i] == 0 {
			out[i] = 0
		}
	}
	return out
}

func NormalizeSpan(span int) int {
	return max(1, span)
}

// NormalizeRotation округляет до ближайших 45° в диапазоне [0, 360).
func NormalizeRotation(deg int) int {
	snapped := int(math.Round(float64(deg)/45)) * 45
	snapped %= 360
	if snapped < 0 {
		snapped += 360
	}
	return snapped
}

// NormalizeScale: 0 и нечисловые значения считаются отсутствующими (1).
func NormalizeScale(s float64) float64 {
	if s <= 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		return 1
	}
	return math.Min(MaxScale, math.Max(MinScale, s))
}
