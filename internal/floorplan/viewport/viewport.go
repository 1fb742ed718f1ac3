package viewport

import (
	"math"

	"restaurant-floor/internal/floorplan/models"
)

// ============================================================
// Viewport Transform
// ============================================================

const (
	DefaultCellPx  = 60.0
	DefaultZoomMin = 0.35
	DefaultZoomMax = 2.5
	// DefaultFitMax верхний предел масштаба при "вписать в экран".
	DefaultFitMax = 1.2
)

// Viewport pan/zoom состояние. Значение неизменяемое: каждый метод
// возвращает новое состояние, вызывающий код хранит его сам.
//
// screen = grid * Zoom + Pan, где grid: координаты в пикселях сетки.
type Viewport struct {
	Zoom    float64 `json:"zoom"`
	PanX    float64 `json:"panX"`
	PanY    float64 `json:"panY"`
	CellPx  float64 `json:"cellPx"`
	Cols    int     `json:"cols"`
	Rows    int     `json:"rows"`
	ZoomMin float64 `json:"zoomMin"`
	ZoomMax float64 `json:"zoomMax"`
}

// New создает вид для сетки cols×rows с масштабом 1 и нулевым сдвигом.
func New(cols, rows int, cellPx float64) Viewport {
	if cellPx <= 0 {
		cellPx = DefaultCellPx
	}
	return Viewport{
		Zoom:    1,
		CellPx:  cellPx,
		Cols:    cols,
		Rows:    rows,
		ZoomMin: DefaultZoomMin,
		ZoomMax: DefaultZoomMax,
	}
}

// ForLayout вид для документа.
func ForLayout(l *models.GridLayout, cellPx float64) Viewport {
	return New(l.Cols, l.Rows, cellPx)
}

// ClampZoom ограничивает масштаб диапазоном [ZoomMin, ZoomMax].
func (v Viewport) ClampZoom(z float64) float64 {
	if math.IsNaN(z) || z <= 0 {
		return v.Zoom
	}
	return math.Min(v.ZoomMax, math.Max(v.ZoomMin, z))
}

// ToGrid экранная точка → пиксели сетки.
func (v Viewport) ToGrid(sx, sy float64) (float64, float64) {
	return (sx - v.PanX) / v.Zoom, (sy - v.PanY) / v.Zoom
}

// ToScreen пиксели сетки → экранная точка.
func (v Viewport) ToScreen(gx, gy float64) (float64, float64) {
	return gx*v.Zoom + v.PanX, gy*v.Zoom + v.PanY
}

// PointToCell переводит точку вьюпорта в клетку. ok=false вне сетки.
func (v Viewport) PointToCell(sx, sy float64) (x, y int, ok bool) {
	gx, gy := v.ToGrid(sx, sy)
	x = int(math.Floor(gx / v.CellPx))
	y = int(math.Floor(gy / v.CellPx))
	if x < 0 || y < 0 || x >= v.Cols || y >= v.Rows {
		return 0, 0, false
	}
	return x, y, true
}

// CellToPoint центр клетки в координатах вьюпорта.
func (v Viewport) CellToPoint(x, y int) (float64, float64) {
	return v.ToScreen((float64(x)+0.5)*v.CellPx, (float64(y)+0.5)*v.CellPx)
}

// ZoomAtPoint меняет масштаб так, чтобы точка сетки под (ax, ay) осталась на месте:
// pan' = anchor - (anchor - pan) * (zoom'/zoom).
func (v Viewport) ZoomAtPoint(newZoom, ax, ay float64) Viewport {
	z := v.ClampZoom(newZoom)
	ratio := z / v.Zoom
	v.PanX = ax - (ax-v.PanX)*ratio
	v.PanY = ay - (ay-v.PanY)*ratio
	v.Zoom = z
	return v
}

// PanBy сдвигает вид на дельту указателя.
func (v Viewport) PanBy(dx, dy float64) Viewport {
	v.PanX += dx
	v.PanY += dy
	return v
}

// FitToContent вписывает область занятых клеток в вьюпорт с отступами и центрирует ее.
// Масштаб не больше DefaultFitMax и в пределах [ZoomMin, ZoomMax].
func (v Viewport) FitToContent(b models.Bounds, viewportW, viewportH, insetPx float64) Viewport {
	contentW := float64(b.Width()) * v.CellPx
	contentH := float64(b.Height()) * v.CellPx
	availW := math.Max(1, viewportW-2*insetPx)
	availH := math.Max(1, viewportH-2*insetPx)

	z := math.Min(DefaultFitMax, math.Min(availW/contentW, availH/contentH))
	z = math.Min(v.ZoomMax, math.Max(v.ZoomMin, z))

	originX := float64(b.MinX) * v.CellPx * z
	originY := float64(b.MinY) * v.CellPx * z
	v.Zoom = z
	v.PanX = (viewportW-contentW*z)/2 - originX
	v.PanY = (viewportH-contentH*z)/2 - originY
	return v
}
