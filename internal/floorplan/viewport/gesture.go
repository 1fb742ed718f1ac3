package viewport

// ============================================================
// Pan gesture
// ============================================================

// PanGesture непрерывное перетаскивание вида. Пока жест активен,
// каждое движение сдвигает pan на сырую дельту указателя.
type PanGesture struct {
	active bool
	lastX  float64
	lastY  float64
}

func (g *PanGesture) Begin(x, y float64) {
	g.active = true
	g.lastX, g.lastY = x, y
}

// Move применяет дельту к виду. Вне жеста вид не меняется.
func (g *PanGesture) Move(v Viewport, x, y float64) Viewport {
	if !g.active {
		return v
	}
	dx, dy := x-g.lastX, y-g.lastY
	g.lastX, g.lastY = x, y
	return v.PanBy(dx, dy)
}

func (g *PanGesture) End() {
	g.active = false
}

func (g *PanGesture) Active() bool {
	return g.active
}
