package snap

import (
	"math"

	"restaurant-floor/internal/floorplan/models"
	"restaurant-floor/internal/floorplan/placement"
)

// ============================================================
// Snap Engine
// ============================================================

// Радиусы в клетках.
const (
	defaultHugRadius       = 1
	defaultAlignRadius     = 1
	defaultOffsetRadius    = 2
	defaultWallClearance   = 1
	defaultEndpointRadius  = 1.5
	defaultParallelRadius  = 2.0
	defaultParallelPenalty = 0.01
)

// Options настройки эвристик.
type Options struct {
	HugRadius       int
	AlignRadius     int
	OffsetRadius    int
	WallClearance   int
	EndpointRadius  float64
	ParallelRadius  float64
	ParallelPenalty float64
}

func DefaultOptions() Options {
	return Options{
		HugRadius:       defaultHugRadius,
		AlignRadius:     defaultAlignRadius,
		OffsetRadius:    defaultOffsetRadius,
		WallClearance:   defaultWallClearance,
		EndpointRadius:  defaultEndpointRadius,
		ParallelRadius:  defaultParallelRadius,
		ParallelPenalty: defaultParallelPenalty,
	}
}

// Stage название сработавшей эвристики.
type Stage string

const (
	StageWallHug    Stage = "wall-hug"
	StageAlign      Stage = "align"
	StageWallOffset Stage = "wall-offset"
	StageSegment    Stage = "segment"
)

// Request входные данные перетаскивания.
type Request struct {
	RawX        float64         `json:"rawX"`
	RawY        float64         `json:"rawY"`
	SpanX       int             `json:"spanX"`
	SpanY       int             `json:"spanY"`
	Kind        models.ItemKind `json:"kind"`
	Subtype     string          `json:"subtype"`
	DisableSnap bool            `json:"disableSnap"`
	ExcludeID   string          `json:"excludeId,omitempty"`
}

// Guides координаты направляющих: V для вертикальных линий (x), H для горизонтальных (y).
type Guides struct {
	V []float64 `json:"v"`
	H []float64 `json:"h"`
}

type Result struct {
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Guides Guides  `json:"guides"`
	Stages []Stage `json:"stages,omitempty"`
}

type Engine struct {
	opts Options
}

func NewEngine() *Engine {
	return &Engine{opts: DefaultOptions()}
}

func NewEngineWithOptions(opts Options) *Engine {
	return &Engine{opts: opts}
}

// axis ось, по которой эвристика сдвинула элемент.
type axis int

const (
	axisNone axis = iota
	axisX
	axisY
)

// Snap возвращает скорректированную позицию и направляющие.
// Этапы: притягивание к стене → выравнивание → отступ от стены → концы стен;
// после каждого этапа позиция снова зажимается в сетку.
func (e *Engine) Snap(l *models.GridLayout, req Request) Result {
	spanX := models.NormalizeSpan(req.SpanX)
	spanY := models.NormalizeSpan(req.SpanY)
	clamp := func(x, y int) (int, int) {
		return placement.ClampToGrid(x, y, spanX, spanY, l.Cols, l.Rows)
	}

	x, y := clamp(roundCell(req.RawX), roundCell(req.RawY))
	res := Result{X: x, Y: y, Guides: Guides{V: []float64{}, H: []float64{}}}
	if req.DisableSnap {
		return res
	}

	segmentType := models.SnapsToSegments(req.Kind, req.Subtype)
	locked := axisNone

	if models.HugsWall(req.Kind, req.Subtype) {
		if p, ok := e.wallHug(l, x, y, spanX, spanY, req.ExcludeID); ok {
			x, y = clamp(p.x, p.y)
			locked = p.axis
			res.Stages = append(res.Stages, StageWallHug)
		}
	}

	if !segmentType {
		a := e.align(l, x, y, spanX, spanY, req.ExcludeID)
		useX := a.hasX && locked != axisX
		useY := a.hasY && locked != axisY
		tx, ty := x, y
		if useX {
			tx += a.dx
		}
		if useY {
			ty += a.dy
		}
		// направляющая остается, только если сетка не вернула элемент назад
		x, y = clamp(tx, ty)
		fired := false
		if useX && x == tx {
			res.Guides.V = append(res.Guides.V, a.guideX)
			fired = true
		}
		if useY && y == ty {
			res.Guides.H = append(res.Guides.H, a.guideY)
			fired = true
		}
		if fired {
			res.Stages = append(res.Stages, StageAlign)
		}
	}

	if models.KeepsWallClearance(req.Kind, req.Subtype) {
		if p, ok := e.wallOffset(l, x, y, spanX, spanY, req.ExcludeID); ok {
			if p.axis == axisX && p.x != x {
				res.Guides.V = res.Guides.V[:0]
			}
			if p.axis == axisY && p.y != y {
				res.Guides.H = res.Guides.H[:0]
			}
			x, y = clamp(p.x, p.y)
			res.Stages = append(res.Stages, StageWallOffset)
		}
	}

	if segmentType {
		if nx, ny, ok := e.segmentSnap(l, x, y, spanX, spanY, req.ExcludeID); ok {
			x, y = nx, ny
			res.Stages = append(res.Stages, StageSegment)
		}
	}

	res.X, res.Y = clamp(x, y)
	return res
}

// roundCell переводит дробную позицию указателя в клетку.
func roundCell(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Round(v))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// fits проверяет, что прямоугольник целиком в сетке без зажатия.
func fits(l *models.GridLayout, x, y, spanX, spanY int) bool {
	return x >= 0 && y >= 0 && x+spanX <= l.Cols && y+spanY <= l.Rows
}
