package walls

import (
	"sort"

	"restaurant-floor/internal/floorplan/models"
)

// ============================================================
// Wall connectivity
// ============================================================

// Directions направления, в которые уходят стены из конечной точки.
type Directions struct {
	N bool `json:"n"`
	E bool `json:"e"`
	S bool `json:"s"`
	W bool `json:"w"`
}

// Count количество активных направлений.
func (d Directions) Count() int {
	n := 0
	for _, on := range []bool{d.N, d.E, d.S, d.W} {
		if on {
			n++
		}
	}
	return n
}

// EndpointMap конечная точка стены -> направления.
type EndpointMap map[models.GridPoint]Directions

// JointType тип стыка для отрисовки коннектора.
type JointType string

const (
	JointEnd    JointType = "end"
	JointL      JointType = "L"
	JointT      JointType = "T"
	JointCross  JointType = "+"
	JointInline JointType = "inline"
)

// WallJoint стык двух и более стен.
type WallJoint struct {
	X          int        `json:"x"`
	Y          int        `json:"y"`
	Directions Directions `json:"directions"`
	Type       JointType  `json:"type"`
}

// BuildEndpointMap: горизонтальная стена дает E в начале и W в конце,
// вертикальная: S в начале и N в конце (ось Y направлена вниз).
func BuildEndpointMap(l *models.GridLayout) EndpointMap {
	return endpointMapOf(Segments(l, ""))
}

func endpointMapOf(segments []Segment) EndpointMap {
	m := make(EndpointMap)
	for _, s := range segments {
		if s.Start == s.End {
			continue
		}
		p1, p2 := s.P1(), s.P2()
		d1, d2 := m[p1], m[p2]
		if s.Horizontal {
			d1.E = true
			d2.W = true
		} else {
			d1.S = true
			d2.N = true
		}
		m[p1] = d1
		m[p2] = d2
	}
	return m
}

// IsJunction true, если в точке сходятся два и более направления.
func IsJunction(m EndpointMap, x, y int) bool {
	d, ok := m[models.GridPoint{X: x, Y: y}]
	return ok && d.Count() >= 2
}

// Junctions все стыки, отсортированные по y, затем по x.
func Junctions(l *models.GridLayout) []WallJoint {
	m := BuildEndpointMap(l)
	out := make([]WallJoint, 0, len(m))
	for p, d := range m {
		if d.Count() < 2 {
			continue
		}
		out = append(out, WallJoint{X: p.X, Y: p.Y, Directions: d, Type: classify(d)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

func classify(d Directions) JointType {
	switch d.Count() {
	case 0, 1:
		return JointEnd
	case 2:
		if (d.N && d.S) || (d.E && d.W) {
			return JointInline
		}
		return JointL
	case 3:
		return JointT
	}
	return JointCross
}
