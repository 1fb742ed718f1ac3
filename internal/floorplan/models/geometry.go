package models

// ============================================================
// Geometry primitives
// ============================================================

// Rect прямоугольник в клетках: [X, X+W) × [Y, Y+H).
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

func (r Rect) Right() int  { return r.X + r.W }
func (r Rect) Bottom() int { return r.Y + r.H }

// Overlaps строгое пересечение; касание сторонами пересечением не считается.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && r.X+r.W > o.X && r.Y < o.Y+o.H && r.Y+r.H > o.Y
}

// OverlapsX пересекаются ли проекции на ось X.
func (r Rect) OverlapsX(o Rect) bool {
	return r.X < o.X+o.W && r.X+r.W > o.X
}

func (r Rect) OverlapsY(o Rect) bool {
	return r.Y < o.Y+o.H && r.Y+r.H > o.Y
}

// GridPoint узел сетки (угол клетки).
type GridPoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Bounds включительные индексы клеток.
type Bounds struct {
	MinX int `json:"minX"`
	MinY int `json:"minY"`
	MaxX int `json:"maxX"`
	MaxY int `json:"maxY"`
}

func (b Bounds) Width() int  { return b.MaxX - b.MinX + 1 }
func (b Bounds) Height() int { return b.MaxY - b.MinY + 1 }

// ============================================================
// Subtype helpers
// ============================================================

// HugsWall для пары kind/subtype из drag-сессии.
func HugsWall(kind ItemKind, subtype string) bool {
	switch kind {
	case KindTable:
		return Shape(subtype).HugsWall()
	case KindObject:
		return ObjectKind(subtype).HugsWall()
	}
	return false
}

// SnapsToSegments только для объектов-стен и дверей.
func SnapsToSegments(kind ItemKind, subtype string) bool {
	switch kind {
	case KindObject:
		return ObjectKind(subtype).SnapsToSegments()
	case KindTable:
		return false
	}
	return false
}

// KeepsWallClearance: обычная мебель держит одну свободную клетку от стены.
func KeepsWallClearance(kind ItemKind, subtype string) bool {
	return !HugsWall(kind, subtype) && !SnapsToSegments(kind, subtype)
}
