package models

// ============================================================
// Enums
// ============================================================

// ItemKind различает столы и прочие объекты зала.
type ItemKind string

const (
	KindTable  ItemKind = "table"
	KindObject ItemKind = "object"
)

// Shape форма стола.
type Shape string

const (
	ShapeSquare Shape = "square"
	ShapeRound  Shape = "round"
	ShapeRect   Shape = "rect"
	ShapeBooth  Shape = "booth"
)

// Valid сообщает, известна ли форма.
func (s Shape) Valid() bool {
	switch s {
	case ShapeSquare, ShapeRound, ShapeRect, ShapeBooth:
		return true
	}
	return false
}

// HugsWall: диваны (booth) ставятся вплотную к стене.
func (s Shape) HugsWall() bool {
	switch s {
	case ShapeBooth:
		return true
	case ShapeSquare, ShapeRound, ShapeRect:
		return false
	}
	return false
}

// ObjectKind тип объекта мебели/обстановки.
type ObjectKind string

const (
	ObjectWall    ObjectKind = "wall"
	ObjectDoor    ObjectKind = "door"
	ObjectBar     ObjectKind = "bar"
	ObjectPlant   ObjectKind = "plant"
	ObjectDivider ObjectKind = "divider"
	ObjectChair   ObjectKind = "chair"
	ObjectVisual  ObjectKind = "visual"
)

func (k ObjectKind) Valid() bool {
	switch k {
	case ObjectWall, ObjectDoor, ObjectBar, ObjectPlant, ObjectDivider, ObjectChair, ObjectVisual:
		return true
	}
	return false
}

// HugsWall: барная стойка и дверь притягиваются к стене.
func (k ObjectKind) HugsWall() bool {
	switch k {
	case ObjectBar, ObjectDoor:
		return true
	case ObjectWall, ObjectPlant, ObjectDivider, ObjectChair, ObjectVisual:
		return false
	}
	return false
}

// IsWallLike: стены и перегородки образуют сегменты для анализа стыков.
func (k ObjectKind) IsWallLike() bool {
	switch k {
	case ObjectWall, ObjectDivider:
		return true
	case ObjectDoor, ObjectBar, ObjectPlant, ObjectChair, ObjectVisual:
		return false
	}
	return false
}

// SnapsToSegments: объекты, которые при перетаскивании цепляются за концы стен.
func (k ObjectKind) SnapsToSegments() bool {
	switch k {
	case ObjectWall, ObjectDivider, ObjectDoor:
		return true
	case ObjectBar, ObjectPlant, ObjectChair, ObjectVisual:
		return false
	}
	return false
}

// ============================================================
// Document
// ============================================================

// GridLayout документ плана зала.
type GridLayout struct {
	ID           string            `json:"id"`
	RestaurantID string            `json:"restaurantId"`
	Name         string            `json:"name"`
	Rows         int               `json:"gridRows"`
	Cols         int               `json:"gridCols"`
	Mask         []int             `json:"gridMask,omitempty"`
	Tables       []Table           `json:"tables"`
	Objects      []FurnitureObject `json:"objects,omitempty"`
	IsActive     bool              `json:"isActive"`
}

type Table struct {
	ID        string  `json:"id"`
	OriginX   int     `json:"x"`
	OriginY   int     `json:"y"`
	SpanX     int     `json:"spanX"`
	SpanY     int     `json:"spanY"`
	Rotation  int     `json:"rotation"`
	Scale     float64 `json:"scale"`
	AssetRef  string  `json:"assetRef,omitempty"`
	SeatCount int     `json:"seats"`
	Shape     Shape   `json:"shape"`
	SectionID string  `json:"sectionId,omitempty"`
}

type FurnitureObject struct {
	ID         string     `json:"id"`
	OriginX    int        `json:"x"`
	OriginY    int        `json:"y"`
	SpanX      int        `json:"spanX"`
	SpanY      int        `json:"spanY"`
	Rotation   int        `json:"rotation"`
	Scale      float64    `json:"scale"`
	AssetRef   string     `json:"assetRef,omitempty"`
	Kind       ObjectKind `json:"type"`
	Label      string     `json:"label,omitempty"`
	VisualOnly bool       `json:"visualOnly,omitempty"`
}

// Rect прямоугольник стола.
func (t Table) Rect() Rect {
	return Rect{X: t.OriginX, Y: t.OriginY, W: t.SpanX, H: t.SpanY}
}

func (o FurnitureObject) Rect() Rect {
	return Rect{X: o.OriginX, Y: o.OriginY, W: o.SpanX, H: o.SpanY}
}

// Collides сообщает, участвует ли объект в проверке пересечений.
// Декоративные объекты никогда не блокируют размещение.
func (o FurnitureObject) Collides() bool {
	return !o.VisualOnly && o.Kind != ObjectVisual
}

// ============================================================
// PlacedItem
// ============================================================

// PlacedItem общее представление стола или объекта для движка.
type PlacedItem struct {
	ID       string
	Kind     ItemKind
	Subtype  string
	Rect     Rect
	Rotation int
	Scale    float64
	Collides bool
}

func (t Table) Item() PlacedItem {
	return PlacedItem{
		ID:       t.ID,
		Kind:     KindTable,
		Subtype:  string(t.Shape),
		Rect:     t.Rect(),
		Rotation: t.Rotation,
		Scale:    t.Scale,
		Collides: true,
	}
}

func (o FurnitureObject) Item() PlacedItem {
	return PlacedItem{
		ID:       o.ID,
		Kind:     KindObject,
		Subtype:  string(o.Kind),
		Rect:     o.Rect(),
		Rotation: o.Rotation,
		Scale:    o.Scale,
		Collides: o.Collides(),
	}
}

// WallLike стена или перегородка.
func (i PlacedItem) WallLike() bool {
	return i.Kind == KindObject && ObjectKind(i.Subtype).IsWallLike()
}

// Items возвращает все элементы плана: сначала столы, затем объекты.
// Порядок стабилен и определяет разрешение ничьих при снаппинге.
func (l *GridLayout) Items() []PlacedItem {
	items := make([]PlacedItem, 0, len(l.Tables)+len(l.Objects))
	for _, t := range l.Tables {
		items = append(items, t.Item())
	}
	for _, o := range l.Objects {
		items = append(items, o.Item())
	}
	return items
}

// HasID проверяет, занят ли идентификатор.
func (l *GridLayout) HasID(id string) bool {
	for _, t := range l.Tables {
		if t.ID == id {
			return true
		}
	}
	for _, o := range l.Objects {
		if o.ID == id {
			return true
		}
	}
	return false
}

// ============================================================
// Drag session
// ============================================================

type DragMode string

const (
	ModeNew      DragMode = "new"
	ModeExisting DragMode = "existing"
)

// DragPayload данные перетаскивания между UI и движком. Не сохраняется.
type DragPayload struct {
	Kind       ItemKind   `json:"kind"`
	Mode       DragMode   `json:"mode"`
	Shape      Shape      `json:"shape,omitempty"`
	ObjectType ObjectKind `json:"objectType,omitempty"`
	Seats      int        `json:"seats,omitempty"`
	SpanX      int        `json:"spanX,omitempty"`
	SpanY      int        `json:"spanY,omitempty"`
	Rotation   int        `json:"rotation,omitempty"`
	AssetRef   string     `json:"assetRef,omitempty"`
	Label      string     `json:"label,omitempty"`
	VisualOnly bool       `json:"visualOnly,omitempty"`
	ExistingID string     `json:"existingId,omitempty"`
}

// Subtype форма стола либо тип объекта, в зависимости от Kind.
func (p DragPayload) Subtype() string {
	if p.Kind == KindTable {
		return string(p.Shape)
	}
	return string(p.ObjectType)
}
