package editor

import (
	"errors"
	"fmt"

	"restaurant-floor/internal/floorplan/models"
	"restaurant-floor/internal/floorplan/placement"
	"restaurant-floor/internal/floorplan/snap"

	"github.com/google/uuid"
)

// ============================================================
// Layout Editor
// ============================================================

var (
	ErrItemNotFound   = errors.New("item not found")
	ErrInvalidPayload = errors.New("invalid drag payload")
)

// Editor применяет изменения к документу. Каждое изменение проходит
// через валидатор; при отказе документ остается прежним.
type Editor struct {
	snap *snap.Engine
}

func New(engine *snap.Engine) *Editor {
	if engine == nil {
		engine = snap.NewEngine()
	}
	return &Editor{snap: engine}
}

// Placement итог drop-операции.
type Placement struct {
	ID      string      `json:"id"`
	X       int         `json:"x"`
	Y       int         `json:"y"`
	SpanX   int         `json:"spanX"`
	SpanY   int         `json:"spanY"`
	Created bool        `json:"created"`
	Guides  snap.Guides `json:"guides"`
}

// RejectedError отказ валидатора вместе с позицией, на которой он произошел.
type RejectedError struct {
	Op     string
	Result placement.Result
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s rejected at (%d,%d): %s", e.Op, e.Result.X, e.Result.Y, e.Result.Reason)
}

func (e *RejectedError) Unwrap() error {
	return e.Result.Err()
}

func rejected(op string, res placement.Result) error {
	return &RejectedError{Op: op, Result: res}
}

// ============================================================
// Drag & drop
// ============================================================

// Place завершает drag-сессию: создает новый элемент (mode=new)
// или перемещает существующий (mode=existing).
func (e *Editor) Place(l *models.GridLayout, p models.DragPayload, rawX, rawY float64, disableSnap bool) (Placement, error) {
	switch p.Mode {
	case models.ModeNew:
		return e.create(l, p, rawX, rawY, disableSnap)
	case models.ModeExisting:
		return e.moveExisting(l, p.ExistingID, rawX, rawY, disableSnap)
	}
	return Placement{}, fmt.Errorf("%w: mode %q", ErrInvalidPayload, p.Mode)
}

func (e *Editor) create(l *models.GridLayout, p models.DragPayload, rawX, rawY float64, disableSnap bool) (Placement, error) {
	switch p.Kind {
	case models.KindTable:
		if !p.Shape.Valid() {
			p.Shape = models.ShapeSquare
		}
	case models.KindObject:
		if !p.ObjectType.Valid() {
			return Placement{}, fmt.Errorf("%w: object type %q", ErrInvalidPayload, p.ObjectType)
		}
	default:
		return Placement{}, fmt.Errorf("%w: kind %q", ErrInvalidPayload, p.Kind)
	}

	spanX, spanY := DefaultSpan(p)
	visual := p.Kind == models.KindObject && (p.VisualOnly || p.ObjectType == models.ObjectVisual)

	snapped := e.snap.Snap(l, snap.Request{
		RawX: rawX, RawY: rawY,
		SpanX: spanX, SpanY: spanY,
		Kind: p.Kind, Subtype: p.Subtype(),
		DisableSnap: disableSnap,
	})
	res := placement.ValidatePlacement(l, placement.Candidate{
		X: snapped.X, Y: snapped.Y, SpanX: spanX, SpanY: spanY, VisualOnly: visual,
	})
	if !res.Accepted() {
		return Placement{}, rejected("place", res)
	}

	id := uuid.NewString()
	rotation := models.NormalizeRotation(p.Rotation)
	if p.Kind == models.KindTable {
		l.Tables = append(l.Tables, models.Table{
			ID:        id,
			OriginX:   res.X,
			OriginY:   res.Y,
			SpanX:     spanX,
			SpanY:     spanY,
			Rotation:  rotation,
			Scale:     1,
			AssetRef:  p.AssetRef,
			SeatCount: max(1, p.Seats),
			Shape:     p.Shape,
		})
	} else {
		l.Objects = append(l.Objects, models.FurnitureObject{
			ID:         id,
			OriginX:    res.X,
			OriginY:    res.Y,
			SpanX:      spanX,
			SpanY:      spanY,
			Rotation:   rotation,
			Scale:      1,
			AssetRef:   p.AssetRef,
			Kind:       p.ObjectType,
			Label:      p.Label,
			VisualOnly: p.VisualOnly,
		})
	}

	return Placement{
		ID: id, X: res.X, Y: res.Y, SpanX: spanX, SpanY: spanY,
		Created: true, Guides: snapped.Guides,
	}, nil
}

func (e *Editor) moveExisting(l *models.GridLayout, id string, rawX, rawY float64, disableSnap bool) (Placement, error) {
	g, ok := locate(l, id)
	if !ok {
		return Placement{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}

	snapped := e.snap.Snap(l, snap.Request{
		RawX: rawX, RawY: rawY,
		SpanX: *g.spanX, SpanY: *g.spanY,
		Kind: g.kind, Subtype: g.subtype,
		DisableSnap: disableSnap,
		ExcludeID:   id,
	})
	res := g.validate(l, snapped.X, snapped.Y, *g.spanX, *g.spanY)
	if !res.Accepted() {
		return Placement{}, rejected("move", res)
	}
	*g.x, *g.y = res.X, res.Y

	return Placement{
		ID: id, X: res.X, Y: res.Y, SpanX: *g.spanX, SpanY: *g.spanY,
		Guides: snapped.Guides,
	}, nil
}

// ============================================================
// Direct mutations
// ============================================================

// Move ставит элемент в клетку (x, y) без снаппинга.
func (e *Editor) Move(l *models.GridLayout, id string, x, y int) error {
	g, ok := locate(l, id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	res := g.validate(l, x, y, *g.spanX, *g.spanY)
	if !res.Accepted() {
		return rejected("move", res)
	}
	*g.x, *g.y = res.X, res.Y
	return nil
}

// Resize меняет размер, начало остается на месте (если помещается в сетку).
func (e *Editor) Resize(l *models.GridLayout, id string, spanX, spanY int) error {
	g, ok := locate(l, id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	spanX, spanY = models.NormalizeSpan(spanX), models.NormalizeSpan(spanY)
	res := g.validate(l, *g.x, *g.y, spanX, spanY)
	if !res.Accepted() {
		return rejected("resize", res)
	}
	*g.x, *g.y = res.X, res.Y
	*g.spanX, *g.spanY = spanX, spanY
	return nil
}

// Rotate задает поворот. Поворот на нечетное число четвертей
// меняет spanX и spanY местами и проверяется заново.
func (e *Editor) Rotate(l *models.GridLayout, id string, degrees int) error {
	g, ok := locate(l, id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	rotation := models.NormalizeRotation(degrees)
	spanX, spanY := *g.spanX, *g.spanY
	if IsVertical(rotation) != IsVertical(*g.rotation) {
		spanX, spanY = spanY, spanX
	}
	res := g.validate(l, *g.x, *g.y, spanX, spanY)
	if !res.Accepted() {
		return rejected("rotate", res)
	}
	*g.x, *g.y = res.X, res.Y
	*g.spanX, *g.spanY = spanX, spanY
	*g.rotation = rotation
	return nil
}

// Scale только визуальный параметр, геометрию не меняет.
func (e *Editor) Scale(l *models.GridLayout, id string, scale float64) error {
	g, ok := locate(l, id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	*g.scale = models.NormalizeScale(scale)
	return nil
}

func (e *Editor) Delete(l *models.GridLayout, id string) error {
	for i := range l.Tables {
		if l.Tables[i].ID == id {
			l.Tables = append(l.Tables[:i], l.Tables[i+1:]...)
			return nil
		}
	}
	for i := range l.Objects {
		if l.Objects[i].ID == id {
			l.Objects = append(l.Objects[:i], l.Objects[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrItemNotFound, id)
}

// ImportWalls добавляет импортированные стены и двери. Объекты, не прошедшие
// проверку, пропускаются; возвращаются id добавленных и пропущенных.
func (e *Editor) ImportWalls(l *models.GridLayout, objects []models.FurnitureObject) (added, skipped []string) {
	for _, o := range objects {
		if o.ID == "" || l.HasID(o.ID) {
			o.ID = uuid.NewString()
		}
		o.SpanX, o.SpanY = models.NormalizeSpan(o.SpanX), models.NormalizeSpan(o.SpanY)
		o.Rotation = models.NormalizeRotation(o.Rotation)
		o.Scale = models.NormalizeScale(o.Scale)

		fits := o.OriginX >= 0 && o.OriginY >= 0 && o.OriginX+o.SpanX <= l.Cols && o.OriginY+o.SpanY <= l.Rows
		res := placement.ValidatePlacement(l, placement.Candidate{
			X: o.OriginX, Y: o.OriginY, SpanX: o.SpanX, SpanY: o.SpanY,
			VisualOnly: !o.Collides(),
		})
		if !fits || !res.Accepted() {
			skipped = append(skipped, o.ID)
			continue
		}
		l.Objects = append(l.Objects, o)
		added = append(added, o.ID)
	}
	return added, skipped
}

// ============================================================
// Item lookup
// ============================================================

// itemGeometry указатели на поля стола или объекта внутри документа.
type itemGeometry struct {
	id       string
	kind     models.ItemKind
	subtype  string
	visual   bool
	x, y     *int
	spanX    *int
	spanY    *int
	rotation *int
	scale    *float64
}

func locate(l *models.GridLayout, id string) (itemGeometry, bool) {
	for i := range l.Tables {
		t := &l.Tables[i]
		if t.ID == id {
			return itemGeometry{
				id: t.ID, kind: models.KindTable, subtype: string(t.Shape),
				x: &t.OriginX, y: &t.OriginY, spanX: &t.SpanX, spanY: &t.SpanY,
				rotation: &t.Rotation, scale: &t.Scale,
			}, true
		}
	}
	for i := range l.Objects {
		o := &l.Objects[i]
		if o.ID == id {
			return itemGeometry{
				id: o.ID, kind: models.KindObject, subtype: string(o.Kind), visual: !o.Collides(),
				x: &o.OriginX, y: &o.OriginY, spanX: &o.SpanX, spanY: &o.SpanY,
				rotation: &o.Rotation, scale: &o.Scale,
			}, true
		}
	}
	return itemGeometry{}, false
}

func (g itemGeometry) validate(l *models.GridLayout, x, y, spanX, spanY int) placement.Result {
	return placement.ValidatePlacement(l, placement.Candidate{
		X: x, Y: y, SpanX: spanX, SpanY: spanY,
		IgnoreID:   g.id,
		VisualOnly: g.visual,
	})
}
