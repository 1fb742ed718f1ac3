package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"restaurant-floor/internal/floorplan/editor"
	"restaurant-floor/internal/floorplan/grid"
	"restaurant-floor/internal/floorplan/importer"
	"restaurant-floor/internal/floorplan/models"
	"restaurant-floor/internal/floorplan/placement"
	"restaurant-floor/internal/floorplan/snap"
	"restaurant-floor/internal/floorplan/viewport"
	"restaurant-floor/internal/floorplan/walls"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// ============================================================
// Engine endpoints
// ============================================================

type validateRequest struct {
	X          int    `json:"x"`
	Y          int    `json:"y"`
	SpanX      int    `json:"spanX"`
	SpanY      int    `json:"spanY"`
	IgnoreID   string `json:"ignoreId"`
	VisualOnly bool   `json:"visualOnly"`
}

type validateResponse struct {
	Accepted bool             `json:"accepted"`
	X        int              `json:"x"`
	Y        int              `json:"y"`
	Reason   placement.Reason `json:"reason,omitempty"`
}

type placeRequest struct {
	Payload     models.DragPayload `json:"payload"`
	X           float64            `json:"x"`
	Y           float64            `json:"y"`
	DisableSnap bool               `json:"disableSnap"`
}

// itemPatch частичное изменение элемента; поля применяются в порядке
// перемещение, размер, поворот, масштаб.
type itemPatch struct {
	X        *int     `json:"x"`
	Y        *int     `json:"y"`
	SpanX    *int     `json:"spanX"`
	SpanY    *int     `json:"spanY"`
	Rotation *int     `json:"rotation"`
	Scale    *float64 `json:"scale"`
}

type fitRequest struct {
	ViewportWidth  float64 `json:"viewportWidth"`
	ViewportHeight float64 `json:"viewportHeight"`
	InsetPx        float64 `json:"insetPx"`
}

// Snap предпросмотр позиции при перетаскивании, документ не меняется.
func (h *LayoutHandler) Snap(c fiber.Ctx) error {
	var req snap.Request
	if err := decodeBody(c, &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	l, err := h.store.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, "snap", err)
	}
	return c.JSON(h.snap.Snap(l, req))
}

func (h *LayoutHandler) Validate(c fiber.Ctx) error {
	var req validateRequest
	if err := decodeBody(c, &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	l, err := h.store.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, "validate", err)
	}

	res := placement.ValidatePlacement(l, placement.Candidate{
		X: req.X, Y: req.Y, SpanX: req.SpanX, SpanY: req.SpanY,
		IgnoreID: req.IgnoreID, VisualOnly: req.VisualOnly,
	})
	return c.JSON(validateResponse{Accepted: res.Accepted(), X: res.X, Y: res.Y, Reason: res.Reason})
}

// Place завершает drag-сессию и сохраняет документ.
func (h *LayoutHandler) Place(c fiber.Ctx) error {
	var req placeRequest
	if err := decodeBody(c, &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	l, err := h.store.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, "place", err)
	}

	p, err := h.editor.Place(l, req.Payload, req.X, req.Y, req.DisableSnap)
	if err != nil {
		return h.fail(c, "place", err)
	}
	if err := h.store.Save(c.Context(), l); err != nil {
		return h.fail(c, "place", err)
	}

	status := http.StatusOK
	if p.Created {
		status = http.StatusCreated
	}
	return c.Status(status).JSON(p)
}

func (h *LayoutHandler) UpdateItem(c fiber.Ctx) error {
	var patch itemPatch
	if err := decodeBody(c, &patch); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	l, err := h.store.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, "update item", err)
	}
	itemID := c.Params("itemId")

	if err := h.applyPatch(l, itemID, patch); err != nil {
		return h.fail(c, "update item", err)
	}
	if err := h.store.Save(c.Context(), l); err != nil {
		return h.fail(c, "update item", err)
	}
	return c.JSON(l)
}

// applyPatch работает с загруженной копией документа: при отказе копия
// просто не сохраняется.
func (h *LayoutHandler) applyPatch(l *models.GridLayout, id string, p itemPatch) error {
	if p.X != nil || p.Y != nil {
		x, y, err := currentOrigin(l, id)
		if err != nil {
			return err
		}
		if p.X != nil {
			x = *p.X
		}
		if p.Y != nil {
			y = *p.Y
		}
		if err := h.editor.Move(l, id, x, y); err != nil {
			return err
		}
	}
	if p.SpanX != nil || p.SpanY != nil {
		sx, sy, err := currentSpan(l, id)
		if err != nil {
			return err
		}
		if p.SpanX != nil {
			sx = *p.SpanX
		}
		if p.SpanY != nil {
			sy = *p.SpanY
		}
		if err := h.editor.Resize(l, id, sx, sy); err != nil {
			return err
		}
	}
	if p.Rotation != nil {
		if err := h.editor.Rotate(l, id, *p.Rotation); err != nil {
			return err
		}
	}
	if p.Scale != nil {
		if err := h.editor.Scale(l, id, *p.Scale); err != nil {
			return err
		}
	}
	return nil
}

func (h *LayoutHandler) DeleteItem(c fiber.Ctx) error {
	l, err := h.store.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, "delete item", err)
	}
	if err := h.editor.Delete(l, c.Params("itemId")); err != nil {
		return h.fail(c, "delete item", err)
	}
	if err := h.store.Save(c.Context(), l); err != nil {
		return h.fail(c, "delete item", err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *LayoutHandler) Junctions(c fiber.Ctx) error {
	l, err := h.store.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, "junctions", err)
	}
	return c.JSON(fiber.Map{"junctions": walls.Junctions(l)})
}

// Fit масштаб и сдвиг вида, вписывающие занятую область в окно,
// плюс число используемых клеток зала.
func (h *LayoutHandler) Fit(c fiber.Ctx) error {
	var req fitRequest
	if err := decodeBody(c, &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	if req.ViewportWidth <= 0 || req.ViewportHeight <= 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "viewport size required"})
	}
	l, err := h.store.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, "fit", err)
	}

	bounds := grid.OccupiedBounds(l)
	v := viewport.ForLayout(l, h.cellPx).FitToContent(bounds, req.ViewportWidth, req.ViewportHeight, req.InsetPx)
	return c.JSON(fiber.Map{
		"zoom":        v.Zoom,
		"pan":         fiber.Map{"x": v.PanX, "y": v.PanY},
		"bounds":      bounds,
		"cellPx":      v.CellPx,
		"activeCells": grid.ActiveCellCount(l),
	})
}

// ImportSVG добавляет стены из SVG-чертежа (multipart: file, cellPx).
func (h *LayoutHandler) ImportSVG(c fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "file required"})
	}
	cellPx := h.cellPx
	if v := c.FormValue("cellPx"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed <= 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid cellPx"})
		}
		cellPx = parsed
	}

	l, err := h.store.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, "import svg", err)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to open file"})
	}
	defer file.Close()

	objects, err := importer.FromSVG(file, cellPx)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid svg"})
	}
	added, skipped := h.editor.ImportWalls(l, objects)
	if err := h.store.Save(c.Context(), l); err != nil {
		return h.fail(c, "import svg", err)
	}

	h.log.Info("svg imported",
		zap.String("layout_id", l.ID),
		zap.String("summary", importer.Summary(objects)),
		zap.Int("added", len(added)),
		zap.Int("skipped", len(skipped)),
	)
	return c.JSON(fiber.Map{"added": added, "skipped": skipped})
}

func currentOrigin(l *models.GridLayout, id string) (int, int, error) {
	for _, item := range l.Items() {
		if item.ID == id {
			return item.Rect.X, item.Rect.Y, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: %s", editor.ErrItemNotFound, id)
}

func currentSpan(l *models.GridLayout, id string) (int, int, error) {
	for _, item := range l.Items() {
		if item.ID == id {
			return item.Rect.W, item.Rect.H, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: %s", editor.ErrItemNotFound, id)
}
