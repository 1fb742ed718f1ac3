package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"restaurant-floor/internal/floorplan/editor"
	"restaurant-floor/internal/floorplan/models"
	"restaurant-floor/internal/floorplan/placement"
	"restaurant-floor/internal/floorplan/snap"
	"restaurant-floor/internal/layout/repository"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// ============================================================
// Layout Handler
// ============================================================

// Store хранилище документов плана.
type Store interface {
	List(ctx context.Context, restaurantID string) ([]repository.Summary, error)
	Get(ctx context.Context, id string) (*models.GridLayout, error)
	Create(ctx context.Context, l *models.GridLayout) error
	Save(ctx context.Context, l *models.GridLayout) error
	Delete(ctx context.Context, id string) error
	SetActive(ctx context.Context, id string) error
	Active(ctx context.Context, restaurantID string) (*models.GridLayout, error)
}

type LayoutHandler struct {
	store  Store
	editor *editor.Editor
	snap   *snap.Engine
	cellPx float64
	log    *zap.Logger
}

func NewLayoutHandler(store Store, engine *snap.Engine, cellPx float64, log *zap.Logger) *LayoutHandler {
	if engine == nil {
		engine = snap.NewEngine()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &LayoutHandler{
		store:  store,
		editor: editor.New(engine),
		snap:   engine,
		cellPx: cellPx,
		log:    log,
	}
}

// Register вешает маршруты сервиса на роутер.
func (h *LayoutHandler) Register(r fiber.Router) {
	r.Get("/layouts", h.List)
	r.Post("/layouts", h.Create)
	r.Get("/layouts/active", h.Active)
	r.Get("/layouts/:id", h.Get)
	r.Put("/layouts/:id", h.Save)
	r.Delete("/layouts/:id", h.Delete)
	r.Post("/layouts/:id/activate", h.Activate)

	r.Post("/layouts/:id/snap", h.Snap)
	r.Post("/layouts/:id/validate", h.Validate)
	r.Post("/layouts/:id/place", h.Place)
	r.Patch("/layouts/:id/items/:itemId", h.UpdateItem)
	r.Delete("/layouts/:id/items/:itemId", h.DeleteItem)
	r.Get("/layouts/:id/junctions", h.Junctions)
	r.Post("/layouts/:id/fit", h.Fit)
	r.Post("/layouts/:id/import-svg", h.ImportSVG)
}

// ============================================================
// Documents
// ============================================================

func (h *LayoutHandler) List(c fiber.Ctx) error {
	list, err := h.store.List(c.Context(), c.Query("restaurantId"))
	if err != nil {
		return h.fail(c, "list layouts", err)
	}
	return c.JSON(fiber.Map{"layouts": list})
}

func (h *LayoutHandler) Get(c fiber.Ctx) error {
	l, err := h.store.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, "get layout", err)
	}
	return c.JSON(l)
}

func (h *LayoutHandler) Create(c fiber.Ctx) error {
	l, err := decodeLayout(c)
	if err != nil {
		return badLayout(c, err)
	}
	if violations := placement.Audit(l); len(violations) > 0 {
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid layout", "violations": violations})
	}
	if err := h.store.Create(c.Context(), l); err != nil {
		return h.fail(c, "create layout", err)
	}
	return c.Status(http.StatusCreated).JSON(l)
}

// Save сохраняет документ целиком после нормализации и проверки инвариантов.
func (h *LayoutHandler) Save(c fiber.Ctx) error {
	l, err := decodeLayout(c)
	if err != nil {
		return badLayout(c, err)
	}
	l.ID = c.Params("id")
	if violations := placement.Audit(l); len(violations) > 0 {
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid layout", "violations": violations})
	}
	if err := h.store.Save(c.Context(), l); err != nil {
		return h.fail(c, "save layout", err)
	}
	return c.JSON(l)
}

func (h *LayoutHandler) Delete(c fiber.Ctx) error {
	if err := h.store.Delete(c.Context(), c.Params("id")); err != nil {
		return h.fail(c, "delete layout", err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *LayoutHandler) Activate(c fiber.Ctx) error {
	id := c.Params("id")
	if err := h.store.SetActive(c.Context(), id); err != nil {
		return h.fail(c, "activate layout", err)
	}
	return c.JSON(fiber.Map{"id": id, "isActive": true})
}

// Active текущий план зала ресторана (restaurantId в query).
func (h *LayoutHandler) Active(c fiber.Ctx) error {
	restaurantID := c.Query("restaurantId")
	if restaurantID == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "restaurantId required"})
	}
	l, err := h.store.Active(c.Context(), restaurantID)
	if err != nil {
		return h.fail(c, "active layout", err)
	}
	return c.JSON(l)
}

// ============================================================
// Helpers
// ============================================================

func decodeLayout(c fiber.Ctx) (*models.GridLayout, error) {
	body := c.Body()
	if len(body) == 0 {
		return nil, errors.New("empty body")
	}
	var l models.GridLayout
	if err := json.Unmarshal(body, &l); err != nil {
		return nil, err
	}
	if err := models.CheckDimensions(l.Rows, l.Cols); err != nil {
		return nil, err
	}
	models.Normalize(&l)
	return &l, nil
}

func badLayout(c fiber.Ctx, err error) error {
	if errors.Is(err, models.ErrGridTooLarge) {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
}

func decodeBody(c fiber.Ctx, dst any) error {
	body := c.Body()
	if len(body) == 0 {
		return errors.New("empty body")
	}
	return json.Unmarshal(body, dst)
}

// fail переводит ошибку в HTTP-ответ. Отказ валидатора: 409 с причиной.
func (h *LayoutHandler) fail(c fiber.Ctx, op string, err error) error {
	var rej *editor.RejectedError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "layout not found"})
	case errors.Is(err, editor.ErrItemNotFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "item not found"})
	case errors.Is(err, editor.ErrInvalidPayload):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &rej):
		return c.Status(http.StatusConflict).JSON(fiber.Map{
			"error": rej.Result.Reason,
			"x":     rej.Result.X,
			"y":     rej.Result.Y,
		})
	}

	h.log.Error(op, zap.String("layout_id", c.Params("id")), zap.Error(err))
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}
