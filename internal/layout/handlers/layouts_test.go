package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"restaurant-floor/internal/floorplan/models"
	"restaurant-floor/internal/layout/repository"

	"github.com/gofiber/fiber/v3"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	app  *fiber.App
	repo *repository.Repository
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	db, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "layouts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := repository.New(db)
	require.NoError(t, repo.Init(context.Background(), ""))

	app := fiber.New()
	NewLayoutHandler(repo, nil, 60, nil).Register(app)
	return &testEnv{app: app, repo: repo}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func (e *testEnv) seed(t *testing.T, l *models.GridLayout) string {
	t.Helper()
	models.Normalize(l)
	require.NoError(t, e.repo.Create(context.Background(), l))
	return l.ID
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func TestCreateGetList(t *testing.T) {
	env := setup(t)

	status, data := env.do(t, "POST", "/layouts", map[string]any{
		"restaurantId": "r1",
		"name":         "Hall",
		"gridRows":     8,
		"gridCols":     12,
		"tables": []map[string]any{
			{"id": "t1", "x": 1, "y": 1, "spanX": 2, "spanY": 2, "shape": "round", "seats": 4},
		},
	})
	require.Equal(t, http.StatusCreated, status, string(data))
	created := decode[models.GridLayout](t, data)
	require.NotEmpty(t, created.ID)
	assert.Len(t, created.Mask, 96, "маска дополнена единицами")
	assert.Equal(t, 1.0, created.Tables[0].Scale)

	status, data = env.do(t, "GET", "/layouts/"+created.ID, nil)
	require.Equal(t, http.StatusOK, status)
	got := decode[models.GridLayout](t, data)
	assert.Equal(t, "Hall", got.Name)

	status, data = env.do(t, "GET", "/layouts?restaurantId=r1", nil)
	require.Equal(t, http.StatusOK, status)
	list := decode[struct {
		Layouts []repository.Summary `json:"layouts"`
	}](t, data)
	require.Len(t, list.Layouts, 1)
	assert.Equal(t, created.ID, list.Layouts[0].ID)

	status, _ = env.do(t, "GET", "/layouts/missing", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCreate_RejectsViolations(t *testing.T) {
	env := setup(t)

	status, data := env.do(t, "POST", "/layouts", map[string]any{
		"restaurantId": "r1",
		"gridRows":     8,
		"gridCols":     12,
		"tables": []map[string]any{
			{"id": "a", "x": 1, "y": 1, "spanX": 2, "spanY": 2},
			{"id": "b", "x": 2, "y": 2, "spanX": 2, "spanY": 2},
		},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, string(data), "collision")

	status, _ = env.do(t, "POST", "/layouts", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCreateSave_RejectsHugeGrid(t *testing.T) {
	env := setup(t)

	for _, dims := range [][2]int{{50000, 50000}, {3, 1 << 62}, {models.MaxGridDim + 1, 4}} {
		status, data := env.do(t, "POST", "/layouts", map[string]any{
			"restaurantId": "r1", "gridRows": dims[0], "gridCols": dims[1],
		})
		assert.Equal(t, http.StatusBadRequest, status, "%v", dims)
		assert.Contains(t, string(data), "grid too large")
	}
	list, err := env.repo.List(context.Background(), "r1")
	require.NoError(t, err)
	assert.Empty(t, list)

	id := env.seed(t, &models.GridLayout{RestaurantID: "r1", Name: "A", Rows: 4, Cols: 4})
	status, _ := env.do(t, "PUT", "/layouts/"+id, map[string]any{
		"restaurantId": "r1", "gridRows": 4, "gridCols": 1 << 40,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	got, err := env.repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Cols)
}

func TestSaveAndDelete(t *testing.T) {
	env := setup(t)
	id := env.seed(t, &models.GridLayout{RestaurantID: "r1", Name: "A", Rows: 8, Cols: 12})

	status, data := env.do(t, "PUT", "/layouts/"+id, map[string]any{
		"restaurantId": "r1",
		"name":         "B",
		"gridRows":     8,
		"gridCols":     12,
		"objects": []map[string]any{
			{"id": "w", "x": 0, "y": 5, "spanX": 6, "spanY": 1, "type": "wall"},
		},
	})
	require.Equal(t, http.StatusOK, status, string(data))

	got, err := env.repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "B", got.Name)
	require.Len(t, got.Objects, 1)

	status, _ = env.do(t, "DELETE", "/layouts/"+id, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = env.do(t, "DELETE", "/layouts/"+id, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestActivate(t *testing.T) {
	env := setup(t)
	a := env.seed(t, &models.GridLayout{RestaurantID: "r1", Name: "A", Rows: 4, Cols: 4, IsActive: true})
	b := env.seed(t, &models.GridLayout{RestaurantID: "r1", Name: "B", Rows: 4, Cols: 4})

	status, _ := env.do(t, "POST", "/layouts/"+b+"/activate", nil)
	require.Equal(t, http.StatusOK, status)

	gotA, err := env.repo.Get(context.Background(), a)
	require.NoError(t, err)
	assert.False(t, gotA.IsActive)
	gotB, err := env.repo.Get(context.Background(), b)
	require.NoError(t, err)
	assert.True(t, gotB.IsActive)

	status, data := env.do(t, "GET", "/layouts/active?restaurantId=r1", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, b, decode[models.GridLayout](t, data).ID)

	status, _ = env.do(t, "GET", "/layouts/active?restaurantId=r2", nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = env.do(t, "GET", "/layouts/active", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestPlace(t *testing.T) {
	env := setup(t)
	id := env.seed(t, &models.GridLayout{RestaurantID: "r1", Rows: 8, Cols: 12})

	drop := map[string]any{
		"payload": map[string]any{"kind": "table", "mode": "new", "shape": "square", "seats": 4},
		"x":       3,
		"y":       3,
	}
	status, data := env.do(t, "POST", "/layouts/"+id+"/place", drop)
	require.Equal(t, http.StatusCreated, status, string(data))
	placed := decode[map[string]any](t, data)
	assert.Equal(t, 3.0, placed["x"])
	assert.Equal(t, 2.0, placed["spanX"])

	status, data = env.do(t, "POST", "/layouts/"+id+"/place", drop)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "collision", decode[map[string]any](t, data)["error"])

	got, err := env.repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, got.Tables, 1)

	status, _ = env.do(t, "POST", "/layouts/"+id+"/place", map[string]any{
		"payload": map[string]any{"kind": "table", "mode": "existing", "existingId": "missing"},
	})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = env.do(t, "POST", "/layouts/"+id+"/place", map[string]any{
		"payload": map[string]any{"kind": "lamp", "mode": "new"},
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestValidate(t *testing.T) {
	env := setup(t)
	l := &models.GridLayout{RestaurantID: "r1", Rows: 8, Cols: 12}
	models.Normalize(l)
	l.Mask[0] = 0
	id := env.seed(t, l)

	status, data := env.do(t, "POST", "/layouts/"+id+"/validate", map[string]any{"x": 0, "y": 0, "spanX": 1, "spanY": 1})
	require.Equal(t, http.StatusOK, status)
	res := decode[map[string]any](t, data)
	assert.Equal(t, false, res["accepted"])
	assert.Equal(t, "outside-shape", res["reason"])

	status, data = env.do(t, "POST", "/layouts/"+id+"/validate", map[string]any{"x": 20, "y": 1, "spanX": 2, "spanY": 1})
	require.Equal(t, http.StatusOK, status)
	res = decode[map[string]any](t, data)
	assert.Equal(t, true, res["accepted"])
	assert.Equal(t, 10.0, res["x"])
}

func TestSnap(t *testing.T) {
	env := setup(t)
	id := env.seed(t, &models.GridLayout{
		RestaurantID: "r1", Rows: 8, Cols: 12,
		Objects: []models.FurnitureObject{{ID: "w", OriginX: 2, OriginY: 5, SpanX: 4, SpanY: 1, Kind: models.ObjectWall}},
	})

	status, data := env.do(t, "POST", "/layouts/"+id+"/snap", map[string]any{
		"rawX": 2, "rawY": 3.4, "spanX": 3, "spanY": 1, "kind": "object", "subtype": "bar",
	})
	require.Equal(t, http.StatusOK, status)
	res := decode[map[string]any](t, data)
	assert.Equal(t, 2.0, res["x"])
	assert.Equal(t, 4.0, res["y"])
}

func TestUpdateItem(t *testing.T) {
	env := setup(t)
	id := env.seed(t, &models.GridLayout{
		RestaurantID: "r1", Rows: 8, Cols: 12,
		Tables: []models.Table{
			{ID: "a", OriginX: 0, OriginY: 0, SpanX: 3, SpanY: 1, Shape: models.ShapeRect},
			{ID: "b", OriginX: 6, OriginY: 0, SpanX: 2, SpanY: 2, Shape: models.ShapeSquare},
		},
	})

	status, data := env.do(t, "PATCH", "/layouts/"+id+"/items/a", map[string]any{"y": 3, "rotation": 90, "scale": 1.3})
	require.Equal(t, http.StatusOK, status, string(data))
	got, err := env.repo.Get(context.Background(), id)
	require.NoError(t, err)
	a := got.Tables[0]
	assert.Equal(t, 3, a.OriginY)
	assert.Equal(t, 90, a.Rotation)
	assert.Equal(t, 1, a.SpanX)
	assert.Equal(t, 3, a.SpanY)
	assert.Equal(t, 1.3, a.Scale)

	// первое поле проходит, второе конфликтует: документ не сохраняется
	status, data = env.do(t, "PATCH", "/layouts/"+id+"/items/a", map[string]any{"y": 0, "spanX": 7})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "collision", decode[map[string]any](t, data)["error"])
	got, err = env.repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Tables[0].OriginY)
	assert.Equal(t, 1, got.Tables[0].SpanX)

	status, _ = env.do(t, "PATCH", "/layouts/"+id+"/items/zzz", map[string]any{"x": 1})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDeleteItem(t *testing.T) {
	env := setup(t)
	id := env.seed(t, &models.GridLayout{
		RestaurantID: "r1", Rows: 8, Cols: 12,
		Tables: []models.Table{{ID: "a", SpanX: 1, SpanY: 1}},
	})

	status, _ := env.do(t, "DELETE", "/layouts/"+id+"/items/a", nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = env.do(t, "DELETE", "/layouts/"+id+"/items/a", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestJunctions(t *testing.T) {
	env := setup(t)
	id := env.seed(t, &models.GridLayout{
		RestaurantID: "r1", Rows: 8, Cols: 12,
		Objects: []models.FurnitureObject{
			{ID: "h", OriginX: 0, OriginY: 3, SpanX: 6, SpanY: 1, Kind: models.ObjectWall},
			{ID: "v", OriginX: 6, OriginY: 0, SpanX: 1, SpanY: 3, Kind: models.ObjectWall},
		},
	})

	status, data := env.do(t, "GET", "/layouts/"+id+"/junctions", nil)
	require.Equal(t, http.StatusOK, status)
	res := decode[struct {
		Junctions []struct {
			X    int    `json:"x"`
			Y    int    `json:"y"`
			Type string `json:"type"`
		} `json:"junctions"`
	}](t, data)
	require.Len(t, res.Junctions, 1)
	assert.Equal(t, 6, res.Junctions[0].X)
	assert.Equal(t, 3, res.Junctions[0].Y)
	assert.Equal(t, "L", res.Junctions[0].Type)
}

func TestFit(t *testing.T) {
	env := setup(t)
	id := env.seed(t, &models.GridLayout{RestaurantID: "r1", Rows: 8, Cols: 12})

	status, data := env.do(t, "POST", "/layouts/"+id+"/fit", map[string]any{
		"viewportWidth": 1000, "viewportHeight": 800, "insetPx": 20,
	})
	require.Equal(t, http.StatusOK, status)
	res := decode[map[string]any](t, data)
	assert.InDelta(t, 1.2, res["zoom"], 1e-9)
	pan := res["pan"].(map[string]any)
	assert.InDelta(t, 68, pan["x"], 1e-9)
	assert.InDelta(t, 112, pan["y"], 1e-9)
	assert.EqualValues(t, 96, res["activeCells"])

	masked := &models.GridLayout{RestaurantID: "r1", Rows: 2, Cols: 3, Mask: []int{1, 0, 1, 0}}
	status, data = env.do(t, "POST", "/layouts/"+env.seed(t, masked)+"/fit", map[string]any{
		"viewportWidth": 400, "viewportHeight": 300,
	})
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 4, decode[map[string]any](t, data)["activeCells"])

	status, _ = env.do(t, "POST", "/layouts/"+id+"/fit", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestImportSVG(t *testing.T) {
	env := setup(t)
	id := env.seed(t, &models.GridLayout{RestaurantID: "r1", Rows: 8, Cols: 12})

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", "plan.svg")
	require.NoError(t, err)
	_, err = part.Write([]byte(`<svg><rect id="Wall_top" x="0" y="0" width="720" height="20"/><rect id="Wall_far" x="0" y="900" width="720" height="20"/></svg>`))
	require.NoError(t, err)
	require.NoError(t, w.WriteField("cellPx", "60"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/layouts/"+id+"/import-svg", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res struct {
		Added   []string `json:"added"`
		Skipped []string `json:"skipped"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, []string{"Wall_top"}, res.Added)
	assert.Equal(t, []string{"Wall_far"}, res.Skipped)

	got, err := env.repo.Get(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, got.Objects, 1)
	assert.Equal(t, models.ObjectWall, got.Objects[0].Kind)
}
