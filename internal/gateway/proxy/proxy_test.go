package proxy

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTarget(t *testing.T) {
	u := New("http://floorplan:3003/", "/api/v1", nil)

	assert.Equal(t, "http://floorplan:3003/layouts", u.Target("/api/v1/layouts"))
	assert.Equal(t, "http://floorplan:3003/layouts?restaurantId=r1", u.Target("/api/v1/layouts?restaurantId=r1"))
	assert.Equal(t, "http://floorplan:3003/layouts/abc/items/t1", u.Target("/api/v1/layouts/abc/items/t1"))
	assert.Equal(t, "http://floorplan:3003/", u.Target("/api/v1"))
}

func TestHandler_Forwards(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"method":"` + r.Method + `","path":"` + r.URL.Path + `","query":"` + r.URL.RawQuery + `","body":` + string(body) + `}`))
	}))
	defer upstream.Close()

	app := fiber.New()
	app.All("/api/v1/*", New(upstream.URL, "/api/v1", nil).Handler())

	req := httptest.NewRequest("POST", "/api/v1/layouts/l1/place?dry=1", strings.NewReader(`{"x":3}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"method":"POST","path":"/layouts/l1/place","query":"dry=1","body":{"x":3}}`, string(data))
}

func TestHandler_UpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	url := upstream.URL
	upstream.Close()

	app := fiber.New()
	app.All("/api/v1/*", New(url, "/api/v1", nil).Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/layouts", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestPing(t *testing.T) {
	var ready atomic.Bool
	ready.Store(true)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health/ready" || !ready.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	u := New(upstream.URL, "/api/v1", nil)
	assert.NoError(t, u.Ping(context.Background()))

	ready.Store(false)
	assert.Error(t, u.Ping(context.Background()))
}
