package proxy

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	fiberproxy "github.com/gofiber/fiber/v3/middleware/proxy"
	"go.uber.org/zap"
)

// ============================================================
// Proxy Handler
// ============================================================

// Upstream сервис за шлюзом. Путь запроса без префикса шлюза
// дописывается к базовому адресу сервиса, query сохраняется.
type Upstream struct {
	base   string
	prefix string
	log    *zap.Logger
}

func New(baseURL, prefix string, log *zap.Logger) *Upstream {
	if log == nil {
		log = zap.NewNop()
	}
	return &Upstream{
		base:   strings.TrimRight(baseURL, "/"),
		prefix: strings.TrimRight(prefix, "/"),
		log:    log,
	}
}

// Target адрес в сервисе для исходного URI запроса.
func (u *Upstream) Target(originalURL string) string {
	path := strings.TrimPrefix(originalURL, u.prefix)
	if path == "" || path[0] != '/' {
		path = "/" + path
	}
	return u.base + path
}

// Handler проксирует любой метод; тело (в том числе multipart) уходит без изменений.
func (u *Upstream) Handler() fiber.Handler {
	return func(c fiber.Ctx) error {
		target := u.Target(c.OriginalURL())
		u.log.Debug("proxy",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("target", target),
		)

		if err := fiberproxy.Do(c, target); err != nil {
			u.log.Warn("upstream unreachable", zap.String("target", target), zap.Error(err))
			return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": "failed to reach upstream service"})
		}
		return nil
	}
}

// Ping проверяет готовность сервиса через его /health/ready.
func (u *Upstream) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.base+"/health/ready", nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upstream status %d", resp.StatusCode)
	}
	return nil
}
