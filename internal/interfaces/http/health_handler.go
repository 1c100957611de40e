package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/grocery-inventory-api/pkg/logger"
)

// Pinger lo cumplen *pgxpool.Pool y memory.Store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler estado del servicio y de su almacenamiento (público).
type HealthHandler struct {
	service string
	storage Pinger
	log     *logger.Logger
}

func NewHealthHandler(service string, storage Pinger, log *logger.Logger) *HealthHandler {
	return &HealthHandler{service: service, storage: storage, log: log}
}

// Check godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	if h.storage != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.storage.Ping(ctx); err != nil {
			h.log.Error().Err(err).Msg("health: almacenamiento no disponible")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": h.service, "storage": "down"})
		}
	}
	return c.JSON(fiber.Map{"status": "ok", "service": h.service, "storage": "up"})
}
