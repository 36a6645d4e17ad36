package handlers

import (
	"github.com/bortnikova888-creator/SupplierCheck-UK/services"
	"github.com/gofiber/fiber/v2"
)

type CacheHandler struct {
	Service *services.FetchCacheService
}

func NewCacheHandler(service *services.FetchCacheService) *CacheHandler {
	return &CacheHandler{Service: service}
}

// CleanExpired sweeps expired cache entries and reports the count removed.
func (h *CacheHandler) CleanExpired(c *fiber.Ctx) error {
	removed, err := h.Service.CleanExpired(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"removed": removed,
	})
}

// Clear removes all cache entries unconditionally.
func (h *CacheHandler) Clear(c *fiber.Ctx) error {
	removed, err := h.Service.Clear(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"removed": removed,
	})
}

// Stats returns the cache hit/miss counters.
func (h *CacheHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.Service.Metrics().Snapshot(),
	})
}
