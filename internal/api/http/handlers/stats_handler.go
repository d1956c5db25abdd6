package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/parcel-service/internal/service"
)

// StatsHandler serves the admin dashboard aggregates.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler constructs handler.
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// AdminStats handles GET /admin-stats.
func (h *StatsHandler) AdminStats(c *fiber.Ctx) error {
	stats, err := h.stats.AdminStats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// BookingStats handles GET /booking-stats.
func (h *StatsHandler) BookingStats(c *fiber.Ctx) error {
	days, err := h.stats.BookingStats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(days)
}
