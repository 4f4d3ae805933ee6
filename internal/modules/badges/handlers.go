package badges

import (
	"github.com/gofiber/fiber/v2"
	"github.com/leetuiux/leetuiux-backend/internal/auth"
)

type BadgeHandler struct {
	service *BadgeService
}

func NewBadgeHandler(service *BadgeService) *BadgeHandler {
	return &BadgeHandler{service: service}
}

func (h *BadgeHandler) ForUser(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	badges, err := h.service.ForUser(c.UserContext(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": err.Error()})
	}

	return c.JSON(fiber.Map{"data": fiber.Map{"badges": badges}})
}
