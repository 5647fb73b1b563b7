package handlers

import (
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/dto"
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SavingsHandler struct {
	savings *service.SavingsService
	logger  *zap.Logger
}

func NewSavingsHandler(savings *service.SavingsService, logger *zap.Logger) *SavingsHandler {
	return &SavingsHandler{
		savings: savings,
		logger:  logger,
	}
}

func (h *SavingsHandler) Get(c *fiber.Ctx) error {
	goal, err := h.savings.Get(c.Context())
	if err != nil {
		h.logger.Error("Failed to get savings goal", zap.Error(err))
		return respondError(c, err)
	}
	if goal == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No savings goal set",
		})
	}
	return c.JSON(goal)
}

func (h *SavingsHandler) Update(c *fiber.Ctx) error {
	var req dto.SavingsGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	goal, err := h.savings.Update(c.Context(), req.Amount)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(goal)
}
