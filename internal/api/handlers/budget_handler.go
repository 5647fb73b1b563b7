package handlers

import (
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/dto"
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type BudgetHandler struct {
	budgets *service.BudgetService
	logger  *zap.Logger
}

func NewBudgetHandler(budgets *service.BudgetService, logger *zap.Logger) *BudgetHandler {
	return &BudgetHandler{
		budgets: budgets,
		logger:  logger,
	}
}

func (h *BudgetHandler) List(c *fiber.Ctx) error {
	budgets, err := h.budgets.GetAll(c.Context())
	if err != nil {
		h.logger.Error("Failed to list budgets", zap.Error(err))
		return respondError(c, err)
	}
	return c.JSON(budgets)
}

func (h *BudgetHandler) CreateOrUpdate(c *fiber.Ctx) error {
	var req dto.BudgetUpsertRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Category == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Category is required",
		})
	}

	budget, err := h.budgets.CreateOrUpdate(c.Context(), req.Category, req.Amount)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(budget)
}

func (h *BudgetHandler) UpdateBatch(c *fiber.Ctx) error {
	var req dto.BudgetBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	budgets, err := h.budgets.UpdateBatch(c.Context(), req.Budgets)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(budgets)
}

func (h *BudgetHandler) Delete(c *fiber.Ctx) error {
	if err := h.budgets.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Budget deleted"})
}
