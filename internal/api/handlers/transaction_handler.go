package handlers

import (
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/dto"
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/models"
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type TransactionHandler struct {
	transactions *service.TransactionService
	logger       *zap.Logger
}

func NewTransactionHandler(transactions *service.TransactionService, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		transactions: transactions,
		logger:       logger,
	}
}

func (h *TransactionHandler) List(c *fiber.Ctx) error {
	transactions, err := h.transactions.GetAll(c.Context())
	if err != nil {
		h.logger.Error("Failed to list transactions", zap.Error(err))
		return respondError(c, err)
	}
	return c.JSON(transactions)
}

func (h *TransactionHandler) Get(c *fiber.Ctx) error {
	t, err := h.transactions.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(t)
}

func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	var input models.TransactionInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	created, err := h.transactions.Create(c.Context(), input)
	if err != nil {
		h.logger.Error("Failed to create transaction", zap.Error(err))
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *TransactionHandler) Update(c *fiber.Ctx) error {
	var patch models.TransactionPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	updated, err := h.transactions.Update(c.Context(), c.Params("id"), patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(updated)
}

func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	if err := h.transactions.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Transaction deleted"})
}

func (h *TransactionHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.transactions.Summary(c.Context(), summaryParams(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

func (h *TransactionHandler) Analysis(c *fiber.Ctx) error {
	analysis, err := h.transactions.CategoryAnalysis(c.Context(), summaryParams(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(analysis)
}

func (h *TransactionHandler) Trends(c *fiber.Ctx) error {
	trends, err := h.transactions.MonthlyTrends(c.Context(), summaryParams(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(trends)
}

func summaryParams(c *fiber.Ctx) dto.SummaryParams {
	return dto.SummaryParams{
		Period:    c.Query("period"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	}
}
