package handlers

import (
	"errors"

	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/remote"
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/service"

	"github.com/gofiber/fiber/v2"
)

// errorStatus maps service and remote errors onto HTTP statuses for the
// local API.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput):
		return fiber.StatusBadRequest
	}
	var apiErr *remote.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return fiber.StatusInternalServerError
}

func respondError(c *fiber.Ctx, err error) error {
	return c.Status(errorStatus(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}
