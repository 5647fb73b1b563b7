package handlers

import (
	"errors"

	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/dto"
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/remote"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler proxies authentication to the backend. Auth requires
// connectivity; the daemon only keeps the bearer token.
type AuthHandler struct {
	remote *remote.Client
	logger *zap.Logger
}

func NewAuthHandler(rc *remote.Client, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		remote: rc,
		logger: logger,
	}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	resp, err := h.remote.Login(c.Context(), req)
	if err != nil {
		return h.proxyError(c, "login", err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	resp, err := h.remote.Register(c.Context(), req)
	if err != nil {
		return h.proxyError(c, "register", err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	resp, err := h.remote.Profile(c.Context())
	if err != nil {
		return h.proxyError(c, "profile", err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	resp, err := h.remote.UpdateProfile(c.Context(), req)
	if err != nil {
		return h.proxyError(c, "update profile", err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) proxyError(c *fiber.Ctx, op string, err error) error {
	var apiErr *remote.APIError
	if errors.As(err, &apiErr) {
		return c.Status(apiErr.Status).JSON(fiber.Map{"error": apiErr.Message})
	}
	h.logger.Warn("Auth request failed, backend unreachable", zap.String("op", op), zap.Error(err))
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": "Backend unreachable",
	})
}
