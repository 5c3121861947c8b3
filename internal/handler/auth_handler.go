package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/souchan25/attendance-go-api/internal/dto"
	"github.com/souchan25/attendance-go-api/internal/service"
	"github.com/souchan25/attendance-go-api/internal/utils"
)

// AuthHandler wires operator authentication HTTP routes.
type AuthHandler struct {
	auth   service.AuthService
	logger zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(auth service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger.With().Str("component", "auth_handler").Logger(),
	}
}

// RegisterPublic attaches the unauthenticated login endpoint.
func (h *AuthHandler) RegisterPublic(router fiber.Router) {
	router.Post("/login", h.login)
}

// RegisterProtected attaches admin-only account management endpoints.
func (h *AuthHandler) RegisterProtected(router fiber.Router) {
	router.Get("/admins", h.list)
	router.Post("/admins", h.register)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	login, err := h.auth.Login(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "login successful", login)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var payload dto.AdminCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	admin, err := h.auth.Register(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "admin registered", admin)
}

func (h *AuthHandler) list(c *fiber.Ctx) error {
	admins, err := h.auth.ListAdmins(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "admins retrieved", admins)
}

func (h *AuthHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.SendError(c, fiber.StatusUnauthorized, "invalid username or password")
	case errors.Is(err, service.ErrAdminExists):
		return utils.SendError(c, fiber.StatusConflict, "admin username already registered")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
