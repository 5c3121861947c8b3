package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/souchan25/attendance-go-api/internal/dto"
	"github.com/souchan25/attendance-go-api/internal/utils"
	"github.com/souchan25/attendance-go-api/pkg/fingerprint"
)

// DeviceController exposes the sensor operations the device endpoints need.
type DeviceController interface {
	Reinitialize(ctx context.Context) error
	Connected() bool
}

// SettingsClient talks to the capture middleware for matcher configuration
// and reader details.
type SettingsClient interface {
	GetSettings(ctx context.Context) (fingerprint.Settings, error)
	UpdateSettings(ctx context.Context, settings fingerprint.Settings) (fingerprint.Settings, error)
	Info(ctx context.Context) (fingerprint.DeviceInfo, error)
}

// DeviceHandler wires reader management HTTP routes.
type DeviceHandler struct {
	sensor    DeviceController
	client    SettingsClient
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewDeviceHandler constructs the handler.
func NewDeviceHandler(sensor DeviceController, client SettingsClient, validate *validator.Validate, logger zerolog.Logger) *DeviceHandler {
	return &DeviceHandler{
		sensor:    sensor,
		client:    client,
		validator: validate,
		logger:    logger.With().Str("component", "device_handler").Logger(),
	}
}

// Register attaches device endpoints to the router group.
func (h *DeviceHandler) Register(router fiber.Router) {
	router.Get("", h.info)
	router.Post("/reinitialize", h.reinitialize)
	router.Get("/settings", h.settings)
	router.Put("/settings", h.updateSettings)
}

func (h *DeviceHandler) info(c *fiber.Ctx) error {
	info, err := h.client.Info(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Warn().Err(err).Msg("querying reader info")
		return utils.SendSuccess(c, "device status retrieved", dto.DeviceStatusResponse{Connected: false})
	}

	return utils.SendSuccess(c, "device status retrieved", dto.DeviceStatusResponse{
		Connected:    info.Connected && h.sensor.Connected(),
		Description:  info.Description,
		SerialNumber: info.SerialNumber,
	})
}

func (h *DeviceHandler) reinitialize(c *fiber.Ctx) error {
	if err := h.sensor.Reinitialize(c.Context()); err != nil {
		if errors.Is(err, fingerprint.ErrDeviceUnavailable) {
			return utils.SendError(c, fiber.StatusServiceUnavailable, "fingerprint reader unavailable")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("reinitializing sensor")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "sensor reinitialized", fiber.Map{"connected": h.sensor.Connected()})
}

func (h *DeviceHandler) settings(c *fiber.Ctx) error {
	settings, err := h.client.GetSettings(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("reading matcher settings")
		return utils.SendError(c, fiber.StatusBadGateway, "capture middleware unreachable")
	}

	return utils.SendSuccess(c, "matcher settings retrieved", dto.NewMatcherSettingsResponse(settings))
}

func (h *DeviceHandler) updateSettings(c *fiber.Ctx) error {
	var payload dto.MatcherSettingsRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	applied, err := h.client.UpdateSettings(c.Context(), fingerprint.Settings{
		FARDivisor: payload.FARDivisor,
		MinQuality: payload.MinQuality,
	})
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("updating matcher settings")
		return utils.SendError(c, fiber.StatusBadGateway, "capture middleware unreachable")
	}

	return utils.SendSuccess(c, "matcher settings updated", dto.NewMatcherSettingsResponse(applied))
}
