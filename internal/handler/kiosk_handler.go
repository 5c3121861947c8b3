package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/souchan25/attendance-go-api/internal/dto"
	"github.com/souchan25/attendance-go-api/internal/observability"
	"github.com/souchan25/attendance-go-api/internal/service"
	"github.com/souchan25/attendance-go-api/internal/utils"
	"github.com/souchan25/attendance-go-api/pkg/fingerprint"
)

// KioskHandler drives the walk-up scan flow: capture a fingerprint, identify
// the person against the gallery, then record against today's event.
type KioskHandler struct {
	capturer  fingerprint.Capturer
	identify  service.IdentifyService
	recorder  service.RecorderService
	lifecycle service.LifecycleService
	logger    zerolog.Logger
}

// NewKioskHandler constructs the handler.
func NewKioskHandler(
	capturer fingerprint.Capturer,
	identify service.IdentifyService,
	recorder service.RecorderService,
	lifecycle service.LifecycleService,
	logger zerolog.Logger,
) *KioskHandler {
	return &KioskHandler{
		capturer:  capturer,
		identify:  identify,
		recorder:  recorder,
		lifecycle: lifecycle,
		logger:    logger.With().Str("component", "kiosk_handler").Logger(),
	}
}

// Register attaches kiosk endpoints to the router group.
func (h *KioskHandler) Register(router fiber.Router) {
	router.Post("/check-in", h.checkIn)
	router.Post("/check-out", h.checkOut)
	router.Get("/events", h.events)
}

func (h *KioskHandler) checkIn(c *fiber.Ctx) error {
	return h.scan(c, "check_in", h.recorder.CheckIn)
}

func (h *KioskHandler) checkOut(c *fiber.Ctx) error {
	return h.scan(c, "check_out", h.recorder.CheckOut)
}

func (h *KioskHandler) events(c *fiber.Ctx) error {
	events, err := h.lifecycle.Current(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("listing current events")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "current events retrieved", events)
}

type recordFunc func(ctx context.Context, personID, eventID uint) (dto.RecordResult, error)

func (h *KioskHandler) scan(c *fiber.Ctx, mode string, record recordFunc) error {
	ctx := c.Context()
	logger := requestLogger(h.logger, c)

	current, err := h.lifecycle.Current(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("resolving current events")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
	if len(current) == 0 {
		return h.outcome(c, mode, dto.RecordResult{
			Outcome: dto.OutcomeNoEvent,
			Message: "No active event is scheduled for today.",
		})
	}
	event := current[0]

	sample, err := h.capturer.Capture(ctx)
	if err != nil {
		return h.captureError(c, mode, err)
	}

	person, err := h.identify.Identify(ctx, sample.Template)
	if err != nil {
		if errors.Is(err, service.ErrNoMatch) {
			return h.outcome(c, mode, dto.RecordResult{
				Outcome: dto.OutcomeNoMatch,
				Message: "Fingerprint not recognized. Please try again or see the operator.",
			})
		}
		logger.Error().Err(err).Msg("identification failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	result, err := record(ctx, person.ID, event.ID)
	if err != nil {
		logger.Error().Err(err).Msg("recording scan")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return h.outcome(c, mode, result)
}

func (h *KioskHandler) outcome(c *fiber.Ctx, mode string, result dto.RecordResult) error {
	observability.ScansTotal().WithLabelValues(mode, result.Outcome).Inc()
	return utils.SendSuccess(c, result.Message, result)
}

func (h *KioskHandler) captureError(c *fiber.Ctx, mode string, err error) error {
	observability.ScansTotal().WithLabelValues(mode, "capture_error").Inc()

	switch {
	case errors.Is(err, fingerprint.ErrCaptureTimeout):
		return utils.SendError(c, fiber.StatusRequestTimeout, "no finger presented in time")
	case errors.Is(err, fingerprint.ErrCaptureAborted):
		return utils.SendError(c, fiber.StatusConflict, "capture was interrupted")
	case errors.Is(err, fingerprint.ErrDeviceUnavailable):
		return utils.SendError(c, fiber.StatusServiceUnavailable, "fingerprint reader unavailable")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("capture failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
