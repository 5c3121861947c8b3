package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/souchan25/attendance-go-api/internal/dto"
	"github.com/souchan25/attendance-go-api/internal/service"
	"github.com/souchan25/attendance-go-api/internal/utils"
	"github.com/souchan25/attendance-go-api/pkg/fingerprint"
)

// PersonHandler wires person management HTTP routes.
type PersonHandler struct {
	people     service.PersonService
	enrollment service.EnrollmentService
	stats      service.StatsService
	logger     zerolog.Logger
}

// NewPersonHandler constructs the handler.
func NewPersonHandler(people service.PersonService, enrollment service.EnrollmentService, stats service.StatsService, logger zerolog.Logger) *PersonHandler {
	return &PersonHandler{
		people:     people,
		enrollment: enrollment,
		stats:      stats,
		logger:     logger.With().Str("component", "person_handler").Logger(),
	}
}

// Register attaches person endpoints to the router group.
func (h *PersonHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", h.create)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
	router.Get("/:id/templates", h.templates)
	router.Post("/:id/templates", h.enroll)
	router.Get("/:id/stats", h.summary)
	router.Get("/:id/history", h.history)
}

func (h *PersonHandler) list(c *fiber.Ctx) error {
	people, err := h.people.List(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "people retrieved", people)
}

func (h *PersonHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	person, err := h.people.Get(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "person retrieved", person)
}

func (h *PersonHandler) create(c *fiber.Ctx) error {
	var payload dto.PersonCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	person, err := h.people.Create(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "person enrolled", person)
}

func (h *PersonHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.PersonUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	person, err := h.people.Update(c.Context(), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "person updated", person)
}

func (h *PersonHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.people.Delete(c.Context(), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "person deleted", fiber.Map{"id": id})
}

func (h *PersonHandler) templates(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	templates, err := h.enrollment.Templates(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "templates retrieved", templates)
}

func (h *PersonHandler) enroll(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.EnrollRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	template, err := h.enrollment.Enroll(c.Context(), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "template enrolled", template)
}

func (h *PersonHandler) summary(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	summary, err := h.stats.Summary(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attendance summary retrieved", summary)
}

func (h *PersonHandler) history(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	history, err := h.stats.History(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attendance history retrieved", history)
}

func (h *PersonHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrPersonNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "person not found")
	case errors.Is(err, service.ErrDuplicateCode):
		return utils.SendError(c, fiber.StatusConflict, "person code already in use")
	case errors.Is(err, service.ErrLowQuality):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, fingerprint.ErrCaptureTimeout):
		return utils.SendError(c, fiber.StatusRequestTimeout, "no finger presented in time")
	case errors.Is(err, fingerprint.ErrCaptureAborted):
		return utils.SendError(c, fiber.StatusConflict, "capture was interrupted")
	case errors.Is(err, fingerprint.ErrDeviceUnavailable):
		return utils.SendError(c, fiber.StatusServiceUnavailable, "fingerprint reader unavailable")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
