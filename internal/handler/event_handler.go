package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/souchan25/attendance-go-api/internal/dto"
	"github.com/souchan25/attendance-go-api/internal/service"
	"github.com/souchan25/attendance-go-api/internal/utils"
)

// EventHandler wires event management HTTP routes.
type EventHandler struct {
	events    service.EventService
	lifecycle service.LifecycleService
	roster    service.RosterService
	logger    zerolog.Logger
}

// NewEventHandler constructs the handler.
func NewEventHandler(events service.EventService, lifecycle service.LifecycleService, roster service.RosterService, logger zerolog.Logger) *EventHandler {
	return &EventHandler{
		events:    events,
		lifecycle: lifecycle,
		roster:    roster,
		logger:    logger.With().Str("component", "event_handler").Logger(),
	}
}

// Register attaches event endpoints to the router group.
func (h *EventHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/active", h.active)
	router.Get("/current", h.current)
	router.Get("/:id", h.get)
	router.Get("/:id/roster", h.rosterFor)
	router.Post("", h.create)
	router.Patch("/:id", h.update)
	router.Post("/:id/deactivate", h.deactivate)
	router.Delete("/:id", h.delete)
}

func (h *EventHandler) list(c *fiber.Ctx) error {
	includeDeleted := c.QueryBool("include_deleted", false)

	events, err := h.events.List(c.Context(), includeDeleted)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "events retrieved", events)
}

func (h *EventHandler) active(c *fiber.Ctx) error {
	events, err := h.lifecycle.ListActive(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "active events retrieved", events)
}

func (h *EventHandler) current(c *fiber.Ctx) error {
	events, err := h.lifecycle.Current(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "current events retrieved", events)
}

func (h *EventHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	event, err := h.events.Get(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "event retrieved", event)
}

func (h *EventHandler) rosterFor(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	roster, err := h.roster.Roster(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "roster retrieved", roster)
}

func (h *EventHandler) create(c *fiber.Ctx) error {
	var payload dto.EventCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	event, err := h.events.Create(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "event created", event)
}

func (h *EventHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.EventUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	event, err := h.events.Update(c.Context(), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "event updated", event)
}

func (h *EventHandler) deactivate(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.events.Deactivate(c.Context(), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "event deactivated", fiber.Map{"id": id})
}

func (h *EventHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.events.Delete(c.Context(), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "event deleted", fiber.Map{"id": id})
}

func (h *EventHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "event not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	case isBoundaryError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

func isBoundaryError(err error) bool {
	if err == nil {
		return false
	}
	message := err.Error()
	return strings.Contains(message, "invalid time boundary") || strings.Contains(message, "invalid event date")
}
