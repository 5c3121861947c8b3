package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/souchan25/attendance-go-api/internal/dto"
	"github.com/souchan25/attendance-go-api/internal/models"
	"github.com/souchan25/attendance-go-api/internal/repository"
)

// ErrEventNotFound indicates the requested event does not exist.
var ErrEventNotFound = errors.New("event not found")

// EventService exposes event management use cases. Boundary strings are
// canonicalized at write time; reads tolerate whatever older writers stored.
type EventService interface {
	List(ctx context.Context, includeDeleted bool) ([]dto.EventResponse, error)
	Get(ctx context.Context, id uint) (dto.EventResponse, error)
	Create(ctx context.Context, payload dto.EventCreateRequest) (dto.EventResponse, error)
	Update(ctx context.Context, id uint, payload dto.EventUpdateRequest) (dto.EventResponse, error)
	Deactivate(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
}

type eventService struct {
	repo      repository.EventRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewEventService builds a new event service.
func NewEventService(repo repository.EventRepository, validate *validator.Validate, logger zerolog.Logger) EventService {
	return &eventService{
		repo:      repo,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "event_service").Logger(),
		now:       time.Now,
	}
}

func (s *eventService) List(ctx context.Context, includeDeleted bool) ([]dto.EventResponse, error) {
	events, err := s.repo.List(ctx, includeDeleted)
	if err != nil {
		return nil, err
	}

	return dto.NewEventResponseSlice(events), nil
}

func (s *eventService) Get(ctx context.Context, id uint) (dto.EventResponse, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EventResponse{}, ErrEventNotFound
		}

		return dto.EventResponse{}, err
	}

	return dto.NewEventResponse(event), nil
}

func (s *eventService) Create(ctx context.Context, payload dto.EventCreateRequest) (dto.EventResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EventResponse{}, err
	}

	eventDate, err := time.Parse(dateLayout, payload.EventDate)
	if err != nil {
		return dto.EventResponse{}, fmt.Errorf("invalid event date: %w", err)
	}

	event := models.Event{
		Name:         s.sanitizer.Sanitize(payload.Name),
		Description:  s.sanitizer.Sanitize(payload.Description),
		EventDate:    eventDate,
		Period:       s.sanitizer.Sanitize(payload.Period),
		AcademicYear: s.sanitizer.Sanitize(payload.AcademicYear),
		IsActive:     true,
	}

	if event.CheckInStart, err = normalizeBoundary(payload.CheckInStart); err != nil {
		return dto.EventResponse{}, err
	}
	if event.CheckInEnd, err = normalizeBoundary(payload.CheckInEnd); err != nil {
		return dto.EventResponse{}, err
	}
	if event.CheckOutStart, err = normalizeBoundary(payload.CheckOutStart); err != nil {
		return dto.EventResponse{}, err
	}
	if event.CheckOutEnd, err = normalizeBoundary(payload.CheckOutEnd); err != nil {
		return dto.EventResponse{}, err
	}

	if err := s.repo.Create(ctx, &event); err != nil {
		return dto.EventResponse{}, err
	}

	s.logger.Info().
		Uint("event_id", event.ID).
		Str("event_date", payload.EventDate).
		Msg("event created")

	return dto.NewEventResponse(event), nil
}

func (s *eventService) Update(ctx context.Context, id uint, payload dto.EventUpdateRequest) (dto.EventResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EventResponse{}, err
	}

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EventResponse{}, ErrEventNotFound
		}

		return dto.EventResponse{}, err
	}

	if payload.Name != nil {
		event.Name = s.sanitizer.Sanitize(*payload.Name)
	}
	if payload.Description != nil {
		event.Description = s.sanitizer.Sanitize(*payload.Description)
	}
	if payload.EventDate != nil {
		eventDate, err := time.Parse(dateLayout, *payload.EventDate)
		if err != nil {
			return dto.EventResponse{}, fmt.Errorf("invalid event date: %w", err)
		}
		event.EventDate = eventDate
	}
	if payload.Period != nil {
		event.Period = s.sanitizer.Sanitize(*payload.Period)
	}
	if payload.AcademicYear != nil {
		event.AcademicYear = s.sanitizer.Sanitize(*payload.AcademicYear)
	}
	if payload.IsActive != nil {
		event.IsActive = *payload.IsActive
	}

	for _, boundary := range []struct {
		input  *string
		target **string
	}{
		{payload.CheckInStart, &event.CheckInStart},
		{payload.CheckInEnd, &event.CheckInEnd},
		{payload.CheckOutStart, &event.CheckOutStart},
		{payload.CheckOutEnd, &event.CheckOutEnd},
	} {
		if boundary.input == nil {
			continue
		}
		normalized, err := normalizeBoundary(*boundary.input)
		if err != nil {
			return dto.EventResponse{}, err
		}
		*boundary.target = normalized
	}

	if err := s.repo.Update(ctx, &event); err != nil {
		return dto.EventResponse{}, err
	}

	return dto.NewEventResponse(event), nil
}

func (s *eventService) Deactivate(ctx context.Context, id uint) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}

		return err
	}

	return nil
}

func (s *eventService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}

		return err
	}

	s.logger.Info().Uint("event_id", id).Msg("event soft deleted")

	return nil
}
