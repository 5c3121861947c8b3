package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/souchan25/attendance-go-api/internal/dto"
	"github.com/souchan25/attendance-go-api/internal/models"
	"github.com/souchan25/attendance-go-api/internal/repository"
)

// RosterInvalidator drops any cached roster for an event after a write.
type RosterInvalidator interface {
	InvalidateRoster(ctx context.Context, eventID uint)
}

// RecorderService applies check-in and check-out scans against an event's
// time window. Recognizable outcomes (too early, late) are values on the
// result; only storage failures surface as errors. Repeat scans the same day
// overwrite the earlier timestamp, never a second row.
type RecorderService interface {
	CheckIn(ctx context.Context, personID, eventID uint) (dto.RecordResult, error)
	CheckOut(ctx context.Context, personID, eventID uint) (dto.RecordResult, error)
}

type recorderService struct {
	people      repository.PersonRepository
	events      repository.EventRepository
	attendance  repository.AttendanceRepository
	notifier    ScanNotifier
	invalidator RosterInvalidator
	logger      zerolog.Logger
	now         func() time.Time
}

// NewRecorderService builds a new recorder. The invalidator may be nil when
// roster caching is disabled.
func NewRecorderService(
	people repository.PersonRepository,
	events repository.EventRepository,
	attendance repository.AttendanceRepository,
	notifier ScanNotifier,
	invalidator RosterInvalidator,
	logger zerolog.Logger,
) RecorderService {
	return &recorderService{
		people:      people,
		events:      events,
		attendance:  attendance,
		notifier:    notifier,
		invalidator: invalidator,
		logger:      logger.With().Str("component", "recorder_service").Logger(),
		now:         time.Now,
	}
}

func (s *recorderService) CheckIn(ctx context.Context, personID, eventID uint) (dto.RecordResult, error) {
	person, event, err := s.load(ctx, personID, eventID)
	if err != nil {
		return dto.RecordResult{}, err
	}

	now := s.now()
	window := resolveWindow(&event, now)

	if window.hasCheckInStart && now.Before(window.checkInStart) {
		return s.finish(ctx, "check_in", event.ID, dto.RecordResult{
			Outcome: dto.OutcomeTooEarly,
			Message: fmt.Sprintf("Check-in opens at %s.", window.checkInStart.Format(BoundaryLayout)),
			Person:  personRef(person),
			Event:   eventRef(event),
		}), nil
	}

	status := models.StatusPresent
	if window.hasCheckInEnd && now.After(window.checkInEnd) {
		status = models.StatusLate
	}

	recordDate := now.Format(models.RecordDateLayout)

	// Update first, insert when no row exists yet. A repeat scan overwrites
	// the earlier check-in, and the check-out-first path leaves a row without
	// a check-in that the update fills in.
	affected, err := s.attendance.UpdateCheckIn(ctx, person.ID, event.ID, recordDate, now, status)
	if err != nil {
		return dto.RecordResult{}, err
	}
	if affected == 0 {
		if err := s.attendance.InsertCheckIn(ctx, person.ID, event.ID, recordDate, now, status); err != nil {
			return dto.RecordResult{}, err
		}
	}

	outcome := dto.OutcomeRecorded
	message := fmt.Sprintf("Welcome, %s.", person.Name)
	if status == models.StatusLate {
		outcome = dto.OutcomeLate
		message = fmt.Sprintf("Welcome, %s. You are marked late.", person.Name)
	}

	s.logger.Info().
		Uint("person_id", person.ID).
		Uint("event_id", event.ID).
		Str("status", status).
		Msg("check-in recorded")

	return s.finish(ctx, "check_in", event.ID, dto.RecordResult{
		Outcome:    outcome,
		Message:    message,
		Person:     personRef(person),
		Event:      eventRef(event),
		Status:     status,
		RecordedAt: &now,
	}), nil
}

func (s *recorderService) CheckOut(ctx context.Context, personID, eventID uint) (dto.RecordResult, error) {
	person, event, err := s.load(ctx, personID, eventID)
	if err != nil {
		return dto.RecordResult{}, err
	}

	now := s.now()
	window := resolveWindow(&event, now)

	if window.hasCheckOutStart && now.Before(window.checkOutStart) {
		return s.finish(ctx, "check_out", event.ID, dto.RecordResult{
			Outcome: dto.OutcomeTooEarly,
			Message: fmt.Sprintf("Check-out opens at %s.", window.checkOutStart.Format(BoundaryLayout)),
			Person:  personRef(person),
			Event:   eventRef(event),
		}), nil
	}

	// A scan past the check-out deadline still records, but the day is
	// marked late regardless of how check-in went.
	forceLate := window.hasCheckOutEnd && now.After(window.checkOutEnd)

	recordDate := now.Format(models.RecordDateLayout)

	existing, err := s.attendance.GetForDay(ctx, person.ID, event.ID, recordDate)
	hadExisting := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.RecordResult{}, err
	}

	affected, err := s.attendance.UpdateCheckOut(ctx, person.ID, event.ID, recordDate, now, forceLate)
	if err != nil {
		return dto.RecordResult{}, err
	}

	status := models.StatusPresent
	if forceLate {
		status = models.StatusLate
	} else if hadExisting && existing.Status != "" {
		status = existing.Status
	}

	if affected == 0 {
		if err := s.attendance.InsertCheckOut(ctx, person.ID, event.ID, recordDate, now, status); err != nil {
			return dto.RecordResult{}, err
		}
	}

	outcome := dto.OutcomeRecorded
	message := fmt.Sprintf("Goodbye, %s.", person.Name)
	if forceLate {
		outcome = dto.OutcomeLate
		message = fmt.Sprintf("Goodbye, %s. Late check-out recorded.", person.Name)
	}

	s.logger.Info().
		Uint("person_id", person.ID).
		Uint("event_id", event.ID).
		Bool("late", forceLate).
		Msg("check-out recorded")

	return s.finish(ctx, "check_out", event.ID, dto.RecordResult{
		Outcome:    outcome,
		Message:    message,
		Person:     personRef(person),
		Event:      eventRef(event),
		Status:     status,
		RecordedAt: &now,
	}), nil
}

func (s *recorderService) load(ctx context.Context, personID, eventID uint) (models.Person, models.Event, error) {
	person, err := s.people.GetByID(ctx, personID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Person{}, models.Event{}, ErrPersonNotFound
		}
		return models.Person{}, models.Event{}, err
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Person{}, models.Event{}, ErrEventNotFound
		}
		return models.Person{}, models.Event{}, err
	}

	return person, event, nil
}

func (s *recorderService) finish(ctx context.Context, mode string, eventID uint, result dto.RecordResult) dto.RecordResult {
	if s.notifier != nil {
		s.notifier.PublishScan(ctx, mode, result)
	}
	if s.invalidator != nil && result.RecordedAt != nil {
		s.invalidator.InvalidateRoster(ctx, eventID)
	}

	return result
}

func personRef(person models.Person) *dto.PersonResponse {
	response := dto.NewPersonResponse(person)
	return &response
}

func eventRef(event models.Event) *dto.EventResponse {
	response := dto.NewEventResponse(event)
	return &response
}
