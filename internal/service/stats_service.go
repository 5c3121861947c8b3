package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/souchan25/attendance-go-api/internal/dto"
	"github.com/souchan25/attendance-go-api/internal/repository"
)

// StatsService derives attendance summaries. Absences are never stored; a
// person is absent for every past event since their enrollment that has no
// presence of theirs on record.
type StatsService interface {
	Summary(ctx context.Context, personID uint) (dto.StatsResponse, error)
	History(ctx context.Context, personID uint) ([]dto.HistoryEntryResponse, error)
}

type statsService struct {
	people     repository.PersonRepository
	events     repository.EventRepository
	attendance repository.AttendanceRepository
	logger     zerolog.Logger
	now        func() time.Time
}

// NewStatsService builds a new stats service.
func NewStatsService(
	people repository.PersonRepository,
	events repository.EventRepository,
	attendance repository.AttendanceRepository,
	logger zerolog.Logger,
) StatsService {
	return &statsService{
		people:     people,
		events:     events,
		attendance: attendance,
		logger:     logger.With().Str("component", "stats_service").Logger(),
		now:        time.Now,
	}
}

func (s *statsService) Summary(ctx context.Context, personID uint) (dto.StatsResponse, error) {
	person, err := s.people.GetByID(ctx, personID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StatsResponse{}, ErrPersonNotFound
		}

		return dto.StatsResponse{}, err
	}

	since := startOfDay(person.EnrolledDate)
	today := startOfDay(s.now())

	present, err := s.attendance.CountPresentSince(ctx, person.ID, since)
	if err != nil {
		return dto.StatsResponse{}, err
	}

	pastEvents, err := s.events.CountPastBetween(ctx, since, today)
	if err != nil {
		return dto.StatsResponse{}, err
	}

	absent := pastEvents - present
	if absent < 0 {
		absent = 0
	}

	return dto.StatsResponse{
		Person:     dto.NewPersonResponse(person),
		Present:    present,
		Absent:     absent,
		PastEvents: pastEvents,
	}, nil
}

func (s *statsService) History(ctx context.Context, personID uint) ([]dto.HistoryEntryResponse, error) {
	person, err := s.people.GetByID(ctx, personID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}

		return nil, err
	}

	rows, err := s.attendance.ListByPersonSince(ctx, person.ID, startOfDay(person.EnrolledDate))
	if err != nil {
		return nil, err
	}

	return dto.NewHistoryEntries(rows), nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
