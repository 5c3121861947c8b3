package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/souchan25/attendance-go-api/internal/dto"
	"github.com/souchan25/attendance-go-api/internal/observability"
	"github.com/souchan25/attendance-go-api/internal/repository"
)

// RosterService produces per-event attendance rosters. Rosters are cached
// briefly in Redis since display boards poll them; every recorded scan
// invalidates the event's entry.
type RosterService interface {
	RosterInvalidator
	Roster(ctx context.Context, eventID uint) (dto.RosterResponse, error)
}

type rosterService struct {
	events     repository.EventRepository
	people     repository.PersonRepository
	attendance repository.AttendanceRepository
	redis      *redis.Client
	ttl        time.Duration
	logger     zerolog.Logger
}

// NewRosterService builds a new roster service. A nil Redis client disables
// caching.
func NewRosterService(
	events repository.EventRepository,
	people repository.PersonRepository,
	attendance repository.AttendanceRepository,
	redisClient *redis.Client,
	ttl time.Duration,
	logger zerolog.Logger,
) RosterService {
	if ttl <= 0 {
		ttl = 15 * time.Second
	}

	return &rosterService{
		events:     events,
		people:     people,
		attendance: attendance,
		redis:      redisClient,
		ttl:        ttl,
		logger:     logger.With().Str("component", "roster_service").Logger(),
	}
}

func rosterCacheKey(eventID uint) string {
	return fmt.Sprintf("attendance:roster:%d", eventID)
}

func (s *rosterService) Roster(ctx context.Context, eventID uint) (dto.RosterResponse, error) {
	if cached, ok := s.fromCache(ctx, eventID); ok {
		return cached, nil
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RosterResponse{}, ErrEventNotFound
		}

		return dto.RosterResponse{}, err
	}

	rows, err := s.attendance.ListByEvent(ctx, event.ID)
	if err != nil {
		return dto.RosterResponse{}, err
	}

	people, err := s.people.List(ctx)
	if err != nil {
		return dto.RosterResponse{}, err
	}

	enrolled := 0
	for _, person := range people {
		if person.IsActive {
			enrolled++
		}
	}

	checkedOut := 0
	for _, row := range rows {
		if row.Record.CheckOut != nil {
			checkedOut++
		}
	}

	response := dto.RosterResponse{
		Event:      dto.NewEventResponse(event),
		Entries:    dto.NewRosterEntries(rows),
		Recorded:   len(rows),
		Enrolled:   enrolled,
		CheckedOut: checkedOut,
	}

	s.toCache(ctx, eventID, response)

	return response, nil
}

func (s *rosterService) InvalidateRoster(ctx context.Context, eventID uint) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, rosterCacheKey(eventID)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("event_id", eventID).Msg("dropping cached roster")
	}
}

func (s *rosterService) fromCache(ctx context.Context, eventID uint) (dto.RosterResponse, bool) {
	if s.redis == nil {
		return dto.RosterResponse{}, false
	}

	raw, err := s.redis.Get(ctx, rosterCacheKey(eventID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("reading cached roster")
		}
		observability.RosterCacheLookups().WithLabelValues("miss").Inc()
		return dto.RosterResponse{}, false
	}

	var response dto.RosterResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		observability.RosterCacheLookups().WithLabelValues("miss").Inc()
		return dto.RosterResponse{}, false
	}

	observability.RosterCacheLookups().WithLabelValues("hit").Inc()
	return response, true
}

func (s *rosterService) toCache(ctx context.Context, eventID uint, response dto.RosterResponse) {
	if s.redis == nil {
		return
	}

	payload, err := json.Marshal(response)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, rosterCacheKey(eventID), payload, s.ttl).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("caching roster")
	}
}
