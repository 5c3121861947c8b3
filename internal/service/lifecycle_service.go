package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/souchan25/attendance-go-api/internal/dto"
	"github.com/souchan25/attendance-go-api/internal/models"
	"github.com/souchan25/attendance-go-api/internal/repository"
)

// LifecycleService owns event expiry. An active event expires once its
// check-out window has closed; an event with no time boundaries at all
// expires the day after its date. Expiry deactivates, it never deletes.
type LifecycleService interface {
	// ListActive returns the active events after sweeping out expired ones.
	ListActive(ctx context.Context) ([]dto.EventResponse, error)
	// Current returns the active events whose date matches today.
	Current(ctx context.Context) ([]dto.EventResponse, error)
	// SweepExpired deactivates every expired active event and reports how
	// many were swept.
	SweepExpired(ctx context.Context) (int, error)
	// Run sweeps on the given interval until ctx is cancelled.
	Run(ctx context.Context, interval time.Duration)
}

type lifecycleService struct {
	repo   repository.EventRepository
	logger zerolog.Logger
	now    func() time.Time
}

// NewLifecycleService builds a new lifecycle service.
func NewLifecycleService(repo repository.EventRepository, logger zerolog.Logger) LifecycleService {
	return &lifecycleService{
		repo:   repo,
		logger: logger.With().Str("component", "lifecycle_service").Logger(),
		now:    time.Now,
	}
}

func (s *lifecycleService) ListActive(ctx context.Context) ([]dto.EventResponse, error) {
	if _, err := s.SweepExpired(ctx); err != nil {
		return nil, err
	}

	events, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewEventResponseSlice(events), nil
}

func (s *lifecycleService) Current(ctx context.Context) ([]dto.EventResponse, error) {
	active, err := s.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	today := s.now().Format(dateLayout)
	current := make([]dto.EventResponse, 0, len(active))
	for _, event := range active {
		if event.EventDate == today {
			current = append(current, event)
		}
	}

	return current, nil
}

func (s *lifecycleService) SweepExpired(ctx context.Context) (int, error) {
	events, err := s.repo.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now()
	swept := 0
	for i := range events {
		if !s.expired(&events[i], now) {
			continue
		}
		if err := s.repo.Deactivate(ctx, events[i].ID); err != nil {
			return swept, err
		}
		swept++
		s.logger.Info().
			Uint("event_id", events[i].ID).
			Str("name", events[i].Name).
			Msg("event expired")
	}

	return swept, nil
}

func (s *lifecycleService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepExpired(ctx); err != nil {
				s.logger.Error().Err(err).Msg("expiry sweep failed")
			}
		}
	}
}

func (s *lifecycleService) expired(event *models.Event, now time.Time) bool {
	window := resolveWindow(event, now)

	if window.hasCheckOutEnd {
		return now.After(window.checkOutEnd)
	}
	if window.hasAny() {
		// Some boundary exists but no check-out end; the event stays open
		// until an operator deactivates it.
		return false
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	eventDay := time.Date(
		event.EventDate.Year(), event.EventDate.Month(), event.EventDate.Day(),
		0, 0, 0, 0, now.Location(),
	)
	return eventDay.Before(today)
}
