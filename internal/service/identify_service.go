package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/souchan25/attendance-go-api/internal/dto"
	"github.com/souchan25/attendance-go-api/internal/observability"
	"github.com/souchan25/attendance-go-api/internal/repository"
	"github.com/souchan25/attendance-go-api/pkg/fingerprint"
)

// ErrNoMatch indicates the probe matched nobody in the gallery.
var ErrNoMatch = errors.New("no matching person")

// IdentifyService resolves a captured template against the enrolled gallery.
// The scan walks persons in ascending ID order and stops at the first
// matching template, so results are deterministic for a given gallery.
type IdentifyService interface {
	Identify(ctx context.Context, probe string) (dto.PersonResponse, error)
}

type identifyService struct {
	templates repository.TemplateRepository
	matcher   fingerprint.Matcher
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewIdentifyService builds a new identification service.
func NewIdentifyService(templates repository.TemplateRepository, matcher fingerprint.Matcher, logger zerolog.Logger) IdentifyService {
	return &identifyService{
		templates: templates,
		matcher:   matcher,
		logger:    logger.With().Str("component", "identify_service").Logger(),
		tracer:    otel.Tracer("github.com/souchan25/attendance-go-api/internal/service/identify"),
	}
}

func (s *identifyService) Identify(ctx context.Context, probe string) (dto.PersonResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "identify.scan")
	defer span.End()

	start := time.Now()
	defer func() { observability.IdentifyDuration().Observe(time.Since(start).Seconds()) }()

	gallery, err := s.templates.Gallery(spanCtx)
	if err != nil {
		span.RecordError(err)
		return dto.PersonResponse{}, err
	}
	span.SetAttributes(attribute.Int("identify.gallery_size", len(gallery)))

	comparisons := 0
	defer func() { observability.IdentifyComparisons().Observe(float64(comparisons)) }()

	for _, entry := range gallery {
		for _, template := range entry.Templates {
			comparisons++

			matched, err := s.matcher.Match(spanCtx, probe, template.Payload)
			if err != nil {
				// A bad stored template must not abort the whole scan.
				s.logger.Warn().Err(err).
					Uint("person_id", entry.Person.ID).
					Int("sample", template.SampleNumber).
					Msg("comparison failed, skipping template")
				continue
			}
			if !matched {
				continue
			}

			span.SetAttributes(attribute.Int("identify.comparisons", comparisons))
			observability.IdentifyOutcomes().WithLabelValues("match").Inc()
			s.logger.Info().
				Uint("person_id", entry.Person.ID).
				Int("comparisons", comparisons).
				Msg("person identified")

			return dto.NewPersonResponse(entry.Person), nil
		}
	}

	observability.IdentifyOutcomes().WithLabelValues("no_match").Inc()
	s.logger.Info().Int("comparisons", comparisons).Msg("probe matched nobody")

	return dto.PersonResponse{}, ErrNoMatch
}
