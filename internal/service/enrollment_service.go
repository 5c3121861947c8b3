package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/souchan25/attendance-go-api/internal/dto"
	"github.com/souchan25/attendance-go-api/internal/models"
	"github.com/souchan25/attendance-go-api/internal/repository"
	"github.com/souchan25/attendance-go-api/pkg/fingerprint"
)

// ErrLowQuality indicates the captured sample fell below the enrollment
// quality floor.
var ErrLowQuality = errors.New("sample quality too low")

// EnrollmentService captures fingerprint samples into a person's template
// slots. Re-capturing a slot replaces the stored template.
type EnrollmentService interface {
	Enroll(ctx context.Context, personID uint, payload dto.EnrollRequest) (dto.TemplateResponse, error)
	Templates(ctx context.Context, personID uint) ([]dto.TemplateResponse, error)
}

type enrollmentService struct {
	people     repository.PersonRepository
	templates  repository.TemplateRepository
	capturer   fingerprint.Capturer
	validator  *validator.Validate
	minQuality int
	logger     zerolog.Logger
	now        func() time.Time
}

// NewEnrollmentService builds a new enrollment service.
func NewEnrollmentService(
	people repository.PersonRepository,
	templates repository.TemplateRepository,
	capturer fingerprint.Capturer,
	validate *validator.Validate,
	minQuality int,
	logger zerolog.Logger,
) EnrollmentService {
	return &enrollmentService{
		people:     people,
		templates:  templates,
		capturer:   capturer,
		validator:  validate,
		minQuality: minQuality,
		logger:     logger.With().Str("component", "enrollment_service").Logger(),
		now:        time.Now,
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, personID uint, payload dto.EnrollRequest) (dto.TemplateResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TemplateResponse{}, err
	}
	if payload.SampleNumber < 1 || payload.SampleNumber > models.MaxTemplateSlots {
		return dto.TemplateResponse{}, fmt.Errorf("sample number must be between 1 and %d", models.MaxTemplateSlots)
	}

	person, err := s.people.GetByID(ctx, personID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TemplateResponse{}, ErrPersonNotFound
		}

		return dto.TemplateResponse{}, err
	}

	sample, err := s.capturer.Capture(ctx)
	if err != nil {
		return dto.TemplateResponse{}, err
	}
	if s.minQuality > 0 && sample.Quality < s.minQuality {
		return dto.TemplateResponse{}, fmt.Errorf("%w: got %d, need %d", ErrLowQuality, sample.Quality, s.minQuality)
	}

	template := models.Template{
		PersonID:     person.ID,
		SampleNumber: payload.SampleNumber,
		Payload:      sample.Template,
		Quality:      sample.Quality,
		CapturedAt:   s.now(),
	}

	if err := s.templates.Upsert(ctx, &template); err != nil {
		return dto.TemplateResponse{}, err
	}

	s.logger.Info().
		Uint("person_id", person.ID).
		Int("sample", template.SampleNumber).
		Int("quality", template.Quality).
		Msg("template enrolled")

	return dto.NewTemplateResponse(template), nil
}

func (s *enrollmentService) Templates(ctx context.Context, personID uint) ([]dto.TemplateResponse, error) {
	person, err := s.people.GetByID(ctx, personID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}

		return nil, err
	}

	templates, err := s.templates.ListByPerson(ctx, person.ID)
	if err != nil {
		return nil, err
	}

	return dto.NewTemplateResponseSlice(templates), nil
}
