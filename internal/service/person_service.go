package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/souchan25/attendance-go-api/internal/dto"
	"github.com/souchan25/attendance-go-api/internal/models"
	"github.com/souchan25/attendance-go-api/internal/repository"
)

// ErrPersonNotFound indicates the requested person does not exist.
var ErrPersonNotFound = errors.New("person not found")

// ErrDuplicateCode indicates the person code is already taken.
var ErrDuplicateCode = errors.New("person code already in use")

// PersonService exposes person management use cases.
type PersonService interface {
	List(ctx context.Context) ([]dto.PersonResponse, error)
	Get(ctx context.Context, id uint) (dto.PersonResponse, error)
	GetByCode(ctx context.Context, code string) (dto.PersonResponse, error)
	Create(ctx context.Context, payload dto.PersonCreateRequest) (dto.PersonResponse, error)
	Update(ctx context.Context, id uint, payload dto.PersonUpdateRequest) (dto.PersonResponse, error)
	Delete(ctx context.Context, id uint) error
}

type personService struct {
	repo      repository.PersonRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewPersonService builds a new person service.
func NewPersonService(repo repository.PersonRepository, validate *validator.Validate, logger zerolog.Logger) PersonService {
	return &personService{
		repo:      repo,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "person_service").Logger(),
		now:       time.Now,
	}
}

func (s *personService) List(ctx context.Context) ([]dto.PersonResponse, error) {
	people, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewPersonResponseSlice(people), nil
}

func (s *personService) Get(ctx context.Context, id uint) (dto.PersonResponse, error) {
	person, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PersonResponse{}, ErrPersonNotFound
		}

		return dto.PersonResponse{}, err
	}

	return dto.NewPersonResponse(person), nil
}

func (s *personService) GetByCode(ctx context.Context, code string) (dto.PersonResponse, error) {
	person, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PersonResponse{}, ErrPersonNotFound
		}

		return dto.PersonResponse{}, err
	}

	return dto.NewPersonResponse(person), nil
}

func (s *personService) Create(ctx context.Context, payload dto.PersonCreateRequest) (dto.PersonResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PersonResponse{}, err
	}

	if _, err := s.repo.GetByCode(ctx, payload.Code); err == nil {
		return dto.PersonResponse{}, ErrDuplicateCode
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.PersonResponse{}, err
	}

	enrolled := s.now()
	if payload.EnrolledDate != "" {
		parsed, err := time.Parse(models.RecordDateLayout, payload.EnrolledDate)
		if err == nil {
			enrolled = parsed
		}
	}

	person := models.Person{
		Code:         s.sanitizer.Sanitize(payload.Code),
		Name:         s.sanitizer.Sanitize(payload.Name),
		Email:        payload.Email,
		Program:      s.sanitizer.Sanitize(payload.Program),
		YearLevel:    payload.YearLevel,
		Section:      s.sanitizer.Sanitize(payload.Section),
		EnrolledDate: enrolled,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, &person); err != nil {
		return dto.PersonResponse{}, err
	}

	s.logger.Info().Uint("person_id", person.ID).Str("code", person.Code).Msg("person enrolled")

	return dto.NewPersonResponse(person), nil
}

func (s *personService) Update(ctx context.Context, id uint, payload dto.PersonUpdateRequest) (dto.PersonResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PersonResponse{}, err
	}

	person, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PersonResponse{}, ErrPersonNotFound
		}

		return dto.PersonResponse{}, err
	}

	if payload.Name != nil {
		person.Name = s.sanitizer.Sanitize(*payload.Name)
	}
	if payload.Email != nil {
		person.Email = *payload.Email
	}
	if payload.Program != nil {
		person.Program = s.sanitizer.Sanitize(*payload.Program)
	}
	if payload.YearLevel != nil {
		person.YearLevel = *payload.YearLevel
	}
	if payload.Section != nil {
		person.Section = s.sanitizer.Sanitize(*payload.Section)
	}
	if payload.IsActive != nil {
		person.IsActive = *payload.IsActive
	}

	if err := s.repo.Update(ctx, &person); err != nil {
		return dto.PersonResponse{}, err
	}

	return dto.NewPersonResponse(person), nil
}

func (s *personService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPersonNotFound
		}

		return err
	}

	s.logger.Info().Uint("person_id", id).Msg("person removed with templates and attendance")

	return nil
}
