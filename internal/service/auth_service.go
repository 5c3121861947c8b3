package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/souchan25/attendance-go-api/internal/dto"
	"github.com/souchan25/attendance-go-api/internal/models"
	"github.com/souchan25/attendance-go-api/internal/repository"
)

// ErrInvalidCredentials indicates a failed login attempt.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrAdminExists indicates the username is already registered.
var ErrAdminExists = errors.New("admin username already registered")

// AuthService authenticates operator accounts and issues bearer tokens.
type AuthService interface {
	Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error)
	Register(ctx context.Context, payload dto.AdminCreateRequest) (dto.AdminResponse, error)
	ListAdmins(ctx context.Context) ([]dto.AdminResponse, error)
}

type authService struct {
	admins    repository.AdminRepository
	validator *validator.Validate
	secret    []byte
	tokenTTL  time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService builds a new auth service.
func NewAuthService(admins repository.AdminRepository, validate *validator.Validate, secret string, tokenTTL time.Duration, logger zerolog.Logger) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 12 * time.Hour
	}

	return &authService{
		admins:    admins,
		validator: validate,
		secret:    []byte(secret),
		tokenTTL:  tokenTTL,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	admin, err := s.admins.GetByUsername(ctx, payload.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}

		return dto.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(payload.Password)); err != nil {
		s.logger.Warn().Str("username", payload.Username).Msg("failed login attempt")
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	expiresAt := s.now().Add(s.tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(admin.ID), 10),
		"name": admin.Name,
		"role": "admin",
		"iat":  s.now().Unix(),
		"exp":  expiresAt.Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	s.logger.Info().Uint("admin_id", admin.ID).Msg("admin logged in")

	return dto.LoginResponse{
		Token:     signed,
		ExpiresAt: expiresAt,
		Admin:     dto.NewAdminResponse(admin),
	}, nil
}

func (s *authService) Register(ctx context.Context, payload dto.AdminCreateRequest) (dto.AdminResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AdminResponse{}, err
	}

	if _, err := s.admins.GetByUsername(ctx, payload.Username); err == nil {
		return dto.AdminResponse{}, ErrAdminExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AdminResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.AdminResponse{}, err
	}

	admin := models.Admin{
		Username:     payload.Username,
		PasswordHash: string(hash),
		Name:         payload.Name,
	}

	if err := s.admins.Create(ctx, &admin); err != nil {
		return dto.AdminResponse{}, err
	}

	s.logger.Info().Uint("admin_id", admin.ID).Msg("admin registered")

	return dto.NewAdminResponse(admin), nil
}

func (s *authService) ListAdmins(ctx context.Context) ([]dto.AdminResponse, error) {
	admins, err := s.admins.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AdminResponse, 0, len(admins))
	for _, admin := range admins {
		responses = append(responses, dto.NewAdminResponse(admin))
	}

	return responses, nil
}
