package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/souchan25/attendance-go-api/internal/dto"
)

const testSecret = "test-secret-0123456789"

func newAuthFixture() (*memoryAdminRepo, AuthService) {
	admins := newMemoryAdminRepo()
	return admins, NewAuthService(admins, testValidator(), testSecret, time.Hour, testLogger())
}

func TestRegisterThenLogin(t *testing.T) {
	_, svc := newAuthFixture()

	admin, err := svc.Register(context.Background(), dto.AdminCreateRequest{
		Username: "operator",
		Password: "s3cret-pass",
		Name:     "Front Desk",
	})
	require.NoError(t, err)
	require.Equal(t, "operator", admin.Username)

	login, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "operator",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	require.NotEmpty(t, login.Token)
	require.Equal(t, admin.ID, login.Admin.ID)

	token, err := jwt.Parse(login.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims := token.Claims.(jwt.MapClaims)
	require.Equal(t, "admin", claims["role"])
}

func TestLoginWrongPasswordFails(t *testing.T) {
	_, svc := newAuthFixture()

	_, err := svc.Register(context.Background(), dto.AdminCreateRequest{
		Username: "operator",
		Password: "s3cret-pass",
		Name:     "Front Desk",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Username: "operator",
		Password: "wrong-pass-1",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUserFails(t *testing.T) {
	_, svc := newAuthFixture()

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "ghost",
		Password: "whatever-12",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicateUsernameFails(t *testing.T) {
	_, svc := newAuthFixture()

	_, err := svc.Register(context.Background(), dto.AdminCreateRequest{
		Username: "operator",
		Password: "s3cret-pass",
		Name:     "Front Desk",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), dto.AdminCreateRequest{
		Username: "operator",
		Password: "other-pass-1",
		Name:     "Back Office",
	})
	require.ErrorIs(t, err, ErrAdminExists)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	_, svc := newAuthFixture()

	_, err := svc.Register(context.Background(), dto.AdminCreateRequest{
		Username: "operator",
		Password: "short",
		Name:     "Front Desk",
	})
	require.Error(t, err)
}
