package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/config"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/entity"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/service"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/logger"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture(t *testing.T) (*service.AuthService, *fakeUserRepo) {
	t.Helper()

	userRepo := newFakeUserRepo()
	svc := service.NewAuthService(
		userRepo,
		fakeTxManager{},
		logger.NewNop(),
		config.Auth{
			JWTSecret:  "0123456789abcdef",
			TokenTTL:   time.Hour,
			BcryptCost: bcrypt.MinCost,
		},
	)
	return svc, userRepo
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	email := gofakeit.Email()
	user, token, err := svc.Register(ctx, service.RegisterInput{
		Name:     gofakeit.Name(),
		Email:    email,
		Password: "secret1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEqual(t, uuid.Nil, user.ID)
	require.NotEqual(t, "secret1", user.PasswordHash, "password must be stored hashed")

	loggedIn, loginToken, err := svc.Login(ctx, email, "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, loginToken)
	require.Equal(t, user.ID, loggedIn.ID)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	email := gofakeit.Email()
	input := service.RegisterInput{Name: gofakeit.Name(), Email: email, Password: "secret1"}

	_, _, err := svc.Register(ctx, input)
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, input)
	require.ErrorIs(t, err, entity.ErrEmailTaken)
}

func TestAuthService_LoginFailures(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	email := gofakeit.Email()
	_, _, err := svc.Register(ctx, service.RegisterInput{
		Name:     gofakeit.Name(),
		Email:    email,
		Password: "secret1",
	})
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, email, "wrong")
		require.ErrorIs(t, err, entity.ErrInvalidPassword)
	})

	t.Run("unknown email reports the same error", func(t *testing.T) {
		_, _, err := svc.Login(ctx, gofakeit.Email(), "secret1")
		require.ErrorIs(t, err, entity.ErrInvalidPassword)
	})
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, service.RegisterInput{
		Name:     gofakeit.Name(),
		Email:    gofakeit.Email(),
		Password: "secret1",
	})
	require.NoError(t, err)

	id, err := svc.VerifyToken(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, id)

	resolved, err := svc.UserByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, user.Email, resolved.Email)
}

func TestAuthService_VerifyTokenRejectsGarbage(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.VerifyToken("not-a-token")
	require.ErrorIs(t, err, entity.ErrUnauthorized)

	other := service.NewAuthService(
		newFakeUserRepo(),
		fakeTxManager{},
		logger.NewNop(),
		config.Auth{JWTSecret: "another-secret-0123", TokenTTL: time.Hour, BcryptCost: bcrypt.MinCost},
	)
	user, token, err := other.Register(context.Background(), service.RegisterInput{
		Name:     gofakeit.Name(),
		Email:    gofakeit.Email(),
		Password: "secret1",
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, user.ID)

	// Token signed with a different secret must not verify.
	_, err = svc.VerifyToken(token)
	require.ErrorIs(t, err, entity.ErrUnauthorized)
}
