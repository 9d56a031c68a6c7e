package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/config"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/entity"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/logger"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/storage/postgres"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/storage/postgres/transaction"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo  UserRepository
	txManager transaction.Manager
	logger    logger.Logger

	secret     []byte
	tokenTTL   time.Duration
	bcryptCost int
}

func NewAuthService(
	userRepo UserRepository,
	txManager transaction.Manager,
	log logger.Logger,
	cfg config.Auth,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		txManager:  txManager,
		logger:     log,
		secret:     []byte(cfg.JWTSecret),
		tokenTTL:   cfg.TokenTTL,
		bcryptCost: cfg.BcryptCost,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates an account and returns it with a fresh token. A taken
// email surfaces as entity.ErrEmailTaken.
func (a *AuthService) Register(ctx context.Context, input RegisterInput) (*entity.User, string, error) {
	const op = "service.auth.Register"

	hash, err := a.Hash(input.Password)
	if err != nil {
		return nil, "", fmt.Errorf("%s: hash password: %w", op, err)
	}

	var user *entity.User
	err = a.txManager.ExecuteInTransaction(ctx, "Register", func(tx postgres.QueryExecuter) error {
		var txErr error
		user, txErr = a.userRepo.Create(ctx, tx, &entity.User{
			ID:           uuid.New(),
			Name:         input.Name,
			Email:        input.Email,
			PasswordHash: hash,
			CreatedAt:    time.Now().UTC(),
		})
		if txErr != nil {
			return transaction.HandleError("Register", "create user", txErr)
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	token, err := a.generateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	a.logger.Ctx(ctx).Infow("account registered", "user_id", user.ID.String())
	return user, token, nil
}

// Login verifies credentials and issues a token. Both an unknown email and
// a wrong password return entity.ErrInvalidPassword, so the response does
// not reveal which one failed.
func (a *AuthService) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	const op = "service.auth.Login"

	user, err := a.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entity.ErrDataNotFound) {
			return nil, "", entity.ErrInvalidPassword
		}
		return nil, "", fmt.Errorf("%s: get user: %w", op, err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", entity.ErrInvalidPassword
	}

	token, err := a.generateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	return user, token, nil
}

// UserByID loads the account behind a verified token.
func (a *AuthService) UserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	const op = "service.auth.UserByID"

	user, err := a.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrDataNotFound) {
			return nil, entity.ErrUnauthorized
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// Hash implements PasswordHasher.
func (a *AuthService) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("service.auth.Hash: %w", err)
	}
	return string(hash), nil
}

// Token issues a bearer token for an already-verified account. Used when a
// guest order creates an account, so the customer is logged in right away.
func (a *AuthService) Token(user *entity.User) (string, error) {
	return a.generateToken(user)
}

func (a *AuthService) generateToken(user *entity.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates a bearer token and returns the account id inside.
func (a *AuthService) VerifyToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return a.secret, nil
		},
	)
	if err != nil || !token.Valid {
		return uuid.Nil, entity.ErrUnauthorized
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return uuid.Nil, entity.ErrUnauthorized
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, entity.ErrUnauthorized
	}
	return id, nil
}
