// Package service holds the business logic: the draft store for in-flight
// wizard sessions, order placement and lookup, and account auth.
package service

import (
	"context"
	"time"

	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/entity"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/cache"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/logger"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/storage/postgres"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/storage/postgres/transaction"

	"github.com/google/uuid"
)

const (
	_defaultContextTimeout = 500 * time.Millisecond
)

type (
	OrderRepository interface {
		Create(
			ctx context.Context,
			queryExecuter postgres.QueryExecuter,
			order *entity.Order,
		) (*entity.Order, error)
		GetByOrderUID(ctx context.Context, orderUID uuid.UUID) (*entity.Order, error)
		ListUIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	}

	VehicleRepository interface {
		Create(
			ctx context.Context,
			queryExecuter postgres.QueryExecuter,
			orderUID uuid.UUID,
			vehicle *entity.Vehicle,
		) (*entity.Vehicle, error)
		GetByOrderUID(ctx context.Context, orderUID uuid.UUID) (*entity.Vehicle, error)
	}

	PartRepository interface {
		Create(
			ctx context.Context,
			queryExecuter postgres.QueryExecuter,
			orderUID uuid.UUID,
			parts []*entity.Part,
		) error
		GetListByOrderUID(ctx context.Context, orderUID uuid.UUID) ([]*entity.Part, error)
	}

	ContactRepository interface {
		Create(
			ctx context.Context,
			queryExecuter postgres.QueryExecuter,
			orderUID uuid.UUID,
			contact *entity.Contact,
		) (*entity.Contact, error)
		GetByOrderUID(ctx context.Context, orderUID uuid.UUID) (*entity.Contact, error)
	}

	UserRepository interface {
		Create(
			ctx context.Context,
			queryExecuter postgres.QueryExecuter,
			user *entity.User,
		) (*entity.User, error)
		GetByEmail(ctx context.Context, email string) (*entity.User, error)
		GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	}

	// Notifier publishes order-created events. Publishing is best effort;
	// a failed publish never fails the order.
	Notifier interface {
		NotifyOrderCreated(ctx context.Context, event *entity.OrderCreatedEvent) error
	}

	// PasswordHasher hashes a plaintext password for storage. AuthService
	// implements it; OrderService needs it for the optional guest account.
	PasswordHasher interface {
		Hash(password string) (string, error)
	}

	OrderService struct {
		orderRepo   OrderRepository
		vehicleRepo VehicleRepository
		partRepo    PartRepository
		contactRepo ContactRepository
		userRepo    UserRepository
		txManager   transaction.Manager
		notifier    Notifier
		hasher      PasswordHasher
		logger      logger.Logger

		drafts   cache.Cache[uuid.UUID, *Draft]
		draftTTL time.Duration

		orders   cache.Cache[uuid.UUID, *entity.Order]
		orderTTL time.Duration
	}
)

func NewOrderService(
	orderRepo OrderRepository,
	vehicleRepo VehicleRepository,
	partRepo PartRepository,
	contactRepo ContactRepository,
	userRepo UserRepository,
	txManager transaction.Manager,
	notifier Notifier,
	hasher PasswordHasher,
	log logger.Logger,
	drafts cache.Cache[uuid.UUID, *Draft],
	draftTTL time.Duration,
	orders cache.Cache[uuid.UUID, *entity.Order],
	orderTTL time.Duration,
) *OrderService {
	drafts.SetOnEvicted(func(key uuid.UUID, _ *Draft) {
		log.Infow("draft evicted", "draft_id", key.String())
	})

	return &OrderService{
		orderRepo:   orderRepo,
		vehicleRepo: vehicleRepo,
		partRepo:    partRepo,
		contactRepo: contactRepo,
		userRepo:    userRepo,
		txManager:   txManager,
		notifier:    notifier,
		hasher:      hasher,
		logger:      log,
		drafts:      drafts,
		draftTTL:    draftTTL,
		orders:      orders,
		orderTTL:    orderTTL,
	}
}
