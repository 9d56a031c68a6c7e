package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/entity"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/wizard"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/logger"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/storage/postgres"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/storage/postgres/transaction"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// PlaceOrder validates an assembled submission and persists it atomically.
// user is nil for guest orders; a guest asking for an account gets the
// account created in the same transaction, so a duplicate email rolls the
// whole order back and surfaces as entity.ErrEmailTaken.
func (s *OrderService) PlaceOrder(
	ctx context.Context,
	user *entity.User,
	sub *wizard.Submission,
) (*entity.Order, *entity.User, error) {
	const op = "service.PlaceOrder"
	log := s.logger.Ctx(ctx)

	if issues := wizard.ValidateSubmission(sub, user != nil); !issues.Empty() {
		return nil, nil, issues.AsError()
	}

	if user != nil {
		// The profile owns identity fields; the form cannot override them.
		sub.Contact.Email = user.Email
		if sub.Contact.Name == "" {
			sub.Contact.Name = user.Name
		}
	}

	order := &entity.Order{
		OrderUID:  uuid.New(),
		Status:    entity.OrderStatusNew,
		Vehicle:   &sub.Vehicle,
		Parts:     partPointers(sub.Parts),
		Contact:   &sub.Contact,
		CreatedAt: time.Now().UTC(),
	}
	if user != nil {
		order.UserID = &user.ID
	}

	log.LogAttrs(ctx, logger.InfoLevel, "placing order",
		logger.String("op", op),
		logger.String("order_uid", order.OrderUID.String()),
		logger.Int("parts_count", len(order.Parts)),
		logger.Bool("authenticated", user != nil),
		logger.Bool("create_account", sub.CreateAccount),
	)

	createdUser, err := s.placeOrderWithTransaction(ctx, order, user, sub)
	if err != nil {
		if !errors.Is(err, entity.ErrEmailTaken) {
			log.LogAttrs(ctx, logger.ErrorLevel, "order placement failed",
				logger.String("op", op),
				logger.String("order_uid", order.OrderUID.String()),
				logger.Any("error", err),
			)
		}
		return nil, nil, err
	}

	s.orders.Put(order.OrderUID, order, s.orderTTL)
	s.publishOrderCreated(ctx, order, createdUser != nil)

	log.LogAttrs(ctx, logger.InfoLevel, "order placed",
		logger.String("op", op),
		logger.String("order_uid", order.OrderUID.String()),
	)

	return order, createdUser, nil
}

func (s *OrderService) placeOrderWithTransaction(
	ctx context.Context,
	order *entity.Order,
	user *entity.User,
	sub *wizard.Submission,
) (*entity.User, error) {
	var createdUser *entity.User

	err := s.txManager.ExecuteInTransaction(
		ctx,
		"PlaceOrder",
		func(tx postgres.QueryExecuter) error {
			if user == nil && sub.CreateAccount {
				var err error
				createdUser, err = s.createAccountInTx(ctx, tx, sub)
				if err != nil {
					return transaction.HandleError("PlaceOrder", "create account", err)
				}
				order.UserID = &createdUser.ID
			}

			created, err := s.orderRepo.Create(ctx, tx, order)
			if err != nil {
				return transaction.HandleError("PlaceOrder", "create order", err)
			}
			order.OrderUID = created.OrderUID
			order.CreatedAt = created.CreatedAt

			if _, err = s.vehicleRepo.Create(ctx, tx, order.OrderUID, order.Vehicle); err != nil {
				return transaction.HandleError("PlaceOrder", "create vehicle", err)
			}

			if err = s.partRepo.Create(ctx, tx, order.OrderUID, order.Parts); err != nil {
				return transaction.HandleError("PlaceOrder", "create parts", err)
			}

			if _, err = s.contactRepo.Create(ctx, tx, order.OrderUID, order.Contact); err != nil {
				return transaction.HandleError("PlaceOrder", "create contact", err)
			}

			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	return createdUser, nil
}

func (s *OrderService) createAccountInTx(
	ctx context.Context,
	tx postgres.QueryExecuter,
	sub *wizard.Submission,
) (*entity.User, error) {
	hash, err := s.hasher.Hash(sub.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return s.userRepo.Create(ctx, tx, &entity.User{
		ID:           uuid.New(),
		Name:         sub.Contact.Name,
		Email:        sub.Contact.Email,
		PasswordHash: hash,
		Phone:        sub.Contact.Phone,
		CountryCode:  sub.Contact.CountryCode,
		City:         sub.Contact.City,
		CreatedAt:    time.Now().UTC(),
	})
}

func (s *OrderService) publishOrderCreated(ctx context.Context, order *entity.Order, newAccount bool) {
	if s.notifier == nil {
		return
	}

	event := &entity.OrderCreatedEvent{
		OrderUID:   order.OrderUID,
		Email:      order.Contact.Email,
		Name:       order.Contact.Name,
		PartsCount: len(order.Parts),
		NewAccount: newAccount,
		CreatedAt:  order.CreatedAt,
	}
	if err := s.notifier.NotifyOrderCreated(ctx, event); err != nil {
		s.logger.Ctx(ctx).LogAttrs(ctx, logger.WarnLevel, "order-created notify failed",
			logger.String("order_uid", order.OrderUID.String()),
			logger.Any("error", err),
		)
	}
}

func (s *OrderService) GetOrder(ctx context.Context, orderUID uuid.UUID) (*entity.Order, error) {
	const op = "service.GetOrder"
	log := s.logger.Ctx(ctx)

	if cached, found := s.orders.Get(orderUID); found {
		return cached, nil
	}

	order, err := s.fetchOrderFromDB(ctx, orderUID)
	if err != nil {
		if !errors.Is(err, entity.ErrDataNotFound) {
			log.LogAttrs(ctx, logger.ErrorLevel, "failed to get order from database",
				logger.String("op", op),
				logger.String("order_uid", orderUID.String()),
				logger.Any("error", err),
			)
		}
		return nil, err
	}

	s.orders.Put(orderUID, order, s.orderTTL)
	return order, nil
}

// ListOrderUIDs returns the uids of the orders placed by one account,
// newest first.
func (s *OrderService) ListOrderUIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	const op = "service.ListOrderUIDs"

	uids, err := s.orderRepo.ListUIDsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return uids, nil
}

func (s *OrderService) fetchOrderFromDB(
	ctx context.Context,
	orderUID uuid.UUID,
) (*entity.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, _defaultContextTimeout)
	defer cancel()

	order, err := s.orderRepo.GetByOrderUID(ctx, orderUID)
	if err != nil {
		return nil, err
	}

	vehicle, parts, contact, err := s.fetchOrderComponents(ctx, orderUID)
	if err != nil {
		return nil, err
	}

	order.Vehicle = vehicle
	order.Parts = parts
	order.Contact = contact

	return order, nil
}

func (s *OrderService) fetchOrderComponents(
	ctx context.Context,
	orderUID uuid.UUID,
) (*entity.Vehicle, []*entity.Part, *entity.Contact, error) {
	var vehicle *entity.Vehicle
	var parts []*entity.Part
	var contact *entity.Contact
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		vehicle, err = s.vehicleRepo.GetByOrderUID(gCtx, orderUID)
		if err != nil && !errors.Is(err, entity.ErrDataNotFound) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		var err error
		parts, err = s.partRepo.GetListByOrderUID(gCtx, orderUID)
		if err != nil && !errors.Is(err, entity.ErrDataNotFound) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		var err error
		contact, err = s.contactRepo.GetByOrderUID(gCtx, orderUID)
		if err != nil && !errors.Is(err, entity.ErrDataNotFound) {
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}

	if vehicle == nil || contact == nil || len(parts) == 0 {
		return nil, nil, nil, entity.ErrDataNotFound
	}

	return vehicle, parts, contact, nil
}

func partPointers(parts []entity.Part) []*entity.Part {
	out := make([]*entity.Part, len(parts))
	for i := range parts {
		p := parts[i]
		out[i] = &p
	}
	return out
}
