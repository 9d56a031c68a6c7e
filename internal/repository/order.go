package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/entity"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/storage/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

type OrderRepository struct {
	db *postgres.Postgres
}

func NewOrderRepository(db *postgres.Postgres) *OrderRepository {
	return &OrderRepository{db}
}

func (r *OrderRepository) Create(
	ctx context.Context,
	queryExecuter postgres.QueryExecuter,
	order *entity.Order,
) (*entity.Order, error) {
	const op = "repository.order.Create"

	query := r.db.Builder.Insert("orders").
		Columns("order_uid", "user_id", "status", "created_at").
		Values(order.OrderUID, order.UserID, order.Status, order.CreatedAt).
		Suffix("RETURNING order_uid, user_id, status, created_at")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	result := &entity.Order{}
	err = queryExecuter.QueryRow(ctx, sql, args...).Scan(
		&result.OrderUID,
		&result.UserID,
		&result.Status,
		&result.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, entity.ErrConflictingData
		}
		return nil, fmt.Errorf("%s: query row: %w", op, err)
	}

	return result, nil
}

func (r *OrderRepository) GetByOrderUID(
	ctx context.Context,
	orderUID uuid.UUID,
) (*entity.Order, error) {
	const op = "repository.order.GetByOrderUID"

	query := r.db.Builder.Select("order_uid", "user_id", "status", "created_at").
		From("orders").
		Where(squirrel.Eq{"order_uid": orderUID}).
		Limit(1)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	result := &entity.Order{}
	err = r.db.Pool.QueryRow(ctx, sql, args...).Scan(
		&result.OrderUID,
		&result.UserID,
		&result.Status,
		&result.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrDataNotFound
		}
		return nil, fmt.Errorf("%s: query row: %w", op, err)
	}

	return result, nil
}

// ListUIDsByUser returns the order uids belonging to one account, newest
// first.
func (r *OrderRepository) ListUIDsByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]uuid.UUID, error) {
	const op = "repository.order.ListUIDsByUser"

	query := r.db.Builder.Select("order_uid").
		From("orders").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}
	defer rows.Close()

	var uids []uuid.UUID
	for rows.Next() {
		var uid uuid.UUID
		if err = rows.Scan(&uid); err != nil {
			return nil, fmt.Errorf("%s: row scan: %w", op, err)
		}
		uids = append(uids, uid)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("%s: rows final error: %w", op, rows.Err())
	}

	return uids, nil
}
