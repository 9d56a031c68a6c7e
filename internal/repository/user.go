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

type UserRepository struct {
	db *postgres.Postgres
}

func NewUserRepository(db *postgres.Postgres) *UserRepository {
	return &UserRepository{db}
}

// Create inserts a new account. A unique violation on the email column is
// reported as entity.ErrEmailTaken.
func (r *UserRepository) Create(
	ctx context.Context,
	queryExecuter postgres.QueryExecuter,
	user *entity.User,
) (*entity.User, error) {
	const op = "repository.user.Create"

	query := r.db.Builder.Insert("users").
		Columns("id", "name", "email", "password_hash", "phone", "country_code", "city", "created_at").
		Values(
			user.ID,
			user.Name,
			user.Email,
			user.PasswordHash,
			nullIfEmpty(user.Phone),
			nullIfEmpty(user.CountryCode),
			nullIfEmpty(user.City),
			user.CreatedAt,
		).
		Suffix("RETURNING id, name, email, password_hash, created_at")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	result := &entity.User{
		Phone:       user.Phone,
		CountryCode: user.CountryCode,
		City:        user.City,
	}
	err = queryExecuter.QueryRow(ctx, sql, args...).Scan(
		&result.ID,
		&result.Name,
		&result.Email,
		&result.PasswordHash,
		&result.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, entity.ErrEmailTaken
		}
		return nil, fmt.Errorf("%s: query row: %w", op, err)
	}

	return result, nil
}

func (r *UserRepository) GetByEmail(
	ctx context.Context,
	email string,
) (*entity.User, error) {
	const op = "repository.user.GetByEmail"

	return r.getOne(ctx, op, squirrel.Eq{"email": email})
}

func (r *UserRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*entity.User, error) {
	const op = "repository.user.GetByID"

	return r.getOne(ctx, op, squirrel.Eq{"id": id})
}

func (r *UserRepository) getOne(
	ctx context.Context,
	op string,
	pred squirrel.Eq,
) (*entity.User, error) {
	query := r.db.Builder.Select("id", "name", "email", "password_hash", "phone", "country_code", "city", "created_at").
		From("users").
		Where(pred).
		Limit(1)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	result := &entity.User{}
	var phone, countryCode, city *string
	err = r.db.Pool.QueryRow(ctx, sql, args...).Scan(
		&result.ID,
		&result.Name,
		&result.Email,
		&result.PasswordHash,
		&phone,
		&countryCode,
		&city,
		&result.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrDataNotFound
		}
		return nil, fmt.Errorf("%s: query row: %w", op, err)
	}

	assignString(&result.Phone, phone)
	assignString(&result.CountryCode, countryCode)
	assignString(&result.City, city)

	return result, nil
}
