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
)

type ContactRepository struct {
	db *postgres.Postgres
}

func NewContactRepository(db *postgres.Postgres) *ContactRepository {
	return &ContactRepository{db}
}

func (r *ContactRepository) Create(
	ctx context.Context,
	queryExecuter postgres.QueryExecuter,
	orderUID uuid.UUID,
	contact *entity.Contact,
) (*entity.Contact, error) {
	const op = "repository.contact.Create"

	query := r.db.Builder.Insert("order_contacts").
		Columns("order_uid", "name", "email", "phone", "country_code", "city", "comments").
		Values(
			orderUID,
			contact.Name,
			contact.Email,
			contact.Phone,
			contact.CountryCode,
			nullIfEmpty(contact.City),
			nullIfEmpty(contact.Comments),
		).
		Suffix("RETURNING name, email, phone, country_code, city, comments")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	result := &entity.Contact{}
	var city, comments *string
	err = queryExecuter.QueryRow(ctx, sql, args...).Scan(
		&result.Name,
		&result.Email,
		&result.Phone,
		&result.CountryCode,
		&city,
		&comments,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: query row: %w", op, err)
	}

	assignString(&result.City, city)
	assignString(&result.Comments, comments)

	return result, nil
}

func (r *ContactRepository) GetByOrderUID(
	ctx context.Context,
	orderUID uuid.UUID,
) (*entity.Contact, error) {
	const op = "repository.contact.GetByOrderUID"

	query := r.db.Builder.Select("name", "email", "phone", "country_code", "city", "comments").
		From("order_contacts").
		Where(squirrel.Eq{"order_uid": orderUID}).
		Limit(1)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	result := &entity.Contact{}
	var city, comments *string
	err = r.db.Pool.QueryRow(ctx, sql, args...).Scan(
		&result.Name,
		&result.Email,
		&result.Phone,
		&result.CountryCode,
		&city,
		&comments,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrDataNotFound
		}
		return nil, fmt.Errorf("%s: query row: %w", op, err)
	}

	assignString(&result.City, city)
	assignString(&result.Comments, comments)

	return result, nil
}
