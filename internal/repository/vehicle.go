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

type VehicleRepository struct {
	db *postgres.Postgres
}

func NewVehicleRepository(db *postgres.Postgres) *VehicleRepository {
	return &VehicleRepository{db}
}

func (r *VehicleRepository) Create(
	ctx context.Context,
	queryExecuter postgres.QueryExecuter,
	orderUID uuid.UUID,
	vehicle *entity.Vehicle,
) (*entity.Vehicle, error) {
	const op = "repository.vehicle.Create"

	query := r.db.Builder.Insert("order_vehicles").
		Columns("order_uid", "category", "vin", "make", "model", "year", "engine_volume", "fuel_type").
		Values(
			orderUID,
			vehicle.Category,
			nullIfEmpty(vehicle.VIN),
			nullIfEmpty(vehicle.Make),
			nullIfEmpty(vehicle.Model),
			nullIfZero(vehicle.Year),
			nullIfEmpty(vehicle.EngineVolume),
			nullIfEmpty(vehicle.FuelType),
		).
		Suffix("RETURNING category, vin, make, model, year, engine_volume, fuel_type")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	result := &entity.Vehicle{}
	var (
		vin, mk, model, engineVolume, fuelType *string
		year                                   *int
	)
	err = queryExecuter.QueryRow(ctx, sql, args...).Scan(
		&result.Category, &vin, &mk, &model, &year, &engineVolume, &fuelType,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: query row: %w", op, err)
	}

	assignString(&result.VIN, vin)
	assignString(&result.Make, mk)
	assignString(&result.Model, model)
	assignInt(&result.Year, year)
	assignString(&result.EngineVolume, engineVolume)
	assignString(&result.FuelType, fuelType)

	return result, nil
}

func (r *VehicleRepository) GetByOrderUID(
	ctx context.Context,
	orderUID uuid.UUID,
) (*entity.Vehicle, error) {
	const op = "repository.vehicle.GetByOrderUID"

	query := r.db.Builder.Select("category", "vin", "make", "model", "year", "engine_volume", "fuel_type").
		From("order_vehicles").
		Where(squirrel.Eq{"order_uid": orderUID}).
		Limit(1)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	result := &entity.Vehicle{}
	var (
		vin, mk, model, engineVolume, fuelType *string
		year                                   *int
	)
	err = r.db.Pool.QueryRow(ctx, sql, args...).Scan(
		&result.Category, &vin, &mk, &model, &year, &engineVolume, &fuelType,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrDataNotFound
		}
		return nil, fmt.Errorf("%s: query row: %w", op, err)
	}

	assignString(&result.VIN, vin)
	assignString(&result.Make, mk)
	assignString(&result.Model, model)
	assignInt(&result.Year, year)
	assignString(&result.EngineVolume, engineVolume)
	assignString(&result.FuelType, fuelType)

	return result, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullIfZero(n int) any {
	if n == 0 {
		return nil
	}
	return n
}

func assignString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func assignInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
