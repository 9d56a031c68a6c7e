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

type PartRepository struct {
	db *postgres.Postgres
}

func NewPartRepository(db *postgres.Postgres) *PartRepository {
	return &PartRepository{db}
}

// Create batch-inserts the ordered parts list with CopyFrom. Position is
// taken from the slice order so reads reproduce the submission order.
func (r *PartRepository) Create(
	ctx context.Context,
	queryExecuter postgres.QueryExecuter,
	orderUID uuid.UUID,
	parts []*entity.Part,
) error {
	const op = "repository.part.Create"

	if len(parts) == 0 {
		return nil
	}

	rows := make([][]interface{}, 0, len(parts))
	for i, part := range parts {
		rows = append(rows, []interface{}{
			uuid.New(),
			orderUID,
			i,
			part.Name,
			part.Quantity,
			part.SKU,
			part.Brand,
			part.Description,
		})
	}

	tx, ok := queryExecuter.(*postgres.TxQueryExecuter)
	if !ok {
		return fmt.Errorf("%s: queryExecuter is not a transaction", op)
	}

	columnNames := []string{
		"part_id", "order_uid", "position", "name", "quantity", "sku", "brand", "description",
	}

	_, err := tx.Tx.CopyFrom(
		ctx,
		pgx.Identifier{"order_parts"},
		columnNames,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return entity.ErrConflictingData
		}
		return fmt.Errorf("%s: copy from: %w", op, err)
	}

	return nil
}

func (r *PartRepository) GetListByOrderUID(
	ctx context.Context,
	orderUID uuid.UUID,
) ([]*entity.Part, error) {
	const op = "repository.part.GetListByOrderUID"

	query := r.db.Builder.Select("position", "name", "quantity", "sku", "brand", "description").
		From("order_parts").
		Where(squirrel.Eq{"order_uid": orderUID}).
		OrderBy("position ASC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrDataNotFound
		}
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}
	defer rows.Close()

	result := make([]*entity.Part, 0)
	for rows.Next() {
		part := &entity.Part{}
		err = rows.Scan(
			&part.Position,
			&part.Name,
			&part.Quantity,
			&part.SKU,
			&part.Brand,
			&part.Description,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: rows scan: %w", op, err)
		}

		result = append(result, part)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("%s: rows final error: %w", op, rows.Err())
	}

	return result, nil
}
