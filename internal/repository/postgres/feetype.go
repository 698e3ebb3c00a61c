package postgres

import (
	"context"
	"database/sql"
	"errors"

	"schoolfee-backend/internal/domain"
	"schoolfee-backend/internal/repository"
)

type feeTypeRepository struct {
	db *sql.DB
}

func NewFeeTypeRepository(db *sql.DB) repository.FeeTypeRepository {
	return &feeTypeRepository{db: db}
}

const feeTypeColumns = `id, name, COALESCE(description, ''), frequency, is_active, is_default, created_at`

func (r *feeTypeRepository) Create(ctx context.Context, ft *domain.FeeType) error {
	query := `INSERT INTO fee_types (name, description, frequency, is_active, is_default)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, ft.Name, ft.Description, ft.Frequency, ft.IsActive, ft.IsDefault).
		Scan(&ft.ID, &ft.CreatedAt)
	if isUniqueViolation(err) {
		return domain.Conflictf("fee type with name %q already exists", ft.Name)
	}
	return err
}

func (r *feeTypeRepository) GetByID(ctx context.Context, id int32) (*domain.FeeType, error) {
	query := `SELECT ` + feeTypeColumns + ` FROM fee_types WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *feeTypeRepository) FindByNameContains(ctx context.Context, fragment string) (*domain.FeeType, error) {
	query := `SELECT ` + feeTypeColumns + ` FROM fee_types WHERE name ILIKE '%' || $1 || '%' ORDER BY id LIMIT 1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, fragment))
}

func (r *feeTypeRepository) List(ctx context.Context, activeOnly bool) ([]domain.FeeType, error) {
	query := `SELECT ` + feeTypeColumns + ` FROM fee_types`
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.FeeType
	for rows.Next() {
		var ft domain.FeeType
		if err := rows.Scan(&ft.ID, &ft.Name, &ft.Description, &ft.Frequency, &ft.IsActive, &ft.IsDefault, &ft.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, ft)
	}
	return out, rows.Err()
}

func (r *feeTypeRepository) Update(ctx context.Context, ft *domain.FeeType) error {
	query := `UPDATE fee_types SET name = $1, description = $2, frequency = $3, is_active = $4 WHERE id = $5`
	res, err := r.db.ExecContext(ctx, query, ft.Name, ft.Description, ft.Frequency, ft.IsActive, ft.ID)
	if isUniqueViolation(err) {
		return domain.Conflictf("fee type with name %q already exists", ft.Name)
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return domain.NotFoundf("fee type %d", ft.ID)
	}
	return err
}

func (r *feeTypeRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM fee_types WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return domain.NotFoundf("fee type %d", id)
	}
	return err
}

func (r *feeTypeRepository) CountStructureUsage(ctx context.Context, feeTypeID int32) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM fee_structure_items WHERE fee_type_id = $1`, feeTypeID).Scan(&count)
	return count, err
}

func (r *feeTypeRepository) CountBillUsage(ctx context.Context, feeTypeID int32) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM bill_items WHERE fee_type_id = $1`, feeTypeID).Scan(&count)
	return count, err
}

func (r *feeTypeRepository) scanOne(row *sql.Row) (*domain.FeeType, error) {
	var ft domain.FeeType
	err := row.Scan(&ft.ID, &ft.Name, &ft.Description, &ft.Frequency, &ft.IsActive, &ft.IsDefault, &ft.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("fee type")
	}
	if err != nil {
		return nil, err
	}
	return &ft, nil
}
