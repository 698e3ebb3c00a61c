package postgres

import (
	"context"
	"database/sql"
	"errors"

	"schoolfee-backend/internal/domain"
	"schoolfee-backend/internal/repository"
)

type feeStructureRepository struct {
	db *sql.DB
}

func NewFeeStructureRepository(db *sql.DB) repository.FeeStructureRepository {
	return &feeStructureRepository{db: db}
}

func (r *feeStructureRepository) GetByClass(ctx context.Context, sessionID int32, className string) (*domain.FeeStructure, error) {
	query := `SELECT id, session_id, class_name, created_at, updated_at
	          FROM fee_structures WHERE session_id = $1 AND class_name = $2`
	var s domain.FeeStructure
	err := r.db.QueryRowContext(ctx, query, sessionID, className).
		Scan(&s.ID, &s.SessionID, &s.ClassName, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("fee structure for session %d class %q", sessionID, className)
	}
	if err != nil {
		return nil, err
	}

	items, err := r.loadItems(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.Items = items
	return &s, nil
}

func (r *feeStructureRepository) ListBySession(ctx context.Context, sessionID int32) ([]domain.FeeStructure, error) {
	query := `SELECT id, session_id, class_name, created_at, updated_at
	          FROM fee_structures WHERE session_id = $1 ORDER BY class_name ASC`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.FeeStructure
	for rows.Next() {
		var s domain.FeeStructure
		if err := rows.Scan(&s.ID, &s.SessionID, &s.ClassName, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		items, err := r.loadItems(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Items = items
	}
	return out, nil
}

func (r *feeStructureRepository) Upsert(ctx context.Context, sessionID int32, className string) (*domain.FeeStructure, error) {
	query := `INSERT INTO fee_structures (session_id, class_name)
	          VALUES ($1, $2)
	          ON CONFLICT (session_id, class_name) DO UPDATE SET updated_at = now()
	          RETURNING id, session_id, class_name, created_at, updated_at`
	var s domain.FeeStructure
	err := r.db.QueryRowContext(ctx, query, sessionID, className).
		Scan(&s.ID, &s.SessionID, &s.ClassName, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	items, err := r.loadItems(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.Items = items
	return &s, nil
}

func (r *feeStructureRepository) UpsertItem(ctx context.Context, structureID, feeTypeID int32, amountPaise int64) error {
	query := `INSERT INTO fee_structure_items (structure_id, fee_type_id, amount_paise)
	          VALUES ($1, $2, $3)
	          ON CONFLICT (structure_id, fee_type_id) DO UPDATE SET amount_paise = EXCLUDED.amount_paise`
	_, err := r.db.ExecContext(ctx, query, structureID, feeTypeID, amountPaise)
	return err
}

func (r *feeStructureRepository) DeleteItem(ctx context.Context, structureID, feeTypeID int32) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM fee_structure_items WHERE structure_id = $1 AND fee_type_id = $2`,
		structureID, feeTypeID)
	return err
}

func (r *feeStructureRepository) loadItems(ctx context.Context, structureID int32) ([]domain.FeeStructureItem, error) {
	query := `SELECT i.id, i.structure_id, i.fee_type_id, t.name, i.amount_paise
	          FROM fee_structure_items i
	          JOIN fee_types t ON t.id = i.fee_type_id
	          WHERE i.structure_id = $1
	          ORDER BY t.name ASC`
	rows, err := r.db.QueryContext(ctx, query, structureID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.FeeStructureItem
	for rows.Next() {
		var it domain.FeeStructureItem
		if err := rows.Scan(&it.ID, &it.StructureID, &it.FeeTypeID, &it.FeeTypeName, &it.AmountPaise); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
