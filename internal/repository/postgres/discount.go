package postgres

import (
	"context"
	"database/sql"

	"schoolfee-backend/internal/domain"
	"schoolfee-backend/internal/repository"
)

type discountRepository struct {
	db *sql.DB
}

func NewDiscountRepository(db *sql.DB) repository.DiscountRepository {
	return &discountRepository{db: db}
}

func (r *discountRepository) ListForStudent(ctx context.Context, studentID string, sessionID int32) ([]domain.StudentFeeDiscount, error) {
	query := `SELECT d.id, d.student_id, d.fee_type_id, t.name, d.session_id,
	                 d.discount_type, d.discount_value, d.reason, d.approved_by,
	                 d.created_at, d.updated_at
	          FROM student_fee_discounts d
	          JOIN fee_types t ON t.id = d.fee_type_id
	          WHERE d.student_id = $1 AND d.session_id = $2
	          ORDER BY t.name ASC`
	rows, err := r.db.QueryContext(ctx, query, studentID, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.StudentFeeDiscount
	for rows.Next() {
		var d domain.StudentFeeDiscount
		if err := rows.Scan(&d.ID, &d.StudentID, &d.FeeTypeID, &d.FeeTypeName, &d.SessionID,
			&d.DiscountType, &d.DiscountValue, &d.Reason, &d.ApprovedBy,
			&d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *discountRepository) Upsert(ctx context.Context, d *domain.StudentFeeDiscount) error {
	query := `INSERT INTO student_fee_discounts
	              (student_id, fee_type_id, session_id, discount_type, discount_value, reason, approved_by)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (student_id, fee_type_id, session_id) DO UPDATE SET
	              discount_type = EXCLUDED.discount_type,
	              discount_value = EXCLUDED.discount_value,
	              reason = EXCLUDED.reason,
	              approved_by = EXCLUDED.approved_by,
	              updated_at = now()
	          RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		d.StudentID, d.FeeTypeID, d.SessionID, d.DiscountType, d.DiscountValue, d.Reason, d.ApprovedBy).
		Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

func (r *discountRepository) Delete(ctx context.Context, id int32) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM student_fee_discounts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.NotFoundf("discount %d", id)
	}
	return nil
}
