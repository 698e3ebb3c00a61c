package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"schoolfee-backend/internal/domain"
	"schoolfee-backend/internal/repository"
)

const billColumns = `id, bill_no, student_id, session_id, month, year,
	total_amount_paise, previous_dues_paise, advance_used_paise, discount_paise,
	net_amount_paise, paid_amount_paise, status, bill_date, due_date, paid_date, created_at`

type billRepository struct {
	db *sql.DB
}

func NewBillRepository(db *sql.DB) repository.BillRepository {
	return &billRepository{db: db}
}

func (r *billRepository) Create(ctx context.Context, bill *domain.DemandBill) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO demand_bills
	              (bill_no, student_id, session_id, month, year,
	               total_amount_paise, previous_dues_paise, advance_used_paise, discount_paise,
	               net_amount_paise, paid_amount_paise, status, bill_date, due_date)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	          RETURNING id, created_at`
	err = tx.QueryRowContext(ctx, query,
		bill.BillNo, bill.StudentID, bill.SessionID, bill.Month, bill.Year,
		bill.TotalAmountPaise, bill.PreviousDuesPaise, bill.AdvanceUsedPaise, bill.DiscountPaise,
		bill.NetAmountPaise, bill.PaidAmountPaise, bill.Status, bill.BillDate, bill.DueDate).
		Scan(&bill.ID, &bill.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflictf("bill already exists for student %s period %d/%d",
				bill.StudentID, bill.Month, bill.Year)
		}
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	itemQuery := `INSERT INTO bill_items (bill_id, fee_type_id, fee_type_name, amount_paise, discount_amount_paise)
	              VALUES ($1, $2, $3, $4, $5) RETURNING id`
	for i := range bill.Items {
		it := &bill.Items[i]
		it.BillID = bill.ID
		if err := tx.QueryRowContext(ctx, itemQuery,
			bill.ID, it.FeeTypeID, it.FeeTypeName, it.AmountPaise, it.DiscountAmountPaise).
			Scan(&it.ID); err != nil {
			return fmt.Errorf("failed to insert bill item: %w", err)
		}
	}

	return tx.Commit()
}

func (r *billRepository) GetByBillNo(ctx context.Context, billNo string) (*domain.DemandBill, error) {
	query := `SELECT ` + billColumns + ` FROM demand_bills WHERE bill_no = $1`
	bill, err := r.scanOne(r.db.QueryRowContext(ctx, query, billNo))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, []*domain.DemandBill{bill}); err != nil {
		return nil, err
	}
	return bill, nil
}

func (r *billRepository) ExistsForPeriod(ctx context.Context, studentID string, sessionID int32, month, year int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM demand_bills
		  WHERE student_id = $1 AND session_id = $2 AND month = $3 AND year = $4)`,
		studentID, sessionID, month, year).Scan(&exists)
	return exists, err
}

func (r *billRepository) ListByStudent(ctx context.Context, studentID string, sessionID int32) ([]domain.DemandBill, error) {
	query := `SELECT ` + billColumns + ` FROM demand_bills
	          WHERE student_id = $1 AND session_id = $2
	          ORDER BY year DESC, month DESC`
	return r.list(ctx, query, studentID, sessionID)
}

func (r *billRepository) ListBefore(ctx context.Context, studentID string, sessionID int32, month, year int) ([]domain.DemandBill, error) {
	query := `SELECT ` + billColumns + ` FROM demand_bills
	          WHERE student_id = $1 AND session_id = $2
	            AND (year < $3 OR (year = $3 AND month < $4))
	          ORDER BY year ASC, month ASC`
	return r.list(ctx, query, studentID, sessionID, year, month)
}

func (r *billRepository) FindOldestOpen(ctx context.Context, studentID string, sessionID int32) (*domain.DemandBill, error) {
	query := `SELECT ` + billColumns + ` FROM demand_bills
	          WHERE student_id = $1 AND session_id = $2
	            AND status = ANY($3)
	          ORDER BY year ASC, month ASC
	          LIMIT 1`
	bill, err := r.scanOne(r.db.QueryRowContext(ctx, query, studentID, sessionID, pq.Array(openStatusStrings())))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, []*domain.DemandBill{bill}); err != nil {
		return nil, err
	}
	return bill, nil
}

func (r *billRepository) UpdatePayment(ctx context.Context, billNo string, paidPaise, netPaise int64, status domain.BillStatus, paidDate *time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE demand_bills
		    SET paid_amount_paise = $2, net_amount_paise = $3, status = $4, paid_date = $5
		  WHERE bill_no = $1`,
		billNo, paidPaise, netPaise, status, paidDate)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.NotFoundf("bill %s", billNo)
	}
	return nil
}

func (r *billRepository) UpdateStatus(ctx context.Context, billNo string, status domain.BillStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE demand_bills SET status = $2 WHERE bill_no = $1`, billNo, status)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.NotFoundf("bill %s", billNo)
	}
	return nil
}

func (r *billRepository) SumNetBilled(ctx context.Context, studentID string, sessionID int32) (int64, error) {
	var sum int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(net_amount_paise), 0) FROM demand_bills
		  WHERE student_id = $1 AND session_id = $2 AND status <> $3`,
		studentID, sessionID, domain.BillStatusCancelled).Scan(&sum)
	return sum, err
}

func (r *billRepository) CountPaid(ctx context.Context, billNos []string) (int32, error) {
	if len(billNos) == 0 {
		return 0, nil
	}
	var count int32
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM demand_bills
		  WHERE bill_no = ANY($1) AND paid_amount_paise > 0`,
		pq.Array(billNos)).Scan(&count)
	return count, err
}

func (r *billRepository) DeleteByBillNos(ctx context.Context, billNos []string) (int64, error) {
	if len(billNos) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM bill_items WHERE bill_id IN (SELECT id FROM demand_bills WHERE bill_no = ANY($1))`,
		pq.Array(billNos)); err != nil {
		return 0, err
	}
	result, err := tx.ExecContext(ctx,
		`DELETE FROM demand_bills WHERE bill_no = ANY($1)`, pq.Array(billNos))
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return affected, tx.Commit()
}

func (r *billRepository) ListBySession(ctx context.Context, sessionID int32) ([]domain.DemandBill, error) {
	query := `SELECT ` + billColumns + ` FROM demand_bills
	          WHERE session_id = $1
	          ORDER BY created_at DESC`
	return r.list(ctx, query, sessionID)
}

func (r *billRepository) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE demand_bills SET status = $1
		  WHERE due_date < $2
		    AND paid_amount_paise < net_amount_paise
		    AND status = ANY($3)`,
		domain.BillStatusOverdue, asOf,
		pq.Array([]string{
			string(domain.BillStatusPending),
			string(domain.BillStatusSent),
			string(domain.BillStatusPartiallyPaid),
		}))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *billRepository) ListOverdue(ctx context.Context, asOf time.Time, graceDays int) ([]domain.DemandBill, error) {
	cutoff := asOf.AddDate(0, 0, -graceDays)
	query := `SELECT ` + billColumns + ` FROM demand_bills
	          WHERE due_date < $1
	            AND paid_amount_paise < net_amount_paise
	            AND status = ANY($2)
	          ORDER BY due_date ASC`
	return r.list(ctx, query, cutoff, pq.Array(openStatusStrings()))
}

func (r *billRepository) list(ctx context.Context, query string, args ...any) ([]domain.DemandBill, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bills []domain.DemandBill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		bills = append(bills, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*domain.DemandBill, len(bills))
	for i := range bills {
		refs[i] = &bills[i]
	}
	if err := r.loadItems(ctx, refs); err != nil {
		return nil, err
	}
	return bills, nil
}

func (r *billRepository) loadItems(ctx context.Context, bills []*domain.DemandBill) error {
	if len(bills) == 0 {
		return nil
	}
	byID := make(map[int32]*domain.DemandBill, len(bills))
	ids := make([]int64, 0, len(bills))
	for _, b := range bills {
		byID[b.ID] = b
		ids = append(ids, int64(b.ID))
	}

	query := `SELECT id, bill_id, fee_type_id, fee_type_name, amount_paise, discount_amount_paise
	          FROM bill_items WHERE bill_id = ANY($1) ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var it domain.BillItem
		if err := rows.Scan(&it.ID, &it.BillID, &it.FeeTypeID, &it.FeeTypeName,
			&it.AmountPaise, &it.DiscountAmountPaise); err != nil {
			return err
		}
		if b, ok := byID[it.BillID]; ok {
			b.Items = append(b.Items, it)
		}
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBill(row rowScanner) (*domain.DemandBill, error) {
	var b domain.DemandBill
	var paidDate sql.NullTime
	err := row.Scan(&b.ID, &b.BillNo, &b.StudentID, &b.SessionID, &b.Month, &b.Year,
		&b.TotalAmountPaise, &b.PreviousDuesPaise, &b.AdvanceUsedPaise, &b.DiscountPaise,
		&b.NetAmountPaise, &b.PaidAmountPaise, &b.Status, &b.BillDate, &b.DueDate,
		&paidDate, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	if paidDate.Valid {
		t := paidDate.Time
		b.PaidDate = &t
	}
	return &b, nil
}

func (r *billRepository) scanOne(row *sql.Row) (*domain.DemandBill, error) {
	bill, err := scanBill(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("bill")
	}
	if err != nil {
		return nil, err
	}
	return bill, nil
}

func openStatusStrings() []string {
	out := make([]string, len(domain.OpenBillStatuses))
	for i, s := range domain.OpenBillStatuses {
		out[i] = string(s)
	}
	return out
}
