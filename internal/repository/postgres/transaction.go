package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"

	"schoolfee-backend/internal/domain"
	"schoolfee-backend/internal/repository"
)

const txnColumns = `id, transaction_id, receipt_no, student_id, session_id,
	amount_paise, payment_mode, description, remarks, collected_by, bill_no, date, created_at`

type transactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, txn *domain.FeeTransaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO fee_transactions
	              (transaction_id, receipt_no, student_id, session_id, amount_paise,
	               payment_mode, description, remarks, collected_by, bill_no, date)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	          RETURNING id, created_at`
	err = tx.QueryRowContext(ctx, query,
		txn.TransactionID, txn.ReceiptNo, txn.StudentID, txn.SessionID, txn.AmountPaise,
		txn.PaymentMode, txn.Description, txn.Remarks, txn.CollectedBy,
		nullString(txn.BillNo), txn.Date).
		Scan(&txn.ID, &txn.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflictf("receipt %s already exists", txn.ReceiptNo)
		}
		return fmt.Errorf("failed to insert fee transaction: %w", err)
	}

	detailQuery := `INSERT INTO fee_payment_details
	                    (transaction_id, fee_type_id, fee_type_name, amount_paise, discount_amount_paise, net_amount_paise)
	                VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	for i := range txn.Details {
		d := &txn.Details[i]
		d.TransactionID = txn.ID
		if err := tx.QueryRowContext(ctx, detailQuery,
			txn.ID, d.FeeTypeID, d.FeeTypeName, d.AmountPaise, d.DiscountAmountPaise, d.NetAmountPaise).
			Scan(&d.ID); err != nil {
			return fmt.Errorf("failed to insert payment detail: %w", err)
		}
	}

	return tx.Commit()
}

func (r *transactionRepository) GetByReceiptNo(ctx context.Context, receiptNo string) (*domain.FeeTransaction, error) {
	query := `SELECT ` + txnColumns + ` FROM fee_transactions WHERE receipt_no = $1`
	txn, err := scanTransaction(r.db.QueryRowContext(ctx, query, receiptNo))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("receipt %s", receiptNo)
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadDetails(ctx, []*domain.FeeTransaction{txn}); err != nil {
		return nil, err
	}
	return txn, nil
}

func (r *transactionRepository) SumPaid(ctx context.Context, studentID string, sessionID int32) (int64, error) {
	var sum int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_paise), 0) FROM fee_transactions
		  WHERE student_id = $1 AND session_id = $2`,
		studentID, sessionID).Scan(&sum)
	return sum, err
}

func (r *transactionRepository) ListByStudent(ctx context.Context, studentID string, sessionID int32, from, to *time.Time) ([]domain.FeeTransaction, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + txnColumns + ` FROM fee_transactions
	          WHERE student_id = $1 AND session_id = $2`)
	args := []any{studentID, sessionID}
	if from != nil {
		args = append(args, *from)
		sb.WriteString(` AND date >= $` + strconv.Itoa(len(args)))
	}
	if to != nil {
		args = append(args, *to)
		sb.WriteString(` AND date <= $` + strconv.Itoa(len(args)))
	}
	sb.WriteString(` ORDER BY date ASC, id ASC`)
	return r.list(ctx, sb.String(), args...)
}

func (r *transactionRepository) Query(ctx context.Context, q repository.TransactionQuery) ([]domain.FeeTransaction, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT t.id, t.transaction_id, t.receipt_no, t.student_id, t.session_id,
	       t.amount_paise, t.payment_mode, t.description, t.remarks, t.collected_by, t.bill_no, t.date, t.created_at
	  FROM fee_transactions t
	  JOIN students s ON s.student_id = t.student_id
	 WHERE t.session_id = $1`)
	args := []any{q.SessionID}

	add := func(clause string, value any) {
		args = append(args, value)
		sb.WriteString(strings.Replace(clause, "?", "$"+strconv.Itoa(len(args)), 1))
	}
	if q.StudentID != "" {
		add(` AND t.student_id = ?`, q.StudentID)
	}
	if q.StudentName != "" {
		add(` AND s.name ILIKE '%' || ? || '%'`, q.StudentName)
	}
	if q.ClassName != "" {
		add(` AND s.class_name = ?`, q.ClassName)
	}
	if q.Section != "" {
		add(` AND s.section = ?`, q.Section)
	}
	if q.DateFrom != nil {
		add(` AND t.date >= ?`, *q.DateFrom)
	}
	if q.DateTo != nil {
		add(` AND t.date <= ?`, *q.DateTo)
	}
	sb.WriteString(` ORDER BY t.date DESC, t.id DESC`)
	return r.list(ctx, sb.String(), args...)
}

func (r *transactionRepository) list(ctx context.Context, query string, args ...any) ([]domain.FeeTransaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []domain.FeeTransaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*domain.FeeTransaction, len(txns))
	for i := range txns {
		refs[i] = &txns[i]
	}
	if err := r.loadDetails(ctx, refs); err != nil {
		return nil, err
	}
	return txns, nil
}

func (r *transactionRepository) loadDetails(ctx context.Context, txns []*domain.FeeTransaction) error {
	if len(txns) == 0 {
		return nil
	}
	byID := make(map[int32]*domain.FeeTransaction, len(txns))
	ids := make([]int64, 0, len(txns))
	for _, t := range txns {
		byID[t.ID] = t
		ids = append(ids, int64(t.ID))
	}

	query := `SELECT id, transaction_id, fee_type_id, fee_type_name, amount_paise, discount_amount_paise, net_amount_paise
	          FROM fee_payment_details WHERE transaction_id = ANY($1) ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var d domain.FeePaymentDetail
		if err := rows.Scan(&d.ID, &d.TransactionID, &d.FeeTypeID, &d.FeeTypeName,
			&d.AmountPaise, &d.DiscountAmountPaise, &d.NetAmountPaise); err != nil {
			return err
		}
		if t, ok := byID[d.TransactionID]; ok {
			t.Details = append(t.Details, d)
		}
	}
	return rows.Err()
}

func scanTransaction(row rowScanner) (*domain.FeeTransaction, error) {
	var t domain.FeeTransaction
	var billNo sql.NullString
	err := row.Scan(&t.ID, &t.TransactionID, &t.ReceiptNo, &t.StudentID, &t.SessionID,
		&t.AmountPaise, &t.PaymentMode, &t.Description, &t.Remarks, &t.CollectedBy,
		&billNo, &t.Date, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.BillNo = billNo.String
	return &t, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
