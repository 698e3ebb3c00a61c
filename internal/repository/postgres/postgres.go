package postgres

import (
	"database/sql"
	"errors"

	"schoolfee-backend/internal/repository"

	"github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.FeeTypeRepository
	repository.FeeStructureRepository
	repository.DiscountRepository
	repository.BillRepository
	repository.TransactionRepository
	repository.StudentRepository
	repository.SessionRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		FeeTypeRepository:      NewFeeTypeRepository(db),
		FeeStructureRepository: NewFeeStructureRepository(db),
		DiscountRepository:     NewDiscountRepository(db),
		BillRepository:         NewBillRepository(db),
		TransactionRepository:  NewTransactionRepository(db),
		StudentRepository:      NewStudentRepository(db),
		SessionRepository:      NewSessionRepository(db),
	}
}

// isUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation (SQLSTATE 23505). Duplicate-bill races are resolved here, at the
// storage layer, not by application-level check-then-act.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
