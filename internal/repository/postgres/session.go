package postgres

import (
	"context"
	"database/sql"
	"errors"

	"schoolfee-backend/internal/domain"
	"schoolfee-backend/internal/repository"
)

type sessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) GetByID(ctx context.Context, id int32) (*domain.AcademicSession, error) {
	var s domain.AcademicSession
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, is_active FROM academic_sessions WHERE id = $1`, id).
		Scan(&s.ID, &s.Name, &s.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("academic session %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepository) GetActive(ctx context.Context) (*domain.AcademicSession, error) {
	var s domain.AcademicSession
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, is_active FROM academic_sessions WHERE is_active = true
		 ORDER BY id DESC LIMIT 1`).
		Scan(&s.ID, &s.Name, &s.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("active academic session")
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
