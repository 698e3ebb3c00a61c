package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"schoolfee-backend/internal/domain"
	"schoolfee-backend/internal/repository"
)

const studentColumns = `s.student_id, s.name, s.father_name, s.guardian_email,
	s.class_name, s.section, s.session_id, s.status,
	ta.route_id, tr.name, tr.monthly_fee_paise, ta.status`

const studentJoin = `FROM students s
	LEFT JOIN transport_assignments ta ON ta.student_id = s.student_id AND ta.status = 'active'
	LEFT JOIN transport_routes tr ON tr.id = ta.route_id`

type studentRepository struct {
	db *sql.DB
}

func NewStudentRepository(db *sql.DB) repository.StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) GetByID(ctx context.Context, studentID string) (*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` ` + studentJoin + ` WHERE s.student_id = $1`
	st, err := scanStudent(r.db.QueryRowContext(ctx, query, studentID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("student %s", studentID)
	}
	return st, err
}

func (r *studentRepository) ListByIDs(ctx context.Context, studentIDs []string) ([]domain.Student, error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + studentColumns + ` ` + studentJoin + `
	          WHERE s.student_id = ANY($1) ORDER BY s.student_id ASC`
	return r.list(ctx, query, pq.Array(studentIDs))
}

func (r *studentRepository) ListActive(ctx context.Context, sessionID int32, className, section string) ([]domain.Student, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + studentColumns + ` ` + studentJoin + `
	          WHERE s.session_id = $1 AND s.status = 'active'`)
	args := []any{sessionID}
	if className != "" {
		args = append(args, className)
		sb.WriteString(` AND s.class_name = $` + strconv.Itoa(len(args)))
	}
	if section != "" {
		args = append(args, section)
		sb.WriteString(` AND s.section = $` + strconv.Itoa(len(args)))
	}
	sb.WriteString(` ORDER BY s.class_name ASC, s.section ASC, s.student_id ASC`)
	return r.list(ctx, sb.String(), args...)
}

func (r *studentRepository) list(ctx context.Context, query string, args ...any) ([]domain.Student, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Student
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *st)
	}
	return out, rows.Err()
}

func scanStudent(row rowScanner) (*domain.Student, error) {
	var st domain.Student
	var routeID sql.NullInt32
	var routeName sql.NullString
	var routeFee sql.NullInt64
	var taStatus sql.NullString
	err := row.Scan(&st.StudentID, &st.Name, &st.FatherName, &st.GuardianEmail,
		&st.ClassName, &st.Section, &st.SessionID, &st.Status,
		&routeID, &routeName, &routeFee, &taStatus)
	if err != nil {
		return nil, err
	}
	if routeID.Valid {
		st.Transport = &domain.TransportAssignment{
			RouteID:         routeID.Int32,
			RouteName:       routeName.String,
			MonthlyFeePaise: routeFee.Int64,
			Status:          taStatus.String,
		}
	}
	return &st, nil
}
