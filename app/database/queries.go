package database

import (
	"database/sql"
	"fmt"

	"campus-finance/app/models"
)

// Queryer is satisfied by both *sql.DB and *sql.Tx so query helpers can run
// standalone or inside an enclosing transaction.
type Queryer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// GetUserByEmail returns an active user account by email.
func GetUserByEmail(q Queryer, email string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, first_name, last_name, email, password, role, is_active, created_at, updated_at
	          FROM users
	          WHERE LOWER(email) = LOWER($1) AND deleted_at IS NULL`
	err := q.QueryRow(query, email).Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Email,
		&user.Password, &user.Role, &user.IsActive,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByID returns an active user account by id.
func GetUserByID(q Queryer, id string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, first_name, last_name, email, password, role, is_active, created_at, updated_at
	          FROM users
	          WHERE id = $1 AND deleted_at IS NULL`
	err := q.QueryRow(query, id).Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Email,
		&user.Password, &user.Role, &user.IsActive,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUser inserts a user account. The password must already be hashed.
func CreateUser(q Queryer, user *models.User) error {
	query := `INSERT INTO users (first_name, last_name, email, password, role)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id, created_at, updated_at`
	err := q.QueryRow(query, user.FirstName, user.LastName, user.Email, user.Password, user.Role).Scan(
		&user.ID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %v", err)
	}
	return nil
}

// GetStudentByID returns an active student.
func GetStudentByID(q Queryer, id string) (*models.Student, error) {
	s := &models.Student{}
	query := `SELECT id, student_no, first_name, last_name, email, major_id, degree_level,
	          enrollment_status, financial_hold_reason_code, grades_visibility, is_active,
	          created_at, updated_at
	          FROM students
	          WHERE id = $1 AND deleted_at IS NULL`
	var email sql.NullString
	err := q.QueryRow(query, id).Scan(
		&s.ID, &s.StudentNo, &s.FirstName, &s.LastName, &email,
		&s.MajorID, &s.DegreeLevel, &s.EnrollmentStatus,
		&s.FinancialHoldReasonCode, &s.GradesVisibility, &s.IsActive,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if email.Valid {
		s.Email = email.String
	}
	return s, nil
}

// ActivateEnrollment flips a pending enrollment to active. The WHERE clause
// keeps the transition idempotent: students already active or dropped are
// untouched.
func ActivateEnrollment(q Queryer, studentID string) (bool, error) {
	result, err := q.Exec(
		`UPDATE students SET enrollment_status = $1, updated_at = NOW()
		 WHERE id = $2 AND enrollment_status = $3`,
		string(models.EnrollmentActive), studentID, string(models.EnrollmentPending),
	)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

// SetFinancialHold places an administrative hold on a student.
func SetFinancialHold(q Queryer, studentID string, hold models.FinancialHold) error {
	result, err := q.Exec(
		`UPDATE students SET financial_hold_reason_code = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL`,
		string(hold), studentID,
	)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}

// ClearFinancialHold removes the student-wide hold.
func ClearFinancialHold(q Queryer, studentID string) error {
	_, err := q.Exec(
		`UPDATE students SET financial_hold_reason_code = NULL, updated_at = NOW() WHERE id = $1`,
		studentID,
	)
	return err
}
