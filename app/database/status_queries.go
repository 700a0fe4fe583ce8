package database

import (
	"database/sql"
	"fmt"
	"time"

	"campus-finance/app/models"
)

// GetFinancialStatus returns the derived status row for one (student,
// semester), or nil when it has never been computed.
func GetFinancialStatus(q Queryer, studentID, semesterID string) (*models.StudentSemesterFinancialStatus, error) {
	st := &models.StudentSemesterFinancialStatus{}
	var milestone string
	query := `SELECT id, student_id, semester_id, milestone_code, total_due, total_paid, hold_code, updated_at
	          FROM student_semester_financial_status
	          WHERE student_id = $1 AND semester_id = $2`
	err := q.QueryRow(query, studentID, semesterID).Scan(
		&st.ID, &st.StudentID, &st.SemesterID, &milestone,
		&st.TotalDue, &st.TotalPaid, &st.HoldCode, &st.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	st.MilestoneCode = models.Milestone(milestone)
	return st, nil
}

// ListFinancialStatuses returns all semester statuses for a student.
func ListFinancialStatuses(q Queryer, studentID string) ([]*models.StudentSemesterFinancialStatus, error) {
	query := `SELECT id, student_id, semester_id, milestone_code, total_due, total_paid, hold_code, updated_at
	          FROM student_semester_financial_status
	          WHERE student_id = $1
	          ORDER BY updated_at DESC`
	rows, err := q.Query(query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []*models.StudentSemesterFinancialStatus
	for rows.Next() {
		st := &models.StudentSemesterFinancialStatus{}
		var milestone string
		err := rows.Scan(
			&st.ID, &st.StudentID, &st.SemesterID, &milestone,
			&st.TotalDue, &st.TotalPaid, &st.HoldCode, &st.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		st.MilestoneCode = models.Milestone(milestone)
		statuses = append(statuses, st)
	}
	return statuses, rows.Err()
}

// UpsertFinancialStatus writes the recomputed status, keyed by the unique
// (student_id, semester_id) pair. The row is always overwritten in place;
// history lives in the invoice ledger, not here.
func UpsertFinancialStatus(q Queryer, st *models.StudentSemesterFinancialStatus) error {
	query := `INSERT INTO student_semester_financial_status
	          (student_id, semester_id, milestone_code, total_due, total_paid, hold_code, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, NOW())
	          ON CONFLICT (student_id, semester_id) DO UPDATE SET
	            milestone_code = EXCLUDED.milestone_code,
	            total_due = EXCLUDED.total_due,
	            total_paid = EXCLUDED.total_paid,
	            hold_code = EXCLUDED.hold_code,
	            updated_at = NOW()
	          RETURNING id, updated_at`
	err := q.QueryRow(query,
		st.StudentID, st.SemesterID, string(st.MilestoneCode),
		st.TotalDue, st.TotalPaid, st.HoldCode,
	).Scan(&st.ID, &st.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert financial status: %v", err)
	}
	return nil
}

// AllSemestersFullyPaid reports whether every semester status for the
// student sits at PM100. A student-wide hold must not be cleared while any
// semester remains underpaid.
func AllSemestersFullyPaid(q Queryer, studentID string) (bool, error) {
	var pending int
	err := q.QueryRow(
		`SELECT COUNT(*) FROM student_semester_financial_status WHERE student_id = $1 AND milestone_code <> $2`,
		studentID, string(models.MilestonePM100),
	).Scan(&pending)
	if err != nil {
		return false, err
	}
	return pending == 0, nil
}

// RecomputeTask is one queued milestone recompute awaiting retry.
type RecomputeTask struct {
	ID         string
	StudentID  string
	SemesterID string
	Attempts   int
	LastError  string
	QueuedAt   time.Time
}

// EnqueueRecompute records a failed milestone recompute for the background
// retry loop. Re-enqueueing the same pair refreshes the error and timestamp
// instead of piling up rows.
func EnqueueRecompute(q Queryer, studentID, semesterID, lastError string) error {
	_, err := q.Exec(
		`INSERT INTO milestone_recompute_queue (student_id, semester_id, last_error)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (student_id, semester_id) DO UPDATE SET
		   last_error = EXCLUDED.last_error,
		   queued_at = NOW()`,
		studentID, semesterID, lastError,
	)
	return err
}

// ListQueuedRecomputes returns tasks still under the attempt cap, oldest
// first.
func ListQueuedRecomputes(q Queryer, maxAttempts int) ([]*RecomputeTask, error) {
	rows, err := q.Query(
		`SELECT id, student_id, semester_id, attempts, COALESCE(last_error, ''), queued_at
		 FROM milestone_recompute_queue
		 WHERE attempts < $1
		 ORDER BY queued_at`,
		maxAttempts,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*RecomputeTask
	for rows.Next() {
		t := &RecomputeTask{}
		if err := rows.Scan(&t.ID, &t.StudentID, &t.SemesterID, &t.Attempts, &t.LastError, &t.QueuedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// ResolveRecompute removes a task after a successful retry.
func ResolveRecompute(q Queryer, id string) error {
	_, err := q.Exec(`DELETE FROM milestone_recompute_queue WHERE id = $1`, id)
	return err
}

// BumpRecompute counts a failed retry.
func BumpRecompute(q Queryer, id, lastError string) error {
	_, err := q.Exec(
		`UPDATE milestone_recompute_queue SET attempts = attempts + 1, last_error = $1 WHERE id = $2`,
		lastError, id,
	)
	return err
}
