package services

import (
	"database/sql"
	"fmt"
	"log"

	"campus-finance/app/database"
	"campus-finance/app/models"
)

// milestoneFor maps a paid/due ratio to the discrete milestone code. A
// semester with nothing due counts as fully paid. Tier boundaries are
// inclusive upward: exactly 30% is PM30, not PM10.
func milestoneFor(totalPaid, totalDue float64) models.Milestone {
	if totalDue == 0 {
		return models.MilestonePM100
	}
	ratio := totalPaid / totalDue * 100
	switch {
	case ratio >= 100:
		return models.MilestonePM100
	case ratio >= 90:
		return models.MilestonePM90
	case ratio >= 60:
		return models.MilestonePM60
	case ratio >= 30:
		return models.MilestonePM30
	case ratio >= 10:
		return models.MilestonePM10
	default:
		return models.MilestonePM00
	}
}

// sumLedger aggregates the milestone totals over a student's semester
// invoices. Invoices that only aggregate child portions (no parent, at
// least one child) are skipped so money is never counted twice: only true
// single invoices and portion children are summed. Admission fees are
// excluded here as well as in the query feeding this, since they sit
// outside the semester milestone.
func sumLedger(invoices []*models.Invoice) (totalDue, totalPaid float64) {
	childCount := make(map[string]int)
	for _, inv := range invoices {
		if inv.ParentInvoiceID != nil {
			childCount[*inv.ParentInvoiceID]++
		}
	}
	for _, inv := range invoices {
		if inv.InvoiceType == models.InvoiceTypeAdmission {
			continue
		}
		if inv.ParentInvoiceID == nil && childCount[inv.ID] > 0 {
			continue
		}
		totalDue += inv.TotalAmount
		if inv.Status == models.InvoicePaid || inv.Status == models.InvoicePartiallyPaid {
			totalPaid += inv.PaidAmount
		}
	}
	return totalDue, totalPaid
}

// RecomputeFinancialStatus re-derives the payment milestone for one
// (student, semester) from the invoice ledger and fires the transition side
// effects. On failure the pair is queued for the background retry loop and
// the error is returned to the caller; a stale milestone silently gating
// sixty features is worse than a visible failure.
func RecomputeFinancialStatus(db *sql.DB, studentID, semesterID string) error {
	if err := recomputeFinancialStatus(db, studentID, semesterID); err != nil {
		log.Printf("Milestone recompute failed for student %s semester %s: %v", studentID, semesterID, err)
		if qErr := database.EnqueueRecompute(db, studentID, semesterID, err.Error()); qErr != nil {
			log.Printf("Failed to queue milestone recompute retry: %v", qErr)
		}
		return err
	}
	return nil
}

func recomputeFinancialStatus(db *sql.DB, studentID, semesterID string) error {
	invoices, err := database.GetInvoicesForMilestone(db, studentID, semesterID)
	if err != nil {
		return fmt.Errorf("failed to load invoices: %v", err)
	}

	totalDue, totalPaid := sumLedger(invoices)
	milestone := milestoneFor(totalPaid, totalDue)

	student, err := database.GetStudentByID(db, studentID)
	if err != nil {
		return fmt.Errorf("failed to load student: %v", err)
	}

	previous, err := database.GetFinancialStatus(db, studentID, semesterID)
	if err != nil {
		return fmt.Errorf("failed to load previous status: %v", err)
	}

	status := &models.StudentSemesterFinancialStatus{
		StudentID:     studentID,
		SemesterID:    semesterID,
		MilestoneCode: milestone,
		TotalDue:      totalDue,
		TotalPaid:     totalPaid,
		HoldCode:      student.FinancialHoldReasonCode,
	}
	if err := database.UpsertFinancialStatus(db, status); err != nil {
		return err
	}

	// Side effects fire only on a genuine milestone transition.
	if previous != nil && previous.MilestoneCode == milestone {
		return nil
	}
	if milestone.Value() >= models.MilestonePM10.Value() {
		activated, err := database.ActivateEnrollment(db, studentID)
		if err != nil {
			return fmt.Errorf("failed to activate enrollment: %v", err)
		}
		if activated {
			log.Printf("Student %s enrollment activated at milestone %s", studentID, milestone)
		}
	}
	if milestone == models.MilestonePM100 && student.FinancialHoldReasonCode != nil {
		// The hold is student-wide: it clears only once every semester
		// is fully settled.
		allPaid, err := database.AllSemestersFullyPaid(db, studentID)
		if err != nil {
			return fmt.Errorf("failed to check remaining semesters: %v", err)
		}
		if allPaid {
			if err := database.ClearFinancialHold(db, studentID); err != nil {
				return fmt.Errorf("failed to clear financial hold: %v", err)
			}
			log.Printf("Cleared financial hold %s for student %s", *student.FinancialHoldReasonCode, studentID)
		}
	}
	return nil
}

// ProcessRecomputeQueue retries queued milestone recomputes. Tasks that
// keep failing stop being retried after maxRecomputeAttempts and stay in
// the table for inspection.
func ProcessRecomputeQueue(db *sql.DB) {
	tasks, err := database.ListQueuedRecomputes(db, maxRecomputeAttempts)
	if err != nil {
		log.Printf("Failed to read milestone recompute queue: %v", err)
		return
	}
	for _, task := range tasks {
		if err := recomputeFinancialStatus(db, task.StudentID, task.SemesterID); err != nil {
			log.Printf("Milestone recompute retry %d failed for student %s semester %s: %v",
				task.Attempts+1, task.StudentID, task.SemesterID, err)
			if err := database.BumpRecompute(db, task.ID, err.Error()); err != nil {
				log.Printf("Failed to update recompute task: %v", err)
			}
			continue
		}
		if err := database.ResolveRecompute(db, task.ID); err != nil {
			log.Printf("Failed to remove completed recompute task: %v", err)
		}
	}
}

const maxRecomputeAttempts = 5
