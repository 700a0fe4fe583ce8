// Package permissions decides whether a student may perform a gated action,
// given the student's payment milestone, financial hold and grade release
// flag. It is a pure, data-driven lookup with a fixed rule precedence:
//
//	chargeback block > milestone threshold > other hold block > grade visibility
//
// Callers load the inputs from the financial status tables and pass them in;
// this package never touches the database.
package permissions

import (
	"fmt"

	"campus-finance/app/models"
)

// Decision is the outcome of evaluating one action for one student.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
}

func allow(reason string) Decision { return Decision{Allowed: true, Reason: reason} }
func deny(reason string) Decision  { return Decision{Allowed: false, Reason: reason} }

// Evaluate resolves an action code against the static threshold tables and
// the hold block-lists. A zero-value milestone, hold or visibility stands
// for "unknown", "no hold" and "not specified" respectively.
//
// Action codes absent from both tables are allowed: new features ship
// ungated until a threshold row is added for them.
func Evaluate(actionCode string, milestone models.Milestone, hold models.FinancialHold, gradesVisibility models.GradesVisibility) Decision {
	current := milestone.Value()

	// A chargeback freezes everything except the finance and profile
	// surfaces, regardless of milestone or any other rule.
	if hold == models.HoldChargeback && !financeOrProfile(actionCode) {
		return deny("account is frozen due to a payment chargeback; contact the finance office")
	}

	required, gated := requiredThreshold(actionCode)
	if gated && current < required {
		return deny(fmt.Sprintf("requires payment milestone PM%d or higher; current milestone is %s", required, milestoneLabel(milestone)))
	}

	// Holds are checked after the threshold so a hold can revoke access
	// the milestone alone would grant.
	if blockedByHold(hold, actionCode) {
		return deny(holdReasons[hold])
	}

	if gradeActions[actionCode] {
		if current < 100 {
			return deny(fmt.Sprintf("grades unlock at payment milestone PM100; current milestone is %s", milestoneLabel(milestone)))
		}
		if gradesVisibility == models.GradesHidden {
			return deny("grades are withheld pending release by the registrar")
		}
	}

	if !gated {
		return allow("action is not milestone-gated")
	}
	return allow(fmt.Sprintf("payment milestone %s satisfies the PM%d requirement", milestoneLabel(milestone), required))
}

func milestoneLabel(m models.Milestone) string {
	if m == "" {
		return string(models.MilestonePM00)
	}
	return string(m)
}
