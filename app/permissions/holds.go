package permissions

import (
	"strings"

	"campus-finance/app/models"
)

// Each financial hold blocks a fixed set of actions, independent of the
// payment milestone. Holds can revoke access a milestone alone would grant,
// so they are evaluated even when the threshold check passes.
var holdBlockLists = map[models.FinancialHold]map[string]bool{
	models.HoldNoPayment: actionSet(
		"SS_MIDT", "SS_EXAM", "SS_PROJ", "SS_PRES", "SS_MKUP",
		"SS_GRAD", "SS_EXVR", "SS_CERT", "SS_APPL",
		"SC_REGC", "SC_ADDC", "SC_SECC", "SC_WAIT", "SC_NSEM", "SC_GRDA",
		"SR_TRN", "SR_GRDR", "SR_DEGC", "SR_CLRN", "SR_ENRL", "SR_RCMD",
	),
	models.HoldPaymentPlan: actionSet(
		"SS_MIDT", "SS_EXAM", "SS_MKUP", "SS_GRAD", "SS_EXVR",
		"SC_NSEM", "SR_TRN", "SR_GRDR", "SR_DEGC", "SR_CLRN",
	),
	models.HoldOverdue: actionSet(
		"SS_GRAD", "SS_EXVR", "SS_CERT",
		"SC_NSEM", "SC_GRDA",
		"SR_TRN", "SR_GRDR", "SR_DEGC", "SR_CLRN", "SR_RCMD",
	),
	models.HoldExamOffice: actionSet(
		"SS_MIDT", "SS_EXAM", "SS_MKUP", "SS_EXVR",
	),
}

var holdReasons = map[models.FinancialHold]string{
	models.HoldNoPayment:   "a no-payment hold is on the account; no payment has been recorded this semester",
	models.HoldPaymentPlan: "a payment-plan hold is on the account; an agreed payment portion was missed",
	models.HoldOverdue:     "an overdue-balance hold is on the account; settle the outstanding balance first",
	models.HoldExamOffice:  "an examination-office hold is on the account",
}

func actionSet(codes ...string) map[string]bool {
	s := make(map[string]bool, len(codes))
	for _, c := range codes {
		s[c] = true
	}
	return s
}

// blockedByHold reports whether the hold's block-list covers the action.
// Chargeback is not listed here; it blocks structurally in Evaluate.
func blockedByHold(hold models.FinancialHold, actionCode string) bool {
	return holdBlockLists[hold][actionCode]
}

// financeOrProfile reports whether the action lives in a namespace a
// chargeback hold leaves open: the student must still be able to see the
// account and pay.
func financeOrProfile(actionCode string) bool {
	return strings.HasPrefix(actionCode, "SF_") || strings.HasPrefix(actionCode, "SP_")
}
