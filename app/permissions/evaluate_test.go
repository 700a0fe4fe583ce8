package permissions

import (
	"strings"
	"testing"

	"campus-finance/app/models"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name       string
		action     string
		milestone  models.Milestone
		hold       models.FinancialHold
		visibility models.GradesVisibility
		allowed    bool
		reasonHas  string
	}{
		{name: "materials at PM10", action: "SS_MTRL", milestone: models.MilestonePM10, allowed: true},
		{name: "materials below threshold", action: "SS_MTRL", milestone: models.MilestonePM00, allowed: false, reasonHas: "PM10"},
		{name: "exam at PM60", action: "SS_EXAM", milestone: models.MilestonePM60, allowed: true},
		{name: "exam just below", action: "SS_EXAM", milestone: models.MilestonePM30, allowed: false, reasonHas: "PM60"},
		{name: "empty milestone treated as PM00", action: "SS_SYLB", allowed: false, reasonHas: "PM00"},

		// chargeback overrides everything, even full payment
		{name: "chargeback blocks exam at PM100", action: "SS_EXAM", milestone: models.MilestonePM100, hold: models.HoldChargeback, allowed: false, reasonHas: "chargeback"},
		{name: "chargeback leaves finance open", action: "SF_PAYN", milestone: models.MilestonePM00, hold: models.HoldChargeback, allowed: true},
		{name: "chargeback leaves profile open", action: "SP_PROF", milestone: models.MilestonePM00, hold: models.HoldChargeback, allowed: true},

		// holds revoke access the milestone alone would grant
		{name: "overdue hold blocks transcript at PM100", action: "SR_TRN", milestone: models.MilestonePM100, hold: models.HoldOverdue, allowed: false, reasonHas: "overdue"},
		{name: "overdue hold blocks grades at PM100", action: "SS_GRAD", milestone: models.MilestonePM100, hold: models.HoldOverdue, allowed: false, reasonHas: "overdue"},
		{name: "exam hold blocks exam only", action: "SS_EXAM", milestone: models.MilestonePM100, hold: models.HoldExamOffice, allowed: false, reasonHas: "examination"},
		{name: "exam hold does not block materials", action: "SS_MTRL", milestone: models.MilestonePM100, hold: models.HoldExamOffice, allowed: true},
		{name: "no-payment hold blocks registration", action: "SC_REGC", milestone: models.MilestonePM60, hold: models.HoldNoPayment, allowed: false, reasonHas: "no-payment"},

		// grade visibility is a second gate on top of PM100
		{name: "grades released at PM100", action: "SS_GRAD", milestone: models.MilestonePM100, visibility: models.GradesReleased, allowed: true},
		{name: "grades below threshold despite release", action: "SS_GRAD", milestone: models.MilestonePM90, visibility: models.GradesReleased, allowed: false, reasonHas: "PM100"},
		{name: "grades hidden at PM100", action: "SS_GRAD", milestone: models.MilestonePM100, visibility: models.GradesHidden, allowed: false, reasonHas: "withheld"},
		{name: "verification hidden at PM100", action: "SS_EXVR", milestone: models.MilestonePM100, visibility: models.GradesHidden, allowed: false, reasonHas: "withheld"},

		// unknown codes fail open
		{name: "unknown action allowed", action: "SX_WHAT", milestone: models.MilestonePM00, allowed: true, reasonHas: "not milestone-gated"},
		{name: "unknown action still chargeback-frozen", action: "SX_WHAT", milestone: models.MilestonePM100, hold: models.HoldChargeback, allowed: false},

		// ungated portal actions
		{name: "invoices visible with no payment", action: "SF_INVV", milestone: models.MilestonePM00, hold: models.HoldNoPayment, allowed: true},
		{name: "transcript at PM100 no hold", action: "SR_TRN", milestone: models.MilestonePM100, allowed: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Evaluate(tt.action, tt.milestone, tt.hold, tt.visibility)
			if d.Allowed != tt.allowed {
				t.Fatalf("Evaluate(%q, %q, %q, %q) allowed = %v, want %v (reason: %s)",
					tt.action, tt.milestone, tt.hold, tt.visibility, d.Allowed, tt.allowed, d.Reason)
			}
			if tt.reasonHas != "" && !strings.Contains(d.Reason, tt.reasonHas) {
				t.Errorf("reason %q does not mention %q", d.Reason, tt.reasonHas)
			}
		})
	}
}

// Distinct failure modes must be tellable apart by reason text.
func TestEvaluateReasonsDistinguishable(t *testing.T) {
	threshold := Evaluate("SS_GRAD", models.MilestonePM90, "", models.GradesReleased)
	visibility := Evaluate("SS_GRAD", models.MilestonePM100, "", models.GradesHidden)
	hold := Evaluate("SS_GRAD", models.MilestonePM100, models.HoldOverdue, models.GradesReleased)

	for _, d := range []Decision{threshold, visibility, hold} {
		if d.Allowed {
			t.Fatalf("expected denial, got allow: %+v", d)
		}
	}
	if threshold.Reason == visibility.Reason || threshold.Reason == hold.Reason || visibility.Reason == hold.Reason {
		t.Errorf("denial reasons are not distinguishable: %q / %q / %q",
			threshold.Reason, visibility.Reason, hold.Reason)
	}
}

// Every subject action with a threshold at or below 100 must be allowed at
// PM100 with grades released.
func TestEvaluateFullPaymentOpensSubjectActions(t *testing.T) {
	for code := range subjectActions {
		d := Evaluate(code, models.MilestonePM100, "", models.GradesReleased)
		if !d.Allowed {
			t.Errorf("Evaluate(%q, PM100) = denied: %s", code, d.Reason)
		}
	}
}

func TestVocabularyIsDisjoint(t *testing.T) {
	for code := range subjectActions {
		if _, ok := studentActions[code]; ok {
			t.Errorf("action %q appears in both tables", code)
		}
	}
}
