package eligibility

import (
	"fmt"
	"strings"

	"github.com/jakechorley/roster-engine/pkg/core/model"
)

// Qualification matcher penalties, taken off a 100 point base
const (
	PenaltyMissingQualification = 20.0
	PenaltyExpiredQualification = 30.0
	PenaltyRoleMismatch         = 15.0
	PenaltyLowClassification    = 20.0

	IssueExpiredQualifications = "Has expired qualifications"
)

var qualificationNames = map[string]string{
	"first_aid":       "First Aid Certificate",
	"cpr":             "CPR Certificate",
	"anaphylaxis":     "Anaphylaxis Management",
	"asthma":          "Asthma Management",
	"wwcc":            "Working With Children Check",
	"police_check":    "Police Check",
	"cert3":           "Certificate III",
	"diploma":         "Diploma",
	"ect":             "Early Childhood Teacher",
	"food_safety":     "Food Safety Supervisor",
	"rsa":             "Responsible Service of Alcohol",
	"manual_handling": "Manual Handling",
}

// QualificationName returns the display name of a qualification type
func QualificationName(qualType string) string {
	if name, ok := qualificationNames[qualType]; ok {
		return name
	}
	return qualType
}

// QualificationResult is the outcome of matching a staff member's qualifications to a shift
type QualificationResult struct {
	Qualified bool
	Score     float64
	Issues    []string
}

// MatchQualifications scores how well a staff member's qualifications fit a shift.
//
// Under strict mode a missing required qualification (or a classification below
// the shift minimum) is a hard failure with score 0. Under lenient mode each
// shortfall is a deduction instead. Expired required qualifications and role
// mismatches are always deductions.
func MatchQualifications(staff model.StaffMember, shift model.Shift, strict bool) QualificationResult {
	result := QualificationResult{Qualified: true, Score: 100}

	var missing []string
	expired := false
	for _, required := range shift.RequiredQualifications {
		held, ok := staff.Qualification(required)
		if !ok {
			missing = append(missing, QualificationName(required))
			continue
		}
		if held.IsExpiredOn(shift.Date) {
			expired = true
		}
	}

	// Strict-mode failures are collected so every reason reaches the caller
	var failures []string

	if len(missing) > 0 {
		issue := "Missing: " + strings.Join(missing, ", ")
		if strict {
			failures = append(failures, issue)
		} else {
			result.Score -= PenaltyMissingQualification * float64(len(missing))
			result.Issues = append(result.Issues, issue)
		}
	}

	if shift.MinClassification > 0 && staff.Classification < shift.MinClassification {
		issue := fmt.Sprintf("Classification %d below required %d", staff.Classification, shift.MinClassification)
		if strict {
			failures = append(failures, issue)
		} else {
			result.Score -= PenaltyLowClassification
			result.Issues = append(result.Issues, issue)
		}
	}

	if len(failures) > 0 {
		return QualificationResult{Issues: failures}
	}

	if expired {
		result.Score -= PenaltyExpiredQualification
		result.Issues = append(result.Issues, IssueExpiredQualifications)
	}

	if shift.PreferredRole != "" && staff.Role != shift.PreferredRole {
		result.Score -= PenaltyRoleMismatch
		result.Issues = append(result.Issues, fmt.Sprintf("Role mismatch: shift prefers %s, staff is %s", shift.PreferredRole, roleLabel(staff.Role)))
	}

	result.Score = max(result.Score, 0)
	return result
}

func roleLabel(role string) string {
	if role == "" {
		return "unassigned"
	}
	return role
}
