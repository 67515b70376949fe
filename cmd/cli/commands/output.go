package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jakechorley/roster-engine/pkg/core/compliance"
	"github.com/jakechorley/roster-engine/pkg/core/payrules"
	"github.com/jakechorley/roster-engine/pkg/core/services"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// severityColor picks the color a compliance flag is printed in
func severityColor(s compliance.Severity) string {
	switch s {
	case compliance.SeverityCritical:
		return colorRed
	case compliance.SeverityWarning:
		return colorYellow
	default:
		return colorDim
	}
}

// fillRateColor is green when every shift is filled, yellow from half and red below
func fillRateColor(rate float64) string {
	switch {
	case rate >= 100:
		return colorGreen
	case rate >= 50:
		return colorYellow
	default:
		return colorRed
	}
}

func renderRun(w io.Writer, result *services.AllocationResult) {
	run := result.Run
	fmt.Fprintf(w, "\nAllocation run %s\n\n", run.ID)

	shiftColWidth := 10
	staffColWidth := 10
	for _, a := range run.Assignments {
		shiftColWidth = max(shiftColWidth, len(a.ShiftID)+2)
		staffColWidth = max(staffColWidth, len(a.StaffID)+2)
	}

	fmt.Fprintf(w, "%-12s%-*s%-*s%-7s%-10s%s\n", "Date", shiftColWidth, "Shift", staffColWidth, "Staff", "Score", "Cost", "Issues")
	fmt.Fprintln(w, strings.Repeat("-", 12+shiftColWidth+staffColWidth+7+10+6))

	for _, a := range run.Assignments {
		staff := a.StaffID
		if !a.IsAssigned() {
			staff = "-"
		}
		if a.Overridden {
			staff += "*"
		}
		cost := "-"
		if a.IsAssigned() {
			cost = a.EstimatedCost.StringFixed(2)
		}
		issues := strings.Join(a.Issues, "; ")

		line := fmt.Sprintf("%-12s%-*s%-*s%-7d%-10s%s", a.Date, shiftColWidth, a.ShiftID, staffColWidth, staff, a.Score, cost, issues)
		if !a.IsAssigned() {
			fmt.Fprintf(w, "%s%s%s\n", colorRed, line, colorReset)
			continue
		}
		fmt.Fprintln(w, line)
	}

	stats := run.Stats
	fmt.Fprintf(w, "\nAssigned %d/%d shifts (%s%.1f%%%s), estimated cost %s\n",
		stats.Assigned, stats.TotalShifts, fillRateColor(stats.FillRate), stats.FillRate, colorReset, stats.TotalCost.StringFixed(2))

	if len(result.RefusedOverrides) > 0 {
		fmt.Fprintf(w, "\n%sRefused overrides:%s\n", colorYellow, colorReset)
		for _, o := range result.RefusedOverrides {
			fmt.Fprintf(w, "  ✗ %s=%s\n", o.ShiftID, o.StaffID)
		}
	}

	if len(result.ValidationErrors) > 0 {
		fmt.Fprintf(w, "\n%sValidation errors:%s\n", colorRed, colorReset)
		for _, ve := range result.ValidationErrors {
			fmt.Fprintf(w, "  ✗ %s (%s) [%s]: %s\n", ve.ShiftID, ve.ShiftDate, ve.Check, ve.Description)
		}
	}
	fmt.Fprintln(w)
}

func renderBreakdown(w io.Writer, b *payrules.OvertimeBreakdown) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Ordinary:        %6.2fh  %10s\n", b.OrdinaryHours, b.OrdinaryPay.StringFixed(2))
	fmt.Fprintf(w, "Overtime x1.5:   %6.2fh  %10s\n", b.Overtime15Hours, b.Overtime15Pay.StringFixed(2))
	fmt.Fprintf(w, "Overtime x2:     %6.2fh  %10s\n", b.Overtime2Hours, b.Overtime2Pay.StringFixed(2))
	fmt.Fprintf(w, "Penalty pay:               %10s\n", b.PenaltyPay.StringFixed(2))
	fmt.Fprintf(w, "Casual loading:            %10s\n", b.CasualLoadingPay.StringFixed(2))
	fmt.Fprintln(w, strings.Repeat("-", 37))
	fmt.Fprintf(w, "Gross pay:                 %10s\n", b.GrossPay.StringFixed(2))
	fmt.Fprintf(w, "Effective hourly rate:     %10s\n", b.EffectiveHourlyRate.StringFixed(2))

	if len(b.Reasons) > 0 {
		fmt.Fprintln(w, "\nApplied:")
		for _, r := range b.Reasons {
			fmt.Fprintf(w, "  - %s\n", r)
		}
	}
	fmt.Fprintln(w)
}

func renderReview(w io.Writer, review *services.TimesheetReview) {
	v := review.Validation
	fmt.Fprintf(w, "\nTimesheet %s (staff %s)\n\n", v.TimesheetID, v.StaffID)

	switch {
	case v.IsCompliant:
		fmt.Fprintf(w, "%s✓ Compliant%s\n", colorGreen, colorReset)
	case v.CanSubmit:
		fmt.Fprintf(w, "%s⚠ Can be submitted with warnings%s\n", colorYellow, colorReset)
	default:
		fmt.Fprintf(w, "%s✗ Blocked from submission%s\n", colorRed, colorReset)
	}

	fmt.Fprintf(w, "Hours: %.2f (overtime %.2f), gross pay %s\n", v.TotalHours, v.OvertimeHours, v.Pay.GrossPay.StringFixed(2))

	if len(v.Flags) > 0 {
		fmt.Fprintln(w, "\nFlags:")
		for _, f := range v.Flags {
			date := f.Date
			if date == "" {
				date = "week"
			}
			fmt.Fprintf(w, "  %s%-8s %-10s %s%s\n", severityColor(f.Severity), f.Severity, date, f.Description, colorReset)
		}
	}

	if review.Chain != nil {
		fmt.Fprintf(w, "\nApproval chain %s:\n", review.Chain.ID)
		for i, s := range review.Chain.Steps {
			fmt.Fprintf(w, "  %d. %-15s %-9s due %s  %s\n", i+1, s.Tier, s.Status, s.Deadline.Format("2006-01-02 15:04"), s.Reason)
		}
	}
	fmt.Fprintln(w)
}

func renderPresets(w io.Writer, presets []services.PresetSummary) {
	fmt.Fprintf(w, "\n%-20s%-7s%-14s%-16s%-10s%s\n", "Preset", "Cost", "Availability", "Qualifications", "Fairness", "Preference")
	for _, p := range presets {
		fmt.Fprintf(w, "%-20s%-7.2f%-14.2f%-16.2f%-10.2f%.2f\n",
			p.Name, p.Weights.Cost, p.Weights.Availability, p.Weights.Qualifications, p.Weights.Fairness, p.Weights.Preference)
	}
	fmt.Fprintln(w)
}
