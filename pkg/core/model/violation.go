package model

// ViolationKind identifies the rule a violation was raised against
type ViolationKind string

const (
	// Hard-blocking kinds returned by the single-assignment validator
	ViolationAbsence        ViolationKind = "absence"
	ViolationNotAssigned    ViolationKind = "not_assigned_to_template"
	ViolationAlreadyWorking ViolationKind = "already_working"

	// Advisory / schedule-wide kinds
	ViolationRest11h         ViolationKind = "rest_11h"
	ViolationDailyHours      ViolationKind = "daily_hours"
	ViolationWeeklyHours     ViolationKind = "weekly_hours"
	ViolationRest35h         ViolationKind = "rest_35h"
	ViolationConsecutiveDays ViolationKind = "consecutive_days"
	ViolationStaffingMin     ViolationKind = "staffing_min"
	ViolationStaffingMax     ViolationKind = "staffing_max"
)

// SystemEmployeeName is the pseudo-employee used for staffing-level violations
// that are not attributable to a single employee
const SystemEmployeeName = "system"

// Violation is an output-only compliance finding. Violations are recomputed
// wholesale on every call and never stored or diffed.
type Violation struct {
	Kind         ViolationKind
	EmployeeID   string
	EmployeeName string
	Details      string
	// Dates lists the affected calendar dates (YYYY-MM-DD)
	Dates []string
}

// DataError reports a per-employee input problem encountered during a
// schedule-wide scan. One employee's malformed rows must not blank out the
// findings for everyone else, so these are surfaced alongside the violations.
type DataError struct {
	EmployeeID string
	Err        error
}

// SuggestionKind distinguishes free candidates from move candidates
type SuggestionKind string

const (
	SuggestionFree SuggestionKind = "free"
	SuggestionMove SuggestionKind = "move"
)

// Suggestion is a ranked candidate for filling or rebalancing a shift.
// Score is advisory: 0 means disqualified but the entry is still listed.
type Suggestion struct {
	Employee Employee
	Kind     SuggestionKind
	Score    float64
	Reason   string

	// Overtime is set when the assignment would push the employee over
	// their monthly hour budget
	Overtime bool
	// NeutralSwap marks a move that does not grow the hours of an
	// employee already at or over budget
	NeutralSwap bool
	// ProjectedHours is the employee's scheduled hours after the proposed change
	ProjectedHours float64

	// Move candidates only: the shift being vacated and the headcount on
	// its slot before and after the move
	SourceShift       *Shift
	SourceStaffBefore int
	SourceStaffAfter  int
}
