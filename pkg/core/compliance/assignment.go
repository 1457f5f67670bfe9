package compliance

import (
	"fmt"

	"github.com/zmiana/zmiana/pkg/core/calendar"
	"github.com/zmiana/zmiana/pkg/core/model"
)

// AssignmentInput is the snapshot a single-assignment check runs against
type AssignmentInput struct {
	Employee model.Employee
	Date     string // YYYY-MM-DD
	Template model.ShiftTemplate

	ActiveShifts []model.Shift
	Absences     []model.Absence
	Assignments  []model.TemplateAssignment

	// ExcludeShiftID is set when validating a move, so the shift being
	// moved does not collide with itself
	ExcludeShiftID string
}

// CheckAssignment validates a candidate (employee, date, template) assignment
// against the current schedule state and returns the first blocking violation,
// or nil when the assignment is legal. The check order is deliberate policy:
// absence, then template permission, then double booking.
//
// Cheap enough to run synchronously on every drag-drop: O(shifts) per call.
//
// The 11-hour rest rule is intentionally not checked here; it is a
// non-blocking advisory evaluated by RestAdvisory.
func CheckAssignment(in AssignmentInput) (*model.Violation, error) {
	if _, err := calendar.ParseDate(in.Date); err != nil {
		return nil, err
	}

	if IsAbsent(in.Employee.ID, in.Date, in.Absences) {
		return &model.Violation{
			Kind:         model.ViolationAbsence,
			EmployeeID:   in.Employee.ID,
			EmployeeName: in.Employee.FullName(),
			Details:      fmt.Sprintf("%s is absent on %s", in.Employee.FullName(), in.Date),
			Dates:        []string{in.Date},
		}, nil
	}

	if !IsPermitted(in.Employee.ID, in.Template.ID, in.Assignments) {
		return &model.Violation{
			Kind:         model.ViolationNotAssigned,
			EmployeeID:   in.Employee.ID,
			EmployeeName: in.Employee.FullName(),
			Details:      fmt.Sprintf("%s is not assigned to template %s", in.Employee.FullName(), in.Template.Name),
			Dates:        []string{in.Date},
		}, nil
	}

	targetStart, err := calendar.NormalizeClock(in.Template.StartTime)
	if err != nil {
		return nil, err
	}
	targetEnd, err := calendar.NormalizeClock(in.Template.EndTime)
	if err != nil {
		return nil, err
	}

	for _, shift := range in.ActiveShifts {
		if shift.EmployeeID != in.Employee.ID || shift.Date != in.Date {
			continue
		}
		if in.ExcludeShiftID != "" && shift.ID == in.ExcludeShiftID {
			continue
		}
		start, err := calendar.NormalizeClock(shift.StartTime)
		if err != nil {
			return nil, fmt.Errorf("shift %s: %w", shift.ID, err)
		}
		end, err := calendar.NormalizeClock(shift.EndTime)
		if err != nil {
			return nil, fmt.Errorf("shift %s: %w", shift.ID, err)
		}
		if start == targetStart && end == targetEnd {
			return &model.Violation{
				Kind:         model.ViolationAlreadyWorking,
				EmployeeID:   in.Employee.ID,
				EmployeeName: in.Employee.FullName(),
				Details:      fmt.Sprintf("%s already works %s-%s on %s", in.Employee.FullName(), start, end, in.Date),
				Dates:        []string{in.Date},
			}, nil
		}
	}

	return nil, nil
}

// RestAdvisory checks the 11-hour daily rest rule for a candidate assignment
// against the employee's neighbouring shifts. The finding is a soft warning:
// callers surface it to the user but still persist the assignment.
func RestAdvisory(in AssignmentInput) (*model.Violation, error) {
	date, err := calendar.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}
	prevDate := calendar.FormatDate(calendar.AddDays(date, -1))
	nextDate := calendar.FormatDate(calendar.AddDays(date, 1))

	for _, shift := range in.ActiveShifts {
		if shift.EmployeeID != in.Employee.ID {
			continue
		}
		if in.ExcludeShiftID != "" && shift.ID == in.ExcludeShiftID {
			continue
		}

		var gap float64
		var gapErr error
		switch shift.Date {
		case prevDate:
			gap, gapErr = calendar.RestHours(shift.Date, shift.StartTime, shift.EndTime, in.Date, in.Template.StartTime)
		case nextDate:
			gap, gapErr = calendar.RestHours(in.Date, in.Template.StartTime, in.Template.EndTime, shift.Date, shift.StartTime)
		default:
			continue
		}
		if gapErr != nil {
			return nil, fmt.Errorf("shift %s: %w", shift.ID, gapErr)
		}

		if gap >= 0 && gap < MinDailyRestHours {
			return &model.Violation{
				Kind:         model.ViolationRest11h,
				EmployeeID:   in.Employee.ID,
				EmployeeName: in.Employee.FullName(),
				Details:      fmt.Sprintf("only %.1fh rest around the shift on %s (minimum %.0fh)", gap, in.Date, MinDailyRestHours),
				Dates:        []string{shift.Date, in.Date},
			}, nil
		}
	}

	return nil, nil
}
