package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/zmiana/zmiana/internal/config"
	"github.com/zmiana/zmiana/pkg/core/calendar"
	"github.com/zmiana/zmiana/pkg/core/compliance"
	"github.com/zmiana/zmiana/pkg/core/model"
	"github.com/zmiana/zmiana/pkg/core/schedule"
)

// AssignmentStore defines the database operations needed to apply an assignment
type AssignmentStore interface {
	SnapshotStore
	ApplyShiftChanges(ctx context.Context, changes schedule.Changes) error
}

// ApplyResult reports the outcome of an assignment attempt.
// Exactly one of Blocked / NoOp / Shift describes what happened; Warning may
// accompany a persisted shift.
type ApplyResult struct {
	// Blocked is the hard-blocking violation that prevented the write, if any
	Blocked *model.Violation
	// Warning is the non-blocking rest advisory; the shift is persisted anyway
	Warning *model.Violation
	// NoOp is set when the employee already occupies this exact (date, template) cell
	NoOp bool
	// Shift is the persisted shift when the assignment went through
	Shift *model.Shift
}

// ApplyAssignment validates and persists a single (employee, date, template)
// assignment. Hard blocks (absence, allow-list, double booking) refuse the
// write; the 11h rest finding is surfaced as a warning but never blocks.
func ApplyAssignment(
	ctx context.Context,
	store AssignmentStore,
	cfg *config.Config,
	logger *zap.Logger,
	employeeID, date, templateID string,
) (*ApplyResult, error) {
	logger.Debug("Starting applyAssignment",
		zap.String("employee_id", employeeID),
		zap.String("date", date),
		zap.String("template_id", templateID))

	year, month, err := monthOf(date)
	if err != nil {
		return nil, err
	}

	snapshot, err := loadSnapshot(ctx, store, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule snapshot: %w", err)
	}

	employee, err := findEmployee(snapshot.Employees, employeeID)
	if err != nil {
		return nil, err
	}
	template, err := findTemplate(snapshot.Templates, templateID)
	if err != nil {
		return nil, err
	}

	// Same-cell drop is a no-op, not a violation
	if occupiesCell(snapshot.Shifts, employeeID, date, template) {
		logger.Info("Assignment is a no-op, employee already occupies the cell",
			zap.String("employee_id", employeeID),
			zap.String("date", date))
		return &ApplyResult{NoOp: true}, nil
	}

	input := compliance.AssignmentInput{
		Employee:     employee,
		Date:         date,
		Template:     template,
		ActiveShifts: snapshot.Shifts,
		Absences:     snapshot.Absences,
		Assignments:  snapshot.Assignments,
	}

	blocked, err := compliance.CheckAssignment(input)
	if err != nil {
		return nil, fmt.Errorf("assignment validation failed: %w", err)
	}
	if blocked != nil {
		logger.Info("Assignment blocked",
			zap.String("employee_id", employeeID),
			zap.String("kind", string(blocked.Kind)))
		return &ApplyResult{Blocked: blocked}, nil
	}

	warning, err := compliance.RestAdvisory(input)
	if err != nil {
		return nil, fmt.Errorf("rest advisory failed: %w", err)
	}

	journal := schedule.NewJournal()
	shift := journal.Add(model.Shift{
		EmployeeID:   employeeID,
		Date:         date,
		StartTime:    template.StartTime,
		EndTime:      template.EndTime,
		BreakMinutes: template.BreakMinutes,
	})

	if err := store.ApplyShiftChanges(ctx, journal.Changes()); err != nil {
		return nil, fmt.Errorf("failed to save assignment: %w", err)
	}

	logger.Info("Assignment saved",
		zap.String("shift_id", shift.ID),
		zap.String("employee_id", employeeID),
		zap.String("date", date),
		zap.Bool("rest_warning", warning != nil))

	return &ApplyResult{Warning: warning, Shift: &shift}, nil
}

// occupiesCell reports whether the employee already has an active shift on
// the date with the template's exact times
func occupiesCell(shifts []model.Shift, employeeID, date string, template model.ShiftTemplate) bool {
	targetStart, err := calendar.NormalizeClock(template.StartTime)
	if err != nil {
		return false
	}
	targetEnd, err := calendar.NormalizeClock(template.EndTime)
	if err != nil {
		return false
	}
	for _, s := range shifts {
		if s.EmployeeID != employeeID || s.Date != date {
			continue
		}
		start, err := calendar.NormalizeClock(s.StartTime)
		if err != nil {
			continue
		}
		end, err := calendar.NormalizeClock(s.EndTime)
		if err != nil {
			continue
		}
		if start == targetStart && end == targetEnd {
			return true
		}
	}
	return false
}
