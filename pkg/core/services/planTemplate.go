package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/zmiana/zmiana/internal/config"
	"github.com/zmiana/zmiana/pkg/core/compliance"
	"github.com/zmiana/zmiana/pkg/core/model"
	"github.com/zmiana/zmiana/pkg/core/schedule"
)

// SkippedDate records why one occurrence of a planned template was not added
type SkippedDate struct {
	Date      string
	Violation model.Violation
}

// PlanTemplateResult reports a bulk quick-add outcome
type PlanTemplateResult struct {
	Added    []model.Shift
	Skipped  []SkippedDate
	Warnings []model.Violation
}

// PlanTemplate bulk-adds an employee onto every applicable date of a template
// within a month (template quick-add). Each occurrence is validated
// individually: blocked dates are skipped and reported, rest advisories are
// collected as warnings, and the surviving shifts are saved in one batch.
func PlanTemplate(
	ctx context.Context,
	store AssignmentStore,
	cfg *config.Config,
	logger *zap.Logger,
	employeeID, templateID string,
	year, month int,
) (*PlanTemplateResult, error) {
	logger.Debug("Starting planTemplate",
		zap.String("employee_id", employeeID),
		zap.String("template_id", templateID),
		zap.Int("year", year),
		zap.Int("month", month))

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

	dates, err := schedule.TemplateOccurrences(template, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to expand template occurrences: %w", err)
	}
	logger.Debug("Template occurrences expanded", zap.Int("dates", len(dates)))

	journal := schedule.NewJournal()
	result := &PlanTemplateResult{}

	for _, date := range dates {
		if occupiesCell(snapshot.Shifts, employeeID, date, template) {
			continue // already in the cell, quick-add is a no-op for this date
		}

		input := compliance.AssignmentInput{
			Employee:     employee,
			Date:         date,
			Template:     template,
			ActiveShifts: journal.Active(snapshot.Shifts),
			Absences:     snapshot.Absences,
			Assignments:  snapshot.Assignments,
		}

		blocked, err := compliance.CheckAssignment(input)
		if err != nil {
			return nil, fmt.Errorf("validation failed for %s: %w", date, err)
		}
		if blocked != nil {
			result.Skipped = append(result.Skipped, SkippedDate{Date: date, Violation: *blocked})
			continue
		}

		warning, err := compliance.RestAdvisory(input)
		if err != nil {
			return nil, fmt.Errorf("rest advisory failed for %s: %w", date, err)
		}
		if warning != nil {
			result.Warnings = append(result.Warnings, *warning)
		}

		shift := journal.Add(model.Shift{
			EmployeeID:   employeeID,
			Date:         date,
			StartTime:    template.StartTime,
			EndTime:      template.EndTime,
			BreakMinutes: template.BreakMinutes,
		})
		result.Added = append(result.Added, shift)
	}

	if journal.Empty() {
		logger.Info("Nothing to plan, no dates added")
		return result, nil
	}

	if err := store.ApplyShiftChanges(ctx, journal.Changes()); err != nil {
		return nil, fmt.Errorf("failed to save planned shifts: %w", err)
	}

	logger.Info("Template planned",
		zap.String("employee_id", employeeID),
		zap.String("template_id", templateID),
		zap.Int("added", len(result.Added)),
		zap.Int("skipped", len(result.Skipped)),
		zap.Int("warnings", len(result.Warnings)))

	return result, nil
}
