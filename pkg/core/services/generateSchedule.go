package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/zmiana/zmiana/internal/config"
	"github.com/zmiana/zmiana/pkg/clients/generatorclient"
	"github.com/zmiana/zmiana/pkg/core/calendar"
	"github.com/zmiana/zmiana/pkg/core/compliance"
	"github.com/zmiana/zmiana/pkg/core/model"
	"github.com/zmiana/zmiana/pkg/core/schedule"
)

// GeneratorClient is the part of the generator service client used here
type GeneratorClient interface {
	Generate(ctx context.Context, request generatorclient.GenerateRequest) (*generatorclient.GenerateResponse, error)
}

// GenerateScheduleResult reports the generated shifts and their compliance scan
type GenerateScheduleResult struct {
	Generated  []model.Shift
	Violations []model.Violation
	DataErrors []model.DataError
	Details    *generatorclient.GenerateDetails
	DryRun     bool
}

// GenerateSchedule asks the external generation service for a bulk schedule,
// journals the proposed shifts and runs the schedule-wide detector over the
// combined result. The generator is treated as an opaque producer; every
// shift it proposes still goes through the compliance core. With dryRun set,
// nothing is persisted.
func GenerateSchedule(
	ctx context.Context,
	store AssignmentStore,
	client GeneratorClient,
	cfg *config.Config,
	logger *zap.Logger,
	year, month int,
	dryRun bool,
) (*GenerateScheduleResult, error) {
	logger.Debug("Starting generateSchedule",
		zap.Int("year", year),
		zap.Int("month", month),
		zap.Bool("dry_run", dryRun))

	snapshot, err := loadSnapshot(ctx, store, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule snapshot: %w", err)
	}

	rules := rulesFromConfig(cfg)
	request := buildGenerateRequest(snapshot, cfg, rules.FullTimeMonthlyHours, year, month)

	logger.Debug("Calling generator service",
		zap.Int("employees", len(request.Employees)),
		zap.Int("templates", len(request.Templates)),
		zap.Int("work_days", len(request.WorkDays)))

	response, err := client.Generate(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("generator service call failed: %w", err)
	}
	logger.Debug("Generator returned schedule", zap.Int("shifts", len(response.Schedule)))

	journal := schedule.NewJournal()
	generated := make([]model.Shift, 0, len(response.Schedule))
	for _, g := range response.Schedule {
		shift := journal.Add(model.Shift{
			EmployeeID:   g.EmployeeID,
			Date:         g.Date,
			StartTime:    g.StartTime,
			EndTime:      g.EndTime,
			BreakMinutes: g.BreakMinutes,
		})
		generated = append(generated, shift)
	}

	report := compliance.Detect(compliance.DetectInput{
		Shifts:    journal.Active(snapshot.Shifts),
		Employees: snapshot.Employees,
		Absences:  snapshot.Absences,
		Templates: snapshot.Templates,
		Rules:     rules,
	})
	for _, dataErr := range report.DataErrors {
		logger.Warn("Skipped employee while scanning generated schedule",
			zap.String("employee_id", dataErr.EmployeeID),
			zap.Error(dataErr.Err))
	}

	if !dryRun {
		if err := store.ApplyShiftChanges(ctx, journal.Changes()); err != nil {
			return nil, fmt.Errorf("failed to save generated schedule: %w", err)
		}
	}

	logger.Info("Schedule generated",
		zap.Int("year", year),
		zap.Int("month", month),
		zap.Int("shifts", len(generated)),
		zap.Int("violations", len(report.Violations)),
		zap.Bool("dry_run", dryRun))

	return &GenerateScheduleResult{
		Generated:  generated,
		Violations: report.Violations,
		DataErrors: report.DataErrors,
		Details:    response.Details,
		DryRun:     dryRun,
	}, nil
}

// buildGenerateRequest assembles the generator payload: roster, templates,
// and the month's day calendar split into work days, Saturdays and trading
// Sundays, with configured holidays removed from the work days.
func buildGenerateRequest(snapshot *Snapshot, cfg *config.Config, baseline float64, year, month int) generatorclient.GenerateRequest {
	var holidays, tradingSundays []string
	if cfg != nil {
		holidays = datesInMonth(cfg.Holidays, year, month)
		tradingSundays = datesInMonth(cfg.TradingSundays, year, month)
	}
	holidaySet := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		holidaySet[h] = true
	}

	var workDays, saturdays []string
	first, last := calendar.MonthRange(year, month)
	for day := first; !day.After(last); day = calendar.AddDays(day, 1) {
		date := calendar.FormatDate(day)
		if holidaySet[date] {
			continue
		}
		switch day.Weekday() {
		case time.Saturday:
			saturdays = append(saturdays, date)
		case time.Sunday:
			// Sundays are only workable when configured as trading Sundays
		default:
			workDays = append(workDays, date)
		}
	}

	templateIDsByEmployee := make(map[string][]string)
	for _, a := range snapshot.Assignments {
		templateIDsByEmployee[a.EmployeeID] = append(templateIDsByEmployee[a.EmployeeID], a.TemplateID)
	}

	employees := make([]generatorclient.GenerateEmployee, 0, len(snapshot.Employees))
	for _, e := range snapshot.Employees {
		employees = append(employees, generatorclient.GenerateEmployee{
			ID:             e.ID,
			Name:           e.FullName(),
			EmploymentType: string(e.EmploymentType),
			RequiredHours:  e.RequiredMonthlyHours(baseline),
			TemplateIDs:    templateIDsByEmployee[e.ID],
		})
	}

	templates := make([]generatorclient.GenerateTemplate, 0, len(snapshot.Templates))
	for _, t := range snapshot.Templates {
		weekdays := make([]int, 0, len(t.Weekdays))
		for _, wd := range t.Weekdays {
			weekdays = append(weekdays, int(wd))
		}
		templates = append(templates, generatorclient.GenerateTemplate{
			ID:           t.ID,
			StartTime:    t.StartTime,
			EndTime:      t.EndTime,
			BreakMinutes: t.BreakMinutes,
			MinEmployees: t.MinEmployees,
			MaxEmployees: t.MaxEmployees,
			Weekdays:     weekdays,
		})
	}

	return generatorclient.GenerateRequest{
		Employees:      employees,
		Templates:      templates,
		Settings:       generatorclient.GenerateSettings{},
		Holidays:       holidays,
		WorkDays:       workDays,
		SaturdayDays:   saturdays,
		TradingSundays: tradingSundays,
		Year:           year,
		Month:          month,
	}
}
