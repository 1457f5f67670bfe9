package services

import (
	"context"
	"fmt"
	"time"

	"github.com/zmiana/zmiana/internal/config"
	"github.com/zmiana/zmiana/pkg/core/calendar"
	"github.com/zmiana/zmiana/pkg/core/compliance"
	"github.com/zmiana/zmiana/pkg/core/model"
)

// SnapshotStore defines the database operations needed to load a schedule snapshot
type SnapshotStore interface {
	GetEmployees(ctx context.Context) ([]model.Employee, error)
	GetTemplates(ctx context.Context) ([]model.ShiftTemplate, error)
	GetTemplateAssignments(ctx context.Context) ([]model.TemplateAssignment, error)
	GetAbsences(ctx context.Context, from, to string) ([]model.Absence, error)
	GetShifts(ctx context.Context, from, to string) ([]model.Shift, error)
}

// Snapshot is the consistent in-memory dataset all core entry points run
// over. It is loaded once per operation; the core never reads storage.
type Snapshot struct {
	Year  int
	Month int

	Employees   []model.Employee
	Templates   []model.ShiftTemplate
	Assignments []model.TemplateAssignment
	Absences    []model.Absence
	Shifts      []model.Shift
}

// loadSnapshot fetches all schedule data for one month as a consistent snapshot
func loadSnapshot(ctx context.Context, store SnapshotStore, year, month int) (*Snapshot, error) {
	first, last := calendar.MonthRange(year, month)
	from, to := calendar.FormatDate(first), calendar.FormatDate(last)

	employees, err := store.GetEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employees: %w", err)
	}
	templates, err := store.GetTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch templates: %w", err)
	}
	assignments, err := store.GetTemplateAssignments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch template assignments: %w", err)
	}
	absences, err := store.GetAbsences(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch absences: %w", err)
	}
	shifts, err := store.GetShifts(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shifts: %w", err)
	}

	return &Snapshot{
		Year:        year,
		Month:       month,
		Employees:   employees,
		Templates:   templates,
		Assignments: assignments,
		Absences:    absences,
		Shifts:      shifts,
	}, nil
}

// monthlyHours computes the scheduled vs required hour summary per employee
// over the snapshot's shifts. Shifts with malformed times contribute nothing.
func monthlyHours(snapshot *Snapshot, baseline float64) map[string]model.MonthlyHours {
	scheduled := make(map[string]float64)
	for _, s := range snapshot.Shifts {
		hours, err := calendar.ShiftHours(s.StartTime, s.EndTime, s.BreakMinutes)
		if err != nil {
			continue
		}
		scheduled[s.EmployeeID] += hours
	}

	hours := make(map[string]model.MonthlyHours, len(snapshot.Employees))
	for _, e := range snapshot.Employees {
		hours[e.ID] = model.MonthlyHours{
			Scheduled: scheduled[e.ID],
			Required:  e.RequiredMonthlyHours(baseline),
		}
	}
	return hours
}

// rulesFromConfig applies config overrides onto the statutory defaults
func rulesFromConfig(cfg *config.Config) compliance.Rules {
	rules := compliance.DefaultRules()
	if cfg == nil {
		return rules
	}
	if cfg.Rules.MaxConsecutiveDays > 0 {
		rules.MaxConsecutiveDays = cfg.Rules.MaxConsecutiveDays
	}
	if cfg.Rules.FullTimeMonthlyHours > 0 {
		rules.FullTimeMonthlyHours = cfg.Rules.FullTimeMonthlyHours
	}
	return rules
}

// findEmployee looks an employee up by ID
func findEmployee(employees []model.Employee, id string) (model.Employee, error) {
	for _, e := range employees {
		if e.ID == id {
			return e, nil
		}
	}
	return model.Employee{}, fmt.Errorf("employee %s not found", id)
}

// findTemplate looks a shift template up by ID
func findTemplate(templates []model.ShiftTemplate, id string) (model.ShiftTemplate, error) {
	for _, t := range templates {
		if t.ID == id {
			return t, nil
		}
	}
	return model.ShiftTemplate{}, fmt.Errorf("shift template %s not found", id)
}

// monthOf extracts the year and month of a YYYY-MM-DD date
func monthOf(date string) (int, int, error) {
	t, err := calendar.ParseDate(date)
	if err != nil {
		return 0, 0, err
	}
	return t.Year(), int(t.Month()), nil
}

// datesInMonth filters a date list down to the given month
func datesInMonth(dates []string, year, month int) []string {
	var out []string
	for _, d := range dates {
		t, err := calendar.ParseDate(d)
		if err != nil {
			continue
		}
		if t.Year() == year && t.Month() == time.Month(month) {
			out = append(out, d)
		}
	}
	return out
}
