package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/zmiana/zmiana/pkg/core/model"
)

// GetEmployees retrieves all employee records
func (d *DB) GetEmployees(ctx context.Context) ([]model.Employee, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, first_name, last_name, employment_type, custom_hours
		FROM employee
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []model.Employee
	for rows.Next() {
		var e model.Employee
		var employmentType string
		var customHours *float64
		if err := rows.Scan(&e.ID, &e.FirstName, &e.LastName, &employmentType, &customHours); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		e.EmploymentType = model.EmploymentType(employmentType)
		if customHours != nil {
			e.CustomHours = *customHours
		}
		employees = append(employees, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employees: %w", err)
	}

	return employees, nil
}

// GetTemplates retrieves all shift template records
func (d *DB) GetTemplates(ctx context.Context) ([]model.ShiftTemplate, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, start_time, end_time, break_minutes, min_employees, max_employees, weekdays
		FROM shift_template
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query shift templates: %w", err)
	}
	defer rows.Close()

	var templates []model.ShiftTemplate
	for rows.Next() {
		var t model.ShiftTemplate
		var weekdays []int
		if err := rows.Scan(&t.ID, &t.Name, &t.StartTime, &t.EndTime, &t.BreakMinutes, &t.MinEmployees, &t.MaxEmployees, &weekdays); err != nil {
			return nil, fmt.Errorf("failed to scan shift template: %w", err)
		}
		for _, wd := range weekdays {
			t.Weekdays = append(t.Weekdays, time.Weekday(wd))
		}
		templates = append(templates, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shift templates: %w", err)
	}

	return templates, nil
}

// GetTemplateAssignments retrieves all template allow-list rows
func (d *DB) GetTemplateAssignments(ctx context.Context) ([]model.TemplateAssignment, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT employee_id, template_id
		FROM template_assignment
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query template assignments: %w", err)
	}
	defer rows.Close()

	var assignments []model.TemplateAssignment
	for rows.Next() {
		var a model.TemplateAssignment
		if err := rows.Scan(&a.EmployeeID, &a.TemplateID); err != nil {
			return nil, fmt.Errorf("failed to scan template assignment: %w", err)
		}
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating template assignments: %w", err)
	}

	return assignments, nil
}

// GetAbsences retrieves absences overlapping the given inclusive date window
func (d *DB) GetAbsences(ctx context.Context, from, to string) ([]model.Absence, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT employee_id, start_date, end_date, absence_type
		FROM absence
		WHERE start_date <= $2 AND end_date >= $1
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query absences: %w", err)
	}
	defer rows.Close()

	var absences []model.Absence
	for rows.Next() {
		var a model.Absence
		var absenceType string
		if err := rows.Scan(&a.EmployeeID, &a.StartDate, &a.EndDate, &absenceType); err != nil {
			return nil, fmt.Errorf("failed to scan absence: %w", err)
		}
		a.Type = model.AbsenceType(absenceType)
		absences = append(absences, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating absences: %w", err)
	}

	return absences, nil
}
