package model

import "time"

// EmploymentType describes the employment fraction of an employee
type EmploymentType string

const (
	EmploymentFull         EmploymentType = "full"
	EmploymentThreeQuarter EmploymentType = "three_quarter"
	EmploymentHalf         EmploymentType = "half"
	EmploymentOneThird     EmploymentType = "one_third"
	EmploymentCustom       EmploymentType = "custom"
)

func (e EmploymentType) IsValid() bool {
	switch e {
	case EmploymentFull, EmploymentThreeQuarter, EmploymentHalf, EmploymentOneThird, EmploymentCustom:
		return true
	}
	return false
}

// Employee represents a schedulable employee
type Employee struct {
	ID             string
	FirstName      string
	LastName       string
	EmploymentType EmploymentType
	// CustomHours is the required monthly hours, only meaningful when
	// EmploymentType is EmploymentCustom
	CustomHours float64
}

// FullName returns the display name used in violation and suggestion output
func (e Employee) FullName() string {
	if e.FirstName == "" {
		return e.LastName
	}
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// RequiredMonthlyHours derives the monthly hour budget from the employment
// fraction and the full-time baseline (e.g. 160h)
func (e Employee) RequiredMonthlyHours(fullTimeBaseline float64) float64 {
	switch e.EmploymentType {
	case EmploymentThreeQuarter:
		return fullTimeBaseline * 0.75
	case EmploymentHalf:
		return fullTimeBaseline * 0.5
	case EmploymentOneThird:
		return fullTimeBaseline / 3
	case EmploymentCustom:
		return e.CustomHours
	default:
		return fullTimeBaseline
	}
}

// ShiftTemplate is a reusable shift definition employees are scheduled against
type ShiftTemplate struct {
	ID           string
	Name         string
	StartTime    string // HH:MM
	EndTime      string // HH:MM
	BreakMinutes int
	MinEmployees int
	// MaxEmployees is nil when the template has no upper staffing bound
	MaxEmployees *int
	// Weekdays restricts which days the template applies to; empty means every day
	Weekdays []time.Weekday
}

// AppliesOn reports whether the template may be scheduled on the given weekday
func (t ShiftTemplate) AppliesOn(day time.Weekday) bool {
	if len(t.Weekdays) == 0 {
		return true
	}
	for _, wd := range t.Weekdays {
		if wd == day {
			return true
		}
	}
	return false
}

// TemplateAssignment is an allow-list edge restricting which employees may be
// scheduled onto a template. An employee with zero rows is permitted on every
// template; one or more rows restrict them to exactly those templates.
type TemplateAssignment struct {
	EmployeeID string
	TemplateID string
}

// Shift is a concrete scheduled shift instance
type Shift struct {
	ID           string
	EmployeeID   string
	Date         string // YYYY-MM-DD
	StartTime    string // HH:MM[:SS]
	EndTime      string // HH:MM[:SS]
	BreakMinutes int
	Color        string
	Notes        string
}

// AbsenceType classifies an employee absence
type AbsenceType string

const (
	AbsenceVacation  AbsenceType = "vacation"
	AbsenceSickLeave AbsenceType = "sick_leave"
	AbsenceDayOff    AbsenceType = "day_off"
	AbsenceOther     AbsenceType = "other"
)

// Absence is an inclusive date range during which an employee cannot work
type Absence struct {
	EmployeeID string
	StartDate  string // YYYY-MM-DD, inclusive
	EndDate    string // YYYY-MM-DD, inclusive
	Type       AbsenceType
}

// MonthlyHours is the per-employee scheduled vs required hour summary for a month
type MonthlyHours struct {
	Scheduled float64
	Required  float64
}
