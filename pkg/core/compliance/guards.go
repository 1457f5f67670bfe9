package compliance

import (
	"github.com/zmiana/zmiana/pkg/core/model"
)

// IsAbsent reports whether the employee has any absence covering the given
// date. Absence ranges are inclusive on both ends. Dates are compared as
// YYYY-MM-DD strings, which order lexicographically.
func IsAbsent(employeeID, date string, absences []model.Absence) bool {
	for _, a := range absences {
		if a.EmployeeID != employeeID {
			continue
		}
		if a.StartDate <= date && date <= a.EndDate {
			return true
		}
	}
	return false
}

// IsPermitted reports whether the employee may be scheduled onto the given
// template. An employee with no assignment rows at all is permitted on every
// template; once any row exists they are restricted to exactly the listed
// templates.
func IsPermitted(employeeID, templateID string, assignments []model.TemplateAssignment) bool {
	restricted := false
	for _, a := range assignments {
		if a.EmployeeID != employeeID {
			continue
		}
		restricted = true
		if a.TemplateID == templateID {
			return true
		}
	}
	return !restricted
}

// HasRestrictions reports whether the employee has any assignment rows.
// Used by the suggestion ranker to defensively skip restricted employees
// when a bespoke shift has no identifiable template.
func HasRestrictions(employeeID string, assignments []model.TemplateAssignment) bool {
	for _, a := range assignments {
		if a.EmployeeID == employeeID {
			return true
		}
	}
	return false
}
